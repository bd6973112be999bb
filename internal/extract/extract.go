// Package extract obtains phonetic measurements from an analyzer service.
package extract

import (
	"context"

	"github.com/lmersch/sprooch/internal/model"
)

// Extractor produces the phonetic measurements for one audio file. Failures
// propagate unmodified; scoring never runs on fabricated features.
type Extractor interface {
	Extract(ctx context.Context, audioPath string) (model.FeatureSet, error)
}
