// Package stats contains progress calculations and reporting.
package stats

import (
	"context"

	"github.com/lmersch/sprooch/internal/model"
	"github.com/lmersch/sprooch/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions   []model.SessionRecord
	Categories map[string]model.CategoryStat
	WeakWords  []model.WordAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	categories, err := st.ListCategoryAggregates(ctx, sessionIDs(sessions))
	if err != nil {
		return Report{}, err
	}
	weakWindow := cfg.Last
	if weakWindow <= 0 {
		weakWindow = len(sessions)
	}
	weakWords, err := st.GetWeakWords(ctx, weakWindow)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions:   sessions,
		Categories: categories,
		WeakWords:  weakWords,
	}, nil
}

func sessionIDs(sessions []model.SessionRecord) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}
