package compare

import (
	"github.com/lmersch/sprooch/internal/model"
)

// Weights combines the five sub-scores into the total. Formants carry the
// largest weight because vowel quality dominates perceived pronunciation
// accuracy. The values sum to exactly 1.0.
var Weights = map[string]float64{
	model.FeaturePitch:        0.20,
	model.FeatureFormants:     0.35,
	model.FeatureIntensity:    0.15,
	model.FeatureDuration:     0.15,
	model.FeatureVoiceQuality: 0.15,
}

// Score compares every feature pair and combines the sub-scores into one
// weighted total, clamped to [0,100]. Features whose inputs were absent keep
// their degenerate sub-score in the breakdown and are listed in Missing.
func Score(ref, user model.FeatureSet) model.ComparisonResult {
	breakdown := make(map[string]float64, len(model.FeatureOrder))
	var missing []string

	for _, feature := range model.FeatureOrder {
		var score float64
		var computed bool
		switch feature {
		case model.FeaturePitch:
			score, computed = Pitch(ref.Pitch, user.Pitch)
		case model.FeatureFormants:
			score, computed = Formants(ref.Formants, user.Formants)
		case model.FeatureIntensity:
			score, computed = Intensity(ref.Intensity, user.Intensity)
		case model.FeatureDuration:
			score, computed = Duration(ref.Duration, user.Duration)
		case model.FeatureVoiceQuality:
			score, computed = VoiceQuality(ref.VoiceQuality, user.VoiceQuality)
		}
		breakdown[feature] = score
		if !computed {
			missing = append(missing, feature)
		}
	}

	var total float64
	for feature, score := range breakdown {
		total += score * Weights[feature]
	}

	return model.ComparisonResult{
		TotalScore: clamp(total),
		Breakdown:  breakdown,
		Missing:    missing,
	}
}
