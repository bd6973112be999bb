package feedback

import (
	"fmt"

	"github.com/lmersch/sprooch/internal/model"
)

// trendWindow is the score delta beyond which an attempt counts as moving.
const trendWindow = 5.0

// declineLabels give per-feature human wording for decline reasons.
var declineLabels = map[string]string{
	model.FeaturePitch:        "intonation",
	model.FeatureFormants:     "vowel pronunciation",
	model.FeatureIntensity:    "stress patterns",
	model.FeatureDuration:     "timing",
	model.FeatureVoiceQuality: "voice clarity",
}

// Trend compares the current result against the previous attempt on the same
// word. The previous breakdown comes from that word's own attempt history;
// there is no shared state across words or sessions. A nil previous result
// yields TrendNone.
func Trend(current model.ComparisonResult, previous *model.ComparisonResult) (trend model.Trend, message string, scoreChange float64, declineReasons []string) {
	if previous == nil {
		return model.TrendNone, "", 0, nil
	}

	scoreChange = current.TotalScore - previous.TotalScore
	switch {
	case scoreChange > trendWindow:
		trend = model.TrendImproving
		message = fmt.Sprintf("Great! You improved by %.1f points!", scoreChange)
	case scoreChange < -trendWindow:
		trend = model.TrendDeclining
		message = fmt.Sprintf("Your score dropped by %.1f points", -scoreChange)
		for _, feature := range model.FeatureOrder {
			prev, ok := previous.Breakdown[feature]
			if !ok {
				continue
			}
			if current.Breakdown[feature] < prev-trendWindow {
				declineReasons = append(declineReasons,
					fmt.Sprintf("Your %s changed from the previous attempt", declineLabels[feature]))
			}
		}
	default:
		trend = model.TrendStable
		message = fmt.Sprintf("Similar to last time (%+.1f points)", scoreChange)
	}
	return trend, message, scoreChange, declineReasons
}
