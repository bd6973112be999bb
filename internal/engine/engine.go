// Package engine ties scoring, feedback, and trend analysis together.
package engine

import (
	"github.com/lmersch/sprooch/internal/compare"
	"github.com/lmersch/sprooch/internal/feedback"
	"github.com/lmersch/sprooch/internal/model"
)

// Compare scores a user recording against the reference and derives the
// feedback message and insight. The previous result, when non-nil, must come
// from the same word's own attempt history; it drives trend analysis only.
// Compare is stateless and safe for concurrent use.
func Compare(ref, user model.FeatureSet, previous *model.ComparisonResult) (model.ComparisonResult, string, model.Insight) {
	result := compare.Score(ref, user)
	improvements, issues, suggestions := feedback.Generate(ref, user, result)
	trend, trendMessage, scoreChange, declineReasons := feedback.Trend(result, previous)

	insight := model.Insight{
		Improvements:   improvements,
		Issues:         issues,
		Suggestions:    suggestions,
		Breakdown:      result.Breakdown,
		Trend:          trend,
		TrendMessage:   trendMessage,
		ScoreChange:    scoreChange,
		DeclineReasons: declineReasons,
	}
	return result, feedback.Message(result.TotalScore), insight
}
