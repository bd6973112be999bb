package feedback

import (
	"fmt"

	"github.com/lmersch/sprooch/internal/model"
)

// praiseThreshold is the sub-score at or above which a feature earns its
// positive label instead of issue analysis.
const praiseThreshold = 80

// Generate walks the five features in their fixed order and produces the
// positive notes, issue labels, and suggestions for one attempt. Every
// feature below the praise threshold yields at least one issue: if no
// specific rule fires, a generic one is appended.
func Generate(ref, user model.FeatureSet, result model.ComparisonResult) (improvements, issues, suggestions []string) {
	for _, feature := range model.FeatureOrder {
		score := result.Breakdown[feature]
		if score >= praiseThreshold {
			improvements = append(improvements, praiseLabels[feature])
			continue
		}

		fired := false
		for _, r := range featureRules[feature] {
			if !r.when(ref, user) {
				continue
			}
			issues = append(issues, r.issue)
			suggestions = append(suggestions, r.suggestion(ref, user))
			fired = true
		}
		if !fired {
			issues = append(issues, fmt.Sprintf("%s differs from reference", genericLabels[feature]))
			suggestions = append(suggestions, genericSuggestion)
		}
	}
	return improvements, issues, suggestions
}
