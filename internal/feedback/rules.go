// Package feedback derives categorized diagnostics from score breakdowns.
package feedback

import (
	"fmt"

	"github.com/lmersch/sprooch/internal/model"
)

// rule maps a signed-deviation predicate to an issue label and suggestion.
// Rules for a feature are evaluated in order; every matching rule fires.
type rule struct {
	when       func(ref, user model.FeatureSet) bool
	issue      string
	suggestion func(ref, user model.FeatureSet) string
}

func fixed(text string) func(model.FeatureSet, model.FeatureSet) string {
	return func(model.FeatureSet, model.FeatureSet) string { return text }
}

var featureRules = map[string][]rule{
	model.FeaturePitch: {
		{
			when: func(ref, user model.FeatureSet) bool {
				return user.Pitch.RangeF0 < ref.Pitch.RangeF0*0.5
			},
			issue:      "Intonation too flat",
			suggestion: fixed("Try varying your pitch more - the reference has more melodic variation"),
		},
		{
			when: func(ref, user model.FeatureSet) bool {
				return user.Pitch.RangeF0 > ref.Pitch.RangeF0*1.5
			},
			issue:      "Too much pitch variation",
			suggestion: fixed("Try to keep your intonation more stable, closer to the reference"),
		},
		{
			when: func(ref, user model.FeatureSet) bool {
				return ref.Pitch.MeanF0 > 0 && user.Pitch.MeanF0/ref.Pitch.MeanF0 >= 1.3
			},
			issue:      "Pitch too high overall",
			suggestion: fixed("Try speaking in a slightly lower pitch range"),
		},
		{
			when: func(ref, user model.FeatureSet) bool {
				return ref.Pitch.MeanF0 > 0 && user.Pitch.MeanF0/ref.Pitch.MeanF0 <= 0.7
			},
			issue:      "Pitch too low overall",
			suggestion: fixed("Try speaking in a slightly higher pitch range"),
		},
	},
	model.FeatureFormants: {
		{
			when: func(ref, user model.FeatureSet) bool {
				return ref.Formants.F1Mean > 0 && user.Formants.F1Mean-ref.Formants.F1Mean > 150
			},
			issue:      "Vowel too open",
			suggestion: fixed("The vowel sound is too open - try closing your mouth slightly"),
		},
		{
			when: func(ref, user model.FeatureSet) bool {
				return ref.Formants.F1Mean > 0 && ref.Formants.F1Mean-user.Formants.F1Mean > 150
			},
			issue:      "Vowel too closed",
			suggestion: fixed("The vowel sound is too closed - try opening your mouth more"),
		},
		{
			when: func(ref, user model.FeatureSet) bool {
				return ref.Formants.F2Mean > 0 && user.Formants.F2Mean-ref.Formants.F2Mean > 200
			},
			issue:      "Tongue too far forward",
			suggestion: fixed("Move your tongue slightly back in your mouth"),
		},
		{
			when: func(ref, user model.FeatureSet) bool {
				return ref.Formants.F2Mean > 0 && ref.Formants.F2Mean-user.Formants.F2Mean > 200
			},
			issue:      "Tongue too far back",
			suggestion: fixed("Move your tongue slightly forward in your mouth"),
		},
	},
	model.FeatureIntensity: {
		{
			when: func(ref, user model.FeatureSet) bool {
				return ref.Intensity.MeanDB-user.Intensity.MeanDB > 5
			},
			issue:      "Speaking too quietly",
			suggestion: fixed("Speak louder or move closer to the microphone"),
		},
		{
			when: func(ref, user model.FeatureSet) bool {
				return user.Intensity.MeanDB-ref.Intensity.MeanDB > 5
			},
			issue:      "Speaking too loudly",
			suggestion: fixed("Speak more softly or move back from the microphone"),
		},
		{
			when: func(ref, user model.FeatureSet) bool {
				return user.Intensity.RangeDB < ref.Intensity.RangeDB*0.6
			},
			issue:      "Stress pattern too flat",
			suggestion: fixed("Add more emphasis variation - some syllables should be louder"),
		},
		{
			when: func(ref, user model.FeatureSet) bool {
				return user.Intensity.RangeDB > ref.Intensity.RangeDB*1.4
			},
			issue:      "Too much emphasis variation",
			suggestion: fixed("Keep your emphasis more consistent with the reference"),
		},
	},
	model.FeatureDuration: {
		{
			when: func(ref, user model.FeatureSet) bool {
				return ref.Duration.TotalDuration > 0 &&
					user.Duration.TotalDuration/ref.Duration.TotalDuration < 0.8
			},
			issue: "Speaking too fast",
			suggestion: func(ref, user model.FeatureSet) string {
				ratio := user.Duration.TotalDuration / ref.Duration.TotalDuration
				return fmt.Sprintf("You're speaking about %d%% too fast - slow down to match the reference pace",
					int((1-ratio)*100))
			},
		},
		{
			when: func(ref, user model.FeatureSet) bool {
				return ref.Duration.TotalDuration > 0 &&
					user.Duration.TotalDuration/ref.Duration.TotalDuration > 1.2
			},
			issue: "Speaking too slowly",
			suggestion: func(ref, user model.FeatureSet) string {
				ratio := user.Duration.TotalDuration / ref.Duration.TotalDuration
				return fmt.Sprintf("You're speaking about %d%% too slowly - speed up slightly",
					int((ratio-1)*100))
			},
		},
	},
	model.FeatureVoiceQuality: {
		{
			when: func(ref, user model.FeatureSet) bool {
				return user.VoiceQuality.MeanHNR < 10
			},
			issue:      "Voice sounds breathy or unclear",
			suggestion: fixed("Use more vocal support and speak more clearly"),
		},
		{
			when: func(ref, user model.FeatureSet) bool {
				return user.VoiceQuality.Jitter > 0.02
			},
			issue:      "Pitch instability",
			suggestion: fixed("Keep your voice more stable - avoid vocal strain"),
		},
		{
			when: func(ref, user model.FeatureSet) bool {
				return user.VoiceQuality.Shimmer > 0.05
			},
			issue:      "Voice volume instability",
			suggestion: fixed("Maintain steadier vocal volume"),
		},
	},
}

// genericLabels name each feature in the fallback issue appended when a
// feature scores below the praise threshold but no specific rule fires.
var genericLabels = map[string]string{
	model.FeaturePitch:        "Intonation",
	model.FeatureFormants:     "Vowel quality",
	model.FeatureIntensity:    "Stress pattern",
	model.FeatureDuration:     "Timing",
	model.FeatureVoiceQuality: "Voice quality",
}

const genericSuggestion = "Listen carefully to the reference and try to match it exactly"

// praiseLabels are the fixed positive notes for features scoring 80 or above.
var praiseLabels = map[string]string{
	model.FeaturePitch:        "Excellent intonation",
	model.FeatureFormants:     "Excellent vowel pronunciation",
	model.FeatureIntensity:    "Good stress and emphasis",
	model.FeatureDuration:     "Good timing and pace",
	model.FeatureVoiceQuality: "Clear voice quality",
}
