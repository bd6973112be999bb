// Package compare scores phonetic feature pairs against a reference.
package compare

import (
	"math"

	"github.com/lmersch/sprooch/internal/align"
	"github.com/lmersch/sprooch/internal/model"
)

// Tolerance thresholds.
const (
	formantToleranceHz   = 150.0 // F1/F2; F3 uses 1.5x
	intensityToleranceDB = 3.0
	durationTolerance    = 0.2 // ±20% timing band
	jitterThreshold      = 0.01
	shimmerThreshold     = 0.0381
)

// Pitch compares intonation patterns. Returns the 0-100 score and whether a
// real comparison was possible. Two fully unvoiced recordings match by
// definition (100) but carry no pitch information, so computed is false;
// a voicing mismatch is a genuine zero.
func Pitch(ref, user model.PitchFeatures) (float64, bool) {
	if ref.MeanF0 == 0 || user.MeanF0 == 0 {
		if ref.MeanF0 == user.MeanF0 {
			return 100, false
		}
		return 0, true
	}

	meanDiffRatio := math.Abs(ref.MeanF0-user.MeanF0) / ref.MeanF0
	meanScore := math.Max(0, 100-meanDiffRatio*200)

	var rangeScore float64
	if ref.RangeF0 > 0 {
		rangeDiffRatio := math.Abs(ref.RangeF0-user.RangeF0) / ref.RangeF0
		rangeScore = math.Max(0, 100-rangeDiffRatio*100)
	} else if user.RangeF0 == 0 {
		rangeScore = 100
	} else {
		rangeScore = 50
	}

	// Contour shapes are compared on z-normalized samples so absolute
	// speaker pitch drops out. Too-short contours fall back to the mean
	// score.
	contourScore := meanScore
	if len(ref.Contour) > 2 && len(user.Contour) > 2 {
		refNorm := zNormalize(ref.Contour, ref.MeanF0, ref.StdF0)
		userNorm := zNormalize(user.Contour, user.MeanF0, user.StdF0)
		dist := align.Distance(refNorm, userNorm, align.AbsDiff)
		contourScore = math.Max(0, 100-dist*20)
	}

	return clamp(meanScore*0.3 + rangeScore*0.3 + contourScore*0.4), true
}

// Formants compares vowel quality via F1/F2/F3 means. F1 and F2 carry most
// of the perceptual weight; unavailable formants drop out with the weights
// renormalized, and with no measurable formant at all the score degrades to
// zero with computed false.
func Formants(ref, user model.FormantFeatures) (float64, bool) {
	var scores []float64
	if ref.F1Mean > 0 {
		diff := math.Abs(ref.F1Mean - user.F1Mean)
		scores = append(scores, math.Max(0, 100-diff/formantToleranceHz*100))
	}
	if ref.F2Mean > 0 {
		diff := math.Abs(ref.F2Mean - user.F2Mean)
		scores = append(scores, math.Max(0, 100-diff/formantToleranceHz*100))
	}
	if ref.F3Mean > 0 {
		diff := math.Abs(ref.F3Mean - user.F3Mean)
		scores = append(scores, math.Max(0, 100-diff/(formantToleranceHz*1.5)*100))
	}

	switch len(scores) {
	case 0:
		return 0, false
	case 1:
		return clamp(scores[0]), true
	case 2:
		return clamp(scores[0]*0.5 + scores[1]*0.5), true
	default:
		return clamp(scores[0]*0.4 + scores[1]*0.4 + scores[2]*0.2), true
	}
}

// Intensity compares loudness level and stress patterns.
func Intensity(ref, user model.IntensityFeatures) (float64, bool) {
	if ref.MeanDB == 0 || user.MeanDB == 0 {
		return 0, false
	}

	meanDiff := math.Abs(ref.MeanDB - user.MeanDB)
	meanScore := math.Max(0, 100-meanDiff/intensityToleranceDB*33)

	var rangeScore float64
	if ref.RangeDB > 0 {
		rangeDiffRatio := math.Abs(ref.RangeDB-user.RangeDB) / ref.RangeDB
		rangeScore = math.Max(0, 100-rangeDiffRatio*100)
	} else if user.RangeDB == 0 {
		rangeScore = 100
	} else {
		rangeScore = 70
	}

	contourScore := meanScore
	if len(ref.Contour) > 2 && len(user.Contour) > 2 {
		refNorm := zNormalize(ref.Contour, ref.MeanDB, ref.StdDB)
		userNorm := zNormalize(user.Contour, user.MeanDB, user.StdDB)
		dist := align.Distance(refNorm, userNorm, align.AbsDiff)
		contourScore = math.Max(0, 100-dist*25)
	}

	return clamp(meanScore*0.4 + rangeScore*0.2 + contourScore*0.4), true
}

// Duration compares timing and rhythm within a ±20% tolerance band.
func Duration(ref, user model.DurationFeatures) (float64, bool) {
	if ref.TotalDuration == 0 {
		return 0, false
	}

	durationRatio := user.TotalDuration / ref.TotalDuration
	durationScore := math.Max(0, 100-math.Abs(1-durationRatio)/durationTolerance*100)

	rateScore := durationScore
	if ref.SpeechRate > 0 {
		rateRatio := user.SpeechRate / ref.SpeechRate
		rateScore = math.Max(0, 100-math.Abs(1-rateRatio)/durationTolerance*100)
	}

	return clamp(durationScore*0.6 + rateScore*0.4), true
}

// VoiceQuality compares clarity and stability. Jitter and shimmer score a
// neutral 100 when both sides sit below the healthy thresholds; with no
// computable sub-score at all the result is a neutral 50 with computed false.
func VoiceQuality(ref, user model.VoiceQualityFeatures) (float64, bool) {
	var scores []float64

	if ref.MeanHNR > 0 {
		hnrDiff := math.Abs(ref.MeanHNR - user.MeanHNR)
		scores = append(scores, math.Max(0, 100-hnrDiff/5*25)) // 5 dB per 25-point penalty
	}

	if ref.Jitter > 0 || user.Jitter > 0 {
		jitterAvg := (ref.Jitter + user.Jitter) / 2
		if jitterAvg < jitterThreshold {
			scores = append(scores, 100)
		} else {
			jitterDiff := math.Abs(ref.Jitter - user.Jitter)
			scores = append(scores, math.Max(0, 100-jitterDiff/jitterThreshold*50))
		}
	}

	if ref.Shimmer > 0 || user.Shimmer > 0 {
		shimmerAvg := (ref.Shimmer + user.Shimmer) / 2
		if shimmerAvg < shimmerThreshold {
			scores = append(scores, 100)
		} else {
			shimmerDiff := math.Abs(ref.Shimmer - user.Shimmer)
			scores = append(scores, math.Max(0, 100-shimmerDiff/shimmerThreshold*50))
		}
	}

	if len(scores) == 0 {
		return 50, false
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return clamp(sum / float64(len(scores))), true
}

func zNormalize(contour []float64, mean, std float64) []float64 {
	out := make([]float64, len(contour))
	for i, v := range contour {
		out[i] = (v - mean) / (std + 1)
	}
	return out
}

func clamp(score float64) float64 {
	return math.Max(0, math.Min(100, score))
}
