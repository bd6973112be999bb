// Package model defines shared data structures.
package model

import "time"

// PitchFeatures holds fundamental-frequency measurements for one recording.
// All fields are zero when no voiced frames were detected.
type PitchFeatures struct {
	MeanF0  float64   `json:"mean_f0"`
	StdF0   float64   `json:"std_f0"`
	MinF0   float64   `json:"min_f0"`
	MaxF0   float64   `json:"max_f0"`
	RangeF0 float64   `json:"range_f0"`
	Contour []float64 `json:"contour"`
}

// FormantFeatures holds vowel-quality resonance measurements.
type FormantFeatures struct {
	F1Mean float64 `json:"f1_mean"`
	F1Std  float64 `json:"f1_std"`
	F2Mean float64 `json:"f2_mean"`
	F2Std  float64 `json:"f2_std"`
	F3Mean float64 `json:"f3_mean"`
	F3Std  float64 `json:"f3_std"`
}

// IntensityFeatures holds loudness measurements in dB.
type IntensityFeatures struct {
	MeanDB  float64   `json:"mean_db"`
	StdDB   float64   `json:"std_db"`
	MaxDB   float64   `json:"max_db"`
	RangeDB float64   `json:"range_db"`
	Contour []float64 `json:"contour"`
}

// DurationFeatures holds timing and rhythm measurements in seconds.
type DurationFeatures struct {
	TotalDuration  float64 `json:"total_duration"`
	VoicedDuration float64 `json:"voiced_duration"`
	SpeechRate     float64 `json:"speech_rate"`
	PauseRatio     float64 `json:"pause_ratio"`
}

// VoiceQualityFeatures holds clarity and stability measurements.
type VoiceQualityFeatures struct {
	MeanHNR float64 `json:"mean_hnr"`
	StdHNR  float64 `json:"std_hnr"`
	Jitter  float64 `json:"jitter"`
	Shimmer float64 `json:"shimmer"`
}

// FeatureSet groups all phonetic measurements extracted from one recording.
// Sub-features the analyzer could not detect are zero-filled, never omitted.
type FeatureSet struct {
	Pitch        PitchFeatures        `json:"pitch"`
	Formants     FormantFeatures      `json:"formants"`
	Intensity    IntensityFeatures    `json:"intensity"`
	Duration     DurationFeatures     `json:"duration"`
	VoiceQuality VoiceQualityFeatures `json:"voice_quality"`
}

// Canonical feature names, in the fixed order all scoring and feedback
// processing follows.
const (
	FeaturePitch        = "pitch"
	FeatureFormants     = "formants"
	FeatureIntensity    = "intensity"
	FeatureDuration     = "duration"
	FeatureVoiceQuality = "voice_quality"
)

// FeatureOrder lists the five feature names in processing order.
var FeatureOrder = []string{
	FeaturePitch,
	FeatureFormants,
	FeatureIntensity,
	FeatureDuration,
	FeatureVoiceQuality,
}

// ComparisonResult holds the weighted total score and per-feature breakdown
// for one reference/user comparison. Missing lists features whose inputs were
// absent from the recordings, so a degenerate sub-score can be told apart
// from a legitimately low one.
type ComparisonResult struct {
	TotalScore float64
	Breakdown  map[string]float64
	Missing    []string
}

// Trend classifies score movement between attempts on the same word.
type Trend string

// Trend values.
const (
	TrendNone      Trend = "none"
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Insight carries categorized diagnostic feedback for one attempt.
type Insight struct {
	Improvements   []string           `json:"improvements"`
	Issues         []string           `json:"issues"`
	Suggestions    []string           `json:"suggestions"`
	Breakdown      map[string]float64 `json:"breakdown"`
	Trend          Trend              `json:"trend"`
	TrendMessage   string             `json:"trend_message,omitempty"`
	ScoreChange    float64            `json:"score_change"`
	DeclineReasons []string           `json:"decline_reasons,omitempty"`
}

// Attempt records one pronunciation attempt. Immutable once recorded.
type Attempt struct {
	Word          string
	Score         float64
	Feedback      string
	Insight       Insight
	AttemptNumber int
	Timestamp     time.Time
}

// WordResult accumulates attempts for one session word.
type WordResult struct {
	Word        string
	Translation string
	Category    string
	Attempts    []Attempt
	BestScore   float64
}

// WordInfo describes a practice word from the word bank.
type WordInfo struct {
	Word        string
	Translation string
	Category    string
	AudioURL    string
}

// HasReference reports whether a reference recording is configured.
func (w WordInfo) HasReference() bool {
	return w.AudioURL != ""
}

// CategoryStat aggregates best scores for one word category.
type CategoryStat struct {
	Average float64
	Count   int
}

// SessionSummary holds the aggregate statistics of a completed session.
type SessionSummary struct {
	TotalWords     int
	TotalAttempts  int
	OverallScore   float64
	AverageScore   float64
	BestScore      float64
	WorstScore     float64
	ExcellentCount int
	GoodCount      int
	FairCount      int
	PoorCount      int
	Categories     map[string]CategoryStat
}

// SessionRecord summarizes a persisted session for reporting.
type SessionRecord struct {
	SessionID      int64
	CompletedAt    time.Time
	OverallScore   float64
	AverageScore   float64
	TotalWords     int
	TotalAttempts  int
	ExcellentCount int
	GoodCount      int
	FairCount      int
	PoorCount      int
}

// WordAggregate aggregates attempt outcomes for one word across sessions.
type WordAggregate struct {
	Word      string
	BestScore float64
	Attempts  int
}

// PracticeConfig defines practice session settings.
type PracticeConfig struct {
	Words       int
	MaxAttempts int
	FocusWeak   bool
	WeakTop     int
	WeakFactor  float64
	WeakWindow  int
	AnalyzerURL string
	RecordCmd   string
	User        string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}
