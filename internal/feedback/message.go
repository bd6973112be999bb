package feedback

// Score bucket thresholds, shared with session summary aggregation.
const (
	ExcellentThreshold = 80
	GoodThreshold      = 60
	FairThreshold      = 40
)

// Message returns the encouragement line for a total score.
func Message(score float64) string {
	switch {
	case score >= ExcellentThreshold:
		return "Excellent! Your pronunciation is very close to the reference!"
	case score >= GoodThreshold:
		return "Good job! Your pronunciation is quite similar. Keep practicing!"
	case score >= FairThreshold:
		return "Not bad! With more practice, you'll improve. Listen to the reference again."
	default:
		return "Keep trying! Listen carefully to the reference and try again."
	}
}
