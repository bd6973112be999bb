package feedback

import (
	"strings"
	"testing"

	"github.com/lmersch/sprooch/internal/model"
)

func breakdownAt(values map[string]float64) map[string]float64 {
	breakdown := map[string]float64{}
	for _, feature := range model.FeatureOrder {
		breakdown[feature] = 70
	}
	for feature, v := range values {
		breakdown[feature] = v
	}
	return breakdown
}

func TestTrendNoneWithoutPrevious(t *testing.T) {
	current := model.ComparisonResult{TotalScore: 60, Breakdown: breakdownAt(nil)}
	trend, message, change, reasons := Trend(current, nil)
	if trend != model.TrendNone || message != "" || change != 0 || reasons != nil {
		t.Fatalf("Trend without previous = (%v, %q, %v, %v)", trend, message, change, reasons)
	}
}

func TestTrendImproving(t *testing.T) {
	previous := model.ComparisonResult{TotalScore: 50, Breakdown: breakdownAt(nil)}
	current := model.ComparisonResult{TotalScore: 62, Breakdown: breakdownAt(nil)}
	trend, message, change, _ := Trend(current, &previous)
	if trend != model.TrendImproving {
		t.Fatalf("trend = %v, want improving", trend)
	}
	if change != 12 {
		t.Fatalf("score change = %v, want 12", change)
	}
	if !strings.Contains(message, "12.0") {
		t.Fatalf("message %q missing delta", message)
	}
}

func TestTrendDecliningListsRegressedFeatures(t *testing.T) {
	previous := model.ComparisonResult{
		TotalScore: 70,
		Breakdown:  breakdownAt(map[string]float64{model.FeatureFormants: 85, model.FeatureDuration: 80}),
	}
	current := model.ComparisonResult{
		TotalScore: 58,
		Breakdown:  breakdownAt(map[string]float64{model.FeatureFormants: 60, model.FeatureDuration: 79}),
	}
	trend, _, change, reasons := Trend(current, &previous)
	if trend != model.TrendDeclining {
		t.Fatalf("trend = %v, want declining", trend)
	}
	if change != -12 {
		t.Fatalf("score change = %v, want -12", change)
	}
	if len(reasons) != 1 || !strings.Contains(reasons[0], "vowel pronunciation") {
		t.Fatalf("decline reasons = %v, want only the formant regression", reasons)
	}
}

func TestTrendStable(t *testing.T) {
	previous := model.ComparisonResult{TotalScore: 60, Breakdown: breakdownAt(nil)}
	current := model.ComparisonResult{TotalScore: 63, Breakdown: breakdownAt(nil)}
	trend, message, _, _ := Trend(current, &previous)
	if trend != model.TrendStable {
		t.Fatalf("trend = %v, want stable", trend)
	}
	if !strings.Contains(message, "+3.0") {
		t.Fatalf("message %q missing signed delta", message)
	}
}

func TestMessageThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{95, "Excellent"},
		{80, "Excellent"},
		{79.9, "Good job"},
		{60, "Good job"},
		{45, "Not bad"},
		{10, "Keep trying"},
	}
	for _, tc := range cases {
		if got := Message(tc.score); !strings.HasPrefix(got, tc.want) {
			t.Fatalf("Message(%v) = %q, want prefix %q", tc.score, got, tc.want)
		}
	}
}
