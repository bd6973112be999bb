package stats

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPlotWidthFor(t *testing.T) {
	axisWidth := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	total := 80
	expected := total - axisWidth
	if expected < minPlotWidth {
		expected = minPlotWidth
	}
	if got := PlotWidthFor(total); got != expected {
		t.Fatalf("expected width %d, got %d", expected, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestPlotScoresEmptySeries(t *testing.T) {
	var b strings.Builder
	if err := PlotScores(&b, "Empty", []Series{{Name: "none"}}, 20, 5, false); err != nil {
		t.Fatalf("PlotScores: %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("empty series should produce no output, got %q", b.String())
	}
}

func TestPlotScoresRowCount(t *testing.T) {
	var b strings.Builder
	series := []Series{{Name: "Overall", Values: []float64{10, 50, 90}}}
	if err := PlotScores(&b, "Scores", series, 20, 6, false); err != nil {
		t.Fatalf("PlotScores: %v", err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	// Title, six plot rows, and the legend; the trailing blank is trimmed.
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), b.String())
	}
	if lines[0] != "Scores" {
		t.Errorf("first line = %q, want title", lines[0])
	}
}

func TestValueToRowClamps(t *testing.T) {
	if got := valueToRow(150, 8); got != 0 {
		t.Errorf("above-scale value should clamp to top row, got %d", got)
	}
	if got := valueToRow(-20, 8); got != 7 {
		t.Errorf("below-scale value should clamp to bottom row, got %d", got)
	}
}

func TestResampleSeriesDownsamples(t *testing.T) {
	values := []float64{0, 10, 20, 30, 40, 50}
	got := resampleSeries(values, 3)
	want := []float64{5, 25, 45}
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
