package stats

import (
	"strings"
	"testing"
)

func TestMovingAverage(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	got := MovingAverage(values, 2)
	want := []float64{10, 15, 25, 35}
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	values := []float64{5, 6, 7}
	got := MovingAverage(values, 1)
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("window 1 should copy values, got %v", got)
		}
	}
	got[0] = 99
	if values[0] == 99 {
		t.Fatal("window 1 must not share the input slice")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("empty input: got %q", got)
	}
	flat := Sparkline([]float64{50, 50, 50})
	if len(flat) != 3 {
		t.Fatalf("flat sparkline length = %d, want 3", len(flat))
	}
	if flat[0] != flat[1] || flat[1] != flat[2] {
		t.Fatalf("flat series should use one glyph, got %q", flat)
	}
	rising := Sparkline([]float64{0, 50, 100})
	if rising[0] != sparkChars[0] {
		t.Errorf("lowest value should map to first glyph, got %q", rising)
	}
	if rising[2] != sparkChars[len(sparkChars)-1] {
		t.Errorf("highest value should map to last glyph, got %q", rising)
	}
	if !strings.ContainsRune(sparkChars, rune(rising[1])) {
		t.Errorf("middle glyph %q not in palette", rising[1])
	}
}
