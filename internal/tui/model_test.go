package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lmersch/sprooch/internal/model"
	"github.com/lmersch/sprooch/internal/reference"
	"github.com/lmersch/sprooch/internal/session"
)

type fakeExtractor struct {
	features model.FeatureSet
	calls    int
}

func (e *fakeExtractor) Extract(_ context.Context, _ string) (model.FeatureSet, error) {
	e.calls++
	return e.features, nil
}

type fakeRecorder struct {
	path string
}

func (r *fakeRecorder) Record(_ context.Context, _ string) (string, error) {
	return r.path, nil
}

func fullFeatures() model.FeatureSet {
	return model.FeatureSet{
		Pitch: model.PitchFeatures{
			MeanF0: 120, StdF0: 10, MinF0: 100, MaxF0: 140, RangeF0: 40,
			Contour: []float64{110, 120, 130},
		},
		Formants: model.FormantFeatures{
			F1Mean: 500, F1Std: 30, F2Mean: 1500, F2Std: 80, F3Mean: 2500, F3Std: 120,
		},
		Intensity: model.IntensityFeatures{
			MeanDB: 65, StdDB: 4, MaxDB: 72, RangeDB: 18,
			Contour: []float64{60, 66, 70},
		},
		Duration: model.DurationFeatures{
			TotalDuration: 0.8, VoicedDuration: 0.6, SpeechRate: 3.5, PauseRatio: 0.1,
		},
		VoiceQuality: model.VoiceQualityFeatures{
			MeanHNR: 18, StdHNR: 2, Jitter: 0.005, Shimmer: 0.02,
		},
	}
}

func newTestModel(t *testing.T, words int) *Model {
	t.Helper()
	dir := t.TempDir()

	refAudio := filepath.Join(dir, "ref.ogg")
	if err := os.WriteFile(refAudio, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write ref audio: %v", err)
	}
	userAudio := filepath.Join(dir, "user.wav")
	if err := os.WriteFile(userAudio, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write user audio: %v", err)
	}

	pool := []model.WordInfo{
		{Word: "moien", Translation: "hello", Category: "greetings", AudioURL: refAudio},
		{Word: "merci", Translation: "thank you", Category: "greetings", AudioURL: refAudio},
	}[:words]

	sess, err := session.New(context.Background(), pool, words, session.Options{})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}

	return NewModel(sess,
		&fakeExtractor{features: fullFeatures()},
		reference.NewManager(filepath.Join(dir, "cache")),
		&fakeRecorder{path: userAudio},
	)
}

func scoreCurrentWord(t *testing.T, m *Model) {
	t.Helper()
	_, cmd := m.startScoring()
	if m.state != stateScoring {
		t.Fatalf("state = %v, want scoring", m.state)
	}
	if cmd == nil {
		t.Fatal("expected a scoring command")
	}
	cached, have := m.refFeatures[m.word.Word]
	msg := m.scoreCmd(m.word, cached, have)()
	scored, ok := msg.(scoredMsg)
	if !ok {
		t.Fatalf("unexpected message %T: %v", msg, msg)
	}
	m.Update(scored)
}

func TestPracticeFlowIdenticalRecording(t *testing.T) {
	m := newTestModel(t, 1)

	scoreCurrentWord(t, m)
	if m.state != stateFeedback {
		t.Fatalf("state = %v, want feedback", m.state)
	}
	if m.lastResult.TotalScore != 100 {
		t.Errorf("TotalScore = %v, want 100", m.lastResult.TotalScore)
	}
	if m.sess.AttemptsSoFar(m.word.Word) != 1 {
		t.Errorf("attempts = %d, want 1", m.sess.AttemptsSoFar(m.word.Word))
	}
	if m.warn != "" {
		t.Errorf("unexpected warning %q", m.warn)
	}

	view := m.View()
	if !strings.Contains(view, "100.0 / 100") {
		t.Errorf("feedback view missing score:\n%s", view)
	}
	if !strings.Contains(view, "Pitch") {
		t.Errorf("feedback view missing breakdown:\n%s", view)
	}

	// Advancing past the only word completes the session.
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if m.state != stateSummary {
		t.Fatalf("state = %v, want summary", m.state)
	}
	if m.summary.TotalWords != 1 || m.summary.ExcellentCount != 1 {
		t.Errorf("summary = %+v", m.summary)
	}
	summaryView := m.View()
	if !strings.Contains(summaryView, "Session complete") {
		t.Errorf("summary view:\n%s", summaryView)
	}
}

func TestReferenceFeaturesCached(t *testing.T) {
	m := newTestModel(t, 1)
	ext := m.extractor.(*fakeExtractor)

	scoreCurrentWord(t, m)
	// First attempt extracts reference and user audio.
	if ext.calls != 2 {
		t.Fatalf("calls = %d, want 2", ext.calls)
	}
	scoreCurrentWord(t, m)
	// Retry reuses the cached reference features.
	if ext.calls != 3 {
		t.Fatalf("calls = %d, want 3", ext.calls)
	}
}

func TestRetryLimitedByMaxAttempts(t *testing.T) {
	m := newTestModel(t, 1)
	for i := 0; i < m.sess.MaxAttempts(); i++ {
		scoreCurrentWord(t, m)
	}
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = updated.(*Model)
	if m.state != stateFeedback || cmd != nil {
		t.Fatal("retry should be rejected at the attempt ceiling")
	}
}

func TestPromptView(t *testing.T) {
	m := newTestModel(t, 2)
	view := m.View()
	if !strings.Contains(view, m.word.Word) {
		t.Errorf("prompt view missing word:\n%s", view)
	}
	if !strings.Contains(view, "Attempt 1 of 3") {
		t.Errorf("prompt view missing attempt counter:\n%s", view)
	}
	if !strings.Contains(view, "word 1 of 2") {
		t.Errorf("prompt view missing progress:\n%s", view)
	}
}

func TestScoreFailureReturnsToPrompt(t *testing.T) {
	m := newTestModel(t, 1)
	m.state = stateScoring
	updated, _ := m.Update(scoreFailedMsg{err: os.ErrNotExist})
	m = updated.(*Model)
	if m.state != statePrompt {
		t.Fatalf("state = %v, want prompt", m.state)
	}
	if m.warn == "" {
		t.Fatal("expected a visible warning")
	}
}
