package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lmersch/sprooch/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sprooch.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func attempt(word string, score float64, n int) model.Attempt {
	return model.Attempt{
		Word:          word,
		Score:         score,
		Feedback:      "Good job! Keep practicing!",
		Insight:       model.Insight{Breakdown: map[string]float64{model.FeaturePitch: score}},
		AttemptNumber: n,
		Timestamp:     time.Now(),
	}
}

func completeWith(t *testing.T, s *Store, ctx context.Context, id int64, overall float64) {
	t.Helper()
	err := s.CompleteSession(ctx, id, model.SessionSummary{
		TotalWords:     1,
		TotalAttempts:  1,
		OverallScore:   overall,
		AverageScore:   overall,
		ExcellentCount: 1,
	})
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.CreateSession(ctx, "anna")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.SaveAttempt(ctx, id, "moien", "hello", "greetings", attempt("moien", 85, 1)); err != nil {
		t.Fatalf("SaveAttempt: %v", err)
	}

	// Incomplete sessions are invisible to reporting.
	sessions, err := s.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("got %d sessions before completion, want 0", len(sessions))
	}

	completeWith(t, s, ctx, id, 85)

	sessions, err = s.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	rec := sessions[0]
	if rec.SessionID != id {
		t.Errorf("SessionID = %d, want %d", rec.SessionID, id)
	}
	if rec.OverallScore != 85 {
		t.Errorf("OverallScore = %v, want 85", rec.OverallScore)
	}
	if rec.ExcellentCount != 1 {
		t.Errorf("ExcellentCount = %d, want 1", rec.ExcellentCount)
	}
	if rec.CompletedAt.IsZero() {
		t.Error("CompletedAt is zero")
	}
}

func TestCompleteUnknownSession(t *testing.T) {
	s := openTestStore(t)
	if err := s.CompleteSession(context.Background(), 999, model.SessionSummary{}); err == nil {
		t.Fatal("expected error for unknown session")
	}
}

func TestListSessionsSinceFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.CreateSession(ctx, "anna")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	completeWith(t, s, ctx, first, 60)

	cutoff := time.Now()
	time.Sleep(5 * time.Millisecond)

	second, err := s.CreateSession(ctx, "anna")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	completeWith(t, s, ctx, second, 90)

	sessions, err := s.ListSessions(ctx, model.StatsConfig{Since: &cutoff})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions after cutoff, want 1", len(sessions))
	}
	if sessions[0].SessionID != second {
		t.Errorf("SessionID = %d, want %d", sessions[0].SessionID, second)
	}
}

func TestGetWeakWords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	old, err := s.CreateSession(ctx, "anna")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.SaveAttempt(ctx, old, "waasser", "water", "food", attempt("waasser", 40, 1)); err != nil {
		t.Fatalf("SaveAttempt: %v", err)
	}
	completeWith(t, s, ctx, old, 40)
	time.Sleep(5 * time.Millisecond)

	recent, err := s.CreateSession(ctx, "anna")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.SaveAttempt(ctx, recent, "moien", "hello", "greetings", attempt("moien", 55, 1)); err != nil {
		t.Fatalf("SaveAttempt: %v", err)
	}
	if err := s.SaveAttempt(ctx, recent, "moien", "hello", "greetings", attempt("moien", 72, 2)); err != nil {
		t.Fatalf("SaveAttempt: %v", err)
	}
	completeWith(t, s, ctx, recent, 72)

	// Window of 1 keeps only the most recent session.
	weak, err := s.GetWeakWords(ctx, 1)
	if err != nil {
		t.Fatalf("GetWeakWords: %v", err)
	}
	if len(weak) != 1 {
		t.Fatalf("got %d aggregates, want 1", len(weak))
	}
	if weak[0].Word != "moien" {
		t.Errorf("Word = %q, want moien", weak[0].Word)
	}
	if weak[0].BestScore != 72 {
		t.Errorf("BestScore = %v, want 72", weak[0].BestScore)
	}
	if weak[0].Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", weak[0].Attempts)
	}

	weak, err = s.GetWeakWords(ctx, 5)
	if err != nil {
		t.Fatalf("GetWeakWords: %v", err)
	}
	if len(weak) != 2 {
		t.Fatalf("got %d aggregates with wider window, want 2", len(weak))
	}
}

func TestGetWeakWordsZeroWindow(t *testing.T) {
	s := openTestStore(t)
	weak, err := s.GetWeakWords(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetWeakWords: %v", err)
	}
	if weak != nil {
		t.Fatalf("got %v, want nil", weak)
	}
}

func TestListCategoryAggregates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.CreateSession(ctx, "anna")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	// Best per word within a category: moien best 80, merci best 60.
	if err := s.SaveAttempt(ctx, id, "moien", "hello", "greetings", attempt("moien", 50, 1)); err != nil {
		t.Fatalf("SaveAttempt: %v", err)
	}
	if err := s.SaveAttempt(ctx, id, "moien", "hello", "greetings", attempt("moien", 80, 2)); err != nil {
		t.Fatalf("SaveAttempt: %v", err)
	}
	if err := s.SaveAttempt(ctx, id, "merci", "thank you", "greetings", attempt("merci", 60, 1)); err != nil {
		t.Fatalf("SaveAttempt: %v", err)
	}
	if err := s.SaveAttempt(ctx, id, "waasser", "water", "food", attempt("waasser", 90, 1)); err != nil {
		t.Fatalf("SaveAttempt: %v", err)
	}
	completeWith(t, s, ctx, id, 76)

	stats, err := s.ListCategoryAggregates(ctx, []int64{id})
	if err != nil {
		t.Fatalf("ListCategoryAggregates: %v", err)
	}
	greet, ok := stats["greetings"]
	if !ok {
		t.Fatal("missing greetings category")
	}
	if greet.Average != 70 {
		t.Errorf("greetings average = %v, want 70", greet.Average)
	}
	if greet.Count != 2 {
		t.Errorf("greetings count = %d, want 2", greet.Count)
	}
	food, ok := stats["food"]
	if !ok {
		t.Fatal("missing food category")
	}
	if food.Average != 90 || food.Count != 1 {
		t.Errorf("food = %+v, want average 90 count 1", food)
	}
}

func TestListCategoryAggregatesEmpty(t *testing.T) {
	s := openTestStore(t)
	stats, err := s.ListCategoryAggregates(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListCategoryAggregates: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("got %d categories, want 0", len(stats))
	}
}
