// Package session manages multi-word pronunciation practice sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/lmersch/sprooch/internal/model"
)

// DefaultMaxAttempts is the per-word attempt ceiling.
const DefaultMaxAttempts = 3

var (
	// ErrUnknownWord indicates the word is not part of this session.
	ErrUnknownWord = errors.New("session: word not in session")

	// ErrSessionActive indicates the summary was requested before all words
	// were practiced.
	ErrSessionActive = errors.New("session: session not complete")
)

// Options configure a new session.
type Options struct {
	// Rand drives word sampling. Nil means time-seeded.
	Rand *rand.Rand
	// Gateway persists attempts and the final summary. Nil disables
	// persistence.
	Gateway Gateway
	// User identifies the learner for persistence.
	User string
	// MaxAttempts overrides the per-word ceiling when positive.
	MaxAttempts int
	// WeakWeights biases sampling toward words the learner historically
	// scores low on. Words absent from the map keep weight 1.
	WeakWeights map[string]float64
}

// Session owns the word list, per-word results, and progress index for one
// learner's practice run. It is not safe for concurrent use; isolation
// between learners comes from instance separation.
type Session struct {
	words       []model.WordInfo
	index       int
	results     map[string]*model.WordResult
	maxAttempts int

	gateway   Gateway
	gatewayID int64
	saved     bool

	now func() time.Time
}

// New samples min(target, eligible pool) distinct words with a reference
// recording and initializes empty results for each. When a gateway is
// configured, a persisted session is created up front; that failure is fatal
// because every later write would fail too.
func New(ctx context.Context, pool []model.WordInfo, target int, opts Options) (*Session, error) {
	eligible := make([]model.WordInfo, 0, len(pool))
	for _, w := range pool {
		if w.HasReference() {
			eligible = append(eligible, w)
		}
	}
	if len(eligible) == 0 {
		return nil, errors.New("session: no words with reference audio available")
	}
	if target > len(eligible) {
		target = len(eligible)
	}
	if target <= 0 {
		return nil, errors.New("session: target word count must be positive")
	}

	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var words []model.WordInfo
	if len(opts.WeakWeights) > 0 {
		words = sampleWeighted(rnd, eligible, target, opts.WeakWeights)
	} else {
		words = sampleUniform(rnd, eligible, target)
	}

	s := &Session{
		words:       words,
		results:     make(map[string]*model.WordResult, len(words)),
		maxAttempts: DefaultMaxAttempts,
		gateway:     opts.Gateway,
		now:         time.Now,
	}
	if opts.MaxAttempts > 0 {
		s.maxAttempts = opts.MaxAttempts
	}
	for _, w := range words {
		s.results[w.Word] = &model.WordResult{
			Word:        w.Word,
			Translation: w.Translation,
			Category:    w.Category,
		}
	}

	if s.gateway != nil {
		id, err := s.gateway.CreateSession(ctx, opts.User)
		if err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		s.gatewayID = id
	}
	return s, nil
}

// Words returns the sampled word list in practice order.
func (s *Session) Words() []model.WordInfo {
	out := make([]model.WordInfo, len(s.words))
	copy(out, s.words)
	return out
}

// MaxAttempts returns the per-word attempt ceiling.
func (s *Session) MaxAttempts() int {
	return s.maxAttempts
}

// Current returns the word being practiced, or false once complete.
func (s *Session) Current() (model.WordInfo, bool) {
	if s.Complete() {
		return model.WordInfo{}, false
	}
	return s.words[s.index], true
}

// AttemptsSoFar returns the number of recorded attempts for a word.
func (s *Session) AttemptsSoFar(word string) int {
	if r, ok := s.results[word]; ok {
		return len(r.Attempts)
	}
	return 0
}

// LastComparison rebuilds the most recent attempt's comparison result for a
// word, for trend analysis against the next attempt. Nil when no attempt has
// been recorded.
func (s *Session) LastComparison(word string) *model.ComparisonResult {
	r, ok := s.results[word]
	if !ok || len(r.Attempts) == 0 {
		return nil
	}
	last := r.Attempts[len(r.Attempts)-1]
	return &model.ComparisonResult{
		TotalScore: last.Score,
		Breakdown:  last.Insight.Breakdown,
	}
}

// RecordAttempt appends an attempt to the word's history and updates the
// best score. The in-memory record always survives; a gateway write failure
// is returned alongside the recorded attempt so the caller can surface it.
func (s *Session) RecordAttempt(ctx context.Context, word string, score float64, feedbackMsg string, insight model.Insight) (model.Attempt, error) {
	r, ok := s.results[word]
	if !ok {
		return model.Attempt{}, ErrUnknownWord
	}

	attempt := model.Attempt{
		Word:          word,
		Score:         score,
		Feedback:      feedbackMsg,
		Insight:       insight,
		AttemptNumber: len(r.Attempts) + 1,
		Timestamp:     s.now(),
	}
	r.Attempts = append(r.Attempts, attempt)
	if score > r.BestScore {
		r.BestScore = score
	}

	if s.gateway != nil {
		if err := s.gateway.SaveAttempt(ctx, s.gatewayID, word, r.Translation, r.Category, attempt); err != nil {
			return attempt, fmt.Errorf("save attempt: %w", err)
		}
	}
	return attempt, nil
}

// CanAdvance reports whether the learner may move past a word: any recorded
// attempt is enough, and the attempt ceiling forces it.
func (s *Session) CanAdvance(word string) bool {
	r, ok := s.results[word]
	if !ok {
		return false
	}
	n := len(r.Attempts)
	return n >= s.maxAttempts || n > 0
}

// Advance moves to the next word. A no-op once the session is complete.
func (s *Session) Advance() {
	if !s.Complete() {
		s.index++
	}
}

// Complete reports whether every word has been passed.
func (s *Session) Complete() bool {
	return s.index >= len(s.words)
}

// Progress returns the current index, total word count, and percentage.
func (s *Session) Progress() (index, total int, pct float64) {
	total = len(s.words)
	if total > 0 {
		pct = float64(s.index) / float64(total) * 100
	}
	return s.index, total, pct
}

// Result returns the accumulated result for a word.
func (s *Session) Result(word string) (model.WordResult, bool) {
	r, ok := s.results[word]
	if !ok {
		return model.WordResult{}, false
	}
	return *r, true
}

// Summary computes the session aggregates. It fails before completion, and
// persists the summary through the gateway exactly once: a persistence error
// is returned with the computed summary, and a retry will attempt the write
// again.
func (s *Session) Summary(ctx context.Context) (model.SessionSummary, error) {
	if !s.Complete() {
		return model.SessionSummary{}, ErrSessionActive
	}

	summary := s.aggregate()

	if s.gateway != nil && !s.saved {
		if err := s.gateway.CompleteSession(ctx, s.gatewayID, summary); err != nil {
			return summary, fmt.Errorf("complete session: %w", err)
		}
		s.saved = true
	}
	return summary, nil
}

func (s *Session) aggregate() model.SessionSummary {
	summary := model.SessionSummary{
		TotalWords: len(s.words),
		Categories: map[string]model.CategoryStat{},
	}

	var bestSum, allSum float64
	var allCount int
	first := true
	for _, w := range s.words {
		r := s.results[w.Word]
		summary.TotalAttempts += len(r.Attempts)
		for _, a := range r.Attempts {
			allSum += a.Score
			allCount++
		}

		best := r.BestScore
		bestSum += best
		if first || best > summary.BestScore {
			summary.BestScore = best
		}
		if first || best < summary.WorstScore {
			summary.WorstScore = best
		}
		first = false

		switch {
		case best >= 80:
			summary.ExcellentCount++
		case best >= 60:
			summary.GoodCount++
		case best >= 40:
			summary.FairCount++
		default:
			summary.PoorCount++
		}

		stat := summary.Categories[r.Category]
		stat.Average = (stat.Average*float64(stat.Count) + best) / float64(stat.Count+1)
		stat.Count++
		summary.Categories[r.Category] = stat
	}

	if len(s.words) > 0 {
		summary.OverallScore = bestSum / float64(len(s.words))
	}
	if allCount > 0 {
		summary.AverageScore = allSum / float64(allCount)
	}
	return summary
}
