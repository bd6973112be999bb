package session

import (
	"context"

	"github.com/lmersch/sprooch/internal/model"
)

// Gateway persists session progress. Writes are best-effort from the
// session's point of view: a failed write is reported to the caller but the
// in-memory record is kept.
type Gateway interface {
	// CreateSession opens a persisted session for a user and returns its id.
	CreateSession(ctx context.Context, user string) (int64, error)
	// SaveAttempt stores one recorded attempt.
	SaveAttempt(ctx context.Context, sessionID int64, word, translation, category string, attempt model.Attempt) error
	// CompleteSession marks the session finished and stores its summary.
	CompleteSession(ctx context.Context, sessionID int64, summary model.SessionSummary) error
}
