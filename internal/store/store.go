// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmersch/sprooch/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session and attempt data. It implements the
// session gateway contract.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			user TEXT NOT NULL,
			started_at TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			completed_at TEXT,
			overall_score REAL,
			average_score REAL,
			total_words INTEGER,
			total_attempts INTEGER,
			excellent_count INTEGER,
			good_count INTEGER,
			fair_count INTEGER,
			poor_count INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS word_attempts (
			id INTEGER PRIMARY KEY,
			session_id INTEGER NOT NULL,
			word TEXT NOT NULL,
			translation TEXT NOT NULL,
			category TEXT NOT NULL,
			score REAL NOT NULL,
			feedback TEXT NOT NULL,
			insight_json TEXT NOT NULL,
			attempt_number INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_completed_at ON sessions(completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_word_attempts_session ON word_attempts(session_id);`,
		`CREATE INDEX IF NOT EXISTS idx_word_attempts_word ON word_attempts(word);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateSession opens a persisted practice session for a user.
func (s *Store) CreateSession(ctx context.Context, user string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (user, started_at) VALUES (?, ?)`,
		user, time.Now().Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SaveAttempt stores one recorded pronunciation attempt.
func (s *Store) SaveAttempt(ctx context.Context, sessionID int64, word, translation, category string, attempt model.Attempt) error {
	insightJSON, err := json.Marshal(attempt.Insight)
	if err != nil {
		return fmt.Errorf("failed to encode insight: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO word_attempts (session_id, word, translation, category, score, feedback, insight_json, attempt_number, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		word,
		translation,
		category,
		attempt.Score,
		attempt.Feedback,
		string(insightJSON),
		attempt.AttemptNumber,
		attempt.Timestamp.Format(time.RFC3339Nano),
	)
	return err
}

// CompleteSession marks a session finished and stores its summary columns.
func (s *Store) CompleteSession(ctx context.Context, sessionID int64, summary model.SessionSummary) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET
			completed = 1,
			completed_at = ?,
			overall_score = ?,
			average_score = ?,
			total_words = ?,
			total_attempts = ?,
			excellent_count = ?,
			good_count = ?,
			fair_count = ?,
			poor_count = ?
		 WHERE id = ?`,
		time.Now().Format(time.RFC3339Nano),
		summary.OverallScore,
		summary.AverageScore,
		summary.TotalWords,
		summary.TotalAttempts,
		summary.ExcellentCount,
		summary.GoodCount,
		summary.FairCount,
		summary.PoorCount,
		sessionID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %d does not exist", sessionID)
	}
	return nil
}

// ListSessions returns completed sessions ordered by completion time.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	clauses := []string{"completed = 1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "completed_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, completed_at, overall_score, average_score, total_words, total_attempts,
			excellent_count, good_count, fair_count, poor_count
		FROM sessions
		WHERE %s
		ORDER BY completed_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var completedAt string
		if err := rows.Scan(&rec.SessionID, &completedAt, &rec.OverallScore, &rec.AverageScore,
			&rec.TotalWords, &rec.TotalAttempts,
			&rec.ExcellentCount, &rec.GoodCount, &rec.FairCount, &rec.PoorCount); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, completedAt)
		if err != nil {
			return nil, err
		}
		rec.CompletedAt = parsed
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetWeakWords aggregates per-word best scores over the most recent
// completed sessions, for weak-word-focused practice.
func (s *Store) GetWeakWords(ctx context.Context, window int) ([]model.WordAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE completed = 1
		ORDER BY completed_at DESC
		LIMIT ?
	)
	SELECT wa.word, MAX(wa.score) AS best, COUNT(*) AS attempts
	FROM word_attempts wa
	JOIN recent_sessions r ON r.id = wa.session_id
	GROUP BY wa.word`

	rows, err := s.db.QueryContext(ctx, query, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.WordAggregate
	for rows.Next() {
		var agg model.WordAggregate
		if err := rows.Scan(&agg.Word, &agg.BestScore, &agg.Attempts); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListCategoryAggregates computes per-category averages of per-word best
// scores across the given sessions.
func (s *Store) ListCategoryAggregates(ctx context.Context, sessionIDs []int64) (map[string]model.CategoryStat, error) {
	if len(sessionIDs) == 0 {
		return map[string]model.CategoryStat{}, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT category, AVG(best) AS average, COUNT(*) AS count
		FROM (
			SELECT session_id, word, category, MAX(score) AS best
			FROM word_attempts
			WHERE session_id IN (%s)
			GROUP BY session_id, word, category
		)
		GROUP BY category`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[string]model.CategoryStat{}
	for rows.Next() {
		var category string
		var stat model.CategoryStat
		if err := rows.Scan(&category, &stat.Average, &stat.Count); err != nil {
			return nil, err
		}
		result[category] = stat
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
