// Package sqlite is the default ResultStore, backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/storage"
)

// Store is a SQLite implementation of ResultStore
type Store struct {
	db *sql.DB
}

var _ storage.ResultStore = (*Store)(nil)

// New creates a new SQLite store
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS session_results (
			session_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			overall_score REAL NOT NULL,
			completed_at INTEGER NOT NULL,
			report TEXT NOT NULL,
			transcript TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_results_user ON session_results(user_id, completed_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

// Save inserts a completed session. The insert is a no-op on an existing
// session id, which is reported as storage.ErrAlreadyExists.
func (s *Store) Save(ctx context.Context, result *domain.SessionResult) error {
	if err := storage.Validate(result); err != nil {
		return err
	}

	report, err := json.Marshal(result.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	var transcript []byte
	if result.Transcript != nil {
		if transcript, err = json.Marshal(result.Transcript); err != nil {
			return fmt.Errorf("failed to marshal transcript: %w", err)
		}
	}
	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `INSERT INTO session_results
		(session_id, user_id, topic, difficulty, overall_score, completed_at, report, transcript, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO NOTHING`

	res, err := s.db.ExecContext(ctx, query,
		result.SessionID,
		result.UserID,
		result.Report.Topic,
		string(result.Report.Difficulty),
		result.Report.OverallScore,
		result.Report.CompletedAt.UnixNano(),
		string(report),
		nullableString(transcript),
		createdAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session result: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", result.SessionID, storage.ErrAlreadyExists)
	}
	return nil
}

// Get loads a stored session result.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.SessionResult, error) {
	query := `SELECT user_id, report, transcript, created_at FROM session_results WHERE session_id = ?`

	var (
		userID     string
		report     string
		transcript sql.NullString
		createdAt  int64
	)
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&userID, &report, &transcript, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session result: %w", err)
	}

	result := &domain.SessionResult{
		SessionID: sessionID,
		UserID:    userID,
		Report:    &domain.FinalReport{},
		CreatedAt: time.Unix(0, createdAt).UTC(),
	}
	if err := json.Unmarshal([]byte(report), result.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	if transcript.Valid && transcript.String != "" {
		result.Transcript = &domain.Session{}
		if err := json.Unmarshal([]byte(transcript.String), result.Transcript); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
		}
	}
	return result, nil
}

// ListByUser returns the user's reports, most recent first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]domain.FinalReport, error) {
	query := `SELECT report FROM session_results
		WHERE user_id = ?
		ORDER BY completed_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.FinalReport{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		var r domain.FinalReport
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func nullableString(b []byte) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
