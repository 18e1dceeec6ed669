package ports

import (
	"context"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
)

// ResultStore is durable, append-only persistence of completed sessions.
// Implementations: SQLite (default), PostgreSQL, MongoDB, in-memory.
type ResultStore interface {
	// Save records a completed session. Saving the same session twice fails.
	Save(ctx context.Context, result *domain.SessionResult) error

	// Get retrieves the stored result for a session.
	Get(ctx context.Context, sessionID string) (*domain.SessionResult, error)

	// ListByUser returns the user's reports, most recent first.
	ListByUser(ctx context.Context, userID string) ([]domain.FinalReport, error)

	// Close closes the storage connection
	Close() error
}

// ReportArchiver copies completed reports to long-term object storage.
type ReportArchiver interface {
	Archive(ctx context.Context, report *domain.FinalReport) error
}
