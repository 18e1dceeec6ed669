// Package memory is an in-process ResultStore for tests and single-node runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/storage"
)

// Store is an in-memory implementation of ResultStore
type Store struct {
	mu      sync.RWMutex
	results map[string]*domain.SessionResult
	// order records session ids in save order so equal timestamps list newest save first.
	order []string
}

var _ storage.ResultStore = (*Store)(nil)

// New creates a new in-memory store
func New() *Store {
	return &Store{
		results: make(map[string]*domain.SessionResult),
	}
}

// Save stores a deep copy of result.
func (s *Store) Save(ctx context.Context, result *domain.SessionResult) error {
	if err := storage.Validate(result); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.results[result.SessionID]; exists {
		return fmt.Errorf("session %s: %w", result.SessionID, storage.ErrAlreadyExists)
	}

	s.results[result.SessionID] = cloneResult(result)
	s.order = append(s.order, result.SessionID)
	return nil
}

// Get returns a copy of the stored result.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.SessionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.results[sessionID]
	if !exists {
		return nil, fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	return cloneResult(r), nil
}

// ListByUser returns the user's reports, most recent first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]domain.FinalReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := []domain.FinalReport{}
	for i := len(s.order) - 1; i >= 0; i-- {
		r := s.results[s.order[i]]
		if r.UserID == userID {
			reports = append(reports, r.Report.Clone())
		}
	}
	storage.SortNewestFirst(reports)
	return reports, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func cloneResult(r *domain.SessionResult) *domain.SessionResult {
	c := *r
	report := r.Report.Clone()
	c.Report = &report
	c.Transcript = r.Transcript.Clone()
	return &c
}
