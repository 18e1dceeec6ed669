// Package storage holds what the ResultStore implementations share.
package storage

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/core/ports"
)

// ResultStore is re-exported from core/ports for convenience.
type ResultStore = ports.ResultStore

var (
	// ErrNotFound is returned when a session has no stored result.
	ErrNotFound = errors.New("session result not found")
	// ErrAlreadyExists is returned when a session result is saved twice.
	ErrAlreadyExists = errors.New("session result already exists")
)

// Validate checks that a result can be stored.
func Validate(result *domain.SessionResult) error {
	if result == nil || result.Report == nil {
		return fmt.Errorf("session result must carry a report")
	}
	if result.SessionID == "" || result.UserID == "" {
		return fmt.Errorf("session result requires session and user ids")
	}
	if result.Report.SessionID != result.SessionID {
		return fmt.Errorf("report session %q does not match result session %q", result.Report.SessionID, result.SessionID)
	}
	return nil
}

// SortNewestFirst orders reports by completion time, most recent first.
// Reports completed at the same instant keep their relative order.
func SortNewestFirst(reports []domain.FinalReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CompletedAt.After(reports[j].CompletedAt)
	})
}
