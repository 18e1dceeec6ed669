package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/tjfontaine/interview-coach/internal/core/ports"
	"github.com/tjfontaine/interview-coach/internal/storage/storagetest"
)

func TestSQLiteStore(t *testing.T) {
	n := 0
	storagetest.Run(t, func(t *testing.T) ports.ResultStore {
		n++
		// Use in-memory SQLite with shared cache for testing
		store, err := New(fmt.Sprintf("file:results%d?mode=memory&cache=shared", n))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		t.Cleanup(func() { store.Close() })
		return store
	})
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	ctx := context.Background()

	store, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := store.Save(ctx, storagetest.Result("s1", "u1", 55, time.Now())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer reopened.Close()

	reports, err := reopened.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(reports) != 1 || reports[0].OverallScore != 55 {
		t.Errorf("ListByUser() = %+v, want the saved report", reports)
	}
}
