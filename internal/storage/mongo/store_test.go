package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/tjfontaine/interview-coach/internal/core/ports"
	"github.com/tjfontaine/interview-coach/internal/storage/storagetest"
)

// Set COACH_TEST_MONGO_URI, e.g. "mongodb://localhost:27017".
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("COACH_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("COACH_TEST_MONGO_URI not set")
	}

	n := 0
	storagetest.Run(t, func(t *testing.T) ports.ResultStore {
		n++
		ctx := context.Background()
		db := fmt.Sprintf("coach_test_%d", n)
		store, err := New(ctx, uri, db)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		t.Cleanup(func() {
			_ = store.client.Database(db).Drop(ctx)
			store.Close()
		})
		return store
	})
}
