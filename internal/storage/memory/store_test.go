package memory

import (
	"context"
	"testing"
	"time"

	"github.com/tjfontaine/interview-coach/internal/core/ports"
	"github.com/tjfontaine/interview-coach/internal/storage/storagetest"
)

func TestMemoryStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) ports.ResultStore {
		return New()
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	r := storagetest.Result("s1", "u1", 70, time.Now())
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	r.Report.ConsolidatedStrengths[0] = "mutated after save"

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Report.ConsolidatedStrengths[0] == "mutated after save" {
		t.Error("Save() kept a reference to the caller's report")
	}

	got.Transcript.Answers[0].Text = "mutated after get"
	again, _ := s.Get(ctx, "s1")
	if again.Transcript.Answers[0].Text == "mutated after get" {
		t.Error("Get() leaked stored transcript")
	}
}
