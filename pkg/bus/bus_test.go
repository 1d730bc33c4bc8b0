package bus

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/socialfactory/rangers/pkg/memory"
)

func TestWriteBus_DropsWhenBufferFull(t *testing.T) {
	wb := NewWriteBus(4)
	defer wb.Close()

	for i := 0; i < cap(wb.ops); i++ {
		wb.PublishTurn(memory.MessageRecord{UserID: "u", PersonaID: "advisor", Role: "user", Content: "msg"})
	}

	wb.PublishTurn(memory.MessageRecord{UserID: "u", PersonaID: "advisor", Role: "user", Content: "overflow"})
	if wb.Dropped() != 1 {
		t.Fatalf("expected dropped count 1, got %d", wb.Dropped())
	}
}

func TestWriteBus_ClosedBusDropsSilently(t *testing.T) {
	wb := NewWriteBus(4)
	wb.Close()

	wb.PublishTurn(memory.MessageRecord{UserID: "u", PersonaID: "advisor", Role: "user", Content: "late"})
	if wb.Dropped() != 0 {
		t.Fatalf("publish after close should not count as dropped, got %d", wb.Dropped())
	}
	if _, ok := wb.Consume(context.Background()); ok {
		t.Fatal("expected closed bus consume to return ok=false")
	}
}

func TestWriteBus_ConsumeHonorsContext(t *testing.T) {
	wb := NewWriteBus(4)
	defer wb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, ok := wb.Consume(ctx); ok {
		t.Fatal("expected consume on empty bus to return ok=false after cancel")
	}
}

func TestRunWriter_PersistsQueuedOps(t *testing.T) {
	store, err := memory.NewSQLiteStore(filepath.Join(t.TempDir(), "rangers.db"), 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	wb := NewWriteBus(8)
	wb.PublishTurn(memory.MessageRecord{UserID: "u", PersonaID: "advisor", Role: "user", Content: "สวัสดี"})
	wb.PublishArtifact(memory.ArtifactRecord{UserID: "u", PersonaID: "advisor", Name: "plan.md", Content: "แผนงาน"})
	wb.Close()

	// Closed bus: RunWriter drains everything and returns.
	RunWriter(context.Background(), wb, store)

	turns, err := store.ListRecentTurns(context.Background(), "u", "advisor", 10)
	if err != nil {
		t.Fatalf("ListRecentTurns: %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "สวัสดี" {
		t.Errorf("turns = %v", turns)
	}

	artifacts, err := store.ListArtifacts(context.Background(), "u", 10)
	if err != nil {
		t.Fatalf("ListArtifacts: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].Name != "plan.md" {
		t.Errorf("artifacts = %v", artifacts)
	}
}
