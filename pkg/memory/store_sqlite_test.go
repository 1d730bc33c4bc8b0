package memory

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "rangers.db"), 3)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBrandProfileRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.SaveBrandProfile(ctx, BrandProfile{
		UserID:         "user-1",
		NameLocal:      "กาแฟดอยดี",
		Industry:       "coffee",
		CoreUSP:        "premium single-origin",
		ToneOfVoice:    "warm, professional",
		ForbiddenWords: []string{"ถูกที่สุด"},
		VisualStyle: VisualStyle{
			PrimaryColor: "#4B2E1E",
			MoodKeywords: []string{"earthy", "minimal"},
		},
	})
	if err != nil {
		t.Fatalf("SaveBrandProfile: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := store.GetBrandProfile(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetBrandProfile: %v", err)
	}
	if got.NameLocal != "กาแฟดอยดี" {
		t.Errorf("NameLocal = %q", got.NameLocal)
	}
	if got.VisualStyle.PrimaryColor != "#4B2E1E" {
		t.Errorf("PrimaryColor = %q", got.VisualStyle.PrimaryColor)
	}
	if len(got.ForbiddenWords) != 1 || got.ForbiddenWords[0] != "ถูกที่สุด" {
		t.Errorf("ForbiddenWords = %v", got.ForbiddenWords)
	}
}

func TestBrandProfileUpdateKeepsID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.SaveBrandProfile(ctx, BrandProfile{UserID: "user-1", NameLocal: "แบรนด์เดิม"})
	if err != nil {
		t.Fatalf("SaveBrandProfile: %v", err)
	}

	saved.NameLocal = "แบรนด์ใหม่"
	updated, err := store.SaveBrandProfile(ctx, saved)
	if err != nil {
		t.Fatalf("update SaveBrandProfile: %v", err)
	}
	if updated.ID != saved.ID {
		t.Errorf("id changed on update: %q -> %q", saved.ID, updated.ID)
	}

	profiles, err := store.ListBrandProfiles(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListBrandProfiles: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("profile count = %d, want 1", len(profiles))
	}
	if profiles[0].NameLocal != "แบรนด์ใหม่" {
		t.Errorf("NameLocal = %q", profiles[0].NameLocal)
	}
}

func TestBrandProfileLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.SaveBrandProfile(ctx, BrandProfile{UserID: "user-1", NameLocal: fmt.Sprintf("แบรนด์ %d", i)}); err != nil {
			t.Fatalf("SaveBrandProfile %d: %v", i, err)
		}
	}
	_, err := store.SaveBrandProfile(ctx, BrandProfile{UserID: "user-1", NameLocal: "แบรนด์เกิน"})
	if !errors.Is(err, ErrBrandLimit) {
		t.Errorf("err = %v, want ErrBrandLimit", err)
	}

	// Other users are unaffected by the limit.
	if _, err := store.SaveBrandProfile(ctx, BrandProfile{UserID: "user-2", NameLocal: "แบรนด์อื่น"}); err != nil {
		t.Errorf("SaveBrandProfile other user: %v", err)
	}
}

func TestGetBrandProfileNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetBrandProfile(context.Background(), "missing")
	if !errors.Is(err, ErrBrandNotFound) {
		t.Errorf("err = %v, want ErrBrandNotFound", err)
	}
	if err := store.DeleteBrandProfile(context.Background(), "missing"); !errors.Is(err, ErrBrandNotFound) {
		t.Errorf("delete err = %v, want ErrBrandNotFound", err)
	}
}

func TestTurnsChronologicalWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 6; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		err := store.AppendTurn(ctx, MessageRecord{
			UserID:    "user-1",
			PersonaID: "brand-builder",
			Role:      role,
			Content:   fmt.Sprintf("turn %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("AppendTurn %d: %v", i, err)
		}
	}

	turns, err := store.ListRecentTurns(ctx, "user-1", "brand-builder", 4)
	if err != nil {
		t.Fatalf("ListRecentTurns: %v", err)
	}
	if len(turns) != 4 {
		t.Fatalf("turn count = %d, want 4", len(turns))
	}
	// Newest 4, oldest first.
	if turns[0].Content != "turn 2" || turns[3].Content != "turn 5" {
		t.Errorf("window = [%s .. %s], want [turn 2 .. turn 5]", turns[0].Content, turns[3].Content)
	}
}

func TestTurnsIsolatedPerPersona(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AppendTurn(ctx, MessageRecord{UserID: "user-1", PersonaID: "brand-builder", Role: "user", Content: "a"}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if err := store.AppendTurn(ctx, MessageRecord{UserID: "user-1", PersonaID: "advisor", Role: "user", Content: "b"}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	turns, err := store.ListRecentTurns(ctx, "user-1", "advisor", 10)
	if err != nil {
		t.Fatalf("ListRecentTurns: %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "b" {
		t.Errorf("advisor turns = %v", turns)
	}
}

func TestClearHistoryScoped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, persona := range []string{"brand-builder", "advisor"} {
		if err := store.AppendTurn(ctx, MessageRecord{UserID: "user-1", PersonaID: persona, Role: "user", Content: "x"}); err != nil {
			t.Fatalf("AppendTurn: %v", err)
		}
	}

	n, err := store.ClearHistory(ctx, "user-1", "advisor")
	if err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if n != 1 {
		t.Errorf("cleared = %d, want 1", n)
	}

	// Empty persona clears everything for the user.
	n, err = store.ClearHistory(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("ClearHistory all: %v", err)
	}
	if n != 1 {
		t.Errorf("cleared all = %d, want 1", n)
	}
}

func TestArtifactsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.SaveArtifact(ctx, ArtifactRecord{
		UserID:    "user-1",
		PersonaID: "content-creator",
		Name:      "caption-ig.md",
		Content:   "แคปชั่นสำหรับโพสต์แรก",
	})
	if err != nil {
		t.Fatalf("SaveArtifact: %v", err)
	}

	artifacts, err := store.ListArtifacts(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListArtifacts: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].Name != "caption-ig.md" {
		t.Errorf("artifacts = %v", artifacts)
	}
	if artifacts[0].ID == "" {
		t.Error("expected generated artifact id")
	}
}

func TestListRecentTurnsPreservesInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Back-to-back appends land in the same millisecond; order must
	// follow insertion, not the random ids.
	for i := 0; i < 10; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		if err := store.AppendTurn(ctx, MessageRecord{UserID: "u", PersonaID: "advisor", Role: role, Content: fmt.Sprintf("turn %d", i)}); err != nil {
			t.Fatalf("AppendTurn %d: %v", i, err)
		}
	}

	turns, err := store.ListRecentTurns(ctx, "u", "advisor", 10)
	if err != nil {
		t.Fatalf("ListRecentTurns: %v", err)
	}
	if len(turns) != 10 {
		t.Fatalf("len = %d, want 10", len(turns))
	}
	for i, turn := range turns {
		if want := fmt.Sprintf("turn %d", i); turn.Content != want {
			t.Fatalf("turns[%d] = %q, want %q", i, turn.Content, want)
		}
	}
	if turns[0].Role != "user" {
		t.Errorf("first seeded turn role = %q, want user", turns[0].Role)
	}
}

func TestSweepRetention(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	old := time.Now().Add(-48 * time.Hour)

	if err := store.AppendTurn(ctx, MessageRecord{UserID: "u", PersonaID: "advisor", Role: "user", Content: "old", CreatedAt: old}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if err := store.AppendTurn(ctx, MessageRecord{UserID: "u", PersonaID: "advisor", Role: "user", Content: "fresh"}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if err := store.SaveArtifact(ctx, ArtifactRecord{UserID: "u", PersonaID: "advisor", Name: "old.md", Content: "x", CreatedAt: old}); err != nil {
		t.Fatalf("SaveArtifact: %v", err)
	}

	result, err := store.SweepRetention(ctx, 24*time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("SweepRetention: %v", err)
	}
	if result.MessagesDeleted != 1 || result.ArtifactsDeleted != 1 {
		t.Errorf("sweep result = %+v, want 1 message and 1 artifact", result)
	}

	turns, err := store.ListRecentTurns(ctx, "u", "advisor", 10)
	if err != nil {
		t.Fatalf("ListRecentTurns: %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "fresh" {
		t.Errorf("surviving turns = %v", turns)
	}

	// Zero TTL skips the table.
	result, err = store.SweepRetention(ctx, 0, 0)
	if err != nil {
		t.Fatalf("SweepRetention zero: %v", err)
	}
	if result.MessagesDeleted != 0 || result.ArtifactsDeleted != 0 {
		t.Errorf("zero-TTL sweep = %+v, want no deletions", result)
	}
}
