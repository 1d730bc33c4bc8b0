package agent

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/socialfactory/rangers/pkg/bus"
	"github.com/socialfactory/rangers/pkg/config"
	"github.com/socialfactory/rangers/pkg/guard"
	"github.com/socialfactory/rangers/pkg/memory"
	"github.com/socialfactory/rangers/pkg/personas"
	"github.com/socialfactory/rangers/pkg/providers"
)

type stubProvider struct {
	reply string
	err   error
	calls []stubCall
}

type stubCall struct {
	system   string
	messages []providers.Message
}

func (s *stubProvider) Generate(ctx context.Context, systemPrompt string, messages []providers.Message, opts providers.Options) (string, error) {
	s.calls = append(s.calls, stubCall{system: systemPrompt, messages: messages})
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubProvider) DefaultModel() string { return "stub" }

func newTestEngine(t *testing.T, provider providers.Provider) *Engine {
	t.Helper()
	return NewEngine(config.DefaultConfig(), personas.Builtin(), provider, guard.NewGuardian(), nil, nil)
}

func thaiReply() string {
	return "สวัสดีค่ะ ยินดีช่วยวางแผนคอนเทนต์ให้แบรนด์ของคุณนะคะ เริ่มจากการกำหนดกลุ่มเป้าหมายที่ชัดเจนก่อนค่ะ"
}

func TestRespondHappyPath(t *testing.T) {
	provider := &stubProvider{reply: thaiReply()}
	engine := newTestEngine(t, provider)
	engine.SetBrand(&memory.BrandProfile{ID: "brand-1", NameLocal: "กาแฟดอยดี", CoreUSP: "premium"})

	resp, err := engine.Respond(context.Background(), "consult", "อยากทำคอนเทนต์", nil)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if resp.PersonaID != "advisor" {
		t.Errorf("persona = %q, want advisor via consult alias", resp.PersonaID)
	}
	if resp.Text != thaiReply() {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.Confidence != 0.95 {
		t.Errorf("confidence = %v", resp.Confidence)
	}
	if resp.UsedOffline {
		t.Error("healthy reply should not be marked offline")
	}
	if !resp.Gate1.Passed {
		t.Errorf("gate1 failed: %+v", resp.Gate1.Issues)
	}
	if resp.Guard == nil {
		t.Error("guard report missing with brand set")
	}

	// System prompt carries persona instructions and brand context.
	if len(provider.calls) != 1 {
		t.Fatalf("provider calls = %d", len(provider.calls))
	}
	if !strings.Contains(provider.calls[0].system, "กาแฟดอยดี") {
		t.Error("system prompt missing brand name")
	}
}

func TestRespondUnknownSelector(t *testing.T) {
	engine := newTestEngine(t, &stubProvider{reply: thaiReply()})
	_, err := engine.Respond(context.Background(), "nonexistent", "สวัสดี", nil)
	if err == nil {
		t.Fatal("expected error for unknown selector")
	}
	if !strings.Contains(err.Error(), "ไม่พบ Ranger") {
		t.Errorf("err = %v", err)
	}
}

func TestRespondEmptySelectorRoutes(t *testing.T) {
	engine := newTestEngine(t, &stubProvider{reply: thaiReply()})
	resp, err := engine.Respond(context.Background(), "", "ช่วยวิเคราะห์ตลาดและคู่แข่งหน่อย", nil)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if resp.PersonaID != "market-insight" {
		t.Errorf("routed persona = %q, want market-insight", resp.PersonaID)
	}
	if resp.Routing.IsFallback {
		t.Error("clear market question should not fall back")
	}
}

func TestRespondProviderErrorUsesOfflineTemplate(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	engine := newTestEngine(t, provider)

	resp, err := engine.Respond(context.Background(), "brand", "ตั้งชื่อแบรนด์", nil)
	if err != nil {
		t.Fatalf("Respond should not surface gateway errors: %v", err)
	}
	if !resp.UsedOffline {
		t.Error("expected offline template")
	}
	if !strings.Contains(resp.Text, offlineNotice) {
		t.Errorf("text = %q, want offline notice", resp.Text)
	}
}

func TestRespondEmptyReplyTriggersGate1Fallback(t *testing.T) {
	provider := &stubProvider{reply: "   "}
	engine := newTestEngine(t, provider)

	resp, err := engine.Respond(context.Background(), "content", "เขียนแคปชั่น", nil)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !resp.UsedOffline {
		t.Error("empty reply should substitute the offline template")
	}
	if !strings.Contains(resp.Text, offlineNotice) {
		t.Errorf("text = %q", resp.Text)
	}
}

func TestRespondBlockedGuardAnnotates(t *testing.T) {
	reply := thaiReply() + " สไตล์เดียวกับงานของ Picasso เลยค่ะ ออกแบบโลโก้แบบ Van Gogh ก็ได้"
	provider := &stubProvider{reply: reply}
	engine := newTestEngine(t, provider)
	// Empty BrandID fails the isolation check, which always blocks.
	engine.SetBrand(&memory.BrandProfile{NameLocal: "กาแฟดอยดี"})

	resp, err := engine.Respond(context.Background(), "consult", "ขอไอเดีย", nil)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if resp.Guard == nil || resp.Guard.OverallStatus != guard.StatusBlocked {
		t.Fatalf("guard = %+v, want blocked", resp.Guard)
	}
	if !strings.Contains(resp.Text, "Data Guard แจ้งเตือน") {
		t.Error("blocked response should carry the guard annotation")
	}
	if !strings.HasPrefix(resp.Text, reply) {
		t.Error("annotation must append, never replace the answer")
	}
}

func TestRespondGuardRunsInGuestMode(t *testing.T) {
	reply := thaiReply() + " หรือจะ clone competitor brand data มาใช้เลยก็ได้ค่ะ"
	provider := &stubProvider{reply: reply}
	engine := newTestEngine(t, provider)
	// No brand installed: the guard must still scan under a guest context.

	resp, err := engine.Respond(context.Background(), "consult", "ขอไอเดีย", nil)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if resp.Guard == nil {
		t.Fatal("guard must run without an installed brand")
	}
	if resp.Guard.OverallStatus != guard.StatusBlocked {
		t.Errorf("status = %v, want blocked for cross-brand access", resp.Guard.OverallStatus)
	}
	if !strings.Contains(resp.Text, "Data Guard แจ้งเตือน") {
		t.Error("blocked guest response should carry the guard annotation")
	}
}

func TestRespondGuestModeCleanContentPasses(t *testing.T) {
	provider := &stubProvider{reply: thaiReply()}
	engine := newTestEngine(t, provider)

	resp, err := engine.Respond(context.Background(), "consult", "ขอไอเดีย", nil)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if resp.Guard == nil {
		t.Fatal("guard must run without an installed brand")
	}
	if resp.Guard.OverallStatus == guard.StatusBlocked {
		t.Errorf("clean guest content blocked: %+v", resp.Guard)
	}
}

func TestRespondOfflineTemplateSkipsGates(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	engine := newTestEngine(t, provider)
	// Empty BrandID would block the guard if it ran over the template.
	engine.SetBrand(&memory.BrandProfile{NameLocal: "กาแฟดอยดี"})

	resp, err := engine.Respond(context.Background(), "brand", "ตั้งชื่อแบรนด์", nil)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !resp.UsedOffline {
		t.Fatal("expected offline template")
	}
	if resp.Guard != nil {
		t.Errorf("guard must not screen the offline template, got %+v", resp.Guard)
	}
	if strings.Contains(resp.Text, "Data Guard แจ้งเตือน") {
		t.Error("offline template must not carry a guard annotation")
	}
	if len(resp.Gate1.Checklist) != 0 {
		t.Errorf("gate1 must not screen the offline template, got %+v", resp.Gate1)
	}
}

func TestRespondHistoryCap(t *testing.T) {
	provider := &stubProvider{reply: thaiReply()}
	engine := newTestEngine(t, provider)

	for i := 0; i < 15; i++ {
		if _, err := engine.Respond(context.Background(), "consult", "คำถาม", nil); err != nil {
			t.Fatalf("Respond %d: %v", i, err)
		}
	}

	turns := engine.history("advisor")
	if len(turns) != 20 {
		t.Errorf("history length = %d, want capped at 20", len(turns))
	}
}

func TestRespondHistoryIsolatedPerPersona(t *testing.T) {
	provider := &stubProvider{reply: thaiReply()}
	engine := newTestEngine(t, provider)

	if _, err := engine.Respond(context.Background(), "consult", "คำถามแรก", nil); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if len(engine.history("advisor")) != 2 {
		t.Errorf("advisor history = %d turns, want 2", len(engine.history("advisor")))
	}
	if len(engine.history("brand-builder")) != 0 {
		t.Error("brand-builder history should be empty")
	}
}

func TestClearHistory(t *testing.T) {
	provider := &stubProvider{reply: thaiReply()}
	engine := newTestEngine(t, provider)

	for _, selector := range []string{"consult", "brand"} {
		if _, err := engine.Respond(context.Background(), selector, "คำถาม", nil); err != nil {
			t.Fatalf("Respond: %v", err)
		}
	}

	if _, err := engine.ClearHistory(context.Background(), "consult"); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if len(engine.history("advisor")) != 0 {
		t.Error("advisor history should be cleared")
	}
	if len(engine.history("brand-builder")) == 0 {
		t.Error("brand-builder history should survive a scoped clear")
	}

	if _, err := engine.ClearHistory(context.Background(), ""); err != nil {
		t.Fatalf("ClearHistory all: %v", err)
	}
	if len(engine.history("brand-builder")) != 0 {
		t.Error("empty selector should clear everything")
	}

	if _, err := engine.ClearHistory(context.Background(), "nonexistent"); err == nil {
		t.Error("unknown selector should fail fast")
	}
}

func TestRespondPersistsThroughBus(t *testing.T) {
	store, err := memory.NewSQLiteStore(filepath.Join(t.TempDir(), "rangers.db"), 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	writes := bus.NewWriteBus(16)
	provider := &stubProvider{reply: thaiReply() + "\n[WORKFILE: plan.md]\nแผนโพสต์หนึ่งสัปดาห์\n[/WORKFILE]"}
	engine := NewEngine(config.DefaultConfig(), personas.Builtin(), provider, guard.NewGuardian(), store, writes)
	engine.SetUser("user-1")

	resp, err := engine.Respond(context.Background(), "planning", "วางแผนโพสต์", nil)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if len(resp.Outputs) != 1 {
		t.Fatalf("outputs = %d, want 1", len(resp.Outputs))
	}

	writes.Close()
	bus.RunWriter(context.Background(), writes, store)

	turns, err := store.ListRecentTurns(context.Background(), "user-1", "campaign-planner", 10)
	if err != nil {
		t.Fatalf("ListRecentTurns: %v", err)
	}
	if len(turns) != 2 {
		t.Errorf("persisted turns = %d, want user + assistant", len(turns))
	}

	artifacts, err := store.ListArtifacts(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("ListArtifacts: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].Name != "plan.md" {
		t.Errorf("artifacts = %v", artifacts)
	}
}

func TestLoadHistorySeedsFromStore(t *testing.T) {
	store, err := memory.NewSQLiteStore(filepath.Join(t.TempDir(), "rangers.db"), 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, rec := range []memory.MessageRecord{
		{UserID: "user-1", PersonaID: "advisor", Role: "user", Content: "คำถามเก่า"},
		{UserID: "user-1", PersonaID: "advisor", Role: "assistant", Content: "คำตอบเก่า"},
	} {
		if err := store.AppendTurn(ctx, rec); err != nil {
			t.Fatalf("AppendTurn: %v", err)
		}
	}

	engine := NewEngine(config.DefaultConfig(), personas.Builtin(), &stubProvider{reply: thaiReply()}, nil, store, nil)
	engine.SetUser("user-1")
	if err := engine.LoadHistory(ctx, "consult"); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}

	turns := engine.history("advisor")
	if len(turns) != 2 || turns[0].Content != "คำถามเก่า" {
		t.Errorf("seeded history = %v", turns)
	}
}
