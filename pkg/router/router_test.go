package router

import (
	"testing"

	"github.com/socialfactory/rangers/pkg/personas"
)

func testRegistry() *personas.Registry {
	return personas.NewRegistry([]*personas.Persona{
		{ID: "market-insight", Name: "น้องดูตลาด", Keywords: []string{"วิเคราะห์ตลาด", "คู่แข่ง"}},
		{ID: "content-creator", Name: "น้องคอนเทนต์", Keywords: []string{"แคปชั่น", "คอนเทนต์"}},
		{ID: "advisor", Name: "พี่ที่ปรึกษา", Keywords: []string{"ปรึกษา"}},
	})
}

func TestRoute_MarketAnalysisPicksMarketInsight(t *testing.T) {
	reg := testRegistry()
	d := Route("วิเคราะห์ตลาดคู่แข่ง", reg)

	if d.Persona.ID != "market-insight" {
		t.Fatalf("Persona.ID = %q, want market-insight", d.Persona.ID)
	}
	if d.IsFallback {
		t.Error("IsFallback = true, want false")
	}
	if d.Confidence != 1 {
		t.Errorf("Confidence = %v, want 1", d.Confidence)
	}
}

func TestRoute_NoMatchFallsBackToAdvisor(t *testing.T) {
	reg := testRegistry()
	d := Route("xyz123", reg)

	if d.Persona.ID != "advisor" {
		t.Fatalf("Persona.ID = %q, want advisor", d.Persona.ID)
	}
	if !d.IsFallback {
		t.Error("IsFallback = false, want true")
	}
	if d.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want exactly 0.5", d.Confidence)
	}
}

func TestRoute_AmbiguousInputFallsBack(t *testing.T) {
	// Four evenly-matched personas: top share 1/4 < 0.3 dominance ratio.
	reg := personas.NewRegistry([]*personas.Persona{
		{ID: "a", Name: "A", Keywords: []string{"alpha"}},
		{ID: "b", Name: "B", Keywords: []string{"beta"}},
		{ID: "c", Name: "C", Keywords: []string{"gamma"}},
		{ID: "advisor", Name: "Advisor", Keywords: []string{"delta"}},
	})
	d := Route("alpha beta gamma delta", reg)

	if !d.IsFallback {
		t.Fatal("evenly split scores should fall back to advisor")
	}
	if d.Persona.ID != "advisor" {
		t.Errorf("Persona.ID = %q, want advisor", d.Persona.ID)
	}
}

func TestRoute_Deterministic(t *testing.T) {
	reg := testRegistry()
	first := Route("อยากได้แคปชั่นโพสต์คอนเทนต์", reg)
	for i := 0; i < 10; i++ {
		again := Route("อยากได้แคปชั่นโพสต์คอนเทนต์", reg)
		if again.Persona.ID != first.Persona.ID || again.Confidence != first.Confidence || again.Reasoning != first.Reasoning {
			t.Fatalf("iteration %d differed: %+v vs %+v", i, again, first)
		}
	}
}

func TestRoute_TieBreaksByRegistryOrder(t *testing.T) {
	reg := personas.NewRegistry([]*personas.Persona{
		{ID: "first", Name: "First", Keywords: []string{"โปร", "ลดราคา", "ส่วนลด"}},
		{ID: "second", Name: "Second", Keywords: []string{"โปร", "ลดราคา", "ส่วนลด"}},
		{ID: "advisor", Name: "Advisor", Keywords: []string{"ปรึกษา"}},
	})
	d := Route("มีโปรลดราคาอะไรบ้าง ขอส่วนลดหน่อย", reg)

	if d.Persona.ID != "first" {
		t.Fatalf("tie should go to the first registered persona, got %q", d.Persona.ID)
	}
}

func TestRoute_ConfidenceBounds(t *testing.T) {
	reg := testRegistry()
	inputs := []string{
		"", "xyz123", "วิเคราะห์ตลาดคู่แข่ง", "แคปชั่น",
		"ปรึกษาเรื่องคอนเทนต์และคู่แข่งและวิเคราะห์ตลาด",
	}
	for _, in := range inputs {
		d := Route(in, reg)
		if d.Confidence < 0 || d.Confidence > 1 {
			t.Errorf("Route(%q).Confidence = %v, out of [0,1]", in, d.Confidence)
		}
	}
}

func TestRoute_CaseInsensitiveKeywords(t *testing.T) {
	reg := personas.NewRegistry([]*personas.Persona{
		{ID: "content-creator", Name: "Content", Keywords: []string{"Caption", "Content"}},
		{ID: "advisor", Name: "Advisor", Keywords: []string{"help"}},
	})
	d := Route("WRITE A CAPTION AND CONTENT PLAN", reg)
	if d.Persona.ID != "content-creator" {
		t.Fatalf("Persona.ID = %q, want content-creator", d.Persona.ID)
	}
}

func TestRoute_EmptyRegistryFallsBack(t *testing.T) {
	reg := personas.NewRegistry(nil)
	d := Route("อยากทำคอนเทนต์", reg)
	if !d.IsFallback {
		t.Error("empty registry must report a fallback decision")
	}
	if d.Persona != nil {
		t.Errorf("Persona = %+v, want nil with nothing registered", d.Persona)
	}
	if d.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", d.Confidence)
	}
}
