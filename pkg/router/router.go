// Package router decides which Ranger persona should handle a free-text
// utterance. Routing is keyword-frequency scoring, not classification, and
// it is advisory: an explicit persona selection always wins.
package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/socialfactory/rangers/pkg/personas"
)

// dominanceRatio is the minimum share of the total keyword hits the top
// persona must hold; below it the input is ambiguous and goes to the
// advisor.
const dominanceRatio = 0.3

// fallbackConfidence is the fixed confidence reported for advisor fallbacks.
const fallbackConfidence = 0.5

// Decision is the derived routing result. Recomputed per message, never
// persisted.
type Decision struct {
	Persona    *personas.Persona
	Confidence float64
	Reasoning  string
	IsFallback bool
}

// Route scores input against every persona's keyword set and picks a winner,
// or falls back to the advisor when no signal dominates. Pure function of
// input + registry.
//
// Ties at the top score are broken by registry order: the first registered
// persona wins. That is a defined contract, kept stable so repeated calls
// with the same registry return the same decision.
func Route(input string, reg *personas.Registry) Decision {
	lower := strings.ToLower(input)

	type scored struct {
		persona *personas.Persona
		score   int
	}
	results := make([]scored, 0, reg.Len())
	total := 0
	for _, p := range reg.All() {
		score := 0
		for _, kw := range p.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(kw)) {
				score++
			}
		}
		results = append(results, scored{persona: p, score: score})
		total += score
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	// An empty registry has no advisor to fall back to; report the
	// ambiguity with a nil persona instead of panicking.
	if len(results) == 0 {
		return Decision{
			Confidence: fallbackConfidence,
			Reasoning:  "ไม่มี Ranger ในระบบ",
			IsFallback: true,
		}
	}

	best := results[0]
	if best.score == 0 || (total > 0 && float64(best.score)/float64(total) < dominanceRatio) {
		return Decision{
			Persona:    reg.Advisor(),
			Confidence: fallbackConfidence,
			Reasoning:  "ไม่แน่ใจว่าต้องการอะไร → ส่งไป advisor ก่อน",
			IsFallback: true,
		}
	}

	confidence := float64(best.score) / float64(total)
	if confidence > 1 {
		confidence = 1
	}

	return Decision{
		Persona:    best.persona,
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("keyword match: %d/%d → %s", best.score, total, best.persona.Name),
		IsFallback: false,
	}
}
