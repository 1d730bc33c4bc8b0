package agent

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/socialfactory/rangers/pkg/bus"
	"github.com/socialfactory/rangers/pkg/config"
	"github.com/socialfactory/rangers/pkg/guard"
	"github.com/socialfactory/rangers/pkg/logger"
	"github.com/socialfactory/rangers/pkg/memory"
	"github.com/socialfactory/rangers/pkg/personas"
	"github.com/socialfactory/rangers/pkg/providers"
	"github.com/socialfactory/rangers/pkg/router"
	"github.com/socialfactory/rangers/pkg/validate"
)

// respondConfidence is reported for successful generations. Routing
// confidence lives in Response.Routing; this one is about the answer.
const respondConfidence = 0.95

// Response is everything Respond produced for one question. Gate1 reports on
// the model's own output; when the gateway failed and the offline template
// was substituted instead, Gate1 is the zero Result and Guard is nil.
type Response struct {
	Text        string
	PersonaID   string
	Persona     string
	Confidence  float64
	Routing     router.Decision
	Gate1       validate.Result
	Guard       *guard.Report
	Outputs     []Output
	UsedOffline bool
}

// Engine runs the full pipeline: resolve persona, build prompt, call the
// model, validate through both gates, persist, extract outputs.
type Engine struct {
	registry *personas.Registry
	provider providers.Provider
	guardian *guard.Guardian
	store    memory.Store
	writes   *bus.WriteBus
	builder  *ContextBuilder

	userID string
	brand  *memory.BrandProfile

	model       string
	maxTokens   int
	timeout     int
	historyCap  int
	guardOn     bool
	maxAppended int

	mu        sync.Mutex
	histories map[string][]Turn
}

// NewEngine wires the pipeline. store and writes may be nil for a purely
// in-memory session.
func NewEngine(cfg *config.Config, registry *personas.Registry, provider providers.Provider, guardian *guard.Guardian, store memory.Store, writes *bus.WriteBus) *Engine {
	return &Engine{
		registry:    registry,
		provider:    provider,
		guardian:    guardian,
		store:       store,
		writes:      writes,
		builder:     NewContextBuilder(cfg.Agents.Defaults.HistoryWindow),
		model:       cfg.Agents.Defaults.Model,
		maxTokens:   cfg.Agents.Defaults.MaxTokens,
		timeout:     cfg.Agents.Defaults.TimeoutSeconds,
		historyCap:  cfg.Agents.Defaults.HistoryCap,
		guardOn:     cfg.Guard.Enabled,
		maxAppended: cfg.Guard.MaxAppended,
		histories:   make(map[string][]Turn),
	}
}

// SetUser scopes persistence to a user id. Empty disables persistence.
func (e *Engine) SetUser(userID string) { e.userID = userID }

// SetBrand installs the active brand profile. nil means guest mode.
func (e *Engine) SetBrand(brand *memory.BrandProfile) { e.brand = brand }

// Brand returns the active brand profile, nil in guest mode.
func (e *Engine) Brand() *memory.BrandProfile { return e.brand }

// Registry exposes the persona catalog for callers rendering menus.
func (e *Engine) Registry() *personas.Registry { return e.registry }

// Route runs the keyword router without generating anything.
func (e *Engine) Route(input string) router.Decision {
	return router.Route(input, e.registry)
}

// Respond answers one question as the selected persona. selector accepts
// persona ids and their short aliases; empty selects by routing.
func (e *Engine) Respond(ctx context.Context, selector, text string, attachments []Attachment) (Response, error) {
	var routing router.Decision
	var persona *personas.Persona

	if strings.TrimSpace(selector) == "" {
		routing = router.Route(text, e.registry)
		persona = routing.Persona
	} else {
		resolved, err := e.registry.Resolve(selector)
		if err != nil {
			return Response{}, err
		}
		persona = resolved
		routing = router.Route(text, e.registry)
		if routing.Persona != nil && routing.Persona.ID != persona.ID {
			logger.InfoCF("engine", "routing suggests another ranger, respecting user choice", map[string]interface{}{
				"suggested": routing.Persona.ID,
				"selected":  persona.ID,
			})
		}
	}

	e.persistTurn(persona.ID, providers.RoleUser, text)

	contextMsg := e.builder.BuildContextMessage(persona, e.brand)
	history := e.history(persona.ID)
	messages := e.builder.BuildMessages(text, contextMsg, history, attachments)
	system := persona.Instructions + "\n\n---\n" + contextMsg

	usedOffline := false
	responseText, err := e.provider.Generate(ctx, system, messages, providers.Options{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		Timeout:   time.Duration(e.timeout) * time.Second,
	})
	if err != nil {
		logger.WarnCF("engine", "gateway call failed, using offline template", map[string]interface{}{
			"persona": persona.ID,
			"error":   err.Error(),
		})
		responseText = BuildFallbackResponse(persona.ID, text, e.brand)
		usedOffline = true
	}

	// Both gates screen model output only. The offline template is the
	// engine's own deterministic text; re-validating it would just report
	// findings against the substitute.
	var gate1 validate.Result
	var guardReport *guard.Report
	if !usedOffline {
		// Gate 1: format and quality. Only an empty answer triggers the
		// offline template; warnings pass through.
		gate1 = validate.Validate(persona.ID, responseText)
		if !gate1.Passed {
			if gate1.NeedsFallback() {
				logger.WarnCF("engine", "gate1 critical, substituting offline template", map[string]interface{}{
					"persona": persona.ID,
				})
				responseText = BuildFallbackResponse(persona.ID, text, e.brand)
				usedOffline = true
			} else {
				logger.DebugCF("engine", "gate1 warnings", map[string]interface{}{
					"persona": persona.ID,
					"score":   gate1.Score,
				})
			}
		}
	}

	// Gate 2: brand consistency. Runs even without an installed brand,
	// under a guest context, so cross-brand patterns stay caught. Never
	// refuses, only annotates when blocked.
	if !usedOffline && e.guardOn && e.guardian != nil {
		report := e.guardian.ValidateContent(e.guardContext(), responseText, nil)
		guardReport = &report
		logger.InfoCF("engine", "gate2 status", map[string]interface{}{
			"persona": persona.ID,
			"status":  report.OverallStatus.String(),
		})
		responseText += guard.AnnotationNote(report, e.maxAppended)
	}

	e.appendHistory(persona.ID, Turn{Role: providers.RoleUser, Content: text}, Turn{Role: providers.RoleAssistant, Content: responseText})
	e.persistTurn(persona.ID, providers.RoleAssistant, responseText)

	outputs := ExtractOutputs(responseText, persona.Name)
	e.persistOutputs(persona.ID, outputs)

	return Response{
		Text:        responseText,
		PersonaID:   persona.ID,
		Persona:     persona.Name,
		Confidence:  respondConfidence,
		Routing:     routing,
		Gate1:       gate1,
		Guard:       guardReport,
		Outputs:     outputs,
		UsedOffline: usedOffline,
	}, nil
}

// guardContext maps the installed brand onto the guard's view of it. No
// brand means guest mode: the guard still gets an identifying id so the
// isolation check scans content instead of failing on a missing context.
func (e *Engine) guardContext() *guard.BrandContext {
	if e.brand == nil {
		return &guard.BrandContext{BrandID: "guest"}
	}
	return &guard.BrandContext{
		BrandID:        e.brand.ID,
		BrandNameTh:    e.brand.NameLocal,
		CoreUSP:        e.brand.CoreUSP,
		ToneOfVoice:    e.brand.ToneOfVoice,
		MoodKeywords:   e.brand.VisualStyle.MoodKeywords,
		ForbiddenWords: e.brand.ForbiddenWords,
	}
}

func (e *Engine) history(personaID string) []Turn {
	e.mu.Lock()
	defer e.mu.Unlock()
	turns := e.histories[personaID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

func (e *Engine) appendHistory(personaID string, turns ...Turn) {
	e.mu.Lock()
	defer e.mu.Unlock()
	updated := append(e.histories[personaID], turns...)
	if len(updated) > e.historyCap {
		updated = updated[len(updated)-e.historyCap:]
	}
	e.histories[personaID] = updated
}

// ClearHistory drops one persona's in-memory thread, or every thread when
// selector is empty. Persisted turns are removed too when a store exists.
func (e *Engine) ClearHistory(ctx context.Context, selector string) (int, error) {
	personaID := ""
	if strings.TrimSpace(selector) != "" {
		persona, err := e.registry.Resolve(selector)
		if err != nil {
			return 0, err
		}
		personaID = persona.ID
	}

	e.mu.Lock()
	if personaID == "" {
		e.histories = make(map[string][]Turn)
	} else {
		delete(e.histories, personaID)
	}
	e.mu.Unlock()

	if e.store == nil || e.userID == "" {
		return 0, nil
	}
	return e.store.ClearHistory(ctx, e.userID, personaID)
}

// LoadHistory seeds the in-memory thread from the store, newest turns up
// to the cap.
func (e *Engine) LoadHistory(ctx context.Context, selector string) error {
	if e.store == nil || e.userID == "" {
		return nil
	}
	persona, err := e.registry.Resolve(selector)
	if err != nil {
		return err
	}
	records, err := e.store.ListRecentTurns(ctx, e.userID, persona.ID, e.historyCap)
	if err != nil {
		return err
	}
	turns := make([]Turn, 0, len(records))
	for _, rec := range records {
		turns = append(turns, Turn{Role: rec.Role, Content: rec.Content})
	}
	e.mu.Lock()
	e.histories[persona.ID] = turns
	e.mu.Unlock()
	return nil
}

func (e *Engine) persistTurn(personaID, role, content string) {
	if e.writes == nil || e.userID == "" {
		return
	}
	e.writes.PublishTurn(memory.MessageRecord{
		UserID:    e.userID,
		PersonaID: personaID,
		Role:      role,
		Content:   content,
	})
}

func (e *Engine) persistOutputs(personaID string, outputs []Output) {
	if e.writes == nil || e.userID == "" {
		return
	}
	for _, out := range outputs {
		e.writes.PublishArtifact(memory.ArtifactRecord{
			UserID:    e.userID,
			PersonaID: personaID,
			Name:      out.Title,
			Content:   out.Content,
		})
	}
}
