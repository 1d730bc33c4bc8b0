// Package personas holds the static catalog of Ranger personas: the
// specialization profiles a user chats with. Data is fixed at process start
// and never mutated.
package personas

import "fmt"

// Cluster groups personas by theme. Closed set; the guard aggregator and
// router rely on exhaustive switches over these values.
type Cluster int

const (
	ClusterBrand Cluster = iota
	ClusterContent
	ClusterGrowth
)

func (c Cluster) String() string {
	switch c {
	case ClusterBrand:
		return "brand"
	case ClusterContent:
		return "content"
	case ClusterGrowth:
		return "growth"
	default:
		return "unknown"
	}
}

// Persona is one Ranger profile. Immutable after registry construction.
type Persona struct {
	ID           string
	Name         string
	Emoji        string
	Cluster      Cluster
	Instructions string
	Keywords     []string
	// Advisory surfaced by the CLI suggesting which Ranger to talk to next.
	// Empty when the persona has no cross-sell hint.
	SoftAdvisory string
}

// AdvisorID is the generic persona every ambiguous request falls back to.
const AdvisorID = "advisor"

// rangerAliases maps the short UI-facing ranger names onto persona IDs.
// Full persona IDs pass through unchanged.
var rangerAliases = map[string]string{
	"brand":     "brand-builder",
	"content":   "content-creator",
	"planning":  "campaign-planner",
	"marketing": "market-insight",
	"consult":   "advisor",
}

// Registry is an ordered persona catalog. Order matters: the router breaks
// scoring ties by registry position.
type Registry struct {
	ordered []*Persona
	byID    map[string]*Persona
}

func NewRegistry(list []*Persona) *Registry {
	r := &Registry{byID: make(map[string]*Persona, len(list))}
	for _, p := range list {
		if p == nil || p.ID == "" {
			continue
		}
		if _, dup := r.byID[p.ID]; dup {
			continue
		}
		r.ordered = append(r.ordered, p)
		r.byID[p.ID] = p
	}
	return r
}

// All returns personas in registry order. Callers must not mutate entries.
func (r *Registry) All() []*Persona {
	return r.ordered
}

// Resolve maps a ranger alias or persona ID onto its persona. Unknown IDs
// fail fast; nothing is silently substituted.
func (r *Registry) Resolve(selector string) (*Persona, error) {
	id := selector
	if mapped, ok := rangerAliases[selector]; ok {
		id = mapped
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("ไม่พบ Ranger: %s", selector)
	}
	return p, nil
}

// Advisor returns the fallback persona. Panics only if the registry was
// built without one, which the builtin catalog guarantees against.
func (r *Registry) Advisor() *Persona {
	if p, ok := r.byID[AdvisorID]; ok {
		return p
	}
	if len(r.ordered) > 0 {
		return r.ordered[0]
	}
	panic("personas: empty registry has no advisor")
}

func (r *Registry) Len() int {
	return len(r.ordered)
}
