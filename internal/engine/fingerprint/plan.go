package fingerprint

import (
	"sync"

	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
	"go.trai.ch/quick/internal/engine/resolver"
)

var _ ports.Planner = (*Plan)(nil)

// Plan memoises closures, descriptors and fingerprints of one graph for the length of a run.
// It is safe for concurrent use.
type Plan struct {
	graph *domain.Graph

	mu       sync.Mutex
	closures map[domain.ClosureEntry]*domain.Closure
	descs    map[domain.ClosureEntry]domain.Descriptor
}

// NewPlan creates a plan over g.
func NewPlan(g *domain.Graph) *Plan {
	return &Plan{
		graph:    g,
		closures: make(map[domain.ClosureEntry]*domain.Closure),
		descs:    make(map[domain.ClosureEntry]domain.Descriptor),
	}
}

// Graph returns the planned graph.
func (p *Plan) Graph() *domain.Graph {
	return p.graph
}

// Closure returns the closure of entry, computing it on first use.
func (p *Plan) Closure(entry domain.ClosureEntry) (*domain.Closure, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closureLocked(entry)
}

func (p *Plan) closureLocked(entry domain.ClosureEntry) (*domain.Closure, error) {
	if c, ok := p.closures[entry]; ok {
		return c, nil
	}
	c, err := resolver.Closure(p.graph, entry.ID, entry.Class)
	if err != nil {
		return nil, err
	}
	p.closures[entry] = c
	return c, nil
}

// Descriptor returns the descriptor of entry's closure.
func (p *Plan) Descriptor(entry domain.ClosureEntry) (domain.Descriptor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if d, ok := p.descs[entry]; ok {
		return d, nil
	}
	c, err := p.closureLocked(entry)
	if err != nil {
		return "", err
	}
	d := Describe(p.graph, c)
	p.descs[entry] = d
	return d, nil
}

// Fingerprint returns the cache key of entry.
func (p *Plan) Fingerprint(entry domain.ClosureEntry) (domain.Fingerprint, error) {
	d, err := p.Descriptor(entry)
	if err != nil {
		return "", err
	}
	return Compute(entry.ID, d), nil
}
