package criteria

import (
	"fmt"
	"sync"

	"github.com/felixgeelhaar/wavegate/internal/errors"
)

// Store holds criterion definitions and their dependency edges.
// All operations are concurrency-safe; reads observe complete snapshots
// and never see a mutation half-applied. Iteration order is insertion
// order, which planners use as the deterministic tie-break.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]Criterion
	order []string
}

// NewStore creates a Store seeded with the standard pipeline criteria
func NewStore() *Store {
	s := NewEmptyStore()
	s.seed()
	return s
}

// NewEmptyStore creates a Store with no criteria
func NewEmptyStore() *Store {
	return &Store{
		nodes: make(map[string]Criterion),
	}
}

// Add registers a criterion, overwriting any existing criterion with the
// same id while preserving its position in insertion order. Every
// dependency entry must carry a recognized relationship type.
func (s *Store) Add(id string, cfg Config) error {
	if id == "" {
		return errors.New(errors.ErrCodeEmptyCriterionID, "criterion id cannot be empty")
	}
	for _, dep := range cfg.Dependencies {
		if !dep.Type.Valid() {
			return errors.New(errors.ErrCodeInvalidDependencyType,
				fmt.Sprintf("criterion %q: unknown dependency type %q on target %q", id, dep.Type, dep.TargetID)).
				WithSuggestion("use one of: strict, weak, optional")
		}
		if dep.TargetID == id {
			return errors.New(errors.ErrCodeSelfDependency,
				fmt.Sprintf("criterion %q cannot depend on itself", id))
		}
	}

	c := Criterion{
		ID:           id,
		Dependencies: cfg.Dependencies,
		Metadata:     cfg.Metadata,
	}.clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[id]; !exists {
		s.order = append(s.order, id)
	}
	s.nodes[id] = c
	return nil
}

// Remove deletes a criterion. Edges in other criteria that reference the
// removed id are left in place; the validator reports them as dangling.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[id]; !ok {
		return notFound(id)
	}
	delete(s.nodes, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a deep copy of the criterion with the given id
func (s *Store) Get(id string) (Criterion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.nodes[id]
	if !ok {
		return Criterion{}, notFound(id)
	}
	return c.clone(), nil
}

// List returns deep copies of all criteria in insertion order
func (s *Store) List() []Criterion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Criterion, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id].clone())
	}
	return out
}

// Len returns the number of criteria in the store
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Snapshot returns an immutable point-in-time view of the graph for
// planners, validators, and renderers. The snapshot is fully detached
// from the store: later mutations do not leak into it.
func (s *Store) Snapshot() *Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g := &Graph{
		order: make([]string, len(s.order)),
		nodes: make(map[string]Criterion, len(s.nodes)),
	}
	copy(g.order, s.order)
	for id, c := range s.nodes {
		g.nodes[id] = c.clone()
	}
	return g
}

// Replace swaps the entire contents of the store for the given criteria,
// in the order given. Used by config load in replace mode.
func (s *Store) Replace(list []Criterion) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = make(map[string]Criterion, len(list))
	s.order = s.order[:0]
	for _, c := range list {
		if _, exists := s.nodes[c.ID]; !exists {
			s.order = append(s.order, c.ID)
		}
		s.nodes[c.ID] = c.clone()
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeCriterionNotFound,
		fmt.Sprintf("criterion %q not found", id)).
		WithSuggestion("run 'wavegate criteria list' to see registered criteria")
}

// Graph is an immutable snapshot of the store used by read-only analyses.
type Graph struct {
	order []string
	nodes map[string]Criterion
}

// IDs returns all criterion ids in insertion order
func (g *Graph) IDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Get returns the criterion with the given id
func (g *Graph) Get(id string) (Criterion, bool) {
	c, ok := g.nodes[id]
	return c, ok
}

// Len returns the number of criteria in the snapshot
func (g *Graph) Len() int {
	return len(g.nodes)
}
