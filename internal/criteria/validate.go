package criteria

import (
	"fmt"
	"strings"
)

// IssueType classifies a structural problem found by validation.
type IssueType string

const (
	// IssueCycle marks a dependency cycle among strict/weak edges
	IssueCycle IssueType = "cycle"
	// IssueDanglingReference marks a dependency on a criterion that does not exist
	IssueDanglingReference IssueType = "dangling_reference"
)

// Issue is a single structural problem in the graph.
type Issue struct {
	Type   IssueType `json:"type"`
	Detail string    `json:"detail"`
	Path   []string  `json:"path,omitempty"`
}

// ValidationResult is the outcome of a structural graph check.
type ValidationResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// Validate runs structural checks against a snapshot of the store.
// It is read-only; a cycle is reported as a result, never an error,
// so planning can still proceed via forced execution.
func (s *Store) Validate() ValidationResult {
	return ValidateGraph(s.Snapshot())
}

// ValidateGraph detects cycles among strict/weak edges and dangling
// references to unknown criteria. Optional edges are informational and
// excluded from cycle detection, but dangling optional targets are
// still reported.
func ValidateGraph(g *Graph) ValidationResult {
	var issues []Issue

	// Dangling references first, in insertion order.
	for _, id := range g.IDs() {
		c, _ := g.Get(id)
		for _, dep := range c.Dependencies {
			if _, ok := g.Get(dep.TargetID); !ok {
				issues = append(issues, Issue{
					Type:   IssueDanglingReference,
					Detail: fmt.Sprintf("criterion %q depends on unknown criterion %q", id, dep.TargetID),
					Path:   []string{id, dep.TargetID},
				})
			}
		}
	}

	// Depth-first search with an explicit recursion stack. A back-edge
	// into the stack is a cycle.
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	var visit func(id string, path []string)
	visit = func(id string, path []string) {
		visited[id] = true
		onStack[id] = true
		path = append(path, id)

		c, _ := g.Get(id)
		for _, dep := range c.Dependencies {
			if dep.Type == DependencyOptional {
				continue
			}
			if _, ok := g.Get(dep.TargetID); !ok {
				continue
			}
			if !visited[dep.TargetID] {
				visit(dep.TargetID, path)
			} else if onStack[dep.TargetID] {
				cycle := extractCycle(path, dep.TargetID)
				issues = append(issues, Issue{
					Type:   IssueCycle,
					Detail: "dependency cycle: " + strings.Join(cycle, " -> "),
					Path:   cycle,
				})
			}
		}

		onStack[id] = false
	}

	for _, id := range g.IDs() {
		if !visited[id] {
			visit(id, nil)
		}
	}

	return ValidationResult{
		Valid:  len(issues) == 0,
		Issues: issues,
	}
}

// extractCycle trims the DFS path to the segment that forms the cycle
// and closes it with the repeated node.
func extractCycle(path []string, start string) []string {
	for i, id := range path {
		if id == start {
			cycle := make([]string, 0, len(path)-i+1)
			cycle = append(cycle, path[i:]...)
			return append(cycle, start)
		}
	}
	return append([]string{}, start, start)
}
