package visualize

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/felixgeelhaar/wavegate/internal/criteria"
)

// Node is one criterion in a graph snapshot.
type Node struct {
	ID                  string              `json:"id"`
	Description         string              `json:"description,omitempty"`
	EstimatedDurationMs int64               `json:"estimatedDurationMs"`
	Parallelizable      bool                `json:"parallelizable"`
	Resources           []criteria.Resource `json:"resourceRequirements,omitempty"`
}

// Edge is one dependency relationship in a graph snapshot.
type Edge struct {
	From string                  `json:"from"`
	To   string                  `json:"to"`
	Type criteria.DependencyType `json:"type"`
}

// Statistics summarizes the snapshot.
type Statistics struct {
	NodeCount                int   `json:"nodeCount"`
	EdgeCount                int   `json:"edgeCount"`
	StrictEdges              int   `json:"strictEdges"`
	WeakEdges                int   `json:"weakEdges"`
	OptionalEdges            int   `json:"optionalEdges"`
	LevelCount               int   `json:"levelCount"`
	TotalEstimatedDurationMs int64 `json:"totalEstimatedDurationMs"`
}

// Snapshot is the stable, format-independent view of the graph consumed
// by every renderer. Building it twice against an unchanged graph
// yields identical nodes, edges, levels, and fingerprint.
type Snapshot struct {
	Nodes       []Node     `json:"nodes"`
	Edges       []Edge     `json:"edges"`
	Levels      [][]string `json:"levels"`
	Statistics  Statistics `json:"statistics"`
	Fingerprint string     `json:"fingerprint"`
}

// BuildSnapshot derives the renderer view from a graph snapshot. Node
// and edge order follow store insertion order, which makes the result
// deterministic under re-invocation.
func BuildSnapshot(g *criteria.Graph) Snapshot {
	snap := Snapshot{
		Nodes:  []Node{},
		Edges:  []Edge{},
		Levels: [][]string{},
	}

	for _, id := range g.IDs() {
		c, _ := g.Get(id)
		snap.Nodes = append(snap.Nodes, Node{
			ID:                  c.ID,
			Description:         c.Metadata.Description,
			EstimatedDurationMs: c.Metadata.EstimatedDurationMs,
			Parallelizable:      c.Metadata.Parallelizable,
			Resources:           c.Metadata.Resources,
		})
		snap.Statistics.TotalEstimatedDurationMs += c.Metadata.EstimatedDurationMs

		for _, dep := range c.Dependencies {
			snap.Edges = append(snap.Edges, Edge{From: c.ID, To: dep.TargetID, Type: dep.Type})
			switch dep.Type {
			case criteria.DependencyStrict:
				snap.Statistics.StrictEdges++
			case criteria.DependencyWeak:
				snap.Statistics.WeakEdges++
			case criteria.DependencyOptional:
				snap.Statistics.OptionalEdges++
			}
		}
	}

	snap.Levels = dependencyLevels(g)
	snap.Statistics.NodeCount = len(snap.Nodes)
	snap.Statistics.EdgeCount = len(snap.Edges)
	snap.Statistics.LevelCount = len(snap.Levels)
	snap.Fingerprint = fingerprint(snap)
	return snap
}

// dependencyLevels groups criteria by strict-dependency depth: level 0
// holds criteria with no strict dependencies, level n+1 holds criteria
// whose deepest strict dependency sits at level n. Nodes on a cycle are
// assigned the depth reachable without re-entering the cycle.
func dependencyLevels(g *criteria.Graph) [][]string {
	depth := make(map[string]int)
	onStack := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(id string) int
	visit = func(id string) int {
		if visited[id] {
			return depth[id]
		}
		if onStack[id] {
			// Back-edge: treat as depth 0 to terminate.
			return 0
		}
		onStack[id] = true
		defer func() { onStack[id] = false }()

		d := 0
		c, _ := g.Get(id)
		for _, dep := range c.Dependencies {
			if dep.Type != criteria.DependencyStrict {
				continue
			}
			if _, ok := g.Get(dep.TargetID); !ok {
				continue
			}
			if dd := visit(dep.TargetID) + 1; dd > d {
				d = dd
			}
		}
		visited[id] = true
		depth[id] = d
		return d
	}

	maxDepth := -1
	for _, id := range g.IDs() {
		if d := visit(id); d > maxDepth {
			maxDepth = d
		}
	}

	levels := make([][]string, maxDepth+1)
	for i := range levels {
		levels[i] = []string{}
	}
	for _, id := range g.IDs() {
		levels[depth[id]] = append(levels[depth[id]], id)
	}
	if maxDepth < 0 {
		return [][]string{}
	}
	return levels
}

// fingerprint hashes the canonical JSON of the snapshot content with
// blake3 so callers can cheaply detect graph changes.
func fingerprint(snap Snapshot) string {
	content := Snapshot{
		Nodes:      snap.Nodes,
		Edges:      snap.Edges,
		Levels:     snap.Levels,
		Statistics: snap.Statistics,
	}
	// Struct field order is fixed, so Marshal output is canonical.
	canonical, err := json.Marshal(content)
	if err != nil {
		return ""
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return ""
	}
	return fmt.Sprintf("%x", hasher.Sum(nil))
}
