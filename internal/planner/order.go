package planner

import (
	"fmt"

	"github.com/felixgeelhaar/wavegate/internal/criteria"
	"github.com/felixgeelhaar/wavegate/internal/errors"
)

// ExecutionOrder returns a topological ordering of the selected criteria.
// Strict dependencies are hard constraints; weak dependencies are a soft
// preference (a candidate whose weak predecessors are already ordered is
// picked before one still waiting on them). Ties break by insertion
// order. A nil or empty selection orders the full graph.
//
// Cycles degrade gracefully: when no candidate has all strict
// dependencies ordered, the candidate with the fewest unmet strict
// dependencies is ordered anyway, mirroring forced wave scheduling.
func ExecutionOrder(g *criteria.Graph, ids []string) ([]string, error) {
	selection, err := resolveSelection(g, ids)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(selection))
	for _, id := range selection {
		selected[id] = true
	}

	ordered := make([]string, 0, len(selection))
	done := make(map[string]bool, len(selection))

	for len(ordered) < len(selection) {
		var ready []string
		for _, id := range selection {
			if done[id] {
				continue
			}
			if unmetStrict(g, id, selected, done) == 0 {
				ready = append(ready, id)
			}
		}

		if len(ready) == 0 {
			// Cycle: take the least-blocked criterion and move on.
			pick := leastBlocked(g, selection, selected, done)
			ordered = append(ordered, pick)
			done[pick] = true
			continue
		}

		// Prefer a candidate whose weak predecessors are already
		// ordered; fall back to plain insertion order.
		pick := ready[0]
		for _, id := range ready {
			if weakSatisfied(g, id, selected, done) {
				pick = id
				break
			}
		}
		ordered = append(ordered, pick)
		done[pick] = true
	}

	return ordered, nil
}

// resolveSelection expands a nil selection to the full graph and rejects
// unknown ids.
func resolveSelection(g *criteria.Graph, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return g.IDs(), nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := g.Get(id); !ok {
			return nil, errors.New(errors.ErrCodePlanUnknownID,
				fmt.Sprintf("cannot plan unknown criterion %q", id))
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

// unmetStrict counts strict dependencies of id, within the selection,
// that are not yet done. Dependencies outside the selection or on
// unknown criteria do not block.
func unmetStrict(g *criteria.Graph, id string, selected, done map[string]bool) int {
	c, _ := g.Get(id)
	unmet := 0
	for _, dep := range c.Dependencies {
		if dep.Type != criteria.DependencyStrict {
			continue
		}
		if !selected[dep.TargetID] {
			continue
		}
		if !done[dep.TargetID] {
			unmet++
		}
	}
	return unmet
}

// weakSatisfied reports whether all weak predecessors of id, within the
// selection, are already done.
func weakSatisfied(g *criteria.Graph, id string, selected, done map[string]bool) bool {
	c, _ := g.Get(id)
	for _, dep := range c.Dependencies {
		if dep.Type != criteria.DependencyWeak {
			continue
		}
		if selected[dep.TargetID] && !done[dep.TargetID] {
			return false
		}
	}
	return true
}

// leastBlocked picks the remaining criterion with the fewest unmet
// strict dependencies, ties broken by selection order.
func leastBlocked(g *criteria.Graph, selection []string, selected, done map[string]bool) string {
	best := ""
	bestUnmet := -1
	for _, id := range selection {
		if done[id] {
			continue
		}
		unmet := unmetStrict(g, id, selected, done)
		if bestUnmet == -1 || unmet < bestUnmet {
			best = id
			bestUnmet = unmet
		}
	}
	return best
}
