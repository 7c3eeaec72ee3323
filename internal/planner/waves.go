package planner

import (
	"sort"

	"github.com/felixgeelhaar/wavegate/internal/criteria"
)

// ParallelPlan greedily packs the selected criteria into waves of at
// most maxConcurrency entries. A wave holds criteria whose strict
// dependencies all completed in earlier waves. When a cycle blocks all
// progress, the least-blocked criterion is force-scheduled with its
// unmet dependencies treated as satisfied in planner state only.
func ParallelPlan(g *criteria.Graph, ids []string, maxConcurrency int) (Plan, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}

	selection, err := resolveSelection(g, ids)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{MaxConcurrency: maxConcurrency}
	if len(selection) == 0 {
		// Empty selection is a valid no-op plan, not an error.
		plan.ParallelizationGain = 1
		return plan, nil
	}

	selected := make(map[string]bool, len(selection))
	for _, id := range selection {
		selected[id] = true
	}

	// satisfied tracks criteria whose completion the planner may assume:
	// everything scheduled in earlier waves, plus the unmet dependencies
	// of force-scheduled criteria.
	satisfied := make(map[string]bool, len(selection))
	scheduled := make(map[string]bool, len(selection))

	dependents := dependentCounts(g, selection, selected)

	for len(plan.Waves) == 0 || remaining(selection, scheduled) > 0 {
		var candidates []string
		for _, id := range selection {
			if scheduled[id] {
				continue
			}
			if unmetStrict(g, id, selected, satisfied) == 0 {
				candidates = append(candidates, id)
			}
		}

		forced := false
		if len(candidates) == 0 {
			// Deadlocked on a cycle. Force the least-blocked criterion
			// and pretend its unmet strict dependencies completed.
			pick := leastBlocked(g, selection, selected, scheduled)
			c, _ := g.Get(pick)
			for _, dep := range c.Dependencies {
				if dep.Type == criteria.DependencyStrict {
					satisfied[dep.TargetID] = true
				}
			}
			candidates = []string{pick}
			forced = true
		}

		if len(candidates) > maxConcurrency {
			prioritize(g, candidates, dependents)
			candidates = candidates[:maxConcurrency]
		}

		wave := Wave{
			Index:       len(plan.Waves),
			Concurrency: len(candidates),
		}
		for _, id := range candidates {
			wave.Entries = append(wave.Entries, Entry{CriterionID: id, Forced: forced})
			c, _ := g.Get(id)
			if d := c.Metadata.EstimatedDurationMs; d > wave.EstimatedDurationMs {
				wave.EstimatedDurationMs = d
			}
			plan.SequentialDurationMs += c.Metadata.EstimatedDurationMs
			scheduled[id] = true
			satisfied[id] = true
		}
		plan.EstimatedTotalDurationMs += wave.EstimatedDurationMs
		plan.Waves = append(plan.Waves, wave)

		if remaining(selection, scheduled) == 0 {
			break
		}
	}

	plan.TotalWaves = len(plan.Waves)
	plan.TotalCriteria = len(selection)
	plan.ParallelizationGain = 1
	if plan.EstimatedTotalDurationMs > 0 {
		plan.ParallelizationGain = float64(plan.SequentialDurationMs) / float64(plan.EstimatedTotalDurationMs)
	}
	if plan.TotalWaves > 0 {
		plan.Efficiency = float64(len(selection)) / float64(maxConcurrency*plan.TotalWaves)
	}

	return plan, nil
}

// prioritize orders overflow candidates so the most load-bearing run
// first: more dependents, then longer estimated duration, then the
// original selection order (sort is stable).
func prioritize(g *criteria.Graph, candidates []string, dependents map[string]int) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if dependents[a] != dependents[b] {
			return dependents[a] > dependents[b]
		}
		ca, _ := g.Get(a)
		cb, _ := g.Get(b)
		return ca.Metadata.EstimatedDurationMs > cb.Metadata.EstimatedDurationMs
	})
}

// dependentCounts counts, per criterion, how many selected criteria
// strictly depend on it.
func dependentCounts(g *criteria.Graph, selection []string, selected map[string]bool) map[string]int {
	counts := make(map[string]int, len(selection))
	for _, id := range selection {
		c, _ := g.Get(id)
		for _, dep := range c.Dependencies {
			if dep.Type == criteria.DependencyStrict && selected[dep.TargetID] {
				counts[dep.TargetID]++
			}
		}
	}
	return counts
}

func remaining(selection []string, scheduled map[string]bool) int {
	n := 0
	for _, id := range selection {
		if !scheduled[id] {
			n++
		}
	}
	return n
}
