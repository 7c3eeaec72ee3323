package visualize

// DependencyChain is a longest strict-dependency path ending at a
// terminal criterion, with its cumulative estimated duration.
type DependencyChain struct {
	Path                 []string `json:"path"`
	CumulativeDurationMs int64    `json:"cumulativeDurationMs"`
}

// Suggestion proposes a graph improvement derived from chain analysis.
type Suggestion struct {
	Type           string `json:"type"`
	Recommendation string `json:"recommendation"`
	Impact         string `json:"impact"`
	Priority       string `json:"priority"`
}

// DebugInfo is the structured analysis attached to JSON renderings.
type DebugInfo struct {
	DependencyChains        []DependencyChain `json:"dependencyChains"`
	OptimizationSuggestions []Suggestion      `json:"optimizationSuggestions"`
}

// longChainThresholdMs flags chains whose cumulative duration dominates
// a typical pipeline run.
const longChainThresholdMs = 120_000

func buildDebugInfo(snap Snapshot) DebugInfo {
	info := DebugInfo{
		DependencyChains:        []DependencyChain{},
		OptimizationSuggestions: []Suggestion{},
	}

	duration := make(map[string]int64, len(snap.Nodes))
	for _, n := range snap.Nodes {
		duration[n.ID] = n.EstimatedDurationMs
	}

	// Strict adjacency: dependent -> targets.
	deps := make(map[string][]string)
	hasDependent := make(map[string]bool)
	for _, e := range snap.Edges {
		if e.Type != "strict" {
			continue
		}
		if _, known := duration[e.To]; !known {
			continue
		}
		deps[e.From] = append(deps[e.From], e.To)
		hasDependent[e.To] = true
	}

	// Longest chain from each terminal criterion (nothing strictly
	// depends on it) down to its roots.
	memo := make(map[string]DependencyChain)
	onStack := make(map[string]bool)

	var longest func(id string) DependencyChain
	longest = func(id string) DependencyChain {
		if chain, ok := memo[id]; ok {
			return chain
		}
		if onStack[id] {
			// Cycle: cut the chain here.
			return DependencyChain{Path: []string{}, CumulativeDurationMs: 0}
		}
		onStack[id] = true
		defer func() { onStack[id] = false }()

		best := DependencyChain{}
		for _, target := range deps[id] {
			if sub := longest(target); sub.CumulativeDurationMs > best.CumulativeDurationMs {
				best = sub
			}
		}

		chain := DependencyChain{
			Path:                 append([]string{id}, best.Path...),
			CumulativeDurationMs: duration[id] + best.CumulativeDurationMs,
		}
		memo[id] = chain
		return chain
	}

	for _, n := range snap.Nodes {
		if hasDependent[n.ID] {
			continue
		}
		chain := longest(n.ID)
		info.DependencyChains = append(info.DependencyChains, chain)

		if chain.CumulativeDurationMs > longChainThresholdMs && len(chain.Path) > 1 {
			info.OptimizationSuggestions = append(info.OptimizationSuggestions, Suggestion{
				Type: "long_dependency_chain",
				Recommendation: "Chain ending at '" + n.ID + "' is the critical path; " +
					"split long steps or relax strict dependencies to weak where ordering is a preference.",
				Impact:   "Shortens the minimum possible pipeline duration.",
				Priority: "high",
			})
		}
	}

	return info
}
