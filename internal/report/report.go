// Package report composes validation, planning, analytics, and
// visualization into a single analysis document.
package report

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/wavegate/internal/analytics"
	"github.com/felixgeelhaar/wavegate/internal/criteria"
	"github.com/felixgeelhaar/wavegate/internal/planner"
	"github.com/felixgeelhaar/wavegate/internal/visualize"
)

// Summary is the topline section of an analysis report.
type Summary struct {
	GeneratedAt   time.Time `json:"generatedAt"`
	TotalCriteria int       `json:"totalCriteria"`
	GraphValid    bool      `json:"graphValid"`
	IssueCount    int       `json:"issueCount"`
	TotalWaves    int       `json:"totalWaves"`
}

// ResourceConflict flags criteria in one wave competing for the same
// non-parallelizable resource.
type ResourceConflict struct {
	Resource     criteria.Resource `json:"resource"`
	WaveIndex    int               `json:"waveIndex"`
	CriterionIDs []string          `json:"criterionIds"`
}

// DependencyAnalysis describes the structure of the graph.
type DependencyAnalysis struct {
	Chains              []visualize.DependencyChain `json:"chains"`
	ResourceConflicts   []ResourceConflict          `json:"resourceConflicts"`
	ParallelizationGain float64                     `json:"parallelizationGain"`
	IndependentCriteria []string                    `json:"independentCriteria"`
}

// ExecutionPlanning holds the standard and adaptive plans side by side.
type ExecutionPlanning struct {
	Standard planner.Plan         `json:"standard"`
	Adaptive planner.AdaptivePlan `json:"adaptive"`
}

// Recommendations groups suggested follow-ups by horizon.
type Recommendations struct {
	Immediate           []string `json:"immediate"`
	Future              []string `json:"future"`
	SystemOptimizations []string `json:"systemOptimizations"`
}

// Report is the full analysis document.
type Report struct {
	Summary            Summary                     `json:"summary"`
	Validation         criteria.ValidationResult   `json:"validation"`
	DependencyAnalysis DependencyAnalysis          `json:"dependencyAnalysis"`
	ExecutionPlanning  ExecutionPlanning           `json:"executionPlanning"`
	Analytics          analytics.Stats             `json:"analytics"`
	Visualizations     map[string]visualize.Output `json:"visualizations"`
	Recommendations    Recommendations             `json:"recommendations"`
}

// Options configures report generation.
type Options struct {
	MaxConcurrency int
	SystemInfo     planner.SystemInfo
	// Formats to include under Visualizations; defaults to mermaid and
	// ascii when empty.
	Formats []visualize.Format
}

// Generate builds the analysis report from one consistent graph
// snapshot, so every section describes the same state.
func Generate(store *criteria.Store, recorder *analytics.Recorder, opts Options) (Report, error) {
	g := store.Snapshot()

	validation := criteria.ValidateGraph(g)

	standard, err := planner.ParallelPlan(g, nil, opts.MaxConcurrency)
	if err != nil {
		return Report{}, err
	}
	adaptive, err := planner.Adaptive(g, nil, opts.SystemInfo)
	if err != nil {
		return Report{}, err
	}

	snap := visualize.BuildSnapshot(g)

	formats := opts.Formats
	if len(formats) == 0 {
		formats = []visualize.Format{visualize.FormatMermaid, visualize.FormatASCII}
	}
	visualizations := make(map[string]visualize.Output, len(formats))
	for _, f := range formats {
		visualizations[f.String()] = visualize.Render(snap, f)
	}

	jsonOut := visualize.Render(snap, visualize.FormatJSON)

	rep := Report{
		Summary: Summary{
			GeneratedAt:   time.Now().UTC(),
			TotalCriteria: g.Len(),
			GraphValid:    validation.Valid,
			IssueCount:    len(validation.Issues),
			TotalWaves:    standard.TotalWaves,
		},
		Validation: validation,
		DependencyAnalysis: DependencyAnalysis{
			Chains:              jsonOut.DebugInfo.DependencyChains,
			ResourceConflicts:   resourceConflicts(g, standard),
			ParallelizationGain: standard.ParallelizationGain,
			IndependentCriteria: independentCriteria(g),
		},
		ExecutionPlanning: ExecutionPlanning{
			Standard: standard,
			Adaptive: adaptive,
		},
		Analytics:      recorder.Stats(),
		Visualizations: visualizations,
	}
	rep.buildRecommendations(jsonOut.DebugInfo)
	return rep, nil
}

// buildRecommendations derives the recommendation section from the
// already computed report body and the chain analysis.
func (r *Report) buildRecommendations(debug *visualize.DebugInfo) {
	recs := Recommendations{
		Immediate:           []string{},
		Future:              []string{},
		SystemOptimizations: []string{},
	}

	for _, issue := range r.Validation.Issues {
		switch issue.Type {
		case criteria.IssueCycle:
			recs.Immediate = append(recs.Immediate,
				"Break the dependency cycle: "+issue.Detail)
		case criteria.IssueDanglingReference:
			recs.Immediate = append(recs.Immediate,
				"Fix the dangling reference: "+issue.Detail)
		}
	}

	if debug != nil {
		for _, suggestion := range debug.OptimizationSuggestions {
			recs.Future = append(recs.Future, suggestion.Recommendation)
		}
	}
	if r.DependencyAnalysis.ParallelizationGain <= 1 && r.Summary.TotalCriteria > 1 {
		recs.Future = append(recs.Future,
			"The plan is fully serial; review strict dependencies for parallelization opportunities.")
	}

	for _, s := range r.ExecutionPlanning.Adaptive.ResourceScheduling {
		recs.SystemOptimizations = append(recs.SystemOptimizations, s.Recommendation)
	}
	if rc := r.ExecutionPlanning.Adaptive.RecommendedConcurrency; rc < r.ExecutionPlanning.Standard.MaxConcurrency {
		recs.SystemOptimizations = append(recs.SystemOptimizations, fmt.Sprintf(
			"Host conditions cap useful concurrency at %d; higher limits would oversubscribe resources.", rc))
	}

	r.Recommendations = recs
}

// resourceConflicts finds waves where multiple non-parallelizable
// criteria claim the same resource.
func resourceConflicts(g *criteria.Graph, plan planner.Plan) []ResourceConflict {
	conflicts := []ResourceConflict{}
	for _, wave := range plan.Waves {
		byResource := map[criteria.Resource][]string{}
		for _, entry := range wave.Entries {
			c, ok := g.Get(entry.CriterionID)
			if !ok || c.Metadata.Parallelizable {
				continue
			}
			for _, res := range c.Metadata.Resources {
				byResource[res] = append(byResource[res], entry.CriterionID)
			}
		}
		for _, res := range []criteria.Resource{criteria.ResourceFilesystem, criteria.ResourceCPU, criteria.ResourceMemory, criteria.ResourceNetwork} {
			if ids := byResource[res]; len(ids) > 1 {
				conflicts = append(conflicts, ResourceConflict{
					Resource:     res,
					WaveIndex:    wave.Index,
					CriterionIDs: ids,
				})
			}
		}
	}
	return conflicts
}

// independentCriteria lists criteria with no strict edges in either
// direction; they can run in any wave.
func independentCriteria(g *criteria.Graph) []string {
	hasStrict := map[string]bool{}
	for _, id := range g.IDs() {
		c, _ := g.Get(id)
		for _, dep := range c.Dependencies {
			if dep.Type == criteria.DependencyStrict {
				hasStrict[id] = true
				hasStrict[dep.TargetID] = true
			}
		}
	}

	out := []string{}
	for _, id := range g.IDs() {
		if !hasStrict[id] {
			out = append(out, id)
		}
	}
	return out
}
