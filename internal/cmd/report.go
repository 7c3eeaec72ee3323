package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/wavegate/internal/planner"
	"github.com/felixgeelhaar/wavegate/internal/report"
	"github.com/felixgeelhaar/wavegate/internal/ux"
	"github.com/felixgeelhaar/wavegate/internal/visualize"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a graph analysis report",
	Long: `Build a comprehensive report over the criteria graph: validation
status, dependency analysis, execution planning with standard and
adaptive concurrency, resource conflicts, rendered visualizations, and
prioritized recommendations.

Structured output (--output json) is suited for dashboards; the text
rendering summarizes the highlights.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	recorder, err := loadRecorder()
	if err != nil {
		return err
	}

	formatNames, _ := cmd.Flags().GetStringSlice("formats")
	formats := make([]visualize.Format, 0, len(formatNames))
	for _, name := range formatNames {
		f, err := visualize.ParseFormat(name)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	rpt, err := report.Generate(store, recorder, report.Options{
		MaxConcurrency: concurrency,
		SystemInfo:     planner.DefaultSystemInfo(),
		Formats:        formats,
	})
	if err != nil {
		return err
	}

	return emit(cmd, rpt, func(w io.Writer) error {
		renderReport(w, rpt)
		return nil
	})
}

func renderReport(w io.Writer, rpt report.Report) {
	styles := cliStyles()

	fmt.Fprintln(w, styles.Title.Render("Dependency analysis report"))
	if rpt.Summary.GraphValid {
		fmt.Fprintf(w, "  %s %s\n", styles.Label.Render("graph:"), styles.Success.Render("valid"))
	} else {
		fmt.Fprintf(w, "  %s %s\n", styles.Label.Render("graph:"),
			styles.Failure.Render(fmt.Sprintf("%d issue(s)", len(rpt.Validation.Issues))))
	}
	fmt.Fprintf(w, "  %s %d criteria, %d independent\n",
		styles.Label.Render("dependencies:"),
		rpt.Summary.TotalCriteria, len(rpt.DependencyAnalysis.IndependentCriteria))
	fmt.Fprintf(w, "  %s %d wave(s), %.2fx gain, adaptive concurrency %d\n",
		styles.Label.Render("planning:"),
		rpt.ExecutionPlanning.Standard.TotalWaves,
		rpt.ExecutionPlanning.Standard.ParallelizationGain,
		rpt.ExecutionPlanning.Adaptive.RecommendedConcurrency)

	if len(rpt.DependencyAnalysis.ResourceConflicts) > 0 {
		fmt.Fprintln(w, styles.Header.Render("Resource conflicts"))
		for _, c := range rpt.DependencyAnalysis.ResourceConflicts {
			fmt.Fprintf(w, "  %s %v share %s in wave %d\n",
				styles.Label.Render("conflict:"), c.CriterionIDs, c.Resource, c.WaveIndex+1)
		}
	}

	renderRecommendationGroup(w, styles, "Immediate", rpt.Recommendations.Immediate)
	renderRecommendationGroup(w, styles, "Future", rpt.Recommendations.Future)
	renderRecommendationGroup(w, styles, "System", rpt.Recommendations.SystemOptimizations)
}

func renderRecommendationGroup(w io.Writer, styles ux.Styles, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, styles.Header.Render(title+" recommendations"))
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().IntP("concurrency", "c", planner.DefaultMaxConcurrency, "Maximum criteria per wave")
	reportCmd.Flags().StringSlice("formats", nil, "Visualization formats to embed (default mermaid, ascii)")
}
