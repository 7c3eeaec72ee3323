package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/wavegate/internal/analytics"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show execution history statistics",
	Long: `Summarize recorded executions: total runs, success rate, and average
duration, overall and per criterion. History is appended by
'wavegate run' and persisted next to the criteria config.`,
	RunE: runAnalytics,
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	recorder, err := loadRecorder()
	if err != nil {
		return err
	}
	stats := recorder.Stats()

	return emit(cmd, stats, func(w io.Writer) error {
		renderStats(w, stats)
		return nil
	})
}

func renderStats(w io.Writer, stats analytics.Stats) {
	styles := cliStyles()
	if stats.NoData {
		fmt.Fprintln(w, styles.Label.Render("No executions recorded yet. Run 'wavegate run' first."))
		return
	}

	fmt.Fprintln(w, styles.Title.Render("Execution analytics"))
	fmt.Fprintf(w, "  %s %d\n", styles.Label.Render("total executions:"), stats.TotalExecutions)
	fmt.Fprintf(w, "  %s %.1f%%\n", styles.Label.Render("success rate:"), stats.SuccessRate*100)
	fmt.Fprintf(w, "  %s %.0fms\n", styles.Label.Render("average duration:"), stats.AverageDurationMs)

	ids := make([]string, 0, len(stats.Criteria))
	for id := range stats.Criteria {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		cs := stats.Criteria[id]
		fmt.Fprintf(w, "  %s %d run(s), %.1f%% success, avg %.0fms\n",
			styles.Header.Render(id+":"), cs.Count, cs.SuccessRate*100, cs.AverageDurationMs)
	}
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
}
