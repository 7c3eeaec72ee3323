package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/wavegate/internal/planner"
	"github.com/felixgeelhaar/wavegate/internal/ux"
)

var planCmd = &cobra.Command{
	Use:   "plan [id...]",
	Short: "Compute a parallel execution plan",
	Long: `Group criteria into execution waves. Criteria in the same wave have no
strict dependencies between them and run concurrently up to the wave's
concurrency bound; waves run strictly one after another.

When the graph contains a strict cycle the planner breaks the deadlock
by forcing the least-blocked criterion into a wave; forced entries are
marked in the output.

Use 'wavegate plan adaptive' for a plan tuned to the host's resources.`,
	RunE: runPlan,
}

var planAdaptiveCmd = &cobra.Command{
	Use:   "adaptive [id...]",
	Short: "Compute a resource-aware execution plan",
	Long: `Compute a wave plan whose concurrency is derived from the host: CPU
count, available memory, network latency, and disk I/O load each bound
the recommendation, and the tightest dimension wins. System values
default to live measurements and can be overridden per dimension.`,
	RunE: runPlanAdaptive,
}

func runPlan(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	plan, err := planner.ParallelPlan(store.Snapshot(), selectionArgs(args), concurrency)
	if err != nil {
		return err
	}

	return emit(cmd, plan, func(w io.Writer) error {
		renderPlan(w, cliStyles(), plan)
		return nil
	})
}

func runPlanAdaptive(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	sys := planner.DefaultSystemInfo()
	if cmd.Flags().Changed("cpus") {
		sys.AvailableCPUs, _ = cmd.Flags().GetInt("cpus")
	}
	if cmd.Flags().Changed("memory-bytes") {
		sys.AvailableMemoryBytes, _ = cmd.Flags().GetInt64("memory-bytes")
	}
	if cmd.Flags().Changed("network-latency-ms") {
		sys.NetworkLatencyMs, _ = cmd.Flags().GetInt("network-latency-ms")
	}
	if cmd.Flags().Changed("disk-load") {
		sys.DiskIOLoad, _ = cmd.Flags().GetFloat64("disk-load")
	}

	plan, err := planner.Adaptive(store.Snapshot(), selectionArgs(args), sys)
	if err != nil {
		return err
	}

	return emit(cmd, plan, func(w io.Writer) error {
		styles := cliStyles()
		fmt.Fprintln(w, styles.Title.Render("Adaptive plan"))
		fmt.Fprintf(w, "  %s %d (cpu=%d memory=%d network=%d disk=%d)\n",
			styles.Label.Render("recommended concurrency:"),
			plan.RecommendedConcurrency,
			plan.Dimensions.CPUOptimized,
			plan.Dimensions.MemoryOptimized,
			plan.Dimensions.NetworkOptimized,
			plan.Dimensions.DiskOptimized)
		for _, s := range plan.ResourceScheduling {
			fmt.Fprintf(w, "  %s %s: %s\n", styles.Label.Render("suggestion:"), s.Type, s.Recommendation)
		}
		renderPlan(w, styles, plan.Plan)
		return nil
	})
}

func renderPlan(w io.Writer, styles ux.Styles, plan planner.Plan) {
	fmt.Fprintln(w, styles.Title.Render(fmt.Sprintf(
		"%d criteria in %d wave(s), max concurrency %d",
		plan.TotalCriteria, plan.TotalWaves, plan.MaxConcurrency)))
	for _, wave := range plan.Waves {
		fmt.Fprintf(w, "%s %s\n",
			styles.Header.Render(fmt.Sprintf("Wave %d", wave.Index+1)),
			styles.Label.Render(fmt.Sprintf("(~%dms, concurrency %d)", wave.EstimatedDurationMs, wave.Concurrency)))
		for _, entry := range wave.Entries {
			if entry.Forced {
				fmt.Fprintf(w, "  %s %s\n", styles.Forced.Render("forced:"), entry.CriterionID)
				continue
			}
			fmt.Fprintf(w, "  %s\n", entry.CriterionID)
		}
	}
	fmt.Fprintf(w, "%s estimated %dms total, %.2fx gain over sequential, %.0f%% slot efficiency\n",
		styles.Label.Render("summary:"),
		plan.EstimatedTotalDurationMs, plan.ParallelizationGain, plan.Efficiency*100)
}

func selectionArgs(args []string) []string {
	if len(args) == 0 {
		return nil
	}
	return args
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planAdaptiveCmd)

	planCmd.Flags().IntP("concurrency", "c", planner.DefaultMaxConcurrency, "Maximum criteria per wave")

	planAdaptiveCmd.Flags().Int("cpus", 0, "Override detected CPU count")
	planAdaptiveCmd.Flags().Int64("memory-bytes", 0, "Override available memory in bytes")
	planAdaptiveCmd.Flags().Int("network-latency-ms", 0, "Override measured network latency in milliseconds")
	planAdaptiveCmd.Flags().Float64("disk-load", 0, "Override disk I/O load (0.0-1.0)")
}
