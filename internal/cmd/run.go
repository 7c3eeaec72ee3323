package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/wavegate/internal/config"
	"github.com/felixgeelhaar/wavegate/internal/engine"
	"github.com/felixgeelhaar/wavegate/internal/errors"
	"github.com/felixgeelhaar/wavegate/internal/planner"
	"github.com/felixgeelhaar/wavegate/internal/runner"
	"github.com/felixgeelhaar/wavegate/internal/ux"
)

var runCmd = &cobra.Command{
	Use:   "run [id...]",
	Short: "Execute the validation plan",
	Long: `Plan the criteria into waves and execute them against the commands
declared in the project manifest (wavegate.yaml by default). Waves run
one after another; criteria within a wave run concurrently. A criterion
whose strict dependency failed is skipped; failed attempts retry with
exponential backoff up to the retry limit.

Execution results are appended to the analytics history.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	if result := store.Validate(); !result.Valid {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return errors.New(errors.ErrCodeGraphInvalid,
				fmt.Sprintf("dependency graph has %d issue(s)", len(result.Issues))).
				WithSuggestions(
					"Run 'wavegate validate' for details",
					"Pass --force to execute anyway with cycle breaking")
		}
	}

	g := store.Snapshot()
	adaptive, _ := cmd.Flags().GetBool("adaptive")
	var plan planner.Plan
	if adaptive {
		ap, err := planner.Adaptive(g, selectionArgs(args), planner.DefaultSystemInfo())
		if err != nil {
			return err
		}
		plan = ap.Plan
	} else {
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		plan, err = planner.ParallelPlan(g, selectionArgs(args), concurrency)
		if err != nil {
			return err
		}
	}

	manifestPath, _ := cmd.Flags().GetString("manifest")
	manifest, err := runner.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	recorder, err := loadRecorder()
	if err != nil {
		return err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	retries, _ := cmd.Flags().GetInt("retries")

	var listener engine.Listener
	if outputFormat == "text" || outputFormat == "" {
		listener = ux.NewProgressListener(cmd.OutOrStdout(), cliStyles())
	}

	eng := engine.New(runner.NewCommandExecutor(manifest, ""))
	report, runErr := eng.Run(cmd.Context(), g, plan, engine.Options{
		Timeout:    timeout,
		MaxRetries: retries,
		Listener:   listener,
		Recorder:   recorder,
	})
	if runErr != nil {
		return runErr
	}

	if _, err := config.SaveAnalytics(recorder, ""); err != nil {
		return err
	}

	if err := emit(cmd, report, func(w io.Writer) error {
		renderRunReport(w, report)
		return nil
	}); err != nil {
		return err
	}

	if !report.Success {
		return errors.New(errors.ErrCodeExecutorFailure,
			fmt.Sprintf("%d criterion(s) failed", len(report.State.Failed)))
	}
	return nil
}

func renderRunReport(w io.Writer, report engine.Report) {
	styles := cliStyles()
	fmt.Fprintln(w)
	if report.Success {
		fmt.Fprintln(w, styles.Success.Render(fmt.Sprintf(
			"Run %s succeeded: %d criteria passed", report.RunID, len(report.State.Completed))))
	} else {
		fmt.Fprintln(w, styles.Failure.Render(fmt.Sprintf(
			"Run %s failed: %d passed, %d failed", report.RunID,
			len(report.State.Completed), len(report.State.Failed))))
		for _, id := range report.State.Failed {
			fmt.Fprintf(w, "  %s %s\n", styles.Failure.Render("failed:"), id)
		}
	}
	fmt.Fprintf(w, "%s %.2fx parallelization gain\n",
		styles.Label.Render("summary:"), report.Summary.ParallelizationGain)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("concurrency", "c", planner.DefaultMaxConcurrency, "Maximum criteria per wave")
	runCmd.Flags().Bool("adaptive", false, "Derive concurrency from host resources")
	runCmd.Flags().Duration("timeout", engine.DefaultTimeout, "Per-attempt timeout")
	runCmd.Flags().Int("retries", engine.DefaultMaxRetries, "Retries after a failed attempt")
	runCmd.Flags().String("manifest", runner.DefaultManifestPath, "Command manifest file")
	runCmd.Flags().Bool("force", false, "Execute even when the graph fails validation")
}
