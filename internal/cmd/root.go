package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	outputFormat string
	noColor      bool
	configPath   string
)

var rootCmd = &cobra.Command{
	Use:   "wavegate",
	Short: "Dependency-aware manager for validation criteria",
	Long: `wavegate manages validation criteria and the dependencies between them.
It validates the dependency graph, plans concurrency-bounded execution
waves that respect strict ordering, runs the waves against project
commands, and reports on execution history and graph health.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command under the given context, so an
// interrupt signal cancels in-flight executions.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Criteria config file (default .wavegate/criteria.json)")
}
