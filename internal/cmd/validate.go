package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/wavegate/internal/criteria"
	"github.com/felixgeelhaar/wavegate/internal/errors"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the dependency graph",
	Long: `Check the criteria graph for circular dependencies and dangling
references. Cycles are detected over strict and weak edges; optional
edges are informational and never participate in cycles.

Exits non-zero when the graph is invalid.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	result := store.Validate()

	if err := emit(cmd, result, func(w io.Writer) error {
		renderValidation(w, result)
		return nil
	}); err != nil {
		return err
	}

	if !result.Valid {
		return errors.New(errors.ErrCodeGraphInvalid,
			fmt.Sprintf("dependency graph has %d issue(s)", len(result.Issues))).
			WithSuggestion("Run 'wavegate visualize' to inspect the graph structure")
	}
	return nil
}

func renderValidation(w io.Writer, result criteria.ValidationResult) {
	styles := cliStyles()
	if result.Valid {
		fmt.Fprintln(w, styles.Success.Render("Dependency graph is valid"))
		return
	}
	fmt.Fprintln(w, styles.Failure.Render(fmt.Sprintf("Dependency graph has %d issue(s)", len(result.Issues))))
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  %s %s\n", styles.Label.Render(string(issue.Type)+":"), issue.Detail)
		if len(issue.Path) > 0 {
			fmt.Fprintf(w, "    %s %v\n", styles.Label.Render("path:"), issue.Path)
		}
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
