package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/wavegate/internal/planner"
)

var orderCmd = &cobra.Command{
	Use:   "order [id...]",
	Short: "Compute a dependency-respecting execution order",
	Long: `Compute a topological execution order over the criteria graph.
Strict dependencies are hard ordering constraints; weak dependencies
are preferences the order honors when possible. Without arguments the
order covers every criterion; with arguments it covers the given ids
and ignores edges that leave the selection.`,
	RunE: runOrder,
}

func runOrder(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	var selection []string
	if len(args) > 0 {
		selection = args
	}
	order, err := planner.ExecutionOrder(store.Snapshot(), selection)
	if err != nil {
		return err
	}

	return emit(cmd, map[string][]string{"order": order}, func(w io.Writer) error {
		styles := cliStyles()
		fmt.Fprintln(w, styles.Title.Render("Execution order"))
		for i, id := range order {
			fmt.Fprintf(w, "  %s %s\n", styles.Label.Render(fmt.Sprintf("%d.", i+1)), id)
		}
		return nil
	})
}

func init() {
	rootCmd.AddCommand(orderCmd)
}
