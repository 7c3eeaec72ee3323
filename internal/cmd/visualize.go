package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/wavegate/internal/errors"
	"github.com/felixgeelhaar/wavegate/internal/visualize"
)

var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Render the dependency graph",
	Long: `Render the criteria graph as a diagram. Supported formats:

  mermaid   - Mermaid flowchart for docs and READMEs
  graphviz  - DOT source for the dot toolchain
  json      - structured snapshot with chain analysis
  ascii     - dependency levels for plain terminals

The JSON format embeds debug info: longest dependency chains and
optimization suggestions for chains above two minutes.`,
	RunE: runVisualize,
}

func runVisualize(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	formatName, _ := cmd.Flags().GetString("format")
	format, err := visualize.ParseFormat(formatName)
	if err != nil {
		return err
	}

	snap := visualize.BuildSnapshot(store.Snapshot())
	out := visualize.Render(snap, format)

	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(out.Diagram+"\n"), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write "+outPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cliStyles().Success.Render("Wrote"), outPath)
		return nil
	}

	return emit(cmd, out, func(w io.Writer) error {
		fmt.Fprintln(w, out.Diagram)
		if out.Instructions != "" {
			fmt.Fprintln(w, cliStyles().Label.Render(out.Instructions))
		}
		return nil
	})
}

func init() {
	rootCmd.AddCommand(visualizeCmd)

	visualizeCmd.Flags().StringP("format", "f", "mermaid", "Diagram format (mermaid, graphviz, json, ascii)")
	visualizeCmd.Flags().String("out", "", "Write the diagram to a file instead of stdout")
}
