package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/wavegate/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.GetInfo()
		verbose, _ := cmd.Flags().GetBool("verbose")
		return emit(cmd, info, func(w io.Writer) error {
			if verbose {
				fmt.Fprintln(w, info.String())
				return nil
			}
			fmt.Fprintf(w, "wavegate %s\n", info.Short())
			return nil
		})
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "show detailed version information")
	rootCmd.AddCommand(versionCmd)
}
