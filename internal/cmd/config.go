package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/wavegate/internal/config"
	"github.com/felixgeelhaar/wavegate/internal/criteria"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Persist and restore the criteria graph",
	Long: `Save the criteria graph to a JSON config file or load one back.

Use 'wavegate config save' to write the current graph.
Use 'wavegate config load' to apply a saved graph, merging or replacing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the criteria graph to disk",
	RunE:  runConfigSave,
}

var configLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a saved criteria graph",
	Long: `Apply a saved config file to the standard criteria set. With
--mode replace (the default) the file contents become the whole graph;
with --mode merge the file's criteria overwrite matching ids and the
rest stay. A missing or unparseable file leaves the graph unchanged.`,
	RunE: runConfigLoad,
}

func runConfigSave(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	path, err := config.Save(store, configPath)
	if err != nil {
		return err
	}
	return emit(cmd, map[string]string{"saved": path}, func(w io.Writer) error {
		fmt.Fprintf(w, "%s %s\n", cliStyles().Success.Render("Saved"), path)
		return nil
	})
}

func runConfigLoad(cmd *cobra.Command, args []string) error {
	modeName, _ := cmd.Flags().GetString("mode")
	var mode config.MergeMode
	switch modeName {
	case "replace", "":
		mode = config.ModeReplace
	case "merge":
		mode = config.ModeMerge
	default:
		return fmt.Errorf("unknown merge mode: %s (supported: replace, merge)", modeName)
	}

	file, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if file == nil {
		return emit(cmd, map[string]string{"status": "no config found"}, func(w io.Writer) error {
			fmt.Fprintln(w, cliStyles().Label.Render("No config file found; graph unchanged."))
			return nil
		})
	}

	store := criteria.NewStore()
	if err := config.Apply(store, file, mode); err != nil {
		return err
	}
	if err := persistStore(store); err != nil {
		return err
	}

	count := store.Len()
	return emit(cmd, map[string]interface{}{"mode": modeName, "criteria": count}, func(w io.Writer) error {
		fmt.Fprintf(w, "%s %d criteria (%s mode)\n", cliStyles().Success.Render("Loaded"), count, modeName)
		return nil
	})
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSaveCmd)
	configCmd.AddCommand(configLoadCmd)

	configLoadCmd.Flags().String("mode", "replace", "How to apply the file (replace, merge)")
}
