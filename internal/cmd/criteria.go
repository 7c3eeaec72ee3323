package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/wavegate/internal/criteria"
	"github.com/felixgeelhaar/wavegate/internal/ux"
)

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Manage validation criteria and their dependencies",
	Long: `Add, remove, and inspect validation criteria.

Use 'wavegate criteria add' to register a criterion with its dependencies.
Use 'wavegate criteria remove' to delete a criterion.
Use 'wavegate criteria get' to inspect one criterion.
Use 'wavegate criteria list' to list all criteria.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var criteriaAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add or update a validation criterion",
	Long: `Register a criterion with its dependencies and scheduling metadata.
Adding an existing id overwrites it in place.

Dependencies are given as --depends type:target, where type is one of
strict, weak, or optional. A bare target defaults to strict.`,
	Args: cobra.ExactArgs(1),
	RunE: runCriteriaAdd,
}

var criteriaRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a validation criterion",
	Long: `Delete a criterion from the graph. Edges from other criteria that
point at the removed id stay in place and surface as dangling
references in 'wavegate validate'.`,
	Args: cobra.ExactArgs(1),
	RunE: runCriteriaRemove,
}

var criteriaGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one criterion",
	Args:  cobra.ExactArgs(1),
	RunE:  runCriteriaGet,
}

var criteriaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all criteria",
	RunE:  runCriteriaList,
}

func runCriteriaAdd(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	dependsSpecs, _ := cmd.Flags().GetStringArray("depends")
	deps := make([]criteria.Dependency, 0, len(dependsSpecs))
	for _, spec := range dependsSpecs {
		dep, err := parseDependencySpec(spec)
		if err != nil {
			return err
		}
		deps = append(deps, dep)
	}

	resourceNames, _ := cmd.Flags().GetStringSlice("resources")
	resources, err := parseResources(resourceNames)
	if err != nil {
		return err
	}

	description, _ := cmd.Flags().GetString("description")
	durationMs, _ := cmd.Flags().GetInt64("duration-ms")
	parallelizable, _ := cmd.Flags().GetBool("parallelizable")

	id := args[0]
	if err := store.Add(id, criteria.Config{
		Dependencies: deps,
		Metadata: criteria.Metadata{
			Description:         description,
			EstimatedDurationMs: durationMs,
			Parallelizable:      parallelizable,
			Resources:           resources,
		},
	}); err != nil {
		return err
	}
	if err := persistStore(store); err != nil {
		return err
	}

	c, err := store.Get(id)
	if err != nil {
		return err
	}
	return emit(cmd, c, func(w io.Writer) error {
		fmt.Fprintf(w, "%s %s\n", cliStyles().Success.Render("Added"), id)
		return nil
	})
}

func runCriteriaRemove(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	if err := store.Remove(args[0]); err != nil {
		return err
	}
	if err := persistStore(store); err != nil {
		return err
	}
	return emit(cmd, map[string]string{"removed": args[0]}, func(w io.Writer) error {
		fmt.Fprintf(w, "%s %s\n", cliStyles().Success.Render("Removed"), args[0])
		return nil
	})
}

func runCriteriaGet(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	c, err := store.Get(args[0])
	if err != nil {
		return err
	}
	return emit(cmd, c, func(w io.Writer) error {
		renderCriterion(w, cliStyles(), c)
		return nil
	})
}

func runCriteriaList(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	list := store.List()
	return emit(cmd, list, func(w io.Writer) error {
		styles := cliStyles()
		fmt.Fprintln(w, styles.Title.Render(fmt.Sprintf("Criteria (%d)", len(list))))
		for _, c := range list {
			renderCriterion(w, styles, c)
		}
		return nil
	})
}

func renderCriterion(w io.Writer, styles ux.Styles, c criteria.Criterion) {
	fmt.Fprintf(w, "%s\n", styles.Header.Render(c.ID))
	if c.Metadata.Description != "" {
		fmt.Fprintf(w, "  %s %s\n", styles.Label.Render("description:"), c.Metadata.Description)
	}
	fmt.Fprintf(w, "  %s %dms, parallelizable=%t\n",
		styles.Label.Render("estimated:"), c.Metadata.EstimatedDurationMs, c.Metadata.Parallelizable)
	if len(c.Metadata.Resources) > 0 {
		fmt.Fprintf(w, "  %s %v\n", styles.Label.Render("resources:"), c.Metadata.Resources)
	}
	for _, dep := range c.Dependencies {
		fmt.Fprintf(w, "  %s %s (%s)\n", styles.Label.Render("depends on:"), dep.TargetID, dep.Type)
	}
}

func init() {
	rootCmd.AddCommand(criteriaCmd)
	criteriaCmd.AddCommand(criteriaAddCmd)
	criteriaCmd.AddCommand(criteriaRemoveCmd)
	criteriaCmd.AddCommand(criteriaGetCmd)
	criteriaCmd.AddCommand(criteriaListCmd)

	criteriaAddCmd.Flags().StringArrayP("depends", "d", nil, "Dependency as type:target (repeatable)")
	criteriaAddCmd.Flags().String("description", "", "Human-readable description")
	criteriaAddCmd.Flags().Int64("duration-ms", 0, "Estimated duration in milliseconds")
	criteriaAddCmd.Flags().Bool("parallelizable", true, "Whether the criterion may share a wave")
	criteriaAddCmd.Flags().StringSlice("resources", nil, "Resource requirements (filesystem, cpu, memory, network)")
}
