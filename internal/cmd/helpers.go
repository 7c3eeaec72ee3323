package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/wavegate/internal/analytics"
	"github.com/felixgeelhaar/wavegate/internal/config"
	"github.com/felixgeelhaar/wavegate/internal/criteria"
	"github.com/felixgeelhaar/wavegate/internal/errors"
	"github.com/felixgeelhaar/wavegate/internal/ux"
)

// loadStore builds the working store: the standard criteria, replaced by
// the saved config when one exists.
func loadStore() (*criteria.Store, error) {
	store := criteria.NewStore()
	file, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if file != nil {
		if err := config.Apply(store, file, config.ModeReplace); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func persistStore(store *criteria.Store) error {
	_, err := config.Save(store, configPath)
	return err
}

// loadRecorder restores persisted execution history, if any.
func loadRecorder() (*analytics.Recorder, error) {
	recorder := analytics.NewRecorder()
	records, err := config.LoadAnalytics("")
	if err != nil {
		return nil, err
	}
	recorder.Load(records)
	return recorder, nil
}

func cliStyles() ux.Styles {
	return ux.NewStyles(noColor)
}

// emit writes data in the selected output format. Structured formats go
// through the shared formatter; text output uses the command's renderer.
func emit(cmd *cobra.Command, data interface{}, text func(w io.Writer) error) error {
	switch outputFormat {
	case "json", "yaml":
		f, err := ux.NewFormatter(outputFormat, &ux.FormatterOptions{
			Writer:  cmd.OutOrStdout(),
			NoColor: noColor,
		})
		if err != nil {
			return err
		}
		return f.Format(data)
	case "text", "":
		return text(cmd.OutOrStdout())
	default:
		return fmt.Errorf("unknown output format: %s (supported: text, json, yaml)", outputFormat)
	}
}

// parseDependencySpec parses a --depends value of the form
// "type:target" (e.g. "strict:build-validated"). A bare target defaults
// to a strict dependency.
func parseDependencySpec(spec string) (criteria.Dependency, error) {
	depType := criteria.DependencyStrict
	target := spec
	if before, after, found := strings.Cut(spec, ":"); found {
		parsed, err := criteria.ParseDependencyType(before)
		if err != nil {
			return criteria.Dependency{}, err
		}
		depType = parsed
		target = after
	}
	if target == "" {
		return criteria.Dependency{}, errors.New(errors.ErrCodeEmptyCriterionID,
			"dependency target must not be empty").
			WithSuggestion("Use the form type:target, e.g. strict:build-validated")
	}
	return criteria.Dependency{TargetID: target, Type: depType}, nil
}

func parseResources(names []string) ([]criteria.Resource, error) {
	if len(names) == 0 {
		return nil, nil
	}
	resources := make([]criteria.Resource, 0, len(names))
	for _, name := range names {
		r, err := criteria.ParseResource(name)
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, nil
}
