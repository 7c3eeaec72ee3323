// Package runner maps criterion ids to shell commands declared in a
// project manifest and executes them on behalf of the engine.
package runner

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/wavegate/internal/errors"
)

// DefaultManifestPath is the project-local command manifest.
const DefaultManifestPath = "wavegate.yaml"

// Command is one runnable validation command from the manifest.
type Command struct {
	// Run is the command argv; the first element is the program.
	Run []string `yaml:"run"`
	// Dir overrides the working directory for this command.
	Dir string `yaml:"dir,omitempty"`
	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string `yaml:"env,omitempty"`
}

// Manifest maps criterion ids to the commands that validate them.
type Manifest struct {
	Version  string             `yaml:"version,omitempty"`
	Commands map[string]Command `yaml:"commands"`
}

// LoadManifest reads and parses the manifest at path. An empty path uses
// DefaultManifestPath.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		path = DefaultManifestPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigReadFailed, "failed to read manifest "+path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigParseFailure, "failed to parse manifest "+path, err)
	}

	for id, cmd := range m.Commands {
		if len(cmd.Run) == 0 {
			return nil, errors.New(errors.ErrCodeConfigParseFailure,
				"manifest entry "+id+" has no run command").
				WithSuggestion("Add a 'run' list with the program and its arguments")
		}
	}
	return &m, nil
}
