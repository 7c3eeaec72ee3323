package criteria

import (
	"strconv"
	"strings"

	"github.com/felixgeelhaar/wavegate/internal/errors"
)

// DependencyType classifies how strongly a criterion depends on its target.
type DependencyType string

const (
	// DependencyStrict means the target must succeed before the dependent may start
	DependencyStrict DependencyType = "strict"
	// DependencyWeak is an ordering preference only; the dependent may start once
	// the target has finished, regardless of outcome
	DependencyWeak DependencyType = "weak"
	// DependencyOptional is informational and never enforced
	DependencyOptional DependencyType = "optional"
)

// ParseDependencyType validates a relationship type string
func ParseDependencyType(s string) (DependencyType, error) {
	switch DependencyType(strings.ToLower(s)) {
	case DependencyStrict:
		return DependencyStrict, nil
	case DependencyWeak:
		return DependencyWeak, nil
	case DependencyOptional:
		return DependencyOptional, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidDependencyType,
			"unknown dependency type "+strconv.Quote(s)).
			WithSuggestion("use one of: strict, weak, optional")
	}
}

// Valid reports whether the type is one of the recognized values
func (t DependencyType) Valid() bool {
	switch t {
	case DependencyStrict, DependencyWeak, DependencyOptional:
		return true
	}
	return false
}

// Resource identifies a system resource dimension a criterion draws on.
type Resource string

const (
	ResourceFilesystem Resource = "filesystem"
	ResourceCPU        Resource = "cpu"
	ResourceMemory     Resource = "memory"
	ResourceNetwork    Resource = "network"
)

// ParseResource validates a resource name string
func ParseResource(s string) (Resource, error) {
	switch Resource(strings.ToLower(s)) {
	case ResourceFilesystem:
		return ResourceFilesystem, nil
	case ResourceCPU:
		return ResourceCPU, nil
	case ResourceMemory:
		return ResourceMemory, nil
	case ResourceNetwork:
		return ResourceNetwork, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidResource,
			"unknown resource "+strconv.Quote(s)).
			WithSuggestion("use one of: filesystem, cpu, memory, network")
	}
}

// Dependency is a directed edge from a criterion to the target it depends on.
type Dependency struct {
	TargetID string         `json:"targetId"`
	Type     DependencyType `json:"type"`
}

// Metadata describes scheduling-relevant properties of a criterion.
type Metadata struct {
	Description         string     `json:"description"`
	EstimatedDurationMs int64      `json:"estimatedDurationMs"`
	Parallelizable      bool       `json:"parallelizable"`
	Resources           []Resource `json:"resourceRequirements,omitempty"`
}

// RequiresResource reports whether the criterion declares the given resource
func (m Metadata) RequiresResource(r Resource) bool {
	for _, have := range m.Resources {
		if have == r {
			return true
		}
	}
	return false
}

// Criterion is a named validation step in the delivery pipeline.
type Criterion struct {
	ID           string       `json:"id"`
	Dependencies []Dependency `json:"dependencies"`
	Metadata     Metadata     `json:"metadata"`
}

// Config carries the mutable parts of a criterion for Store.Add
type Config struct {
	Dependencies []Dependency
	Metadata     Metadata
}

// clone returns a deep copy so callers can't mutate store state through
// returned values.
func (c Criterion) clone() Criterion {
	out := Criterion{ID: c.ID, Metadata: c.Metadata}
	if len(c.Dependencies) > 0 {
		out.Dependencies = make([]Dependency, len(c.Dependencies))
		copy(out.Dependencies, c.Dependencies)
	}
	if len(c.Metadata.Resources) > 0 {
		out.Metadata.Resources = make([]Resource, len(c.Metadata.Resources))
		copy(out.Metadata.Resources, c.Metadata.Resources)
	}
	return out
}
