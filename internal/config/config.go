// Package config persists the criteria graph to a project-local JSON
// file and loads it back with explicit merge-or-replace semantics.
package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/zeebo/blake3"

	"github.com/felixgeelhaar/wavegate/internal/analytics"
	"github.com/felixgeelhaar/wavegate/internal/criteria"
	"github.com/felixgeelhaar/wavegate/internal/errors"
	"github.com/felixgeelhaar/wavegate/internal/log"
)

// Version identifies the config file schema.
const Version = "1.0.0"

// DefaultPath is the project-local config file location.
const DefaultPath = ".wavegate/criteria.json"

// DefaultAnalyticsPath is where execution records are persisted when
// analytics persistence is requested.
const DefaultAnalyticsPath = ".wavegate/analytics.json"

// Entry is one criterion as persisted on disk.
type Entry struct {
	Dependencies []criteria.Dependency `json:"dependencies"`
	Metadata     criteria.Metadata     `json:"metadata"`
}

// File is the persisted config document. The shape is stable:
// {version, lastUpdated, dependencies: {<id>: {dependencies, metadata}}}.
// Checksum covers the dependencies section so silent corruption is
// caught on load.
type File struct {
	Version      string           `json:"version"`
	LastUpdated  time.Time        `json:"lastUpdated"`
	Dependencies map[string]Entry `json:"dependencies"`
	Checksum     string           `json:"checksum,omitempty"`
}

// checksum hashes the canonical JSON of the dependencies section.
// Go's encoder sorts map keys, so the encoding is deterministic.
func checksum(deps map[string]Entry) (string, error) {
	data, err := json.Marshal(deps)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// MergeMode selects how loaded criteria combine with the in-memory graph.
type MergeMode int

const (
	// ModeReplace discards in-memory criteria not present in the file.
	ModeReplace MergeMode = iota
	// ModeMerge overwrites loaded ids but preserves criteria the file
	// does not mention.
	ModeMerge
)

// Save serializes the store to path, creating parent directories as
// needed. An empty path uses DefaultPath. Returns the path written.
func Save(store *criteria.Store, path string) (string, error) {
	if path == "" {
		path = DefaultPath
	}

	file := File{
		Version:      Version,
		LastUpdated:  time.Now().UTC(),
		Dependencies: make(map[string]Entry),
	}
	for _, c := range store.List() {
		deps := c.Dependencies
		if deps == nil {
			deps = []criteria.Dependency{}
		}
		file.Dependencies[c.ID] = Entry{Dependencies: deps, Metadata: c.Metadata}
	}

	sum, err := checksum(file.Dependencies)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfigWriteFailed, "failed to encode config", err)
	}
	file.Checksum = sum

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfigWriteFailed, "failed to encode config", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrap(errors.ErrCodeConfigWriteFailed, "failed to create config directory", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeConfigWriteFailed, "failed to write "+path, err)
	}
	return path, nil
}

// Load reads and parses the config file. A missing or unparseable file
// is not an error: Load returns nil and leaves callers' state alone,
// logging the parse failure for operators. Only unexpected I/O faults
// (e.g. permission errors) surface as errors.
func Load(path string) (*File, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeConfigReadFailed, "failed to read "+path, err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		log.DefaultLogger().Warn("ignoring unparseable config file", "path", path, "error", err)
		return nil, nil
	}
	if file.Checksum != "" {
		sum, err := checksum(file.Dependencies)
		if err == nil && sum != file.Checksum {
			log.DefaultLogger().Warn("ignoring config file with checksum mismatch", "path", path)
			return nil, nil
		}
	}
	return &file, nil
}

// Apply installs loaded criteria into the store. Replace mode swaps the
// whole graph for the file contents; merge mode overwrites ids present
// in the file and keeps the rest. Criteria apply in sorted-id order so
// the resulting insertion order is deterministic.
func Apply(store *criteria.Store, file *File, mode MergeMode) error {
	if file == nil {
		return nil
	}

	ids := make([]string, 0, len(file.Dependencies))
	for id := range file.Dependencies {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if mode == ModeReplace {
		list := make([]criteria.Criterion, 0, len(ids))
		for _, id := range ids {
			entry := file.Dependencies[id]
			for _, dep := range entry.Dependencies {
				if !dep.Type.Valid() {
					return errors.New(errors.ErrCodeInvalidDependencyType,
						fmt.Sprintf("config entry %q has invalid dependency type %q", id, dep.Type))
				}
			}
			list = append(list, criteria.Criterion{
				ID:           id,
				Dependencies: entry.Dependencies,
				Metadata:     entry.Metadata,
			})
		}
		store.Replace(list)
		return nil
	}

	for _, id := range ids {
		entry := file.Dependencies[id]
		if err := store.Add(id, criteria.Config{
			Dependencies: entry.Dependencies,
			Metadata:     entry.Metadata,
		}); err != nil {
			return err
		}
	}
	return nil
}

// SaveAnalytics persists execution records next to the config file.
func SaveAnalytics(recorder *analytics.Recorder, path string) (string, error) {
	if path == "" {
		path = DefaultAnalyticsPath
	}

	data, err := json.MarshalIndent(recorder.Records(), "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfigWriteFailed, "failed to encode analytics", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrap(errors.ErrCodeConfigWriteFailed, "failed to create analytics directory", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeConfigWriteFailed, "failed to write "+path, err)
	}
	return path, nil
}

// LoadAnalytics reads persisted execution records; like Load, a missing
// or corrupt file yields nil without error.
func LoadAnalytics(path string) ([]analytics.Record, error) {
	if path == "" {
		path = DefaultAnalyticsPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeConfigReadFailed, "failed to read "+path, err)
	}

	var records []analytics.Record
	if err := json.Unmarshal(data, &records); err != nil {
		log.DefaultLogger().Warn("ignoring unparseable analytics file", "path", path, "error", err)
		return nil, nil
	}
	return records, nil
}
