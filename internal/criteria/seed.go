package criteria

// seed installs the standard pipeline criteria: two independent leaf
// checks plus a lint/typecheck -> build -> start/test chain. The seed is
// always present on a fresh store unless explicitly removed.
func (s *Store) seed() {
	standard := []struct {
		id  string
		cfg Config
	}{
		{
			id: "focused-codebase",
			cfg: Config{
				Metadata: Metadata{
					Description:         "Verify the codebase contains only in-scope files",
					EstimatedDurationMs: 5_000,
					Parallelizable:      true,
					Resources:           []Resource{ResourceFilesystem},
				},
			},
		},
		{
			id: "security-validated",
			cfg: Config{
				Metadata: Metadata{
					Description:         "Run security scanning across the project",
					EstimatedDurationMs: 30_000,
					Parallelizable:      true,
					Resources:           []Resource{ResourceFilesystem, ResourceCPU},
				},
			},
		},
		{
			id: "linter-validated",
			cfg: Config{
				Metadata: Metadata{
					Description:         "Run all configured linters",
					EstimatedDurationMs: 15_000,
					Parallelizable:      true,
					Resources:           []Resource{ResourceFilesystem, ResourceCPU},
				},
			},
		},
		{
			id: "type-validated",
			cfg: Config{
				Metadata: Metadata{
					Description:         "Run the type checker",
					EstimatedDurationMs: 20_000,
					Parallelizable:      true,
					Resources:           []Resource{ResourceFilesystem, ResourceCPU, ResourceMemory},
				},
			},
		},
		{
			id: "build-validated",
			cfg: Config{
				Dependencies: []Dependency{
					{TargetID: "linter-validated", Type: DependencyStrict},
					{TargetID: "type-validated", Type: DependencyStrict},
				},
				Metadata: Metadata{
					Description:         "Build the project",
					EstimatedDurationMs: 60_000,
					Parallelizable:      false,
					Resources:           []Resource{ResourceFilesystem, ResourceCPU, ResourceMemory},
				},
			},
		},
		{
			id: "start-validated",
			cfg: Config{
				Dependencies: []Dependency{
					{TargetID: "build-validated", Type: DependencyStrict},
				},
				Metadata: Metadata{
					Description:         "Start the application and verify it comes up",
					EstimatedDurationMs: 30_000,
					Parallelizable:      false,
					Resources:           []Resource{ResourceCPU, ResourceMemory, ResourceNetwork},
				},
			},
		},
		{
			id: "test-validated",
			cfg: Config{
				Dependencies: []Dependency{
					{TargetID: "build-validated", Type: DependencyStrict},
				},
				Metadata: Metadata{
					Description:         "Run the test suite",
					EstimatedDurationMs: 120_000,
					Parallelizable:      true,
					Resources:           []Resource{ResourceFilesystem, ResourceCPU, ResourceMemory},
				},
			},
		},
	}

	for _, std := range standard {
		// Seed entries are statically known valid; Add cannot fail here.
		_ = s.Add(std.id, std.cfg)
	}
}

// StandardIDs lists the seeded criterion ids in pipeline order
func StandardIDs() []string {
	return []string{
		"focused-codebase",
		"security-validated",
		"linter-validated",
		"type-validated",
		"build-validated",
		"start-validated",
		"test-validated",
	}
}
