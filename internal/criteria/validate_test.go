package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeedGraph(t *testing.T) {
	s := NewStore()

	result := s.Validate()

	assert.True(t, result.Valid)
	assert.Empty(t, result.Issues)
}

func TestValidateDetectsCycle(t *testing.T) {
	s := NewEmptyStore()
	require.NoError(t, s.Add("a", Config{Dependencies: []Dependency{{TargetID: "b", Type: DependencyStrict}}}))
	require.NoError(t, s.Add("b", Config{Dependencies: []Dependency{{TargetID: "c", Type: DependencyStrict}}}))
	require.NoError(t, s.Add("c", Config{Dependencies: []Dependency{{TargetID: "a", Type: DependencyStrict}}}))

	result := s.Validate()

	require.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, IssueCycle, issue.Type)
	assert.Equal(t, []string{"a", "b", "c", "a"}, issue.Path)
}

func TestValidateWeakEdgesParticipateInCycles(t *testing.T) {
	s := NewEmptyStore()
	require.NoError(t, s.Add("x", Config{Dependencies: []Dependency{{TargetID: "y", Type: DependencyWeak}}}))
	require.NoError(t, s.Add("y", Config{Dependencies: []Dependency{{TargetID: "x", Type: DependencyStrict}}}))

	result := s.Validate()

	require.False(t, result.Valid)
	assert.Equal(t, IssueCycle, result.Issues[0].Type)
}

func TestValidateOptionalEdgesExcludedFromCycles(t *testing.T) {
	s := NewEmptyStore()
	require.NoError(t, s.Add("x", Config{Dependencies: []Dependency{{TargetID: "y", Type: DependencyOptional}}}))
	require.NoError(t, s.Add("y", Config{Dependencies: []Dependency{{TargetID: "x", Type: DependencyStrict}}}))

	result := s.Validate()

	assert.True(t, result.Valid, "optional back-edge must not count as a cycle")
}

func TestValidateDanglingReference(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add("custom-check", Config{
		Dependencies: []Dependency{{TargetID: "does-not-exist", Type: DependencyStrict}},
	}))

	result := s.Validate()

	require.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, IssueDanglingReference, result.Issues[0].Type)
	assert.Equal(t, []string{"custom-check", "does-not-exist"}, result.Issues[0].Path)
}

func TestValidateIsReadOnly(t *testing.T) {
	s := NewEmptyStore()
	require.NoError(t, s.Add("a", Config{Dependencies: []Dependency{{TargetID: "b", Type: DependencyStrict}}}))
	require.NoError(t, s.Add("b", Config{Dependencies: []Dependency{{TargetID: "a", Type: DependencyStrict}}}))

	before := s.List()
	_ = s.Validate()
	after := s.List()

	assert.Equal(t, before, after)
}
