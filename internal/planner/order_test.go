package planner

import (
	"testing"

	"github.com/felixgeelhaar/wavegate/internal/criteria"
	"github.com/felixgeelhaar/wavegate/internal/errors"
)

func pipelineStore(t *testing.T) *criteria.Store {
	t.Helper()
	s := criteria.NewEmptyStore()
	add := func(id string, deps ...criteria.Dependency) {
		t.Helper()
		if err := s.Add(id, criteria.Config{
			Dependencies: deps,
			Metadata:     criteria.Metadata{EstimatedDurationMs: 1000},
		}); err != nil {
			t.Fatalf("Add(%q): %v", id, err)
		}
	}
	strict := func(target string) criteria.Dependency {
		return criteria.Dependency{TargetID: target, Type: criteria.DependencyStrict}
	}

	add("lint")
	add("typecheck")
	add("build", strict("lint"), strict("typecheck"))
	add("start", strict("build"))
	add("test", strict("build"))
	return s
}

func indexOf(order []string, id string) int {
	for i, o := range order {
		if o == id {
			return i
		}
	}
	return -1
}

func TestExecutionOrderTopological(t *testing.T) {
	s := pipelineStore(t)

	order, err := ExecutionOrder(s.Snapshot(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 5 {
		t.Fatalf("expected 5 criteria ordered, got %d: %v", len(order), order)
	}

	build := indexOf(order, "build")
	if indexOf(order, "lint") > build || indexOf(order, "typecheck") > build {
		t.Errorf("expected lint and typecheck before build, got %v", order)
	}
	if indexOf(order, "start") < build || indexOf(order, "test") < build {
		t.Errorf("expected start and test after build, got %v", order)
	}
}

func TestExecutionOrderSubset(t *testing.T) {
	s := pipelineStore(t)

	// build's strict deps are outside the selection; they must not block.
	order, err := ExecutionOrder(s.Snapshot(), []string{"test", "build"})
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "build" || order[1] != "test" {
		t.Errorf("expected [build test], got %v", order)
	}
}

func TestExecutionOrderUnknownID(t *testing.T) {
	s := pipelineStore(t)

	_, err := ExecutionOrder(s.Snapshot(), []string{"lint", "ghost"})
	if !errors.IsCode(err, errors.ErrCodePlanUnknownID) {
		t.Fatalf("expected PlanUnknownID, got %v", err)
	}
}

func TestExecutionOrderWeakPreference(t *testing.T) {
	s := criteria.NewEmptyStore()
	// first is registered before second, but weakly prefers it; second
	// should be ordered first even though both are immediately ready.
	if err := s.Add("first", criteria.Config{
		Dependencies: []criteria.Dependency{{TargetID: "second", Type: criteria.DependencyWeak}},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Add("second", criteria.Config{}); err != nil {
		t.Fatal(err)
	}

	order, err := ExecutionOrder(s.Snapshot(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if order[0] != "second" || order[1] != "first" {
		t.Errorf("expected weak preference to order second first, got %v", order)
	}
}

func TestExecutionOrderInsertionOrderTieBreak(t *testing.T) {
	s := criteria.NewEmptyStore()
	for _, id := range []string{"c", "a", "b"} {
		if err := s.Add(id, criteria.Config{}); err != nil {
			t.Fatal(err)
		}
	}

	order, err := ExecutionOrder(s.Snapshot(), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"c", "a", "b"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected insertion-order ties %v, got %v", want, order)
		}
	}
}

func TestExecutionOrderCycleDegradesGracefully(t *testing.T) {
	s := criteria.NewEmptyStore()
	strict := func(target string) criteria.Dependency {
		return criteria.Dependency{TargetID: target, Type: criteria.DependencyStrict}
	}
	_ = s.Add("a", criteria.Config{Dependencies: []criteria.Dependency{strict("b")}})
	_ = s.Add("b", criteria.Config{Dependencies: []criteria.Dependency{strict("a")}})

	order, err := ExecutionOrder(s.Snapshot(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 {
		t.Fatalf("expected both criteria ordered despite the cycle, got %v", order)
	}
}
