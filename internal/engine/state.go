package engine

import "sync"

// State is the per-run execution bookkeeping: which criteria completed,
// failed, or are currently in flight. It exists only for the duration
// of one run and is never persisted.
type State struct {
	Completed  []string `json:"completed"`
	Failed     []string `json:"failed"`
	InProgress []string `json:"inProgress"`
}

// runState is the engine's mutable view behind State snapshots.
type runState struct {
	mu         sync.Mutex
	completed  map[string]bool
	failed     map[string]bool
	inProgress map[string]bool
	// order remembers first-seen order so snapshots are deterministic
	order []string
}

func newRunState() *runState {
	return &runState{
		completed:  make(map[string]bool),
		failed:     make(map[string]bool),
		inProgress: make(map[string]bool),
	}
}

func (s *runState) start(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.completed[id] && !s.failed[id] && !s.inProgress[id] {
		s.order = append(s.order, id)
	}
	s.inProgress[id] = true
}

func (s *runState) finish(id string, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.completed[id] && !s.failed[id] && !s.inProgress[id] {
		s.order = append(s.order, id)
	}
	delete(s.inProgress, id)
	if success {
		s.completed[id] = true
	} else {
		s.failed[id] = true
	}
}

func (s *runState) hasFailed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed[id]
}

func (s *runState) snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := State{
		Completed:  []string{},
		Failed:     []string{},
		InProgress: []string{},
	}
	for _, id := range s.order {
		switch {
		case s.completed[id]:
			out.Completed = append(out.Completed, id)
		case s.failed[id]:
			out.Failed = append(out.Failed, id)
		case s.inProgress[id]:
			out.InProgress = append(out.InProgress, id)
		}
	}
	return out
}
