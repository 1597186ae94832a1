package reactive

import "sync"

// testSubscriber counts updates and records their order in a shared log.
type testSubscriber struct {
	id      uint64
	name    string
	log     *[]string
	updates int
	mu      sync.Mutex
}

func newTestSubscriber(name string, log *[]string) *testSubscriber {
	return &testSubscriber{id: nextID(), name: name, log: log}
}

func (s *testSubscriber) Update() {
	s.mu.Lock()
	s.updates++
	s.mu.Unlock()
	if s.log != nil {
		*s.log = append(*s.log, s.name)
	}
}

func (s *testSubscriber) ID() uint64 {
	return s.id
}

func (s *testSubscriber) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

// recorder is a watcher callback that keeps every value it receives.
type recorder struct {
	values []any
}

func (r *recorder) record(v any) {
	r.values = append(r.values, v)
}

func (r *recorder) calls() int {
	return len(r.values)
}

func (r *recorder) last() any {
	if len(r.values) == 0 {
		return nil
	}
	return r.values[len(r.values)-1]
}
