package globals

import (
	"maps"
	"sync"
)

// Scope is the per-request attribute namespace. One Scope exists per request,
// created empty when the request begins and cleared when it ends.
//
// The map is mutex-guarded so child goroutines spawned within a request may
// touch it safely, but no write ordering is defined between concurrent
// writers of the same name (last write wins).
type Scope struct {
	mu   sync.RWMutex
	vars map[string]any
}

func newScope() *Scope {
	return &Scope{vars: make(map[string]any)}
}

func (s *Scope) get(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vars[name]

	return v, ok
}

func (s *Scope) set(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vars[name] = value
}

// pop removes and returns the value for name. The second return reports
// whether the name was present; absent names leave the scope untouched.
func (s *Scope) pop(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vars[name]
	if ok {
		delete(s.vars, name)
	}

	return v, ok
}

func (s *Scope) contains(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.vars[name]

	return ok
}

// snapshot returns an independent copy of the current contents. Later
// mutations of the scope do not affect the copy, and vice versa.
func (s *Scope) snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.vars)
}

func (s *Scope) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.vars)
}
