package globals

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Globals is a process-wide facade presenting mapping ergonomics over
// whichever Scope is bound to the calling context. It never holds request
// data itself, so a single instance serves every concurrent request.
type Globals struct{}

// G is the shared instance used by middleware, handlers, and anything else
// running inside a request's call graph.
var G = &Globals{}

// Contains reports whether name is present in the current scope. It is false
// when the name is absent or no scope is bound; it never fails.
func (g *Globals) Contains(ctx context.Context, name string) bool {
	s, ok := Current(ctx)
	if !ok {
		return false
	}

	return s.contains(name)
}

// Value returns the value stored under name. It fails with
// *AttributeNotFoundError, carrying the requested name, when the name is
// absent or no scope is bound.
func (g *Globals) Value(ctx context.Context, name string) (any, error) {
	s, ok := Current(ctx)
	if !ok {
		return nil, &AttributeNotFoundError{Name: name}
	}

	v, found := s.get(name)
	if !found {
		return nil, &AttributeNotFoundError{Name: name}
	}

	return v, nil
}

// Set inserts or overwrites name in the current scope. It returns an error
// wrapping ErrScopeUnbound when called outside a request lifecycle.
//
// Concurrent child goroutines writing the same name race last-write-wins;
// no ordering between them is defined.
func (g *Globals) Set(ctx context.Context, name string, value any) error {
	s, ok := Current(ctx)
	if !ok {
		return fmt.Errorf("setting %q: %w", name, ErrScopeUnbound)
	}

	s.set(name, value)

	return nil
}

// Get returns the value stored under name, or the optional default when the
// name is absent or no scope is bound. With no default it returns nil. It
// never fails.
func (g *Globals) Get(ctx context.Context, name string, def ...any) any {
	if s, ok := Current(ctx); ok {
		if v, found := s.get(name); found {
			return v
		}
	}

	if len(def) > 0 {
		return def[0]
	}

	return nil
}

// Pop removes and returns the value stored under name. When the name is
// absent or no scope is bound, nothing is modified and the optional default
// (or nil) is returned. It never fails.
func (g *Globals) Pop(ctx context.Context, name string, def ...any) any {
	if s, ok := Current(ctx); ok {
		if v, found := s.pop(name); found {
			return v
		}
	}

	if len(def) > 0 {
		return def[0]
	}

	return nil
}

// Keys returns a restartable sequence over the attribute names present when
// Keys was called, sorted for deterministic output. Later scope mutations do
// not affect an already-obtained sequence. Unbound scopes yield nothing.
func (g *Globals) Keys(ctx context.Context) iter.Seq[string] {
	names := sortedNames(g.ToMap(ctx))

	return func(yield func(string) bool) {
		for _, name := range names {
			if !yield(name) {
				return
			}
		}
	}
}

// Values returns a restartable sequence over the attribute values, in the
// same order Keys reports their names. Snapshot discipline matches Keys.
func (g *Globals) Values(ctx context.Context) iter.Seq[any] {
	snap := g.ToMap(ctx)
	names := sortedNames(snap)

	return func(yield func(any) bool) {
		for _, name := range names {
			if !yield(snap[name]) {
				return
			}
		}
	}
}

// Items returns a restartable sequence over (name, value) pairs, in the same
// order as Keys. Snapshot discipline matches Keys.
func (g *Globals) Items(ctx context.Context) iter.Seq2[string, any] {
	snap := g.ToMap(ctx)
	names := sortedNames(snap)

	return func(yield func(string, any) bool) {
		for _, name := range names {
			if !yield(name, snap[name]) {
				return
			}
		}
	}
}

// ToMap eagerly materializes the current scope as an independent copy.
// Mutating the copy does not affect the live scope, and vice versa. Unbound
// scopes materialize as an empty map.
func (g *Globals) ToMap(ctx context.Context) map[string]any {
	s, ok := Current(ctx)
	if !ok {
		return map[string]any{}
	}

	return s.snapshot()
}

// Clear removes all attributes from the current scope. It is a no-op when no
// scope is bound.
func (g *Globals) Clear(ctx context.Context) {
	if s, ok := Current(ctx); ok {
		s.clear()
	}
}

func sortedNames(snap map[string]any) []string {
	return slices.Sorted(maps.Keys(snap))
}
