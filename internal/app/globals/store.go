package globals

import (
	"context"
	"sync/atomic"
)

// scopeKey is the context key under which a request's scope binding lives.
// The context itself is the execution-context identity: it follows the
// request across suspension points and into child goroutines, which is
// exactly the isolation boundary the scope needs.
type scopeKey struct{}

// binding pairs a Scope with its release state. The released flag is what
// makes Handle.Release idempotent and what invalidates stale contexts that
// outlive their request.
type binding struct {
	scope    *Scope
	released atomic.Bool
}

// Handle releases a scope binding. It is returned by Begin and must be
// released on every exit path of the owning request, normally via defer.
type Handle struct {
	b *binding
}

// Begin creates a fresh empty Scope, binds it to the returned context, and
// returns a Handle that detaches it again.
//
// Begin may be called with a context that already carries a scope: the new
// binding shadows the old one for the derived context (most recent wins),
// and code still holding the outer context keeps resolving the outer scope.
// A nested scope starts empty; it does not inherit the parent's attributes.
func Begin(ctx context.Context) (context.Context, *Handle) {
	b := &binding{scope: newScope()}

	recordScopeOpened(ctx)

	return context.WithValue(ctx, scopeKey{}, b), &Handle{b: b}
}

// Current returns the Scope bound to ctx, or false when none is bound or the
// binding has already been released. It never panics; a nil context resolves
// to unbound.
func Current(ctx context.Context) (*Scope, bool) {
	if ctx == nil {
		return nil, false
	}

	b, ok := ctx.Value(scopeKey{}).(*binding)
	if !ok || b.released.Load() {
		return nil, false
	}

	return b.scope, true
}

// Release detaches the Scope from its context and clears its contents,
// making the stored values eligible for collection. Release is idempotent
// and safe on a nil Handle.
func (h *Handle) Release() {
	if h == nil || h.b == nil {
		return
	}

	if h.b.released.CompareAndSwap(false, true) {
		h.b.scope.clear()
		recordScopeReleased()
	}
}

// Released reports whether the handle's scope has been detached.
func (h *Handle) Released() bool {
	return h != nil && h.b != nil && h.b.released.Load()
}
