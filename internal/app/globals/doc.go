// Package globals provides request-scoped global state: a dynamic namespace
// of named attributes whose contents are isolated per in-flight request.
//
// # Scope lifecycle
//
// The middleware (or any other request boundary) opens a scope when a request
// begins and guarantees its release on every exit path:
//
//	ctx, handle := globals.Begin(r.Context())
//	defer handle.Release()
//	next.ServeHTTP(w, r.WithContext(ctx))
//
// # Reading and writing attributes
//
// Everything inside the request's call graph uses the shared G facade.
// G itself holds no request data; it resolves the scope bound to the
// calling context:
//
//	globals.G.Set(ctx, "username", "JohnDoe")
//	name, err := globals.G.Value(ctx, "username")
//	role := globals.G.Get(ctx, "role", "viewer")
//
// Two concurrent requests never observe each other's attributes: each request
// carries its own scope in its context, and the context is the only path to
// it. Code running outside a request boundary sees an unbound scope, which
// surfaces as AttributeNotFoundError on reads and ErrScopeUnbound on writes.
package globals
