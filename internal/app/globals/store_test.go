package globals

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestBegin_BindsEmptyScope(t *testing.T) {
	t.Parallel()

	ctx, handle := Begin(context.Background())
	defer handle.Release()

	scope, ok := Current(ctx)
	require.True(t, ok)
	require.NotNil(t, scope)

	for _, name := range []string{"username", "request_id", "anything"} {
		assert.False(t, G.Contains(ctx, name))
	}

	assert.Empty(t, G.ToMap(ctx))
}

func TestCurrent_Unbound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{name: "background context", ctx: context.Background()},
		{name: "nil context", ctx: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scope, ok := Current(tt.ctx)
			assert.False(t, ok)
			assert.Nil(t, scope)
		})
	}
}

func TestHandle_Release(t *testing.T) {
	t.Parallel()

	ctx, handle := Begin(context.Background())
	require.NoError(t, G.Set(ctx, "username", "JohnDoe"))
	require.False(t, handle.Released())

	handle.Release()

	assert.True(t, handle.Released())

	// The stale context no longer resolves a scope.
	_, ok := Current(ctx)
	assert.False(t, ok)
	assert.False(t, G.Contains(ctx, "username"))
	assert.ErrorIs(t, G.Set(ctx, "username", "other"), ErrScopeUnbound)
}

func TestHandle_ReleaseIdempotent(t *testing.T) {
	t.Parallel()

	_, handle := Begin(context.Background())

	handle.Release()
	handle.Release()
	handle.Release()

	assert.True(t, handle.Released())
}

func TestHandle_ReleaseNilSafe(t *testing.T) {
	t.Parallel()

	var handle *Handle

	assert.NotPanics(t, func() { handle.Release() })
	assert.False(t, handle.Released())
}

func TestBegin_NestedScopeShadowsOuter(t *testing.T) {
	t.Parallel()

	outerCtx, outerHandle := Begin(context.Background())
	defer outerHandle.Release()

	require.NoError(t, G.Set(outerCtx, "username", "JohnDoe"))

	innerCtx, innerHandle := Begin(outerCtx)

	// Most recent binding wins, and a nested scope starts empty.
	assert.False(t, G.Contains(innerCtx, "username"))
	require.NoError(t, G.Set(innerCtx, "username", "InnerUser"))

	// The outer context still resolves the outer scope.
	assert.Equal(t, "JohnDoe", G.Get(outerCtx, "username"))

	innerHandle.Release()

	// Releasing the inner binding restores nothing on the inner context and
	// leaves the prior binding intact on the outer one.
	_, ok := Current(innerCtx)
	assert.False(t, ok)
	assert.Equal(t, "JohnDoe", G.Get(outerCtx, "username"))
}

func TestScope_SurvivesContextDerivation(t *testing.T) {
	t.Parallel()

	ctx, handle := Begin(context.Background())
	defer handle.Release()

	require.NoError(t, G.Set(ctx, "request_id", "123456"))

	// Values written through a derived context land in the same scope,
	// mirroring code deeper in the request's call graph.
	derived := context.WithValue(ctx, struct{}{}, "unrelated")
	require.NoError(t, G.Set(derived, "username", "JohnDoe"))

	assert.Equal(t, "JohnDoe", G.Get(ctx, "username"))
	assert.Equal(t, "123456", G.Get(derived, "request_id"))
}

func TestScope_ConcurrentRequestsAreIsolated(t *testing.T) {
	t.Parallel()

	const requests = 64

	g, gctx := errgroup.WithContext(context.Background())

	for i := range requests {
		g.Go(func() error {
			ctx, handle := Begin(gctx)
			defer handle.Release()

			want := fmt.Sprintf("user-%d", i)
			if err := G.Set(ctx, "username", want); err != nil {
				return err
			}

			// Interleave with the other goroutines before reading back.
			for range 10 {
				got := G.Get(ctx, "username")
				if got != want {
					return fmt.Errorf("scope leak: got %v, want %v", got, want)
				}
			}

			if n := len(G.ToMap(ctx)); n != 1 {
				return fmt.Errorf("scope has %d attributes, want 1", n)
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())
}

func TestScope_FreshRequestSeesNothingFromPriorRequest(t *testing.T) {
	t.Parallel()

	base := context.Background()

	first, firstHandle := Begin(base)
	require.NoError(t, G.Set(first, "username", "JohnDoe"))
	firstHandle.Release()

	second, secondHandle := Begin(base)
	defer secondHandle.Release()

	assert.False(t, G.Contains(second, "username"))
	assert.Empty(t, G.ToMap(second))
}
