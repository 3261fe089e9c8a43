package ports

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name string
	err  error
}

func (s *stubChecker) Name() string                { return s.name }
func (s *stubChecker) Check(context.Context) error { return s.err }

func TestHealthRegistry_Register(t *testing.T) {
	t.Parallel()

	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&stubChecker{name: "store"}))

	err := registry.Register(&stubChecker{name: "store"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateChecker)
}

func TestHealthRegistry_CheckAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		checkers []*stubChecker
		expected HealthStatus
	}{
		{
			name:     "empty registry is healthy",
			expected: HealthStatusHealthy,
		},
		{
			name:     "all passing",
			checkers: []*stubChecker{{name: "a"}, {name: "b"}},
			expected: HealthStatusHealthy,
		},
		{
			name:     "one failing makes the whole unhealthy",
			checkers: []*stubChecker{{name: "a"}, {name: "b", err: errors.New("down")}},
			expected: HealthStatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := NewHealthRegistry()
			for _, c := range tt.checkers {
				require.NoError(t, registry.Register(c))
			}

			result := registry.CheckAll(context.Background())

			assert.Equal(t, tt.expected, result.Status)
			assert.Len(t, result.Checks, len(tt.checkers))

			for _, c := range tt.checkers {
				check := result.Checks[c.name]
				require.NotNil(t, check)

				if c.err != nil {
					assert.Equal(t, HealthStatusUnhealthy, check.Status)
					assert.Equal(t, c.err.Error(), check.Message)
				} else {
					assert.Equal(t, HealthStatusHealthy, check.Status)
				}
			}
		})
	}
}
