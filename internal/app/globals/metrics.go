package globals

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/reqscope/reqscope/globals"

// storeMetrics tracks scope lifecycle. A steadily growing active count with
// flat traffic means some request boundary is not releasing its handle.
type storeMetrics struct {
	opened metric.Int64Counter
	active metric.Int64UpDownCounter
}

var (
	metricsOnce sync.Once
	instruments *storeMetrics
)

// scopeInstruments lazily creates the instruments against whatever meter
// provider is installed globally. Instrument errors are reported through the
// otel error handler and leave the affected instrument disabled.
func scopeInstruments() *storeMetrics {
	metricsOnce.Do(func() {
		meter := otel.Meter(instrumentationName)
		m := &storeMetrics{}

		opened, err := meter.Int64Counter(
			"globals.scopes.opened",
			metric.WithDescription("Total number of globals scopes opened"),
		)
		if err != nil {
			otel.Handle(err)
		} else {
			m.opened = opened
		}

		active, err := meter.Int64UpDownCounter(
			"globals.scopes.active",
			metric.WithDescription("Number of globals scopes currently bound"),
		)
		if err != nil {
			otel.Handle(err)
		} else {
			m.active = active
		}

		instruments = m
	})

	return instruments
}

func recordScopeOpened(ctx context.Context) {
	m := scopeInstruments()
	if m.opened != nil {
		m.opened.Add(ctx, 1)
	}

	if m.active != nil {
		m.active.Add(ctx, 1)
	}
}

func recordScopeReleased() {
	m := scopeInstruments()
	if m.active != nil {
		// The request context may already be canceled at release time.
		m.active.Add(context.Background(), -1)
	}
}
