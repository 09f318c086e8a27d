// Package telemetry collects timings and counters for the stages of a ledger
// run (loading, parsing, formatting, saving) and prints them as a tree.
//
// A collector travels in the context, so instrumented packages do not need an
// extra parameter. Without a collector every call is a no-op:
//
//	collector := telemetry.NewCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "ledger.load")
//	parse := timer.Child("parser.parse")
//	// ... work ...
//	parse.End()
//	timer.End()
//
//	telemetry.Count(ctx, "entries", len(entries))
//	collector.Report(os.Stderr, styles)
package telemetry

import (
	"context"
	"io"

	"github.com/robinvdvleuten/ledger/output"
)

type contextKey struct{}

// Collector records timers and counters.
type Collector interface {
	// Start begins timing an operation nested under the innermost running
	// timer.
	Start(name string) Timer

	// Count adds delta to the named counter.
	Count(name string, delta int)

	// Report writes what was collected. styles may be nil for plain output.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation.
type Timer interface {
	End()

	// Child starts a timer nested under this one.
	Child(name string) Timer
}

// WithCollector returns a context carrying collector.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, contextKey{}, collector)
}

// FromContext returns the collector carried by ctx, or a no-op collector.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(contextKey{}).(Collector); ok {
		return collector
	}
	return nop{}
}

// StartTimer starts a timer on the collector carried by ctx.
func StartTimer(ctx context.Context, name string) Timer {
	return FromContext(ctx).Start(name)
}

// Count adds delta to a counter on the collector carried by ctx.
func Count(ctx context.Context, name string, delta int) {
	FromContext(ctx).Count(name, delta)
}

type nop struct{}

func (nop) Start(string) Timer               { return nop{} }
func (nop) Count(string, int)                {}
func (nop) Report(io.Writer, *output.Styles) {}
func (nop) End()                             {}
func (nop) Child(string) Timer               { return nop{} }
