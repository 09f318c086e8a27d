package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestFromContextWithoutCollector(t *testing.T) {
	ctx := context.Background()

	timer := StartTimer(ctx, "noop")
	timer.Child("child").End()
	timer.End()
	Count(ctx, "entries", 3)

	var buf bytes.Buffer
	FromContext(ctx).Report(&buf, nil)
	assert.Equal(t, "", buf.String())
}

func TestTimingCollectorTree(t *testing.T) {
	collector := NewCollector()
	collector.now = fakeClock(time.Millisecond)
	ctx := WithCollector(context.Background(), collector)

	load := StartTimer(ctx, "ledger.load")
	read := load.Child("loader.read")
	read.End()
	parse := StartTimer(ctx, "parser.parse")
	parse.End()
	load.End()

	format := StartTimer(ctx, "formatter.format")
	format.End()

	Count(ctx, "entries", 2)
	Count(ctx, "entries", 3)
	Count(ctx, "accounts", 4)

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	expected := strings.Join([]string{
		"ledger.load: 5ms",
		"├─ loader.read: 1ms",
		"└─ parser.parse: 1ms",
		"formatter.format: 1ms",
		"accounts: 4",
		"entries: 5",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
	assert.Equal(t, 5, collector.Counter("entries"))
}

func TestTimerEndIsIdempotent(t *testing.T) {
	collector := NewCollector()
	collector.now = fakeClock(time.Millisecond)

	outer := collector.Start("outer")
	inner := collector.Start("inner")
	inner.End()
	inner.End()
	outer.End()

	// After both ended, new timers start a fresh root.
	collector.Start("next").End()

	assert.Equal(t, 2, len(collector.roots))
	assert.Equal(t, "inner", collector.roots[0].children[0].name)
	assert.Equal(t, time.Millisecond, collector.roots[0].children[0].duration())
}

func TestNestedChildren(t *testing.T) {
	collector := NewCollector()
	collector.now = fakeClock(time.Millisecond)

	root := collector.Start("root")
	a := root.Child("a")
	a.Child("a1").End()
	a.End()
	root.Child("b").End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Equal(t, "root: 7ms\n├─ a: 3ms\n│  └─ a1: 1ms\n└─ b: 1ms\n", buf.String())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0ms"},
		{1500 * time.Microsecond, "2ms"},
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.50s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.in))
		})
	}
}
