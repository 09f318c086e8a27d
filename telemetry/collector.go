package telemetry

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/ledger/output"
	"golang.org/x/exp/slices"
)

// SlowThreshold marks operations highlighted in reports.
const SlowThreshold = 100 * time.Millisecond

// TimingCollector keeps a tree of timed operations and a set of counters.
// It is safe for concurrent use.
type TimingCollector struct {
	mu       sync.Mutex
	roots    []*span
	open     *span // innermost running span started via Start
	counters map[string]int
	now      func() time.Time
}

type span struct {
	name       string
	start, end time.Time
	parent     *span
	children   []*span
}

func (s *span) duration() time.Duration {
	if s.end.IsZero() {
		return 0
	}
	return s.end.Sub(s.start)
}

// NewCollector creates an empty TimingCollector.
func NewCollector() *TimingCollector {
	return &TimingCollector{
		counters: map[string]int{},
		now:      time.Now,
	}
}

// Start begins timing an operation. It nests under the innermost timer that
// was started with Start and has not ended yet.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &span{name: name, start: c.now(), parent: c.open}
	if c.open != nil {
		c.open.children = append(c.open.children, s)
	} else {
		c.roots = append(c.roots, s)
	}
	c.open = s
	return &timer{collector: c, span: s, tracked: true}
}

// Count adds delta to the named counter.
func (c *TimingCollector) Count(name string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name] += delta
}

// Counter returns the current value of a counter.
func (c *TimingCollector) Counter(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[name]
}

// Report writes the timing tree followed by the counters in name order.
//
//	ledger.load: 125ms
//	├─ loader.read: 3ms
//	└─ parser.parse: 85ms
//	entries: 1200
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		name := root.name
		if styles != nil {
			name = styles.Keyword(name)
		}
		_, _ = fmt.Fprintf(w, "%s: %s\n", name, formatDuration(root.duration()))
		writeChildren(w, root.children, "", styles)
	}

	names := make([]string, 0, len(c.counters))
	for name := range c.counters {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		label := name
		if styles != nil {
			label = styles.Dim(name)
		}
		_, _ = fmt.Fprintf(w, "%s: %d\n", label, c.counters[name])
	}
}

func writeChildren(w io.Writer, children []*span, prefix string, styles *output.Styles) {
	for i, child := range children {
		branch, extension := "├─ ", "│  "
		if i == len(children)-1 {
			branch, extension = "└─ ", "   "
		}

		d := child.duration()
		timing := formatDuration(d)
		tree := prefix + branch
		if styles != nil {
			tree = styles.Dim(tree)
			timing = styles.Timing(timing, d >= SlowThreshold)
		}
		_, _ = fmt.Fprintf(w, "%s%s: %s\n", tree, child.name, timing)

		writeChildren(w, child.children, prefix+extension, styles)
	}
}

// formatDuration shows milliseconds below one second and seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

type timer struct {
	collector *TimingCollector
	span      *span
	tracked   bool // started via Start and part of the open chain
}

func (t *timer) End() {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	if !t.span.end.IsZero() {
		return
	}
	t.span.end = c.now()
	if t.tracked && c.open == t.span {
		c.open = t.span.parent
	}
}

func (t *timer) Child(name string) Timer {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &span{name: name, start: c.now(), parent: t.span}
	t.span.children = append(t.span.children, s)
	return &timer{collector: c, span: s}
}
