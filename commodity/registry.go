package commodity

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Registry maps symbols to their commodity metadata.
//
// All mutation (creation, style and precision widening, unit links) happens
// behind a single writer lock, so a registry may be shared by concurrent
// parsers.
type Registry struct {
	mu          sync.RWMutex
	table       map[Symbol]*Commodity
	defaultSym  Symbol
	haveDefault bool
}

// NewRegistry creates a registry holding only the null commodity.
func NewRegistry() *Registry {
	return &Registry{
		table: map[Symbol]*Commodity{
			Null: {Symbol: Null},
		},
	}
}

// Find returns the commodity registered for sym.
func (r *Registry) Find(sym Symbol) (Commodity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.table[sym]
	if !ok {
		return Commodity{}, false
	}
	return c.snapshot(), true
}

// Create registers sym with the default style and precision 0.
func (r *Registry) Create(sym Symbol) (Commodity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.table[sym]; ok {
		return Commodity{}, &DuplicateCommodityError{Symbol: sym}
	}
	c := &Commodity{Symbol: sym}
	r.table[sym] = c
	return c.snapshot(), nil
}

// FindOrCreate returns the commodity registered for sym, registering it
// first if needed.
func (r *Registry) FindOrCreate(sym Symbol) Commodity {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.table[sym]
	if !ok {
		c = &Commodity{Symbol: sym}
		r.table[sym] = c
	}
	return c.snapshot()
}

// Null returns the null commodity.
func (r *Registry) Null() Commodity {
	c, _ := r.Find(Null)
	return c
}

// AddStyle ORs flags into the style of sym. Unknown symbols are ignored.
func (r *Registry) AddStyle(sym Symbol, flags Style) {
	r.Migrate(sym, flags, 0)
}

// Migrate widens the recorded style and precision of sym. The style flags are
// ORed in and the precision is raised to precision if it is larger; neither
// is ever narrowed.
func (r *Registry) Migrate(sym Symbol, flags Style, precision int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.table[sym]
	if !ok {
		return
	}
	c.Style |= flags
	if precision > c.Precision {
		c.Precision = precision
	}
}

// Style returns the display style recorded for sym, or DefaultStyle.
func (r *Registry) Style(sym Symbol) Style {
	if r == nil {
		return DefaultStyle
	}
	c, ok := r.Find(sym)
	if !ok {
		return DefaultStyle
	}
	return c.Style
}

// Link records that one unit of larger equals factor units of smaller.
// Amounts of larger are reduced to smaller while parsing. Both symbols are
// registered if needed.
func (r *Registry) Link(larger, smaller Symbol, factor decimal.Decimal) error {
	if larger == smaller {
		return fmt.Errorf("cannot link commodity %q to itself", string(larger))
	}
	if factor.Sign() <= 0 {
		return fmt.Errorf("invalid conversion factor %s for %q", factor, string(larger))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	big := r.lookupOrCreate(larger)
	small := r.lookupOrCreate(smaller)

	// Reject cycles; reduction follows Smaller links until none is left.
	for c := small; c.Smaller != nil; c = r.table[c.Smaller.Unit] {
		if c.Smaller.Unit == larger {
			return fmt.Errorf("linking %q to %q would create a cycle", string(larger), string(smaller))
		}
	}

	big.Smaller = &Conversion{Factor: factor, Unit: smaller}
	small.Larger = &Conversion{Factor: decimal.NewFromInt(1).DivRound(factor, 16), Unit: larger}
	return nil
}

// SetDefault makes sym the default commodity, registering it if needed. The
// default commodity decides whether a lone comma is a decimal mark.
func (r *Registry) SetDefault(sym Symbol) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lookupOrCreate(sym)
	r.defaultSym = sym
	r.haveDefault = true
}

// Default returns the default commodity, if one was set.
func (r *Registry) Default() (Commodity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.haveDefault {
		return Commodity{}, false
	}
	return r.table[r.defaultSym].snapshot(), true
}

// Symbols returns all registered symbols in sorted order, including the
// null commodity.
func (r *Registry) Symbols() []Symbol {
	r.mu.RLock()
	defer r.mu.RUnlock()

	syms := make([]Symbol, 0, len(r.table))
	for sym := range r.table {
		syms = append(syms, sym)
	}
	slices.Sort(syms)
	return syms
}

// Len returns the number of registered commodities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.table)
}

// lookupOrCreate must be called with r.mu held for writing.
func (r *Registry) lookupOrCreate(sym Symbol) *Commodity {
	c, ok := r.table[sym]
	if !ok {
		c = &Commodity{Symbol: sym}
		r.table[sym] = c
	}
	return c
}

func (c *Commodity) snapshot() Commodity {
	s := *c
	if c.Smaller != nil {
		conv := *c.Smaller
		s.Smaller = &conv
	}
	if c.Larger != nil {
		conv := *c.Larger
		s.Larger = &conv
	}
	return s
}

// Checkpoint is a saved registry state, see Registry.Checkpoint.
type Checkpoint struct {
	table       map[Symbol]Commodity
	defaultSym  Symbol
	haveDefault bool
}

// Checkpoint records the current state of the registry.
func (r *Registry) Checkpoint() Checkpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cp := Checkpoint{
		table:       make(map[Symbol]Commodity, len(r.table)),
		defaultSym:  r.defaultSym,
		haveDefault: r.haveDefault,
	}
	for sym, c := range r.table {
		cp.table[sym] = c.snapshot()
	}
	return cp
}

// Restore returns the registry to the state recorded in cp. Commodities
// registered since are removed and widened styles and precisions are
// narrowed back, including changes made by other users of the registry.
func (r *Registry) Restore(cp Checkpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for sym, c := range r.table {
		saved, ok := cp.table[sym]
		if !ok {
			delete(r.table, sym)
			continue
		}
		*c = saved
	}
	for sym, saved := range cp.table {
		if _, ok := r.table[sym]; !ok {
			c := saved
			r.table[sym] = &c
		}
	}
	r.defaultSym = cp.defaultSym
	r.haveDefault = cp.haveDefault
}
