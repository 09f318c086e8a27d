// Package commodity keeps the table of commodities (currencies, stock symbols,
// time units, ...) seen by a ledger session together with the display style
// inferred for each of them.
//
// A commodity is identified by its Symbol. Formatting metadata lives in a
// Registry, which is owned by the caller and passed explicitly to the amount
// parser. Each symbol maps to exactly one entry in a registry and the recorded
// style and precision only ever widen as more input is observed:
//
//	reg := commodity.NewRegistry()
//	c := reg.FindOrCreate("EUR")
//	reg.Migrate("EUR", commodity.Suffixed|commodity.Separated, 2)
package commodity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol identifies a commodity. The empty symbol denotes the null commodity
// used for amounts without a unit.
type Symbol string

// Null is the symbol of the null commodity.
const Null Symbol = ""

// IsNull reports whether s is the null commodity.
func (s Symbol) IsNull() bool { return s == Null }

// Style is a bitset of display flags.
type Style uint8

const (
	// Separated puts a space between the commodity and the quantity.
	Separated Style = 0x01
	// Suffixed writes the commodity after the quantity.
	Suffixed Style = 0x02
	// Thousands groups the integer part in blocks of three digits.
	Thousands Style = 0x04
	// European swaps the decimal and grouping marks (1.000,00).
	European Style = 0x08
)

// DefaultStyle is the style of a freshly created commodity.
const DefaultStyle Style = 0

// Has reports whether all bits of flag are set.
func (s Style) Has(flag Style) bool { return s&flag == flag }

// String returns the names of the flags set, for diagnostics.
func (s Style) String() string {
	if s == DefaultStyle {
		return "default"
	}

	var names []string
	for _, f := range []struct {
		flag Style
		name string
	}{
		{Separated, "separated"},
		{Suffixed, "suffixed"},
		{Thousands, "thousands"},
		{European, "european"},
	} {
		if s.Has(f.flag) {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, "|")
}

// Conversion links a commodity to another unit: one unit of the owning
// commodity equals Factor units of Unit.
type Conversion struct {
	Factor decimal.Decimal
	Unit   Symbol
}

// Commodity is a snapshot of the metadata recorded for a symbol.
type Commodity struct {
	Symbol    Symbol
	Style     Style
	Precision int

	// Smaller is the unit amounts of this commodity are reduced to while
	// parsing, if any. Larger is the inverse link.
	Smaller *Conversion
	Larger  *Conversion
}

// String returns the symbol.
func (c Commodity) String() string { return string(c.Symbol) }

// DuplicateCommodityError is returned when creating a symbol that is
// already registered.
type DuplicateCommodityError struct {
	Symbol Symbol
}

func (e *DuplicateCommodityError) Error() string {
	return fmt.Sprintf("commodity already exists: %q", string(e.Symbol))
}
