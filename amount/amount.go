// Package amount implements commodity-tagged decimal quantities.
//
// An Amount pairs an exact decimal quantity with a commodity symbol and the
// number of fractional digits it was written with. Amounts are immutable;
// every operation returns a new value. Display style (prefix or suffix
// symbol, grouping, decimal mark) is resolved from the commodity registry the
// amount was parsed with, so formatting follows what has been observed for
// that commodity so far.
package amount

import (
	"strings"

	"github.com/robinvdvleuten/ledger/commodity"
	"github.com/shopspring/decimal"
)

// Amount is a quantity of a commodity.
//
// The zero value is the zero amount of the null commodity.
type Amount struct {
	quantity  decimal.Decimal
	commodity commodity.Symbol
	precision int
	registry  *commodity.Registry
}

// New creates an amount of sym. The display precision is taken from the
// number of fractional digits in q. reg may be nil, in which case the amount
// is formatted with the default style.
func New(q decimal.Decimal, sym commodity.Symbol, reg *commodity.Registry) Amount {
	precision := 0
	if exp := q.Exponent(); exp < 0 {
		precision = int(-exp)
	}
	return Amount{quantity: q, commodity: sym, precision: precision, registry: reg}
}

// NewFromString creates an amount from a plain decimal literal such as
// "12.50". Use Parse for literals that carry a commodity.
func NewFromString(s string, sym commodity.Symbol, reg *commodity.Registry) (Amount, error) {
	q, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, &ParseError{Input: s, Cause: err}
	}
	return New(q, sym, reg), nil
}

// Zero returns the zero amount of sym.
func Zero(sym commodity.Symbol) Amount {
	return Amount{commodity: sym}
}

// Quantity returns the exact quantity.
func (a Amount) Quantity() decimal.Decimal { return a.quantity }

// Commodity returns the commodity symbol.
func (a Amount) Commodity() commodity.Symbol { return a.commodity }

// Precision returns the number of fractional digits used for display.
func (a Amount) Precision() int { return a.precision }

// Registry returns the registry used to resolve the display style, if any.
func (a Amount) Registry() *commodity.Registry { return a.registry }

// WithPrecision returns a copy of a displayed with p fractional digits.
func (a Amount) WithPrecision(p int) Amount {
	if p < 0 {
		p = 0
	}
	a.precision = p
	return a
}

// WithRegistry returns a copy of a that resolves its style from reg.
func (a Amount) WithRegistry(reg *commodity.Registry) Amount {
	a.registry = reg
	return a
}

// String formats the amount in the style recorded for its commodity, e.g.
// "$1", "3.44 EUR" or "CAD 9,000.00".
func (a Amount) String() string {
	style := a.registry.Style(a.commodity)

	quantity := a.formatQuantity(style)
	if a.commodity.IsNull() {
		return quantity
	}

	symbol := quoteSymbol(a.commodity)
	sep := ""
	if style.Has(commodity.Separated) {
		sep = " "
	}
	if style.Has(commodity.Suffixed) {
		return quantity + sep + symbol
	}
	return symbol + sep + quantity
}

func (a Amount) formatQuantity(style commodity.Style) string {
	if a.precision == 0 {
		return a.quantity.Round(0).String()
	}

	fixed := a.quantity.StringFixed(int32(a.precision))
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	if style.Has(commodity.Thousands) {
		mark := ","
		if style.Has(commodity.European) {
			mark = "."
		}
		intPart = groupThousands(intPart, mark)
	}

	decimalMark := "."
	if style.Has(commodity.European) {
		decimalMark = ","
	}
	if pad := a.precision - len(fracPart); pad > 0 {
		fracPart += strings.Repeat("0", pad)
	}
	return intPart + decimalMark + fracPart
}

func groupThousands(digits, mark string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(mark)
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

// quoteSymbol wraps symbols that would not survive an unquoted parse.
func quoteSymbol(sym commodity.Symbol) string {
	s := string(sym)
	if !strings.ContainsAny(s, invalidSymbolChars+`"\`) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
