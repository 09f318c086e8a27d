package amount

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/robinvdvleuten/ledger/commodity"
	"github.com/shopspring/decimal"
)

// ParseFlags controls how Parse interacts with the registry.
type ParseFlags uint8

const (
	// ParseNoMigrate leaves the registry untouched: styles are not widened
	// and unseen symbols are not registered.
	ParseNoMigrate ParseFlags = 0x01
	// ParseNoReduce keeps the parsed commodity instead of reducing it to its
	// smallest linked unit.
	ParseNoReduce ParseFlags = 0x04
)

// ParseOption configures Parse.
type ParseOption func(*ParseFlags)

// NoMigrate prevents Parse from altering the registry.
func NoMigrate() ParseOption {
	return func(f *ParseFlags) { *f |= ParseNoMigrate }
}

// NoReduce prevents unit reduction.
func NoReduce() ParseOption {
	return func(f *ParseFlags) { *f |= ParseNoReduce }
}

// WithFlags applies a stored set of flags.
func WithFlags(flags ParseFlags) ParseOption {
	return func(f *ParseFlags) { *f |= flags }
}

// invalidSymbolChars may not appear in an unquoted commodity symbol.
const invalidSymbolChars = " \t\n\r0123456789.,;-+*/^?:&|!=<>{}[]()@"

// Parse reads an amount literal such as "$1", "-3.44 EUR", "GOOG 500" or
// "CAD 9,000.00".
//
// The punctuation of the number decides its precision and the style recorded
// for the commodity. Unless NoMigrate is given, the commodity is registered
// on first sight and its style and precision are widened in reg. Unless
// NoReduce is given, the quantity is converted to the smallest unit linked to
// the commodity.
func Parse(reg *commodity.Registry, input string, opts ...ParseOption) (Amount, error) {
	var flags ParseFlags
	for _, opt := range opts {
		opt(&flags)
	}
	if reg == nil {
		reg = commodity.NewRegistry()
	}

	a, err := parse(reg, input, flags)
	if err != nil {
		return Amount{}, &ParseError{Input: input, Cause: err}
	}
	return a, nil
}

// MustParse is like Parse but panics on error.
// Use only in tests or for literals known to be valid.
func MustParse(reg *commodity.Registry, input string, opts ...ParseOption) Amount {
	a, err := Parse(reg, input, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

func parse(reg *commodity.Registry, input string, flags ParseFlags) (Amount, error) {
	s := &scanner{input: []rune(input)}

	var (
		negative bool
		style    commodity.Style
		symbol   string
		quantity string
	)

	c, ok := s.peekNonSpace()
	if !ok {
		return Amount{}, ErrUnexpectedEnd
	}
	if c == '-' {
		negative = true
		s.next()
		if c, ok = s.peekNonSpace(); !ok {
			return Amount{}, ErrUnexpectedEnd
		}
	}

	if isDigit(c) {
		quantity = s.readQuantity()

		if n, ok := s.peek(); ok && n != '\n' {
			separated := unicode.IsSpace(n)

			var err error
			if symbol, err = s.readSymbol(); err != nil {
				return Amount{}, err
			}
			if symbol != "" {
				style |= commodity.Suffixed
				if separated {
					style |= commodity.Separated
				}
			}
		}
	} else {
		var err error
		if symbol, err = s.readSymbol(); err != nil {
			return Amount{}, err
		}

		if n, ok := s.peek(); ok && n != '\n' {
			if unicode.IsSpace(n) {
				style |= commodity.Separated
			}
			quantity = s.readQuantity()
		}
	}

	if quantity == "" {
		return Amount{}, ErrNoQuantity
	}
	if n, ok := s.peekNonSpace(); ok && n != '\n' {
		return Amount{}, fmt.Errorf("%w: %q", ErrAnnotationsUnhandled, string(s.input[s.pos:]))
	}

	sym := commodity.Symbol(symbol)
	var com commodity.Commodity
	switch {
	case sym.IsNull():
		com = reg.Null()
	case flags&ParseNoMigrate != 0:
		if found, ok := reg.Find(sym); ok {
			com = found
		} else {
			com = commodity.Commodity{Symbol: sym}
		}
	default:
		com = reg.FindOrCreate(sym)
	}

	precision, numStyle := inferNumberStyle(reg, com, quantity)
	style |= numStyle

	if flags&ParseNoMigrate == 0 {
		reg.Migrate(sym, style, precision)
	}

	q, err := buildDecimal(quantity, precision, negative)
	if err != nil {
		return Amount{}, err
	}

	if flags&ParseNoReduce == 0 {
		for com.Smaller != nil {
			q = q.Mul(com.Smaller.Factor)
			next, ok := reg.Find(com.Smaller.Unit)
			if !ok {
				next = commodity.Commodity{Symbol: com.Smaller.Unit}
			}
			com = next
		}
	}

	return Amount{
		quantity:  q,
		commodity: com.Symbol,
		precision: precision,
		registry:  reg,
	}, nil
}

// inferNumberStyle decides which punctuation mark of a raw quantity is the
// decimal mark. A lone comma is a decimal mark unless a non-European default
// commodity has been set.
func inferNumberStyle(reg *commodity.Registry, com commodity.Commodity, quantity string) (int, commodity.Style) {
	lastComma := strings.LastIndexByte(quantity, ',')
	lastPeriod := strings.LastIndexByte(quantity, '.')
	digitsAfter := func(i int) int { return len(quantity) - i - 1 }

	switch {
	case lastComma >= 0 && lastPeriod >= 0:
		if lastComma > lastPeriod {
			return digitsAfter(lastComma), commodity.Thousands | commodity.European
		}
		return digitsAfter(lastPeriod), commodity.Thousands

	case lastComma >= 0:
		def, ok := reg.Default()
		if !ok || def.Style.Has(commodity.European) {
			return digitsAfter(lastComma), commodity.European
		}
		return 0, commodity.DefaultStyle

	case lastPeriod >= 0 && !com.Style.Has(commodity.European):
		return digitsAfter(lastPeriod), commodity.DefaultStyle
	}

	return 0, commodity.DefaultStyle
}

func buildDecimal(quantity string, precision int, negative bool) (decimal.Decimal, error) {
	digits := strings.Map(func(r rune) rune {
		if r == ',' || r == '.' {
			return -1
		}
		return r
	}, quantity)
	if digits == "" || digits == "-" {
		return decimal.Decimal{}, ErrNoQuantity
	}

	if precision > 0 {
		if len(digits) < precision {
			digits = strings.Repeat("0", precision-len(digits)) + digits
		}
		intPart := digits[:len(digits)-precision]
		if intPart == "" || intPart == "-" {
			intPart += "0"
		}
		digits = intPart + "." + digits[len(digits)-precision:]
	}
	if negative {
		digits = "-" + digits
	}

	q, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid quantity %q", quantity)
	}
	return q, nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

type scanner struct {
	input []rune
	pos   int
}

func (s *scanner) peek() (rune, bool) {
	if s.pos >= len(s.input) {
		return 0, false
	}
	return s.input[s.pos], true
}

func (s *scanner) next() (rune, bool) {
	r, ok := s.peek()
	if ok {
		s.pos++
	}
	return r, ok
}

func (s *scanner) peekNonSpace() (rune, bool) {
	for {
		r, ok := s.peek()
		if !ok || !unicode.IsSpace(r) {
			return r, ok
		}
		s.pos++
	}
}

// readWhile consumes runes while keep accepts them. A backslash takes the
// following rune literally.
func (s *scanner) readWhile(keep func(rune) bool) (string, error) {
	var b strings.Builder
	for {
		r, ok := s.peek()
		if !ok || !keep(r) {
			return b.String(), nil
		}
		s.pos++
		if r == '\\' {
			if r, ok = s.next(); !ok {
				return "", ErrUnexpectedEnd
			}
		}
		b.WriteRune(r)
	}
}

func (s *scanner) readQuantity() string {
	s.peekNonSpace()
	q, _ := s.readWhile(func(r rune) bool {
		return isDigit(r) || r == '.' || r == ',' || r == '-'
	})
	return q
}

func (s *scanner) readSymbol() (string, error) {
	c, ok := s.peekNonSpace()
	if !ok {
		return "", nil
	}

	if c != '"' {
		return s.readWhile(func(r rune) bool {
			return !strings.ContainsRune(invalidSymbolChars, r)
		})
	}

	s.pos++
	sym, err := s.readWhile(func(r rune) bool { return r != '\n' && r != '"' })
	if err != nil {
		return "", err
	}
	if r, ok := s.next(); !ok || r != '"' {
		return "", fmt.Errorf("%w: %q", ErrUnterminatedSymbol, sym)
	}
	return sym, nil
}
