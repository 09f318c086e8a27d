package amount

import "github.com/shopspring/decimal"

// IsZero reports whether the quantity is zero.
func (a Amount) IsZero() bool { return a.quantity.IsZero() }

// Sign returns -1, 0 or 1.
func (a Amount) Sign() int { return a.quantity.Sign() }

// IsNegative reports whether the quantity is below zero.
func (a Amount) IsNegative() bool { return a.quantity.IsNegative() }

// Compare orders a and b. Zero amounts are comparable with amounts of any
// commodity; other amounts only with amounts of the same commodity. ok is
// false when the amounts are incomparable.
func (a Amount) Compare(b Amount) (cmp int, ok bool) {
	if a.commodity != b.commodity && !a.IsZero() && !b.IsZero() {
		return 0, false
	}
	return a.quantity.Cmp(b.quantity), true
}

// Equal reports whether a and b denote the same quantity of the same
// commodity. Zero equals zero of any commodity. Precision is ignored.
func (a Amount) Equal(b Amount) bool {
	cmp, ok := a.Compare(b)
	return ok && cmp == 0
}

// LessThan reports whether a < b. Incomparable amounts are never less.
func (a Amount) LessThan(b Amount) bool {
	cmp, ok := a.Compare(b)
	return ok && cmp < 0
}

// GreaterThan reports whether a > b. Incomparable amounts are never greater.
func (a Amount) GreaterThan(b Amount) bool {
	cmp, ok := a.Compare(b)
	return ok && cmp > 0
}

// CompareNumber compares the quantity with a plain number.
func (a Amount) CompareNumber(n decimal.Decimal) int {
	return a.quantity.Cmp(n)
}

// EqualNumber reports whether the quantity equals a plain number.
func (a Amount) EqualNumber(n decimal.Decimal) bool {
	return a.quantity.Equal(n)
}
