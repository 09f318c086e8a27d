package ledger

import (
	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/commodity"
	"golang.org/x/exp/slices"
)

// Totals holds one running sum per commodity.
type Totals map[commodity.Symbol]amount.Amount

// Add adds a to the sum of its commodity.
func (t Totals) Add(a amount.Amount) {
	sym := a.Commodity()
	current, ok := t[sym]
	if !ok {
		t[sym] = a
		return
	}
	// Same key, same commodity: Add cannot fail.
	sum, _ := current.Add(a)
	t[sym] = sum
}

// Get returns the sum for sym, or its zero amount.
func (t Totals) Get(sym commodity.Symbol) amount.Amount {
	if a, ok := t[sym]; ok {
		return a
	}
	return amount.Zero(sym)
}

// IsZero reports whether every sum is zero.
func (t Totals) IsZero() bool {
	for _, a := range t {
		if !a.IsZero() {
			return false
		}
	}
	return true
}

// Amounts returns the sums ordered by commodity symbol.
func (t Totals) Amounts() []amount.Amount {
	syms := make([]commodity.Symbol, 0, len(t))
	for sym := range t {
		syms = append(syms, sym)
	}
	slices.Sort(syms)

	amounts := make([]amount.Amount, len(syms))
	for i, sym := range syms {
		amounts[i] = t[sym]
	}
	return amounts
}

// NonZero returns the non-zero sums ordered by commodity symbol.
func (t Totals) NonZero() []amount.Amount {
	var amounts []amount.Amount
	for _, a := range t.Amounts() {
		if !a.IsZero() {
			amounts = append(amounts, a)
		}
	}
	return amounts
}
