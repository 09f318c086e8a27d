package ast

import (
	"github.com/robinvdvleuten/ledger/amount"
)

// NullTransaction returns the transaction without an amount, if any.
func (e *Entry) NullTransaction() *Transaction {
	for _, t := range e.Transactions {
		if t.Amount == nil {
			return t
		}
	}
	return nil
}

// NullAmount returns the amount that balances the entry: the negated sum of
// all explicit amounts. It fails if more than one transaction omits its
// amount, or if the explicit amounts mix commodities.
func (e *Entry) NullAmount() (amount.Amount, error) {
	var (
		present []amount.Amount
		nulls   int
	)
	for _, t := range e.Transactions {
		if t.Amount == nil {
			nulls++
			continue
		}
		present = append(present, *t.Amount)
	}

	if nulls > 1 {
		return amount.Amount{}, &MultipleNullAmountsError{Pos: e.Pos, Date: e.Date, Count: nulls}
	}

	total, err := amount.Sum(present...)
	if err != nil {
		return amount.Amount{}, err
	}
	return total.Neg(), nil
}

// AmountOf returns the amount of t, substituting the entry's null amount
// when t has none.
func (e *Entry) AmountOf(t *Transaction) (amount.Amount, error) {
	if t.Amount != nil {
		return *t.Amount, nil
	}
	return e.NullAmount()
}

// Balance returns the sum of all transaction amounts with the null amount
// substituted. A well-formed entry balances to zero; imbalance is reported,
// not rejected.
func (e *Entry) Balance() (amount.Amount, error) {
	amounts, err := e.amounts(func(*Transaction) bool { return true })
	if err != nil {
		return amount.Amount{}, err
	}
	return amount.Sum(amounts...)
}

// IsBalanced reports whether the entry's transactions net to zero.
func (e *Entry) IsBalanced() bool {
	balance, err := e.Balance()
	return err == nil && balance.IsZero()
}

// Amount returns the sum of all non-negative transaction amounts, i.e. the
// total moved by the entry.
func (e *Entry) Amount() (amount.Amount, error) {
	amounts, err := e.amounts(func(*Transaction) bool { return true })
	if err != nil {
		return amount.Amount{}, err
	}

	var positive []amount.Amount
	for _, a := range amounts {
		if a.Sign() >= 0 {
			positive = append(positive, a)
		}
	}
	return amount.Sum(positive...)
}

// AmountTo returns the total transferred to any of accounts or their
// sub-accounts.
func (e *Entry) AmountTo(accounts ...string) (amount.Amount, error) {
	amounts, err := e.amounts(func(t *Transaction) bool {
		for _, account := range accounts {
			if MatchesAccount(t.Account, account) {
				return true
			}
		}
		return false
	})
	if err != nil {
		return amount.Amount{}, err
	}
	return amount.Sum(amounts...)
}

func (e *Entry) amounts(keep func(*Transaction) bool) ([]amount.Amount, error) {
	var amounts []amount.Amount
	for _, t := range e.Transactions {
		if !keep(t) {
			continue
		}
		a, err := e.AmountOf(t)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, a)
	}
	return amounts, nil
}
