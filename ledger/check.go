package ledger

import (
	"context"
	"errors"

	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/telemetry"
)

// Check verifies the double-entry law and the header fields of every entry. Problems are
// collected rather than returned on the first failure; the result is nil or
// a *ValidationErrors.
func (l *Ledger) Check(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, "ledger.check")
	defer timer.End()

	var errs []error
	for _, e := range l.entries {
		if err := e.ValidateHeader(); err != nil {
			errs = append(errs, err)
		}
		if err := checkEntry(e); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func checkEntry(e *ast.Entry) error {
	if e.NullTransaction() != nil {
		// The null amount balances the entry by construction, as long as
		// it can be computed.
		if _, err := e.NullAmount(); err != nil {
			var multiple *ast.MultipleNullAmountsError
			if errors.As(err, &multiple) {
				return multiple
			}
			return &InvalidEntryError{Pos: e.Pos, Date: e.Date, Err: err, Entry: e}
		}
		return nil
	}

	residuals, err := Residuals(e)
	if err != nil {
		return &InvalidEntryError{Pos: e.Pos, Date: e.Date, Err: err, Entry: e}
	}
	if len(residuals) > 0 {
		return &EntryNotBalancedError{
			Pos:         e.Pos,
			Date:        e.Date,
			Description: e.Description,
			Residuals:   residuals,
			Entry:       e,
		}
	}
	return nil
}

// Residuals returns the non-zero per-commodity sums of an entry. A balanced
// entry has none.
func Residuals(e *ast.Entry) ([]amount.Amount, error) {
	totals := Totals{}
	for _, t := range e.Transactions {
		a, err := e.AmountOf(t)
		if err != nil {
			return nil, err
		}
		totals.Add(a)
	}
	return totals.NonZero(), nil
}
