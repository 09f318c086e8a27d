package ast

import (
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/commodity"
)

func mustDate(t *testing.T, s string) *Date {
	t.Helper()
	d, err := NewDate(s)
	assert.NoError(t, err)
	return d
}

func TestNewDate(t *testing.T) {
	d, err := NewDate("2013/03/01")
	assert.NoError(t, err)
	assert.Equal(t, 2013, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, "2013/03/01", d.String())

	_, err = NewDate("2013-03-01")
	var invalid *InvalidDateError
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, "invalid date: 2013-03-01", err.Error())

	_, err = NewDate("2013/02/30")
	assert.Error(t, err)

	var nilDate *Date
	assert.True(t, nilDate.IsZero())
	assert.Equal(t, "", nilDate.String())
}

func TestNewDateFromTime(t *testing.T) {
	d := NewDateFromTime(time.Date(2024, 5, 6, 17, 30, 0, 0, time.Local))
	assert.Equal(t, "2024/05/06", d.String())
	assert.Equal(t, 0, d.Hour())
}

func TestNewEntry(t *testing.T) {
	reg := commodity.NewRegistry()
	date := mustDate(t, "2013/03/01")
	edate := mustDate(t, "2013/03/05")

	e := NewEntry(date,
		WithEffectiveDate(edate),
		WithFlag("*"),
		WithCode("INV-1"),
		WithDescription("Office supplies"),
		WithTransactions(
			NewTransaction("Expenses:Office", WithAmount(amount.MustParse(reg, "12.50 EUR")), WithNote("paper")),
			NewTransaction("Assets:Bank:Checking"),
		),
	)

	assert.Equal(t, date, e.Date)
	assert.Equal(t, edate, e.EffectiveDate)
	assert.Equal(t, "*", e.Flag)
	assert.Equal(t, "INV-1", e.Code)
	assert.Equal(t, "Office supplies", e.Description)
	assert.Equal(t, 2, len(e.Transactions))
	assert.Equal(t, "paper", e.Transactions[0].Note)
	assert.True(t, e.Transactions[0].HasAmount())
	assert.False(t, e.Transactions[1].HasAmount())
	assert.Equal(t, []string{"Expenses:Office", "Assets:Bank:Checking"}, e.Accounts())

	_, ok := e.ID()
	assert.False(t, ok)
}

func TestEntryID(t *testing.T) {
	e := NewEntry(mustDate(t, "2013/03/01"))
	e.AssignID(3)
	id, ok := e.ID()
	assert.True(t, ok)
	assert.Equal(t, 3, id)

	e.ClearID()
	_, ok = e.ID()
	assert.False(t, ok)
}

func TestNullAmount(t *testing.T) {
	reg := commodity.NewRegistry()
	date := mustDate(t, "2013/03/01")

	t.Run("Inferred", func(t *testing.T) {
		e := NewEntry(date, WithTransactions(
			NewTransaction("Expenses:Food", WithAmount(amount.MustParse(reg, "10.00 EUR"))),
			NewTransaction("Expenses:Drinks", WithAmount(amount.MustParse(reg, "2.50 EUR"))),
			NewTransaction("Assets:Cash"),
		))

		null, err := e.NullAmount()
		assert.NoError(t, err)
		assert.Equal(t, "-12.50 EUR", null.String())
		assert.Equal(t, e.Transactions[2], e.NullTransaction())

		balance, err := e.Balance()
		assert.NoError(t, err)
		assert.True(t, balance.IsZero())
		assert.True(t, e.IsBalanced())
	})

	t.Run("MultipleNulls", func(t *testing.T) {
		e := NewEntry(date, WithTransactions(
			NewTransaction("Expenses:Food", WithAmount(amount.MustParse(reg, "10 EUR"))),
			NewTransaction("Assets:Cash"),
			NewTransaction("Assets:Bank"),
		))
		e.Pos = Position{Filename: "main.ledger", Line: 7, Column: 1}

		_, err := e.NullAmount()
		var multiple *MultipleNullAmountsError
		assert.True(t, errors.As(err, &multiple))
		assert.Equal(t, 2, multiple.Count)
		assert.Equal(t, 7, multiple.GetPosition().Line)
		assert.Contains(t, err.Error(), "main.ledger:7")

		_, err = e.Balance()
		assert.Error(t, err)
		assert.False(t, e.IsBalanced())
	})

	t.Run("NoTransactions", func(t *testing.T) {
		null, err := NewEntry(date).NullAmount()
		assert.NoError(t, err)
		assert.True(t, null.IsZero())
	})

	t.Run("MixedCommodities", func(t *testing.T) {
		e := NewEntry(date, WithTransactions(
			NewTransaction("Assets:EUR", WithAmount(amount.MustParse(reg, "10 EUR"))),
			NewTransaction("Assets:USD", WithAmount(amount.MustParse(reg, "-11 USD"))),
			NewTransaction("Equity:Conversion"),
		))
		_, err := e.NullAmount()
		var mismatch *amount.CommodityMismatchError
		assert.True(t, errors.As(err, &mismatch))
	})
}

func TestBalanceReportsImbalance(t *testing.T) {
	reg := commodity.NewRegistry()
	e := NewEntry(mustDate(t, "2013/03/01"), WithTransactions(
		NewTransaction("Expenses:Food", WithAmount(amount.MustParse(reg, "10.00 EUR"))),
		NewTransaction("Assets:Cash", WithAmount(amount.MustParse(reg, "-9.00 EUR"))),
	))

	balance, err := e.Balance()
	assert.NoError(t, err)
	assert.Equal(t, "1.00 EUR", balance.String())
	assert.False(t, e.IsBalanced())
}

func TestEntryAmount(t *testing.T) {
	reg := commodity.NewRegistry()
	e := NewEntry(mustDate(t, "2013/03/01"), WithTransactions(
		NewTransaction("Expenses:Food", WithAmount(amount.MustParse(reg, "10.00 EUR"))),
		NewTransaction("Expenses:Food:Snacks", WithAmount(amount.MustParse(reg, "2.00 EUR"))),
		NewTransaction("Income:Refund", WithAmount(amount.MustParse(reg, "1.00 EUR"))),
		NewTransaction("Assets:Cash"),
	))

	total, err := e.Amount()
	assert.NoError(t, err)
	assert.Equal(t, "13.00 EUR", total.String())

	food, err := e.AmountTo("Expenses:Food")
	assert.NoError(t, err)
	assert.Equal(t, "12.00 EUR", food.String())

	cash, err := e.AmountTo("Assets", "Income")
	assert.NoError(t, err)
	assert.Equal(t, "-12.00 EUR", cash.String())

	none, err := e.AmountTo("Liabilities")
	assert.NoError(t, err)
	assert.True(t, none.IsZero())
}

func TestMatchesAccount(t *testing.T) {
	tests := []struct {
		name, account string
		expected      bool
	}{
		{"Assets:Bank", "Assets:Bank", true},
		{"Assets:Bank:Checking", "Assets:Bank", true},
		{"Assets:Banking", "Assets:Bank", false},
		{"Assets", "Assets:Bank", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesAccount(tt.name, tt.account))
		})
	}
}

func TestTouches(t *testing.T) {
	e := NewEntry(mustDate(t, "2013/03/01"), WithTransactions(
		NewTransaction("Assets:Bank:Checking"),
	))
	assert.True(t, e.Touches("Assets"))
	assert.True(t, e.Touches("Assets:Bank"))
	assert.False(t, e.Touches("Assets:Cash"))
}
