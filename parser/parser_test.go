package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/commodity"
)

func TestParseEntry(t *testing.T) {
	input := `; Household ledger

2013/03/01=2013/03/05 * (INV-42) Office supplies
    Expenses:Office  12.50 EUR  ; paper and pens
    Assets:Bank:Checking

2013/03/02 Lunch
    Expenses:Food  EUR 8.00
    ; paid in cash
    Assets:Cash  EUR -8.00
`
	reg := commodity.NewRegistry()
	entries, err := ParseString(context.Background(), reg, input, WithFilename("main.ledger"))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(entries))

	first := entries[0]
	assert.Equal(t, "2013/03/01", first.Date.String())
	assert.Equal(t, "2013/03/05", first.EffectiveDate.String())
	assert.Equal(t, "*", first.Flag)
	assert.Equal(t, "INV-42", first.Code)
	assert.Equal(t, "Office supplies", first.Description)
	assert.Equal(t, "main.ledger", first.Pos.Filename)
	assert.Equal(t, 3, first.Pos.Line)
	assert.Equal(t, 2, len(first.Transactions))

	office := first.Transactions[0]
	assert.Equal(t, "Expenses:Office", office.Account)
	assert.Equal(t, "12.50 EUR", office.Amount.String())
	assert.Equal(t, "paper and pens", office.Note)
	assert.Equal(t, 4, office.Pos.Line)
	assert.Equal(t, 5, office.Pos.Column)

	checking := first.Transactions[1]
	assert.Equal(t, "Assets:Bank:Checking", checking.Account)
	assert.False(t, checking.HasAmount())

	second := entries[1]
	assert.Equal(t, "", second.Flag)
	assert.Equal(t, "", second.Code)
	assert.Zero(t, second.EffectiveDate)
	assert.Equal(t, "Lunch", second.Description)
	assert.Equal(t, 2, len(second.Transactions))
	assert.True(t, second.IsBalanced())
}

func TestParseNullAmount(t *testing.T) {
	input := "2013/03/01 Desc\n    Expenses:Food  5.99 EUR\n    Assets:Cash\n"

	entries, err := ParseString(context.Background(), commodity.NewRegistry(), input)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(entries))

	null, err := entries[0].NullAmount()
	assert.NoError(t, err)
	assert.True(t, null.Equal(entries[0].Transactions[0].Amount.Neg()))
	assert.Equal(t, "-5.99 EUR", null.String())
}

func TestParseNoteWithoutAmount(t *testing.T) {
	input := "2013/03/01 Coffee\n    Expenses:Coffee  3.50 EUR\n    Assets:Cash  ; wallet\n"

	entries, err := ParseString(context.Background(), commodity.NewRegistry(), input)
	assert.NoError(t, err)

	cash := entries[0].Transactions[1]
	assert.Equal(t, "Assets:Cash", cash.Account)
	assert.False(t, cash.HasAmount())
	assert.Equal(t, "wallet", cash.Note)
	assert.True(t, entries[0].IsBalanced())
}

func TestParseAccountsAndAmountsWithSpaces(t *testing.T) {
	input := "2013/03/01 Savings\n    Assets:Bank Account:Savings  1,000.00 \"Swiss Francs\"\n    Equity:Opening Balances\n"

	entries, err := ParseString(context.Background(), commodity.NewRegistry(), input)
	assert.NoError(t, err)

	txn := entries[0].Transactions[0]
	assert.Equal(t, "Assets:Bank Account:Savings", txn.Account)
	assert.Equal(t, commodity.Symbol("Swiss Francs"), txn.Amount.Commodity())
	assert.Equal(t, `1,000.00 "Swiss Francs"`, txn.Amount.String())
	assert.Equal(t, "Equity:Opening Balances", entries[0].Transactions[1].Account)
}

func TestParseMigratesCommodities(t *testing.T) {
	input := "2013/03/01 A\n    Assets:Cash  CAD 9,000.00\n    Equity:Opening\n"
	reg := commodity.NewRegistry()

	_, err := ParseString(context.Background(), reg, input)
	assert.NoError(t, err)

	cad, ok := reg.Find("CAD")
	assert.True(t, ok)
	assert.Equal(t, 2, cad.Precision)
	assert.True(t, cad.Style.Has(commodity.Thousands|commodity.Separated))

	reg = commodity.NewRegistry()
	_, err = ParseString(context.Background(), reg, input, WithAmountFlags(amount.ParseNoMigrate))
	assert.NoError(t, err)
	_, ok = reg.Find("CAD")
	assert.False(t, ok)
}

func TestParseFailureRestoresRegistry(t *testing.T) {
	reg := commodity.NewRegistry()
	_, err := ParseString(context.Background(), reg, "2013/03/01 Opening\n    Assets:Cash  1.000,00 EUR\n    Equity:Opening\n\tbroken\n")
	assert.Error(t, err)

	_, ok := reg.Find("EUR")
	assert.False(t, ok)

	entries, err := ParseString(context.Background(), reg, "2013/03/02 Coffee\n    Expenses:Coffee  1.5 EUR\n    Assets:Cash\n")
	assert.NoError(t, err)
	assert.Equal(t, "1.5 EUR", entries[0].Transactions[0].Amount.String())
}

func TestParseWindowsLineEndings(t *testing.T) {
	input := "2013/03/01 A\r\n    Assets:Cash  1 EUR\r\n    Equity:Opening\r\n"

	entries, err := ParseString(context.Background(), commodity.NewRegistry(), input)
	assert.NoError(t, err)
	assert.Equal(t, "A", entries[0].Description)
	assert.Equal(t, "Equity:Opening", entries[0].Transactions[1].Account)
}

func TestParseHeaderWithoutDescription(t *testing.T) {
	entries, err := ParseString(context.Background(), commodity.NewRegistry(), "2013/03/01 *\n")
	assert.NoError(t, err)
	assert.Equal(t, "*", entries[0].Flag)
	assert.Equal(t, "", entries[0].Description)
	assert.Equal(t, 0, len(entries[0].Transactions))
}

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "; only a comment\n"} {
		entries, err := ParseString(context.Background(), commodity.NewRegistry(), input)
		assert.NoError(t, err)
		assert.Equal(t, 0, len(entries))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		line       int
		underlying error
		message    string
	}{
		{
			name:       "OrphanTransaction",
			input:      "; comment\n    Assets:Cash  1 EUR\n",
			line:       2,
			underlying: ErrOrphanTransaction,
			message:    "transaction without a preceding entry",
		},
		{
			name:       "InvalidHeader",
			input:      "2013-03-01 Desc\n",
			line:       1,
			underlying: ErrMalformedLine,
			message:    "invalid entry",
		},
		{
			name:       "UnmatchedInput",
			input:      "2013/03/01 Desc\n    Assets:Cash  1 EUR\nAssets:Bank\n",
			line:       3,
			underlying: ErrMalformedLine,
			message:    "unmatched input",
		},
		{
			name:       "TabIndented",
			input:      "2013/03/01 Desc\n\tAssets:Cash  1 EUR\n",
			line:       2,
			underlying: ErrMalformedLine,
			message:    "unmatched input",
		},
		{
			name:       "InvalidTransaction",
			input:      "2013/03/01 Desc\n    Assets:Cash  1 EUR  2 EUR\n",
			line:       2,
			underlying: ErrMalformedLine,
			message:    "invalid transaction",
		},
		{
			name:    "InvalidAmount",
			input:   "2013/03/01 Desc\n    Assets:Cash  EUR\n",
			line:    2,
			message: "invalid amount",
		},
		{
			name:    "InvalidDate",
			input:   "2013/02/30 Desc\n",
			line:    1,
			message: "invalid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ParseString(context.Background(), commodity.NewRegistry(), tt.input)
			assert.Zero(t, entries)

			var perr *ParseError
			assert.True(t, errors.As(err, &perr), "expected *ParseError, got %T", err)
			assert.Equal(t, tt.line, perr.GetPosition().Line)
			assert.Contains(t, perr.Message, tt.message)
			assert.Equal(t, strings.Split(tt.input, "\n")[tt.line-1], perr.Text)
			assert.Contains(t, err.Error(), "line")
			if tt.underlying != nil {
				assert.IsError(t, err, tt.underlying)
			}
		})
	}
}

func TestParseErrorAmountCause(t *testing.T) {
	_, err := ParseString(context.Background(), commodity.NewRegistry(),
		"2013/03/01 Desc\n    Assets:Cash  EUR\n", WithFilename("books.ledger"))

	var amountErr *amount.ParseError
	assert.True(t, errors.As(err, &amountErr))
	assert.Equal(t, "EUR", amountErr.Input)
	assert.Contains(t, err.Error(), "books.ledger:2")

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, 18, perr.Pos.Column)
}

func TestOrphanIsMalformed(t *testing.T) {
	assert.True(t, errors.Is(ErrOrphanTransaction, ErrMalformedLine))
}

func TestParseCancelled(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 2000; i++ {
		b.WriteString("; filler\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseString(ctx, commodity.NewRegistry(), b.String())
	assert.IsError(t, err, context.Canceled)
}
