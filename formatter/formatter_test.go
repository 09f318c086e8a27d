package formatter

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/commodity"
	"github.com/robinvdvleuten/ledger/parser"
)

func TestFormatRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name: "Full header",
			input: `2013/03/01=2013/03/05 * (INV-42) Office supplies
    Expenses:Office  12.50 EUR  ; paper and pens
    Assets:Bank:Checking
`,
		},
		{
			name: "Multiple entries",
			input: `2013/03/01 Salary
    Assets:Bank:Checking  $2,500.00
    Income:Salary

2013/03/02 ! Groceries
    Expenses:Food  $45.10
    Assets:Bank:Checking  $-45.10

2013/03/03 (42)
    Assets:Broker  GOOG 5
    Assets:Bank:Checking  $-4,000.00
`,
		},
		{
			name: "Note without amount",
			input: `2013/03/01 Coffee
    Expenses:Coffee  3.50 EUR
    Assets:Cash  ; wallet
`,
		},
		{
			name: "Header only",
			input: `2013/03/01
`,
		},
		{
			name: "European amounts",
			input: `2013/03/01 Miete
    Ausgaben:Miete  1.250,00 EUR
    Vermögen:Girokonto  -1.250,00 EUR  ; Dauerauftrag
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := commodity.NewRegistry()
			entries, err := parser.ParseString(context.Background(), reg, tt.input)
			assert.NoError(t, err)

			var buf bytes.Buffer
			err = New().Format(context.Background(), entries, &buf)
			assert.NoError(t, err)
			assert.Equal(t, tt.input, buf.String())

			// Formatting is idempotent.
			again, err := parser.ParseString(context.Background(), reg, buf.String())
			assert.NoError(t, err)
			assert.Equal(t, buf.String(), New().FormatEntries(again)+"\n")
		})
	}
}

func TestFormatEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, New().Format(context.Background(), nil, &buf))
	assert.Equal(t, "", buf.String())
}

func TestFormatRejectsAmbiguousHeader(t *testing.T) {
	date, err := ast.NewDate("2024/01/15")
	assert.NoError(t, err)

	entry := ast.NewEntry(date, ast.WithDescription("(1234) Card payment"))

	var buf bytes.Buffer
	err = New().Format(context.Background(), []*ast.Entry{entry}, &buf)
	var ambiguous *ast.AmbiguousHeaderError
	assert.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, "", buf.String())

	entry.Code = "1234"
	entry.Description = "Card payment"
	assert.NoError(t, New().Format(context.Background(), []*ast.Entry{entry}, &buf))
	assert.Equal(t, "2024/01/15 (1234) Card payment\n", buf.String())
}

func TestFormatBuiltEntry(t *testing.T) {
	reg := commodity.NewRegistry()
	date, err := ast.NewDate("2024/01/15")
	assert.NoError(t, err)

	entry := ast.NewEntry(date,
		ast.WithFlag("*"),
		ast.WithDescription("Coffee"),
		ast.WithTransactions(
			ast.NewTransaction("Expenses:Coffee", ast.WithAmount(amount.MustParse(reg, "3.50 EUR"))),
			ast.NewTransaction("Assets:Cash", ast.WithNote("wallet")),
		),
	)

	expected := "2024/01/15 * Coffee\n  Expenses:Coffee  3.50 EUR\n  Assets:Cash  ; wallet"
	assert.Equal(t, expected, New(WithIndentation(2)).FormatEntry(entry))
}

func TestFormatAmountColumn(t *testing.T) {
	input := `2013/03/01 Lunch
    Expenses:Food  8.00 EUR
    Assets:Cash  -8.00 EUR
`
	entries, err := parser.ParseString(context.Background(), commodity.NewRegistry(), input)
	assert.NoError(t, err)

	t.Run("Fixed column", func(t *testing.T) {
		expected := "2013/03/01 Lunch\n" +
			"    Expenses:Food             8.00 EUR\n" +
			"    Assets:Cash              -8.00 EUR"
		assert.Equal(t, expected, New(WithAmountColumn(38)).FormatEntries(entries))
	})

	t.Run("Auto align", func(t *testing.T) {
		expected := "2013/03/01 Lunch\n" +
			"    Expenses:Food  8.00 EUR\n" +
			"    Assets:Cash   -8.00 EUR"
		assert.Equal(t, expected, New(WithAutoAlign()).FormatEntries(entries))
	})

	t.Run("Column too narrow keeps minimum spacing", func(t *testing.T) {
		expected := "2013/03/01 Lunch\n" +
			"    Expenses:Food  8.00 EUR\n" +
			"    Assets:Cash  -8.00 EUR"
		assert.Equal(t, expected, New(WithAmountColumn(10)).FormatEntries(entries))
	})

	t.Run("Aligned output parses back", func(t *testing.T) {
		text := New(WithAmountColumn(50)).FormatEntries(entries)
		again, err := parser.ParseString(context.Background(), commodity.NewRegistry(), text)
		assert.NoError(t, err)
		assert.Equal(t, "8.00 EUR", again[0].Transactions[0].Amount.String())
	})
}

func TestFormatWideAccountNames(t *testing.T) {
	input := "2013/03/01 Ramen\n    支出:食費  1000 JPY\n    資産:現金  -1000 JPY\n"
	entries, err := parser.ParseString(context.Background(), commodity.NewRegistry(), input)
	assert.NoError(t, err)

	// Each CJK character is two columns wide.
	expected := "2013/03/01 Ramen\n" +
		"    支出:食費      1000 JPY\n" +
		"    資産:現金     -1000 JPY"
	assert.Equal(t, expected, New(WithAmountColumn(27)).FormatEntries(entries))
}
