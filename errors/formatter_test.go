package errors

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/commodity"
	"github.com/robinvdvleuten/ledger/ledger"
	"github.com/robinvdvleuten/ledger/parser"
)

type positionalError struct {
	pos ast.Position
	msg string
}

func (e positionalError) Error() string             { return e.msg }
func (e positionalError) GetPosition() ast.Position { return e.pos }

const unbalanced = `2013/03/01 Lunch
    Expenses:Food  8.00 EUR
    Assets:Cash

2013/03/02 Dinner
    Expenses:Food  20.00 EUR
    Assets:Cash  -10.00 EUR
`

func checkErrors(t *testing.T, input string) error {
	t.Helper()
	entries, err := parser.ParseString(context.Background(), commodity.NewRegistry(), input,
		parser.WithFilename("main.ledger"))
	assert.NoError(t, err)

	l := ledger.New()
	l.Append(entries...)
	err = l.Check(context.Background())
	assert.Error(t, err)
	return err
}

func TestTextFormatterPlainError(t *testing.T) {
	tf := NewTextFormatter(nil)

	err := positionalError{
		pos: ast.Position{Filename: "main.ledger", Line: 42},
		msg: "main.ledger:42: something went wrong",
	}
	assert.Equal(t, "main.ledger:42: something went wrong", tf.Format(err))
}

func TestTextFormatterWithEntryContext(t *testing.T) {
	tf := NewTextFormatter(nil)

	output := tf.Format(checkErrors(t, unbalanced))
	expected := "main.ledger:5: entry does not balance (10.00 EUR)\n\n" +
		"   2013/03/02 Dinner\n" +
		"       Expenses:Food  20.00 EUR\n" +
		"       Assets:Cash  -10.00 EUR\n"
	assert.Equal(t, expected, output)
}

func TestTextFormatterWithSourceContext(t *testing.T) {
	source := "2013/03/01 Lunch\n    Expenses:Food  8.00 EUR\n    Assets:Cash\n"
	tf := NewTextFormatter(nil, WithSource([]byte(source)))

	err := positionalError{
		pos: ast.Position{Filename: "main.ledger", Line: 2, Column: 5},
		msg: "main.ledger:2: unknown account",
	}
	expected := "main.ledger:2: unknown account\n\n" +
		"   2013/03/01 Lunch\n" +
		"       Expenses:Food  8.00 EUR\n" +
		"       ^\n" +
		"       Assets:Cash\n"
	assert.Equal(t, expected, tf.Format(err))
}

func TestTextFormatterParseError(t *testing.T) {
	source := "2013/03/01 Desc\n    Assets:Cash  EUR\n"
	_, err := parser.ParseString(context.Background(), commodity.NewRegistry(), source,
		parser.WithFilename("books.ledger"))
	assert.Error(t, err)

	withoutSource := NewTextFormatter(nil).Format(err)
	assert.Equal(t, err.Error(), withoutSource)

	output := NewTextFormatter(nil, WithSource([]byte(source))).Format(err)
	assert.True(t, strings.HasPrefix(output, err.Error()+"\n\n"))
	assert.True(t, strings.HasSuffix(output,
		"   2013/03/01 Desc\n"+
			"       Assets:Cash  EUR\n"+
			"                    ^\n"))
}

func TestTextFormatterFormatAll(t *testing.T) {
	tf := NewTextFormatter(nil)

	output := tf.Format(checkErrors(t, unbalanced))
	assert.Equal(t, tf.FormatAll(Flatten(checkErrors(t, unbalanced))), output)

	parts := strings.Split(tf.FormatAll(Flatten(checkErrors(t, `2013/03/01 Lunch
    Expenses:Food  8.00 EUR
    Assets:Cash
    Assets:Bank

2013/03/02 Dinner
    Expenses:Food  20.00 EUR
    Assets:Cash  -10.00 EUR
`))), "\n\n")
	assert.Equal(t, "main.ledger:1: only one transaction with null amount is allowed (found 2)", parts[0])
	assert.Equal(t, "main.ledger:6: entry does not balance (10.00 EUR)", parts[1])
	assert.Equal(t, 3, len(parts))
}

func TestFlatten(t *testing.T) {
	assert.Equal(t, 0, len(Flatten(nil)))

	single := positionalError{msg: "single"}
	assert.Equal(t, []error{single}, Flatten(single))

	verr := &ledger.ValidationErrors{Errors: []error{
		positionalError{msg: "a"},
		&ledger.ValidationErrors{Errors: []error{positionalError{msg: "b"}, positionalError{msg: "c"}}},
	}}
	flattened := Flatten(verr)
	assert.Equal(t, 3, len(flattened))
	assert.Equal(t, "c", flattened[2].Error())
}

func TestJSONFormatter(t *testing.T) {
	jf := NewJSONFormatter()

	errs := jf.FormatAllToSlice([]error{checkErrors(t, unbalanced)})
	assert.Equal(t, 1, len(errs))

	got := errs[0]
	assert.Equal(t, "ledger.EntryNotBalancedError", got.Type)
	assert.Equal(t, "main.ledger:5: entry does not balance (10.00 EUR)", got.Message)
	assert.Equal(t, &PositionJSON{Filename: "main.ledger", Line: 5, Column: 1}, got.Position)
	assert.Equal(t, "2013/03/02", got.Details["date"])
	assert.Equal(t, "Dinner", got.Details["description"])
	assert.Equal[any](t, []string{"10.00 EUR"}, got.Details["residuals"])
}

func TestJSONFormatterFormat(t *testing.T) {
	jf := NewJSONFormatter()

	var decoded ErrorJSON
	assert.NoError(t, json.Unmarshal([]byte(jf.Format(positionalError{msg: "boom"})), &decoded))
	assert.Equal(t, ErrorJSON{Type: "errors.positionalError", Message: "boom"}, decoded)

	var all []ErrorJSON
	assert.NoError(t, json.Unmarshal([]byte(jf.FormatAll([]error{checkErrors(t, unbalanced)})), &all))
	assert.Equal(t, 1, len(all))
	assert.Equal(t, "main.ledger", all[0].Position.Filename)
}
