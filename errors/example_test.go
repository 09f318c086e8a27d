package errors_test

import (
	"context"
	"fmt"

	"github.com/robinvdvleuten/ledger/commodity"
	"github.com/robinvdvleuten/ledger/errors"
	"github.com/robinvdvleuten/ledger/ledger"
	"github.com/robinvdvleuten/ledger/parser"
)

func checked(input string) error {
	entries, err := parser.ParseString(context.Background(), commodity.NewRegistry(), input,
		parser.WithFilename("main.ledger"))
	if err != nil {
		return err
	}
	l := ledger.New()
	l.Append(entries...)
	return l.Check(context.Background())
}

// Example showing how to use TextFormatter for CLI output
func ExampleTextFormatter() {
	err := checked(`2013/03/01 Lunch
    Expenses:Food  8.00 EUR
    Assets:Cash  -7.50 EUR
`)

	formatter := errors.NewTextFormatter(nil)
	fmt.Print(formatter.Format(err))
	// Output:
	// main.ledger:1: entry does not balance (0.50 EUR)
	//
	//    2013/03/01 Lunch
	//        Expenses:Food  8.00 EUR
	//        Assets:Cash  -7.50 EUR
}

// Example showing how to use JSONFormatter for API/web output
func ExampleJSONFormatter() {
	err := checked(`2013/03/01 Lunch
    Expenses:Food  8.00 EUR
    Assets:Cash  -7.50 EUR
`)

	formatter := errors.NewJSONFormatter()
	fmt.Println(formatter.FormatAll([]error{err}))
	// Output:
	// [
	//   {
	//     "type": "ledger.EntryNotBalancedError",
	//     "message": "main.ledger:1: entry does not balance (0.50 EUR)",
	//     "position": {
	//       "filename": "main.ledger",
	//       "line": 1,
	//       "column": 1
	//     },
	//     "details": {
	//       "date": "2013/03/01",
	//       "description": "Lunch",
	//       "residuals": [
	//         "0.50 EUR"
	//       ]
	//     }
	//   }
	// ]
}
