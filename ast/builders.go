package ast

import (
	"time"

	"github.com/robinvdvleuten/ledger/amount"
)

// NewDate parses a date string in YYYY/MM/DD format and returns a Date.
// Returns an error if the string cannot be parsed as a valid date.
//
// Example:
//
//	date, err := ast.NewDate("2013/03/01")
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewDate(s string) (*Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, &InvalidDateError{Value: s}
	}
	return &Date{Time: t}, nil
}

// NewDateFromTime creates a Date from a time.Time value.
// The time is truncated to just the date portion (year, month, day).
func NewDateFromTime(t time.Time) *Date {
	y, m, d := t.Date()
	return &Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// InvalidDateError is returned by NewDate.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return "invalid date: " + e.Value
}

// EntryOption configures an Entry built with NewEntry.
type EntryOption func(*Entry)

// NewEntry creates an entry dated date.
//
// Example:
//
//	entry := ast.NewEntry(date,
//	    ast.WithFlag("*"),
//	    ast.WithDescription("Office supplies"),
//	    ast.WithTransactions(
//	        ast.NewTransaction("Expenses:Office", ast.WithAmount(amt)),
//	        ast.NewTransaction("Assets:Bank:Checking"),
//	    ),
//	)
func NewEntry(date *Date, opts ...EntryOption) *Entry {
	e := &Entry{Date: date}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithEffectiveDate sets the effective (value) date.
func WithEffectiveDate(date *Date) EntryOption {
	return func(e *Entry) {
		e.EffectiveDate = date
	}
}

// WithFlag sets the status flag ("*" or "!").
func WithFlag(flag string) EntryOption {
	return func(e *Entry) {
		e.Flag = flag
	}
}

// WithCode sets the reference code, e.g. an invoice number.
func WithCode(code string) EntryOption {
	return func(e *Entry) {
		e.Code = code
	}
}

func WithDescription(description string) EntryOption {
	return func(e *Entry) {
		e.Description = description
	}
}

// WithTransactions appends transactions to the entry.
func WithTransactions(transactions ...*Transaction) EntryOption {
	return func(e *Entry) {
		e.Transactions = append(e.Transactions, transactions...)
	}
}

// TransactionOption configures a Transaction built with NewTransaction.
type TransactionOption func(*Transaction)

// NewTransaction creates a movement on account. Without WithAmount the
// transaction balances the entry it belongs to.
func NewTransaction(account string, opts ...TransactionOption) *Transaction {
	t := &Transaction{Account: account}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func WithAmount(a amount.Amount) TransactionOption {
	return func(t *Transaction) {
		t.Amount = &a
	}
}

func WithNote(note string) TransactionOption {
	return func(t *Transaction) {
		t.Note = note
	}
}
