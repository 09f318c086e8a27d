// Package ast declares the types used to represent ledger files.
//
// A ledger file is a sequence of entries. Each entry is a dated double-entry
// record grouping the transactions (account movements) that must net to zero:
//
//	2013/03/01 * (INV-42) Office supplies
//	    Expenses:Office  12.50 EUR
//	    Assets:Bank:Checking
//
// Entries are created by the parser package or built programmatically with
// NewEntry and NewTransaction, and written back out by the formatter package.
package ast

import (
	"fmt"
	"strings"
	"time"

	"github.com/robinvdvleuten/ledger/amount"
)

// DateLayout is the textual form of dates in a ledger file.
const DateLayout = "2006/01/02"

// Date represents a calendar date written as YYYY/MM/DD.
type Date struct {
	time.Time
}

// String formats the date as YYYY/MM/DD.
func (d *Date) String() string {
	if d == nil {
		return ""
	}
	return d.Format(DateLayout)
}

// IsZero returns true if the Date is nil or represents the zero time.
// This method is nil-safe to prevent panics when repr or other libraries
// check if fields are zero-valued.
func (d *Date) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Time.IsZero()
}

// Transaction is a single account movement within an entry.
type Transaction struct {
	Pos     Position
	Account string

	// Amount is nil for the balancing transaction whose amount is
	// inferred from the other transactions of the entry.
	Amount *amount.Amount

	Note string
}

// HasAmount reports whether the transaction carries an explicit amount.
func (t *Transaction) HasAmount() bool {
	return t.Amount != nil
}

// Entry is a dated double-entry record.
//
// Entries are mutable so edit workflows can change any field after
// construction.
type Entry struct {
	Pos           Position
	Date          *Date
	EffectiveDate *Date
	Flag          string // "*", "!" or empty
	Code          string
	Description   string
	Transactions  []*Transaction

	id    int
	hasID bool
}

// ID returns the index assigned by an entry collection, if any.
func (e *Entry) ID() (int, bool) {
	return e.id, e.hasID
}

// AssignID sets the collection index of the entry.
func (e *Entry) AssignID(id int) {
	e.id, e.hasID = id, true
}

// ClearID removes the collection index of the entry.
func (e *Entry) ClearID() {
	e.id, e.hasID = 0, false
}

// Accounts returns the accounts referenced by the entry's transactions in
// order of appearance.
func (e *Entry) Accounts() []string {
	accounts := make([]string, len(e.Transactions))
	for i, t := range e.Transactions {
		accounts[i] = t.Account
	}
	return accounts
}

// Touches reports whether any transaction of the entry references account
// or one of its sub-accounts.
func (e *Entry) Touches(account string) bool {
	for _, t := range e.Transactions {
		if MatchesAccount(t.Account, account) {
			return true
		}
	}
	return false
}

// MatchesAccount reports whether name is account itself or one of its
// sub-accounts.
func MatchesAccount(name, account string) bool {
	return name == account || strings.HasPrefix(name, account+":")
}

// MultipleNullAmountsError is returned when more than one transaction of an
// entry omits its amount.
type MultipleNullAmountsError struct {
	Pos   Position
	Date  *Date
	Count int
}

func (e *MultipleNullAmountsError) Error() string {
	location := e.Date.String()
	if !e.Pos.IsZero() {
		location = fmt.Sprintf("%s:%d", e.Pos.Filename, e.Pos.Line)
	}
	return fmt.Sprintf("%s: only one transaction with null amount is allowed (found %d)", location, e.Count)
}

func (e *MultipleNullAmountsError) GetPosition() Position {
	return e.Pos
}
