// Package ledger holds the entries of a ledger file and derives account
// balances from them.
//
// A Ledger is an ordered list of entries plus the file they were loaded
// from. Accounts are not stored: an Account is a colon-delimited path
// interpreted lazily against the ledger's current entries, so balances and
// children always reflect the latest edits.
//
// Example usage:
//
//	l, err := ledger.Load(ctx, "main.ledger")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	checking := l.Account("Assets:Bank:Checking")
//	balance, err := checking.Balance()
//
//	checking.Post(nil, amount.MustParse(l.Registry(), "-12.50 EUR"), "Expenses:Food")
//	if err := l.Save(""); err != nil {
//	    log.Fatal(err)
//	}
//
// A Ledger is not synchronized. Callers sharing one across goroutines must
// hold their own lock.
package ledger

import (
	"context"
	"strings"

	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/commodity"
	"github.com/robinvdvleuten/ledger/formatter"
	"github.com/robinvdvleuten/ledger/loader"
	"github.com/robinvdvleuten/ledger/parser"
	"github.com/robinvdvleuten/ledger/telemetry"
	"golang.org/x/exp/slices"
)

// Ledger is an ordered sequence of entries and an optional source filename.
type Ledger struct {
	entries  []*ast.Entry
	filename string
	registry *commodity.Registry
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithRegistry sets the commodity registry used to parse amounts.
func WithRegistry(reg *commodity.Registry) Option {
	return func(l *Ledger) {
		l.registry = reg
	}
}

// WithFilename sets the file the ledger is saved to by default.
func WithFilename(filename string) Option {
	return func(l *Ledger) {
		l.filename = filename
	}
}

// New creates an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{}
	for _, opt := range opts {
		opt(l)
	}
	if l.registry == nil {
		l.registry = commodity.NewRegistry()
	}
	return l
}

// Load reads filename into a new ledger and remembers the path for Save.
func Load(ctx context.Context, filename string, opts ...Option) (*Ledger, error) {
	timer := telemetry.StartTimer(ctx, "ledger.load")
	defer timer.End()

	l := New(opts...)
	result, err := loader.New(loader.WithRegistry(l.registry)).Load(ctx, filename)
	if err != nil {
		return nil, err
	}

	l.entries = result.Entries
	l.filename = result.Filename
	telemetry.Count(ctx, "entries", len(result.Entries))
	return l, nil
}

// Parse parses text and appends the resulting entries. On error nothing is
// appended and entries from earlier calls are kept.
func (l *Ledger) Parse(ctx context.Context, text string) ([]*ast.Entry, error) {
	entries, err := parser.ParseString(ctx, l.registry, text, parser.WithFilename(l.filename))
	if err != nil {
		return nil, err
	}
	l.entries = append(l.entries, entries...)
	return entries, nil
}

// Save rewrites filename with the serialized ledger. An empty filename
// saves to the file the ledger was loaded from. Nothing is written when an
// entry header could not be parsed back as written.
func (l *Ledger) Save(filename string) error {
	if filename == "" {
		filename = l.filename
	}
	if filename == "" {
		return ErrNoFilename
	}
	for _, e := range l.entries {
		if err := e.ValidateHeader(); err != nil {
			return err
		}
	}
	return loader.WriteFile(filename, []byte(l.String()+"\n"))
}

// String serializes all entries, separated by blank lines.
func (l *Ledger) String() string {
	return formatter.New().FormatEntries(l.entries)
}

// Entries returns the entries in order. The slice is shared with the ledger.
func (l *Ledger) Entries() []*ast.Entry {
	return l.entries
}

// Append adds entries at the end of the ledger.
func (l *Ledger) Append(entries ...*ast.Entry) {
	l.entries = append(l.entries, entries...)
}

// DeleteEntries removes every entry for which match returns true and returns
// the removed entries.
func (l *Ledger) DeleteEntries(match func(*ast.Entry) bool) []*ast.Entry {
	var deleted []*ast.Entry
	kept := l.entries[:0]
	for _, e := range l.entries {
		if match(e) {
			deleted = append(deleted, e)
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(l.entries); i++ {
		l.entries[i] = nil
	}
	l.entries = kept
	return deleted
}

// StartDate returns the earliest entry date, or nil for an empty ledger.
func (l *Ledger) StartDate() *ast.Date {
	var earliest *ast.Date
	for _, e := range l.entries {
		if earliest == nil || e.Date.Before(earliest.Time) {
			earliest = e.Date
		}
	}
	return earliest
}

// EndDate returns the latest entry date, or nil for an empty ledger.
func (l *Ledger) EndDate() *ast.Date {
	var latest *ast.Date
	for _, e := range l.entries {
		if latest == nil || e.Date.After(latest.Time) {
			latest = e.Date
		}
	}
	return latest
}

// Accounts returns every account referenced by a transaction together with
// all of its ancestors, sorted by path.
func (l *Ledger) Accounts() []Account {
	seen := map[string]bool{}
	for _, e := range l.entries {
		for _, t := range e.Transactions {
			path := t.Account
			for {
				if seen[path] {
					break
				}
				seen[path] = true
				i := strings.LastIndexByte(path, ':')
				if i < 0 {
					break
				}
				path = path[:i]
			}
		}
	}

	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	accounts := make([]Account, len(paths))
	for i, path := range paths {
		accounts[i] = l.Account(path)
	}
	return accounts
}

// Account returns the account view for path. The account need not exist.
func (l *Ledger) Account(path string) Account {
	return Account{ledger: l, path: path}
}

// Balance sums the balances of all top-level accounts. For a ledger of
// balanced entries in one commodity this is zero; it is reported, not
// enforced. Use Totals for ledgers holding several commodities.
func (l *Ledger) Balance() (amount.Amount, error) {
	var balances []amount.Amount
	for _, a := range l.Accounts() {
		if a.Depth() != 1 {
			continue
		}
		b, err := a.Balance()
		if err != nil {
			return amount.Amount{}, err
		}
		balances = append(balances, b)
	}
	return amount.Sum(balances...)
}

// Totals sums every transaction of the ledger per commodity.
func (l *Ledger) Totals() (Totals, error) {
	totals := Totals{}
	for _, e := range l.entries {
		for _, t := range e.Transactions {
			a, err := e.AmountOf(t)
			if err != nil {
				return nil, err
			}
			totals.Add(a)
		}
	}
	return totals, nil
}

// Registry returns the commodity registry amounts are parsed against.
func (l *Ledger) Registry() *commodity.Registry {
	return l.registry
}

// Filename returns the file the ledger was loaded from, if any.
func (l *Ledger) Filename() string {
	return l.filename
}
