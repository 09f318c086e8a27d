package ledger

import (
	"strings"
	"time"

	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
)

// Account is a colon-delimited account path evaluated against a ledger.
//
// Nothing is cached: every method looks at the ledger's current entries.
type Account struct {
	ledger *Ledger
	path   string
}

// Path returns the full account path, e.g. "Assets:Bank:Checking".
func (a Account) Path() string {
	return a.path
}

func (a Account) String() string {
	return a.path
}

// Name returns the last segment of the path.
func (a Account) Name() string {
	if i := strings.LastIndexByte(a.path, ':'); i >= 0 {
		return a.path[i+1:]
	}
	return a.path
}

// Depth returns the number of path segments.
func (a Account) Depth() int {
	return strings.Count(a.path, ":") + 1
}

// Parent returns the account one segment up. Top-level accounts have none.
func (a Account) Parent() (Account, bool) {
	i := strings.LastIndexByte(a.path, ':')
	if i < 0 {
		return Account{}, false
	}
	return Account{ledger: a.ledger, path: a.path[:i]}, true
}

// Ancestors returns all accounts above this one, nearest first.
func (a Account) Ancestors() []Account {
	var ancestors []Account
	for p, ok := a.Parent(); ok; p, ok = p.Parent() {
		ancestors = append(ancestors, p)
	}
	return ancestors
}

// Children returns the accounts of the ledger exactly one segment below
// this one.
func (a Account) Children() []Account {
	var children []Account
	for _, candidate := range a.ledger.Accounts() {
		if p, ok := candidate.Parent(); ok && p.path == a.path {
			children = append(children, candidate)
		}
	}
	return children
}

// Exists reports whether the ledger references the account or one of its
// sub-accounts.
func (a Account) Exists() bool {
	for _, e := range a.ledger.entries {
		if e.Touches(a.path) {
			return true
		}
	}
	return false
}

// Entries returns the entries with a transaction on this account or one of
// its sub-accounts.
func (a Account) Entries() []*ast.Entry {
	var entries []*ast.Entry
	for _, e := range a.ledger.entries {
		if e.Touches(a.path) {
			entries = append(entries, e)
		}
	}
	return entries
}

// Balance sums the transactions on this account and its sub-accounts. A
// transaction without an amount counts as its entry's null amount. An
// account without transactions balances to the zero amount without
// commodity; transactions in more than one commodity cannot be summed and
// return an error, see Totals.
func (a Account) Balance() (amount.Amount, error) {
	var partials []amount.Amount
	for _, e := range a.Entries() {
		partial, err := e.AmountTo(a.path)
		if err != nil {
			return amount.Amount{}, err
		}
		partials = append(partials, partial)
	}
	return amount.Sum(partials...)
}

// Totals is like Balance but keeps one sum per commodity.
func (a Account) Totals() (Totals, error) {
	totals := Totals{}
	for _, e := range a.Entries() {
		for _, t := range e.Transactions {
			if !ast.MatchesAccount(t.Account, a.path) {
				continue
			}
			amt, err := e.AmountOf(t)
			if err != nil {
				return nil, err
			}
			totals.Add(amt)
		}
	}
	return totals, nil
}

// Split moves part of a posted amount to or from another account.
type Split struct {
	Account string
	Amount  amount.Amount
}

// Post appends an entry moving amt into this account and balancing it
// against the account named against. A nil date means today.
func (a Account) Post(date *ast.Date, amt amount.Amount, against string) *ast.Entry {
	e := a.newEntry(date, amt)
	e.Transactions = append(e.Transactions, ast.NewTransaction(against, ast.WithAmount(amt.Neg())))
	a.ledger.Append(e)
	return e
}

// PostSplit appends an entry moving amt into this account, balanced by the
// negated amount of every split.
//
//	checking.PostSplit(nil, amount.MustParse(reg, "100 EUR"),
//	    ledger.Split{Account: "Income:Sales", Amount: amount.MustParse(reg, "84.03 EUR")},
//	    ledger.Split{Account: "Liabilities:VAT", Amount: amount.MustParse(reg, "15.97 EUR")},
//	)
func (a Account) PostSplit(date *ast.Date, amt amount.Amount, splits ...Split) (*ast.Entry, error) {
	if len(splits) == 0 {
		return nil, ErrNoSplits
	}

	e := a.newEntry(date, amt)
	for _, s := range splits {
		e.Transactions = append(e.Transactions, ast.NewTransaction(s.Account, ast.WithAmount(s.Amount.Neg())))
	}
	a.ledger.Append(e)
	return e, nil
}

func (a Account) newEntry(date *ast.Date, amt amount.Amount) *ast.Entry {
	if date == nil {
		date = ast.NewDateFromTime(time.Now())
	}
	return ast.NewEntry(date, ast.WithTransactions(
		ast.NewTransaction(a.path, ast.WithAmount(amt)),
	))
}
