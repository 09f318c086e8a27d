package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/commodity"
)

func newEntry(t *testing.T, date, description, amt string) *ast.Entry {
	t.Helper()
	d, err := ast.NewDate(date)
	assert.NoError(t, err)
	return ast.NewEntry(d,
		ast.WithDescription(description),
		ast.WithTransactions(ast.NewTransaction("Assets:Bank",
			ast.WithAmount(amount.MustParse(commodity.NewRegistry(), amt)))),
	)
}

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFingerprint(t *testing.T) {
	a := newEntry(t, "2013/03/01", "Rent", "-1250.00 EUR")

	assert.Equal(t, Fingerprint(a), Fingerprint(newEntry(t, "2013/03/01", "Rent", "-1250.00 EUR")))
	// Display precision does not change the identity.
	assert.Equal(t, Fingerprint(a), Fingerprint(newEntry(t, "2013/03/01", "Rent", "-1250 EUR")))

	assert.NotEqual(t, Fingerprint(a), Fingerprint(newEntry(t, "2013/03/02", "Rent", "-1250.00 EUR")))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(newEntry(t, "2013/03/01", "Rent", "-1250.00 USD")))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(newEntry(t, "2013/03/01", "Rent March", "-1250.00 EUR")))
}

func TestRecordAndFilter(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	rent := newEntry(t, "2013/03/01", "Rent", "-1250.00 EUR")
	salary := newEntry(t, "2013/03/05", "Salary", "2500.00 EUR")

	seen, err := store.Seen(ctx, rent)
	assert.NoError(t, err)
	assert.False(t, seen)

	assert.NoError(t, store.Record(ctx, "/books/main.ledger", rent))
	// Recording twice is a no-op.
	assert.NoError(t, store.Record(ctx, "/books/main.ledger", rent))

	seen, err = store.Seen(ctx, rent)
	assert.NoError(t, err)
	assert.True(t, seen)

	fresh, err := store.Filter(ctx, []*ast.Entry{rent, salary})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(fresh))
	assert.Equal(t, "Salary", fresh[0].Description)

	assert.NoError(t, store.Record(ctx, "/books/main.ledger", salary))
	records, err := store.Records(ctx, "/books/main.ledger")
	assert.NoError(t, err)
	assert.Equal(t, 2, len(records))
	assert.Equal(t, "2013/03/05", records[0].Date)
	assert.Equal(t, "Rent", records[1].Description)

	records, err = store.Records(ctx, "/books/other.ledger")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(records))
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	assert.NoError(t, err)
	rent := newEntry(t, "2013/03/01", "Rent", "-1250.00 EUR")
	assert.NoError(t, store.Record(ctx, "main.ledger", rent))
	assert.NoError(t, store.Close())

	store, err = Open(path)
	assert.NoError(t, err)
	defer store.Close()
	assert.Equal(t, path, store.Path())

	seen, err := store.Seen(ctx, rent)
	assert.NoError(t, err)
	assert.True(t, seen)
}
