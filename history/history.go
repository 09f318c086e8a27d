// Package history remembers which statement rows were imported so that
// importing the same statement twice does not duplicate entries.
//
// Imported entries are identified by a fingerprint over their date,
// description and transactions, stored in a SQLite database.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/robinvdvleuten/ledger/ast"
)

const schema = `
CREATE TABLE IF NOT EXISTS imports (
    fingerprint TEXT PRIMARY KEY,
    entry_date TEXT NOT NULL,        -- YYYY/MM/DD
    description TEXT NOT NULL,
    ledger_file TEXT NOT NULL,
    imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_imports_ledger_file
    ON imports(ledger_file);
`

// Record is one imported entry.
type Record struct {
	Fingerprint string
	Date        string
	Description string
	LedgerFile  string
	ImportedAt  time.Time
}

// Store is the import history database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Fingerprint identifies an entry by its date, description and
// transactions. Amounts contribute their exact quantity and commodity, so
// display precision does not matter.
func Fingerprint(e *ast.Entry) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", e.Date, e.Description)
	for _, t := range e.Transactions {
		fmt.Fprintf(h, "%s\x00", t.Account)
		if t.Amount != nil {
			fmt.Fprintf(h, "%s %s", t.Amount.Quantity().String(), t.Amount.Commodity())
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Seen reports whether e was imported before.
func (s *Store) Seen(ctx context.Context, e *ast.Entry) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM imports WHERE fingerprint = ?`, Fingerprint(e),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check import history: %w", err)
	}
	return count > 0, nil
}

// Filter returns the entries that were not imported before, in order.
func (s *Store) Filter(ctx context.Context, entries []*ast.Entry) ([]*ast.Entry, error) {
	var fresh []*ast.Entry
	for _, e := range entries {
		seen, err := s.Seen(ctx, e)
		if err != nil {
			return nil, err
		}
		if !seen {
			fresh = append(fresh, e)
		}
	}
	return fresh, nil
}

// Record marks entries as imported into ledgerFile. Entries recorded
// before are left untouched.
func (s *Store) Record(ctx context.Context, ledgerFile string, entries ...*ast.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO imports (fingerprint, entry_date, description, ledger_file)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(fingerprint) DO NOTHING
		`, Fingerprint(e), e.Date.String(), e.Description, ledgerFile)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record import: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Records lists the imports into ledgerFile, newest entry date first.
func (s *Store) Records(ctx context.Context, ledgerFile string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fingerprint, entry_date, description, ledger_file, imported_at
		FROM imports
		WHERE ledger_file = ?
		ORDER BY entry_date DESC, description
	`, ledgerFile)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Fingerprint, &r.Date, &r.Description, &r.LedgerFile, &r.ImportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
