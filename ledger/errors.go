package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
)

var (
	// ErrNoFilename is returned by Save when neither an explicit path nor a
	// loaded filename is known.
	ErrNoFilename = errors.New("no filename to save ledger to")

	ErrEntryHasID           = errors.New("entry already has an id")
	ErrEntryHasNoID         = errors.New("entry has no id")
	ErrEntryNotInCollection = errors.New("entry does not belong to this collection")

	// ErrNoSplits is returned by PostSplit without any split.
	ErrNoSplits = errors.New("at least one split is required")
)

// ValidationErrors collects every problem found by Check.
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// EntryNotBalancedError is returned when the transactions of an entry do not
// net to zero.
type EntryNotBalancedError struct {
	Pos         ast.Position
	Date        *ast.Date
	Description string
	Residuals   []amount.Amount // one non-zero sum per commodity
	Entry       *ast.Entry
}

func (e *EntryNotBalancedError) Error() string {
	residuals := make([]string, len(e.Residuals))
	for i, r := range e.Residuals {
		residuals[i] = r.String()
	}
	return fmt.Sprintf("%s: entry does not balance (%s)", location(e.Pos, e.Date), strings.Join(residuals, ", "))
}

func (e *EntryNotBalancedError) GetPosition() ast.Position {
	return e.Pos
}

func (e *EntryNotBalancedError) GetEntry() *ast.Entry {
	return e.Entry
}

// InvalidEntryError is returned when the balance of an entry cannot be
// computed at all, e.g. because its null amount would mix commodities.
type InvalidEntryError struct {
	Pos   ast.Position
	Date  *ast.Date
	Err   error
	Entry *ast.Entry
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("%s: %v", location(e.Pos, e.Date), e.Err)
}

func (e *InvalidEntryError) Unwrap() error {
	return e.Err
}

func (e *InvalidEntryError) GetPosition() ast.Position {
	return e.Pos
}

func (e *InvalidEntryError) GetEntry() *ast.Entry {
	return e.Entry
}

// location renders filename:line, falling back to the entry date for entries
// that were built in memory.
func location(pos ast.Position, date *ast.Date) string {
	if pos.Filename == "" {
		return date.String()
	}
	return fmt.Sprintf("%s:%d", pos.Filename, pos.Line)
}
