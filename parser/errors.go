package parser

import (
	"errors"
	"fmt"

	"github.com/robinvdvleuten/ledger/ast"
)

var (
	// ErrMalformedLine is wrapped by every ParseError caused by a line that
	// matches none of the grammar's line forms.
	ErrMalformedLine = errors.New("malformed line")

	// ErrOrphanTransaction is a malformed transaction line that appears
	// before any entry header.
	ErrOrphanTransaction = fmt.Errorf("%w: transaction outside of an entry", ErrMalformedLine)
)

// ParseError represents a syntax error during parsing.
type ParseError struct {
	Pos        ast.Position
	Text       string // the offending line
	Message    string
	Underlying error
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d", e.Pos.Filename, e.Pos.Line)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d", e.Pos.Line)
	}

	return fmt.Sprintf("%s: %s: %q", location, e.Message, e.Text)
}

func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}

func (e *ParseError) Unwrap() error {
	return e.Underlying
}
