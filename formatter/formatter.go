// Package formatter writes entries back out in ledger file syntax.
//
// The output is accepted by the parser package, so formatting parsed entries
// reproduces canonical input byte for byte:
//
//	2013/03/01=2013/03/05 * (INV-42) Office supplies
//	    Expenses:Office  12.50 EUR  ; paper
//	    Assets:Bank:Checking
//
// Amounts are separated from account names by two spaces, or right-aligned
// to a column when one is configured.
package formatter

import (
	"context"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/telemetry"
)

const (
	// DefaultIndentation is the indentation of transaction lines.
	DefaultIndentation = 4

	// MinimumSpacing is the minimum number of spaces between fields of a
	// transaction line. The parser needs at least two.
	MinimumSpacing = 2
)

// Formatter renders entries.
type Formatter struct {
	// Indentation is the number of spaces before each transaction line.
	Indentation int

	// AmountColumn is the display column amounts are right-aligned to. If 0,
	// amounts follow the account after MinimumSpacing spaces.
	AmountColumn int

	// AutoAlign computes AmountColumn from the widest transaction line.
	AutoAlign bool
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithIndentation sets the indentation of transaction lines.
func WithIndentation(n int) Option {
	return func(f *Formatter) {
		f.Indentation = n
	}
}

// WithAmountColumn right-aligns amounts so they end at col.
func WithAmountColumn(col int) Option {
	return func(f *Formatter) {
		f.AmountColumn = col
	}
}

// WithAutoAlign aligns all amounts to the widest transaction line.
func WithAutoAlign() Option {
	return func(f *Formatter) {
		f.AutoAlign = true
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		Indentation: DefaultIndentation,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.Indentation < 1 {
		f.Indentation = 1
	}

	return f
}

// Format writes entries separated by blank lines, followed by a final
// newline. Nothing is written for an empty list.
func (f *Formatter) Format(ctx context.Context, entries []*ast.Entry, w io.Writer) error {
	timer := telemetry.FromContext(ctx).Start("formatter.format")
	defer timer.End()

	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if err := e.ValidateHeader(); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, f.FormatEntries(entries)+"\n")
	return err
}

// FormatEntries renders entries separated by blank lines, without a trailing
// newline.
func (f *Formatter) FormatEntries(entries []*ast.Entry) string {
	column := f.AmountColumn
	if f.AutoAlign && column == 0 {
		column = f.widestLine(entries)
	}

	var buf strings.Builder
	for i, e := range entries {
		if i > 0 {
			buf.WriteString("\n\n")
		}
		f.formatEntry(e, column, &buf)
	}
	return buf.String()
}

// FormatEntry renders a single entry without a trailing newline.
func (f *Formatter) FormatEntry(e *ast.Entry) string {
	var buf strings.Builder
	f.formatEntry(e, f.AmountColumn, &buf)
	return buf.String()
}

func (f *Formatter) formatEntry(e *ast.Entry, column int, buf *strings.Builder) {
	buf.WriteString(e.Date.String())
	if e.EffectiveDate != nil {
		buf.WriteByte('=')
		buf.WriteString(e.EffectiveDate.String())
	}
	if e.Flag != "" {
		buf.WriteByte(' ')
		buf.WriteString(e.Flag)
	}
	if e.Code != "" {
		buf.WriteString(" (")
		buf.WriteString(e.Code)
		buf.WriteByte(')')
	}
	if e.Description != "" {
		buf.WriteByte(' ')
		buf.WriteString(e.Description)
	}

	for _, t := range e.Transactions {
		buf.WriteByte('\n')
		f.formatTransaction(t, column, buf)
	}
}

func (f *Formatter) formatTransaction(t *ast.Transaction, column int, buf *strings.Builder) {
	buf.WriteString(strings.Repeat(" ", f.Indentation))
	buf.WriteString(t.Account)

	if t.Amount != nil {
		amount := t.Amount.String()
		used := f.Indentation + runewidth.StringWidth(t.Account)

		padding := column - used - runewidth.StringWidth(amount)
		if padding < MinimumSpacing {
			padding = MinimumSpacing
		}
		buf.WriteString(strings.Repeat(" ", padding))
		buf.WriteString(amount)
	}

	if t.Note != "" {
		buf.WriteString("  ; ")
		buf.WriteString(t.Note)
	}
}

// widestLine returns the display width of the longest account and amount
// pair, which becomes the alignment column.
func (f *Formatter) widestLine(entries []*ast.Entry) int {
	width := 0
	for _, e := range entries {
		for _, t := range e.Transactions {
			if t.Amount == nil {
				continue
			}
			w := f.Indentation + runewidth.StringWidth(t.Account) + MinimumSpacing +
				runewidth.StringWidth(t.Amount.String())
			width = max(width, w)
		}
	}
	return width
}
