// Package parser reads ledger files into entries.
//
// The format is line oriented:
//
//	; a comment
//	DATE[=EFFECTIVE_DATE][ FLAG][ (CODE)][ DESCRIPTION]
//	 ACCOUNT[  AMOUNT][  ; NOTE]
//
// Dates are written YYYY/MM/DD and FLAG is "*" or "!". Transaction lines start
// with at least one space and separate their fields with two or more spaces,
// since account names and amounts may contain single spaces. A transaction
// without an amount balances its entry.
//
// Amounts are parsed with the amount package against a caller-supplied
// commodity registry, which records the style of every commodity seen.
package parser

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/commodity"
	"github.com/robinvdvleuten/ledger/telemetry"
)

const (
	datePattern = `\d{4}/\d{2}/\d{2}`
	wordPattern = `(?:[^ ]|.[^ ])+`
)

var (
	headerRegex = regexp.MustCompile(
		`^(` + datePattern + `)(?:=(` + datePattern + `))?(?: ([*!]))?(?: \(([^)]+)\))?(?: (.*))?$`)

	// The amount may not start with ';' so a note can follow the account
	// directly.
	transactionRegex = regexp.MustCompile(
		`^ +(` + wordPattern + `)(?:  +([^; ](?:[^ ]|.[^ ])*))?(?:  +;(.*)| *)?$`)
)

// maxLineLength bounds a single line of input.
const maxLineLength = 1 << 20

// Parser parses ledger text. A Parser holds no per-call state and may be
// reused.
type Parser struct {
	registry    *commodity.Registry
	filename    string
	amountFlags amount.ParseFlags
}

// Option configures a Parser.
type Option func(*Parser)

// WithFilename sets the filename reported in positions and errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithAmountFlags sets the flags used when parsing transaction amounts.
func WithAmountFlags(flags amount.ParseFlags) Option {
	return func(p *Parser) {
		p.amountFlags = flags
	}
}

// New creates a parser that records commodities in reg. A nil registry
// gets a fresh one.
func New(reg *commodity.Registry, opts ...Option) *Parser {
	if reg == nil {
		reg = commodity.NewRegistry()
	}
	p := &Parser{registry: reg}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses ledger text from r with a new Parser.
func Parse(ctx context.Context, reg *commodity.Registry, r io.Reader, opts ...Option) ([]*ast.Entry, error) {
	return New(reg, opts...).Parse(ctx, r)
}

// ParseString parses ledger text from a string.
func ParseString(ctx context.Context, reg *commodity.Registry, str string, opts ...Option) ([]*ast.Entry, error) {
	return New(reg, opts...).Parse(ctx, strings.NewReader(str))
}

// ParseBytes parses ledger text from bytes.
func ParseBytes(ctx context.Context, reg *commodity.Registry, data []byte, opts ...Option) ([]*ast.Entry, error) {
	return New(reg, opts...).Parse(ctx, bytes.NewReader(data))
}

// Parse reads r to the end and returns the entries in input order. Parsing is
// all or nothing: on error no entries are returned and the registry is reset
// to its state before the call.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (_ []*ast.Entry, err error) {
	timer := telemetry.FromContext(ctx).Start("parser.parse")
	defer timer.End()

	checkpoint := p.registry.Checkpoint()
	defer func() {
		if err != nil {
			p.registry.Restore(checkpoint)
		}
	}()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var (
		entries []*ast.Entry
		current *ast.Entry
		lineno  int
	)

	for scanner.Scan() {
		lineno++
		if lineno%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		switch c := line[0]; {
		case c == ';':
			continue

		case c >= '0' && c <= '9':
			entry, err := p.parseHeader(line, lineno)
			if err != nil {
				return nil, err
			}
			if current != nil {
				entries = append(entries, current)
			}
			current = entry

		case c == ' ':
			trimmed := strings.TrimLeft(line, " ")
			if trimmed == "" {
				continue
			}
			if current == nil {
				return nil, p.errorf(lineno, 1, line, ErrOrphanTransaction, "transaction without a preceding entry")
			}
			if trimmed[0] == ';' {
				continue
			}

			txn, err := p.parseTransaction(line, lineno)
			if err != nil {
				return nil, err
			}
			current.Transactions = append(current.Transactions, txn)

		default:
			return nil, p.errorf(lineno, 1, line, ErrMalformedLine, "unmatched input")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", p.displayName(), err)
	}

	if current != nil {
		entries = append(entries, current)
	}
	return entries, nil
}

func (p *Parser) parseHeader(line string, lineno int) (*ast.Entry, error) {
	m := headerRegex.FindStringSubmatchIndex(line)
	if m == nil {
		return nil, p.errorf(lineno, 1, line, ErrMalformedLine, "invalid entry")
	}
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return line[m[2*i]:m[2*i+1]]
	}

	date, err := ast.NewDate(group(1))
	if err != nil {
		return nil, p.errorf(lineno, 1, line, err, "%v", err)
	}

	entry := ast.NewEntry(date,
		ast.WithFlag(group(3)),
		ast.WithCode(group(4)),
		ast.WithDescription(group(5)),
	)
	entry.Pos = p.position(lineno, 1)

	if edate := group(2); edate != "" {
		effective, err := ast.NewDate(edate)
		if err != nil {
			return nil, p.errorf(lineno, column(line, m[4]), line, err, "effective %v", err)
		}
		entry.EffectiveDate = effective
	}

	return entry, nil
}

func (p *Parser) parseTransaction(line string, lineno int) (*ast.Transaction, error) {
	m := transactionRegex.FindStringSubmatchIndex(line)
	if m == nil {
		return nil, p.errorf(lineno, 1, line, ErrMalformedLine, "invalid transaction")
	}

	txn := ast.NewTransaction(line[m[2]:m[3]])
	txn.Pos = p.position(lineno, column(line, m[2]))

	if m[4] >= 0 {
		text := line[m[4]:m[5]]
		a, err := amount.Parse(p.registry, text, amount.WithFlags(p.amountFlags))
		if err != nil {
			return nil, p.errorf(lineno, column(line, m[4]), line, err, "invalid amount: %v", err)
		}
		txn.Amount = &a
	}

	if m[6] >= 0 {
		txn.Note = strings.TrimSpace(line[m[6]:m[7]])
	}

	return txn, nil
}

func (p *Parser) position(line, col int) ast.Position {
	return ast.Position{Filename: p.filename, Line: line, Column: col}
}

func (p *Parser) errorf(line, col int, text string, underlying error, format string, args ...any) *ParseError {
	return &ParseError{
		Pos:        p.position(line, col),
		Text:       text,
		Message:    fmt.Sprintf(format, args...),
		Underlying: underlying,
	}
}

func (p *Parser) displayName() string {
	if p.filename == "" {
		return "input"
	}
	return p.filename
}

// column converts a byte offset into a 1-indexed rune column.
func column(line string, offset int) int {
	return utf8.RuneCountInString(line[:offset]) + 1
}
