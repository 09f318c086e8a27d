// Package statement imports bank account statements as ledger entries.
//
// Each statement row becomes an entry with a single transaction on the bank
// account. Balancing the entry against income or expense accounts is left to
// the caller:
//
//	parser, err := statement.NewCSV(statement.CSVOptions{
//	    Account:            "Assets:Bank:Checking",
//	    Separator:          ";",
//	    FirstLineIsHeader:  true,
//	    DateFormat:         "%d.%m.%Y",
//	    DateColumn:         statement.Named("Buchungstag"),
//	    DescriptionColumn:  statement.Named("Verwendungszweck"),
//	    DebitColumn:        statement.Named("Betrag"),
//	    CreditColumn:       statement.Named("Betrag"),
//	    ThousandsSeparator: ".",
//	    Currency:           "EUR",
//	}, reg)
//	entries, err := parser.ParseFile("export.csv")
package statement

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/commodity"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/htmlindex"
)

// CSVOptions describes the layout of a CSV statement. Named formats of this
// shape are kept in the configuration file.
type CSVOptions struct {
	// Account is the ledger account of the bank account.
	Account string `yaml:"account,omitempty"`

	// FileEncoding names the character set of the file, e.g. "iso-8859-1"
	// or "windows-1252". Empty means UTF-8.
	FileEncoding string `yaml:"file_encoding,omitempty"`

	// Separator is the field separator. Defaults to ",".
	Separator string `yaml:"separator,omitempty"`

	SkipInitialRows   int  `yaml:"skip_initial_rows,omitempty"`
	SkipTrailingRows  int  `yaml:"skip_trailing_rows,omitempty"`
	FirstLineIsHeader bool `yaml:"first_line_is_header,omitempty"`

	// DescriptionIsQuoted means descriptions carry their own ' or " quotes.
	// Lines are then split on the separator as-is and the quotes are
	// stripped from the description only.
	DescriptionIsQuoted bool `yaml:"description_is_quoted,omitempty"`

	// ThousandsSeparator is "," or "." and is removed from amounts. With "."
	// the comma is taken as the decimal mark.
	ThousandsSeparator string `yaml:"thousands_separator,omitempty"`

	// DateFormat is a strftime pattern such as "%d.%m.%Y" or a Go layout.
	DateFormat string `yaml:"date_format,omitempty"`

	DateColumn        Column `yaml:"date_column"`
	DescriptionColumn Column `yaml:"description_column"`

	// DebitColumn and CreditColumn hold the amount. When they differ
	// exactly one of them may be filled per row.
	DebitColumn  Column `yaml:"debit_column"`
	CreditColumn Column `yaml:"credit_column"`

	CurrencyColumn *Column `yaml:"currency_column,omitempty"`

	// Currency is the commodity of rows without a currency column.
	Currency string `yaml:"currency,omitempty"`
}

// Merge returns o with every non-zero field of overrides applied.
func (o CSVOptions) Merge(overrides CSVOptions) CSVOptions {
	if overrides.Account != "" {
		o.Account = overrides.Account
	}
	if overrides.FileEncoding != "" {
		o.FileEncoding = overrides.FileEncoding
	}
	if overrides.Separator != "" {
		o.Separator = overrides.Separator
	}
	if overrides.SkipInitialRows != 0 {
		o.SkipInitialRows = overrides.SkipInitialRows
	}
	if overrides.SkipTrailingRows != 0 {
		o.SkipTrailingRows = overrides.SkipTrailingRows
	}
	o.FirstLineIsHeader = o.FirstLineIsHeader || overrides.FirstLineIsHeader
	o.DescriptionIsQuoted = o.DescriptionIsQuoted || overrides.DescriptionIsQuoted
	if overrides.ThousandsSeparator != "" {
		o.ThousandsSeparator = overrides.ThousandsSeparator
	}
	if overrides.DateFormat != "" {
		o.DateFormat = overrides.DateFormat
	}
	for _, c := range []struct{ dst, src *Column }{
		{&o.DateColumn, &overrides.DateColumn},
		{&o.DescriptionColumn, &overrides.DescriptionColumn},
		{&o.DebitColumn, &overrides.DebitColumn},
		{&o.CreditColumn, &overrides.CreditColumn},
	} {
		if c.src.IsSet() {
			*c.dst = *c.src
		}
	}
	if overrides.CurrencyColumn != nil {
		o.CurrencyColumn = overrides.CurrencyColumn
	}
	if overrides.Currency != "" {
		o.Currency = overrides.Currency
	}
	return o
}

// Validate reports the required options that are missing.
func (o CSVOptions) Validate() error {
	var missing []string
	if o.Account == "" {
		missing = append(missing, "account")
	}
	if o.DateFormat == "" {
		missing = append(missing, "date_format")
	}
	for _, c := range []struct {
		name   string
		column Column
	}{
		{"date_column", o.DateColumn},
		{"description_column", o.DescriptionColumn},
		{"debit_column", o.DebitColumn},
		{"credit_column", o.CreditColumn},
	} {
		if !c.column.IsSet() {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingOptions, strings.Join(missing, " "))
	}

	switch o.ThousandsSeparator {
	case "", ",", ".":
	default:
		return fmt.Errorf("unsupported thousands separator %q", o.ThousandsSeparator)
	}
	if len([]rune(o.Separator)) > 1 {
		return fmt.Errorf("separator must be a single character, got %q", o.Separator)
	}
	return nil
}

// CSV parses statements in one CSV layout.
type CSV struct {
	opts     CSVOptions
	layout   string
	registry *commodity.Registry
}

// NewCSV creates a parser for opts. Commodities of the imported amounts are
// registered in reg, which may be nil.
func NewCSV(opts CSVOptions, reg *commodity.Registry) (*CSV, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Separator == "" {
		opts.Separator = ","
	}
	if reg == nil {
		reg = commodity.NewRegistry()
	}
	return &CSV{opts: opts, layout: dateLayout(opts.DateFormat), registry: reg}, nil
}

// ParseFile parses the statement stored in filename.
func (p *CSV) ParseFile(filename string) ([]*ast.Entry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, &FileError{Filename: filename, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if p.opts.FileEncoding != "" {
		enc, err := htmlindex.Get(p.opts.FileEncoding)
		if err != nil {
			return nil, &FileError{Filename: filename, Err: fmt.Errorf("unknown file encoding %q", p.opts.FileEncoding)}
		}
		r = enc.NewDecoder().Reader(f)
	}

	entries, err := p.Parse(r)
	if err != nil {
		return nil, &FileError{Filename: filename, Err: err}
	}
	return entries, nil
}

// Parse reads a statement and returns one entry per row.
func (p *CSV) Parse(r io.Reader) ([]*ast.Entry, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var (
		header  []string
		entries []*ast.Entry
	)
	for i, line := range lines {
		rownum := i + 1
		if rownum <= p.opts.SkipInitialRows || rownum > len(lines)-p.opts.SkipTrailingRows {
			continue
		}

		values, err := p.split(line)
		if err != nil {
			return nil, &RowError{Row: rownum, Line: line, Err: err}
		}

		if p.opts.FirstLineIsHeader && header == nil {
			header = values
			continue
		}

		e, err := p.makeEntry(values, header)
		if err != nil {
			return nil, &RowError{Row: rownum, Line: line, Err: err}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (p *CSV) split(line string) ([]string, error) {
	if p.opts.DescriptionIsQuoted {
		return strings.Split(line, p.opts.Separator), nil
	}

	r := csv.NewReader(strings.NewReader(line))
	r.Comma = []rune(p.opts.Separator)[0]
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	values, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []string{""}, nil
	}
	return values, err
}

func (p *CSV) field(values, header []string, c Column) (string, error) {
	i, err := c.lookup(header)
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(values) {
		return "", fmt.Errorf("row has no column %s", c)
	}
	return values[i], nil
}

func (p *CSV) makeEntry(values, header []string) (*ast.Entry, error) {
	rawDate, err := p.field(values, header, p.opts.DateColumn)
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(p.layout, strings.TrimSpace(rawDate))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q for format %q", rawDate, p.opts.DateFormat)
	}

	description, err := p.field(values, header, p.opts.DescriptionColumn)
	if err != nil {
		return nil, err
	}
	if p.opts.DescriptionIsQuoted {
		if description, err = unquote(description); err != nil {
			return nil, err
		}
	}

	quantity, err := p.quantity(values, header)
	if err != nil {
		return nil, err
	}

	sym := commodity.Symbol(p.opts.Currency)
	if p.opts.CurrencyColumn != nil {
		currency, err := p.field(values, header, *p.opts.CurrencyColumn)
		if err != nil {
			return nil, err
		}
		sym = commodity.Symbol(strings.TrimSpace(currency))
	}

	amt, err := p.amount(quantity, sym)
	if err != nil {
		return nil, err
	}

	return ast.NewEntry(ast.NewDateFromTime(t),
		ast.WithDescription(description),
		ast.WithTransactions(ast.NewTransaction(p.opts.Account, ast.WithAmount(amt))),
	), nil
}

func (p *CSV) quantity(values, header []string) (string, error) {
	debitIndex, err := p.opts.DebitColumn.lookup(header)
	if err != nil {
		return "", err
	}
	creditIndex, err := p.opts.CreditColumn.lookup(header)
	if err != nil {
		return "", err
	}

	var quantity string
	if debitIndex != creditIndex {
		debit, err := p.field(values, header, p.opts.DebitColumn)
		if err != nil {
			return "", err
		}
		credit, err := p.field(values, header, p.opts.CreditColumn)
		if err != nil {
			return "", err
		}
		debit, credit = strings.TrimSpace(debit), strings.TrimSpace(credit)
		switch {
		case debit != "" && credit != "":
			return "", fmt.Errorf("can't find entry amount when debit (%q) and credit (%q) are both non-empty", debit, credit)
		case debit != "":
			quantity = debit
		default:
			quantity = credit
		}
	} else {
		if quantity, err = p.field(values, header, p.opts.CreditColumn); err != nil {
			return "", err
		}
	}

	quantity = strings.TrimSpace(quantity)
	switch p.opts.ThousandsSeparator {
	case ",":
		quantity = strings.ReplaceAll(quantity, ",", "")
	case ".":
		quantity = strings.ReplaceAll(quantity, ".", "")
		quantity = strings.ReplaceAll(quantity, ",", ".")
	}
	return strings.TrimPrefix(quantity, "+"), nil
}

func (p *CSV) amount(quantity string, sym commodity.Symbol) (amount.Amount, error) {
	if quantity == "" {
		return amount.Amount{}, errors.New("missing amount")
	}
	q, err := decimal.NewFromString(quantity)
	if err != nil {
		return amount.Amount{}, fmt.Errorf("invalid amount %q", quantity)
	}

	amt := amount.New(q, sym, p.registry)
	if !sym.IsNull() {
		// Statements print amounts as "12.50 EUR". New commodities adopt
		// that style; known ones keep theirs.
		var style commodity.Style
		if _, ok := p.registry.Find(sym); !ok {
			p.registry.FindOrCreate(sym)
			style = commodity.Suffixed | commodity.Separated
		}
		p.registry.Migrate(sym, style, amt.Precision())
	}
	return amt, nil
}

func unquote(s string) (string, error) {
	if s == "" || (s[0] != '"' && s[0] != '\'') {
		return "", fmt.Errorf("expected description to be quoted: %q", s)
	}
	if len(s) < 2 || s[len(s)-1] != s[0] {
		return "", fmt.Errorf("unterminated quoted description: %q", s)
	}
	return s[1 : len(s)-1], nil
}

var strftime = strings.NewReplacer(
	"%Y", "2006",
	"%y", "06",
	"%m", "01",
	"%d", "02",
	"%e", "_2",
	"%b", "Jan",
	"%B", "January",
	"%H", "15",
	"%M", "04",
	"%S", "05",
	"%%", "%",
)

// dateLayout converts a strftime pattern into a Go time layout. Patterns
// without directives are used as Go layouts.
func dateLayout(format string) string {
	if !strings.Contains(format, "%") {
		return format
	}
	return strftime.Replace(format)
}
