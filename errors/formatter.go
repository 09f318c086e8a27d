// Package errors renders ledger errors for different consumers.
//
// Error types live next to the code that produces them (parser, ledger,
// amount); this package only decides how they are shown:
//   - TextFormatter writes errors for the terminal, followed by the entry or
//     source lines they refer to
//   - JSONFormatter writes structured errors for the web API
package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/formatter"
	"github.com/robinvdvleuten/ledger/ledger"
	"github.com/robinvdvleuten/ledger/parser"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

type positioned interface {
	GetPosition() ast.Position
}

type withEntry interface {
	GetEntry() *ast.Entry
}

// Flatten expands errors that wrap several errors, such as
// *ledger.ValidationErrors, into their parts.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var errs []error
		for _, e := range multi.Unwrap() {
			errs = append(errs, Flatten(e)...)
		}
		return errs
	}
	return []error{err}
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	formatter     *formatter.Formatter
	sourceContent []byte
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the ledger source, used to show the lines around errors
// that only know their position.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sourceContent = source
	}
}

// NewTextFormatter creates a new text formatter. Entries are rendered with f,
// or with a default formatter when f is nil.
func NewTextFormatter(f *formatter.Formatter, opts ...TextFormatterOption) *TextFormatter {
	if f == nil {
		f = formatter.New()
	}
	tf := &TextFormatter{formatter: f}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error.
func (tf *TextFormatter) Format(err error) string {
	if _, ok := err.(interface{ Unwrap() []error }); ok {
		return tf.FormatAll(Flatten(err))
	}

	if e, ok := err.(withEntry); ok && e.GetEntry() != nil {
		return tf.formatWithEntry(err.Error(), e.GetEntry())
	}

	var perr *parser.ParseError
	if stderrors.As(err, &perr) {
		if tf.sourceContent != nil {
			return tf.formatWithSourceContext(perr.Pos, err.Error(), tf.sourceContent)
		}
		return err.Error()
	}

	if e, ok := err.(positioned); ok && tf.sourceContent != nil && !e.GetPosition().IsZero() {
		return tf.formatWithSourceContext(e.GetPosition(), err.Error(), tf.sourceContent)
	}

	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	var buf bytes.Buffer
	for i, err := range errs {
		if i > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(strings.TrimSuffix(tf.Format(err), "\n"))
	}
	return buf.String()
}

func (tf *TextFormatter) formatWithEntry(message string, e *ast.Entry) string {
	var buf bytes.Buffer
	buf.WriteString(message)
	buf.WriteString("\n\n")
	for _, line := range strings.Split(tf.formatter.FormatEntry(e), "\n") {
		buf.WriteString("   ")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.String()
}

// formatWithSourceContext shows up to two lines before and one line after
// the error line, with a caret under the error column.
func (tf *TextFormatter) formatWithSourceContext(pos ast.Position, message string, source []byte) string {
	var buf bytes.Buffer
	buf.WriteString(message)
	buf.WriteString("\n\n")

	lines := strings.Split(strings.TrimSuffix(string(source), "\n"), "\n")
	start := max(pos.Line-3, 0)
	end := min(pos.Line, len(lines)-1)

	for i := start; i <= end; i++ {
		buf.WriteString("   ")
		buf.WriteString(lines[i])
		buf.WriteByte('\n')

		if i == pos.Line-1 && pos.Column > 0 {
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", pos.Column-1))
			buf.WriteString("^\n")
		}
	}

	return buf.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Position *PositionJSON  `json:"position,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
// Errors wrapping several errors are flattened.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		for _, e := range Flatten(err) {
			result = append(result, jf.toJSON(e))
		}
	}
	return result
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    strings.TrimPrefix(fmt.Sprintf("%T", err), "*"),
		Message: err.Error(),
		Details: make(map[string]any),
	}

	if e, ok := err.(positioned); ok && !e.GetPosition().IsZero() {
		pos := e.GetPosition()
		errJSON.Position = &PositionJSON{
			Filename: pos.Filename,
			Line:     pos.Line,
			Column:   pos.Column,
		}
	}

	switch e := err.(type) {
	case *ledger.EntryNotBalancedError:
		errJSON.Details["date"] = e.Date.String()
		errJSON.Details["description"] = e.Description
		errJSON.Details["residuals"] = amountStrings(e.Residuals)
	case *ledger.InvalidEntryError:
		errJSON.Details["date"] = e.Date.String()
	case *ast.MultipleNullAmountsError:
		errJSON.Details["date"] = e.Date.String()
		errJSON.Details["count"] = e.Count
	case *parser.ParseError:
		errJSON.Details["text"] = e.Text
	case *amount.CommodityMismatchError:
		errJSON.Details["left"] = e.Left.String()
		errJSON.Details["right"] = e.Right.String()
	}

	if len(errJSON.Details) == 0 {
		errJSON.Details = nil
	}
	return errJSON
}

func amountStrings(amounts []amount.Amount) []string {
	out := make([]string, len(amounts))
	for i, a := range amounts {
		out[i] = a.String()
	}
	return out
}
