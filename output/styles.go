// Package output styles terminal output for the ledger commands.
//
// Colors degrade with the capabilities of the writer: when the writer is not
// a terminal every helper returns its input unchanged.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// Styles renders styled strings for a single writer.
type Styles struct {
	output *termenv.Output
}

// Option configures Styles.
type Option func(*[]termenv.OutputOption)

// WithProfile forces a color profile instead of detecting one from the writer.
func WithProfile(profile termenv.Profile) Option {
	return func(opts *[]termenv.OutputOption) {
		*opts = append(*opts, termenv.WithProfile(profile))
	}
}

// NewStyles creates Styles for w.
func NewStyles(w io.Writer, opts ...Option) *Styles {
	var outputOpts []termenv.OutputOption
	for _, opt := range opts {
		opt(&outputOpts)
	}
	return &Styles{output: termenv.NewOutput(w, outputOpts...)}
}

func (s *Styles) color(text, color string) termenv.Style {
	return s.output.String(text).Foreground(s.output.Color(color))
}

// Success is green and bold.
func (s *Styles) Success(text string) string {
	return s.color(text, "2").Bold().String()
}

// Error is red and bold.
func (s *Styles) Error(text string) string {
	return s.color(text, "1").Bold().String()
}

// Warning is yellow and bold.
func (s *Styles) Warning(text string) string {
	return s.color(text, "3").Bold().String()
}

// FilePath is cyan.
func (s *Styles) FilePath(text string) string {
	return s.color(text, "6").String()
}

// Account is blue.
func (s *Styles) Account(text string) string {
	return s.color(text, "4").String()
}

// Date is cyan.
func (s *Styles) Date(text string) string {
	return s.color(text, "6").String()
}

// Amount renders a formatted amount. Negative amounts are red.
func (s *Styles) Amount(text string, negative bool) string {
	if negative {
		return s.color(text, "1").String()
	}
	return s.output.String(text).String()
}

// Commodity is magenta.
func (s *Styles) Commodity(text string) string {
	return s.color(text, "5").String()
}

// Keyword is bold.
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).Bold().String()
}

// Dim is used for secondary information.
func (s *Styles) Dim(text string) string {
	return s.output.String(text).Faint().String()
}

// Timing renders a duration. Slow operations are red.
func (s *Styles) Timing(text string, slow bool) string {
	if slow {
		return s.color(text, "1").String()
	}
	return s.Dim(text)
}

// Output returns the underlying termenv output.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
