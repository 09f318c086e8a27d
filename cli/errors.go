package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	ledgererrors "github.com/robinvdvleuten/ledger/errors"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	text *ledgererrors.TextFormatter
}

// NewErrorRenderer creates a renderer with source content for context.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{
		text: ledgererrors.NewTextFormatter(nil, ledgererrors.WithSource(source)),
	}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	return style(r.text.Format(err))
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = strings.TrimSuffix(r.Render(err), "\n")
	}
	return strings.Join(parts, "\n\n")
}

// style colors a single formatted error: the message up to the first blank
// line, then dimmed context lines with a highlighted caret.
func style(formatted string) string {
	message, context, found := strings.Cut(formatted, "\n\n")

	var buf strings.Builder
	buf.WriteString(errorStyle.Render(message))
	if !found {
		return buf.String()
	}

	buf.WriteString("\n\n")
	for _, line := range strings.SplitAfter(context, "\n") {
		body := strings.TrimSuffix(line, "\n")
		if body == "" {
			buf.WriteString(line)
			continue
		}

		indent := body[:len(body)-len(strings.TrimLeft(body, " "))]
		content := body[len(indent):]
		if content == "^" {
			buf.WriteString(indent + errCaretStyle.Render(content))
		} else {
			buf.WriteString(indent + errContextStyle.Render(content))
		}
		if strings.HasSuffix(line, "\n") {
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}
