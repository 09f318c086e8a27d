// Package cli implements the ledger command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/robinvdvleuten/ledger/config"
	"github.com/robinvdvleuten/ledger/ledger"
	"github.com/robinvdvleuten/ledger/loader"
	"github.com/robinvdvleuten/ledger/output"
	"github.com/robinvdvleuten/ledger/telemetry"
)

const stdinFilename = "<stdin>"

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		successStyle.Render(successSymbol),
		message,
	)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		errorStyle.Render(errorSymbol),
		errorStyle.Render(message),
	)
}

func printInfof(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		infoStyle.Render(infoSymbol),
		fmt.Sprintf(format, args...),
	)
}

// promptYesNo prompts the user with a yes/no question.
// Returns false if stdin is not a terminal.
func promptYesNo(question string) (bool, error) {
	if !isTerminal() {
		return false, nil
	}

	var confirm bool

	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	return confirm, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// FileOrStdin accepts either a file path or "-" for stdin.
// For stdin: Filename="<stdin>", Contents populated.
// For files: Filename set, Contents nil (read when loading).
type FileOrStdin struct {
	Filename string
	Contents []byte
}

// Decode implements kong.MapperValue.
func (f *FileOrStdin) Decode(ctx *kong.DecodeContext) error {
	var filename string
	if err := ctx.Scan.PopValueInto("filename", &filename); err != nil {
		return err
	}

	if filename == "-" {
		contents, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		f.Filename = stdinFilename
		f.Contents = contents
		return nil
	}

	f.Filename = filename
	f.Contents = nil
	return nil
}

// IsStdin reports whether the ledger was read from stdin.
func (f *FileOrStdin) IsStdin() bool {
	return f.Filename == stdinFilename
}

// Globals defines global flags available to all commands.
type Globals struct {
	File      string `help:"Ledger file. Defaults to accounting.default_ledger_file, $LEDGER_FILE or the --file line of ~/.ledgerrc." short:"f" type:"path"`
	Config    string `help:"Configuration file (default: $LEDGER_CONFIG or ~/.config/ledger/config.yaml)." type:"path"`
	Telemetry bool   `help:"Show timing telemetry for operations."`

	cfg *config.Config `kong:"-"`
}

// LoadConfig loads the configuration file once per invocation.
func (g *Globals) LoadConfig() (*config.Config, error) {
	if g.cfg != nil {
		return g.cfg, nil
	}
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	g.cfg = cfg
	return cfg, nil
}

// LedgerFile returns the absolute path of the ledger to operate on.
func (g *Globals) LedgerFile() (string, error) {
	if g.File != "" {
		return filepath.Abs(g.File)
	}
	cfg, err := g.LoadConfig()
	if err != nil {
		return "", err
	}
	return cfg.DefaultLedgerFile()
}

// startTelemetry returns a context carrying a timing collector when
// --telemetry is set. The returned function ends the root timer and prints
// the report to stderr; it is safe to call more than once.
func (g *Globals) startTelemetry(ctx *kong.Context, name string) (context.Context, func()) {
	runCtx := context.Background()
	if !g.Telemetry {
		return runCtx, func() {}
	}

	collector := telemetry.NewCollector()
	runCtx = telemetry.WithCollector(runCtx, collector)
	timer := collector.Start(name)

	var once sync.Once
	return runCtx, func() {
		once.Do(func() {
			timer.End()
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
		})
	}
}

// loadedLedger is a ledger together with the source it was parsed from.
type loadedLedger struct {
	*ledger.Ledger
	source []byte
}

// openLedger loads the ledger named by file, or the default ledger when file
// is nil or empty. Errors are rendered to stderr with source context and
// reported as a CommandError.
func openLedger(runCtx context.Context, ctx *kong.Context, globals *Globals, file *FileOrStdin) (*loadedLedger, error) {
	cfg, err := globals.LoadConfig()
	if err != nil {
		return nil, err
	}
	reg := cfg.NewRegistry()

	if file != nil && file.IsStdin() {
		l := ledger.New(ledger.WithRegistry(reg), ledger.WithFilename(stdinFilename))
		if _, err := l.Parse(runCtx, string(file.Contents)); err != nil {
			return nil, reportLoadError(ctx, err, file.Contents)
		}
		return &loadedLedger{Ledger: l, source: file.Contents}, nil
	}

	var filename string
	if file != nil {
		filename = file.Filename
	}
	if filename == "" {
		if filename, err = globals.LedgerFile(); err != nil {
			return nil, err
		}
	}

	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	source, err := os.ReadFile(abs)
	if err != nil {
		return nil, &loader.IOError{Op: "read", Path: filename, Err: err}
	}

	l := ledger.New(ledger.WithRegistry(reg), ledger.WithFilename(abs))
	result, err := loader.New(loader.WithRegistry(reg)).LoadBytes(runCtx, abs, source)
	if err != nil {
		return nil, reportLoadError(ctx, err, source)
	}
	l.Append(result.Entries...)
	telemetry.Count(runCtx, "entries", len(result.Entries))

	return &loadedLedger{Ledger: l, source: source}, nil
}

func reportLoadError(ctx *kong.Context, err error, source []byte) error {
	_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(source).Render(err))
	_, _ = fmt.Fprintln(ctx.Stderr)
	printError(ctx.Stderr, "parse error")
	return NewCommandError(1)
}
