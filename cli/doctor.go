package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/ledger/config"
	"github.com/robinvdvleuten/ledger/history"
	"github.com/robinvdvleuten/ledger/output"
)

// DoctorCmd provides doctor utilities for debugging ledger files.
type DoctorCmd struct {
	Parse   ParseCmd   `cmd:"" help:"Show the parsed entries of a ledger file."`
	Config  ConfigCmd  `cmd:"" help:"Show the effective configuration and resolved paths."`
	History HistoryCmd `cmd:"" help:"List the statement rows imported into the ledger."`
}

// ParseCmd dumps the parsed entries of a ledger file.
type ParseCmd struct {
	File FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the default ledger)." arg:"" optional:""`
}

// Run executes the parse command.
func (cmd *ParseCmd) Run(ctx *kong.Context, globals *Globals) error {
	l, err := openLedger(context.Background(), ctx, globals, &cmd.File)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.Stdout, repr.String(l.Entries(), repr.Indent("  ")))
	return nil
}

// ConfigCmd shows where configuration and data are read from.
type ConfigCmd struct{}

// Run executes the config command.
func (cmd *ConfigCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}
	styles := output.NewStyles(ctx.Stdout)

	configPath := globals.Config
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	ledgerFile, err := globals.LedgerFile()
	switch {
	case errors.Is(err, config.ErrNoLedgerFile):
		ledgerFile = styles.Warning("not configured")
	case err != nil:
		return err
	default:
		ledgerFile = styles.FilePath(ledgerFile)
	}

	_, _ = fmt.Fprintf(ctx.Stdout, "%s %s\n", styles.Keyword("config: "), styles.FilePath(configPath))
	_, _ = fmt.Fprintf(ctx.Stdout, "%s %s\n", styles.Keyword("ledger: "), ledgerFile)
	_, _ = fmt.Fprintf(ctx.Stdout, "%s %s\n", styles.Keyword("history:"), styles.FilePath(cfg.HistoryPath()))
	_, _ = fmt.Fprintln(ctx.Stdout)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, _ = ctx.Stdout.Write(data)
	return nil
}

// HistoryCmd lists the import history of the ledger.
type HistoryCmd struct{}

// Run executes the history command.
func (cmd *HistoryCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}
	ledgerFile, err := globals.LedgerFile()
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.Records(context.Background(), ledgerFile)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		printInfof(ctx.Stdout, "No imports recorded for %s", pathStyle.Render(ledgerFile))
		return nil
	}

	styles := output.NewStyles(ctx.Stdout)
	for _, r := range records {
		_, _ = fmt.Fprintf(ctx.Stdout, "%s %s  %s\n",
			styles.Date(r.Date), r.Description, styles.Dim(r.Fingerprint[:12]))
	}
	return nil
}
