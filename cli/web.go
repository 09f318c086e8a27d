package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/robinvdvleuten/ledger/web"
)

type WebCmd struct {
	File     string `help:"Ledger file to serve (default: the default ledger)." arg:"" optional:""`
	Port     int    `help:"Port to listen on." default:"8080"`
	Create   bool   `help:"Automatically create file if it doesn't exist (no confirmation prompt)." short:"c"`
	ReadOnly bool   `help:"Enable read-only mode (no write operations allowed)." short:"r"`
	Watch    bool   `help:"Reload the ledger when the file changes on disk." default:"true" negatable:""`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := globals.startTelemetry(ctx, "web")
	defer report()

	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}

	ledgerFile := cmd.File
	if ledgerFile == "" {
		if ledgerFile, err = globals.LedgerFile(); err != nil {
			return err
		}
	}
	ledgerFile, err = filepath.Abs(ledgerFile)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if err := cmd.ensureFile(ctx, ledgerFile); err != nil {
		return err
	}

	version := Version
	if version == "" {
		version = "dev"
	}

	server := web.NewWithVersion(cmd.Port, ledgerFile, version)
	server.ReadOnly = cmd.ReadOnly
	server.WatchEnabled = cmd.Watch
	server.NewRegistry = cfg.NewRegistry
	server.Logger = log.NewWithOptions(ctx.Stderr, log.Options{Prefix: "web", ReportTimestamp: true})

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, cmd.Port)
	printInfof(ctx.Stdout, "Serving ledger: %s", pathStyle.Render(ledgerFile))

	if cmd.ReadOnly {
		printInfof(ctx.Stdout, "Server running in READ-ONLY mode")
	}

	runCtx, stop := signal.NotifyContext(runCtx, os.Interrupt)
	defer stop()

	return server.Start(runCtx)
}

func (cmd *WebCmd) ensureFile(ctx *kong.Context, ledgerFile string) error {
	_, err := os.Stat(ledgerFile)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access file: %w", err)
	}

	shouldCreate := cmd.Create
	if !shouldCreate {
		confirmed, err := promptYesNo(fmt.Sprintf("File %q does not exist. Create it?", ledgerFile))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		shouldCreate = confirmed
	}

	if !shouldCreate {
		return fmt.Errorf("file does not exist: %s", ledgerFile)
	}

	if err := os.MkdirAll(filepath.Dir(ledgerFile), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	if err := os.WriteFile(ledgerFile, []byte(""), 0600); err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	printInfof(ctx.Stdout, "Created empty ledger file: %s", pathStyle.Render(ledgerFile))
	return nil
}
