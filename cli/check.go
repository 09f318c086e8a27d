package cli

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	ledgererrors "github.com/robinvdvleuten/ledger/errors"
)

type CheckCmd struct {
	File FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the default ledger)." arg:"" optional:""`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := globals.startTelemetry(ctx, fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))
	defer report()

	l, err := openLedger(runCtx, ctx, globals, &cmd.File)
	if err != nil {
		return err
	}

	if err := l.Check(runCtx); err != nil {
		errs := ledgererrors.Flatten(err)
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(l.source).RenderAll(errs))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d validation error(s) found", len(errs)))
		return NewCommandError(1)
	}

	printSuccess(ctx.Stdout, "Check passed")
	return nil
}
