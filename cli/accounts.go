package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/ledger/output"
)

type AccountsCmd struct {
	File     FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the default ledger)." short:"i" name:"input" optional:""`
	Accounts []string    `help:"Only list these accounts and their sub-accounts." arg:"" optional:""`
	Tree     bool        `help:"Indent accounts by depth, showing their last segment only."`
}

func (cmd *AccountsCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := globals.startTelemetry(ctx, "accounts")
	defer report()

	l, err := openLedger(runCtx, ctx, globals, &cmd.File)
	if err != nil {
		return err
	}

	styles := output.NewStyles(ctx.Stdout)
	for _, account := range l.Accounts() {
		if !selectAccount(account.Path(), cmd.Accounts) {
			continue
		}
		label := account.Path()
		if cmd.Tree {
			label = strings.Repeat("  ", account.Depth()-1) + account.Name()
		}
		_, _ = fmt.Fprintln(ctx.Stdout, styles.Account(label))
	}
	return nil
}
