package cli

import (
	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/formatter"
)

type PrintCmd struct {
	File         FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the default ledger)." short:"i" name:"input" optional:""`
	Accounts     []string    `help:"Only print entries touching these accounts or their sub-accounts." arg:"" optional:""`
	AmountColumn int         `help:"Column at which amounts end (default when 0)." default:"0"`
	AutoAlign    bool        `help:"Align amounts to the widest account name."`
	Indent       int         `help:"Indentation of transaction lines." default:"4"`
}

func (cmd *PrintCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := globals.startTelemetry(ctx, "print")
	defer report()

	l, err := openLedger(runCtx, ctx, globals, &cmd.File)
	if err != nil {
		return err
	}

	opts := []formatter.Option{formatter.WithIndentation(cmd.Indent)}
	if cmd.AmountColumn > 0 {
		opts = append(opts, formatter.WithAmountColumn(cmd.AmountColumn))
	}
	if cmd.AutoAlign {
		opts = append(opts, formatter.WithAutoAlign())
	}

	entries := filterEntries(l.Entries(), cmd.Accounts)
	return formatter.New(opts...).Format(runCtx, entries, ctx.Stdout)
}

// filterEntries keeps the entries touching any of accounts. No accounts
// keeps everything.
func filterEntries(entries []*ast.Entry, accounts []string) []*ast.Entry {
	if len(accounts) == 0 {
		return entries
	}
	var kept []*ast.Entry
	for _, e := range entries {
		for _, account := range accounts {
			if e.Touches(account) {
				kept = append(kept, e)
				break
			}
		}
	}
	return kept
}
