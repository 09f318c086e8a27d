package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/formatter"
)

type PostCmd struct {
	Account     string `help:"Account receiving the amount." arg:""`
	Amount      string `help:"Amount to post, e.g. \"-12.50 EUR\". A negative amount leaves the account." arg:""`
	Against     string `help:"Balancing account (default: the configured income or expenses account)." arg:"" optional:""`
	Date        string `help:"Entry date as YYYY/MM/DD (default: today)." short:"d"`
	Description string `help:"Entry description." short:"m"`
	DryRun      bool   `help:"Print the entry without saving the ledger." short:"n"`
	Yes         bool   `help:"Save without asking for confirmation." short:"y"`
}

func (cmd *PostCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := globals.startTelemetry(ctx, "post")
	defer report()

	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}

	l, err := openLedger(runCtx, ctx, globals, nil)
	if err != nil {
		return err
	}

	amt, err := amount.Parse(l.Registry(), cmd.Amount)
	if err != nil {
		return err
	}

	var date *ast.Date
	if cmd.Date != "" {
		if date, err = ast.NewDate(strings.ReplaceAll(cmd.Date, "-", "/")); err != nil {
			return err
		}
	}

	against := cmd.Against
	if against == "" {
		against = cfg.Accounting.DefaultExpensesAccount
		if amt.Sign() > 0 {
			against = cfg.Accounting.DefaultIncomeAccount
		}
	}

	e := l.Account(cmd.Account).Post(date, amt, against)
	e.Description = cmd.Description

	_, _ = fmt.Fprintln(ctx.Stdout, formatter.New().FormatEntry(e))
	if cmd.DryRun {
		return nil
	}

	if !cmd.Yes {
		confirmed, err := promptYesNo(fmt.Sprintf("Add this entry to %s?", l.Filename()))
		if err != nil {
			return err
		}
		if !confirmed {
			printInfof(ctx.Stderr, "Nothing saved")
			return NewCommandError(1)
		}
	}

	if err := l.Save(""); err != nil {
		return err
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Saved %s", pathStyle.Render(l.Filename())))
	return nil
}
