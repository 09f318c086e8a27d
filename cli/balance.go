package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/ledger"
	"github.com/robinvdvleuten/ledger/output"
)

const (
	balanceAmountWidth = 20
	balanceSeparator   = "--------------------"
)

type BalanceCmd struct {
	File     FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the default ledger)." short:"i" name:"input" optional:""`
	Accounts []string    `help:"Only show these accounts and their sub-accounts." arg:"" optional:""`
	Flat     bool        `help:"Show full account paths with their own postings instead of a tree."`
	Empty    bool        `help:"Show accounts whose balance is zero." short:"E"`
}

type balanceRow struct {
	label   string
	amounts []amount.Amount
}

func (cmd *BalanceCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := globals.startTelemetry(ctx, "balance")
	defer report()

	l, err := openLedger(runCtx, ctx, globals, &cmd.File)
	if err != nil {
		return err
	}

	var rows []balanceRow
	var total ledger.Totals
	if cmd.Flat {
		rows, total, err = cmd.flatRows(l.Ledger)
	} else {
		rows, total, err = cmd.treeRows(l.Ledger)
	}
	if err != nil {
		return err
	}

	writeBalance(ctx.Stdout, output.NewStyles(ctx.Stdout), rows, total)
	return nil
}

// selectAccount reports whether path is one of filters or below one. No
// filters selects everything.
func selectAccount(path string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, account := range filters {
		if ast.MatchesAccount(path, account) {
			return true
		}
	}
	return false
}

// treeRows lists every selected account with the totals of its subtree,
// indented below the nearest shown ancestor. The grand total adds up the
// shown accounts without a shown ancestor.
func (cmd *BalanceCmd) treeRows(l *ledger.Ledger) ([]balanceRow, ledger.Totals, error) {
	var rows []balanceRow
	total := ledger.Totals{}
	shown := map[string]bool{}

	for _, account := range l.Accounts() {
		if !selectAccount(account.Path(), cmd.Accounts) {
			continue
		}
		totals, err := account.Totals()
		if err != nil {
			return nil, nil, err
		}
		if totals.IsZero() && !cmd.Empty {
			continue
		}

		depth := 0
		for _, ancestor := range account.Ancestors() {
			if shown[ancestor.Path()] {
				depth++
			}
		}
		shown[account.Path()] = true
		if depth == 0 {
			for _, a := range totals.Amounts() {
				total.Add(a)
			}
		}

		label := strings.Repeat("  ", depth) + account.Name()
		if depth == 0 {
			label = account.Path()
		}
		rows = append(rows, balanceRow{label: label, amounts: displayAmounts(totals, cmd.Empty)})
	}
	return rows, total, nil
}

// flatRows lists the selected accounts that have postings of their own,
// with only those postings counted.
func (cmd *BalanceCmd) flatRows(l *ledger.Ledger) ([]balanceRow, ledger.Totals, error) {
	own := map[string]ledger.Totals{}
	for _, e := range l.Entries() {
		for _, t := range e.Transactions {
			amt, err := e.AmountOf(t)
			if err != nil {
				return nil, nil, err
			}
			if own[t.Account] == nil {
				own[t.Account] = ledger.Totals{}
			}
			own[t.Account].Add(amt)
		}
	}

	var rows []balanceRow
	total := ledger.Totals{}
	for _, account := range l.Accounts() {
		totals, ok := own[account.Path()]
		if !ok || !selectAccount(account.Path(), cmd.Accounts) {
			continue
		}
		if totals.IsZero() && !cmd.Empty {
			continue
		}
		for _, a := range totals.Amounts() {
			total.Add(a)
		}
		rows = append(rows, balanceRow{
			label:   account.Path(),
			amounts: displayAmounts(totals, cmd.Empty),
		})
	}
	return rows, total, nil
}

func displayAmounts(totals ledger.Totals, empty bool) []amount.Amount {
	if nonZero := totals.NonZero(); len(nonZero) > 0 {
		return nonZero
	}
	if amounts := totals.Amounts(); empty && len(amounts) > 0 {
		return amounts[:1]
	}
	return nil
}

// writeBalance prints one line per amount, right-aligned, with the account
// label next to the first amount of its row.
func writeBalance(w io.Writer, styles *output.Styles, rows []balanceRow, total ledger.Totals) {
	width := balanceAmountWidth
	for _, row := range rows {
		for _, a := range row.amounts {
			width = max(width, runewidth.StringWidth(a.String()))
		}
	}
	for _, a := range total.Amounts() {
		width = max(width, runewidth.StringWidth(a.String()))
	}

	writeAmount := func(a amount.Amount, label string) {
		text := a.String()
		pad := strings.Repeat(" ", width-runewidth.StringWidth(text))
		line := pad + styles.Amount(text, a.IsNegative())
		if label != "" {
			line += "  " + styles.Account(label)
		}
		_, _ = fmt.Fprintln(w, line)
	}

	for _, row := range rows {
		for i, a := range row.amounts {
			label := ""
			if i == 0 {
				label = row.label
			}
			writeAmount(a, label)
		}
	}

	_, _ = fmt.Fprintln(w, strings.Repeat(" ", width-len(balanceSeparator))+balanceSeparator)

	amounts := total.NonZero()
	if len(amounts) == 0 {
		_, _ = fmt.Fprintln(w, strings.Repeat(" ", width-1)+"0")
		return
	}
	for _, a := range amounts {
		writeAmount(a, "")
	}
}
