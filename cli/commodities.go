package cli

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/ledger/commodity"
	"github.com/robinvdvleuten/ledger/output"
)

type CommoditiesCmd struct {
	File FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the default ledger)." arg:"" optional:""`
}

func (cmd *CommoditiesCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := globals.startTelemetry(ctx, "commodities")
	defer report()

	l, err := openLedger(runCtx, ctx, globals, &cmd.File)
	if err != nil {
		return err
	}

	styles := output.NewStyles(ctx.Stdout)
	for _, line := range commodityLines(l.Registry(), styles) {
		_, _ = fmt.Fprintln(ctx.Stdout, line)
	}
	return nil
}

// commodityLines describes every registered commodity: its display
// precision and style, and for ISO 4217 currency codes the standard number
// of decimals with an example.
func commodityLines(reg *commodity.Registry, styles *output.Styles) []string {
	var syms []commodity.Symbol
	width := 0
	for _, sym := range reg.Symbols() {
		if sym.IsNull() {
			continue
		}
		syms = append(syms, sym)
		width = max(width, runewidth.StringWidth(string(sym)))
	}

	lines := make([]string, 0, len(syms))
	for _, sym := range syms {
		c, _ := reg.Find(sym)
		pad := strings.Repeat(" ", width-runewidth.StringWidth(string(sym)))

		line := fmt.Sprintf("%s%s  precision %d  %s",
			styles.Commodity(string(sym)), pad, c.Precision, styles.Dim(c.Style.String()))

		if cur := money.GetCurrency(string(sym)); cur != nil {
			line += fmt.Sprintf("  %s %s, e.g. %s",
				styles.Keyword("ISO 4217"), cur.Code, cur.Formatter().Format(123456))
			if cur.Fraction != c.Precision {
				line += "  " + styles.Warning(fmt.Sprintf("(standard precision %d)", cur.Fraction))
			}
		}
		lines = append(lines, line)
	}
	return lines
}
