package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/config"
	"github.com/robinvdvleuten/ledger/formatter"
	"github.com/robinvdvleuten/ledger/history"
	"github.com/robinvdvleuten/ledger/statement"
)

type ImportCmd struct {
	Statement string `help:"CSV statement to import." arg:"" type:"existingfile"`
	Format    string `help:"Name of a CSV format under bank_statement.csv_formats." required:""`
	Account   string `help:"Bank account of the statement (default: the format's account or accounting.default_bank_account)."`
	Currency  string `help:"Commodity of rows without a currency column (default: accounting.default_commodity)."`
	Income    string `help:"Account balancing incoming amounts (default: accounting.default_income_account)."`
	Expenses  string `help:"Account balancing outgoing amounts (default: accounting.default_expenses_account)."`
	DryRun    bool   `help:"Print the new entries without saving." short:"n"`
	Yes       bool   `help:"Save without asking for confirmation." short:"y"`
	NoHistory bool   `help:"Import every row, even those imported before, and do not record them."`
	Verbose   bool   `help:"Log every skipped row." short:"v"`
}

func (cmd *ImportCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := globals.startTelemetry(ctx, "import")
	defer report()

	logger := log.NewWithOptions(ctx.Stderr, log.Options{Prefix: "import"})
	if cmd.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}
	opts, err := cmd.csvOptions(cfg)
	if err != nil {
		return err
	}

	l, err := openLedger(runCtx, ctx, globals, nil)
	if err != nil {
		return err
	}

	p, err := statement.NewCSV(opts, l.Registry())
	if err != nil {
		return err
	}
	rows, err := p.ParseFile(cmd.Statement)
	if err != nil {
		return err
	}
	logger.Debug("parsed statement", "file", cmd.Statement, "rows", len(rows))

	var store *history.Store
	if !cmd.NoHistory {
		if store, err = history.Open(cfg.HistoryPath()); err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if rows, err = cmd.unseen(runCtx, logger, store, rows); err != nil {
			return err
		}
	}

	if len(rows) == 0 {
		printInfof(ctx.Stdout, "Nothing to import")
		return nil
	}

	entries := make([]*ast.Entry, len(rows))
	for i, row := range rows {
		entries[i] = cmd.balance(cfg, row)
	}

	if err := formatter.New().Format(runCtx, entries, ctx.Stdout); err != nil {
		return err
	}
	if cmd.DryRun {
		return nil
	}

	if !cmd.Yes {
		confirmed, err := promptYesNo(fmt.Sprintf("Add %d entries to %s?", len(entries), l.Filename()))
		if err != nil {
			return err
		}
		if !confirmed {
			printInfof(ctx.Stderr, "Nothing saved")
			return NewCommandError(1)
		}
	}

	l.Append(entries...)
	if err := l.Save(""); err != nil {
		return err
	}

	// History is keyed on the statement rows, not on the balanced entries.
	if store != nil {
		if err := store.Record(runCtx, l.Filename(), rows...); err != nil {
			logger.Error("failed to record import history", "err", err)
		}
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Imported %d entries into %s", len(entries), pathStyle.Render(l.Filename())))
	return nil
}

// csvOptions returns the named format with command-line overrides and
// configured defaults applied.
func (cmd *ImportCmd) csvOptions(cfg *config.Config) (statement.CSVOptions, error) {
	opts, err := cfg.CSVFormat(cmd.Format)
	if err != nil {
		return statement.CSVOptions{}, err
	}
	opts = opts.Merge(statement.CSVOptions{Account: cmd.Account, Currency: cmd.Currency})

	if opts.Account == "" {
		opts.Account = cfg.Accounting.DefaultBankAccount
	}
	if opts.Currency == "" && opts.CurrencyColumn == nil {
		opts.Currency = cfg.Accounting.DefaultCommodity
	}
	return opts, opts.Validate()
}

func (cmd *ImportCmd) unseen(ctx context.Context, logger *log.Logger, store *history.Store, rows []*ast.Entry) ([]*ast.Entry, error) {
	kept, err := store.Filter(ctx, rows)
	if err != nil {
		return nil, err
	}

	fresh := make(map[*ast.Entry]bool, len(kept))
	for _, row := range kept {
		fresh[row] = true
	}
	for _, row := range rows {
		if !fresh[row] {
			logger.Debug("skipping imported row", "date", row.Date, "description", row.Description)
		}
	}
	if skipped := len(rows) - len(kept); skipped > 0 {
		logger.Info("skipped rows imported before", "count", skipped)
	}
	return kept, nil
}

// balance returns a new entry for a statement row: the bank transaction and
// a transaction without amount on the income or expenses account.
func (cmd *ImportCmd) balance(cfg *config.Config, row *ast.Entry) *ast.Entry {
	bank := row.Transactions[0]

	counter := cmd.Expenses
	if counter == "" {
		counter = cfg.Accounting.DefaultExpensesAccount
	}
	if bank.Amount != nil && bank.Amount.Sign() > 0 {
		counter = cmd.Income
		if counter == "" {
			counter = cfg.Accounting.DefaultIncomeAccount
		}
	}

	var opts []ast.TransactionOption
	if bank.Amount != nil {
		opts = append(opts, ast.WithAmount(*bank.Amount))
	}
	return ast.NewEntry(row.Date,
		ast.WithDescription(row.Description),
		ast.WithTransactions(
			ast.NewTransaction(bank.Account, opts...),
			ast.NewTransaction(counter),
		),
	)
}
