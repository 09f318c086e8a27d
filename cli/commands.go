package cli

var (
	Version   = ""
	CommitSHA = ""
)

type Commands struct {
	Globals

	Balance     BalanceCmd     `cmd:"" aliases:"bal" help:"Show account balances."`
	Accounts    AccountsCmd    `cmd:"" help:"List the accounts of a ledger."`
	Print       PrintCmd       `cmd:"" help:"Print ledger entries with aligned amounts."`
	Check       CheckCmd       `cmd:"" help:"Parse a ledger and check that every entry balances."`
	Post        PostCmd        `cmd:"" help:"Post an amount to an account and save the ledger."`
	Import      ImportCmd      `cmd:"" help:"Import a CSV bank statement into the ledger."`
	Commodities CommoditiesCmd `cmd:"" help:"List the commodities used by a ledger."`
	Doctor      DoctorCmd      `cmd:"" help:"Doctor utilities for debugging ledger files."`
	Web         WebCmd         `cmd:"" help:"Start a web server."`
}
