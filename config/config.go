// Package config loads user settings for the ledger tools.
//
// Settings come from a YAML file, by default ~/.config/ledger/config.yaml,
// with environment variables taking precedence. A .env file in the working
// directory is loaded into the environment first.
//
//	accounting:
//	  default_ledger_file: ~/finance/main.ledger
//	  default_income_account: Income:Unknown
//	  default_expenses_account: Expenses:Unknown
//	  default_commodity: EUR
//	  default_commodity_european: true
//	bank_statement:
//	  csv_formats:
//	    sparkasse:
//	      separator: ";"
//	      first_line_is_header: true
//	      date_format: "%d.%m.%Y"
//	      date_column: Buchungstag
//	      description_column: Verwendungszweck
//	      debit_column: Betrag
//	      credit_column: Betrag
//	      thousands_separator: "."
//	      currency_column: Waehrung
//	history:
//	  db_path: ~/.local/share/ledger/history.db
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robinvdvleuten/ledger/commodity"
	"github.com/robinvdvleuten/ledger/statement"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfigFile       = "LEDGER_CONFIG"
	EnvLedgerFile       = "LEDGER_FILE"
	EnvDefaultCommodity = "LEDGER_DEFAULT_COMMODITY"
	EnvDefaultEuropean  = "LEDGER_DEFAULT_COMMODITY_EUROPEAN"
	EnvHistoryDB        = "LEDGER_HISTORY_DB"
)

// Config is the top-level configuration.
type Config struct {
	Accounting    AccountingConfig    `yaml:"accounting"`
	BankStatement BankStatementConfig `yaml:"bank_statement"`
	History       HistoryConfig       `yaml:"history"`
}

// AccountingConfig names the accounts used when entries are generated.
type AccountingConfig struct {
	DefaultLedgerFile string `yaml:"default_ledger_file,omitempty"`

	DefaultIncomeAccount      string `yaml:"default_income_account"`
	DefaultExpensesAccount    string `yaml:"default_expenses_account"`
	DefaultAssetsAccount      string `yaml:"default_assets_account"`
	DefaultLiabilitiesAccount string `yaml:"default_liabilities_account"`
	DefaultEquityAccount      string `yaml:"default_equity_account"`
	DefaultBankAccount        string `yaml:"default_bank_account"`

	// DefaultCommodity decides ambiguous amounts such as "1,000" and is
	// used for statement rows without a currency.
	DefaultCommodity string `yaml:"default_commodity,omitempty"`

	// DefaultCommodityEuropean marks the default commodity as written with
	// a decimal comma, so "1,50" is read as one and a half.
	DefaultCommodityEuropean bool `yaml:"default_commodity_european,omitempty"`
}

// BankStatementConfig holds named statement layouts.
type BankStatementConfig struct {
	CSVFormats map[string]statement.CSVOptions `yaml:"csv_formats,omitempty"`
}

// HistoryConfig configures the import history database.
type HistoryConfig struct {
	DBPath string `yaml:"db_path,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Accounting: AccountingConfig{
			DefaultIncomeAccount:      "Income:Unknown",
			DefaultExpensesAccount:    "Expenses:Unknown",
			DefaultAssetsAccount:      "Assets",
			DefaultLiabilitiesAccount: "Liabilities",
			DefaultEquityAccount:      "Equity",
			DefaultBankAccount:        "Assets:Bank",
		},
	}
}

// DefaultPath returns the configuration file used when none is given:
// $LEDGER_CONFIG, or config.yaml in the user config directory.
func DefaultPath() string {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ledger", "config.yaml")
}

// LoadEnv loads .env files into the environment. Without arguments it
// loads .env from the working directory if one exists.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// Load reads the configuration file at path on top of the defaults and
// applies environment overrides. An empty path uses DefaultPath, which may
// be missing.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(expandHome(path))
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case explicit || !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if v := os.Getenv(EnvDefaultCommodity); v != "" {
		cfg.Accounting.DefaultCommodity = v
	}
	if v := os.Getenv(EnvDefaultEuropean); v != "" {
		european, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvDefaultEuropean, err)
		}
		cfg.Accounting.DefaultCommodityEuropean = european
	}
	if v := os.Getenv(EnvHistoryDB); v != "" {
		cfg.History.DBPath = v
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// NewRegistry returns a commodity registry holding the configured default
// commodity.
func (c *Config) NewRegistry() *commodity.Registry {
	reg := commodity.NewRegistry()
	sym := commodity.Symbol(c.Accounting.DefaultCommodity)
	if sym == commodity.Null {
		return reg
	}
	reg.SetDefault(sym)
	if c.Accounting.DefaultCommodityEuropean {
		reg.AddStyle(sym, commodity.European)
	}
	return reg
}

// CSVFormat returns the named statement layout.
func (c *Config) CSVFormat(name string) (statement.CSVOptions, error) {
	format, ok := c.BankStatement.CSVFormats[name]
	if !ok {
		return statement.CSVOptions{}, fmt.Errorf("CSV format %q has not been configured", name)
	}
	return format, nil
}

// HistoryPath returns the import history database path, defaulting to
// history.db in the user data directory.
func (c *Config) HistoryPath() string {
	if c.History.DBPath != "" {
		return expandHome(c.History.DBPath)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "history.db"
	}
	return filepath.Join(home, ".local", "share", "ledger", "history.db")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
