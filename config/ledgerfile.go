package config

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"regexp"
)

// ErrNoLedgerFile is returned when no default ledger file is configured.
var ErrNoLedgerFile = errors.New("no default ledger filename configured")

var ledgerrcFile = regexp.MustCompile(`^\s*(?:-f|--file)(?:=?|\s+)([^\s].*)$`)

// DefaultLedgerFile returns the absolute path of the default ledger. The
// first of these wins:
//
//  1. accounting.default_ledger_file
//  2. the LEDGER_FILE environment variable
//  3. a --file (or -f) option in ~/.ledgerrc
func (c *Config) DefaultLedgerFile() (string, error) {
	if c.Accounting.DefaultLedgerFile != "" {
		return absPath(c.Accounting.DefaultLedgerFile)
	}

	if filename := os.Getenv(EnvLedgerFile); filename != "" {
		return absPath(filename)
	}

	if filename, ok := fileFromLedgerrc(expandHome("~/.ledgerrc")); ok {
		return absPath(filename)
	}

	return "", ErrNoLedgerFile
}

func fileFromLedgerrc(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := ledgerrcFile.FindStringSubmatch(scanner.Text()); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func absPath(path string) (string, error) {
	return filepath.Abs(expandHome(path))
}
