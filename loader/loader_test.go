package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/ledger/commodity"
	"github.com/robinvdvleuten/ledger/parser"
)

func TestLoadSingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile := filepath.Join(tmpDir, "main.ledger")
	err := os.WriteFile(mainFile, []byte(`2024/01/02 * Test
    Assets:Checking  100.00 USD
    Equity:Opening Balances
`), 0o644)
	assert.NoError(t, err)

	absMainFile, err := filepath.Abs(mainFile)
	assert.NoError(t, err)

	reg := commodity.NewRegistry()
	result, err := New(WithRegistry(reg)).Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, absMainFile, result.Filename)
	assert.Equal(t, 1, len(result.Entries))
	assert.Equal(t, absMainFile, result.Entries[0].Pos.Filename)
	assert.Contains(t, string(result.Source), "Opening Balances")

	usd, ok := reg.Find("USD")
	assert.True(t, ok)
	assert.Equal(t, 2, usd.Precision)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "missing.ledger"))

	var ioErr *IOError
	assert.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "missing.ledger")
}

func TestLoadParseErrorCarriesFilename(t *testing.T) {
	mainFile := filepath.Join(t.TempDir(), "broken.ledger")
	assert.NoError(t, os.WriteFile(mainFile, []byte("2024/01/02 Test\n    Assets:Cash  EUR\n"), 0o644))

	_, err := New().Load(context.Background(), mainFile)

	var perr *parser.ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Pos.Line)
	assert.Contains(t, err.Error(), "broken.ledger:2")
}

func TestLoadBytes(t *testing.T) {
	result, err := New().LoadBytes(context.Background(), "inline.ledger", []byte("2024/01/02 Test\n"))
	assert.NoError(t, err)
	assert.Equal(t, "inline.ledger", result.Filename)
	assert.Equal(t, 1, len(result.Entries))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.ledger")

	t.Run("Creates file", func(t *testing.T) {
		assert.NoError(t, WriteFile(target, []byte("first\n")))
		data, err := os.ReadFile(target)
		assert.NoError(t, err)
		assert.Equal(t, "first\n", string(data))
	})

	t.Run("Replaces file and keeps permissions", func(t *testing.T) {
		assert.NoError(t, os.Chmod(target, 0o600))
		assert.NoError(t, WriteFile(target, []byte("second\n")))

		data, err := os.ReadFile(target)
		assert.NoError(t, err)
		assert.Equal(t, "second\n", string(data))

		info, err := os.Stat(target)
		assert.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("Leaves no temporary files", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(entries))
	})

	t.Run("Missing directory", func(t *testing.T) {
		err := WriteFile(filepath.Join(dir, "nope", "main.ledger"), []byte("x"))
		var ioErr *IOError
		assert.True(t, errors.As(err, &ioErr))
		assert.Equal(t, "write", ioErr.Op)
	})
}
