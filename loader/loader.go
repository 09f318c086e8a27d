// Package loader reads ledger files from disk and writes them back.
//
// Loading binds the parsed entries to the file they came from, so callers can
// later save to the same path. Saving replaces the whole file: the new content
// is written to a temporary file next to the target, synced, and renamed over
// it, so a failed write never leaves a truncated ledger behind.
//
// Example usage:
//
//	reg := commodity.NewRegistry()
//	ldr := loader.New(loader.WithRegistry(reg))
//	result, err := ldr.Load(ctx, "main.ledger")
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/commodity"
	"github.com/robinvdvleuten/ledger/parser"
	"github.com/robinvdvleuten/ledger/telemetry"
)

// Loader reads and parses ledger files.
//
// Configure the loader using functional options passed to New:
//
//	ldr := New(WithRegistry(reg))
type Loader struct {
	// Registry receives the commodities seen while parsing. A fresh registry
	// is created when none is given.
	Registry *commodity.Registry
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithRegistry sets the commodity registry amounts are parsed against.
func WithRegistry(reg *commodity.Registry) Option {
	return func(l *Loader) {
		l.Registry = reg
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}

	for _, opt := range opts {
		opt(l)
	}

	if l.Registry == nil {
		l.Registry = commodity.NewRegistry()
	}

	return l
}

// Result is a loaded ledger file.
type Result struct {
	// Filename is the absolute path of the loaded file.
	Filename string

	Entries []*ast.Entry

	// Source is the raw file content, used to render errors with context.
	Source []byte
}

// IOError reports a failure to read or write a ledger file.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Load reads and parses filename.
func (l *Loader) Load(ctx context.Context, filename string) (*Result, error) {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("loader.load %s", filepath.Base(filename)))
	defer timer.End()

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, &IOError{Op: "read", Path: filename, Err: err}
	}

	readTimer := timer.Child("loader.read")
	data, err := os.ReadFile(absPath)
	readTimer.End()
	if err != nil {
		return nil, &IOError{Op: "read", Path: filename, Err: err}
	}

	return l.LoadBytes(ctx, absPath, data)
}

// LoadBytes parses data as the content of filename.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) (*Result, error) {
	entries, err := parser.ParseBytes(ctx, l.Registry, data, parser.WithFilename(filename))
	if err != nil {
		return nil, err
	}

	return &Result{
		Filename: filename,
		Entries:  entries,
		Source:   data,
	}, nil
}

// WriteFile atomically replaces filename with data. The file keeps its
// permissions if it already exists.
func WriteFile(filename string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(filename); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*.tmp")
	if err != nil {
		return &IOError{Op: "write", Path: filename, Err: err}
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &IOError{Op: "write", Path: filename, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &IOError{Op: "write", Path: filename, Err: err}
	}

	if err := os.Rename(tmpName, filename); err != nil {
		_ = os.Remove(tmpName)
		return &IOError{Op: "write", Path: filename, Err: err}
	}
	return nil
}
