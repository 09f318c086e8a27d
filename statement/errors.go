package statement

import (
	"errors"
	"fmt"
)

// ErrMissingOptions is returned for CSV options lacking a required field.
var ErrMissingOptions = errors.New("missing options")

// RowError is returned for a statement row that cannot be imported.
type RowError struct {
	Row  int
	Line string
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// FileError is returned by ParseFile and names the statement file.
type FileError struct {
	Filename string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
