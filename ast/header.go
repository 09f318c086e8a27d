package ast

import (
	"fmt"
	"strings"
)

// AmbiguousHeaderError is returned for an entry whose header fields would be
// read back as different fields once written out, e.g. a description
// starting with "* " on an entry without a flag.
type AmbiguousHeaderError struct {
	Pos   Position
	Date  *Date
	Field string
	Value string
}

func (e *AmbiguousHeaderError) Error() string {
	location := e.Date.String()
	if !e.Pos.IsZero() {
		location = fmt.Sprintf("%s:%d", e.Pos.Filename, e.Pos.Line)
	}
	return fmt.Sprintf("%s: %s %q cannot be written unambiguously", location, e.Field, e.Value)
}

func (e *AmbiguousHeaderError) GetPosition() Position {
	return e.Pos
}

// ValidateHeader checks that the flag, code and description of e survive
// being written and parsed again.
func (e *Entry) ValidateHeader() error {
	fail := func(field, value string) error {
		return &AmbiguousHeaderError{Pos: e.Pos, Date: e.Date, Field: field, Value: value}
	}

	switch e.Flag {
	case "", "*", "!":
	default:
		return fail("flag", e.Flag)
	}

	if strings.ContainsAny(e.Code, ")\r\n") {
		return fail("code", e.Code)
	}

	d := e.Description
	if strings.ContainsAny(d, "\r\n") {
		return fail("description", d)
	}
	if e.Code == "" && leadsWithCode(d) {
		return fail("description", d)
	}
	if e.Flag == "" && e.Code == "" && leadsWithFlag(d) {
		return fail("description", d)
	}
	return nil
}

func leadsWithFlag(s string) bool {
	if s == "" || (s[0] != '*' && s[0] != '!') {
		return false
	}
	return len(s) == 1 || s[1] == ' '
}

func leadsWithCode(s string) bool {
	if !strings.HasPrefix(s, "(") {
		return false
	}
	end := strings.IndexByte(s, ')')
	if end < 2 {
		return false
	}
	return end == len(s)-1 || s[end+1] == ' '
}
