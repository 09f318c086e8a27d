package ast

import (
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestPosition_String(t *testing.T) {
	t.Run("With filename", func(t *testing.T) {
		pos := Position{Filename: "main.ledger", Line: 12, Column: 1}
		assert.Equal(t, "main.ledger:12:1", pos.String())
	})

	t.Run("Without filename", func(t *testing.T) {
		pos := Position{Line: 3, Column: 5}
		assert.Equal(t, "3:5", pos.String())
	})

	t.Run("GoString", func(t *testing.T) {
		pos := Position{Filename: "a.ledger", Line: 1, Column: 2}
		assert.Equal(t, `Position{Filename: "a.ledger", Line: 1, Column: 2}`, fmt.Sprintf("%#v", pos))
	})
}

func TestPosition_IsZero(t *testing.T) {
	assert.True(t, Position{}.IsZero())
	assert.False(t, Position{Line: 1}.IsZero())
}
