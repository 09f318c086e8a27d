package output

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/muesli/termenv"
)

func TestStylesPlainWriter(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf, WithProfile(termenv.Ascii))

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Success", styles.Success("ok"), "ok"},
		{"Error", styles.Error("failed"), "failed"},
		{"Warning", styles.Warning("careful"), "careful"},
		{"FilePath", styles.FilePath("/tmp/main.ledger"), "/tmp/main.ledger"},
		{"Account", styles.Account("Assets:Checking"), "Assets:Checking"},
		{"Date", styles.Date("2024/01/02"), "2024/01/02"},
		{"Amount", styles.Amount("$10.00", false), "$10.00"},
		{"NegativeAmount", styles.Amount("$-10.00", true), "$-10.00"},
		{"Commodity", styles.Commodity("EUR"), "EUR"},
		{"Keyword", styles.Keyword("balance"), "balance"},
		{"Dim", styles.Dim("secondary"), "secondary"},
		{"FastTiming", styles.Timing("5ms", false), "5ms"},
		{"SlowTiming", styles.Timing("500ms", true), "500ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestStylesANSI(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf, WithProfile(termenv.ANSI))

	t.Run("NegativeAmountIsRed", func(t *testing.T) {
		assert.Equal(t, "\x1b[31m$-10.00\x1b[0m", styles.Amount("$-10.00", true))
	})

	t.Run("PositiveAmountIsUnstyled", func(t *testing.T) {
		assert.Equal(t, "$10.00", styles.Amount("$10.00", false))
	})

	t.Run("Account", func(t *testing.T) {
		assert.Equal(t, "\x1b[34mAssets\x1b[0m", styles.Account("Assets"))
	})

	t.Run("ErrorIsBold", func(t *testing.T) {
		assert.Contains(t, styles.Error("boom"), "1m")
		assert.Contains(t, styles.Error("boom"), "boom")
	})
}

func TestStylesOutput(t *testing.T) {
	var buf bytes.Buffer
	assert.NotZero(t, NewStyles(&buf).Output())
}
