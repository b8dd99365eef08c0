package style

import (
	"bytes"
	"math"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.2346", FormatFloat(1.23456, 4))
	assert.Equal(t, "-0.50", FormatFloat(-0.5, 2))
	assert.Equal(t, Undefined, FormatFloat(math.NaN(), 4))
	assert.Equal(t, "+Inf", FormatFloat(math.Inf(1), 4))
}

func TestNewTable(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, table.Row{"ts", "rsi_14"})
	tbl.AppendRow(table.Row{"2026-01-01T00:00:00Z", FormatFloat(55.5, 2)})
	tbl.Render()

	out := buf.String()
	assert.Contains(t, out, "rsi_14")
	assert.Contains(t, out, "55.50")
	assert.Contains(t, out, "2026-01-01T00:00:00Z")
}
