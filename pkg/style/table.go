package style

import (
	"io"
	"math"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Undefined is printed in place of NaN feature values.
const Undefined = "-"

func NewDefaultTableStyle() *table.Style {
	style := table.Style{
		Name:    "StyleFeatures",
		Box:     table.StyleBoxRounded,
		Format:  table.FormatOptionsDefault,
		HTML:    table.DefaultHTMLOptions,
		Options: table.OptionsDefault,
		Title:   table.TitleOptionsDefault,
		Color:   table.ColorOptionsYellowWhiteOnBlack,
	}
	style.Format.Header = text.FormatDefault
	style.Color.Row = text.Colors{text.FgHiYellow, text.BgHiBlack}
	style.Color.RowAlternate = text.Colors{text.FgYellow, text.BgBlack}
	return &style
}

// NewTable creates a table writer that renders into w with the default
// style. Every column after the first one is right aligned.
func NewTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(*NewDefaultTableStyle())
	t.AppendHeader(header)

	var configs []table.ColumnConfig
	for i := 2; i <= len(header); i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
	return t
}

// FormatFloat formats v with the given number of decimals, Undefined for NaN.
func FormatFloat(v float64, precision int) string {
	if math.IsNaN(v) {
		return Undefined
	}

	return strconv.FormatFloat(v, 'f', precision, 64)
}
