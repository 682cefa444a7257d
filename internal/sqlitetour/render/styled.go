package render

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// NewTableWriter returns a new table.Writer with the custom
// styles for the sqlitetour CLI.
func NewTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	tw.Style().Color.Header = text.Colors{text.FgCyan, text.Bold}
	tw.Style().Color.Footer = text.Colors{text.FgCyan, text.Bold}

	return tw
}

// DimmedColor returns a dimmed *color.Color to print secondary information.
func DimmedColor() *color.Color {
	return color.RGB(128, 128, 128)
}

// withCommas returns a string representation of an integer with commas.
//
// Example:
//
//	12345 -> "12,345"
func withCommas(i int) string {
	if i < 0 {
		return "-" + withCommas(-i)
	}
	if i < 1000 {
		return fmt.Sprintf("%d", i)
	}
	return withCommas(i/1000) + "," + fmt.Sprintf("%03d", i%1000)
}
