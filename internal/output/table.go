package output

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// NewTable creates a table writer that renders to outputWriter, using fancy
// characters when terminalWidth indicates a terminal
func NewTable(outputWriter io.Writer, terminalWidth int) table.Writer {
	if terminalWidth <= 0 {
		text.DisableColors()
	}

	outputTable := table.NewWriter()
	outputTable.SetOutputMirror(outputWriter)

	// use fancy characters if we're outputting to a terminal
	if terminalWidth > 0 {
		outputTable.SetStyle(table.StyleRounded)
		outputTable.SetAllowedRowLength(terminalWidth)
	}

	outputTable.Style().Options.DoNotColorBordersAndSeparators = true
	outputTable.Style().Color.Row = text.Colors{text.Reset, text.BgHiBlack}
	outputTable.Style().Color.RowAlternate = text.Colors{text.Reset, text.BgBlack}

	return outputTable
}

// PrintSummaryTable prints the conversion summary into a human friendly table.
func PrintSummaryTable(summary Summary, outputWriter io.Writer, terminalWidth int) {
	outputTable := NewTable(outputWriter, terminalWidth)
	outputTable.AppendHeader(table.Row{"Category", "Name", "Count"})

	outputTable.AppendRow(table.Row{"Components", "total", strconv.Itoa(summary.Components)})
	for _, eco := range summary.SortedEcosystems() {
		outputTable.AppendRow(table.Row{"Components", eco, strconv.Itoa(summary.Ecosystems[eco])})
	}

	outputTable.AppendSeparator()

	outputTable.AppendRow(table.Row{"Vulnerabilities", "total", strconv.Itoa(summary.Vulnerabilities)})
	for _, row := range summary.severityRows() {
		outputTable.AppendRow(table.Row{"Vulnerabilities", row[0], row[1]})
	}

	outputTable.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})

	outputTable.Render()
}
