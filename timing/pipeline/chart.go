package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/pipesim/insts"
)

// DefaultCellWidth is the width of one cycle slot in the chart, including
// the trailing separator.
const DefaultCellWidth = 5

// ChartOptions controls stage chart rendering.
type ChartOptions struct {
	// CellWidth is the number of columns per cycle slot. Values below 3 are
	// raised to DefaultCellWidth.
	CellWidth int

	// Program, when set, annotates each row with its instruction.
	Program insts.Program
}

// FormatRow renders one chart row: the row offset as blank slots followed
// by the stage label block, e.g. "     |IF  |ID  |EX  |ME  |WB  |".
func FormatRow(row Row, cellWidth int) string {
	if cellWidth < 3 {
		cellWidth = DefaultCellWidth
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", row.Offset*cellWidth))
	sb.WriteByte('|')
	for _, label := range row.Labels {
		sb.WriteString(label)
		if pad := cellWidth - 1 - len(label); pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
		sb.WriteByte('|')
	}

	return sb.String()
}

// RenderChart writes the stage chart of a simulation result, one line per
// instruction.
func RenderChart(w io.Writer, result Result, opts ChartOptions) error {
	width := 0
	lines := make([]string, len(result.Rows))
	for i, row := range result.Rows {
		lines[i] = FormatRow(row, opts.CellWidth)
		if len(lines[i]) > width {
			width = len(lines[i])
		}
	}

	for i, line := range lines {
		if inst := opts.Program.At(result.Rows[i].Index); inst != nil {
			line = fmt.Sprintf("%-*s  %s", width, line, inst)
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
	}

	return nil
}
