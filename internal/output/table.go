package output

import (
	"io"
	"strings"

	"github.com/rodaine/table"
)

// RenderLabels renders a single-column table to the writer for rich mode
func RenderLabels(w io.Writer, header string, labels []string) {
	if len(labels) == 0 {
		return
	}

	tbl := table.New(header).WithWriter(w)
	for _, label := range labels {
		tbl.AddRow(label)
	}
	tbl.Print()
}

// TruncateString truncates a string to maxLen and adds "..." if needed
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// PadString pads a string to the specified width
func PadString(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
