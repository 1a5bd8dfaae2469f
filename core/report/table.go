package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/artpar/apicompat/core/compat"
)

// TableFormatter formats findings as an aligned text table.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Name returns the formatter name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Description returns the formatter description.
func (f *TableFormatter) Description() string {
	return "Aligned text table output"
}

// Write formats the findings as a table with a header row.
func (f *TableFormatter) Write(w io.Writer, findings []compat.Error) error {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No findings.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join([]string{"KIND", "COMMAND", "FIELD", "TYPE", "FILE"}, "\t"))

	for _, e := range findings {
		field := e.Field
		if field != "" && e.IsParam {
			field += " (param)"
		}
		row := []string{string(e.Kind), dash(e.Command), dash(field), dash(e.Type), dash(e.File)}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	Register(NewTableFormatter())
}
