package report

import (
	"fmt"
	"io"

	"github.com/artpar/apicompat/core/compat"
)

// TextFormatter writes one finding per line, in recording order.
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Name returns the formatter name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Description returns the formatter description.
func (f *TextFormatter) Description() string {
	return "One finding per line"
}

// Write formats the findings as plain text. An empty list writes nothing.
func (f *TextFormatter) Write(w io.Writer, findings []compat.Error) error {
	for _, e := range findings {
		if _, err := fmt.Fprintln(w, e.Error()); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	if err := Register(NewTextFormatter()); err != nil {
		fmt.Printf("failed to register text formatter: %v\n", err)
	}
}
