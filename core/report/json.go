package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/artpar/apicompat/core/compat"
)

// JSONFormatter formats findings as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the formatter name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Description returns the formatter description.
func (f *JSONFormatter) Description() string {
	return "JSON output format"
}

// Write formats the findings as a single JSON document.
func (f *JSONFormatter) Write(w io.Writer, findings []compat.Error) error {
	output := map[string]any{
		"count":    len(findings),
		"findings": toFindings(findings),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func init() {
	if err := Register(NewJSONFormatter()); err != nil {
		fmt.Printf("failed to register json formatter: %v\n", err)
	}
}
