package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/artpar/apicompat/core/compat"
)

// YAMLFormatter formats findings as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Name returns the formatter name.
func (f *YAMLFormatter) Name() string {
	return "yaml"
}

// Description returns the formatter description.
func (f *YAMLFormatter) Description() string {
	return "YAML output format"
}

// Write formats the findings as a single YAML document.
func (f *YAMLFormatter) Write(w io.Writer, findings []compat.Error) error {
	output := map[string]any{
		"count":    len(findings),
		"findings": toFindings(findings),
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(output)
}

func init() {
	if err := Register(NewYAMLFormatter()); err != nil {
		fmt.Printf("failed to register yaml formatter: %v\n", err)
	}
}
