// Package report provides a pluggable output formatting system for
// compatibility findings. Formatters convert a finding list to various
// output formats (text, table, json, yaml).
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/artpar/apicompat/core/compat"
)

// Formatter writes a finding list in a specific output format.
type Formatter interface {
	// Name returns the formatter name (e.g., "text", "json", "yaml").
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Write formats the findings to w. Formatters must handle an empty
	// list: structured formats still emit a document, text emits nothing.
	Write(w io.Writer, findings []compat.Error) error
}

// Registry manages registered formatters.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
	defaultFmt string
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
		defaultFmt: "text",
	}
}

// Register adds a formatter to the registry.
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[f.Name()]; exists {
		return fmt.Errorf("formatter %q already registered", f.Name())
	}

	r.formatters[f.Name()] = f
	return nil
}

// Get returns a formatter by name.
func (r *Registry) Get(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[name]
	return f, ok
}

// Default returns the default formatter.
func (r *Registry) Default() Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formatters[r.defaultFmt]
}

// List returns all registered formatter names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter to the default registry.
func Register(f Formatter) error {
	return DefaultRegistry.Register(f)
}

// Get returns a formatter from the default registry.
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// Default returns the default formatter from the default registry.
func Default() Formatter {
	return DefaultRegistry.Default()
}

// List returns all formatter names from the default registry.
func List() []string {
	return DefaultRegistry.List()
}

// finding is the wire shape of one violation in structured formats.
type finding struct {
	Kind    string `json:"kind" yaml:"kind"`
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
	Field   string `json:"field,omitempty" yaml:"field,omitempty"`
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
	Param   bool   `json:"param,omitempty" yaml:"param,omitempty"`
}

func toFindings(errs []compat.Error) []finding {
	out := make([]finding, len(errs))
	for i, e := range errs {
		out[i] = finding{
			Kind:    string(e.Kind),
			Command: e.Command,
			Field:   e.Field,
			Type:    e.Type,
			File:    e.File,
			Param:   e.IsParam,
		}
	}
	return out
}
