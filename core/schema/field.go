package schema

// Field is a named member of a struct, a command parameter list or a reply.
type Field struct {
	// Name is the wire name of the field.
	Name string

	// TypeRef is the declared type reference, resolved by the loader.
	TypeRef TypeRef

	// Resolved is the resolved type. Nil when the reference did not
	// resolve; the compatibility engine treats that as fatal.
	Resolved Type

	// Optional indicates callers may omit the field.
	Optional bool

	// Unstable exempts the field from most compatibility guarantees.
	// The annotation is per generation, never inherited.
	Unstable bool

	// Default is the value used when the field is omitted.
	Default *string

	// Validator constrains accepted values.
	Validator *Validator
}

// Validator is an opaque value-constraint expression attached to a field.
// The checker compares validators structurally; it never evaluates them.
type Validator struct {
	GT       string `yaml:"gt,omitempty"`
	LT       string `yaml:"lt,omitempty"`
	GTE      string `yaml:"gte,omitempty"`
	LTE      string `yaml:"lte,omitempty"`
	Callback string `yaml:"callback,omitempty"`
}

// Equal reports whether two validators express the same constraint.
func (v *Validator) Equal(o *Validator) bool {
	if v == nil || o == nil {
		return v == o
	}
	return *v == *o
}
