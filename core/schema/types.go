package schema

import "strings"

// Type is a resolved schema type. It is a closed union: the only
// implementations are Scalar, Array, Enum, Struct and Variant.
// Resolved types are shared between fields and must never be mutated.
type Type interface {
	// TypeName returns the symbol name the type was declared under.
	// Synthetic types (arrays, variants) derive a name from their parts.
	TypeName() string

	isType()
}

// BSONTypeAny is the wildcard serialization kind. A scalar carrying it can
// serialize as anything; compatibility of such fields rests on serializer
// identity rather than structure.
const BSONTypeAny = "any"

// Scalar is a leaf type with a set of allowed wire serialization kinds.
type Scalar struct {
	Name string

	// BSONTypes lists the wire-type tags the scalar may serialize as.
	BSONTypes []string

	// NativeType is the in-memory representation tag.
	NativeType string

	// Serializer and Deserializer identify custom conversion routines.
	// Relevant only when BSONTypes contains the "any" wildcard.
	Serializer   string
	Deserializer string
}

func (s *Scalar) TypeName() string { return s.Name }
func (s *Scalar) isType()          {}

// HasAny reports whether the scalar allows the "any" wildcard kind.
func (s *Scalar) HasAny() bool {
	for _, t := range s.BSONTypes {
		if t == BSONTypeAny {
			return true
		}
	}
	return false
}

// Array wraps an element type.
type Array struct {
	Element Type
}

func (a *Array) TypeName() string { return "array<" + TypeName(a.Element) + ">" }
func (a *Array) isType()          {}

// Enum is a named set of allowed values.
type Enum struct {
	Name   string
	Values []string
}

func (e *Enum) TypeName() string { return e.Name }
func (e *Enum) isType()          {}

// HasValue reports whether v is one of the enum's values.
func (e *Enum) HasValue(v string) bool {
	for _, ev := range e.Values {
		if ev == v {
			return true
		}
	}
	return false
}

// Struct is a named ordered field list.
type Struct struct {
	Name   string
	Fields []Field
}

func (s *Struct) TypeName() string { return s.Name }
func (s *Struct) isType()          {}

// FieldByName returns the field with the given name, or nil.
func (s *Struct) FieldByName(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// Variant is a tagged union of scalar (or array) arms plus at most one
// struct arm. Arms are identified by their type name.
type Variant struct {
	Arms []Type

	// StructArm is the union's struct alternative, if any.
	StructArm *Struct
}

func (v *Variant) TypeName() string {
	names := make([]string, 0, len(v.Arms)+1)
	for _, a := range v.Arms {
		names = append(names, TypeName(a))
	}
	if v.StructArm != nil {
		names = append(names, v.StructArm.Name)
	}
	return "variant<" + strings.Join(names, ",") + ">"
}

func (v *Variant) isType() {}

// ArmByName returns the non-struct arm with the given type name, or nil.
func (v *Variant) ArmByName(name string) Type {
	for _, a := range v.Arms {
		if TypeName(a) == name {
			return a
		}
	}
	return nil
}

// TypeName is a nil-safe accessor for Type.TypeName.
func TypeName(t Type) string {
	if t == nil {
		return "<unresolved>"
	}
	return t.TypeName()
}
