package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is one parsed definition file. Section entries preserve the
// order they were declared in, which keeps report output deterministic.
type Definition struct {
	Types                  []TypeDef
	Enums                  []EnumDef
	Structs                []StructDef
	Commands               []CommandDef
	GenericArgumentLists   []GenericListDef
	GenericReplyFieldLists []GenericListDef
}

// TypeDef declares a scalar type.
type TypeDef struct {
	Name         string     `yaml:"-"`
	BSONTypes    StringList `yaml:"bson_serialization_type"`
	NativeType   string     `yaml:"native_type"`
	Serializer   string     `yaml:"serializer,omitempty"`
	Deserializer string     `yaml:"deserializer,omitempty"`
}

// EnumDef declares an enum type.
type EnumDef struct {
	Name   string   `yaml:"-"`
	Values []string `yaml:"values"`
}

// StructDef declares a named field list.
type StructDef struct {
	Name   string
	Fields []FieldDef
}

// FieldDef declares one field of a struct or command.
type FieldDef struct {
	Name      string     `yaml:"-"`
	Type      TypeRef    `yaml:"type"`
	Optional  bool       `yaml:"optional"`
	Unstable  bool       `yaml:"unstable"`
	Default   any        `yaml:"default"`
	Validator *Validator `yaml:"validator"`
}

// CommandDef declares a command.
type CommandDef struct {
	Name        string
	APIVersion  string
	Imported    bool
	Strict      bool
	Namespace   NamespaceKind
	Type        *TypeRef
	Fields      []FieldDef
	ReplyType   string
	AccessCheck *AccessChecks
}

// GenericListDef declares a named list of generic argument or reply field
// names shared by every command.
type GenericListDef struct {
	Name   string   `yaml:"-"`
	Fields []string `yaml:"fields"`
}

// TypeRef is a field's declared type: either a symbol name (possibly
// "array<elem>") or an inline variant over symbol names.
type TypeRef struct {
	Name    string
	Variant []string
}

// IsVariant reports whether the reference declares an inline tagged union.
func (r TypeRef) IsVariant() bool { return len(r.Variant) > 0 }

// UnmarshalYAML accepts either a scalar symbol name or a
// { variant: [...] } mapping.
func (r *TypeRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&r.Name)
	case yaml.MappingNode:
		var raw struct {
			Variant []string `yaml:"variant"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if len(raw.Variant) == 0 {
			return fmt.Errorf("line %d: type mapping must declare variant arms", node.Line)
		}
		r.Variant = raw.Variant
		return nil
	default:
		return fmt.Errorf("line %d: invalid type reference", node.Line)
	}
}

// ArrayElement splits an "array<elem>" type name. The second return is
// false when the name is not an array form.
func ArrayElement(name string) (string, bool) {
	if strings.HasPrefix(name, "array<") && strings.HasSuffix(name, ">") {
		return name[len("array<") : len(name)-1], true
	}
	return "", false
}

// StringList decodes either a single YAML scalar or a sequence of scalars.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := node.Decode(&ss); err != nil {
			return err
		}
		*l = StringList(ss)
		return nil
	default:
		return fmt.Errorf("line %d: expected scalar or sequence", node.Line)
	}
}

// ParseFile parses a definition file.
func ParseFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return def, nil
}

// Parse parses a definition document from YAML bytes.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &def, nil
}

// UnmarshalYAML decodes the sectioned document, keeping entry order.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: definition must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		section := node.Content[i].Value
		body := node.Content[i+1]

		var err error
		switch section {
		case "types":
			err = decodeNamed(body, func(name string, td TypeDef) {
				td.Name = name
				d.Types = append(d.Types, td)
			})
		case "enums":
			err = decodeNamed(body, func(name string, ed EnumDef) {
				ed.Name = name
				d.Enums = append(d.Enums, ed)
			})
		case "structs":
			err = decodeNamed(body, func(name string, sd StructDef) {
				sd.Name = name
				d.Structs = append(d.Structs, sd)
			})
		case "commands":
			err = decodeNamed(body, func(name string, cd CommandDef) {
				cd.Name = name
				d.Commands = append(d.Commands, cd)
			})
		case "generic_argument_lists":
			err = decodeNamed(body, func(name string, gd GenericListDef) {
				gd.Name = name
				d.GenericArgumentLists = append(d.GenericArgumentLists, gd)
			})
		case "generic_reply_field_lists":
			err = decodeNamed(body, func(name string, gd GenericListDef) {
				gd.Name = name
				d.GenericReplyFieldLists = append(d.GenericReplyFieldLists, gd)
			})
		default:
			err = fmt.Errorf("line %d: unknown section %q", node.Content[i].Line, section)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalYAML decodes a struct body with an ordered field mapping.
func (s *StructDef) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Fields yaml.Node `yaml:"fields"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Fields.Kind == 0 {
		return nil
	}
	return decodeNamed(&raw.Fields, func(name string, fd FieldDef) {
		fd.Name = name
		s.Fields = append(s.Fields, fd)
	})
}

// UnmarshalYAML decodes a command body with an ordered field mapping.
func (c *CommandDef) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		APIVersion  string        `yaml:"api_version"`
		Imported    bool          `yaml:"imported"`
		Strict      bool          `yaml:"strict"`
		Namespace   NamespaceKind `yaml:"namespace"`
		Type        *TypeRef      `yaml:"type"`
		Fields      yaml.Node     `yaml:"fields"`
		ReplyType   string        `yaml:"reply_type"`
		AccessCheck *AccessChecks `yaml:"access_check"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	c.APIVersion = raw.APIVersion
	c.Imported = raw.Imported
	c.Strict = raw.Strict
	c.Namespace = raw.Namespace
	c.Type = raw.Type
	c.ReplyType = raw.ReplyType
	c.AccessCheck = raw.AccessCheck

	if raw.Fields.Kind == 0 {
		return nil
	}
	return decodeNamed(&raw.Fields, func(name string, fd FieldDef) {
		fd.Name = name
		c.Fields = append(c.Fields, fd)
	})
}

// decodeNamed decodes a YAML mapping of name -> body in declaration order.
// A nil body node (name with no value) decodes to the zero body.
func decodeNamed[T any](node *yaml.Node, assign func(name string, body T)) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var body T
		val := node.Content[i+1]
		if !(val.Kind == yaml.ScalarNode && val.Tag == "!!null") {
			if err := val.Decode(&body); err != nil {
				return err
			}
		}
		assign(node.Content[i].Value, body)
	}
	return nil
}
