package schema_test

import (
	"testing"

	"github.com/artpar/apicompat/core/schema"
)

const sampleDoc = `
types:
  string:
    bson_serialization_type: string
    native_type: std::string
  object:
    bson_serialization_type:
      - object
    native_type: BSONObj
  anyType:
    bson_serialization_type: any
    native_type: Value
    serializer: serializeValue
    deserializer: deserializeValue

enums:
  ReadMode:
    values:
      - primary
      - secondary

structs:
  Cursor:
    fields:
      id:
        type: string
      firstBatch:
        type: array<object>
        optional: true

commands:
  find:
    api_version: "1"
    strict: true
    namespace: concatenate_with_db_or_uuid
    fields:
      filter:
        type: object
        optional: true
      mode:
        type: ReadMode
        unstable: true
      tailable:
        type:
          variant: [string, object]
        optional: true
    reply_type: FindReply
    access_check:
      simple:
        privilege:
          resource_pattern: exact_namespace
          action_type: [find]

generic_argument_lists:
  generic_args_api_v1:
    fields:
      - apiVersion
      - comment
`

func TestParseSections(t *testing.T) {
	def, err := schema.Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := len(def.Types); got != 3 {
		t.Fatalf("types = %d, want 3", got)
	}
	if def.Types[0].Name != "string" || def.Types[1].Name != "object" || def.Types[2].Name != "anyType" {
		t.Errorf("type order = %q, %q, %q", def.Types[0].Name, def.Types[1].Name, def.Types[2].Name)
	}
	if got := def.Types[0].BSONTypes; len(got) != 1 || got[0] != "string" {
		t.Errorf("scalar bson_serialization_type = %v", got)
	}
	if got := def.Types[1].BSONTypes; len(got) != 1 || got[0] != "object" {
		t.Errorf("sequence bson_serialization_type = %v", got)
	}
	if def.Types[2].Serializer != "serializeValue" || def.Types[2].Deserializer != "deserializeValue" {
		t.Errorf("conversion routines = %q, %q", def.Types[2].Serializer, def.Types[2].Deserializer)
	}

	if len(def.Enums) != 1 || def.Enums[0].Name != "ReadMode" || len(def.Enums[0].Values) != 2 {
		t.Errorf("enums = %+v", def.Enums)
	}

	if len(def.GenericArgumentLists) != 1 {
		t.Fatalf("generic argument lists = %d, want 1", len(def.GenericArgumentLists))
	}
	if g := def.GenericArgumentLists[0]; g.Name != "generic_args_api_v1" || len(g.Fields) != 2 {
		t.Errorf("generic list = %+v", g)
	}
}

func TestParseStructFieldOrder(t *testing.T) {
	def, err := schema.Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(def.Structs) != 1 {
		t.Fatalf("structs = %d, want 1", len(def.Structs))
	}
	s := def.Structs[0]
	if s.Name != "Cursor" || len(s.Fields) != 2 {
		t.Fatalf("struct = %+v", s)
	}
	if s.Fields[0].Name != "id" || s.Fields[1].Name != "firstBatch" {
		t.Errorf("field order = %q, %q", s.Fields[0].Name, s.Fields[1].Name)
	}
	if s.Fields[1].Type.Name != "array<object>" || !s.Fields[1].Optional {
		t.Errorf("firstBatch = %+v", s.Fields[1])
	}
}

func TestParseCommand(t *testing.T) {
	def, err := schema.Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(def.Commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(def.Commands))
	}
	c := def.Commands[0]
	if c.Name != "find" || c.APIVersion != "1" || !c.Strict {
		t.Errorf("command header = %+v", c)
	}
	if c.Namespace != schema.NamespaceConcatenateWithDbOrUUID {
		t.Errorf("namespace = %q", c.Namespace)
	}
	if c.ReplyType != "FindReply" {
		t.Errorf("reply_type = %q", c.ReplyType)
	}

	if len(c.Fields) != 3 {
		t.Fatalf("fields = %d, want 3", len(c.Fields))
	}
	if c.Fields[0].Name != "filter" || c.Fields[1].Name != "mode" || c.Fields[2].Name != "tailable" {
		t.Errorf("field order = %q, %q, %q", c.Fields[0].Name, c.Fields[1].Name, c.Fields[2].Name)
	}
	if !c.Fields[1].Unstable {
		t.Error("mode should be unstable")
	}

	ref := c.Fields[2].Type
	if !ref.IsVariant() || len(ref.Variant) != 2 || ref.Variant[0] != "string" {
		t.Errorf("variant reference = %+v", ref)
	}

	ac := c.AccessCheck
	if ac == nil || ac.Kind() != schema.AccessCheckSimple {
		t.Fatalf("access check = %+v", ac)
	}
	p := ac.Simple.Privilege
	if p == nil || p.ResourcePattern != "exact_namespace" || len(p.ActionTypes) != 1 {
		t.Errorf("privilege = %+v", p)
	}
}

func TestParseUnknownSection(t *testing.T) {
	_, err := schema.Parse([]byte("imports:\n  - other.yaml\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown section")
	}
}

func TestParseEmptyBody(t *testing.T) {
	def, err := schema.Parse([]byte("structs:\n  Empty:\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(def.Structs) != 1 || def.Structs[0].Name != "Empty" || len(def.Structs[0].Fields) != 0 {
		t.Errorf("structs = %+v", def.Structs)
	}
}

func TestArrayElement(t *testing.T) {
	tests := []struct {
		in   string
		elem string
		ok   bool
	}{
		{"array<object>", "object", true},
		{"array<array<string>>", "array<string>", true},
		{"object", "", false},
		{"array<", "", false},
	}
	for _, tt := range tests {
		elem, ok := schema.ArrayElement(tt.in)
		if elem != tt.elem || ok != tt.ok {
			t.Errorf("ArrayElement(%q) = %q, %v; want %q, %v", tt.in, elem, ok, tt.elem, tt.ok)
		}
	}
}
