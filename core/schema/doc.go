/*
Package schema defines the typed model for versioned command definitions.

A definition file is a YAML document with named sections. Types, enums and
structs are reusable symbols; commands tie parameters, a reply struct and an
optional access check to a wire command name:

	types:
	  string:
	    bson_serialization_type: string
	    native_type: StringData

	enums:
	  SortOrder:
	    values: [asc, desc]

	structs:
	  FindReply:
	    fields:
	      cursor: { type: string }
	      partial: { type: bool, optional: true }

	commands:
	  find:
	    api_version: "1"
	    strict: true
	    namespace: concatenate_with_db
	    reply_type: FindReply
	    fields:
	      filter: { type: object, optional: true }
	    access_check:
	      simple:
	        privilege: { resource_pattern: database, action_type: [find] }

Field types reference symbols by name. An array is written "array<elem>" and
a tagged union is written inline as { variant: [int, string, SomeStruct] }.

Parsed definitions are raw documents; symbol resolution across files is the
loader's job (see core/loader). Resolved types form a closed union: Scalar,
Array, Enum, Struct and Variant all implement Type.
*/
package schema
