package compat

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Kind identifies one class of compatibility violation.
type Kind string

const (
	// Command-level violations.
	KindCommandRemoved        Kind = "command_removed"
	KindInvalidAPIVersion     Kind = "invalid_api_version"
	KindDuplicateCommand      Kind = "duplicate_command"
	KindStrictnessTightened   Kind = "strictness_tightened"
	KindNamespaceIncompatible Kind = "namespace_incompatible"

	// Field-level violations.
	KindFieldRemoved         Kind = "field_removed"
	KindFieldDestabilized    Kind = "field_destabilized"
	KindFieldStableNoDefault Kind = "field_stable_without_default"
	KindFieldBecameRequired  Kind = "field_became_required"
	KindFieldBecameOptional  Kind = "field_became_optional"
	KindFieldAddedRequired   Kind = "field_added_required"
	KindValidatorChanged     Kind = "validator_changed"
	KindValidatorAdded       Kind = "validator_added"

	// Type-level violations.
	KindArrayMismatch         Kind = "array_mismatch"
	KindTypeKindMismatch      Kind = "type_kind_mismatch"
	KindAnyTypeAdded          Kind = "any_type_added"
	KindAnyTypeRemoved        Kind = "any_type_removed"
	KindAnyTypeNotAllowed     Kind = "any_type_not_allowed"
	KindNativeTypeChanged     Kind = "native_type_changed"
	KindSerializerChanged     Kind = "serializer_changed"
	KindDeserializerChanged   Kind = "deserializer_changed"
	KindEnumValuesNotSubset   Kind = "enum_values_not_subset"
	KindEnumValuesNotSuperset Kind = "enum_values_not_superset"
	KindVariantArmMismatch    Kind = "variant_arm_mismatch"
	KindVariantKindMismatch   Kind = "variant_kind_mismatch"
	KindBSONTypesNotSubset    Kind = "bson_types_not_subset"
	KindBSONTypesNotSuperset  Kind = "bson_types_not_superset"
	KindTypeInvalid           Kind = "type_invalid"

	// Access-check violations.
	KindAccessCheckKindMismatch     Kind = "access_check_kind_mismatch"
	KindAccessCheckValueMismatch    Kind = "access_check_value_mismatch"
	KindResourcePatternMismatch     Kind = "resource_pattern_mismatch"
	KindActionTypesNotSubset        Kind = "action_types_not_subset"
	KindComplexChecksCountIncreased Kind = "complex_checks_count_increased"
	KindComplexChecksNotSubset      Kind = "complex_checks_not_subset"
	KindComplexPrivilegesNotSubset  Kind = "complex_privileges_not_subset"
	KindAccessCheckRemoved          Kind = "access_check_removed"
	KindAccessCheckAdded            Kind = "access_check_added"

	// Auxiliary check violations.
	KindErrorReplyMissing        Kind = "error_reply_missing"
	KindGenericArgumentRemoved   Kind = "generic_argument_removed"
	KindGenericReplyFieldRemoved Kind = "generic_reply_field_removed"
)

// Error is one recorded compatibility violation.
type Error struct {
	Kind    Kind
	Command string
	Field   string
	Type    string
	File    string
	IsParam bool
}

func (e Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Command != "" {
		fmt.Fprintf(&b, ": command %q", e.Command)
	}
	if e.Field != "" {
		label := "field"
		if e.IsParam {
			label = "parameter"
		}
		fmt.Fprintf(&b, " %s %q", label, e.Field)
	}
	if e.Type != "" {
		fmt.Fprintf(&b, " type %q", e.Type)
	}
	if e.File != "" {
		fmt.Fprintf(&b, " (%s)", e.File)
	}
	return b.String()
}

// ErrInvalidType aborts a run: a type on either side failed to resolve,
// which is a loader contract violation rather than a compatibility finding.
var ErrInvalidType = errors.New("unresolved type in schema snapshot")

// ErrorCollection accumulates violations. Recording never stops the
// traversal; the collection is drained once at the end of a run.
type ErrorCollection struct {
	errs []Error
}

// NewErrorCollection returns an empty collection.
func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{}
}

// Record appends a violation.
func (c *ErrorCollection) Record(e Error) {
	c.errs = append(c.errs, e)
}

// HasErrors reports whether any violation was recorded.
func (c *ErrorCollection) HasErrors() bool { return len(c.errs) > 0 }

// Len returns the number of recorded violations.
func (c *ErrorCollection) Len() int { return len(c.errs) }

// Errors returns the recorded violations in recording order.
func (c *ErrorCollection) Errors() []Error { return c.errs }

// Dump writes every violation to w, one per line, in recording order.
func (c *ErrorCollection) Dump(w io.Writer) {
	for _, e := range c.errs {
		fmt.Fprintln(w, e.Error())
	}
}
