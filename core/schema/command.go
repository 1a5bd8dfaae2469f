package schema

// NamespaceKind determines how a command's wire name relates to the
// namespace it operates on.
type NamespaceKind string

const (
	// NamespaceIgnored means the command takes no namespace.
	NamespaceIgnored NamespaceKind = "ignored"

	// NamespaceConcatenateWithDb forms the namespace from the database
	// name and the command value.
	NamespaceConcatenateWithDb NamespaceKind = "concatenate_with_db"

	// NamespaceConcatenateWithDbOrUUID is like NamespaceConcatenateWithDb
	// but also accepts a collection UUID.
	NamespaceConcatenateWithDbOrUUID NamespaceKind = "concatenate_with_db_or_uuid"

	// NamespaceType means the command value itself has a declared type.
	NamespaceType NamespaceKind = "type"
)

// Command is a versioned request/response definition.
type Command struct {
	// Name is the wire command name, unique within one generation.
	Name string

	// APIVersion is the stable API version the command belongs to.
	// Empty means unversioned; unversioned commands are skipped.
	APIVersion string

	// Imported marks commands pulled in from another definition file.
	// They are checked where they are declared, not where imported.
	Imported bool

	// Strict commands reject unknown fields.
	Strict bool

	// Namespace determines the command value's interpretation.
	Namespace NamespaceKind

	// NamespaceTypeRef and NamespaceResolved carry the declared type of
	// the command value when Namespace is NamespaceType.
	NamespaceTypeRef  *TypeRef
	NamespaceResolved Type

	// Params is the ordered parameter list.
	Params []Field

	// ReplyTypeName names the reply struct; Reply is its resolution.
	ReplyTypeName string
	Reply         *Struct

	// AccessCheck is the command's authorization metadata. Nil means the
	// definition declares none.
	AccessCheck *AccessChecks

	// File is the definition file the command came from, for reporting.
	File string
}
