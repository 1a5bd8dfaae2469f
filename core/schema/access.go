package schema

// AccessCheckKind classifies a command's authorization metadata.
type AccessCheckKind string

const (
	AccessCheckNone    AccessCheckKind = "none"
	AccessCheckSimple  AccessCheckKind = "simple"
	AccessCheckComplex AccessCheckKind = "complex"
)

// AccessChecks is a command's authorization policy. Exactly one of the
// three shapes is populated.
type AccessChecks struct {
	// None marks a command that explicitly requires no authorization.
	None bool `yaml:"none,omitempty"`

	// Simple is a single check and/or privilege.
	Simple *AccessCheck `yaml:"simple,omitempty"`

	// Complex is a list of checks and privileges.
	Complex []AccessCheck `yaml:"complex,omitempty"`
}

// Kind returns the shape of the access checks.
func (a *AccessChecks) Kind() AccessCheckKind {
	switch {
	case a.Simple != nil:
		return AccessCheckSimple
	case len(a.Complex) > 0:
		return AccessCheckComplex
	default:
		return AccessCheckNone
	}
}

// AccessCheck is one authorization requirement: a named check, a privilege,
// or both.
type AccessCheck struct {
	Check     string     `yaml:"check,omitempty"`
	Privilege *Privilege `yaml:"privilege,omitempty"`
}

// Privilege grants a set of action types on a resource pattern.
type Privilege struct {
	ResourcePattern string   `yaml:"resource_pattern"`
	ActionTypes     []string `yaml:"action_type"`
}
