package compat

// Direction is the polarity of a comparison. Inputs (command parameters)
// are contravariant: the new generation must keep accepting everything the
// old one accepted. Outputs (replies) are covariant: the new generation
// must not produce anything the old one never produced.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// valueSetCompatible applies the direction's required set relation:
// Input requires newSet ⊇ oldSet, Output requires newSet ⊆ oldSet.
func (d Direction) valueSetCompatible(oldSet, newSet []string) bool {
	if d == Input {
		return subset(oldSet, newSet)
	}
	return subset(newSet, oldSet)
}

// subset reports whether every element of sub occurs in super.
func subset(sub, super []string) bool {
	for _, s := range sub {
		found := false
		for _, x := range super {
			if x == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
