package compat

import (
	"sort"

	"github.com/artpar/apicompat/core/schema"
)

// checkAccessChecks compares the authorization metadata of a matched
// command pair. Access may only narrow: removing enforcement silently
// widens access, adding enforcement to a stable command can reject
// previously accepted callers.
func (r *run) checkAccessChecks(oldCmd, newCmd *schema.Command) {
	oldAC, newAC := oldCmd.AccessCheck, newCmd.AccessCheck
	name := oldCmd.Name

	switch {
	case oldAC == nil && newAC == nil:
		return
	case oldAC != nil && newAC == nil:
		r.ec.Record(Error{Kind: KindAccessCheckRemoved, Command: name, File: newCmd.File})
		return
	case oldAC == nil && newAC != nil:
		if oldCmd.APIVersion == StableAPIVersion {
			r.ec.Record(Error{Kind: KindAccessCheckAdded, Command: name, File: newCmd.File})
		}
		return
	}

	if oldAC.Kind() != newAC.Kind() {
		r.ec.Record(Error{Kind: KindAccessCheckKindMismatch, Command: name, File: newCmd.File})
		return
	}

	if oldAC.Simple != nil && newAC.Simple != nil {
		r.checkSimpleAccess(oldAC.Simple, newAC.Simple, name, newCmd.File)
	}
	if len(oldAC.Complex) > 0 && len(newAC.Complex) > 0 {
		r.checkComplexAccess(oldAC.Complex, newAC.Complex, name, newCmd.File)
	}
}

func (r *run) checkSimpleAccess(old, new *schema.AccessCheck, name, newFile string) {
	if old.Check != new.Check {
		r.ec.Record(Error{Kind: KindAccessCheckValueMismatch, Command: name, File: newFile})
		return
	}
	if old.Privilege == nil || new.Privilege == nil {
		return
	}
	if old.Privilege.ResourcePattern != new.Privilege.ResourcePattern {
		r.ec.Record(Error{Kind: KindResourcePatternMismatch, Command: name, File: newFile})
	}
	if !subset(new.Privilege.ActionTypes, old.Privilege.ActionTypes) {
		r.ec.Record(Error{Kind: KindActionTypesNotSubset, Command: name, File: newFile})
	}
}

func (r *run) checkComplexAccess(old, new []schema.AccessCheck, name, newFile string) {
	if len(new) > len(old) {
		r.ec.Record(Error{Kind: KindComplexChecksCountIncreased, Command: name, File: newFile})
		return
	}

	oldChecks, oldPrivs := splitComplexChecks(old)
	newChecks, newPrivs := splitComplexChecks(new)

	if !subset(newChecks, oldChecks) {
		r.ec.Record(Error{Kind: KindComplexChecksNotSubset, Command: name, File: newFile})
	}

	if len(newPrivs) > len(oldPrivs) {
		r.ec.Record(Error{Kind: KindComplexPrivilegesNotSubset, Command: name, File: newFile})
		return
	}

	// Greedy one-to-one matching: each new privilege consumes the first
	// old privilege with an equal resource pattern and a covering
	// action-type set.
	for _, np := range newPrivs {
		matched := false
		for i, op := range oldPrivs {
			if np.ResourcePattern == op.ResourcePattern && subset(np.ActionTypes, op.ActionTypes) {
				oldPrivs = append(oldPrivs[:i], oldPrivs[i+1:]...)
				matched = true
				break
			}
		}
		if !matched {
			r.ec.Record(Error{Kind: KindComplexPrivilegesNotSubset, Command: name, File: newFile})
		}
	}
}

// splitComplexChecks separates a complex access-check list into its check
// names and privileges. Privileges are ordered by decreasing action-type
// count so the greedy matching consumes the widest grants first.
func splitComplexChecks(entries []schema.AccessCheck) ([]string, []*schema.Privilege) {
	var checks []string
	var privs []*schema.Privilege
	for i := range entries {
		if entries[i].Check != "" {
			checks = append(checks, entries[i].Check)
		}
		if entries[i].Privilege != nil {
			privs = append(privs, entries[i].Privilege)
		}
	}
	sort.SliceStable(privs, func(i, j int) bool {
		return len(privs[i].ActionTypes) > len(privs[j].ActionTypes)
	})
	return checks, privs
}
