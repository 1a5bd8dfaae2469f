package compat

import "github.com/artpar/apicompat/core/schema"

// CheckErrorReply reconciles the shared error-reply struct between the two
// generations. It runs outside any command context, in output direction.
func (c *Checker) CheckErrorReply(old, new *schema.Struct, oldFile, newFile string) (*ErrorCollection, error) {
	ec := NewErrorCollection()
	if old == nil {
		ec.Record(Error{Kind: KindErrorReplyMissing, File: oldFile})
		return ec, nil
	}
	if new == nil {
		ec.Record(Error{Kind: KindErrorReplyMissing, File: newFile})
		return ec, nil
	}

	r := &run{ec: ec, allowed: c.allowed}
	ctx := fieldCtx{
		cmd:        "n/a",
		structName: old.Name,
		dir:        Output,
		oldFile:    oldFile,
		newFile:    newFile,
	}
	err := r.checkFields(old.Fields, new.Fields, ctx)
	return ec, err
}

// CheckGenericLists verifies that no generic argument or generic reply
// field was removed. Names are compared as sets; no type comparison is
// involved. Old-list order is preserved in the findings.
func (c *Checker) CheckGenericLists(oldArgs, newArgs, oldReplyFields, newReplyFields []string, newFile string) *ErrorCollection {
	ec := NewErrorCollection()

	newArgSet := toSet(newArgs)
	for _, arg := range oldArgs {
		if _, ok := newArgSet[arg]; !ok {
			ec.Record(Error{Kind: KindGenericArgumentRemoved, Field: arg, File: newFile, IsParam: true})
		}
	}

	newReplySet := toSet(newReplyFields)
	for _, f := range oldReplyFields {
		if _, ok := newReplySet[f]; !ok {
			ec.Record(Error{Kind: KindGenericReplyFieldRemoved, Field: f, File: newFile})
		}
	}
	return ec
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
