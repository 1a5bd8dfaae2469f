// Package compat verifies that a new generation of command definitions is
// backward compatible with an old one for the stable API version.
//
// Violations are recorded into an ErrorCollection and traversal always
// continues to sibling commands, fields and type branches. The one
// exception is an unresolved type on either side: that is a loader
// contract violation, reported as ErrInvalidType, and the run stops.
package compat

import "github.com/artpar/apicompat/core/schema"

// StableAPIVersion is the single versioned contract the checker enforces.
const StableAPIVersion = "1"

// namespaceStringTypeName is the generic namespace string type; a command
// value of this type may migrate to any other namespace kind.
const namespaceStringTypeName = "namespacestring"

// Checker compares two generations of command definitions.
type Checker struct {
	allowed map[string]struct{}
}

// New returns a checker with the given allow-any registry. The registry
// keys gate fields whose scalar type carries the "any" wildcard kind:
// "<command>-param-<field>", "<command>-reply-<field>" or "<command>".
func New(allowAny []string) *Checker {
	allowed := make(map[string]struct{}, len(allowAny))
	for _, k := range allowAny {
		allowed[k] = struct{}{}
	}
	return &Checker{allowed: allowed}
}

// Check reconciles every old stable command against the new generation.
// Both generations are validated for duplicate names and unsupported API
// versions. Commands only present in the new generation are accepted.
//
// The returned error is non-nil only for the fatal unresolved-type
// condition; the collection is valid either way.
func (c *Checker) Check(oldCmds, newCmds []*schema.Command) (*ErrorCollection, error) {
	ec := NewErrorCollection()
	r := &run{ec: ec, allowed: c.allowed}

	newByName := r.stableCommands(newCmds)

	seen := make(map[string]struct{}, len(oldCmds))
	for _, oldCmd := range oldCmds {
		if oldCmd.APIVersion == "" || oldCmd.Imported {
			continue
		}
		if oldCmd.APIVersion != StableAPIVersion {
			ec.Record(Error{Kind: KindInvalidAPIVersion, Command: oldCmd.Name, File: oldCmd.File})
			continue
		}
		if _, dup := seen[oldCmd.Name]; dup {
			ec.Record(Error{Kind: KindDuplicateCommand, Command: oldCmd.Name, File: oldCmd.File})
			continue
		}
		seen[oldCmd.Name] = struct{}{}

		newCmd, ok := newByName[oldCmd.Name]
		if !ok {
			ec.Record(Error{Kind: KindCommandRemoved, Command: oldCmd.Name, File: oldCmd.File})
			continue
		}

		if err := r.checkCommand(oldCmd, newCmd); err != nil {
			return ec, err
		}
	}
	return ec, nil
}

type run struct {
	ec      *ErrorCollection
	allowed map[string]struct{}
}

func (r *run) allowedKey(key string) bool {
	_, ok := r.allowed[key]
	return ok
}

// stableCommands indexes a generation's stable commands by name, recording
// duplicate names and unsupported API versions as findings.
func (r *run) stableCommands(cmds []*schema.Command) map[string]*schema.Command {
	byName := make(map[string]*schema.Command, len(cmds))
	for _, cmd := range cmds {
		if cmd.APIVersion == "" || cmd.Imported {
			continue
		}
		if cmd.APIVersion != StableAPIVersion {
			r.ec.Record(Error{Kind: KindInvalidAPIVersion, Command: cmd.Name, File: cmd.File})
			continue
		}
		if _, dup := byName[cmd.Name]; dup {
			r.ec.Record(Error{Kind: KindDuplicateCommand, Command: cmd.Name, File: cmd.File})
			continue
		}
		byName[cmd.Name] = cmd
	}
	return byName
}

// fieldCtx carries the reporting context for one field-list comparison.
// It is copied, never shared, so nested struct recursion can rebind the
// enclosing struct name.
type fieldCtx struct {
	cmd        string
	structName string
	dir        Direction
	isParam    bool
	oldFile    string
	newFile    string
}

func (ctx fieldCtx) inStruct(name string) fieldCtx {
	ctx.structName = name
	return ctx
}

// allowKey synthesizes the allow-any registry key for a field in this
// context.
func (ctx fieldCtx) allowKey(field string) string {
	switch {
	case ctx.dir == Output:
		return ctx.cmd + "-reply-" + field
	case ctx.isParam:
		return ctx.cmd + "-param-" + field
	default:
		return ctx.cmd
	}
}

func (r *run) report(ctx fieldCtx, kind Kind, field, typeName, file string) {
	r.ec.Record(Error{
		Kind:    kind,
		Command: ctx.cmd,
		Field:   field,
		Type:    typeName,
		File:    file,
		IsParam: ctx.isParam,
	})
}

// checkCommand runs every per-command check: strictness, parameters,
// namespace, reply and access checks.
func (r *run) checkCommand(oldCmd, newCmd *schema.Command) error {
	if !oldCmd.Strict && newCmd.Strict {
		r.ec.Record(Error{Kind: KindStrictnessTightened, Command: newCmd.Name, File: newCmd.File})
	}

	paramCtx := fieldCtx{
		cmd:        oldCmd.Name,
		structName: oldCmd.Name,
		dir:        Input,
		isParam:    true,
		oldFile:    oldCmd.File,
		newFile:    newCmd.File,
	}
	if err := r.checkFields(oldCmd.Params, newCmd.Params, paramCtx); err != nil {
		return err
	}

	if err := r.checkNamespace(oldCmd, newCmd); err != nil {
		return err
	}

	replyCtx := fieldCtx{
		cmd:     oldCmd.Name,
		dir:     Output,
		oldFile: oldCmd.File,
		newFile: newCmd.File,
	}
	if oldCmd.Reply == nil {
		r.report(replyCtx, KindTypeInvalid, "", oldCmd.ReplyTypeName, oldCmd.File)
		return ErrInvalidType
	}
	if newCmd.Reply == nil {
		r.report(replyCtx, KindTypeInvalid, "", newCmd.ReplyTypeName, newCmd.File)
		return ErrInvalidType
	}
	if err := r.checkFields(oldCmd.Reply.Fields, newCmd.Reply.Fields, replyCtx.inStruct(oldCmd.Reply.Name)); err != nil {
		return err
	}

	r.checkAccessChecks(oldCmd, newCmd)
	return nil
}

// checkNamespace enforces the namespace-kind transition table.
func (r *run) checkNamespace(oldCmd, newCmd *schema.Command) error {
	ctx := fieldCtx{
		cmd:     oldCmd.Name,
		dir:     Input,
		oldFile: oldCmd.File,
		newFile: newCmd.File,
	}

	switch oldCmd.Namespace {
	case schema.NamespaceIgnored:
		if newCmd.Namespace != schema.NamespaceIgnored {
			r.report(ctx, KindNamespaceIncompatible, "", string(newCmd.Namespace), newCmd.File)
		}
	case schema.NamespaceConcatenateWithDbOrUUID:
		if newCmd.Namespace != schema.NamespaceIgnored &&
			newCmd.Namespace != schema.NamespaceConcatenateWithDbOrUUID {
			r.report(ctx, KindNamespaceIncompatible, "", string(newCmd.Namespace), newCmd.File)
		}
	case schema.NamespaceConcatenateWithDb:
		if newCmd.Namespace == schema.NamespaceType {
			r.report(ctx, KindNamespaceIncompatible, "", string(newCmd.Namespace), newCmd.File)
		}
	case schema.NamespaceType:
		if oldCmd.NamespaceResolved == nil {
			r.report(ctx, KindTypeInvalid, "", "", oldCmd.File)
			return ErrInvalidType
		}
		if newCmd.Namespace == schema.NamespaceType {
			return r.compareTypes(oldCmd.NamespaceResolved, newCmd.NamespaceResolved, "", false, ctx)
		}
		// A generic namespace string may migrate to any other kind;
		// anything else may only relax to ignored.
		if schema.TypeName(oldCmd.NamespaceResolved) != namespaceStringTypeName &&
			newCmd.Namespace != schema.NamespaceIgnored {
			r.report(ctx, KindNamespaceIncompatible, "", string(newCmd.Namespace), newCmd.File)
		}
	}
	return nil
}
