package compat

import "github.com/artpar/apicompat/core/schema"

// checkFields reconciles two ordered field lists. The same routine serves
// command parameters (Input), command-value struct fields (Input) and
// reply fields (Output); ctx carries the polarity and reporting context.
func (r *run) checkFields(oldFields, newFields []schema.Field, ctx fieldCtx) error {
	for i := range oldFields {
		oldF := &oldFields[i]
		newF := findField(newFields, oldF.Name)
		if newF == nil {
			// An unstable field may vanish silently.
			if !oldF.Unstable {
				r.report(ctx, KindFieldRemoved, oldF.Name, ctx.structName, ctx.oldFile)
			}
			continue
		}
		if err := r.checkFieldPair(oldF, newF, ctx); err != nil {
			return err
		}
	}

	for i := range newFields {
		newF := &newFields[i]
		if findField(oldFields, newF.Name) != nil {
			continue
		}

		// A new required stable field breaks old callers, but only on
		// the input side: servers may add always-present output fields.
		if ctx.dir == Input && !newF.Optional && !newF.Unstable {
			r.report(ctx, KindFieldAddedRequired, newF.Name, ctx.structName, ctx.newFile)
		}

		// Newly added "any"-typed fields must be allow-listed in either
		// direction.
		if s, ok := newF.Resolved.(*schema.Scalar); ok && s.HasAny() {
			if !r.allowedKey(ctx.allowKey(newF.Name)) {
				r.report(ctx, KindAnyTypeNotAllowed, newF.Name, s.Name, ctx.newFile)
			}
		}
	}
	return nil
}

// checkFieldPair applies the stability, optionality and validator rules to
// a matched old/new field pair, then compares the types.
func (r *run) checkFieldPair(oldF, newF *schema.Field, ctx fieldCtx) error {
	if !oldF.Unstable && newF.Unstable {
		r.report(ctx, KindFieldDestabilized, oldF.Name, ctx.structName, ctx.newFile)
	}
	// Promoting an unstable field to stable is fine only when old callers
	// that never set it keep working.
	if oldF.Unstable && !newF.Unstable && !newF.Optional && newF.Default == nil {
		r.report(ctx, KindFieldStableNoDefault, oldF.Name, ctx.structName, ctx.newFile)
	}
	if oldF.Optional && !newF.Optional {
		r.report(ctx, KindFieldBecameRequired, oldF.Name, ctx.structName, ctx.newFile)
	}
	// Output fields may also not loosen: old clients rely on a stable
	// always-present reply field staying present.
	if ctx.dir == Output && !oldF.Unstable && !oldF.Optional && newF.Optional {
		r.report(ctx, KindFieldBecameOptional, oldF.Name, ctx.structName, ctx.newFile)
	}

	if !oldF.Unstable && newF.Validator != nil {
		if oldF.Validator != nil {
			if !newF.Validator.Equal(oldF.Validator) {
				r.report(ctx, KindValidatorChanged, oldF.Name, ctx.structName, ctx.newFile)
			}
		} else {
			r.report(ctx, KindValidatorAdded, oldF.Name, ctx.structName, ctx.newFile)
		}
	}

	return r.compareTypes(oldF.Resolved, newF.Resolved, oldF.Name, oldF.Unstable, ctx)
}

func findField(fields []schema.Field, name string) *schema.Field {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}
