package compat

import "github.com/artpar/apicompat/core/schema"

// compareTypes is the recursive type compatibility engine. It is a pure
// predicate over the two (already resolved) type trees, the direction and
// the old field's unstable flag. Unwrapped array elements are bound to
// fresh locals; the loaded schema values are never written to.
func (r *run) compareTypes(oldT, newT schema.Type, field string, oldUnstable bool, ctx fieldCtx) error {
	// Unwrap matching array levels. Array-ness changing on one side only
	// is breaking unless the old field was unstable.
	for {
		oldArr, oldIsArr := oldT.(*schema.Array)
		newArr, newIsArr := newT.(*schema.Array)
		if !oldIsArr && !newIsArr {
			break
		}
		if oldIsArr != newIsArr {
			if !oldUnstable {
				file := ctx.oldFile
				if oldIsArr {
					file = ctx.newFile
				}
				r.report(ctx, KindArrayMismatch, field, schema.TypeName(newT), file)
			}
			return nil
		}
		oldT, newT = oldArr.Element, newArr.Element
	}

	if oldT == nil {
		r.report(ctx, KindTypeInvalid, field, "", ctx.oldFile)
		return ErrInvalidType
	}
	if newT == nil {
		r.report(ctx, KindTypeInvalid, field, "", ctx.newFile)
		return ErrInvalidType
	}

	switch o := oldT.(type) {
	case *schema.Scalar:
		return r.compareScalars(o, newT, field, oldUnstable, ctx)

	case *schema.Variant:
		return r.compareVariants(o, newT, field, oldUnstable, ctx)

	case *schema.Enum:
		if oldUnstable {
			return nil
		}
		n, ok := newT.(*schema.Enum)
		if !ok {
			r.report(ctx, KindTypeKindMismatch, field, schema.TypeName(newT), ctx.newFile)
			return nil
		}
		if !ctx.dir.valueSetCompatible(o.Values, n.Values) {
			kind := KindEnumValuesNotSubset
			if ctx.dir == Input {
				kind = KindEnumValuesNotSuperset
			}
			r.report(ctx, kind, field, n.Name, ctx.newFile)
		}
		return nil

	case *schema.Struct:
		n, ok := newT.(*schema.Struct)
		if !ok {
			if !oldUnstable {
				r.report(ctx, KindTypeKindMismatch, field, schema.TypeName(newT), ctx.newFile)
			}
			return nil
		}
		return r.checkFields(o.Fields, n.Fields, ctx.inStruct(o.Name))
	}
	return nil
}

// compareScalars handles an old scalar: the any-type gate, serializer
// identity for allow-listed "any" scalars, and the direction's required
// kind-set relation.
func (r *run) compareScalars(old *schema.Scalar, newT schema.Type, field string, oldUnstable bool, ctx fieldCtx) error {
	n, ok := newT.(*schema.Scalar)
	if !ok {
		if _, isVariant := newT.(*schema.Variant); isVariant {
			if !oldUnstable {
				r.report(ctx, KindVariantKindMismatch, field, old.Name, ctx.newFile)
			}
			return nil
		}
		if !oldUnstable {
			r.report(ctx, KindTypeKindMismatch, field, schema.TypeName(newT), ctx.newFile)
		}
		return nil
	}

	// An absent serialization-kind set on a resolved scalar is a loader
	// contract violation, same class as an unresolved type.
	if len(old.BSONTypes) == 0 {
		r.report(ctx, KindTypeInvalid, field, old.Name, ctx.oldFile)
		return ErrInvalidType
	}
	if len(n.BSONTypes) == 0 {
		r.report(ctx, KindTypeInvalid, field, n.Name, ctx.newFile)
		return ErrInvalidType
	}

	// The "any" gate applies regardless of stability.
	oldAny, newAny := old.HasAny(), n.HasAny()
	if oldAny && !newAny {
		r.report(ctx, KindAnyTypeRemoved, field, old.Name, ctx.oldFile)
		return nil
	}
	if !oldAny && newAny {
		r.report(ctx, KindAnyTypeAdded, field, n.Name, ctx.newFile)
		return nil
	}

	if oldAny {
		if !r.allowedKey(ctx.allowKey(field)) {
			r.report(ctx, KindAnyTypeNotAllowed, field, old.Name, ctx.oldFile)
			return nil
		}
		// Wire fidelity of an "any" field rests entirely on conversion
		// code identity, which cannot be verified structurally.
		if old.NativeType != n.NativeType {
			r.report(ctx, KindNativeTypeChanged, field, n.Name, ctx.newFile)
		}
		if !oldUnstable && old.Serializer != n.Serializer {
			r.report(ctx, KindSerializerChanged, field, n.Name, ctx.newFile)
		}
		if !oldUnstable && old.Deserializer != n.Deserializer {
			r.report(ctx, KindDeserializerChanged, field, n.Name, ctx.newFile)
		}
		return nil
	}

	if oldUnstable {
		return nil
	}
	if !ctx.dir.valueSetCompatible(old.BSONTypes, n.BSONTypes) {
		kind := KindBSONTypesNotSubset
		if ctx.dir == Input {
			kind = KindBSONTypesNotSuperset
		}
		r.report(ctx, kind, field, n.Name, ctx.newFile)
	}
	return nil
}

// compareVariants handles an old tagged union. Inputs require every old
// arm to stay accepted; outputs require every new arm to have been
// promised. On the output side a non-variant new type counts as a single
// arm.
func (r *run) compareVariants(old *schema.Variant, newT schema.Type, field string, oldUnstable bool, ctx fieldCtx) error {
	newV, isVariant := newT.(*schema.Variant)

	if ctx.dir == Input {
		if !isVariant {
			if !oldUnstable {
				r.report(ctx, KindVariantKindMismatch, field, schema.TypeName(newT), ctx.newFile)
			}
			return nil
		}
		for _, oldArm := range old.Arms {
			newArm := newV.ArmByName(schema.TypeName(oldArm))
			if newArm == nil {
				if !oldUnstable {
					r.report(ctx, KindVariantArmMismatch, field, schema.TypeName(oldArm), ctx.newFile)
				}
				continue
			}
			if err := r.compareTypes(oldArm, newArm, field, oldUnstable, ctx); err != nil {
				return err
			}
		}
		if old.StructArm != nil {
			if newV.StructArm == nil {
				if !oldUnstable {
					r.report(ctx, KindVariantArmMismatch, field, old.StructArm.Name, ctx.newFile)
				}
				return nil
			}
			return r.checkFields(old.StructArm.Fields, newV.StructArm.Fields, ctx.inStruct(old.StructArm.Name))
		}
		return nil
	}

	newArms := []schema.Type{newT}
	var newStructArm *schema.Struct
	if isVariant {
		newArms = newV.Arms
		newStructArm = newV.StructArm
	}

	for _, newArm := range newArms {
		oldArm := old.ArmByName(schema.TypeName(newArm))
		if oldArm == nil {
			if !oldUnstable {
				r.report(ctx, KindVariantArmMismatch, field, schema.TypeName(newArm), ctx.newFile)
			}
			continue
		}
		if err := r.compareTypes(oldArm, newArm, field, oldUnstable, ctx); err != nil {
			return err
		}
	}
	if newStructArm != nil {
		if old.StructArm == nil {
			if !oldUnstable {
				r.report(ctx, KindVariantArmMismatch, field, newStructArm.Name, ctx.newFile)
			}
			return nil
		}
		return r.checkFields(old.StructArm.Fields, newStructArm.Fields, ctx.inStruct(old.StructArm.Name))
	}
	return nil
}
