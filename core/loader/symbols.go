package loader

import (
	"github.com/rs/zerolog"

	"github.com/artpar/apicompat/core/schema"
)

// symbols is the cross-file symbol table for one snapshot.
type symbols struct {
	scalars map[string]*schema.Scalar
	enums   map[string]*schema.Enum
	structs map[string]*schema.Struct

	log zerolog.Logger
}

func newSymbols(log zerolog.Logger) *symbols {
	return &symbols{
		scalars: make(map[string]*schema.Scalar),
		enums:   make(map[string]*schema.Enum),
		structs: make(map[string]*schema.Struct),
		log:     log,
	}
}

// register adds a file's named symbols. Struct fields stay unresolved
// until resolveStructs; registering first makes forward and cross-file
// references work.
func (s *symbols) register(def *schema.Definition) {
	for _, td := range def.Types {
		if s.defined(td.Name) {
			s.log.Warn().Str("symbol", td.Name).Msg("duplicate symbol, keeping first definition")
			continue
		}
		s.scalars[td.Name] = &schema.Scalar{
			Name:         td.Name,
			BSONTypes:    td.BSONTypes,
			NativeType:   td.NativeType,
			Serializer:   td.Serializer,
			Deserializer: td.Deserializer,
		}
	}
	for _, ed := range def.Enums {
		if s.defined(ed.Name) {
			s.log.Warn().Str("symbol", ed.Name).Msg("duplicate symbol, keeping first definition")
			continue
		}
		s.enums[ed.Name] = &schema.Enum{Name: ed.Name, Values: ed.Values}
	}
	for _, sd := range def.Structs {
		if s.defined(sd.Name) {
			s.log.Warn().Str("symbol", sd.Name).Msg("duplicate symbol, keeping first definition")
			continue
		}
		s.structs[sd.Name] = &schema.Struct{Name: sd.Name}
	}
}

// resolveStructs fills in the fields of every struct registered from def.
func (s *symbols) resolveStructs(def *schema.Definition) {
	for _, sd := range def.Structs {
		target := s.structs[sd.Name]
		if target == nil || target.Fields != nil {
			continue
		}
		target.Fields = convertFields(sd.Fields, s)
	}
}

func (s *symbols) defined(name string) bool {
	if _, ok := s.scalars[name]; ok {
		return true
	}
	if _, ok := s.enums[name]; ok {
		return true
	}
	_, ok := s.structs[name]
	return ok
}

func (s *symbols) structByName(name string) *schema.Struct {
	return s.structs[name]
}

// resolveName resolves a symbol name, unwrapping "array<...>" forms.
// Unknown names resolve to nil.
func (s *symbols) resolveName(name string) schema.Type {
	if elem, ok := schema.ArrayElement(name); ok {
		inner := s.resolveName(elem)
		if inner == nil {
			return nil
		}
		return &schema.Array{Element: inner}
	}
	if t, ok := s.scalars[name]; ok {
		return t
	}
	if e, ok := s.enums[name]; ok {
		return e
	}
	if st, ok := s.structs[name]; ok {
		return st
	}
	return nil
}

// resolveRef resolves a declared type reference. A variant resolves only
// if every arm does; at most one arm may be a struct.
func (s *symbols) resolveRef(ref schema.TypeRef) schema.Type {
	if !ref.IsVariant() {
		return s.resolveName(ref.Name)
	}

	v := &schema.Variant{}
	for _, arm := range ref.Variant {
		t := s.resolveName(arm)
		if t == nil {
			s.log.Warn().Str("arm", arm).Msg("variant arm did not resolve")
			return nil
		}
		if st, ok := t.(*schema.Struct); ok {
			if v.StructArm != nil {
				s.log.Warn().Str("arm", arm).Msg("variant declares more than one struct arm, keeping first")
				continue
			}
			v.StructArm = st
			continue
		}
		v.Arms = append(v.Arms, t)
	}
	return v
}
