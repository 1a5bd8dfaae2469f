// Package loader walks snapshot directories of definition files and builds
// resolved command maps for the compatibility checker.
package loader

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/artpar/apicompat/core/schema"
)

// Loader parses every definition file under a snapshot directory and
// resolves type references across files.
type Loader struct {
	Logger zerolog.Logger

	// SkipFiles lists base names to ignore while walking.
	SkipFiles []string

	// IncludeDirs are extra directories whose files contribute symbols
	// (types, enums, structs) but no commands.
	IncludeDirs []string

	// ErrorReplyStruct names the shared error-reply struct to extract.
	ErrorReplyStruct string

	// GenericArgumentList and GenericReplyFieldList name the generic
	// field lists to extract.
	GenericArgumentList   string
	GenericReplyFieldList string
}

// New returns a loader with the given logger and no extra configuration.
func New(logger zerolog.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Snapshot is one fully loaded generation of definitions.
type Snapshot struct {
	Dir string

	// Commands preserves declaration order across the lexical directory
	// walk. All declared commands are included; version filtering and
	// duplicate detection belong to the checker.
	Commands []*schema.Command

	// ErrorReply is the designated shared error-reply struct, nil when
	// the snapshot does not declare it.
	ErrorReply *schema.Struct

	// GenericArguments and GenericReplyFields are the designated generic
	// name lists, in declaration order.
	GenericArguments   []string
	GenericReplyFields []string
}

type parsedFile struct {
	path string
	def  *schema.Definition
}

// LoadSnapshot loads one generation from dir.
func (l *Loader) LoadSnapshot(dir string) (*Snapshot, error) {
	var include, main []parsedFile
	for _, inc := range l.IncludeDirs {
		files, err := l.parseDir(inc)
		if err != nil {
			return nil, err
		}
		include = append(include, files...)
	}
	files, err := l.parseDir(dir)
	if err != nil {
		return nil, err
	}
	main = append(main, files...)

	syms := newSymbols(l.Logger)
	for _, pf := range append(append([]parsedFile{}, include...), main...) {
		syms.register(pf.def)
	}
	for _, pf := range append(append([]parsedFile{}, include...), main...) {
		syms.resolveStructs(pf.def)
	}

	snap := &Snapshot{Dir: dir}
	for _, pf := range main {
		l.collect(snap, pf, syms)
	}

	if l.ErrorReplyStruct != "" {
		snap.ErrorReply = syms.structByName(l.ErrorReplyStruct)
	}

	l.Logger.Info().
		Str("dir", dir).
		Int("files", len(main)).
		Int("commands", len(snap.Commands)).
		Msg("loaded snapshot")

	return snap, nil
}

// parseDir parses every definition file under dir, lexically ordered.
func (l *Loader) parseDir(dir string) ([]parsedFile, error) {
	var files []parsedFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isDefinitionFile(d.Name()) || l.skipped(d.Name()) {
			return nil
		}

		def, err := schema.ParseFile(path)
		if err != nil {
			return err
		}
		l.Logger.Debug().Str("file", path).Msg("parsed definition file")
		files = append(files, parsedFile{path: path, def: def})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return files, nil
}

func (l *Loader) skipped(name string) bool {
	for _, s := range l.SkipFiles {
		if s == name {
			return true
		}
	}
	return false
}

func isDefinitionFile(name string) bool {
	return strings.HasSuffix(name, ".idl") ||
		strings.HasSuffix(name, ".yaml") ||
		strings.HasSuffix(name, ".yml")
}

// collect turns a file's command and generic-list definitions into
// snapshot entries.
func (l *Loader) collect(snap *Snapshot, pf parsedFile, syms *symbols) {
	for _, cd := range pf.def.Commands {
		snap.Commands = append(snap.Commands, l.buildCommand(cd, pf.path, syms))
	}
	for _, gl := range pf.def.GenericArgumentLists {
		if gl.Name == l.GenericArgumentList {
			snap.GenericArguments = append(snap.GenericArguments, gl.Fields...)
		}
	}
	for _, gl := range pf.def.GenericReplyFieldLists {
		if gl.Name == l.GenericReplyFieldList {
			snap.GenericReplyFields = append(snap.GenericReplyFields, gl.Fields...)
		}
	}
}

func (l *Loader) buildCommand(cd schema.CommandDef, path string, syms *symbols) *schema.Command {
	cmd := &schema.Command{
		Name:          cd.Name,
		APIVersion:    cd.APIVersion,
		Imported:      cd.Imported,
		Strict:        cd.Strict,
		Namespace:     cd.Namespace,
		Params:        convertFields(cd.Fields, syms),
		ReplyTypeName: cd.ReplyType,
		AccessCheck:   cd.AccessCheck,
		File:          path,
	}

	if cmd.Namespace == "" {
		if cd.Type != nil {
			cmd.Namespace = schema.NamespaceType
		} else {
			cmd.Namespace = schema.NamespaceIgnored
		}
	}
	if cd.Type != nil {
		ref := *cd.Type
		cmd.NamespaceTypeRef = &ref
		cmd.NamespaceResolved = syms.resolveRef(ref)
	}
	if cd.ReplyType != "" {
		cmd.Reply = syms.structByName(cd.ReplyType)
	}
	return cmd
}

// convertFields resolves raw field definitions into schema fields.
func convertFields(defs []schema.FieldDef, syms *symbols) []schema.Field {
	fields := make([]schema.Field, 0, len(defs))
	for _, fd := range defs {
		f := schema.Field{
			Name:      fd.Name,
			TypeRef:   fd.Type,
			Resolved:  syms.resolveRef(fd.Type),
			Optional:  fd.Optional,
			Unstable:  fd.Unstable,
			Validator: fd.Validator,
		}
		if fd.Default != nil {
			s := fmt.Sprint(fd.Default)
			f.Default = &s
		}
		fields = append(fields, f)
	}
	return fields
}
