package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/artpar/apicompat/config"
	"github.com/artpar/apicompat/core/compat"
	"github.com/artpar/apicompat/core/loader"
	"github.com/artpar/apicompat/core/report"
)

var checkCmd = &cobra.Command{
	Use:   "check OLD_DIR NEW_DIR",
	Short: "Check definition compatibility between two snapshots",
	Long: `Check that the definition files under NEW_DIR are backward compatible
with the ones under OLD_DIR for the stable API version.

The check runs in three stages, matching what clients depend on:
  1. every stable command: parameters, namespace, reply, access checks
  2. the shared error-reply struct
  3. the generic argument and generic reply field lists

All findings of a stage are printed before the process exits non-zero.

Examples:
  apicompat check snapshots/v1.0 src/definitions
  apicompat check old/ new/ --include shared/
  apicompat check old/ new/ --format json`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

var (
	checkInclude []string
	checkFormat  string
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringArrayVar(&checkInclude, "include", nil, "directory to search for imported definition files")
	checkCmd.Flags().StringVar(&checkFormat, "format", "text",
		fmt.Sprintf("output format (%s)", strings.Join(report.List(), ", ")))
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	formatter, ok := report.Get(checkFormat)
	if !ok {
		return fmt.Errorf("unknown format %q, available: %s", checkFormat, strings.Join(report.List(), ", "))
	}

	return runChecks(cfg, logger, args[0], args[1], checkInclude, formatter, os.Stdout)
}

// runChecks loads both snapshots and runs the three check stages, writing
// findings to out. Later stages run only when the earlier ones are clean.
// A returned error means the run found violations or aborted on a loader
// contract violation.
func runChecks(cfg *config.Config, logger zerolog.Logger, oldDir, newDir string, includes []string, formatter report.Formatter, out io.Writer) error {
	ld := &loader.Loader{
		Logger:                logger,
		SkipFiles:             cfg.SkipFiles,
		IncludeDirs:           append(append([]string{}, cfg.IncludeDirs...), includes...),
		ErrorReplyStruct:      cfg.ErrorReplyStruct,
		GenericArgumentList:   cfg.GenericArgumentList,
		GenericReplyFieldList: cfg.GenericReplyFieldList,
	}

	oldSnap, err := ld.LoadSnapshot(oldDir)
	if err != nil {
		return err
	}
	newSnap, err := ld.LoadSnapshot(newDir)
	if err != nil {
		return err
	}

	checker := compat.New(cfg.AllowAnyTypes)

	findings := compat.NewErrorCollection()
	ec, fatal := checker.Check(oldSnap.Commands, newSnap.Commands)
	for _, e := range ec.Errors() {
		findings.Record(e)
	}

	if fatal == nil && !findings.HasErrors() {
		var rec *compat.ErrorCollection
		rec, fatal = checker.CheckErrorReply(oldSnap.ErrorReply, newSnap.ErrorReply, oldDir, newDir)
		for _, e := range rec.Errors() {
			findings.Record(e)
		}
	}

	if fatal == nil && !findings.HasErrors() {
		gec := checker.CheckGenericLists(
			oldSnap.GenericArguments, newSnap.GenericArguments,
			oldSnap.GenericReplyFields, newSnap.GenericReplyFields,
			newDir,
		)
		for _, e := range gec.Errors() {
			findings.Record(e)
		}
	}

	if err := formatter.Write(out, findings.Errors()); err != nil {
		return err
	}
	if fatal != nil {
		return fatal
	}
	if findings.HasErrors() {
		return fmt.Errorf("%d compatibility errors", findings.Len())
	}

	logger.Info().
		Str("old", oldDir).
		Str("new", newDir).
		Msg("definitions are backward compatible")
	return nil
}
