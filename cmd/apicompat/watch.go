package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/artpar/apicompat/config"
	"github.com/artpar/apicompat/core/report"
)

var watchCmd = &cobra.Command{
	Use:   "watch OLD_DIR NEW_DIR",
	Short: "Re-run the compatibility check whenever definitions change",
	Long: `Watch both snapshot directories and re-run the check on changes.

Unlike 'check', watch never exits on findings; it reports them and keeps
watching. The config file is hot-reloaded when it changes, so allow-list
edits are picked up between runs.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

var watchInclude []string

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringArrayVar(&watchInclude, "include", nil, "directory to search for imported definition files")
}

const watchDebounce = 500 * time.Millisecond

func runWatch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	oldDir, newDir := args[0], args[1]

	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	// Hot-reload the config file when it exists.
	var holder *config.Holder
	if _, statErr := os.Stat(cfgFile); statErr == nil {
		holder, err = config.NewHolder(cfgFile, logger)
		if err != nil {
			return err
		}
		if err := holder.WatchFile(); err != nil {
			return err
		}
		holder.WatchSignals()
		defer holder.Stop()
	}
	current := func() *config.Config {
		if holder != nil {
			return holder.Get()
		}
		return cfg
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	for _, dir := range []string{oldDir, newDir} {
		if err := watchRecursive(watcher, dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	runOnce := func() {
		if err := runChecks(current(), logger, oldDir, newDir, watchInclude, report.Default(), os.Stdout); err != nil {
			logger.Error().Err(err).Msg("compatibility check failed")
		}
	}
	runOnce()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	logger.Info().Str("old", oldDir).Str("new", newDir).Msg("watching for definition changes")
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug().Str("file", event.Name).Msg("definition changed")
				// New subdirectories need watching too.
				if event.Op&fsnotify.Create != 0 {
					if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
						_ = watchRecursive(watcher, event.Name)
					}
				}
				debounce.Reset(watchDebounce)
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(werr).Msg("watcher error")

		case <-debounce.C:
			runOnce()

		case <-sigCh:
			logger.Info().Msg("shutting down")
			return nil
		}
	}
}

// watchRecursive adds root and every subdirectory to the watcher.
func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
