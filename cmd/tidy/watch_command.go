package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"tidy/internal/history"
	"tidy/internal/logging"
	"tidy/internal/organizer"
	"tidy/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <directory>",
		Short: "Keep a directory organized continuously",
		Long: `Watch subscribes to filesystem events on the target directory and runs a
shallow organize pass whenever new files settle. Stop it with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveTargetDir(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			categories, err := ctx.categoryMap()
			if err != nil {
				return err
			}

			logger, logCloser, err := ctx.newLogger(filepath.Join(target, organizer.LogFileName))
			if err != nil {
				return err
			}
			defer logCloser.Close()

			lock := flock.New(filepath.Join(target, organizer.LockFileName))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another tidy run is already organizing %s", target)
			}
			defer lock.Unlock()

			run := func(runCtx context.Context) error {
				org, err := organizer.New(target, categories, organizer.Options{Logger: logger})
				if err != nil {
					return err
				}
				started := time.Now()
				stats, ledger, err := org.Run(runCtx)
				if err != nil {
					return err
				}
				if stats.Organized == 0 && stats.Failed == 0 {
					return nil
				}
				if err := ledger.WriteFile(filepath.Join(target, organizer.LedgerFileName)); err != nil {
					logger.Warn("ledger not persisted", logging.Error(err))
				}
				if cfg.History.Enabled {
					recordHistory(cmd, cfg.History.Path, history.Run{
						Root:       target,
						StartedAt:  started,
						FinishedAt: time.Now(),
						Stats:      *stats,
					}, ledger, logger)
				}
				return nil
			}

			watcher, err := watch.New(target, categories,
				time.Duration(cfg.Watch.SettleMillis)*time.Millisecond, logger, run)
			if err != nil {
				return err
			}

			watchCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = watcher.Watch(watchCtx)
			if watchCtx.Err() != nil {
				// Interrupted by the user; a clean stop.
				return nil
			}
			return err
		},
	}
}
