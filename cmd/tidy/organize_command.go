package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"tidy/internal/history"
	"tidy/internal/logging"
	"tidy/internal/organizer"
)

type organizeReport struct {
	Target   string                    `json:"target"`
	DryRun   bool                      `json:"dry_run"`
	Stats    *organizer.Stats          `json:"stats"`
	Summary  []organizer.CategoryCount `json:"summary"`
	Ledger   organizer.Ledger          `json:"ledger"`
	LedgerAt string                    `json:"ledger_path,omitempty"`
}

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var recursive, dryRun bool

	cmd := &cobra.Command{
		Use:   "organize <directory>",
		Short: "Sort the files of a directory into category folders",
		Long: `Organize classifies each file by extension and moves it into a category
subfolder (Images, Documents, ... Others). With --recursive, files in
subdirectories are flattened into the category folders at the target root.
A dry run reports every planned move without touching the filesystem.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveTargetDir(args[0])
			if err != nil {
				return err
			}
			categories, err := ctx.categoryMap()
			if err != nil {
				return err
			}

			// Dry runs leave no trace: no log file, no lock file.
			var logPaths []string
			if !dryRun {
				logPaths = append(logPaths, filepath.Join(target, organizer.LogFileName))
			}
			logger, logCloser, err := ctx.newLogger(logPaths...)
			if err != nil {
				return err
			}
			defer logCloser.Close()

			if !dryRun {
				lock := flock.New(filepath.Join(target, organizer.LockFileName))
				locked, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire run lock: %w", err)
				}
				if !locked {
					return fmt.Errorf("another tidy run is already organizing %s", target)
				}
				defer lock.Unlock()
			}

			org, err := organizer.New(target, categories, organizer.Options{
				DryRun:    dryRun,
				Recursive: recursive,
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			started := time.Now()
			stats, ledger, err := org.Run(cmd.Context())
			if err != nil {
				return err
			}
			finished := time.Now()

			ledgerPath := ""
			if !dryRun {
				ledgerPath = filepath.Join(target, organizer.LedgerFileName)
				if err := ledger.WriteFile(ledgerPath); err != nil {
					logger.Warn("ledger not persisted", logging.Error(err))
					ledgerPath = ""
				}
			}

			cfg, _ := ctx.ensureConfig()
			if cfg.History.Enabled {
				recordHistory(cmd, cfg.History.Path, history.Run{
					Root:       target,
					DryRun:     dryRun,
					Recursive:  recursive,
					StartedAt:  started,
					FinishedAt: finished,
					Stats:      *stats,
				}, ledger, logger)
			}

			if ctx.jsonOutput() {
				if err := writeJSON(cmd.OutOrStdout(), organizeReport{
					Target:   target,
					DryRun:   dryRun,
					Stats:    stats,
					Summary:  ledger.CategorySummary(),
					Ledger:   ledger,
					LedgerAt: ledgerPath,
				}); err != nil {
					return err
				}
			} else {
				printRunReport(cmd, target, dryRun, stats, ledger, ledgerPath)
			}

			// Dry runs always exit zero; real runs fail on failed operations.
			if !dryRun && stats.Failed > 0 {
				return fmt.Errorf("%d operations failed", stats.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Organize files in subdirectories as well")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview planned moves without moving anything")
	return cmd
}

func resolveTargetDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("directory does not exist: %s", abs)
		}
		return "", fmt.Errorf("inspect directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

// recordHistory persists the run, downgrading storage problems to warnings:
// a broken history database never invalidates a completed organization.
func recordHistory(cmd *cobra.Command, path string, run history.Run, ledger organizer.Ledger, logger *slog.Logger) {
	store, err := history.Open(path)
	if err != nil {
		logger.Warn("history unavailable", logging.Args(logging.Error(err))...)
		return
	}
	defer store.Close()
	if _, err := store.RecordRun(cmd.Context(), run, ledger); err != nil {
		logger.Warn("history not recorded", logging.Args(logging.Error(err))...)
	}
}

func printRunReport(cmd *cobra.Command, target string, dryRun bool, stats *organizer.Stats, ledger organizer.Ledger, ledgerPath string) {
	out := cmd.OutOrStdout()

	if dryRun {
		color.New(color.FgYellow).Fprintln(out, "Dry run: no files were moved")
	}

	rows := [][]string{
		{"Total files", strconv.Itoa(stats.TotalFiles)},
		{"Organized", strconv.Itoa(stats.Organized)},
		{"Skipped", strconv.Itoa(stats.Skipped)},
		{"Failed", strconv.Itoa(stats.Failed)},
	}
	if dryRun {
		rows = append(rows, []string{"Categories to create", strconv.Itoa(stats.CategoriesPlanned)})
	} else {
		rows = append(rows, []string{"Categories created", strconv.Itoa(stats.CategoriesCreated)})
	}
	if stats.Directories > 0 {
		rows = append(rows, []string{"Directories walked", strconv.Itoa(stats.Directories)})
	}
	rows = append(rows, []string{"Data organized", humanize.Bytes(uint64(stats.BytesOrganized))})

	fmt.Fprintf(out, "Organized %s\n", target)
	fmt.Fprintln(out, renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))

	if summary := ledger.CategorySummary(); len(summary) > 0 {
		summaryRows := make([][]string, 0, len(summary))
		for _, entry := range summary {
			summaryRows = append(summaryRows, []string{entry.Category, strconv.Itoa(entry.Files)})
		}
		fmt.Fprintln(out, renderTable([]string{"Category", "Files"}, summaryRows, []columnAlignment{alignLeft, alignRight}))
	}

	if stats.Failed > 0 {
		red := color.New(color.FgRed)
		for _, op := range ledger {
			if op.Status == organizer.OutcomeFailed {
				red.Fprintf(out, "failed: %s (%s)\n", op.Source, op.Error)
			}
		}
	}

	if ledgerPath != "" {
		fmt.Fprintf(out, "Ledger: %s\n", ledgerPath)
	}
}
