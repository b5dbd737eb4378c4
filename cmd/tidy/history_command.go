package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tidy/internal/history"
	"tidy/internal/organizer"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past organize runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format(time.DateTime),
					run.Root,
					runMode(run),
					strconv.Itoa(run.Stats.Organized),
					strconv.Itoa(run.Stats.Failed),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Started", "Target", "Mode", "Organized", "Failed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the recorded operations of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.FindRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ledger, err := store.RunOperations(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), struct {
					Run    history.Run      `json:"run"`
					Ledger organizer.Ledger `json:"ledger"`
				}{Run: *run, Ledger: ledger})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Run %s (%s, %s)\n", shortID(run.ID), run.Root, runMode(*run))
			rows := make([][]string, 0, len(ledger))
			for _, op := range ledger {
				rows = append(rows, []string{string(op.Status), op.Category, op.Source, op.Destination})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Status", "Category", "Source", "Destination"}, rows, nil))
			return nil
		},
	}
}

func openHistory(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return history.Open(cfg.History.Path)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runMode(run history.Run) string {
	mode := "shallow"
	if run.Recursive {
		mode = "recursive"
	}
	if run.DryRun {
		mode += " dry-run"
	}
	return mode
}
