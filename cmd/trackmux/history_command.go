package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"trackmux/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded batch runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Journal.Enabled {
				return errors.New("journal is disabled (set journal.enabled = true)")
			}
			store, err := journal.Open(cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if id := strings.TrimSpace(runID); id != "" {
				run, err := store.GetRun(cmd.Context(), id)
				if err != nil {
					return err
				}
				files, err := store.Files(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Run %s (%s) started %s\n", run.ID, run.Status, run.StartedAt.Local().Format("2006-01-02 15:04"))
				fmt.Fprintln(out, renderFiles(files))
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show the files of one run")
	return cmd
}

func renderRuns(runs []journal.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			string(run.Status),
			strconv.Itoa(run.Total),
			strconv.Itoa(run.Succeeded),
			strconv.Itoa(run.Failed),
			strconv.Itoa(run.Skipped),
			formatDuration(run.Duration()),
			filepath.Base(run.ProfilePath),
		})
	}
	return renderTable(
		[]string{"Run", "Started", "Status", "Total", "OK", "Failed", "Skipped", "Time", "Profile"},
		rows,
		3, 4, 5, 6, 7,
	)
}

func renderFiles(files []journal.File) string {
	rows := make([][]string, 0, len(files))
	for _, file := range files {
		detail := file.ErrorMessage
		if file.FailureKind != "" {
			detail = file.FailureKind + ": " + detail
		}
		rows = append(rows, []string{
			strconv.FormatInt(file.FileID, 10),
			filepath.Base(file.InputPath),
			filepath.Base(file.OutputPath),
			string(file.Status),
			formatDuration(file.FinishedAt.Sub(file.StartedAt)),
			detail,
		})
	}
	return renderTable(
		[]string{"ID", "Input", "Output", "Status", "Time", "Error"},
		rows,
		0, 4,
	)
}
