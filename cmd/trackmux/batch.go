package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"trackmux/internal/journal"
	"trackmux/internal/notifications"
	"trackmux/internal/pipeline"
	"trackmux/internal/preflight"
	"trackmux/internal/profile"
	"trackmux/internal/services"
	"trackmux/internal/textutil"
)

// newBatch runs preflight checks and wires a pipeline for prof. The
// returned closer releases the journal.
func (c *commandContext) newBatch(prof *profile.Profile) (*pipeline.Batch, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	if err := preflight.Error(preflight.RunAll(cfg, prof)); err != nil {
		return nil, nil, err
	}

	runner := services.ExecRunner{}
	tools, err := pipeline.NewToolchain(cfg, runner, logger)
	if err != nil {
		return nil, nil, err
	}

	closer := func() {}
	var store *journal.Store
	if cfg.Journal.Enabled {
		store, err = journal.Open(cfg.Journal.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open journal: %w", err)
		}
		closer = func() { _ = store.Close() }
	}

	batch, err := pipeline.New(pipeline.Options{
		Config:   cfg,
		Profile:  prof,
		Logger:   logger,
		Tools:    tools,
		Runner:   runner,
		Journal:  store,
		Notifier: notifications.NewService(cfg),
	})
	if err != nil {
		closer()
		return nil, nil, err
	}
	return batch, closer, nil
}

func renderSummary(summary pipeline.Summary) string {
	rows := make([][]string, 0, len(summary.Results))
	for i, res := range summary.Results {
		status := string(res.Status)
		if status == "" {
			status = "not run"
		}
		detail := ""
		if res.Err != nil {
			detail = res.Err.Error()
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			filepath.Base(res.Pair.Input),
			filepath.Base(res.Pair.Output),
			status,
			formatDuration(res.Duration),
			detail,
		})
	}

	var b strings.Builder
	b.WriteString(renderTable(
		[]string{"#", "Input", "Output", "Status", "Time", "Error"},
		rows,
		0, 4,
	))
	fmt.Fprintf(&b, "\nRun %s: %d succeeded, %d failed, %d skipped in %s (aborted: %s)\n",
		summary.RunID, summary.Succeeded, summary.Failed, summary.Skipped,
		formatDuration(summary.Duration), textutil.Ternary(summary.Aborted, "yes", "no"))
	return b.String()
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}
