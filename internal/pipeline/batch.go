package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"trackmux/internal/config"
	"trackmux/internal/hooks"
	"trackmux/internal/journal"
	"trackmux/internal/logging"
	"trackmux/internal/matcher"
	"trackmux/internal/notifications"
	"trackmux/internal/profile"
	"trackmux/internal/services"
	"trackmux/internal/shutdown"
)

const lockFileName = ".trackmux.lock"

// Shutdowner powers the machine off after a batch.
type Shutdowner interface {
	Run(ctx context.Context) error
}

// Options wires a Batch.
type Options struct {
	Config  *config.Config
	Profile *profile.Profile
	Logger  *slog.Logger
	Tools   Toolchain
	// Runner executes hooks and the shutdown command. Nil uses services.ExecRunner.
	Runner services.Runner
	// Journal is optional; without it nothing is recorded and
	// batch.skip_completed has no effect.
	Journal  *journal.Store
	Notifier notifications.Service
	// Shutdown overrides the configured shutdown command (primarily for tests).
	Shutdown Shutdowner
}

// FileResult is the outcome of one matched pair.
type FileResult struct {
	Pair     matcher.Pair
	FileID   int64
	Status   journal.FileStatus
	Err      error
	Duration time.Duration
}

// Summary describes a finished batch.
type Summary struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Duration  time.Duration
	// Aborted is set when a failure stopped the batch before every file ran.
	Aborted bool
	Results []FileResult
}

// Batch processes files for one profile.
type Batch struct {
	cfg      *config.Config
	profile  *profile.Profile
	logger   *slog.Logger
	tools    Toolchain
	hooks    *hooks.Runner
	journal  *journal.Store
	notifier notifications.Service
	shutdown Shutdowner
	lock     *flock.Flock

	nextID atomic.Int64
}

// New validates opts and builds a Batch.
func New(opts Options) (*Batch, error) {
	if opts.Config == nil || opts.Profile == nil {
		return nil, errors.New("pipeline requires config and profile")
	}
	if err := opts.Tools.validate(); err != nil {
		return nil, err
	}
	logger := logging.NewComponentLogger(opts.Logger, "pipeline")
	runner := opts.Runner
	if runner == nil {
		runner = services.ExecRunner{}
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(nil)
	}
	shutter := opts.Shutdown
	if shutter == nil {
		shutter = shutdown.Shutter{Command: opts.Config.Shutdown.Command, Runner: runner, Logger: opts.Logger}
	}
	return &Batch{
		cfg:      opts.Config,
		profile:  opts.Profile,
		logger:   logger,
		tools:    opts.Tools,
		hooks:    hooks.NewRunner(opts.Profile.Misc.Hooks, runner, opts.Logger),
		journal:  opts.Journal,
		notifier: notifier,
		shutdown: shutter,
		lock:     flock.New(filepath.Join(opts.Config.Paths.TempDir, lockFileName)),
	}, nil
}

func (b *Batch) acquire() (func(), error) {
	if err := os.MkdirAll(b.cfg.Paths.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	ok, err := b.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire temp lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBatchLocked, b.cfg.Paths.TempDir)
	}
	return func() {
		if err := b.lock.Unlock(); err != nil {
			b.logger.Warn("failed to release temp lock", logging.Error(err))
		}
	}, nil
}

// ProcessFile runs the full pipeline for a single input.
func (b *Batch) ProcessFile(ctx context.Context, input, output, title string) error {
	release, err := b.acquire()
	if err != nil {
		return err
	}
	defer release()
	return b.process(ctx, b.nextID.Add(1), input, output, title)
}

// Plan returns the pairs a Run would process without touching any file.
func (b *Batch) Plan() ([]matcher.Pair, error) {
	opts, err := b.profile.MatcherOptions()
	if err != nil {
		return nil, err
	}
	return matcher.Match(opts)
}

// Run matches the profile's inputs to its name list and processes every
// pair. A count mismatch fails before any file is touched. The returned
// error wraps ErrFilesFailed when any file failed; the summary is valid
// in that case.
//
// When the profile asks for it the machine is shut down afterwards,
// whatever the outcome.
func (b *Batch) Run(ctx context.Context) (Summary, error) {
	summary, err := b.run(ctx)
	if b.profile.Misc.ShutdownOnCompletion {
		b.powerOff(ctx, summary.RunID)
	}
	return summary, err
}

func (b *Batch) powerOff(ctx context.Context, runID string) {
	if runID != "" {
		ctx = services.WithRunID(ctx, runID)
	}
	if err := b.shutdown.Run(context.WithoutCancel(ctx)); err != nil {
		logging.ErrorWithContext(logging.WithContext(ctx, b.logger), "shutdown failed", "shutdown_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check shutdown.command in config.toml"),
		)
	}
}

func (b *Batch) run(ctx context.Context) (Summary, error) {
	pairs, err := b.Plan()
	if err != nil {
		return Summary{}, err
	}
	release, err := b.acquire()
	if err != nil {
		return Summary{}, err
	}
	defer release()

	summary := Summary{RunID: uuid.NewString(), Total: len(pairs), Results: make([]FileResult, len(pairs))}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, b.logger)
	started := time.Now()

	b.startRun(ctx, logger, summary, started)
	if err := b.notifier.NotifyBatchStarted(ctx, len(pairs)); err != nil {
		logger.Debug("batch start notification failed", logging.Error(err))
	}
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.Int("files", len(pairs)),
		logging.Int("workers", b.profile.Batch.Workers),
	)

	if b.profile.Batch.Workers > 1 {
		b.runParallel(ctx, pairs, summary.Results)
	} else {
		b.runSequential(ctx, pairs, summary.Results)
	}

	for _, res := range summary.Results {
		switch res.Status {
		case journal.FileSucceeded:
			summary.Succeeded++
		case journal.FileFailed:
			summary.Failed++
		case journal.FileSkipped:
			summary.Skipped++
		default: // FileAborted or never started
			summary.Aborted = true
		}
	}
	summary.Duration = time.Since(started)

	b.finishRun(ctx, logger, summary, started)
	stats := notifications.BatchStats{
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		Skipped:   summary.Skipped,
		Duration:  summary.Duration,
		Aborted:   summary.Aborted,
	}
	if err := b.notifier.NotifyBatchCompleted(ctx, stats); err != nil {
		logger.Debug("batch completion notification failed", logging.Error(err))
	}
	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Bool("aborted", summary.Aborted),
		logging.Duration("duration", summary.Duration),
	)

	if summary.Failed > 0 {
		return summary, fmt.Errorf("%w: %d of %d", ErrFilesFailed, summary.Failed, summary.Total)
	}
	if summary.Aborted {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (b *Batch) runSequential(ctx context.Context, pairs []matcher.Pair, results []FileResult) {
	for i, pair := range pairs {
		if ctx.Err() != nil {
			return
		}
		results[i] = b.runPair(ctx, pair)
		if b.halts(results[i]) {
			return
		}
	}
}

func (b *Batch) runParallel(ctx context.Context, pairs []matcher.Pair, results []FileResult) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.profile.Batch.Workers)
	for i, pair := range pairs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			results[i] = b.runPair(gctx, pair)
			if b.halts(results[i]) {
				return results[i].Err
			}
			return nil
		})
	}
	_ = g.Wait()
}

// halts reports whether res stops the remaining files. Conversion
// failures only ever cost their own file.
func (b *Batch) halts(res FileResult) bool {
	if res.Status != journal.FileFailed || b.profile.Batch.ContinueOnError {
		return false
	}
	return !errors.Is(res.Err, ErrConversionFailed)
}

func (b *Batch) runPair(ctx context.Context, pair matcher.Pair) FileResult {
	res := FileResult{Pair: pair}
	started := time.Now()
	logger := logging.WithContext(ctx, b.logger)

	if b.profile.Batch.SkipCompleted && b.journal != nil {
		done, err := b.journal.Completed(ctx, pair.Input, pair.Output)
		if err != nil {
			logger.Warn("journal lookup failed", logging.String("input", pair.Input), logging.Error(err))
		}
		if done {
			logger.Info("skipping completed file",
				logging.String(logging.FieldEventType, "file_skipped"),
				logging.String("input", pair.Input),
				logging.String("output", pair.Output),
			)
			res.Status = journal.FileSkipped
			b.record(ctx, logger, res, started)
			return res
		}
	}

	res.FileID = b.nextID.Add(1)
	res.Err = b.process(ctx, res.FileID, pair.Input, pair.Output, pair.Title)
	res.Duration = time.Since(started)
	switch {
	case res.Err != nil && ctx.Err() != nil && errors.Is(res.Err, ctx.Err()):
		res.Status = journal.FileAborted
		logger.Info("file aborted",
			logging.String(logging.FieldEventType, "file_aborted"),
			logging.String("input", pair.Input),
			logging.Int64("file_id", res.FileID),
		)
	case res.Err != nil:
		res.Status = journal.FileFailed
		fileLogger := logging.WithContext(services.WithFileID(ctx, res.FileID), b.logger)
		logging.ErrorWithContext(fileLogger, "file failed", "file_failed",
			logging.String("input", pair.Input),
			logging.String("failure_kind", services.FailureKind(res.Err)),
			logging.Error(res.Err),
			logging.String(logging.FieldErrorHint, failureHint(res.Err)),
		)
		if err := b.notifier.NotifyFileFailed(ctx, pair.Input, res.Err); err != nil {
			logger.Debug("file failure notification failed", logging.Error(err))
		}
	default:
		res.Status = journal.FileSucceeded
	}
	b.record(ctx, logger, res, started)
	return res
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, ErrQuotaMismatch):
		return "adjust the retain counts or filters in the profile"
	case errors.Is(err, services.ErrUnsupported):
		return "disable misc.strict_codecs or remove the unsupported setting"
	case errors.Is(err, services.ErrExternalTool):
		return "inspect the tool output above; rerun with --log-level debug for the full command"
	default:
		return "rerun with --log-level debug for details"
	}
}

func (b *Batch) startRun(ctx context.Context, logger *slog.Logger, summary Summary, started time.Time) {
	if b.journal == nil {
		return
	}
	run := journal.Run{
		ID:          summary.RunID,
		ProfilePath: b.profile.Path(),
		Status:      journal.RunRunning,
		StartedAt:   started,
		Total:       summary.Total,
	}
	if err := b.journal.StartRun(ctx, run); err != nil {
		logger.Warn("failed to record run start", logging.Error(err))
	}
}

func (b *Batch) finishRun(ctx context.Context, logger *slog.Logger, summary Summary, started time.Time) {
	if b.journal == nil {
		return
	}
	status := journal.RunSucceeded
	if summary.Failed > 0 || summary.Aborted {
		status = journal.RunFailed
	}
	run := journal.Run{
		ID:          summary.RunID,
		ProfilePath: b.profile.Path(),
		Status:      status,
		StartedAt:   started,
		FinishedAt:  started.Add(summary.Duration),
		Total:       summary.Total,
		Succeeded:   summary.Succeeded,
		Failed:      summary.Failed,
		Skipped:     summary.Skipped,
	}
	if err := b.journal.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("failed to record run result", logging.Error(err))
	}
}

func (b *Batch) record(ctx context.Context, logger *slog.Logger, res FileResult, started time.Time) {
	if b.journal == nil {
		return
	}
	runID, _ := services.RunIDFromContext(ctx)
	entry := journal.File{
		RunID:       runID,
		FileID:      res.FileID,
		InputPath:   res.Pair.Input,
		OutputPath:  res.Pair.Output,
		Title:       res.Pair.Title,
		Status:      res.Status,
		FailureKind: services.FailureKind(res.Err),
		StartedAt:   started,
		FinishedAt:  started.Add(res.Duration),
	}
	if res.Err != nil {
		entry.ErrorMessage = res.Err.Error()
	}
	if err := b.journal.RecordFile(context.WithoutCancel(ctx), entry); err != nil {
		logger.Warn("failed to record file result", logging.String("input", res.Pair.Input), logging.Error(err))
	}
}
