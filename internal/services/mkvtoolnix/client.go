package mkvtoolnix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"trackmux/internal/logging"
	"trackmux/internal/services"
)

// Mode selects what mkvextract pulls out of a container.
type Mode string

const (
	ModeTracks      Mode = "tracks"
	ModeAttachments Mode = "attachments"
	ModeChapters    Mode = "chapters"
)

// ChaptersFile is the file name chapters are extracted to.
const ChaptersFile = "chapters.xml"

const outputTailLines = 10

// Option configures the client.
type Option func(*Client)

// WithRunner injects a custom command runner (primarily for tests).
func WithRunner(runner services.Runner) Option {
	return func(c *Client) {
		if runner != nil {
			c.runner = runner
		}
	}
}

// WithLogger sets the logger used for warnings and command traces.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client runs mkvextract and mkvmerge.
type Client struct {
	extractBinary string
	mergeBinary   string
	runner        services.Runner
	logger        *slog.Logger
}

// New constructs a client for the given binaries.
func New(extractBinary, mergeBinary string, opts ...Option) (*Client, error) {
	extractBinary = strings.TrimSpace(extractBinary)
	mergeBinary = strings.TrimSpace(mergeBinary)
	if extractBinary == "" || mergeBinary == "" {
		return nil, errors.New("mkvextract and mkvmerge binaries required")
	}
	client := &Client{
		extractBinary: extractBinary,
		mergeBinary:   mergeBinary,
		runner:        services.ExecRunner{},
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "mkvtoolnix")
	return client, nil
}

// TrackSpec formats an mkvextract tracks argument.
func TrackSpec(id int64, fileName string) string {
	return strconv.FormatInt(id, 10) + ":" + fileName
}

// AttachmentSpec formats an mkvextract attachments argument.
func AttachmentSpec(id int64, name string) string {
	return strconv.FormatInt(id, 10) + ":" + name
}

// Extract runs mkvextract in workDir. Relative output names in specs are
// resolved against workDir. An empty spec list is a no-op.
func (c *Client) Extract(ctx context.Context, input, workDir string, mode Mode, specs []string) (services.Outcome, error) {
	if len(specs) == 0 {
		return services.OutcomeSuccess, nil
	}
	switch mode {
	case ModeTracks, ModeAttachments, ModeChapters:
	default:
		return services.OutcomeHardFailure, services.Wrap(services.ErrValidation, "mkvextract", "extract", fmt.Sprintf("unsupported mode %q", mode), nil)
	}
	args := make([]string, 0, len(specs)+2)
	args = append(args, input, string(mode))
	args = append(args, specs...)
	return c.run(ctx, "extract "+string(mode), services.Command{Binary: c.extractBinary, Args: args, Dir: workDir})
}

// Merge runs mkvmerge in workDir with a fully assembled argument list.
func (c *Client) Merge(ctx context.Context, workDir string, args []string) (services.Outcome, error) {
	if len(args) == 0 {
		return services.OutcomeHardFailure, services.Wrap(services.ErrValidation, "mkvmerge", "merge", "empty argument list", nil)
	}
	return c.run(ctx, "merge", services.Command{Binary: c.mergeBinary, Args: args, Dir: workDir})
}

func (c *Client) run(ctx context.Context, operation string, cmd services.Command) (services.Outcome, error) {
	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("running command", logging.String("command", cmd.String()), logging.String("dir", cmd.Dir))

	res, err := c.runner.Run(ctx, cmd)
	outcome := services.Classify(res, err, services.MKVToolNixOutcome)
	switch outcome {
	case services.OutcomeSuccess:
		return outcome, nil
	case services.OutcomeSoftFailure:
		logging.WarnWithContext(logger, "mkvtoolnix finished with warnings", "mkvtoolnix_warning",
			logging.String("operation", operation),
			logging.Int("exit_code", res.ExitCode),
			logging.String("output", services.TailOutput(res.Output, outputTailLines)),
			logging.String(logging.FieldImpact, "output kept; review the tool warnings"),
		)
		return outcome, nil
	}

	if err == nil {
		err = fmt.Errorf("exit status %d: %s", res.ExitCode, services.TailOutput(res.Output, outputTailLines))
	}
	return outcome, services.Wrap(services.ErrExternalTool, cmd.Binary, operation, "", err)
}
