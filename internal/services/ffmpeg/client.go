// Package ffmpeg runs ffmpeg encodes for audio track conversion.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"trackmux/internal/logging"
	"trackmux/internal/services"
)

const outputTailLines = 15

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

// WithLogger sets the logger used for command traces.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client invokes the ffmpeg binary.
type Client struct {
	binary string
	runner services.Runner
	logger *slog.Logger
}

// New constructs an ffmpeg client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{binary: binary, runner: services.ExecRunner{}, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "ffmpeg")
	return client, nil
}

// Encode runs ffmpeg with args. Any non-zero exit is a hard failure.
func (c *Client) Encode(ctx context.Context, args []string) (services.Outcome, error) {
	if len(args) == 0 {
		return services.OutcomeHardFailure, services.Wrap(services.ErrValidation, "ffmpeg", "encode", "empty argument list", nil)
	}
	cmd := services.Command{Binary: c.binary, Args: args}
	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("running command", logging.String("command", cmd.String()))

	res, err := c.runner.Run(ctx, cmd)
	outcome := services.Classify(res, err, services.StrictOutcome)
	if outcome.Succeeded() {
		return outcome, nil
	}
	if err == nil {
		err = fmt.Errorf("exit status %d: %s", res.ExitCode, services.TailOutput(res.Output, outputTailLines))
	}
	return outcome, services.Wrap(services.ErrExternalTool, "ffmpeg", "encode", "", err)
}
