// Package shutdown powers the machine off after a batch when the profile
// asks for it.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"

	"trackmux/internal/logging"
	"trackmux/internal/services"
)

// ErrNoCommand is returned when shutdown is requested without a command.
var ErrNoCommand = errors.New("shutdown command not configured")

// Shutter flushes filesystem buffers and runs the configured command.
type Shutter struct {
	Command []string
	Runner  services.Runner
	Logger  *slog.Logger
	// Sync flushes pending writes before the command runs. Nil uses unix.Sync.
	Sync func()
}

// Run flushes filesystems and executes the shutdown command. Failures are
// returned for the caller to log; they never affect the batch result.
func (s Shutter) Run(ctx context.Context) error {
	if len(s.Command) == 0 {
		return ErrNoCommand
	}
	runner := s.Runner
	if runner == nil {
		runner = services.ExecRunner{}
	}
	sync := s.Sync
	if sync == nil {
		sync = unix.Sync
	}
	logger := logging.NewComponentLogger(s.Logger, "shutdown")

	sync()
	cmd := services.Command{Binary: s.Command[0], Args: s.Command[1:]}
	logger.Info("shutting down", logging.String("command", cmd.String()))
	res, err := runner.Run(ctx, cmd)
	if services.Classify(res, err, services.StrictOutcome) != services.OutcomeSuccess {
		msg := fmt.Sprintf("exit code %d: %s", res.ExitCode, services.TailOutput(res.Output, 5))
		return services.Wrap(services.ErrExternalTool, "shutdown", cmd.Binary, msg, err)
	}
	return nil
}
