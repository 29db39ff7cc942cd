// Package hooks runs the user-supplied commands attached to pipeline stages.
//
// A hook is an argv list whose first element is the program path. Arguments
// may reference the current file through placeholders:
//
//	%i%    input file
//	%o%    output file
//	%t%    per-file temp directory
//	%log%  erased when file logging is on; the whole argument is dropped otherwise
//
// Hook failures never abort a file. They are logged and returned so callers
// can surface them.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"trackmux/internal/logging"
	"trackmux/internal/services"
)

// Stage names the pipeline point a hook runs at.
type Stage string

const (
	StagePreConvert  Stage = "pre_convert"
	StagePostConvert Stage = "post_convert"
	StagePreMux      Stage = "pre_mux"
	StagePostMux     Stage = "post_mux"
)

// Stages lists every stage in execution order.
func Stages() []Stage {
	return []Stage{StagePreConvert, StagePostConvert, StagePreMux, StagePostMux}
}

// ParseStage accepts a stage name, ignoring case and surrounding space.
func ParseStage(value string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Stages() {
		if stage == known {
			return stage, nil
		}
	}
	return "", fmt.Errorf("unknown hook stage %q", value)
}

// Command is one configured hook.
type Command struct {
	Stage   Stage    `toml:"stage"`
	Command []string `toml:"command"`
}

// Validate checks the stage name and that a program is given.
func (c *Command) Validate() error {
	stage, err := ParseStage(string(c.Stage))
	if err != nil {
		return err
	}
	c.Stage = stage
	if len(c.Command) == 0 || strings.TrimSpace(c.Command[0]) == "" {
		return fmt.Errorf("%s hook: command must name a program", stage)
	}
	return nil
}

// Vars carries the placeholder values for one file.
type Vars struct {
	Input         string
	Output        string
	Temp          string
	LoggingActive bool
}

// Expand applies placeholder substitution to hook arguments.
func Expand(args []string, vars Vars) []string {
	out := make([]string, 0, len(args))
	replacer := strings.NewReplacer("%i%", vars.Input, "%o%", vars.Output, "%t%", vars.Temp, "%log%", "")
	for _, arg := range args {
		if !vars.LoggingActive && strings.Contains(arg, "%log%") {
			continue
		}
		out = append(out, replacer.Replace(arg))
	}
	return out
}

// Runner executes the hooks configured for a profile.
type Runner struct {
	commands []Command
	exec     services.Runner
	logger   *slog.Logger
}

// NewRunner builds a hook runner. A nil exec uses services.ExecRunner.
func NewRunner(commands []Command, exec services.Runner, logger *slog.Logger) *Runner {
	if exec == nil {
		exec = services.ExecRunner{}
	}
	return &Runner{
		commands: commands,
		exec:     exec,
		logger:   logging.NewComponentLogger(logger, "hooks"),
	}
}

// ForStage returns the hooks configured for stage in profile order.
func (r *Runner) ForStage(stage Stage) []Command {
	if r == nil {
		return nil
	}
	var matched []Command
	for _, cmd := range r.commands {
		if cmd.Stage == stage {
			matched = append(matched, cmd)
		}
	}
	return matched
}

// Run executes every hook of stage sequentially. A hook whose program does
// not exist stops the rest of the stage. Launch failures and non-zero exits
// are collected in the returned error.
func (r *Runner) Run(ctx context.Context, stage Stage, vars Vars) error {
	commands := r.ForStage(stage)
	if len(commands) == 0 {
		return nil
	}
	logger := logging.WithContext(ctx, r.logger).With(logging.String("hook_stage", string(stage)))

	var errs []error
	for _, hook := range commands {
		program := hook.Command[0]
		if info, err := os.Stat(program); err != nil || info.IsDir() {
			logging.WarnWithContext(logger, "hook program not found", "hook_missing",
				logging.String("program", program),
				logging.String(logging.FieldErrorHint, "check the hook command path in the profile"),
				logging.String(logging.FieldImpact, "remaining hooks of this stage were skipped"),
			)
			errs = append(errs, services.Wrap(services.ErrNotFound, "hooks", string(stage), program, nil))
			break
		}

		cmd := services.Command{Binary: program, Args: Expand(hook.Command[1:], vars)}
		logger.Info("running hook", logging.String("command", cmd.String()))
		res, err := r.exec.Run(ctx, cmd)
		output := strings.TrimSpace(string(res.Output))
		if output != "" {
			logger.Debug("hook output", logging.String("output", output))
		}
		switch services.Classify(res, err, services.StrictOutcome) {
		case services.OutcomeSuccess:
			continue
		default:
			logging.WarnWithContext(logger, "hook failed", "hook_failed",
				logging.String("command", cmd.String()),
				logging.Int("exit_code", res.ExitCode),
				logging.Error(err),
				logging.String(logging.FieldImpact, "hook result ignored, processing continues"),
			)
			msg := fmt.Sprintf("%s exited with %d", program, res.ExitCode)
			errs = append(errs, services.Wrap(services.ErrExternalTool, "hooks", string(stage), msg, err))
		}
	}
	return errors.Join(errs...)
}
