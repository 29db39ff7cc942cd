package services

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks

// Outcome classifies how an external tool invocation ended.
type Outcome int

const (
	// OutcomeSuccess means the tool completed normally.
	OutcomeSuccess Outcome = iota
	// OutcomeSoftFailure means the tool finished with warnings; callers treat it as success.
	OutcomeSoftFailure
	// OutcomeHardFailure means the tool failed or could not be launched.
	OutcomeHardFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSoftFailure:
		return "soft_failure"
	default:
		return "hard_failure"
	}
}

// Succeeded reports whether the outcome allows the pipeline to continue.
func (o Outcome) Succeeded() bool {
	return o == OutcomeSuccess || o == OutcomeSoftFailure
}

// Command describes a single subprocess invocation.
type Command struct {
	Binary string
	Args   []string
	Dir    string
}

// String renders the command line for logs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Binary)
	for _, arg := range c.Args {
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			parts = append(parts, `"`+strings.ReplaceAll(arg, `"`, `\"`)+`"`)
			continue
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// Result captures the exit code and combined output of a finished process.
type Result struct {
	ExitCode int
	Output   []byte
}

// Runner executes commands. Implementations return an error only when the
// process could not be launched; a non-zero exit is reported through Result.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec. Once started, a process is allowed to
// finish even if ctx is cancelled.
type ExecRunner struct{}

// Run launches the command and waits for it to exit.
func (ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	c := exec.CommandContext(context.WithoutCancel(ctx), cmd.Binary, cmd.Args...) //nolint:gosec
	c.Dir = cmd.Dir
	output, err := c.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{ExitCode: exitErr.ExitCode(), Output: output}, nil
		}
		return Result{ExitCode: -1, Output: output}, err
	}
	return Result{Output: output}, nil
}

// Classifier maps an exit code to an Outcome.
type Classifier func(exitCode int) Outcome

// MKVToolNixOutcome follows the mkvtoolnix convention: 0 success, 1 warnings,
// anything else an error.
func MKVToolNixOutcome(exitCode int) Outcome {
	switch exitCode {
	case 0:
		return OutcomeSuccess
	case 1:
		return OutcomeSoftFailure
	default:
		return OutcomeHardFailure
	}
}

// StrictOutcome treats every non-zero exit as a hard failure.
func StrictOutcome(exitCode int) Outcome {
	if exitCode == 0 {
		return OutcomeSuccess
	}
	return OutcomeHardFailure
}

// Classify combines a Run result with a classifier. Launch failures are
// always hard failures.
func Classify(res Result, runErr error, classify Classifier) Outcome {
	if runErr != nil {
		return OutcomeHardFailure
	}
	if classify == nil {
		classify = StrictOutcome
	}
	return classify(res.ExitCode)
}

// TailOutput returns up to the last n lines of process output for error messages.
func TailOutput(output []byte, n int) string {
	text := strings.TrimSpace(string(output))
	if text == "" || n <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
