package hooks_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"trackmux/internal/hooks"
	"trackmux/internal/services"
	"trackmux/internal/services/mocks"
)

func writeProgram(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}

func TestExpand(t *testing.T) {
	vars := hooks.Vars{Input: "/in/a.mkv", Output: "/out/01 - A.mkv", Temp: "/tmp/work/1"}
	args := []string{"--in=%i%", "%o%", "%t%/tracks", "--log=%log%x"}

	got := hooks.Expand(args, vars)
	assert.Equal(t, []string{"--in=/in/a.mkv", "/out/01 - A.mkv", "/tmp/work/1/tracks"}, got)

	vars.LoggingActive = true
	got = hooks.Expand(args, vars)
	assert.Equal(t, []string{"--in=/in/a.mkv", "/out/01 - A.mkv", "/tmp/work/1/tracks", "--log=x"}, got)
}

func TestParseStage(t *testing.T) {
	stage, err := hooks.ParseStage(" Post_Mux ")
	require.NoError(t, err)
	assert.Equal(t, hooks.StagePostMux, stage)

	_, err = hooks.ParseStage("during_mux")
	assert.Error(t, err)
}

func TestCommandValidate(t *testing.T) {
	cmd := hooks.Command{Stage: "PRE_MUX", Command: []string{"/bin/true"}}
	require.NoError(t, cmd.Validate())
	assert.Equal(t, hooks.StagePreMux, cmd.Stage)

	empty := hooks.Command{Stage: hooks.StagePreMux}
	assert.Error(t, empty.Validate())
}

func TestRunOnlyMatchingStage(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockRunner(ctrl)
	program := writeProgram(t, "notify")

	commands := []hooks.Command{
		{Stage: hooks.StagePreConvert, Command: []string{program, "pre", "%i%"}},
		{Stage: hooks.StagePostConvert, Command: []string{program, "post"}},
	}
	runner := hooks.NewRunner(commands, exec, nil)

	exec.EXPECT().Run(gomock.Any(), services.Command{Binary: program, Args: []string{"post"}}).
		Return(services.Result{Output: []byte("ok")}, nil)

	require.NoError(t, runner.Run(context.Background(), hooks.StagePostConvert, hooks.Vars{Input: "/in/a.mkv"}))
	require.NoError(t, runner.Run(context.Background(), hooks.StagePostMux, hooks.Vars{}))
}

func TestRunMissingProgramSkipsRestOfStage(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockRunner(ctrl)
	program := writeProgram(t, "later")

	commands := []hooks.Command{
		{Stage: hooks.StagePreMux, Command: []string{filepath.Join(t.TempDir(), "missing")}},
		{Stage: hooks.StagePreMux, Command: []string{program}},
	}
	runner := hooks.NewRunner(commands, exec, nil)

	err := runner.Run(context.Background(), hooks.StagePreMux, hooks.Vars{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func TestRunReportsFailuresAndContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockRunner(ctrl)
	first := writeProgram(t, "first")
	second := writeProgram(t, "second")

	commands := []hooks.Command{
		{Stage: hooks.StagePostMux, Command: []string{first}},
		{Stage: hooks.StagePostMux, Command: []string{second, "%o%"}},
	}
	runner := hooks.NewRunner(commands, exec, nil)

	gomock.InOrder(
		exec.EXPECT().Run(gomock.Any(), services.Command{Binary: first, Args: []string{}}).
			Return(services.Result{ExitCode: 2, Output: []byte("boom")}, nil),
		exec.EXPECT().Run(gomock.Any(), services.Command{Binary: second, Args: []string{"/out/x.mkv"}}).
			Return(services.Result{}, nil),
	)

	err := runner.Run(context.Background(), hooks.StagePostMux, hooks.Vars{Output: "/out/x.mkv"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrExternalTool))
}
