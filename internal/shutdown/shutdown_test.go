package shutdown_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"trackmux/internal/services"
	"trackmux/internal/services/mocks"
	"trackmux/internal/shutdown"
)

func TestRunSyncsThenRunsCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	synced := false

	runner.EXPECT().
		Run(gomock.Any(), services.Command{Binary: "systemctl", Args: []string{"poweroff"}}).
		DoAndReturn(func(context.Context, services.Command) (services.Result, error) {
			assert.True(t, synced, "sync must happen before the command")
			return services.Result{}, nil
		})

	s := shutdown.Shutter{
		Command: []string{"systemctl", "poweroff"},
		Runner:  runner,
		Sync:    func() { synced = true },
	}
	require.NoError(t, s.Run(context.Background()))
}

func TestRunReportsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		Return(services.Result{ExitCode: 1, Output: []byte("Access denied")}, nil)

	s := shutdown.Shutter{Command: []string{"systemctl", "poweroff"}, Runner: runner, Sync: func() {}}
	err := s.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrExternalTool))
	assert.Contains(t, err.Error(), "Access denied")
}

func TestRunWithoutCommand(t *testing.T) {
	err := shutdown.Shutter{}.Run(context.Background())
	assert.ErrorIs(t, err, shutdown.ErrNoCommand)
}
