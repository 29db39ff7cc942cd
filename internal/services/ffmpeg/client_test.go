package ffmpeg_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"trackmux/internal/services"
	"trackmux/internal/services/ffmpeg"
	"trackmux/internal/services/mocks"
)

func TestEncodePassesArgsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	args := []string{"-nostdin", "-y", "-i", "in.dts", "-c:a", "flac", "out.flac"}
	runner.EXPECT().Run(gomock.Any(), services.Command{Binary: "/usr/bin/ffmpeg", Args: args}).Return(services.Result{}, nil)

	client, err := ffmpeg.New("/usr/bin/ffmpeg", ffmpeg.WithRunner(runner))
	require.NoError(t, err)
	outcome, err := client.Encode(context.Background(), args)
	require.NoError(t, err)
	assert.Equal(t, services.OutcomeSuccess, outcome)
}

func TestEncodeNonZeroExitIsHard(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(services.Result{ExitCode: 1, Output: []byte("Unknown encoder 'libfdk_aac'")}, nil)

	client, err := ffmpeg.New("ffmpeg", ffmpeg.WithRunner(runner))
	require.NoError(t, err)
	outcome, err := client.Encode(context.Background(), []string{"-i", "a"})
	assert.Equal(t, services.OutcomeHardFailure, outcome)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrExternalTool))
	assert.Contains(t, err.Error(), "Unknown encoder")
}

func TestEncodeRejectsEmptyArgs(t *testing.T) {
	client, err := ffmpeg.New("ffmpeg")
	require.NoError(t, err)
	_, err = client.Encode(context.Background(), nil)
	require.Error(t, err)
}
