package mkvtoolnix_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"trackmux/internal/services"
	"trackmux/internal/services/mkvtoolnix"
	"trackmux/internal/services/mocks"
)

func newClient(t *testing.T) (*mkvtoolnix.Client, *mocks.MockRunner) {
	t.Helper()
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	client, err := mkvtoolnix.New("mkvextract", "mkvmerge", mkvtoolnix.WithRunner(runner))
	require.NoError(t, err)
	return client, runner
}

func TestExtractBuildsCommand(t *testing.T) {
	client, runner := newClient(t)
	want := services.Command{
		Binary: "mkvextract",
		Args:   []string{"/in/a.mkv", "tracks", "1:audio_1_ja.aac", "3:subtitle_3_en.srt"},
		Dir:    "/tmp/work/1/tracks",
	}
	runner.EXPECT().Run(gomock.Any(), want).Return(services.Result{}, nil)

	outcome, err := client.Extract(context.Background(), "/in/a.mkv", "/tmp/work/1/tracks", mkvtoolnix.ModeTracks, []string{
		mkvtoolnix.TrackSpec(1, "audio_1_ja.aac"),
		mkvtoolnix.TrackSpec(3, "subtitle_3_en.srt"),
	})
	require.NoError(t, err)
	assert.Equal(t, services.OutcomeSuccess, outcome)
}

func TestExtractWithoutSpecsIsNoop(t *testing.T) {
	client, _ := newClient(t)
	outcome, err := client.Extract(context.Background(), "a.mkv", "/tmp", mkvtoolnix.ModeAttachments, nil)
	require.NoError(t, err)
	assert.Equal(t, services.OutcomeSuccess, outcome)
}

func TestExtractRejectsUnknownMode(t *testing.T) {
	client, _ := newClient(t)
	_, err := client.Extract(context.Background(), "a.mkv", "/tmp", mkvtoolnix.Mode("cues"), []string{"x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrValidation))
}

func TestExitCodeClassification(t *testing.T) {
	tests := []struct {
		name    string
		result  services.Result
		runErr  error
		want    services.Outcome
		wantErr bool
	}{
		{"success", services.Result{ExitCode: 0}, nil, services.OutcomeSuccess, false},
		{"warnings", services.Result{ExitCode: 1, Output: []byte("Warning: odd stream")}, nil, services.OutcomeSoftFailure, false},
		{"error", services.Result{ExitCode: 2, Output: []byte("Error: bad file")}, nil, services.OutcomeHardFailure, true},
		{"launch", services.Result{ExitCode: -1}, errors.New("exec: not found"), services.OutcomeHardFailure, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, runner := newClient(t)
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(tt.result, tt.runErr)

			outcome, err := client.Merge(context.Background(), "/tmp/work/1", []string{"-o", "out.mkv"})
			assert.Equal(t, tt.want, outcome)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, services.ErrExternalTool))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMergeErrorIncludesOutputTail(t *testing.T) {
	client, runner := newClient(t)
	runner.EXPECT().
		Run(gomock.Any(), services.Command{Binary: "mkvmerge", Args: []string{"-o", "out.mkv", "./tracks/video_0_und.hevc"}, Dir: "/w"}).
		Return(services.Result{ExitCode: 2, Output: []byte("line1\nError: no space left")}, nil)

	_, err := client.Merge(context.Background(), "/w", []string{"-o", "out.mkv", "./tracks/video_0_und.hevc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no space left")
}

func TestMergeRejectsEmptyArgs(t *testing.T) {
	client, _ := newClient(t)
	_, err := client.Merge(context.Background(), "/w", nil)
	require.Error(t, err)
}

func TestNewRequiresBinaries(t *testing.T) {
	_, err := mkvtoolnix.New("", "mkvmerge")
	require.Error(t, err)
}
