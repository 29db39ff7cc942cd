package convert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackmux/internal/media"
	"trackmux/internal/services"
)

func intPtr(v int) *int { return &v }

func TestAudioCodecExtensions(t *testing.T) {
	want := map[AudioCodec]string{
		AudioAAC:       "aac",
		AudioAACLibfdk: "aac",
		AudioAC3:       "ac3",
		AudioFLAC:      "flac",
		AudioMP2:       "mp2",
		AudioMP3Lame:   "mp3",
		AudioMP3Shine:  "mp3",
		AudioOpus:      "opus",
		AudioVorbis:    "ogg",
		AudioWavPack:   "wv",
	}
	for _, codec := range AudioCodecs() {
		ext, ok := want[codec]
		require.Truef(t, ok, "codec %s missing from expectations", codec)
		assert.Equal(t, ext, codec.Extension(), "codec %s", codec)
		assert.NotEqual(t, media.CodecUnknown, codec.Codec())
	}
	assert.Len(t, AudioCodecs(), len(want))
}

func TestParseAudioCodec(t *testing.T) {
	tests := map[string]AudioCodec{
		"opus":       AudioOpus,
		" LibOpus ":  AudioOpus,
		"mp3":        AudioMP3Lame,
		"libfdk_aac": AudioAACLibfdk,
		"flac":       AudioFLAC,
	}
	for in, want := range tests {
		got, ok := ParseAudioCodec(in)
		if !ok || got != want {
			t.Fatalf("ParseAudioCodec(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseAudioCodec("pcm"); ok {
		t.Fatal("expected unknown codec to fail")
	}
}

func TestAudioArgs(t *testing.T) {
	params := AudioParams{
		Codec:            AudioOpus,
		Bitrate:          128,
		Channels:         2,
		CompressionLevel: intPtr(10),
		VBR:              "constrained",
		Threads:          4,
	}
	args, err := params.Args("in.flac", "out.opus")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"-nostdin", "-y",
		"-threads", "4",
		"-i", "in.flac",
		"-c:a", "libopus",
		"-ac", "2",
		"-b:a", "128k",
		"-compression_level", "10",
		"-vbr", "constrained",
		"out.opus",
	}, args)
}

func TestAudioArgsMinimal(t *testing.T) {
	args, err := AudioParams{Codec: AudioFLAC}.Args("a.dts", "a.flac")
	require.NoError(t, err)
	assert.Equal(t, []string{"-nostdin", "-y", "-i", "a.dts", "-c:a", "flac", "a.flac"}, args)
}

func TestAudioArgsWithoutCodec(t *testing.T) {
	_, err := AudioParams{}.Args("a", "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrValidation))
}

func TestAudioValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  AudioParams
		wantErr bool
	}{
		{"disabled", AudioParams{VBR: "nonsense"}, false},
		{"opus vbr", AudioParams{Codec: AudioOpus, VBR: "on"}, false},
		{"opus bad vbr", AudioParams{Codec: AudioOpus, VBR: "3"}, true},
		{"opus compression high", AudioParams{Codec: AudioOpus, CompressionLevel: intPtr(11)}, true},
		{"fdk vbr", AudioParams{Codec: AudioAACLibfdk, VBR: "5"}, false},
		{"fdk vbr range", AudioParams{Codec: AudioAACLibfdk, VBR: "6"}, true},
		{"fdk compression", AudioParams{Codec: AudioAACLibfdk, CompressionLevel: intPtr(1)}, true},
		{"flac compression", AudioParams{Codec: AudioFLAC, CompressionLevel: intPtr(12)}, false},
		{"flac compression range", AudioParams{Codec: AudioFLAC, CompressionLevel: intPtr(13)}, true},
		{"flac vbr", AudioParams{Codec: AudioFLAC, VBR: "on"}, true},
		{"ac3 vbr", AudioParams{Codec: AudioAC3, VBR: "on"}, true},
		{"negative bitrate", AudioParams{Codec: AudioAC3, Bitrate: -1}, true},
		{"unknown", AudioParams{Codec: "pcm_s16le"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, services.ErrValidation))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNormalizeResolvesAliases(t *testing.T) {
	params := AudioParams{Codec: "Opus", VBR: " ON "}
	require.NoError(t, params.Normalize())
	assert.Equal(t, AudioOpus, params.Codec)
	assert.Equal(t, "on", params.VBR)

	bad := AudioParams{Codec: "pcm"}
	require.Error(t, bad.Normalize())
}

func TestPlaceholdersRejectCodecs(t *testing.T) {
	require.NoError(t, SubtitleParams{}.Validate())
	require.NoError(t, VideoParams{}.Validate())

	err := SubtitleParams{Codec: "srt"}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrUnsupported))

	err = VideoParams{Codec: "av1"}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrUnsupported))
}
