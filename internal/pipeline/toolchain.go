package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"trackmux/internal/config"
	"trackmux/internal/media/mediainfo"
	"trackmux/internal/services"
	"trackmux/internal/services/ffmpeg"
	"trackmux/internal/services/mkvtoolnix"
)

// Inspector reads container metadata.
type Inspector interface {
	Inspect(ctx context.Context, path string) (mediainfo.Result, error)
}

// Extractor pulls tracks, attachments or chapters out of a container.
type Extractor interface {
	Extract(ctx context.Context, input, workDir string, mode mkvtoolnix.Mode, specs []string) (services.Outcome, error)
}

// Encoder converts a single extracted stream.
type Encoder interface {
	Encode(ctx context.Context, args []string) (services.Outcome, error)
}

// Muxer assembles the output container.
type Muxer interface {
	Merge(ctx context.Context, workDir string, args []string) (services.Outcome, error)
}

// Toolchain bundles the external tool adapters used by a batch.
type Toolchain struct {
	Inspector Inspector
	Extractor Extractor
	Encoder   Encoder
	Muxer     Muxer
}

func (t Toolchain) validate() error {
	switch {
	case t.Inspector == nil:
		return fmt.Errorf("toolchain: inspector required")
	case t.Extractor == nil:
		return fmt.Errorf("toolchain: extractor required")
	case t.Encoder == nil:
		return fmt.Errorf("toolchain: encoder required")
	case t.Muxer == nil:
		return fmt.Errorf("toolchain: muxer required")
	}
	return nil
}

type mediaInfo struct {
	runner services.Runner
	binary string
}

func (m mediaInfo) Inspect(ctx context.Context, path string) (mediainfo.Result, error) {
	return mediainfo.Inspect(ctx, m.runner, m.binary, path)
}

// NewToolchain builds adapters for the binaries named in cfg. A nil runner
// uses services.ExecRunner.
func NewToolchain(cfg *config.Config, runner services.Runner, logger *slog.Logger) (Toolchain, error) {
	if cfg == nil {
		return Toolchain{}, fmt.Errorf("toolchain: config required")
	}
	if runner == nil {
		runner = services.ExecRunner{}
	}
	mkv, err := mkvtoolnix.New(cfg.Tools.MKVExtract, cfg.Tools.MKVMerge,
		mkvtoolnix.WithRunner(runner), mkvtoolnix.WithLogger(logger))
	if err != nil {
		return Toolchain{}, err
	}
	encoder, err := ffmpeg.New(cfg.Tools.FFmpeg, ffmpeg.WithRunner(runner), ffmpeg.WithLogger(logger))
	if err != nil {
		return Toolchain{}, err
	}
	return Toolchain{
		Inspector: mediaInfo{runner: runner, binary: cfg.Tools.MediaInfo},
		Extractor: mkv,
		Encoder:   encoder,
		Muxer:     mkv,
	}, nil
}
