package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"trackmux/internal/fileutil"
	"trackmux/internal/hooks"
	"trackmux/internal/logging"
	"trackmux/internal/media"
	"trackmux/internal/services"
	"trackmux/internal/services/mkvtoolnix"
)

// Stage names attached to the context for log correlation.
const (
	stageInspect = "inspect"
	stageSelect  = "select"
	stageExtract = "extract"
	stageConvert = "convert"
	stageMux     = "mux"
	stageCleanup = "cleanup"
)

// process runs every stage for one file. Stages only start while ctx is
// live; a tool that is already running is allowed to finish.
func (b *Batch) process(ctx context.Context, id int64, input, output, title string) error {
	ctx = services.WithFileID(ctx, id)
	base := b.logger.With(logging.String("input", input))
	logger := logging.WithContext(ctx, base)
	logger.Info("processing file",
		logging.String(logging.FieldEventType, "file_start"),
		logging.String("output", output),
		logging.String("title", title),
	)

	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := b.tools.Inspector.Inspect(services.WithStage(ctx, stageInspect), input)
	if err != nil {
		return err
	}
	if b.profile.Misc.StrictCodecs && len(info.UnknownCodecs) > 0 {
		return services.Wrap(services.ErrUnsupported, "pipeline", stageInspect,
			"unknown codec ids: "+strings.Join(info.UnknownCodecs, ", "), nil)
	}

	file := NewMediaFile(id, input, output, title, info)
	file.filterAttachments(b.profile)
	file.applyLanguageDefaults(b.profile)
	selectLogger := logging.WithContext(services.WithStage(ctx, stageSelect), base)
	if err := file.filterTracks(b.profile, selectLogger); err != nil {
		return err
	}
	selectLogger.Info("tracks selected",
		logging.Int("video", file.Retained(media.CategoryVideo)),
		logging.Int("audio", file.Retained(media.CategoryAudio)),
		logging.Int("subtitle", file.Retained(media.CategorySubtitle)),
		logging.Int("attachments", len(file.Attachments)),
		logging.String("audio_filter", b.profile.Audio.Filter.String()),
		logging.String("subtitle_filter", b.profile.Subtitle.Filter.String()),
	)

	temp := file.TempDir(b.cfg.Paths.TempDir)
	if err := prepareTempDir(temp); err != nil {
		return err
	}
	defer b.cleanup(ctx, base, temp)

	vars := hooks.Vars{
		Input:         input,
		Output:        output,
		Temp:          temp,
		LoggingActive: b.cfg.FileLoggingEnabled(),
	}

	if err := b.extract(services.WithStage(ctx, stageExtract), base, file, temp); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	b.runHooks(ctx, logger, hooks.StagePreConvert, vars)
	if err := b.convertAudio(services.WithStage(ctx, stageConvert), base, file, temp); err != nil {
		return err
	}
	b.runHooks(ctx, logger, hooks.StagePostConvert, vars)

	if err := ctx.Err(); err != nil {
		return err
	}
	b.runHooks(ctx, logger, hooks.StagePreMux, vars)
	if err := b.mux(services.WithStage(ctx, stageMux), base, file, temp); err != nil {
		return err
	}
	b.runHooks(ctx, logger, hooks.StagePostMux, vars)

	if policy := b.profile.Misc.RemoveOriginalFile; policy != fileutil.PolicyNone {
		if err := fileutil.RemovePath(input, policy); err != nil {
			logging.WarnWithContext(logger, "failed to remove original file", "original_remove_failed",
				logging.String("policy", string(policy)),
				logging.Error(err),
				logging.String(logging.FieldImpact, "original file left in place"),
			)
		}
	}

	logger.Info("file complete",
		logging.String(logging.FieldEventType, "file_complete"),
		logging.String("output", output),
	)
	return nil
}

func prepareTempDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear temp dir %s: %w", dir, err)
	}
	for _, sub := range []string{attachmentsDir, chaptersDir, tracksDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return fmt.Errorf("create temp dir: %w", err)
		}
	}
	return nil
}

func (b *Batch) cleanup(ctx context.Context, logger *slog.Logger, temp string) {
	policy := b.profile.Misc.RemoveTempFiles
	if policy == fileutil.PolicyNone {
		return
	}
	if err := fileutil.RemovePath(temp, policy); err != nil {
		logging.WarnWithContext(logging.WithContext(services.WithStage(ctx, stageCleanup), logger),
			"failed to remove temp dir", "temp_remove_failed",
			logging.String("path", temp),
			logging.String("policy", string(policy)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "temp files left on disk"),
		)
	}
}

func (b *Batch) runHooks(ctx context.Context, logger *slog.Logger, stage hooks.Stage, vars hooks.Vars) {
	if err := b.hooks.Run(services.WithStage(ctx, string(stage)), stage, vars); err != nil {
		logger.Debug("hook stage reported errors", logging.String("hook_stage", string(stage)), logging.Error(err))
	}
}

func (b *Batch) extract(ctx context.Context, logger *slog.Logger, file *MediaFile, temp string) error {
	specs := make([]string, 0, len(file.Tracks))
	for _, track := range file.Tracks {
		specs = append(specs, mkvtoolnix.TrackSpec(int64(track.ID), track.FileName()))
	}
	if _, err := b.tools.Extractor.Extract(ctx, file.Input, filepath.Join(temp, tracksDir), mkvtoolnix.ModeTracks, specs); err != nil {
		return err
	}

	if b.profile.Attachments.ImportFromOriginal && len(file.Attachments) > 0 {
		specs = specs[:0]
		for _, a := range file.Attachments {
			specs = append(specs, mkvtoolnix.AttachmentSpec(int64(a.ID), a.Name))
		}
		if _, err := b.tools.Extractor.Extract(ctx, file.Input, filepath.Join(temp, attachmentsDir), mkvtoolnix.ModeAttachments, specs); err != nil {
			file.Attachments = nil
			return err
		}
	}

	if b.profile.Chapters.ImportFromOriginal {
		specs := []string{mkvtoolnix.ChaptersFile}
		if _, err := b.tools.Extractor.Extract(ctx, file.Input, filepath.Join(temp, chaptersDir), mkvtoolnix.ModeChapters, specs); err != nil {
			return err
		}
	}
	logging.WithContext(ctx, logger).Debug("extraction complete", logging.Int("tracks", len(file.Tracks)))
	return nil
}

// convertAudio re-encodes every kept audio track to the configured codec.
// When source and target share a file name the source is moved aside first.
func (b *Batch) convertAudio(ctx context.Context, logger *slog.Logger, file *MediaFile, temp string) error {
	params := b.profile.Audio.Conversion
	if !params.Enabled() {
		return nil
	}
	target := params.Codec.Codec()
	logger = logging.WithContext(ctx, logger)
	dir := filepath.Join(temp, tracksDir)

	for i := range file.Tracks {
		track := &file.Tracks[i]
		if track.Category != media.CategoryAudio {
			continue
		}
		in := filepath.Join(dir, track.FileName())
		out := filepath.Join(dir, track.FileNameFor(target))
		if in == out {
			moved := filepath.Join(dir, "moved"+strconv.Itoa(track.ID)+"."+track.Codec.Extension())
			if err := fileutil.MoveFile(in, moved); err != nil {
				return services.Wrap(services.ErrExternalTool, "pipeline", "convert", "move source aside", err)
			}
			in = moved
		}

		args, err := params.Args(in, out)
		if err != nil {
			return err
		}
		logger.Info("converting audio track",
			logging.Int("track", track.ID),
			logging.String("from", track.Codec.String()),
			logging.String("to", target.String()),
		)
		if _, err := b.tools.Encoder.Encode(ctx, args); err != nil {
			return fmt.Errorf("%w: track %d: %w", ErrConversionFailed, track.ID, err)
		}
		track.Codec = target
	}
	return nil
}

func (b *Batch) mux(ctx context.Context, logger *slog.Logger, file *MediaFile, temp string) error {
	logger = logging.WithContext(ctx, logger)
	file.MuxArgs = buildMuxArgs(file, b.profile, temp, logger)
	if dir := filepath.Dir(file.Output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if _, err := b.tools.Muxer.Merge(ctx, temp, file.MuxArgs); err != nil {
		return err
	}
	return nil
}
