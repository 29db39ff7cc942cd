package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"trackmux/internal/logging"
	"trackmux/internal/media"
	"trackmux/internal/profile"
	"trackmux/internal/services/mkvtoolnix"
)

const chapterNameTemplate = "Chapter <NUM:2>"

// trackFlag maps an override field to an mkvmerge --<name>-flag option. A
// nil categories list applies to every track.
type trackFlag struct {
	name       string
	categories []media.Category
	value      func(profile.TrackOverride) *bool
}

var (
	audioOnly        = []media.Category{media.CategoryAudio}
	subtitleOnly     = []media.Category{media.CategorySubtitle}
	audioAndSubtitle = []media.Category{media.CategoryAudio, media.CategorySubtitle}
)

var trackFlags = []trackFlag{
	{"default-track", nil, func(o profile.TrackOverride) *bool { return o.Default }},
	{"track-enabled", nil, func(o profile.TrackOverride) *bool { return o.Enabled }},
	{"forced-display", subtitleOnly, func(o profile.TrackOverride) *bool { return o.Forced }},
	{"hearing-impaired", audioOnly, func(o profile.TrackOverride) *bool { return o.HearingImpaired }},
	{"visual-impaired", audioOnly, func(o profile.TrackOverride) *bool { return o.VisualImpaired }},
	{"text-descriptions", subtitleOnly, func(o profile.TrackOverride) *bool { return o.TextDescriptions }},
	{"original", nil, func(o profile.TrackOverride) *bool { return o.Original }},
	{"commentary", audioAndSubtitle, func(o profile.TrackOverride) *bool { return o.Commentary }},
}

func (f trackFlag) appliesTo(category media.Category) bool {
	return f.categories == nil || slices.Contains(f.categories, category)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// muxBuilder assembles the mkvmerge argument list for one file.
type muxBuilder struct {
	file    *MediaFile
	profile *profile.Profile
	temp    string
	logger  *slog.Logger
	args    []string
}

// buildMuxArgs returns the complete mkvmerge argument list. Paths to
// extracted tracks are relative to the file's temp directory, which is the
// muxer's working directory.
func buildMuxArgs(file *MediaFile, p *profile.Profile, temp string, logger *slog.Logger) []string {
	b := &muxBuilder{file: file, profile: p, temp: temp, logger: logger}
	b.add("-o", file.Output)
	if p.Misc.SetTitle && file.Title != "" {
		b.add("--title", file.Title)
	}
	for i, track := range file.Tracks {
		b.addTrack(i, track)
	}
	if p.Attachments.ImportFromOriginal {
		b.addOriginalAttachments()
	}
	if p.Attachments.ImportFromFolder != "" {
		b.addFolderAttachments(p.Attachments.ImportFromFolder)
	}
	if p.Chapters.Enabled() {
		b.addChapters()
	}
	if p.Misc.TagsPath != "" {
		b.addTags(p.Misc.TagsPath)
	}

	order := make([]string, len(file.Tracks))
	for i := range file.Tracks {
		order[i] = strconv.Itoa(i) + ":0"
	}
	b.add("--track-order", strings.Join(order, ","))
	return b.args
}

func (b *muxBuilder) add(args ...string) {
	b.args = append(b.args, args...)
}

func (b *muxBuilder) addTrack(position int, track media.Track) {
	override, hasOverride := b.profile.Override(position)

	delay, source := track.Delay, track.DelaySource
	if hasOverride && override.Delay != nil {
		switch source {
		case media.DelaySourceStream:
			logging.WarnWithContext(b.logger, "track delay override ignored", "track_delay_ignored",
				logging.Int("track", position),
				logging.Int64("delay_ms", *override.Delay),
				logging.String(logging.FieldErrorHint, "the delay is part of the stream; remux the source to change it"),
				logging.String(logging.FieldImpact, "stream delay kept"),
			)
		case media.DelaySourceNone:
			delay, source = *override.Delay, media.DelaySourceContainer
		default:
			delay = *override.Delay
		}
	}
	if delay != 0 && source == media.DelaySourceContainer {
		b.add("--sync", "0:"+strconv.FormatInt(delay, 10))
	}

	if track.Width > 0 && track.Height > 0 {
		b.add("--display-dimensions", fmt.Sprintf("0:%dx%d", track.Width, track.Height))
	}
	if track.BitDepth > 0 {
		b.add("--color-bits-per-channel", "0:"+strconv.Itoa(track.BitDepth))
	}

	if hasOverride {
		for _, flag := range trackFlags {
			value := flag.value(override)
			if value == nil {
				continue
			}
			if !flag.appliesTo(track.Category) {
				logging.WarnWithContext(b.logger, "track flag not applicable", "track_flag_mismatch",
					logging.String("flag", flag.name),
					logging.Int("track", position),
					logging.String("category", track.Category.String()),
					logging.String(logging.FieldErrorHint, "move the flag to a track of a supported type"),
					logging.String(logging.FieldImpact, "flag ignored"),
				)
				continue
			}
			b.add("--"+flag.name+"-flag", "0:"+yesNo(*value))
		}
	}

	lang := track.Language
	if track.Category == media.CategoryVideo || lang == "" {
		lang = media.UndefinedLanguage
	}
	b.add("--language", "0:"+lang)
	b.add("./" + tracksDir + "/" + track.FileName())
}

func (b *muxBuilder) addOriginalAttachments() {
	for _, a := range b.file.Attachments {
		if !media.MatchesExtension(a.Name, b.profile.Attachments.OriginalExtensions) {
			continue
		}
		path := filepath.Join(b.temp, attachmentsDir, a.Name)
		b.attach(path)
	}
}

func (b *muxBuilder) addFolderAttachments(dir string) {
	accepted := b.profile.Attachments.FolderExtensions
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !media.MatchesExtension(path, accepted) {
			return nil
		}
		b.attach(path)
		return nil
	})
	if err != nil {
		logging.WarnWithContext(b.logger, "attachment folder walk failed", "attachment_folder_error",
			logging.String("folder", dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check attachments.import_from_folder"),
			logging.String(logging.FieldImpact, "some folder attachments may be missing"),
		)
	}
}

func (b *muxBuilder) attach(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		logging.WarnWithContext(b.logger, "attachment missing", "attachment_missing",
			logging.String("path", path),
			logging.String(logging.FieldImpact, "attachment skipped"),
		)
		return
	}
	b.add("--attachment-name", filepath.Base(path), "--attach-file", path)
}

func (b *muxBuilder) addChapters() {
	b.add("--chapter-language", "en")
	path := filepath.Join(b.temp, chaptersDir, mkvtoolnix.ChaptersFile)
	_, err := os.Stat(path)
	if err == nil {
		b.add("--chapters", path)
		return
	}
	if !errors.Is(err, fs.ErrNotExist) {
		b.logger.Debug("chapters file unreadable", logging.String("path", path), logging.Error(err))
	}
	if b.profile.Chapters.CreateIfMissing {
		interval := b.profile.Chapters.Interval
		if interval == "" {
			interval = profile.DefaultChapterInterval
		}
		b.add("--generate-chapters-name-template", chapterNameTemplate)
		b.add("--generate-chapters", "interval:"+interval)
	}
}

func (b *muxBuilder) addTags(path string) {
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		logging.WarnWithContext(b.logger, "tags file missing", "tags_missing",
			logging.String("path", path),
			logging.String(logging.FieldErrorHint, "check misc.tags_path"),
			logging.String(logging.FieldImpact, "global tags not applied"),
		)
		return
	}
	b.add("--global-tags", path)
}
