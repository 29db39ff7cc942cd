package pipeline

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"

	"trackmux/internal/language"
	"trackmux/internal/logging"
	"trackmux/internal/media"
	"trackmux/internal/media/mediainfo"
	"trackmux/internal/predicate"
	"trackmux/internal/profile"
)

// Temp subdirectories created for every file.
const (
	attachmentsDir = "attachments"
	chaptersDir    = "chapters"
	tracksDir      = "tracks"
)

// MediaFile is one input moving through the pipeline.
type MediaFile struct {
	ID     int64
	Input  string
	Output string
	Title  string

	// Tracks starts as the full metadata listing and is compacted to the
	// kept tracks by filterTracks.
	Tracks      []media.Track
	Attachments []media.Attachment
	// MuxArgs is the mkvmerge argument list built for this file.
	MuxArgs []string

	retained map[media.Category]int
}

// NewMediaFile wraps inspected metadata, stamping every track with id.
func NewMediaFile(id int64, input, output, title string, info mediainfo.Result) *MediaFile {
	tracks := make([]media.Track, len(info.Tracks))
	copy(tracks, info.Tracks)
	for i := range tracks {
		tracks[i].FileID = id
	}
	attachments := make([]media.Attachment, len(info.Attachments))
	copy(attachments, info.Attachments)
	return &MediaFile{
		ID:          id,
		Input:       input,
		Output:      output,
		Title:       title,
		Tracks:      tracks,
		Attachments: attachments,
		retained:    make(map[media.Category]int),
	}
}

// TempDir is the file's private working directory under root.
func (m *MediaFile) TempDir(root string) string {
	return filepath.Join(root, strconv.FormatInt(m.ID, 10))
}

// Retained returns how many tracks of category survived filtering.
func (m *MediaFile) Retained(category media.Category) int {
	return m.retained[category]
}

// filterAttachments drops container attachments whose extension is not
// accepted by the profile.
func (m *MediaFile) filterAttachments(p *profile.Profile) {
	accepted := p.Attachments.OriginalExtensions
	kept := m.Attachments[:0]
	for _, a := range m.Attachments {
		if media.MatchesExtension(a.Name, accepted) {
			kept = append(kept, a)
		}
	}
	m.Attachments = kept
}

// applyLanguageDefaults rewrites undefined languages to the category's
// configured default.
func (m *MediaFile) applyLanguageDefaults(p *profile.Profile) {
	for i := range m.Tracks {
		track := &m.Tracks[i]
		sel, ok := p.Selection(track.Category)
		if !ok || sel.DefaultLanguage == "" {
			continue
		}
		if track.Language == "" || language.IsUndefined(track.Language) {
			track.Language = sel.DefaultLanguage
		}
	}
}

// filterTracks compacts Tracks to the tracks that should be muxed and checks
// every configured quota. A quota miss leaves the file untouched on disk.
func (m *MediaFile) filterTracks(p *profile.Profile, logger *slog.Logger) error {
	kept := make([]media.Track, 0, len(m.Tracks))
	for _, track := range m.Tracks {
		if !m.keep(track, p) {
			logger.Debug("track dropped",
				logging.Int("index", track.Index),
				logging.String("category", track.Category.String()),
				logging.String("language", track.Language),
				logging.String("title", track.Title),
			)
			continue
		}
		m.retained[track.Category]++
		kept = append(kept, track)
	}
	m.Tracks = kept
	return m.validateQuotas(p)
}

func (m *MediaFile) keep(track media.Track, p *profile.Profile) bool {
	switch track.Category {
	case media.CategoryGeneral, media.CategoryMenu:
		return false
	case media.CategoryButton, media.CategoryOther:
		return p.Other.Keep
	}

	sel, ok := p.Selection(track.Category)
	if !ok {
		return false
	}
	if sel.Retain != nil && m.retained[track.Category] >= *sel.Retain {
		return false
	}
	return sel.Filter.Match(predicate.Candidate{
		Index:    track.Index - 1,
		Language: track.Language,
		Title:    track.Title,
	})
}

func (m *MediaFile) validateQuotas(p *profile.Profile) error {
	var errs []error
	for _, category := range []media.Category{media.CategoryAudio, media.CategorySubtitle, media.CategoryVideo} {
		sel, _ := p.Selection(category)
		if sel.Retain == nil {
			continue
		}
		if got := m.retained[category]; got != *sel.Retain {
			errs = append(errs, &QuotaError{Category: category, Want: *sel.Retain, Got: got})
		}
	}
	return errors.Join(errs...)
}
