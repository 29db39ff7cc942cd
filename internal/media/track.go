package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UndefinedLanguage is the ISO 639-2 code used when a track declares no language.
const UndefinedLanguage = "und"

// Category classifies a container track.
type Category int

const (
	CategoryGeneral Category = iota
	CategoryVideo
	CategoryAudio
	CategorySubtitle
	CategoryButton
	CategoryMenu
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategoryGeneral:
		return "general"
	case CategoryVideo:
		return "video"
	case CategoryAudio:
		return "audio"
	case CategorySubtitle:
		return "subtitle"
	case CategoryButton:
		return "button"
	case CategoryMenu:
		return "menu"
	default:
		return "other"
	}
}

// ParseCategory maps a metadata track type ("General", "Video", "Audio",
// "Text", "Menu", "Button") to a Category.
func ParseCategory(value string) Category {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "general":
		return CategoryGeneral
	case "video":
		return CategoryVideo
	case "audio":
		return CategoryAudio
	case "text", "subtitle":
		return CategorySubtitle
	case "button":
		return CategoryButton
	case "menu":
		return CategoryMenu
	default:
		return CategoryOther
	}
}

// Selectable reports whether tracks of this category are filtered by a
// per-category predicate and quota.
func (c Category) Selectable() bool {
	return c == CategoryVideo || c == CategoryAudio || c == CategorySubtitle
}

// DelaySource identifies what a track delay is relative to.
type DelaySource int

const (
	DelaySourceNone DelaySource = iota
	DelaySourceContainer
	DelaySourceStream
)

func (d DelaySource) String() string {
	switch d {
	case DelaySourceContainer:
		return "container"
	case DelaySourceStream:
		return "stream"
	default:
		return "none"
	}
}

// ParseDelaySource maps the metadata Delay_Source value.
func ParseDelaySource(value string) DelaySource {
	switch strings.TrimSpace(value) {
	case "Container":
		return DelaySourceContainer
	case "Stream":
		return DelaySourceStream
	default:
		return DelaySourceNone
	}
}

// Track is a single stream inside a media file.
type Track struct {
	// Index is the 0-based ordinal in the metadata listing; 0 is the general
	// pseudo-track.
	Index int
	// ID is the container stream order used when extracting.
	ID          int
	FileID      int64
	Category    Category
	Codec       Codec
	CodecID     string
	Language    string
	Title       string
	Delay       int64
	DelaySource DelaySource
	Width       int
	Height      int
	BitDepth    int
	Channels    int
}

// FileName returns the name the track is extracted to: <category>_<id>_<lang>.<ext>.
func (t Track) FileName() string {
	return t.fileName(t.Codec.Extension())
}

// FileNameFor returns the name the track would have once converted to codec.
func (t Track) FileNameFor(codec Codec) string {
	return t.fileName(codec.Extension())
}

func (t Track) fileName(ext string) string {
	lang := t.Language
	if lang == "" {
		lang = UndefinedLanguage
	}
	return fmt.Sprintf("%s_%d_%s.%s", t.Category, t.ID, lang, ext)
}

// Attachment is a file embedded in the container.
type Attachment struct {
	// ID is the 1-based container attachment id.
	ID   int
	Name string
}

// Extension returns the lower-cased extension of the attachment name without the dot.
func (a Attachment) Extension() string {
	return Extension(a.Name)
}

// Extension returns the lower-cased extension of path without the leading dot.
func Extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// MatchesExtension reports whether path carries one of the accepted
// extensions. An empty accepted list matches every path.
func MatchesExtension(path string, accepted []string) bool {
	if len(accepted) == 0 {
		return true
	}
	ext := Extension(path)
	if ext == "" {
		return false
	}
	for _, candidate := range accepted {
		if strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(candidate), "."), ext) {
			return true
		}
	}
	return false
}
