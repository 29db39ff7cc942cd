package profile

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"trackmux/internal/convert"
	"trackmux/internal/fileutil"
	"trackmux/internal/hooks"
	"trackmux/internal/matcher"
	"trackmux/internal/media"
	"trackmux/internal/predicate"
	"trackmux/internal/services"
	"trackmux/internal/substitution"
)

//go:embed sample_profile.toml
var sampleProfile string

// Selection is the category independent part of a track policy.
type Selection struct {
	Filter          predicate.Predicate
	DefaultLanguage string
	// Retain is the exact number of tracks to keep; nil means no quota.
	Retain *int
}

// AudioPolicy selects and optionally converts audio tracks.
type AudioPolicy struct {
	Filter          predicate.Predicate `toml:"filter"`
	DefaultLanguage string              `toml:"default_language"`
	Retain          *int                `toml:"retain"`
	Conversion      convert.AudioParams `toml:"conversion"`
}

// SubtitlePolicy selects subtitle tracks.
type SubtitlePolicy struct {
	Filter          predicate.Predicate    `toml:"filter"`
	DefaultLanguage string                 `toml:"default_language"`
	Retain          *int                   `toml:"retain"`
	Conversion      convert.SubtitleParams `toml:"conversion"`
}

// VideoPolicy selects video tracks.
type VideoPolicy struct {
	Filter          predicate.Predicate `toml:"filter"`
	DefaultLanguage string              `toml:"default_language"`
	Retain          *int                `toml:"retain"`
	Conversion      convert.VideoParams `toml:"conversion"`
}

// Other controls button and other auxiliary tracks.
type Other struct {
	Keep bool `toml:"keep"`
}

// Attachments controls which attachments end up in the output.
type Attachments struct {
	ImportFromOriginal bool     `toml:"import_from_original"`
	OriginalExtensions []string `toml:"original_extensions"`
	// ImportFromFolder is walked recursively for extra attachments.
	ImportFromFolder string   `toml:"import_from_folder"`
	FolderExtensions []string `toml:"folder_extensions"`
}

// Chapters controls chapter import and generation.
type Chapters struct {
	ImportFromOriginal bool `toml:"import_from_original"`
	CreateIfMissing    bool `toml:"create_if_missing"`
	// Interval is an mkvmerge timestamp such as 00:05:00.000000000.
	Interval string `toml:"interval"`
}

// Enabled reports whether any chapter arguments are emitted.
func (c Chapters) Enabled() bool {
	return c.ImportFromOriginal || c.CreateIfMissing
}

// TrackOverride sets flags and a delay on one kept track. ID is the track's
// 0-based position in the output file.
type TrackOverride struct {
	ID               int    `toml:"id"`
	Default          *bool  `toml:"default"`
	Enabled          *bool  `toml:"enabled"`
	Forced           *bool  `toml:"forced"`
	HearingImpaired  *bool  `toml:"hearing_impaired"`
	VisualImpaired   *bool  `toml:"visual_impaired"`
	TextDescriptions *bool  `toml:"text_descriptions"`
	Original         *bool  `toml:"original"`
	Commentary       *bool  `toml:"commentary"`
	Delay            *int64 `toml:"delay"`
}

// Misc groups file handling options.
type Misc struct {
	RemoveOriginalFile   fileutil.Policy `toml:"remove_original_file"`
	RemoveTempFiles      fileutil.Policy `toml:"remove_temp_files"`
	SetTitle             bool            `toml:"set_title"`
	ShutdownOnCompletion bool            `toml:"shutdown_on_completion"`
	TagsPath             string          `toml:"tags_path"`
	// StrictCodecs fails a file whose metadata names a codec id with no
	// known mapping.
	StrictCodecs bool            `toml:"strict_codecs"`
	Hooks        []hooks.Command `toml:"hooks"`
}

// Batch controls how the file list is worked through.
type Batch struct {
	ContinueOnError bool `toml:"continue_on_error"`
	Workers         int  `toml:"workers"`
	// SkipCompleted skips inputs the journal records as already muxed to
	// the same output.
	SkipCompleted bool `toml:"skip_completed"`
}

// Profile is a complete job definition.
type Profile struct {
	InputDir   string             `toml:"input_dir"`
	OutputDir  string             `toml:"output_dir"`
	NamesFile  string             `toml:"names_file"`
	StartFrom  int                `toml:"start_from"`
	Pad        matcher.PadType    `toml:"pad"`
	StopMarker *string            `toml:"stop_marker"`
	Subs       substitution.Rules `toml:"substitutions"`

	Audio       AudioPolicy     `toml:"audio"`
	Subtitle    SubtitlePolicy  `toml:"subtitle"`
	Video       VideoPolicy     `toml:"video"`
	Other       Other           `toml:"other"`
	Attachments Attachments     `toml:"attachments"`
	Chapters    Chapters        `toml:"chapters"`
	Tracks      []TrackOverride `toml:"tracks"`
	Misc        Misc            `toml:"misc"`
	Batch       Batch           `toml:"batch"`

	path      string
	engine    *substitution.Engine
	overrides map[int]TrackOverride
}

// Default returns a profile with every optional policy at its default.
func Default() Profile {
	return Profile{
		StartFrom: 1,
		Pad:       matcher.PadTen,
		Chapters: Chapters{
			ImportFromOriginal: true,
			Interval:           DefaultChapterInterval,
		},
		Misc: Misc{
			RemoveOriginalFile: fileutil.PolicyNone,
			RemoveTempFiles:    fileutil.PolicyDelete,
			SetTitle:           true,
		},
		Batch: Batch{Workers: 1},
	}
}

// DefaultChapterInterval is used when chapters are generated without an
// explicit interval.
const DefaultChapterInterval = "00:05:00.000000000"

// Load reads, normalizes and validates the profile at path. Relative paths
// inside the profile are resolved against the profile's directory.
func Load(path string) (*Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer file.Close()

	p := Default()
	decoder := toml.NewDecoder(file).DisallowUnknownFields()
	if err := decoder.Decode(&p); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "profile", "parse", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve profile path: %w", err)
	}
	p.path = abs

	if err := p.normalize(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "profile", "normalize", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Path returns the file the profile was loaded from, if any.
func (p *Profile) Path() string {
	return p.path
}

// Selection returns the filter, default language and quota for a
// selectable category.
func (p *Profile) Selection(category media.Category) (Selection, bool) {
	switch category {
	case media.CategoryAudio:
		return Selection{Filter: p.Audio.Filter, DefaultLanguage: p.Audio.DefaultLanguage, Retain: p.Audio.Retain}, true
	case media.CategorySubtitle:
		return Selection{Filter: p.Subtitle.Filter, DefaultLanguage: p.Subtitle.DefaultLanguage, Retain: p.Subtitle.Retain}, true
	case media.CategoryVideo:
		return Selection{Filter: p.Video.Filter, DefaultLanguage: p.Video.DefaultLanguage, Retain: p.Video.Retain}, true
	default:
		return Selection{}, false
	}
}

// Override returns the override configured for the kept track at position id.
func (p *Profile) Override(id int) (TrackOverride, bool) {
	if p.overrides == nil {
		for _, o := range p.Tracks {
			if o.ID == id {
				return o, true
			}
		}
		return TrackOverride{}, false
	}
	o, ok := p.overrides[id]
	return o, ok
}

// StopMarkerValue returns the configured stop marker. An explicit empty
// string disables it.
func (p *Profile) StopMarkerValue() string {
	if p.StopMarker == nil {
		return matcher.DefaultStopMarker
	}
	return *p.StopMarker
}

// SubstitutionEngine returns the engine compiled during validation.
func (p *Profile) SubstitutionEngine() (*substitution.Engine, error) {
	if p.engine != nil {
		return p.engine, nil
	}
	engine, err := substitution.New(p.Subs)
	if err != nil {
		return nil, err
	}
	p.engine = engine
	return engine, nil
}

// MatcherOptions converts the profile's input description into matcher
// options.
func (p *Profile) MatcherOptions() (matcher.Options, error) {
	engine, err := p.SubstitutionEngine()
	if err != nil {
		return matcher.Options{}, err
	}
	return matcher.Options{
		InputDir:   p.InputDir,
		OutputDir:  p.OutputDir,
		NamesFile:  p.NamesFile,
		StartFrom:  p.StartFrom,
		Pad:        p.Pad,
		StopMarker: p.StopMarkerValue(),
		Engine:     engine,
	}, nil
}

// CreateSample writes a sample profile to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create profile directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleProfile), 0o644); err != nil {
		return fmt.Errorf("write sample profile: %w", err)
	}
	return nil
}
