package profile

import (
	"fmt"
	"path/filepath"
	"strings"

	"trackmux/internal/config"
	"trackmux/internal/fileutil"
	"trackmux/internal/matcher"
)

func (p *Profile) normalize() error {
	if err := p.normalizePaths(); err != nil {
		return err
	}
	p.Pad = matcher.PadType(strings.ToLower(strings.TrimSpace(string(p.Pad))))
	if p.Pad == "" {
		p.Pad = matcher.PadNone
	}

	p.Audio.DefaultLanguage = normalizeLanguage(p.Audio.DefaultLanguage)
	p.Subtitle.DefaultLanguage = normalizeLanguage(p.Subtitle.DefaultLanguage)
	p.Video.DefaultLanguage = normalizeLanguage(p.Video.DefaultLanguage)
	if err := p.Audio.Conversion.Normalize(); err != nil {
		return fmt.Errorf("audio.conversion: %w", err)
	}

	p.Attachments.OriginalExtensions = normalizeExtensions(p.Attachments.OriginalExtensions)
	p.Attachments.FolderExtensions = normalizeExtensions(p.Attachments.FolderExtensions)

	p.Chapters.Interval = strings.TrimSpace(p.Chapters.Interval)
	if p.Chapters.Interval == "" {
		p.Chapters.Interval = DefaultChapterInterval
	}

	var err error
	if p.Misc.RemoveOriginalFile, err = fileutil.ParsePolicy(string(p.Misc.RemoveOriginalFile)); err != nil {
		return fmt.Errorf("misc.remove_original_file: %w", err)
	}
	if p.Misc.RemoveTempFiles, err = fileutil.ParsePolicy(string(p.Misc.RemoveTempFiles)); err != nil {
		return fmt.Errorf("misc.remove_temp_files: %w", err)
	}
	for i := range p.Misc.Hooks {
		if err := p.Misc.Hooks[i].Validate(); err != nil {
			return fmt.Errorf("misc.hooks[%d]: %w", i, err)
		}
	}

	if p.Batch.Workers <= 0 {
		p.Batch.Workers = 1
	}
	return nil
}

func (p *Profile) normalizePaths() error {
	base := ""
	if p.path != "" {
		base = filepath.Dir(p.path)
	}
	fields := []struct {
		name  string
		value *string
	}{
		{"input_dir", &p.InputDir},
		{"output_dir", &p.OutputDir},
		{"names_file", &p.NamesFile},
		{"attachments.import_from_folder", &p.Attachments.ImportFromFolder},
		{"misc.tags_path", &p.Misc.TagsPath},
	}
	for _, field := range fields {
		resolved, err := resolvePath(base, *field.value)
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = resolved
	}
	return nil
}

func resolvePath(base, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return "", nil
	case strings.HasPrefix(value, "~"):
		return config.ExpandPath(value)
	case filepath.IsAbs(value) || base == "":
		return config.ExpandPath(value)
	default:
		return filepath.Join(base, value), nil
	}
}

func normalizeLanguage(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}
