package profile

import (
	"errors"
	"fmt"

	"trackmux/internal/language"
	"trackmux/internal/services"
)

// Validate checks the profile and compiles its predicates and substitution
// rules. Failures are tagged services.ErrConfiguration, except conversions
// that are not implemented, which carry services.ErrUnsupported.
func (p *Profile) Validate() error {
	if err := p.validate(); err != nil {
		if errors.Is(err, services.ErrUnsupported) || errors.Is(err, services.ErrConfiguration) {
			return err
		}
		return services.Wrap(services.ErrConfiguration, "profile", "validate", p.path, err)
	}
	return nil
}

func (p *Profile) validate() error {
	for key, value := range map[string]string{
		"input_dir":  p.InputDir,
		"output_dir": p.OutputDir,
		"names_file": p.NamesFile,
	} {
		if value == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	if p.StartFrom < 0 {
		return errors.New("start_from must be >= 0")
	}
	if !p.Pad.Valid() {
		return fmt.Errorf("pad: unknown value %q (want none, ten, hundred or thousand)", p.Pad)
	}

	engine, err := p.SubstitutionEngine()
	if err != nil {
		return fmt.Errorf("substitutions: %w", err)
	}
	p.engine = engine

	if err := p.validateSelections(); err != nil {
		return err
	}
	if err := p.Audio.Conversion.Validate(); err != nil {
		return fmt.Errorf("audio.conversion: %w", err)
	}
	if err := p.Subtitle.Conversion.Validate(); err != nil {
		return fmt.Errorf("subtitle.conversion: %w", err)
	}
	if err := p.Video.Conversion.Validate(); err != nil {
		return fmt.Errorf("video.conversion: %w", err)
	}
	if err := p.validateOverrides(); err != nil {
		return err
	}
	if p.Batch.Workers < 1 {
		return errors.New("batch.workers must be >= 1")
	}
	return nil
}

func (p *Profile) validateSelections() error {
	policies := []struct {
		name            string
		compile         func() error
		defaultLanguage string
		retain          *int
	}{
		{"audio", p.Audio.Filter.Compile, p.Audio.DefaultLanguage, p.Audio.Retain},
		{"subtitle", p.Subtitle.Filter.Compile, p.Subtitle.DefaultLanguage, p.Subtitle.Retain},
		{"video", p.Video.Filter.Compile, p.Video.DefaultLanguage, p.Video.Retain},
	}
	for _, policy := range policies {
		if err := policy.compile(); err != nil {
			return fmt.Errorf("%s.filter: %w", policy.name, err)
		}
		if policy.defaultLanguage != "" && !language.Valid(policy.defaultLanguage) {
			return fmt.Errorf("%s.default_language: invalid language code %q", policy.name, policy.defaultLanguage)
		}
		if policy.retain != nil && *policy.retain < 0 {
			return fmt.Errorf("%s.retain must be >= 0", policy.name)
		}
	}
	return nil
}

func (p *Profile) validateOverrides() error {
	overrides := make(map[int]TrackOverride, len(p.Tracks))
	for _, o := range p.Tracks {
		if o.ID < 0 {
			return fmt.Errorf("tracks: id %d must be >= 0", o.ID)
		}
		if _, dup := overrides[o.ID]; dup {
			return fmt.Errorf("tracks: duplicate override for id %d", o.ID)
		}
		overrides[o.ID] = o
	}
	p.overrides = overrides
	return nil
}
