package convert

import (
	"strings"

	"trackmux/internal/services"
)

// SubtitleParams is reserved for subtitle conversion, which is not
// implemented.
type SubtitleParams struct {
	Codec string `toml:"codec"`
}

// Validate rejects any configured subtitle codec.
func (p SubtitleParams) Validate() error {
	return rejectCodec("subtitle", p.Codec)
}

// VideoParams is reserved for video conversion, which is not implemented.
type VideoParams struct {
	Codec string `toml:"codec"`
}

// Validate rejects any configured video codec.
func (p VideoParams) Validate() error {
	return rejectCodec("video", p.Codec)
}

func rejectCodec(category, codec string) error {
	if strings.TrimSpace(codec) == "" {
		return nil
	}
	return services.Wrap(services.ErrUnsupported, "convert", "validate "+category,
		category+" conversion is not implemented (codec "+codec+")", nil)
}
