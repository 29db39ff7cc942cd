package convert

import (
	"fmt"
	"strconv"
	"strings"

	"trackmux/internal/media"
	"trackmux/internal/services"
)

// AudioCodec names an ffmpeg audio encoder.
type AudioCodec string

const (
	AudioAAC       AudioCodec = "aac"
	AudioAACLibfdk AudioCodec = "libfdk_aac"
	AudioAC3       AudioCodec = "ac3"
	AudioFLAC      AudioCodec = "flac"
	AudioMP2       AudioCodec = "libtwolame"
	AudioMP3Lame   AudioCodec = "libmp3lame"
	AudioMP3Shine  AudioCodec = "libshine"
	AudioOpus      AudioCodec = "libopus"
	AudioVorbis    AudioCodec = "libvorbis"
	AudioWavPack   AudioCodec = "wavpack"
)

var audioCodecs = map[AudioCodec]media.Codec{
	AudioAAC:       media.CodecAAC,
	AudioAACLibfdk: media.CodecAAC,
	AudioAC3:       media.CodecAC3,
	AudioFLAC:      media.CodecFLAC,
	AudioMP2:       media.CodecMP2,
	AudioMP3Lame:   media.CodecMP3,
	AudioMP3Shine:  media.CodecMP3,
	AudioOpus:      media.CodecOpus,
	AudioVorbis:    media.CodecVorbis,
	AudioWavPack:   media.CodecWavPack,
}

var audioAliases = map[string]AudioCodec{
	"fdk_aac": AudioAACLibfdk,
	"mp2":     AudioMP2,
	"mp3":     AudioMP3Lame,
	"shine":   AudioMP3Shine,
	"opus":    AudioOpus,
	"vorbis":  AudioVorbis,
}

// ParseAudioCodec accepts an encoder name or a short alias such as "opus".
func ParseAudioCodec(value string) (AudioCodec, bool) {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return "", false
	}
	if _, ok := audioCodecs[AudioCodec(key)]; ok {
		return AudioCodec(key), true
	}
	codec, ok := audioAliases[key]
	return codec, ok
}

// AudioCodecs lists every supported encoder.
func AudioCodecs() []AudioCodec {
	return []AudioCodec{
		AudioAAC, AudioAACLibfdk, AudioAC3, AudioFLAC, AudioMP2,
		AudioMP3Lame, AudioMP3Shine, AudioOpus, AudioVorbis, AudioWavPack,
	}
}

// Codec reports the stream codec produced by the encoder.
func (c AudioCodec) Codec() media.Codec {
	if codec, ok := audioCodecs[c]; ok {
		return codec
	}
	return media.CodecUnknown
}

// Extension is the file extension used for the encoder's output.
func (c AudioCodec) Extension() string {
	return c.Codec().Extension()
}

// AudioParams describes an audio conversion. A zero Codec disables
// conversion; zero numeric fields leave the encoder default in place.
type AudioParams struct {
	Codec            AudioCodec `toml:"codec"`
	Bitrate          int        `toml:"bitrate"`
	Channels         int        `toml:"channels"`
	CompressionLevel *int       `toml:"compression_level"`
	VBR              string     `toml:"vbr"`
	Threads          int        `toml:"threads"`
}

// Enabled reports whether a target codec is configured.
func (p AudioParams) Enabled() bool {
	return strings.TrimSpace(string(p.Codec)) != ""
}

// Normalize resolves codec aliases in place.
func (p *AudioParams) Normalize() error {
	if !p.Enabled() {
		p.Codec = ""
		return nil
	}
	codec, ok := ParseAudioCodec(string(p.Codec))
	if !ok {
		return invalid("unknown audio codec %q", p.Codec)
	}
	p.Codec = codec
	p.VBR = strings.ToLower(strings.TrimSpace(p.VBR))
	return nil
}

// Validate checks codec specific constraints.
func (p AudioParams) Validate() error {
	if !p.Enabled() {
		return nil
	}
	if _, ok := audioCodecs[p.Codec]; !ok {
		return invalid("unknown audio codec %q", p.Codec)
	}
	if p.Bitrate < 0 {
		return invalid("bitrate must be >= 0")
	}
	if p.Channels < 0 {
		return invalid("channels must be >= 0")
	}
	if p.Threads < 0 {
		return invalid("threads must be >= 0")
	}

	switch p.Codec {
	case AudioOpus:
		switch p.VBR {
		case "", "off", "on", "constrained":
		default:
			return invalid("vbr for %s must be off, on or constrained", p.Codec)
		}
		return p.checkCompression(0, 10)
	case AudioAACLibfdk:
		if p.VBR != "" {
			mode, err := strconv.Atoi(p.VBR)
			if err != nil || mode < 1 || mode > 5 {
				return invalid("vbr for %s must be between 1 and 5", p.Codec)
			}
		}
		if p.CompressionLevel != nil {
			return invalid("compression_level is not supported by %s", p.Codec)
		}
	case AudioFLAC:
		if p.VBR != "" {
			return invalid("vbr is not supported by %s", p.Codec)
		}
		return p.checkCompression(0, 12)
	default:
		if p.VBR != "" {
			return invalid("vbr is not supported by %s", p.Codec)
		}
		if p.CompressionLevel != nil {
			return invalid("compression_level is not supported by %s", p.Codec)
		}
	}
	return nil
}

func (p AudioParams) checkCompression(lo, hi int) error {
	if p.CompressionLevel == nil {
		return nil
	}
	if level := *p.CompressionLevel; level < lo || level > hi {
		return invalid("compression_level for %s must be between %d and %d", p.Codec, lo, hi)
	}
	return nil
}

// Args builds the ffmpeg argument list converting input into output.
func (p AudioParams) Args(input, output string) ([]string, error) {
	if !p.Enabled() {
		return nil, services.Wrap(services.ErrValidation, "convert", "audio args", "no target codec configured", nil)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	args := []string{"-nostdin", "-y"}
	if p.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(p.Threads))
	}
	args = append(args, "-i", input, "-c:a", string(p.Codec))
	if p.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(p.Channels))
	}
	if p.Bitrate > 0 {
		args = append(args, "-b:a", strconv.Itoa(p.Bitrate)+"k")
	}
	if p.CompressionLevel != nil {
		args = append(args, "-compression_level", strconv.Itoa(*p.CompressionLevel))
	}
	if p.VBR != "" {
		args = append(args, "-vbr", p.VBR)
	}
	return append(args, output), nil
}

func invalid(format string, a ...any) error {
	return services.Wrap(services.ErrValidation, "convert", "validate audio", fmt.Sprintf(format, a...), nil)
}
