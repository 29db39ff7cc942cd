package mediainfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"trackmux/internal/media"
	"trackmux/internal/services"
)

const attachmentSeparator = " / "

// Result is the parsed metadata for one media file.
type Result struct {
	Tracks      []media.Track
	Attachments []media.Attachment
	// UnknownCodecs lists codec identifiers that mapped to media.CodecUnknown.
	UnknownCodecs []string
}

type report struct {
	Media struct {
		Track []rawTrack `json:"track"`
	} `json:"media"`
}

type rawTrack struct {
	Type        string `json:"@type"`
	StreamOrder string `json:"StreamOrder"`
	CodecID     string `json:"CodecID"`
	Channels    string `json:"Channels"`
	Delay       string `json:"Delay"`
	DelaySource string `json:"Delay_Source"`
	Title       string `json:"Title"`
	Language    string `json:"Language"`
	Width       string `json:"Width"`
	Height      string `json:"Height"`
	BitDepth    string `json:"BitDepth"`
	Attachments string `json:"Attachments"`
	Extra       struct {
		Attachments string `json:"Attachments"`
	} `json:"extra"`
}

// Inspect runs mediainfo against path and parses the JSON report.
func Inspect(ctx context.Context, runner services.Runner, binary, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "mediainfo"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("mediainfo inspect: empty path")
	}
	if runner == nil {
		runner = services.ExecRunner{}
	}

	cmd := services.Command{Binary: binary, Args: []string{"--Output=JSON", path}}
	res, err := runner.Run(ctx, cmd)
	if services.Classify(res, err, services.StrictOutcome) == services.OutcomeHardFailure {
		if err == nil {
			err = fmt.Errorf("exit status %d: %s", res.ExitCode, services.TailOutput(res.Output, 5))
		}
		return Result{}, services.Wrap(services.ErrExternalTool, "mediainfo", "inspect", path, err)
	}
	parsed, err := Parse(res.Output)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "mediainfo", "parse", path, err)
	}
	return parsed, nil
}

// Parse decodes a mediainfo JSON report.
func Parse(data []byte) (Result, error) {
	var rep report
	if err := json.Unmarshal(data, &rep); err != nil {
		return Result{}, fmt.Errorf("decode mediainfo json: %w", err)
	}
	if len(rep.Media.Track) == 0 {
		return Result{}, errors.New("mediainfo report contains no tracks")
	}

	var result Result
	result.Tracks = make([]media.Track, 0, len(rep.Media.Track))
	for index, raw := range rep.Media.Track {
		track, err := convertTrack(index, raw)
		if err != nil {
			return Result{}, fmt.Errorf("track %d: %w", index, err)
		}
		if track.Category != media.CategoryGeneral && track.Codec == media.CodecUnknown {
			result.UnknownCodecs = append(result.UnknownCodecs, raw.CodecID)
		}
		result.Tracks = append(result.Tracks, track)
	}

	general := rep.Media.Track[0]
	attachments := general.Extra.Attachments
	if strings.TrimSpace(attachments) == "" {
		attachments = general.Attachments
	}
	result.Attachments = splitAttachments(attachments)
	return result, nil
}

func convertTrack(index int, raw rawTrack) (media.Track, error) {
	track := media.Track{
		Index:       index,
		Category:    media.ParseCategory(raw.Type),
		CodecID:     strings.TrimSpace(raw.CodecID),
		Title:       strings.TrimSpace(raw.Title),
		Language:    strings.TrimSpace(raw.Language),
		DelaySource: media.ParseDelaySource(raw.DelaySource),
	}
	if track.Language == "" {
		track.Language = media.UndefinedLanguage
	}
	if track.CodecID != "" {
		track.Codec, _ = media.ParseCodecID(track.CodecID)
	}

	var err error
	if track.ID, err = parseInt(raw.StreamOrder); err != nil {
		return media.Track{}, fmt.Errorf("stream order: %w", err)
	}
	if track.Channels, err = parseInt(raw.Channels); err != nil {
		return media.Track{}, fmt.Errorf("channels: %w", err)
	}
	if track.Width, err = parseInt(raw.Width); err != nil {
		return media.Track{}, fmt.Errorf("width: %w", err)
	}
	if track.Height, err = parseInt(raw.Height); err != nil {
		return media.Track{}, fmt.Errorf("height: %w", err)
	}
	if track.BitDepth, err = parseInt(raw.BitDepth); err != nil {
		return media.Track{}, fmt.Errorf("bit depth: %w", err)
	}
	if track.Delay, err = secondsToMillis(raw.Delay); err != nil {
		return media.Track{}, fmt.Errorf("delay: %w", err)
	}
	return track, nil
}

// parseInt accepts an empty value as zero and tolerates multi-value fields
// such as "6 / 2" by reading the first value.
func parseInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if idx := strings.Index(value, attachmentSeparator); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", value)
	}
	return n, nil
}

func secondsToMillis(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("invalid seconds value %q", value)
	}
	return int64(math.Round(seconds * 1000)), nil
}

func splitAttachments(value string) []media.Attachment {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, attachmentSeparator)
	out := make([]media.Attachment, 0, len(parts))
	for i, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		out = append(out, media.Attachment{ID: i + 1, Name: name})
	}
	return out
}
