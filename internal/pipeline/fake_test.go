package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"trackmux/internal/config"
	"trackmux/internal/media"
	"trackmux/internal/media/mediainfo"
	"trackmux/internal/notifications"
	"trackmux/internal/profile"
	"trackmux/internal/services"
	"trackmux/internal/services/mkvtoolnix"
	"trackmux/internal/testsupport"
)

type extractCall struct {
	input   string
	workDir string
	mode    mkvtoolnix.Mode
	specs   []string
}

type mergeCall struct {
	workDir string
	args    []string
}

// fakeTools records every tool invocation and writes the files a real tool
// would leave behind.
type fakeTools struct {
	mu sync.Mutex

	info     mediainfo.Result
	perInput map[string]mediainfo.Result
	// onInspect runs before Inspect answers, outside the lock.
	onInspect  func(ctx context.Context, path string)
	inspectErr error
	chapters   bool
	extractErr map[mkvtoolnix.Mode]error
	encodeErr  error
	mergeErr   map[string]error

	inspected []string
	extracts  []extractCall
	encodes   [][]string
	merges    []mergeCall
}

func (f *fakeTools) toolchain() Toolchain {
	return Toolchain{Inspector: f, Extractor: f, Encoder: f, Muxer: f}
}

func (f *fakeTools) Inspect(ctx context.Context, path string) (mediainfo.Result, error) {
	if f.onInspect != nil {
		f.onInspect(ctx, path)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inspected = append(f.inspected, path)
	if f.inspectErr != nil {
		return mediainfo.Result{}, f.inspectErr
	}
	if res, ok := f.perInput[path]; ok {
		return res, nil
	}
	return f.info, nil
}

func (f *fakeTools) Extract(_ context.Context, input, workDir string, mode mkvtoolnix.Mode, specs []string) (services.Outcome, error) {
	f.mu.Lock()
	f.extracts = append(f.extracts, extractCall{input: input, workDir: workDir, mode: mode, specs: append([]string(nil), specs...)})
	err := f.extractErr[mode]
	f.mu.Unlock()
	if err != nil {
		return services.OutcomeHardFailure, err
	}

	switch mode {
	case mkvtoolnix.ModeTracks, mkvtoolnix.ModeAttachments:
		for _, spec := range specs {
			_, name, _ := strings.Cut(spec, ":")
			if err := os.WriteFile(filepath.Join(workDir, name), []byte(spec), 0o644); err != nil {
				return services.OutcomeHardFailure, err
			}
		}
	case mkvtoolnix.ModeChapters:
		if f.chapters {
			if err := os.WriteFile(filepath.Join(workDir, specs[0]), []byte("<Chapters/>"), 0o644); err != nil {
				return services.OutcomeHardFailure, err
			}
		}
	}
	return services.OutcomeSuccess, nil
}

func (f *fakeTools) Encode(_ context.Context, args []string) (services.Outcome, error) {
	f.mu.Lock()
	f.encodes = append(f.encodes, append([]string(nil), args...))
	err := f.encodeErr
	f.mu.Unlock()
	if err != nil {
		return services.OutcomeHardFailure, err
	}
	out := args[len(args)-1]
	if err := os.WriteFile(out, []byte("encoded"), 0o644); err != nil {
		return services.OutcomeHardFailure, err
	}
	return services.OutcomeSuccess, nil
}

func (f *fakeTools) Merge(_ context.Context, workDir string, args []string) (services.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.merges = append(f.merges, mergeCall{workDir: workDir, args: append([]string(nil), args...)})
	output := args[1]
	if err := f.mergeErr[output]; err != nil {
		return services.OutcomeHardFailure, err
	}
	return services.OutcomeSuccess, os.WriteFile(output, []byte("muxed"), 0o644)
}

func (f *fakeTools) inspectedInputs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.inspected...)
}

func (f *fakeTools) mergeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.merges)
}

// sampleInfo is a general pseudo-track followed by video, two audio and one
// subtitle track.
func sampleInfo() mediainfo.Result {
	return mediainfo.Result{
		Tracks: []media.Track{
			{Index: 0, Category: media.CategoryGeneral},
			{Index: 1, ID: 0, Category: media.CategoryVideo, Codec: media.CodecH264, Language: "und", Width: 1920, Height: 1080, BitDepth: 8},
			{Index: 2, ID: 1, Category: media.CategoryAudio, Codec: media.CodecAAC, Language: "ja", Title: "Main", Channels: 2},
			{Index: 3, ID: 2, Category: media.CategoryAudio, Codec: media.CodecAAC, Language: "en", Title: "Dub", Channels: 6},
			{Index: 4, ID: 3, Category: media.CategorySubtitle, Codec: media.CodecSubtitleTextUTF8, Language: "en", Title: "Full"},
		},
		Attachments: []media.Attachment{
			{ID: 1, Name: "font.ttf"},
			{ID: 2, Name: "cover.jpg"},
		},
	}
}

// recordingNotifier keeps the inputs reported as failed.
type recordingNotifier struct {
	mu     sync.Mutex
	failed []string
}

func (n *recordingNotifier) NotifyBatchStarted(context.Context, int) error { return nil }
func (n *recordingNotifier) NotifyBatchCompleted(context.Context, notifications.BatchStats) error {
	return nil
}
func (n *recordingNotifier) TestNotification(context.Context) error { return nil }

func (n *recordingNotifier) NotifyFileFailed(_ context.Context, input string, _ error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, input)
	return nil
}

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func int64Ptr(v int64) *int64 { return &v }

func newTestBatch(t *testing.T, cfg *config.Config, p *profile.Profile, tools *fakeTools, opts ...func(*Options)) *Batch {
	t.Helper()
	if cfg == nil {
		cfg = testsupport.NewConfig(t)
	}
	o := Options{Config: cfg, Profile: p, Tools: tools.toolchain()}
	for _, opt := range opts {
		opt(&o)
	}
	b, err := New(o)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func indexOf(args []string, value string) int {
	for i, arg := range args {
		if arg == value {
			return i
		}
	}
	return -1
}

// hasPair reports whether flag is immediately followed by value.
func hasPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}
