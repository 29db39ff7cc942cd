package media

import "testing"

func TestParseCodecID(t *testing.T) {
	cases := map[string]Codec{
		"V_MPEGH/ISO/HEVC": CodecHEVC,
		"A_AAC-2":          CodecAAC,
		"a_opus":           CodecOpus,
		"A_EAC3":           CodecEAC3,
		"S_HDMV/PGS":       CodecHDMV,
		"S_TEXT/ASS":       CodecAdvancedSSA,
	}
	for id, want := range cases {
		got, ok := ParseCodecID(id)
		if !ok || got != want {
			t.Fatalf("ParseCodecID(%q) = %v,%v want %v", id, got, ok, want)
		}
	}
	if got, ok := ParseCodecID("V_MS/VFW/FOURCC"); ok || got != CodecUnknown {
		t.Fatalf("expected unknown codec, got %v %v", got, ok)
	}
}

func TestEveryCodecHasExtension(t *testing.T) {
	for codec := CodecUnknown; codec <= CodecWebVTT; codec++ {
		if codec.Extension() == "" {
			t.Fatalf("codec %d has no extension", codec)
		}
	}
	if CodecSubtitleTextUTF8.Extension() != "srt" || CodecHDMV.Extension() != "srt" {
		t.Fatal("text and hdmv subtitles should extract to srt")
	}
}

func TestTrackFileName(t *testing.T) {
	track := Track{Category: CategoryAudio, ID: 2, Language: "ja", Codec: CodecFLAC}
	if got := track.FileName(); got != "audio_2_ja.flac" {
		t.Fatalf("unexpected file name %q", got)
	}
	if got := track.FileNameFor(CodecOpus); got != "audio_2_ja.opus" {
		t.Fatalf("unexpected converted name %q", got)
	}
	track.Language = ""
	if got := track.FileName(); got != "audio_2_und.flac" {
		t.Fatalf("expected und fallback, got %q", got)
	}
}

func TestParseCategory(t *testing.T) {
	cases := map[string]Category{
		"General": CategoryGeneral,
		"Video":   CategoryVideo,
		"Audio":   CategoryAudio,
		"Text":    CategorySubtitle,
		"Menu":    CategoryMenu,
		"Button":  CategoryButton,
		"Image":   CategoryOther,
	}
	for in, want := range cases {
		if got := ParseCategory(in); got != want {
			t.Fatalf("ParseCategory(%q) = %v want %v", in, got, want)
		}
	}
}

func TestMatchesExtension(t *testing.T) {
	if !MatchesExtension("font.TTF", []string{"ttf"}) {
		t.Fatal("extension match should be case-insensitive")
	}
	if !MatchesExtension("cover.jpg", []string{".jpg"}) {
		t.Fatal("leading dot in accepted list should be ignored")
	}
	if MatchesExtension("README", []string{"ttf"}) {
		t.Fatal("extensionless file should not match a non-empty list")
	}
	if !MatchesExtension("README", nil) {
		t.Fatal("empty list should match everything")
	}
}
