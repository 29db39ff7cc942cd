package deps

import (
	"os"
	"path/filepath"
	"testing"

	"trackmux/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for unset command: %q", results[2].Detail)
	}
}

func TestRequirementsEncoderOptional(t *testing.T) {
	cfg := config.Default()
	for _, needEncoder := range []bool{false, true} {
		reqs := Requirements(&cfg, needEncoder)
		if len(reqs) != 4 {
			t.Fatalf("expected 4 requirements, got %d", len(reqs))
		}
		ffmpeg := reqs[3]
		if ffmpeg.Command != cfg.Tools.FFmpeg {
			t.Fatalf("ffmpeg command = %q, want %q", ffmpeg.Command, cfg.Tools.FFmpeg)
		}
		if ffmpeg.Optional == needEncoder {
			t.Fatalf("ffmpeg optional=%v with needEncoder=%v", ffmpeg.Optional, needEncoder)
		}
	}
}

func TestMissing(t *testing.T) {
	statuses := []Status{
		{Name: "ok", Available: true},
		{Name: "optional", Optional: true},
		{Name: "required"},
	}
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "required" {
		t.Fatalf("unexpected missing list: %#v", missing)
	}
}
