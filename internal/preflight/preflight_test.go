package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trackmux/internal/config"
	"trackmux/internal/profile"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryCreatable(t *testing.T) {
	base := t.TempDir()
	result := CheckDirectoryCreatable("out", filepath.Join(base, "a", "b", "c"))
	if !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("expected creatable result, got %+v", result)
	}
	result = CheckDirectoryCreatable("out", base)
	if !result.Passed || !strings.Contains(result.Detail, "read/write ok") {
		t.Fatalf("expected existing directory to pass, got %+v", result)
	}
}

func TestCheckFileReadable(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "names.txt")
	if err := os.WriteFile(file, []byte("A\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckFileReadable("names", file); !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}
	if r := CheckFileReadable("names", dir); r.Passed {
		t.Fatal("expected failure for directory")
	}
	if r := CheckFileReadable("names", filepath.Join(dir, "missing")); r.Passed {
		t.Fatal("expected failure for missing file")
	}
}

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunAllWithProfile(t *testing.T) {
	base := t.TempDir()
	bin := filepath.Join(base, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Paths.TempDir = filepath.Join(base, "work")
	cfg.Journal.Path = filepath.Join(base, "state", "journal.db")
	cfg.Tools.MediaInfo = writeStub(t, bin, "mediainfo")
	cfg.Tools.MKVExtract = writeStub(t, bin, "mkvextract")
	cfg.Tools.MKVMerge = writeStub(t, bin, "mkvmerge")
	cfg.Tools.FFmpeg = filepath.Join(bin, "missing-ffmpeg")

	input := filepath.Join(base, "in")
	if err := os.MkdirAll(input, 0o755); err != nil {
		t.Fatal(err)
	}
	names := filepath.Join(base, "names.txt")
	if err := os.WriteFile(names, []byte("A\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	prof := profile.Default()
	prof.InputDir = input
	prof.OutputDir = filepath.Join(base, "out")
	prof.NamesFile = names
	prof.Misc.TagsPath = filepath.Join(base, "tags.xml")

	results := RunAll(&cfg, &prof)
	if err := Error(results); err != nil {
		t.Fatalf("expected only optional failures, got %v", err)
	}

	prof.Audio.Conversion.Codec = "libopus"
	results = RunAll(&cfg, &prof)
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "FFmpeg" {
		t.Fatalf("expected FFmpeg to be required once audio converts, got %+v", failed)
	}
	if err := Error(results); err == nil || !strings.Contains(err.Error(), "FFmpeg") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(nil, nil); results != nil {
		t.Fatalf("expected nil results, got %+v", results)
	}
}
