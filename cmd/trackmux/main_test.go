package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"trackmux/internal/config"
	"trackmux/internal/journal"
	"trackmux/internal/testsupport"
)

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	t.Setenv("TRACKMUX_TEMP_DIR", "")
	t.Setenv("TRACKMUX_NTFY_TOPIC", "")
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	content := fmt.Sprintf(
		"[tools]\nmkvextract = %q\nmkvmerge = %q\nffmpeg = %q\nmediainfo = %q\n\n"+
			"[paths]\ntemp_dir = %q\nlog_dir = %q\n\n"+
			"[journal]\nenabled = %t\npath = %q\n",
		cfg.Tools.MKVExtract, cfg.Tools.MKVMerge, cfg.Tools.FFmpeg, cfg.Tools.MediaInfo,
		cfg.Paths.TempDir, cfg.Paths.LogDir,
		cfg.Journal.Enabled, cfg.Journal.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// writeTestProfile lays out an input directory with one file per title and
// a profile pointing at it.
func writeTestProfile(t *testing.T, titles ...string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	for i := range titles {
		testsupport.WriteFile(t, filepath.Join(dir, "in", fmt.Sprintf("ep%d.mkv", i+1)), 8)
	}
	names := strings.Join(titles, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, "names.txt"), []byte(names), 0o644); err != nil {
		t.Fatalf("write names: %v", err)
	}
	profilePath := filepath.Join(dir, "profile.toml")
	content := "input_dir = \"in\"\noutput_dir = \"out\"\nnames_file = \"names.txt\"\npad = \"ten\"\n"
	if err := os.WriteFile(profilePath, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return profilePath, dir
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigInitRefusesToOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"config", "validate"}, path)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+path)
	requireContains(t, out, "Configuration valid")
}

func TestProfileInitThenValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "job.toml")

	out, _, err := runCLI(t, []string{"profile", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("profile init: %v", err)
	}
	requireContains(t, out, "Wrote sample profile")

	out, _, err = runCLI(t, []string{"profile", "validate", target}, "")
	if err != nil {
		t.Fatalf("profile validate: %v", err)
	}
	requireContains(t, out, "Profile valid")
}

func TestPlanListsPairs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)
	profilePath, _ := writeTestProfile(t, "pilot", "the return")

	out, _, err := runCLI(t, []string{"plan", "--profile", profilePath}, configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "ep1.mkv")
	requireContains(t, out, "01 - Pilot.mkv")
	requireContains(t, out, "02 - The Return.mkv")
	requireContains(t, out, "2 files planned")
}

func TestPlanReportsCountMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)
	profilePath, dir := writeTestProfile(t, "pilot", "the return")
	testsupport.WriteFile(t, filepath.Join(dir, "in", "ep3.mkv"), 8)

	if _, _, err := runCLI(t, []string{"plan", "--profile", profilePath}, configPath); err == nil {
		t.Fatal("expected a count mismatch error")
	}
}

func TestCheckPassesWithStubbedTools(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	configPath := writeTestConfig(t, cfg)
	profilePath, _ := writeTestProfile(t, "pilot")

	out, _, err := runCLI(t, []string{"check", "--profile", profilePath}, configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "mkvmerge")
	requireContains(t, out, "Input directory")
	requireContains(t, out, "All required checks passed")
}

func TestCheckFailsOnMissingTool(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	cfg.Tools.MediaInfo = filepath.Join(testsupport.BaseDir(cfg), "bin", "missing-mediainfo")
	configPath := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"check"}, configPath)
	if err == nil {
		t.Fatal("expected check to fail")
	}
	requireContains(t, err.Error(), "MediaInfo")
	requireContains(t, out, "FAIL")
}

func TestHistoryRequiresJournal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	_, _, err := runCLI(t, []string{"history"}, configPath)
	if err == nil {
		t.Fatal("expected history to fail with the journal disabled")
	}
	requireContains(t, err.Error(), "journal is disabled")
}

func TestHistoryListsRunsAndFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithJournal())
	configPath := writeTestConfig(t, cfg)

	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()
	started := time.Now().Add(-time.Minute)
	if err := store.StartRun(ctx, journal.Run{ID: "run-one", ProfilePath: "/jobs/anime.toml", StartedAt: started, Total: 1}); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := store.RecordFile(ctx, journal.File{
		RunID: "run-one", FileID: 1, InputPath: "/in/ep1.mkv", OutputPath: "/out/01 - Pilot.mkv",
		Title: "Pilot", Status: journal.FileSucceeded, StartedAt: started,
	}); err != nil {
		t.Fatalf("RecordFile: %v", err)
	}
	if err := store.FinishRun(ctx, journal.Run{ID: "run-one", Status: journal.RunSucceeded, Total: 1, Succeeded: 1}); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out, _, err := runCLI(t, []string{"history"}, configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "run-one")
	requireContains(t, out, "anime.toml")

	out, _, err = runCLI(t, []string{"history", "--run", "run-one"}, configPath)
	if err != nil {
		t.Fatalf("history --run: %v", err)
	}
	requireContains(t, out, "ep1.mkv")
	requireContains(t, out, "succeeded")
}

func TestTestNotifyWithoutTopic(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"test-notify"}, configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Notifications not configured")
}
