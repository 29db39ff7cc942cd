package preflight

import (
	"fmt"
	"path/filepath"
	"strings"

	"trackmux/internal/config"
	"trackmux/internal/deps"
	"trackmux/internal/profile"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Optional results never block a run.
	Optional bool
}

// RunAll executes every check that applies to cfg and, when given, prof.
func RunAll(cfg *config.Config, prof *profile.Profile) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryCreatable("Temp directory", cfg.Paths.TempDir))
	if cfg.Journal.Enabled {
		results = append(results, CheckDirectoryCreatable("Journal directory", filepath.Dir(cfg.Journal.Path)))
	}

	needEncoder := prof != nil && prof.Audio.Conversion.Enabled()
	for _, status := range CheckSystemDeps(cfg, needEncoder) {
		results = append(results, fromStatus(status))
	}

	if prof == nil {
		return results
	}
	results = append(results,
		CheckDirectoryReadable("Input directory", prof.InputDir),
		CheckFileReadable("Names file", prof.NamesFile),
		CheckDirectoryCreatable("Output directory", prof.OutputDir),
	)
	if prof.Attachments.ImportFromFolder != "" {
		results = append(results, CheckDirectoryReadable("Attachment folder", prof.Attachments.ImportFromFolder))
	}
	if prof.Misc.TagsPath != "" {
		tags := CheckFileReadable("Global tags", prof.Misc.TagsPath)
		tags.Optional = true
		results = append(results, tags)
	}
	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}

// Error summarizes failed checks, or returns nil when all passed.
func Error(results []Result) error {
	failed := Failed(results)
	if len(failed) == 0 {
		return nil
	}
	parts := make([]string, len(failed))
	for i, r := range failed {
		parts[i] = fmt.Sprintf("%s: %s", r.Name, r.Detail)
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
}

func fromStatus(status deps.Status) Result {
	return Result{
		Name:     status.Name,
		Passed:   status.Available,
		Detail:   status.Detail,
		Optional: status.Optional,
	}
}
