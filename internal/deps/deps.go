// Package deps reports whether the external tools trackmux shells out to
// are installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"trackmux/internal/config"
)

// Requirement defines an external binary the pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the tools configured in cfg. The encoder is optional
// unless needEncoder is set, which callers do when a profile converts audio.
func Requirements(cfg *config.Config, needEncoder bool) []Requirement {
	return []Requirement{
		{
			Name:        "MediaInfo",
			Command:     cfg.Tools.MediaInfo,
			Description: "Required for track metadata inspection",
		},
		{
			Name:        "mkvextract",
			Command:     cfg.Tools.MKVExtract,
			Description: "Required for extracting tracks, attachments and chapters",
		},
		{
			Name:        "mkvmerge",
			Command:     cfg.Tools.MKVMerge,
			Description: "Required for remuxing",
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpeg,
			Description: "Required for audio conversion",
			Optional:    !needEncoder,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Detail = resolved
		results = append(results, status)
	}
	return results
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
