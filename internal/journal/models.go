package journal

import "time"

// RunStatus is the lifecycle state of a batch run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// FileStatus is the outcome of one input.
type FileStatus string

const (
	FileSucceeded FileStatus = "succeeded"
	FileFailed    FileStatus = "failed"
	FileSkipped   FileStatus = "skipped"
	// FileAborted marks a file interrupted by cancellation, typically
	// because another worker failed.
	FileAborted FileStatus = "aborted"
)

// Run is one batch invocation.
type Run struct {
	ID          string
	ProfilePath string
	Status      RunStatus
	StartedAt   time.Time
	FinishedAt  time.Time
	Total       int
	Succeeded   int
	Failed      int
	Skipped     int
}

// Duration is the wall time of a finished run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// File is the recorded outcome of one input.
type File struct {
	RunID        string
	FileID       int64
	InputPath    string
	OutputPath   string
	Title        string
	Status       FileStatus
	FailureKind  string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}
