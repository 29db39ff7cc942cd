package pipeline

import (
	"errors"
	"fmt"

	"trackmux/internal/media"
)

var (
	// ErrQuotaMismatch is returned when a category quota is configured and
	// the number of kept tracks differs from it.
	ErrQuotaMismatch = errors.New("track quota mismatch")
	// ErrBatchLocked is returned when another batch holds the temp root.
	ErrBatchLocked = errors.New("temp directory is in use by another batch")
	// ErrFilesFailed is returned by Batch.Run when at least one file failed.
	ErrFilesFailed = errors.New("one or more files failed")
	// ErrConversionFailed marks an encoder failure. It fails the file but
	// never halts the batch.
	ErrConversionFailed = errors.New("audio conversion failed")
)

// QuotaError reports the category whose kept-track count missed its quota.
type QuotaError struct {
	Category media.Category
	Want     int
	Got      int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s tracks: kept %d, quota is %d", e.Category, e.Got, e.Want)
}

func (e *QuotaError) Unwrap() error { return ErrQuotaMismatch }
