// Package logging assembles structured slog loggers for trackmux.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context-aware helpers that tag log lines with the batch run id, the file
// id, and the pipeline stage. A no-op logger is provided for tests and
// wiring code that cannot fail.
package logging
