// Package notifications posts batch progress to an ntfy topic.
//
// NewService returns a no-op implementation when no topic is configured, so
// callers never need to check whether notifications are enabled. The
// on_success and on_failure switches in the config decide which events are
// sent.
package notifications
