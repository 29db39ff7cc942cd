package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"trackmux/internal/config"
)

const userAgent = "trackmux/0.1.0"

// Service defines the notifications a batch emits.
type Service interface {
	NotifyBatchStarted(ctx context.Context, count int) error
	NotifyBatchCompleted(ctx context.Context, stats BatchStats) error
	NotifyFileFailed(ctx context.Context, input string, err error) error
	TestNotification(ctx context.Context) error
}

// BatchStats summarizes a finished batch.
type BatchStats struct {
	Succeeded int
	Failed    int
	Skipped   int
	Duration  time.Duration
	// Aborted is set when the batch stopped early on a failure.
	Aborted bool
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		onSuccess: cfg.Notifications.OnSuccess,
		onFailure: cfg.Notifications.OnFailure,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	onSuccess bool
	onFailure bool
}

func (n *ntfyService) NotifyBatchStarted(ctx context.Context, count int) error {
	if !n.onSuccess {
		return nil
	}
	data := payload{
		title:   "trackmux - Batch Started",
		message: fmt.Sprintf("Started processing %d files", count),
		tags:    []string{"trackmux", "batch", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBatchCompleted(ctx context.Context, stats BatchStats) error {
	failed := stats.Failed > 0 || stats.Aborted
	if (failed && !n.onFailure) || (!failed && !n.onSuccess) {
		return nil
	}

	duration := stats.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	data := payload{
		tags: []string{"trackmux", "batch", "completed"},
	}
	switch {
	case stats.Aborted:
		data.title = "trackmux - Batch Aborted"
		data.message = fmt.Sprintf("Batch stopped after a failure: %d succeeded, %d failed in %s",
			stats.Succeeded, stats.Failed, duration)
		data.priority = "high"
	case failed:
		data.title = "trackmux - Batch Complete (with errors)"
		data.message = fmt.Sprintf("Batch complete: %d succeeded, %d failed in %s", stats.Succeeded, stats.Failed, duration)
	default:
		data.title = "trackmux - Batch Complete"
		data.message = fmt.Sprintf("Batch complete: %d files muxed in %s", stats.Succeeded, duration)
	}
	if stats.Skipped > 0 {
		data.message += fmt.Sprintf(" (%d skipped)", stats.Skipped)
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyFileFailed(ctx context.Context, input string, err error) error {
	if !n.onFailure {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Failed: ")
	builder.WriteString(filepath.Base(strings.TrimSpace(input)))
	builder.WriteString("\n")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown error")
	}
	data := payload{
		title:    "trackmux - Error",
		message:  builder.String(),
		tags:     []string{"trackmux", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "trackmux - Test",
		message:  "Notification system test",
		tags:     []string{"trackmux", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyBatchStarted(context.Context, int) error          { return nil }
func (noopService) NotifyBatchCompleted(context.Context, BatchStats) error { return nil }
func (noopService) NotifyFileFailed(context.Context, string, error) error  { return nil }
func (noopService) TestNotification(context.Context) error                 { return nil }
