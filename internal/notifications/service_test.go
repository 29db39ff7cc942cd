package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trackmux/internal/config"
	"trackmux/internal/notifications"
)

type captured struct {
	calls    int
	title    string
	tags     string
	priority string
	body     string
}

func newServer(t *testing.T, status int) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		got.calls++
		got.title = r.Header.Get("Title")
		got.tags = r.Header.Get("Tags")
		got.priority = r.Header.Get("Priority")
		body, _ := io.ReadAll(r.Body)
		got.body = string(body)
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, got
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyBatchCompleted(context.Background(), notifications.BatchStats{Succeeded: 1}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := notifications.NewService(nil).TestNotification(context.Background()); err != nil {
		t.Fatalf("nil config should yield noop, got %v", err)
	}
}

func TestBatchCompletedMessages(t *testing.T) {
	tests := []struct {
		name           string
		stats          notifications.BatchStats
		expectTitle    string
		expectMessage  string
		expectPriority string
	}{
		{
			name:          "success",
			stats:         notifications.BatchStats{Succeeded: 3, Duration: 61 * time.Second},
			expectTitle:   "trackmux - Batch Complete",
			expectMessage: "Batch complete: 3 files muxed in 1m1s",
		},
		{
			name:          "with errors",
			stats:         notifications.BatchStats{Succeeded: 2, Failed: 1, Skipped: 4, Duration: 2 * time.Second},
			expectTitle:   "trackmux - Batch Complete (with errors)",
			expectMessage: "Batch complete: 2 succeeded, 1 failed in 2s (4 skipped)",
		},
		{
			name:           "aborted",
			stats:          notifications.BatchStats{Succeeded: 1, Failed: 1, Aborted: true},
			expectTitle:    "trackmux - Batch Aborted",
			expectMessage:  "Batch stopped after a failure: 1 succeeded, 1 failed in 0s",
			expectPriority: "high",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, got := newServer(t, http.StatusOK)
			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL

			if err := notifications.NewService(&cfg).NotifyBatchCompleted(context.Background(), tc.stats); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}
			if got.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, got.title)
			}
			if got.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, got.body)
			}
			if got.tags != "trackmux,batch,completed" {
				t.Fatalf("unexpected tags %q", got.tags)
			}
			if got.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, got.priority)
			}
		})
	}
}

func TestFailureNotificationsRespectSwitch(t *testing.T) {
	server, got := newServer(t, http.StatusOK)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.OnFailure = false

	svc := notifications.NewService(&cfg)
	if err := svc.NotifyFileFailed(context.Background(), "/in/a.mkv", errors.New("boom")); err != nil {
		t.Fatal(err)
	}
	if err := svc.NotifyBatchCompleted(context.Background(), notifications.BatchStats{Failed: 1}); err != nil {
		t.Fatal(err)
	}
	if got.calls != 0 {
		t.Fatalf("expected suppressed failure notifications, got %d calls", got.calls)
	}

	cfg.Notifications.OnFailure = true
	if err := notifications.NewService(&cfg).NotifyFileFailed(context.Background(), "/in/a.mkv", errors.New("boom")); err != nil {
		t.Fatal(err)
	}
	if got.calls != 1 || got.body != "Failed: a.mkv\nboom" || got.priority != "high" {
		t.Fatalf("unexpected failure notification: %+v", got)
	}
}

func TestSendReportsHTTPErrors(t *testing.T) {
	server, _ := newServer(t, http.StatusForbidden)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	if err := notifications.NewService(&cfg).TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
