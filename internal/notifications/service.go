package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/0xramDisk/second-brain/internal/config"
)

const userAgent = "second-brain/0.1.0"

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	NotifyIngestCompleted(ctx context.Context, title, status string, warningCount, errorCount int) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyIngestCompleted(ctx context.Context, title, status string, warningCount, errorCount int) error {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "(untitled video)"
	}

	var message string
	var notifyTitle string
	tags := []string{"second-brain", "ingest", status}
	switch status {
	case "succeeded":
		notifyTitle = "Second Brain - Ingested"
		message = fmt.Sprintf("Ingested: %s", title)
	case "failed":
		notifyTitle = "Second Brain - Ingest Failed"
		message = fmt.Sprintf("Ingest failed: %s (%d errors)", title, errorCount)
	default:
		notifyTitle = "Second Brain - Ingested (with issues)"
		message = fmt.Sprintf("Ingested with issues: %s (%d warnings, %d errors)", title, warningCount, errorCount)
	}

	data := payload{
		title:   notifyTitle,
		message: message,
		tags:    tags,
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Second Brain - Error",
		message:  builder.String(),
		tags:     []string{"second-brain", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Second Brain - Test",
		message:  "Notification system test",
		tags:     []string{"second-brain", "test"},
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

func (noopService) NotifyIngestCompleted(context.Context, string, string, int, int) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error                      { return nil }
func (noopService) TestNotification(context.Context) error                                { return nil }
