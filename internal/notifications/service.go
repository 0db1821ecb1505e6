package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reelsync/internal/config"
)

const userAgent = "reelsync/0.1.0"

// Event identifies a notification type.
type Event string

const (
	EventPendingReview Event = "pending_review"
	EventRunCompleted  Event = "run_completed"
	EventError         Event = "error"
	EventTest          Event = "test"
)

// Payload carries the event fields; keys are event specific.
type Payload map[string]any

// Service publishes events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
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
		enabled: map[Event]bool{
			EventPendingReview: cfg.Notifications.PendingReview,
			EventRunCompleted:  cfg.Notifications.RunSummary,
			EventError:         true,
			EventTest:          true,
		},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	enabled  map[Event]bool
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if !n.enabled[event] {
		return nil
	}
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func format(event Event, payload Payload) (message, bool) {
	switch event {
	case EventPendingReview:
		title := text(payload, "title")
		body := fmt.Sprintf("🤔 Needs a manual choice: %s", title)
		if n := number(payload, "candidates"); n > 0 {
			body = fmt.Sprintf("%s (%d candidates)", body, n)
		}
		return message{
			title: "reelsync - Review Needed",
			body:  body + "\nRun: reelsync pending resolve",
			tags:  []string{"reelsync", "review"},
		}, true
	case EventRunCompleted:
		body := fmt.Sprintf("✅ Enriched %d, deferred %d, skipped %d, failed %d",
			number(payload, "enriched"), number(payload, "deferred"), number(payload, "skipped"), number(payload, "failed"))
		if tags := number(payload, "tags_backfilled"); tags > 0 {
			body = fmt.Sprintf("%s\nTags backfilled: %d", body, tags)
		}
		if reminders := number(payload, "reminders_created"); reminders > 0 {
			body = fmt.Sprintf("%s\nReminders created: %d", body, reminders)
		}
		msg := message{title: "reelsync - Run Complete", body: body, tags: []string{"reelsync", "run", "completed"}}
		if number(payload, "failed") > 0 {
			msg.title = "reelsync - Run Complete (with errors)"
		}
		return msg, true
	case EventError:
		var builder strings.Builder
		builder.WriteString("❌ Error")
		if label := text(payload, "context"); label != "" {
			builder.WriteString(" during ")
			builder.WriteString(label)
		}
		builder.WriteString(": ")
		if errText := text(payload, "error"); errText != "" {
			builder.WriteString(errText)
		} else {
			builder.WriteString("unknown")
		}
		return message{
			title:    "reelsync - Error",
			body:     builder.String(),
			tags:     []string{"reelsync", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "reelsync - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"reelsync", "test"},
			priority: "low",
		}, true
	}
	return message{}, false
}

func text(payload Payload, key string) string {
	if v, ok := payload[key]; ok && v != nil {
		return strings.TrimSpace(fmt.Sprint(v))
	}
	return ""
}

func number(payload Payload, key string) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
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

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
