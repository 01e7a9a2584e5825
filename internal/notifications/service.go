package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"filmdesk/internal/catalog"
	"filmdesk/internal/config"
)

// Event identifies a notification kind.
type Event string

const (
	EventWorkCreated Event = "work_created"
	EventWorkUpdated Event = "work_updated"
	EventSaveFailed  Event = "save_failed"
	EventTest        Event = "test"
)

// Payload carries event fields. Known keys: "title", "kind", "id", "mode",
// "error".
type Payload map[string]string

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
			EventWorkCreated: cfg.Notifications.Created,
			EventWorkUpdated: cfg.Notifications.Updated,
			EventSaveFailed:  cfg.Notifications.Errors,
			EventTest:        true,
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
	get := func(key string) string { return strings.TrimSpace(payload[key]) }
	title := get("title")
	if title == "" {
		title = "untitled"
	}
	if kind := get("kind"); kind != "" {
		title = fmt.Sprintf("%s (%s)", title, kind)
	}

	switch event {
	case EventWorkCreated:
		return message{
			title: "Filmdesk - Work Added",
			body:  "🎬 Added: " + title,
			tags:  []string{"filmdesk", "work", "created"},
		}, true
	case EventWorkUpdated:
		body := "✏️ Updated: " + title
		if id := get("id"); id != "" {
			body += "\nID: " + id
		}
		return message{
			title: "Filmdesk - Work Updated",
			body:  body,
			tags:  []string{"filmdesk", "work", "updated"},
		}, true
	case EventSaveFailed:
		var builder strings.Builder
		builder.WriteString("❌ Save failed")
		if mode := get("mode"); mode != "" {
			builder.WriteString(" during ")
			builder.WriteString(mode)
		}
		builder.WriteString(": ")
		if errText := get("error"); errText != "" {
			builder.WriteString(errText)
		} else {
			builder.WriteString("unknown")
		}
		return message{
			title:    "Filmdesk - Error",
			body:     builder.String(),
			tags:     []string{"filmdesk", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Filmdesk - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"filmdesk", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, data message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", "filmdesk/"+catalog.Version)
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

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
