package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/use-agent/distill/config"
)

// Event types reported by the pipeline.
const (
	EventExtractionEmpty  = "extraction.empty"
	EventExtractionFailed = "extraction.failed"
	EventBatchCompleted   = "batch.completed"
)

// Event is the payload posted to the configured webhook endpoint.
type Event struct {
	Type      string `json:"type"`
	URL       string `json:"url,omitempty"`
	Notice    string `json:"notice,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// Sink delivers pipeline events to an external endpoint. A Sink with no
// configured URL silently drops events, so callers never need to branch.
type Sink struct {
	url    string
	secret string
	client *http.Client
}

// NewSink builds a Sink from configuration.
func NewSink(cfg config.NotifyConfig) *Sink {
	return &Sink{
		url:    cfg.WebhookURL,
		secret: cfg.Secret,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether events will actually be delivered.
func (s *Sink) Enabled() bool {
	return s.url != ""
}

// Deliver posts one event synchronously. The body is signed with
// HMAC-SHA256 when a secret is configured, via the X-Distill-Signature
// header ("sha256=<hex>").
func (s *Sink) Deliver(ctx context.Context, event *Event) error {
	if !s.Enabled() {
		return nil
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("notify: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Distill-Notify/1.0")

	if s.secret != "" {
		mac := hmac.New(sha256.New, []byte(s.secret))
		mac.Write(body)
		req.Header.Set("X-Distill-Signature", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notify: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// DeliverAsync posts an event in the background with up to 3 retries.
// Retry intervals: 1s, 5s, 30s. Fire-and-forget: exhausted retries only log.
func (s *Sink) DeliverAsync(event *Event) {
	if !s.Enabled() {
		return
	}
	go func() {
		delays := []time.Duration{0, time.Second, 5 * time.Second, 30 * time.Second}
		for attempt, delay := range delays {
			if delay > 0 {
				time.Sleep(delay)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := s.Deliver(ctx, event)
			cancel()
			if err == nil {
				slog.Info("event delivered", "event", event.Type, "url", event.URL, "attempt", attempt+1)
				return
			}
			slog.Warn("event delivery failed", "event", event.Type, "url", event.URL, "attempt", attempt+1, "error", err)
		}
		slog.Error("event delivery exhausted all retries", "event", event.Type, "url", event.URL)
	}()
}
