// ABOUTME: Outbound delivery of transformed messages to chat platform webhooks
// ABOUTME: Sender interface with a timeout-bounded HTTP implementation

package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds an outbound send when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Sender delivers a JSON document to a destination URL. Implementations
// report failure; they never retry.
type Sender interface {
	Send(ctx context.Context, url string, payload any) error
}

// HTTPSender posts JSON payloads over HTTP with a bounded timeout.
type HTTPSender struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTPSender creates an HTTPSender. A zero or negative timeout falls back
// to DefaultTimeout.
func NewHTTPSender(timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPSender{
		client: &http.Client{Timeout: timeout},
		logger: slog.Default().With("component", "dispatch"),
	}
}

// Send marshals the payload and posts it to the URL. Any transport failure or
// non-2xx response is returned as an error.
func (s *HTTPSender) Send(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Webhook endpoints return short diagnostic bodies; capture a little
		// for the error without trusting the size.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, snippet)
	}

	s.logger.Debug("delivered payload", "url", url, "status", resp.StatusCode)
	return nil
}
