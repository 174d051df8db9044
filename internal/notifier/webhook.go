package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/oszuidwest/zwfm-sessionguard/internal/version"
	"github.com/tidwall/gjson"
)

const (
	// Retry settings.
	maxRetries       = 3
	initialRetryWait = 1 * time.Second
	maxRetryWait     = 30 * time.Second

	// HTTP client timeout.
	httpTimeout = 30 * time.Second
)

// Webhook POSTs notifications as JSON to a configured endpoint, retrying
// transient failures with exponential backoff.
type Webhook struct {
	url        string
	httpClient *http.Client

	initialRetryWait time.Duration
	maxRetryWait     time.Duration
}

// NewWebhook creates a webhook notifier targeting url.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:              url,
		httpClient:       &http.Client{Timeout: httpTimeout},
		initialRetryWait: initialRetryWait,
		maxRetryWait:     maxRetryWait,
	}
}

// Notify posts n to the webhook endpoint.
func (w *Webhook) Notify(ctx context.Context, n Notification) error {
	jsonData, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	var lastErr error
	retryWait := w.initialRetryWait

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryWait):
			}
			// Exponential backoff.
			retryWait *= 2
			if retryWait > w.maxRetryWait {
				retryWait = w.maxRetryWait
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(jsonData))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", version.UserAgent())

		resp, err := w.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("send request: %w", err)
			continue
		}

		respBody, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
			slog.Debug("webhook notification delivered", "id", n.ID, "status", resp.StatusCode)
			return nil
		case http.StatusTooManyRequests:
			// Parse Retry-After header if present.
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
					retryWait = time.Duration(seconds) * time.Second
				}
			}
			lastErr = fmt.Errorf("rate limited (429): %s", remoteMessage(respBody))
			continue
		case http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Transient server errors - retry.
			lastErr = fmt.Errorf("server error %d: %s", resp.StatusCode, remoteMessage(respBody))
			continue
		default:
			// Non-retryable error.
			return fmt.Errorf("webhook error %d: %s", resp.StatusCode, remoteMessage(respBody))
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// remoteMessage extracts a human-readable message from a JSON error
// response, falling back to the raw body.
func remoteMessage(body []byte) string {
	if len(body) == 0 {
		return "(empty response)"
	}
	for _, path := range []string{"error.message", "error", "message"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.Type == gjson.String {
			return v.String()
		}
	}
	return string(body)
}
