package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastWebhook shrinks the backoff so retry tests finish quickly.
func fastWebhook(url string) *Webhook {
	w := NewWebhook(url)
	w.initialRetryWait = time.Millisecond
	w.maxRetryWait = 10 * time.Millisecond
	return w
}

func TestWebhookDeliversJSON(t *testing.T) {
	t.Parallel()

	var received Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := Notification{ID: "n-1", Title: "Recording Timeout", Body: "stopped"}
	err := NewWebhook(srv.URL).Notify(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, n, received)
}

func TestWebhookRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, `{"error":{"message":"busy"}}`, http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := fastWebhook(srv.URL).Notify(context.Background(), Notification{ID: "n-2"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWebhookDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"bad payload"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	err := fastWebhook(srv.URL).Notify(context.Background(), Notification{ID: "n-3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad payload")
	assert.Equal(t, int32(1), calls.Load(), "4xx responses must not be retried")
}

func TestWebhookGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := fastWebhook(srv.URL).Notify(context.Background(), Notification{ID: "n-4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Equal(t, int32(maxRetries+1), calls.Load())
}

func TestWebhookHonorsContextDuringBackoff(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		// Default backoff keeps the worker in the wait when cancel lands.
		done <- NewWebhook(srv.URL).Notify(ctx, Notification{ID: "n-5"})
	}()
	cancel()

	err := <-done
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRemoteMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{"nested error object", `{"error":{"message":"quota exhausted"}}`, "quota exhausted"},
		{"flat error string", `{"error":"denied"}`, "denied"},
		{"message field", `{"message":"try later"}`, "try later"},
		{"plain text", `service unavailable`, "service unavailable"},
		{"empty body", ``, "(empty response)"},
		{"non-string error", `{"error":42}`, `{"error":42}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, remoteMessage([]byte(tc.body)))
		})
	}
}
