// Package notifier delivers user-facing notifications for timeout warnings
// and automatic recording stops.
package notifier

import (
	"context"
	"log/slog"
)

// Notification is a single user-facing message.
type Notification struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier delivers a notification to one destination. Implementations
// must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the structured log. It is the
// always-on fallback destination.
type LogNotifier struct{}

// Notify logs the notification at INFO level.
func (LogNotifier) Notify(_ context.Context, n Notification) error {
	slog.Info("notification", "id", n.ID, "title", n.Title, "body", n.Body)
	return nil
}

// Multi fans a notification out to every configured destination.
// Delivery failures are logged and do not stop the remaining
// destinations; notifications are diagnostic, never fatal.
type Multi struct {
	notifiers []Notifier
}

// NewMulti returns a Multi delivering to all given notifiers.
func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

// Notify delivers n to each destination in order.
func (m *Multi) Notify(ctx context.Context, n Notification) error {
	for _, dest := range m.notifiers {
		if err := dest.Notify(ctx, n); err != nil {
			slog.Error("notification delivery failed", "id", n.ID, "title", n.Title, "error", err)
		}
	}
	return nil
}
