package notify

import (
	"context"
	"log"
)

// Push is a notification addressed to a single rescuer device/account.
type Push struct {
	RescuerID string            `json:"rescuer_id"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
}

// Notifier defines the interface for delivering push notifications to rescuers.
type Notifier interface {
	Notify(ctx context.Context, pushes []Push) error
}

// LogNotifier is a mock implementation that just logs push details.
// Useful for development or when no real push provider is configured.
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() Notifier {
	return &LogNotifier{}
}

// Notify logs each push instead of delivering it.
func (n *LogNotifier) Notify(ctx context.Context, pushes []Push) error {
	for _, p := range pushes {
		log.Printf("--- Push (Logged) --- To: %s, Title: %s, Body: %s, Data: %v", p.RescuerID, p.Title, p.Body, p.Data)
	}
	return nil
}
