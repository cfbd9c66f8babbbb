package notify

import (
	"context"
	"fmt"
	"strings"
)

// CompositeNotifier implements the Notifier interface and delegates delivery to multiple Notifiers.
type CompositeNotifier struct {
	notifiers []Notifier
}

// NewCompositeNotifier creates a new CompositeNotifier.
// It returns the concrete type so AddNotifier can be called directly.
func NewCompositeNotifier(notifiers ...Notifier) *CompositeNotifier {
	return &CompositeNotifier{notifiers: notifiers}
}

// AddNotifier adds a notifier to the composite notifier's list.
func (cn *CompositeNotifier) AddNotifier(n Notifier) {
	if n != nil {
		cn.notifiers = append(cn.notifiers, n)
	}
}

// Notify iterates through all registered notifiers and calls their Notify method.
// It collects all errors encountered and returns them as a single error.
func (cn *CompositeNotifier) Notify(ctx context.Context, pushes []Push) error {
	if len(cn.notifiers) == 0 {
		return fmt.Errorf("no notifiers configured in CompositeNotifier")
	}

	var allErrors []string
	for _, n := range cn.notifiers {
		if err := n.Notify(ctx, pushes); err != nil {
			allErrors = append(allErrors, err.Error())
		}
	}

	if len(allErrors) > 0 {
		return fmt.Errorf("composite push delivery failed: [ %s ]", strings.Join(allErrors, "; "))
	}
	return nil
}
