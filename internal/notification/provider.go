// Package notification delivers operator notifications for new contact
// requests (currently email via SMTP) and builds their content.
package notification

import "context"

// Message is the content to be delivered by a Provider.
type Message struct {
	Subject  string
	HTMLBody string
	TextBody string
}

// Provider is the interface for notification delivery backends.
// Implementations are constructed once and shared between requests,
// so they must be safe for concurrent use.
type Provider interface {
	// Name returns the provider identifier (e.g. "smtp").
	Name() string
	// Send makes a single delivery attempt of msg.
	Send(ctx context.Context, msg Message) error
}
