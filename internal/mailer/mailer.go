// Package mailer sends MIME email through an impersonated-identity mail
// API. The Sender interface is what services depend on; the Gmail
// implementation lives in gmail.go.
package mailer

import "context"

// Attachment is a binary part added to the outgoing message.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
	// ContentID marks an inline asset (e.g. a logo referenced by cid:).
	ContentID string
}

// Message is one outbound email.
type Message struct {
	// From is the impersonated sender identity; it must be authorized
	// for domain-wide delegation.
	From        string
	To          string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// SendResult carries the provider's identifiers for a delivered message.
type SendResult struct {
	MessageID string
	ThreadID  string
}

// Sender sends a single message. Implementations must treat every error
// as retryable from the caller's point of view; permanent-failure
// classification happens upstream.
type Sender interface {
	Send(ctx context.Context, msg Message) (*SendResult, error)
}
