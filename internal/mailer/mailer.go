// Package mailer renders and delivers the site's outbound email.
package mailer

import "context"

// Message is a single HTML email. The sender address is fixed by the
// transport; FromName only sets its display name.
type Message struct {
	To       string
	ReplyTo  string
	FromName string
	Subject  string
	HTML     string
}

// Sender delivers one message. Failures unwrap to
// domain.ErrNotificationFailure.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
