// Package mailer builds and sends the two notification emails. Transport
// is pluggable behind the Sender interface; composition lives here.
package mailer

import "context"

// Message is one outbound email with an HTML body.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	Headers  map[string]string
}

// Sender delivers a message. Implementations must treat a call as
// all-or-nothing: a nil return means the transport accepted the message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
