// Package notify delivers transactional email through a bounded background queue.
package notify

import "context"

// Message is a single outbound email. Template names the message kind for metrics.
type Message struct {
	From     string
	To       string
	Subject  string
	Text     string
	HTML     string
	Template string
}

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
