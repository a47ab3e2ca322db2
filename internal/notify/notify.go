package notify

import "context"

// Message is one outbound plain-text mail
type Message struct {
	To      string
	Subject string
	Body    string
}

// Transport delivers one message over one connect-send-close cycle.
// Implementations must not reuse connections across calls, so a broken
// connection can never poison the next attempt
type Transport interface {
	Send(ctx context.Context, msg Message) error
}
