package mail

import "context"

// Message represents an outbound email.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender is the abstraction over outbound email. The delivery engine and the
// notification paths depend on this, never on SMTP details.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
