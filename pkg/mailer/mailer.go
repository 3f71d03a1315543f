// Package mailer abstracts outbound email transport. The evaluation
// submission flow only ever produces a subject/plain/HTML triple plus a
// recipient list; transport failure is reported as an error value and the
// caller decides whether it may propagate.
package mailer

import "context"

// Message is a fully rendered email.
type Message struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// HasRecipients reports whether there is anyone to deliver to.
func (m Message) HasRecipients() bool {
	return len(m.To) > 0
}

// HasContent reports whether there is anything to deliver.
func (m Message) HasContent() bool {
	return m.TextBody != "" || m.HTMLBody != ""
}

// Mailer sends a rendered message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
