package core

import "net/mail"

type (
	// EmailMessage is a plain transactional email.
	EmailMessage struct {
		To          []mail.Address
		Subject     string
		TextContent string
		HTMLContent string
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently; failures are logged, never returned.
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.TextContent != "" || m.HTMLContent != ""
}
