package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// InvitationEmailData holds data for the "you are invited" email.
type InvitationEmailData struct {
	Email         string
	InviteeName   string
	InvitorName   string
	PartyName     string
	PartyLocation string
	PartyDate     string
	InvitationID  string
}

// PartyCancelledEmailData holds data for the email sent to invitees when a party is deleted.
type PartyCancelledEmailData struct {
	Email       string
	InviteeName string
	PartyName   string
	PartyDate   string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendInvitation(ctx context.Context, data *InvitationEmailData) error
	// SendPartyCancelled notifies every recipient; it returns the addresses that could not be reached.
	SendPartyCancelled(ctx context.Context, data []*PartyCancelledEmailData) (failed []string)
}
