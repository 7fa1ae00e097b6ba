package domain

import "context"

// Mailer delivers one multipart message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders the subject, html and text parts of a named template.
// Unknown names are an error.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// BookingRequestEmailData holds data for the booking request email sent to the bookings desk.
type BookingRequestEmailData struct {
	Request     *BookingRequest
	SpeakerName string
	VenueLabel  string
}
