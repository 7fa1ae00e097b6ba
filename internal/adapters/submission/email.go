package submission

import (
	"context"
	"errors"
	"fmt"

	"speakerbooking/internal/adapters/email"
	"speakerbooking/internal/domain"
)

type emailTransport struct {
	speakers domain.SpeakerRepository
	renderer domain.EmailTemplateRenderer
	mailer   domain.Mailer
	deskAddr string
}

// NewEmail returns a transport that mails each request to the bookings desk at deskAddr.
// Delivery to the desk counts as acceptance.
func NewEmail(speakers domain.SpeakerRepository, renderer domain.EmailTemplateRenderer, mailer domain.Mailer, deskAddr string) (domain.SubmissionTransport, error) {
	if deskAddr == "" {
		return nil, errors.New("email transport: bookings desk address is required")
	}
	return &emailTransport{speakers: speakers, renderer: renderer, mailer: mailer, deskAddr: deskAddr}, nil
}

func (t *emailTransport) Submit(ctx context.Context, req *domain.BookingRequest) (domain.BookingOutcome, error) {
	speaker, err := t.speakers.GetByID(ctx, req.SpeakerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Rejected("unknown speaker"), nil
		}
		return domain.BookingOutcome{}, fmt.Errorf("get speaker: %w", err)
	}
	subject, html, text, err := t.renderer.Render(email.BookingRequestTemplate, domain.BookingRequestEmailData{
		Request:     req,
		SpeakerName: speaker.Name,
		VenueLabel:  req.VenueType.Label(),
	})
	if err != nil {
		return domain.BookingOutcome{}, fmt.Errorf("render booking request email: %w", err)
	}
	if err := t.mailer.Send(ctx, t.deskAddr, subject, html, text); err != nil {
		return domain.BookingOutcome{}, fmt.Errorf("send booking request email: %w", err)
	}
	return domain.Accepted(), nil
}
