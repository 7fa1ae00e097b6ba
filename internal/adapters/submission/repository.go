package submission

import (
	"context"
	"errors"
	"fmt"

	"speakerbooking/internal/domain"
)

// ReasonAlreadyBooked is the rejection reason when the backend already holds a request
// for the speaker on that date.
const ReasonAlreadyBooked = "the speaker is already booked on that date"

type repositoryTransport struct {
	repo domain.BookingRequestRepository
}

// NewRepository returns a transport that stores each request through repo. A request for a
// date the speaker already has is rejected, not failed.
func NewRepository(repo domain.BookingRequestRepository) domain.SubmissionTransport {
	return &repositoryTransport{repo: repo}
}

func (t *repositoryTransport) Submit(ctx context.Context, req *domain.BookingRequest) (domain.BookingOutcome, error) {
	if err := t.repo.Create(ctx, req); err != nil {
		if errors.Is(err, domain.ErrDateUnavailable) {
			return domain.Rejected(ReasonAlreadyBooked), nil
		}
		return domain.BookingOutcome{}, fmt.Errorf("store booking request: %w", err)
	}
	return domain.Accepted(), nil
}
