// Package submission holds the transports that hand a validated booking request to the
// booking backend.
package submission

import (
	"context"
	"log/slog"
	"time"

	"speakerbooking/internal/domain"
)

type simulatedTransport struct {
	delay  time.Duration
	logger *slog.Logger
}

// NewSimulated returns a transport that waits delay and then accepts every request. It
// stands in for a real backend in development and demos. A canceled ctx aborts the wait.
func NewSimulated(delay time.Duration, logger *slog.Logger) domain.SubmissionTransport {
	return &simulatedTransport{delay: delay, logger: logger}
}

func (t *simulatedTransport) Submit(ctx context.Context, req *domain.BookingRequest) (domain.BookingOutcome, error) {
	timer := time.NewTimer(t.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return domain.BookingOutcome{}, ctx.Err()
	}
	t.logger.InfoContext(ctx, "simulated booking accepted", "flow_id", req.ID, "speaker_id", req.SpeakerID)
	return domain.Accepted(), nil
}
