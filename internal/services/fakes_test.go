package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"speakerbooking/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// testToday is the fixed "today" of store tests.
var testToday = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testToday }

// fakeSpeakerRepo is an in-memory SpeakerRepository for tests.
type fakeSpeakerRepo struct {
	speakers []*domain.Speaker
	reviews  map[string][]*domain.Review
	err      error // if set, every call returns this error
}

func newFakeSpeakerRepo(speakers ...*domain.Speaker) *fakeSpeakerRepo {
	return &fakeSpeakerRepo{speakers: speakers, reviews: make(map[string][]*domain.Review)}
}

func (f *fakeSpeakerRepo) List(ctx context.Context) ([]*domain.Speaker, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.speakers, nil
}

func (f *fakeSpeakerRepo) GetByID(ctx context.Context, id string) (*domain.Speaker, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.speakers {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSpeakerRepo) ListReviewsBySpeakerID(ctx context.Context, speakerID string) ([]*domain.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reviews[speakerID], nil
}

// fakeTransport returns a fixed outcome or error and counts calls. If block is set, Submit
// waits on it (or ctx) before answering.
type fakeTransport struct {
	mu      sync.Mutex
	outcome domain.BookingOutcome
	err     error
	block   chan struct{}
	started chan struct{}
	calls   int
	last    *domain.BookingRequest
}

func (f *fakeTransport) Submit(ctx context.Context, req *domain.BookingRequest) (domain.BookingOutcome, error) {
	f.mu.Lock()
	f.calls++
	f.last = req
	block, started := f.block, f.started
	f.started = nil
	f.mu.Unlock()
	if started != nil {
		close(started)
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return domain.BookingOutcome{}, ctx.Err()
		}
	}
	if f.err != nil {
		return domain.BookingOutcome{}, f.err
	}
	return f.outcome, nil
}

func (f *fakeTransport) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var errTransport = errors.New("transport down")

func speaker(id string, topics, languages []string, rateMin, rateMax float64) *domain.Speaker {
	return &domain.Speaker{
		ID:        id,
		Name:      "Speaker " + id,
		Topics:    topics,
		Languages: languages,
		RateMin:   rateMin,
		RateMax:   rateMax,
	}
}

func date(y int, m time.Month, d int) domain.Date {
	return domain.Date{Year: y, Month: m, Day: d}
}

// staticStore builds a store over a single speaker "sp-1" whose calendar holds days.
func staticStore(days map[domain.Date]domain.DayStatus) domain.AvailabilityStore {
	cal := domain.NewCalendar("sp-1")
	for d, st := range days {
		cal.Set(d, st)
	}
	repo := newFakeSpeakerRepo(speaker("sp-1", []string{"Leadership"}, []string{"English"}, 1000, 5000))
	return NewAvailabilityStore(repo, StaticCalendarSource{"sp-1": cal}, fixedClock, testLogger)
}
