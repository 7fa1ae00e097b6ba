package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"speakerbooking/internal/delivery/http/helpers"
	"speakerbooking/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeSpeakerService implements domain.SpeakerService for handler tests.
type fakeSpeakerService struct {
	speakers      []*domain.Speaker
	reviews       map[string][]*domain.Review
	total         int
	maxRate       float64
	err           error
	maxRateErr    error
	lastCriteria  domain.FilterCriteria
	lastParams    domain.PaginationParams
	lastLimit     int
	lastSpeakerID string
}

func (f *fakeSpeakerService) Search(_ context.Context, criteria domain.FilterCriteria, page domain.PaginationParams) ([]*domain.Speaker, int, error) {
	f.lastCriteria, f.lastParams = criteria, page
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.speakers, f.total, nil
}

func (f *fakeSpeakerService) Featured(_ context.Context, limit int) ([]*domain.Speaker, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.speakers, nil
}

func (f *fakeSpeakerService) GetByID(_ context.Context, id string) (*domain.Speaker, error) {
	f.lastSpeakerID = id
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

func (f *fakeSpeakerService) ListReviews(_ context.Context, speakerID string) ([]*domain.Review, error) {
	f.lastSpeakerID = speakerID
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.reviews[speakerID]; !ok {
		return nil, domain.ErrNotFound
	}
	return f.reviews[speakerID], nil
}

func (f *fakeSpeakerService) MaxRate(context.Context) (float64, error) {
	if f.maxRateErr != nil {
		return 0, f.maxRateErr
	}
	return f.maxRate, nil
}

// fakeAvailabilityStore implements domain.AvailabilityStore and records the last query.
type fakeAvailabilityStore struct {
	status        domain.DayStatus
	err           error
	lastSpeakerID string
	lastFrom      domain.YearMonth
	lastN         int
	lastDate      domain.Date
}

func (f *fakeAvailabilityStore) GetMonth(_ context.Context, speakerID string, ym domain.YearMonth) (domain.MonthAvailability, error) {
	return domain.MonthAvailability{}, f.err
}

func (f *fakeAvailabilityStore) GetMonths(_ context.Context, speakerID string, from domain.YearMonth, n int) ([]domain.MonthView, error) {
	f.lastSpeakerID, f.lastFrom, f.lastN = speakerID, from, n
	if f.err != nil {
		return nil, f.err
	}
	views := make([]domain.MonthView, 0, n)
	for i := 0; i < n; i++ {
		ym := from.AddMonths(i)
		days := domain.MonthAvailability{ym.First(): domain.DayAvailable}
		views = append(views, domain.MonthView{Month: ym, Days: days, Summary: domain.MonthSummary{Available: 1}})
	}
	return views, nil
}

func (f *fakeAvailabilityStore) GetDate(_ context.Context, speakerID string, d domain.Date) (domain.DayStatus, error) {
	f.lastSpeakerID, f.lastDate = speakerID, d
	if f.err != nil {
		return domain.DayUnknown, f.err
	}
	return f.status, nil
}

func (f *fakeAvailabilityStore) Snapshot(context.Context, string) (*domain.Calendar, error) {
	return nil, f.err
}

func (f *fakeAvailabilityStore) Commit(context.Context, string, domain.Date, string) error {
	return f.err
}

// fakeTransport answers every submission with outcome or err.
type fakeTransport struct {
	mu      sync.Mutex
	outcome domain.BookingOutcome
	err     error
	calls   int
}

func (f *fakeTransport) Submit(context.Context, *domain.BookingRequest) (domain.BookingOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.outcome, f.err
}

// decodeEnvelope decodes the response envelope, unmarshalling data into dest when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, dest))
	}
	return envelope.Error
}
