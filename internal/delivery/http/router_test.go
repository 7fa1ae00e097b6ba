package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speakerbooking/internal/adapters/submission"
	"speakerbooking/internal/delivery/http/controllers"
	"speakerbooking/internal/delivery/http/helpers"
	"speakerbooking/internal/delivery/http/middleware"
	"speakerbooking/internal/domain"
	"speakerbooking/internal/repository/memory"
	"speakerbooking/internal/services"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestRouter(t *testing.T, limiter *middleware.RateLimiter) *http.ServeMux {
	t.Helper()
	repo, err := memory.LoadEmbedded()
	require.NoError(t, err)
	source, err := services.NewRandomCalendarSource(domain.DefaultAvailabilityWeights, 7)
	require.NoError(t, err)
	store := services.NewAvailabilityStore(repo, source, time.Now, testLogger)
	speakerSvc := services.NewSpeakerService(repo, time.Second)
	flows := services.NewBookingFlowManager(store, submission.NewSimulated(0, testLogger), services.BookingFlowConfig{}, testLogger)
	return NewRouter(
		controllers.NewSpeakerController(testLogger, speakerSvc),
		controllers.NewAvailabilityController(testLogger, store),
		controllers.NewBookingController(testLogger, flows, speakerSvc),
		limiter,
	)
}

func TestRouter_Routes(t *testing.T) {
	mux := newTestRouter(t, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK},
		{name: "list speakers", method: http.MethodGet, path: "/speakers?topic=Leadership", wantStatus: http.StatusOK},
		{name: "featured is not an id", method: http.MethodGet, path: "/speakers/featured", wantStatus: http.StatusOK},
		{name: "speaker", method: http.MethodGet, path: "/speakers/speaker-1", wantStatus: http.StatusOK},
		{name: "unknown speaker", method: http.MethodGet, path: "/speakers/nobody", wantStatus: http.StatusNotFound},
		{name: "reviews", method: http.MethodGet, path: "/speakers/speaker-1/reviews", wantStatus: http.StatusOK},
		{name: "availability", method: http.MethodGet, path: "/speakers/speaker-1/availability?months=3", wantStatus: http.StatusOK},
		{name: "day availability", method: http.MethodGet, path: "/speakers/speaker-1/availability/2030-01-01", wantStatus: http.StatusOK},
		{name: "open booking", method: http.MethodPost, path: "/speakers/speaker-1/bookings", wantStatus: http.StatusCreated},
		{name: "unknown booking", method: http.MethodGet, path: "/bookings/missing", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodPut, path: "/bookings/missing", wantStatus: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestRouter_FeaturedSpeakers(t *testing.T) {
	mux := newTestRouter(t, nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/speakers/featured?limit=10", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var envelope struct {
		Data []*domain.Speaker `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.NotEmpty(t, envelope.Data)
	for _, s := range envelope.Data {
		assert.True(t, s.Featured, s.ID)
	}
}

func TestRouter_SubmitIsRateLimited(t *testing.T) {
	mux := newTestRouter(t, middleware.NewRateLimiter(1))

	submit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/bookings/missing/submit", nil)
		req.RemoteAddr = "192.0.2.1:4000"
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusNotFound, submit().Code)
	rr := submit()
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, helpers.ErrCodeTooManyRequests, envelope.Error.Code)
}
