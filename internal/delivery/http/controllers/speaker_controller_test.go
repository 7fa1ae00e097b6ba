package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speakerbooking/internal/delivery/http/helpers"
	"speakerbooking/internal/domain"
)

func testSpeakers() []*domain.Speaker {
	return []*domain.Speaker{
		{ID: "speaker-1", Name: "Dr. Sarah Johnson", Topics: []string{"Leadership"}, Languages: []string{"English"}, RateMin: 5000, RateMax: 10000, Featured: true},
		{ID: "speaker-2", Name: "Michael Chen", Topics: []string{"Marketing"}, Languages: []string{"English", "Mandarin"}, RateMin: 3000, RateMax: 7000},
	}
}

func TestSpeakerController_ListSpeakers(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		fake           *fakeSpeakerService
		wantStatus     int
		wantBodySubstr string
		check          func(t *testing.T, fake *fakeSpeakerService, data ListSpeakersResponse)
	}{
		{
			name:       "no filters",
			fake:       &fakeSpeakerService{speakers: testSpeakers(), total: 2, maxRate: 10000},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, fake *fakeSpeakerService, data ListSpeakersResponse) {
				assert.True(t, fake.lastCriteria.IsEmpty())
				assert.Equal(t, domain.PaginationParams{Page: 1, PageSize: 20}, fake.lastParams)
				require.Len(t, data.Items, 2)
				assert.Equal(t, "speaker-1", data.Items[0].ID)
				assert.Equal(t, helpers.PaginationMeta{Page: 1, PageSize: 20, Total: 2, TotalPages: 1}, data.Pagination)
				assert.Equal(t, 10000.0, data.MaxRate)
			},
		},
		{
			name:       "all filters",
			query:      "?q=+lead+&topic=Leadership&topic=Innovation&language=English&min_rate=2000&max_rate=8000&page=2&page_size=1",
			fake:       &fakeSpeakerService{speakers: testSpeakers()[1:], total: 2, maxRate: 10000},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, fake *fakeSpeakerService, data ListSpeakersResponse) {
				c := fake.lastCriteria
				assert.Equal(t, "lead", c.Term)
				assert.Equal(t, []string{"Leadership", "Innovation"}, c.Topics)
				assert.Equal(t, []string{"English"}, c.Languages)
				require.NotNil(t, c.Price)
				assert.Equal(t, domain.PriceRange{Min: 2000, Max: 8000}, *c.Price)
				assert.Equal(t, helpers.PaginationMeta{Page: 2, PageSize: 1, Total: 2, TotalPages: 2}, data.Pagination)
			},
		},
		{
			name:       "only min rate uses roster max",
			query:      "?min_rate=6000",
			fake:       &fakeSpeakerService{maxRate: 10000},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, fake *fakeSpeakerService, data ListSpeakersResponse) {
				require.NotNil(t, fake.lastCriteria.Price)
				assert.Equal(t, domain.PriceRange{Min: 6000, Max: 10000}, *fake.lastCriteria.Price)
			},
		},
		{
			name:       "min rate above roster max matches nothing",
			query:      "?min_rate=25000",
			fake:       &fakeSpeakerService{maxRate: 20000},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, fake *fakeSpeakerService, data ListSpeakersResponse) {
				require.NotNil(t, fake.lastCriteria.Price)
				assert.Equal(t, domain.PriceRange{Min: 25000, Max: 20000}, *fake.lastCriteria.Price)
				assert.Empty(t, data.Items)
			},
		},
		{
			name:       "blank topic ignored",
			query:      "?topic=&topic=+",
			fake:       &fakeSpeakerService{maxRate: 10000},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, fake *fakeSpeakerService, data ListSpeakersResponse) {
				assert.Empty(t, fake.lastCriteria.Topics)
			},
		},
		{
			name:           "bad min rate",
			query:          "?min_rate=abc",
			fake:           &fakeSpeakerService{maxRate: 10000},
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "min_rate",
		},
		{
			name:           "nan min rate",
			query:          "?min_rate=NaN",
			fake:           &fakeSpeakerService{maxRate: 10000},
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "min_rate",
		},
		{
			name:           "infinite max rate",
			query:          "?max_rate=Inf",
			fake:           &fakeSpeakerService{maxRate: 10000},
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "max_rate",
		},
		{
			name:           "inverted range",
			query:          "?min_rate=9000&max_rate=1000",
			fake:           &fakeSpeakerService{maxRate: 10000},
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "must not exceed",
		},
		{
			name:           "search error",
			fake:           &fakeSpeakerService{err: errors.New("catalog down")},
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "catalog down",
		},
		{
			name:           "max rate error",
			fake:           &fakeSpeakerService{maxRateErr: errors.New("catalog down")},
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "catalog down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewSpeakerController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodGet, "http://test/speakers"+tt.query, nil)
			rr := httptest.NewRecorder()
			ctrl.ListSpeakers(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantStatus == http.StatusOK {
				var data ListSpeakersResponse
				apiErr := decodeEnvelope(t, rr, &data)
				require.Nil(t, apiErr)
				if tt.check != nil {
					tt.check(t, tt.fake, data)
				}
				return
			}
			apiErr := decodeEnvelope(t, rr, nil)
			require.NotNil(t, apiErr)
			assert.Contains(t, apiErr.Message, tt.wantBodySubstr)
		})
	}
}

func TestSpeakerController_ListFeaturedSpeakers(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		fake := &fakeSpeakerService{speakers: testSpeakers()[:1]}
		rr := httptest.NewRecorder()
		NewSpeakerController(testLogger, fake).ListFeaturedSpeakers(rr, httptest.NewRequest(http.MethodGet, "/speakers/featured", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, DefaultFeaturedLimit, fake.lastLimit)
		var data []*domain.Speaker
		require.Nil(t, decodeEnvelope(t, rr, &data))
		require.Len(t, data, 1)
		assert.True(t, data[0].Featured)
	})

	t.Run("explicit limit", func(t *testing.T) {
		fake := &fakeSpeakerService{}
		rr := httptest.NewRecorder()
		NewSpeakerController(testLogger, fake).ListFeaturedSpeakers(rr, httptest.NewRequest(http.MethodGet, "/speakers/featured?limit=5", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 5, fake.lastLimit)
	})

	t.Run("bad limit", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewSpeakerController(testLogger, &fakeSpeakerService{}).ListFeaturedSpeakers(rr, httptest.NewRequest(http.MethodGet, "/speakers/featured?limit=0", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSpeakerController_GetSpeaker(t *testing.T) {
	tests := []struct {
		name       string
		speakerID  string
		err        error
		wantStatus int
	}{
		{name: "found", speakerID: "speaker-2", wantStatus: http.StatusOK},
		{name: "not found", speakerID: "speaker-9", wantStatus: http.StatusNotFound},
		{name: "missing id", wantStatus: http.StatusBadRequest},
		{name: "service error", speakerID: "speaker-2", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSpeakerService{speakers: testSpeakers(), err: tt.err}
			req := httptest.NewRequest(http.MethodGet, "http://test/speakers/"+tt.speakerID, nil)
			if tt.speakerID != "" {
				req.SetPathValue("speakerID", tt.speakerID)
			}
			rr := httptest.NewRecorder()
			NewSpeakerController(testLogger, fake).GetSpeaker(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var data domain.Speaker
				require.Nil(t, decodeEnvelope(t, rr, &data))
				assert.Equal(t, "Michael Chen", data.Name)
			}
		})
	}
}

func TestSpeakerController_ListSpeakerReviews(t *testing.T) {
	fake := &fakeSpeakerService{reviews: map[string][]*domain.Review{
		"speaker-1": {{SpeakerID: "speaker-1", ReviewerName: "Emily Carter", Rating: 5}},
		"speaker-2": {},
	}}
	ctrl := NewSpeakerController(testLogger, fake)

	do := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "http://test/speakers/"+id+"/reviews", nil)
		req.SetPathValue("speakerID", id)
		rr := httptest.NewRecorder()
		ctrl.ListSpeakerReviews(rr, req)
		return rr
	}

	rr := do("speaker-1")
	require.Equal(t, http.StatusOK, rr.Code)
	var reviews []*domain.Review
	require.Nil(t, decodeEnvelope(t, rr, &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, "Emily Carter", reviews[0].ReviewerName)

	rr = do("speaker-2")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[],"error":null}`, rr.Body.String())

	assert.Equal(t, http.StatusNotFound, do("speaker-9").Code)
}
