package controllers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"speakerbooking/internal/delivery/http/helpers"
	"speakerbooking/internal/domain"
)

// DefaultFeaturedLimit is how many featured speakers GET /speakers/featured returns without ?limit.
const DefaultFeaturedLimit = 3

// ListSpeakersResponse is the data of GET /speakers.
type ListSpeakersResponse struct {
	helpers.Page[*domain.Speaker]
	// MaxRate is the highest rate in the whole roster, the upper bound of the price filter.
	MaxRate float64 `json:"max_rate"`
}

// ListSpeakersSuccessResponse is the success response envelope for GET /speakers (200).
type ListSpeakersSuccessResponse struct {
	Data  ListSpeakersResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type SpeakerController struct {
	Logger  *slog.Logger
	Service domain.SpeakerService
}

func NewSpeakerController(logger *slog.Logger, svc domain.SpeakerService) *SpeakerController {
	return &SpeakerController{
		Logger:  logger,
		Service: svc,
	}
}

// parseCriteria reads q, topic, language, min_rate and max_rate. Topics and languages may be
// repeated. A missing bound of the price range defaults to the open end of the roster range.
func parseCriteria(r *http.Request, maxRate float64) (domain.FilterCriteria, error) {
	q := r.URL.Query()
	c := domain.FilterCriteria{
		Term:      strings.TrimSpace(q.Get("q")),
		Topics:    nonEmpty(q["topic"]),
		Languages: nonEmpty(q["language"]),
	}
	minS, maxS := q.Get("min_rate"), q.Get("max_rate")
	if minS == "" && maxS == "" {
		return c, nil
	}
	price := domain.PriceRange{Min: 0, Max: maxRate}
	if minS != "" {
		v, err := parseRate(minS)
		if err != nil {
			return c, errors.New("min_rate must be a non-negative number")
		}
		price.Min = v
	}
	if maxS != "" {
		v, err := parseRate(maxS)
		if err != nil {
			return c, errors.New("max_rate must be a non-negative number")
		}
		price.Max = v
	}
	if minS != "" && maxS != "" && price.Min > price.Max {
		return c, errors.New("min_rate must not exceed max_rate")
	}
	c.Price = &price
	return c, nil
}

// parseRate accepts finite non-negative numbers only.
func parseRate(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, errors.New("out of range")
	}
	return v, nil
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ListSpeakers godoc
// @Summary Search the speaker directory
// @Description Filters the roster by free-text term, topics, languages and price range, then paginates. Topic and language match when the speaker has any of the given values. Results keep roster order.
// @Tags speakers
// @Produce json
// @Param q query string false "Search term matched against name, credentials, bio and topics"
// @Param topic query []string false "Topic (repeatable)" collectionFormat(multi)
// @Param language query []string false "Language (repeatable)" collectionFormat(multi)
// @Param min_rate query number false "Lower bound of the price range"
// @Param max_rate query number false "Upper bound of the price range"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListSpeakersSuccessResponse "data contains items, pagination and max_rate"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers [get]
func (c *SpeakerController) ListSpeakers(w http.ResponseWriter, r *http.Request) {
	maxRate, err := c.Service.MaxRate(r.Context())
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	criteria, err := parseCriteria(r, maxRate)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	params := helpers.ParsePagination(r)
	speakers, total, err := c.Service.Search(r.Context(), criteria, params)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListSpeakersResponse{
		Page:    helpers.NewPage(speakers, params, total),
		MaxRate: maxRate,
	})
}

// ListFeaturedSpeakers godoc
// @Summary List featured speakers
// @Description Returns up to limit featured speakers in roster order.
// @Tags speakers
// @Produce json
// @Param limit query int false "Maximum number of speakers (default 3)"
// @Success 200 {array} domain.Speaker
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers/featured [get]
func (c *SpeakerController) ListFeaturedSpeakers(w http.ResponseWriter, r *http.Request) {
	limit := DefaultFeaturedLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}
	speakers, err := c.Service.Featured(r.Context(), limit)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, speakers)
}

// GetSpeaker godoc
// @Summary Get a speaker by ID
// @Tags speakers
// @Produce json
// @Param speakerID path string true "Speaker ID"
// @Success 200 {object} domain.Speaker
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers/{speakerID} [get]
func (c *SpeakerController) GetSpeaker(w http.ResponseWriter, r *http.Request) {
	speakerID := r.PathValue("speakerID")
	if speakerID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing speakerID")
		return
	}
	speaker, err := c.Service.GetByID(r.Context(), speakerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "speaker not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, speaker)
}

// ListSpeakerReviews godoc
// @Summary List a speaker's reviews
// @Tags speakers
// @Produce json
// @Param speakerID path string true "Speaker ID"
// @Success 200 {array} domain.Review
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers/{speakerID}/reviews [get]
func (c *SpeakerController) ListSpeakerReviews(w http.ResponseWriter, r *http.Request) {
	speakerID := r.PathValue("speakerID")
	if speakerID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing speakerID")
		return
	}
	reviews, err := c.Service.ListReviews(r.Context(), speakerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "speaker not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reviews)
}

func (c *SpeakerController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}
