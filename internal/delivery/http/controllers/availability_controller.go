package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"speakerbooking/internal/delivery/http/helpers"
	"speakerbooking/internal/domain"
)

// MaxAvailabilityMonths is the most months one availability request may span.
const MaxAvailabilityMonths = 12

// DayAvailabilityResponse is the data of GET /speakers/{speakerID}/availability/{date}.
type DayAvailabilityResponse struct {
	Date     domain.Date      `json:"date"`
	Status   domain.DayStatus `json:"status"`
	Bookable bool             `json:"bookable"`
}

type AvailabilityController struct {
	Logger *slog.Logger
	Store  domain.AvailabilityStore
	Now    func() time.Time
}

func NewAvailabilityController(logger *slog.Logger, store domain.AvailabilityStore) *AvailabilityController {
	return &AvailabilityController{
		Logger: logger,
		Store:  store,
		Now:    time.Now,
	}
}

// GetAvailability godoc
// @Summary Get a speaker's availability by month
// @Description Returns consecutive months of day statuses starting at year/month (default: current month) with per-month counts. Past days are omitted. Unknown speakers have no statuses.
// @Tags availability
// @Produce json
// @Param speakerID path string true "Speaker ID"
// @Param year query int false "Year of the first month"
// @Param month query int false "First month (1-12)"
// @Param months query int false "Number of months (1-12, default 1)"
// @Success 200 {array} domain.MonthView
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers/{speakerID}/availability [get]
func (c *AvailabilityController) GetAvailability(w http.ResponseWriter, r *http.Request) {
	speakerID := r.PathValue("speakerID")
	if speakerID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing speakerID")
		return
	}
	from := domain.DateOf(c.Now()).YearMonth()
	q := r.URL.Query()
	if s := q.Get("year"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "year must be a positive integer")
			return
		}
		from.Year = v
	}
	if s := q.Get("month"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 12 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "month must be between 1 and 12")
			return
		}
		from.Month = time.Month(v)
	}
	n := 1
	if s := q.Get("months"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > MaxAvailabilityMonths {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "months must be between 1 and 12")
			return
		}
		n = v
	}
	views, err := c.Store.GetMonths(r.Context(), speakerID, from, n)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, views)
}

// GetDayAvailability godoc
// @Summary Get a speaker's status on one day
// @Tags availability
// @Produce json
// @Param speakerID path string true "Speaker ID"
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} controllers.DayAvailabilityResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers/{speakerID}/availability/{date} [get]
func (c *AvailabilityController) GetDayAvailability(w http.ResponseWriter, r *http.Request) {
	speakerID := r.PathValue("speakerID")
	if speakerID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing speakerID")
		return
	}
	d, err := domain.ParseDate(r.PathValue("date"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date must be YYYY-MM-DD")
		return
	}
	status, err := c.Store.GetDate(r.Context(), speakerID, d)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DayAvailabilityResponse{Date: d, Status: status, Bookable: status.Bookable()})
}
