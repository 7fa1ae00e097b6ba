package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"speakerbooking/internal/delivery/http/helpers"
	"speakerbooking/internal/delivery/http/middleware"
	"speakerbooking/internal/domain"
	"speakerbooking/internal/services"
)

// BookingSuccessResponse is the success response envelope for booking flow endpoints.
type BookingSuccessResponse struct {
	Data  domain.FlowSnapshot `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// CancelBookingResponse is the data of DELETE /bookings/{flowID}.
type CancelBookingResponse struct {
	Status string `json:"status"`
}

type BookingController struct {
	Logger   *slog.Logger
	Flows    *services.BookingFlowManager
	Speakers domain.SpeakerService
}

func NewBookingController(logger *slog.Logger, flows *services.BookingFlowManager, speakers domain.SpeakerService) *BookingController {
	return &BookingController{
		Logger:   logger,
		Flows:    flows,
		Speakers: speakers,
	}
}

// writeFlowError maps booking flow errors to responses. snap is sent along with 422s.
func (c *BookingController) writeFlowError(w http.ResponseWriter, r *http.Request, snap domain.FlowSnapshot, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "booking not found")
	case errors.Is(err, domain.ErrStepIncomplete):
		helpers.WriteJSONErrorWithData(w, http.StatusUnprocessableEntity, snap, helpers.ErrCodeValidation, err.Error())
	case errors.Is(err, domain.ErrFlowClosed), errors.Is(err, domain.ErrSubmitNotAllowed):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

func (c *BookingController) flow(w http.ResponseWriter, r *http.Request) (*services.BookingFlow, bool) {
	flowID := r.PathValue("flowID")
	if flowID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing flowID")
		return nil, false
	}
	f, err := c.Flows.Get(flowID)
	if err != nil {
		c.writeFlowError(w, r, domain.FlowSnapshot{}, err)
		return nil, false
	}
	return f, true
}

// OpenBooking godoc
// @Summary Start a booking request
// @Description Opens a booking flow with an empty draft on the event details step. A signed-in organizer is recorded on the draft.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param speakerID path string true "Speaker ID"
// @Success 201 {object} controllers.BookingSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (invalid token)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers/{speakerID}/bookings [post]
func (c *BookingController) OpenBooking(w http.ResponseWriter, r *http.Request) {
	speakerID := r.PathValue("speakerID")
	if speakerID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing speakerID")
		return
	}
	if _, err := c.Speakers.GetByID(r.Context(), speakerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "speaker not found")
			return
		}
		c.writeFlowError(w, r, domain.FlowSnapshot{}, err)
		return
	}
	identity, _ := middleware.IdentityFromContext(r.Context())
	f := c.Flows.Open(speakerID, identity)
	c.Logger.InfoContext(r.Context(), "booking opened", "flow_id", f.ID(), "speaker_id", speakerID)
	helpers.WriteJSONSuccess(w, http.StatusCreated, f.Snapshot())
}

// GetBooking godoc
// @Summary Get a booking flow
// @Tags bookings
// @Produce json
// @Param flowID path string true "Booking flow ID"
// @Success 200 {object} controllers.BookingSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /bookings/{flowID} [get]
func (c *BookingController) GetBooking(w http.ResponseWriter, r *http.Request) {
	f, ok := c.flow(w, r)
	if !ok {
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, f.Snapshot())
}

// UpdateBooking godoc
// @Summary Edit the booking draft
// @Description Applies the given fields to the draft and returns the snapshot with live validation errors. Omitted fields are unchanged. Editing a failed request makes it editable again.
// @Tags bookings
// @Accept json
// @Produce json
// @Param flowID path string true "Booking flow ID"
// @Param patch body domain.BookingRequestPatch true "Fields to change"
// @Success 200 {object} controllers.BookingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings/{flowID} [patch]
func (c *BookingController) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	f, ok := c.flow(w, r)
	if !ok {
		return
	}
	var patch domain.BookingRequestPatch
	if !helpers.DecodeAndValidate(w, r, &patch) {
		return
	}
	snap, err := f.Update(r.Context(), patch)
	if err != nil {
		c.writeFlowError(w, r, snap, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, snap)
}

// NextStep godoc
// @Summary Go to the next form step
// @Description With strict gating, a step with field errors answers 422 and the snapshot.
// @Tags bookings
// @Produce json
// @Param flowID path string true "Booking flow ID"
// @Success 200 {object} controllers.BookingSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} controllers.BookingSuccessResponse "error.code: validation_failed"
// @Router /bookings/{flowID}/next [post]
func (c *BookingController) NextStep(w http.ResponseWriter, r *http.Request) {
	f, ok := c.flow(w, r)
	if !ok {
		return
	}
	snap, err := f.Next(r.Context())
	if err != nil {
		c.writeFlowError(w, r, snap, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, snap)
}

// PreviousStep godoc
// @Summary Go back one form step
// @Tags bookings
// @Produce json
// @Param flowID path string true "Booking flow ID"
// @Success 200 {object} controllers.BookingSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /bookings/{flowID}/back [post]
func (c *BookingController) PreviousStep(w http.ResponseWriter, r *http.Request) {
	f, ok := c.flow(w, r)
	if !ok {
		return
	}
	snap, err := f.Back()
	if err != nil {
		c.writeFlowError(w, r, snap, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, snap)
}

// SubmitBooking godoc
// @Summary Submit the booking request
// @Description Validates the whole draft and hands it to the booking backend. An invalid draft answers 422 with the snapshot. A failed or rejected submission answers 200 with state failed and the outcome reason; the draft is kept for a retry.
// @Tags bookings
// @Produce json
// @Param flowID path string true "Booking flow ID"
// @Success 200 {object} controllers.BookingSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} controllers.BookingSuccessResponse "error.code: validation_failed"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Router /bookings/{flowID}/submit [post]
func (c *BookingController) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	flowID := r.PathValue("flowID")
	if flowID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing flowID")
		return
	}
	snap, err := c.Flows.Submit(r.Context(), flowID)
	if err != nil {
		c.writeFlowError(w, r, snap, err)
		return
	}
	if snap.State == domain.FlowEditing && !snap.Errors.Valid() {
		helpers.WriteJSONErrorWithData(w, http.StatusUnprocessableEntity, snap, helpers.ErrCodeValidation, "booking request has invalid fields")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, snap)
}

// CancelBooking godoc
// @Summary Cancel the booking request
// @Description Discards the draft. Availability is unchanged.
// @Tags bookings
// @Produce json
// @Param flowID path string true "Booking flow ID"
// @Success 200 {object} controllers.CancelBookingResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /bookings/{flowID} [delete]
func (c *BookingController) CancelBooking(w http.ResponseWriter, r *http.Request) {
	flowID := r.PathValue("flowID")
	if flowID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing flowID")
		return
	}
	if err := c.Flows.Cancel(flowID); err != nil {
		c.writeFlowError(w, r, domain.FlowSnapshot{}, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CancelBookingResponse{Status: "canceled"})
}
