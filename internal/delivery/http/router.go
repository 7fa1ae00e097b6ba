package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"speakerbooking/internal/delivery/http/controllers"
	"speakerbooking/internal/delivery/http/helpers"
	"speakerbooking/internal/delivery/http/middleware"
)

// NewRouter initializes the HTTP router with all application routes. Submissions go
// through submitLimiter when it is non-nil.
func NewRouter(
	speakerController *controllers.SpeakerController,
	availabilityController *controllers.AvailabilityController,
	bookingController *controllers.BookingController,
	submitLimiter *middleware.RateLimiter,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Speakers
	mux.HandleFunc("GET /speakers", speakerController.ListSpeakers)
	mux.HandleFunc("GET /speakers/featured", speakerController.ListFeaturedSpeakers)
	mux.HandleFunc("GET /speakers/{speakerID}", speakerController.GetSpeaker)
	mux.HandleFunc("GET /speakers/{speakerID}/reviews", speakerController.ListSpeakerReviews)

	// Availability
	mux.HandleFunc("GET /speakers/{speakerID}/availability", availabilityController.GetAvailability)
	mux.HandleFunc("GET /speakers/{speakerID}/availability/{date}", availabilityController.GetDayAvailability)

	// Bookings
	submit := bookingController.SubmitBooking
	if submitLimiter != nil {
		submit = submitLimiter.Limit(submit)
	}
	mux.HandleFunc("POST /speakers/{speakerID}/bookings", bookingController.OpenBooking)
	mux.HandleFunc("GET /bookings/{flowID}", bookingController.GetBooking)
	mux.HandleFunc("PATCH /bookings/{flowID}", bookingController.UpdateBooking)
	mux.HandleFunc("DELETE /bookings/{flowID}", bookingController.CancelBooking)
	mux.HandleFunc("POST /bookings/{flowID}/next", bookingController.NextStep)
	mux.HandleFunc("POST /bookings/{flowID}/back", bookingController.PreviousStep)
	mux.HandleFunc("POST /bookings/{flowID}/submit", submit)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
