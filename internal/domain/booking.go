package domain

import (
	"context"
	"time"
)

// VenueType is where the event takes place.
type VenueType string

const (
	VenueInPerson VenueType = "in-person"
	VenueVirtual  VenueType = "virtual"
)

// Label is the user-facing name of the venue field for this venue type.
func (v VenueType) Label() string {
	if v == VenueVirtual {
		return "virtual platform"
	}
	return "venue address"
}

// BookingRequest is a booking draft for one speaker.
// swagger:model BookingRequest
type BookingRequest struct {
	ID              string `json:"id"`
	SpeakerID       string `json:"speaker_id"`
	OrganizerUserID string `json:"organizer_user_id,omitempty"`

	// Event details
	EventName    string    `json:"event_name"`
	EventType    string    `json:"event_type"`
	VenueType    VenueType `json:"venue_type"`
	Venue        string    `json:"venue"`
	AudienceSize string    `json:"audience_size"`
	Topic        string    `json:"topic"`
	Requirements string    `json:"requirements,omitempty"`

	// Schedule
	Date      Date   `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	// Contact
	OrganizerName  string `json:"organizer_name"`
	OrganizerEmail string `json:"organizer_email"`
	OrganizerPhone string `json:"organizer_phone"`

	CreatedAt time.Time `json:"created_at"`
}

// NewBookingRequest returns an empty draft for speakerID. Venue type defaults to in-person.
func NewBookingRequest(id, speakerID string, createdAt time.Time) *BookingRequest {
	return &BookingRequest{
		ID:        id,
		SpeakerID: speakerID,
		VenueType: VenueInPerson,
		CreatedAt: createdAt,
	}
}

// BookingRequestPatch carries a partial update of a draft. Nil fields are left untouched.
type BookingRequestPatch struct {
	EventName      *string    `json:"event_name,omitempty"`
	EventType      *string    `json:"event_type,omitempty"`
	VenueType      *VenueType `json:"venue_type,omitempty"`
	Venue          *string    `json:"venue,omitempty"`
	AudienceSize   *string    `json:"audience_size,omitempty"`
	Topic          *string    `json:"topic,omitempty"`
	Requirements   *string    `json:"requirements,omitempty"`
	Date           *Date      `json:"date,omitempty"`
	StartTime      *string    `json:"start_time,omitempty"`
	EndTime        *string    `json:"end_time,omitempty"`
	OrganizerName  *string    `json:"organizer_name,omitempty"`
	OrganizerEmail *string    `json:"organizer_email,omitempty"`
	OrganizerPhone *string    `json:"organizer_phone,omitempty"`
}

// Apply copies every non-nil field of p onto r.
func (p BookingRequestPatch) Apply(r *BookingRequest) {
	setString(&r.EventName, p.EventName)
	setString(&r.EventType, p.EventType)
	if p.VenueType != nil {
		r.VenueType = *p.VenueType
	}
	setString(&r.Venue, p.Venue)
	setString(&r.AudienceSize, p.AudienceSize)
	setString(&r.Topic, p.Topic)
	setString(&r.Requirements, p.Requirements)
	if p.Date != nil {
		r.Date = *p.Date
	}
	setString(&r.StartTime, p.StartTime)
	setString(&r.EndTime, p.EndTime)
	setString(&r.OrganizerName, p.OrganizerName)
	setString(&r.OrganizerEmail, p.OrganizerEmail)
	setString(&r.OrganizerPhone, p.OrganizerPhone)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Validation error codes.
const (
	CodeRequired        = "required"
	CodeTooShort        = "too_short"
	CodeInvalid         = "invalid"
	CodeDateUnavailable = "date_unavailable"
	CodeTimeOrder       = "time_order"
)

// FieldError is a single field's validation failure.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult maps a field's JSON name to its error. An empty result is valid.
type ValidationResult map[string]FieldError

// Valid reports whether there are no field errors.
func (v ValidationResult) Valid() bool {
	return len(v) == 0
}

// HasUnavailableDate reports whether the date was rejected for availability rather than
// for being missing.
func (v ValidationResult) HasUnavailableDate() bool {
	e, ok := v[FieldDate]
	return ok && e.Code == CodeDateUnavailable
}

// Booking request field names as they appear in JSON and in ValidationResult.
const (
	FieldEventName      = "event_name"
	FieldEventType      = "event_type"
	FieldVenueType      = "venue_type"
	FieldVenue          = "venue"
	FieldAudienceSize   = "audience_size"
	FieldTopic          = "topic"
	FieldRequirements   = "requirements"
	FieldDate           = "date"
	FieldStartTime      = "start_time"
	FieldEndTime        = "end_time"
	FieldOrganizerName  = "organizer_name"
	FieldOrganizerEmail = "organizer_email"
	FieldOrganizerPhone = "organizer_phone"
)

// BookingStep is a page of the booking form.
type BookingStep string

const (
	StepEventDetails BookingStep = "event_details"
	StepDateAndTime  BookingStep = "date_and_time"
	StepContactInfo  BookingStep = "contact_info"
)

// BookingSteps lists the steps in order.
var BookingSteps = []BookingStep{StepEventDetails, StepDateAndTime, StepContactInfo}

// FieldStep maps each field to the step that edits it.
var FieldStep = map[string]BookingStep{
	FieldEventName:      StepEventDetails,
	FieldEventType:      StepEventDetails,
	FieldVenueType:      StepEventDetails,
	FieldVenue:          StepEventDetails,
	FieldAudienceSize:   StepEventDetails,
	FieldTopic:          StepEventDetails,
	FieldRequirements:   StepEventDetails,
	FieldDate:           StepDateAndTime,
	FieldStartTime:      StepDateAndTime,
	FieldEndTime:        StepDateAndTime,
	FieldOrganizerName:  StepContactInfo,
	FieldOrganizerEmail: StepContactInfo,
	FieldOrganizerPhone: StepContactInfo,
}

// FlowState is the lifecycle state of a booking flow.
type FlowState string

const (
	FlowEditing    FlowState = "editing"
	FlowSubmitting FlowState = "submitting"
	FlowAccepted   FlowState = "accepted"
	FlowFailed     FlowState = "failed"
	FlowCanceled   FlowState = "canceled"
)

// OutcomeStatus is the transport's verdict on a submitted request.
type OutcomeStatus string

const (
	OutcomeAccepted OutcomeStatus = "accepted"
	OutcomeRejected OutcomeStatus = "rejected"
)

// BookingOutcome is the result of a submission.
// swagger:model BookingOutcome
type BookingOutcome struct {
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

// Accepted returns an accepted outcome.
func Accepted() BookingOutcome {
	return BookingOutcome{Status: OutcomeAccepted}
}

// Rejected returns a rejected outcome with the given reason.
func Rejected(reason string) BookingOutcome {
	return BookingOutcome{Status: OutcomeRejected, Reason: reason}
}

// SubmissionTransport hands a validated booking request to the booking backend.
type SubmissionTransport interface {
	Submit(ctx context.Context, req *BookingRequest) (BookingOutcome, error)
}

// BookingRequestRepository persists submitted booking requests.
type BookingRequestRepository interface {
	// Create is idempotent per request id: storing the same id again replaces the earlier
	// row. It returns ErrDateUnavailable when another request holds the speaker on that date.
	Create(ctx context.Context, req *BookingRequest) error
	GetByID(ctx context.Context, id string) (*BookingRequest, error)
}

// FlowSnapshot is a point-in-time view of a booking flow.
// swagger:model FlowSnapshot
type FlowSnapshot struct {
	ID           string                   `json:"id"`
	SpeakerID    string                   `json:"speaker_id"`
	Step         BookingStep              `json:"step"`
	State        FlowState                `json:"state"`
	Draft        BookingRequest           `json:"draft"`
	VenueLabel   string                   `json:"venue_label"`
	Errors       ValidationResult         `json:"errors"`
	ErrorsByStep map[BookingStep][]string `json:"errors_by_step"`
	Outcome      *BookingOutcome          `json:"outcome,omitempty"`
}
