package services

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"speakerbooking/internal/domain"
)

const timeOfDayLayout = "15:04"

// emailRegex matches a simple email format (local@domain with at least one dot in domain).
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// phoneRegex allows digits and the usual formatting characters.
var phoneRegex = regexp.MustCompile(`^[0-9+()\-.\s]+$`)

const (
	minEventName     = 3
	minEventType     = 2
	minVenue         = 3
	minTopic         = 3
	minOrganizerName = 3
	minPhone         = 10
)

// ValidateBooking checks every rule of the booking form against draft and returns all
// violations at once. The date must resolve to available or tentative in availability; a
// nil lookup resolves every date to unknown.
func ValidateBooking(draft *domain.BookingRequest, availability domain.StatusLookup) domain.ValidationResult {
	res := domain.ValidationResult{}
	if draft == nil {
		draft = &domain.BookingRequest{}
	}

	minLength(res, domain.FieldEventName, draft.EventName, minEventName, "Event name must be at least 3 characters")
	minLength(res, domain.FieldEventType, draft.EventType, minEventType, "Please select an event type")

	switch draft.VenueType {
	case domain.VenueInPerson, domain.VenueVirtual:
	case "":
		res[domain.FieldVenueType] = domain.FieldError{Code: domain.CodeRequired, Message: "Please choose in-person or virtual"}
	default:
		res[domain.FieldVenueType] = domain.FieldError{Code: domain.CodeInvalid, Message: "Venue type must be in-person or virtual"}
	}
	minLength(res, domain.FieldVenue, draft.Venue, minVenue, "Please provide the "+draft.VenueType.Label())
	minLength(res, domain.FieldAudienceSize, draft.AudienceSize, 1, "Please provide the expected audience size")
	minLength(res, domain.FieldTopic, draft.Topic, minTopic, "Please provide a topic")

	validateDate(res, draft.Date, availability)
	validateTimes(res, draft.StartTime, draft.EndTime)

	minLength(res, domain.FieldOrganizerName, draft.OrganizerName, minOrganizerName, "Please provide your name")
	switch email := strings.TrimSpace(draft.OrganizerEmail); {
	case email == "":
		res[domain.FieldOrganizerEmail] = domain.FieldError{Code: domain.CodeRequired, Message: "Please provide a valid email"}
	case !emailRegex.MatchString(email):
		res[domain.FieldOrganizerEmail] = domain.FieldError{Code: domain.CodeInvalid, Message: "Please provide a valid email"}
	}
	switch phone := strings.TrimSpace(draft.OrganizerPhone); {
	case phone == "":
		res[domain.FieldOrganizerPhone] = domain.FieldError{Code: domain.CodeRequired, Message: "Please provide a valid phone number"}
	case !phoneRegex.MatchString(phone):
		res[domain.FieldOrganizerPhone] = domain.FieldError{Code: domain.CodeInvalid, Message: "Please provide a valid phone number"}
	case utf8.RuneCountInString(phone) < minPhone:
		res[domain.FieldOrganizerPhone] = domain.FieldError{Code: domain.CodeTooShort, Message: "Please provide a valid phone number"}
	}
	return res
}

func minLength(res domain.ValidationResult, field, value string, n int, msg string) {
	v := strings.TrimSpace(value)
	switch {
	case v == "":
		res[field] = domain.FieldError{Code: domain.CodeRequired, Message: msg}
	case utf8.RuneCountInString(v) < n:
		res[field] = domain.FieldError{Code: domain.CodeTooShort, Message: msg}
	}
}

func validateDate(res domain.ValidationResult, d domain.Date, availability domain.StatusLookup) {
	if d.IsZero() {
		res[domain.FieldDate] = domain.FieldError{Code: domain.CodeRequired, Message: "Please select a date"}
		return
	}
	status := domain.DayUnknown
	if availability != nil {
		status = availability.Status(d)
	}
	if !status.Bookable() {
		res[domain.FieldDate] = domain.FieldError{Code: domain.CodeDateUnavailable, Message: "The selected date is not available for this speaker"}
	}
}

func validateTimes(res domain.ValidationResult, start, end string) {
	startAt, startOK := parseTimeOfDay(res, domain.FieldStartTime, start, "Please select a start time", "Start time must be in HH:MM format")
	endAt, endOK := parseTimeOfDay(res, domain.FieldEndTime, end, "Please select an end time", "End time must be in HH:MM format")
	if startOK && endOK && !startAt.Before(endAt) {
		res[domain.FieldEndTime] = domain.FieldError{Code: domain.CodeTimeOrder, Message: "End time must be after start time"}
	}
}

func parseTimeOfDay(res domain.ValidationResult, field, value, requiredMsg, invalidMsg string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		res[field] = domain.FieldError{Code: domain.CodeRequired, Message: requiredMsg}
		return time.Time{}, false
	}
	t, err := time.Parse(timeOfDayLayout, v)
	if err != nil {
		res[field] = domain.FieldError{Code: domain.CodeInvalid, Message: invalidMsg}
		return time.Time{}, false
	}
	return t, true
}

// ErrorsByStep groups the fields of res by the step that edits them, in field order.
func ErrorsByStep(res domain.ValidationResult) map[domain.BookingStep][]string {
	out := make(map[domain.BookingStep][]string)
	for _, field := range fieldOrder {
		if _, ok := res[field]; ok {
			step := domain.FieldStep[field]
			out[step] = append(out[step], field)
		}
	}
	return out
}

var fieldOrder = []string{
	domain.FieldEventName,
	domain.FieldEventType,
	domain.FieldVenueType,
	domain.FieldVenue,
	domain.FieldAudienceSize,
	domain.FieldTopic,
	domain.FieldRequirements,
	domain.FieldDate,
	domain.FieldStartTime,
	domain.FieldEndTime,
	domain.FieldOrganizerName,
	domain.FieldOrganizerEmail,
	domain.FieldOrganizerPhone,
}
