package domain

import (
	"context"
	"fmt"
	"math"
)

// DayStatus is the bookability of a single day for a speaker.
type DayStatus string

const (
	DayAvailable DayStatus = "available"
	DayTentative DayStatus = "tentative"
	DayBooked    DayStatus = "booked"
	// DayUnknown marks days with no generated status (past days, days outside the
	// horizon, unknown speakers). It is never bookable.
	DayUnknown DayStatus = "unknown"
)

// Bookable reports whether a booking request may target a day with this status.
func (s DayStatus) Bookable() bool {
	return s == DayAvailable || s == DayTentative
}

// MonthAvailability maps each day of a month that has a status to that status.
// Days missing from the map are DayUnknown.
type MonthAvailability map[Date]DayStatus

// MonthSummary counts days per status in a month.
// swagger:model MonthSummary
type MonthSummary struct {
	Available int `json:"available"`
	Tentative int `json:"tentative"`
	Booked    int `json:"booked"`
}

// StatusLookup resolves the status of a single day.
type StatusLookup interface {
	Status(d Date) DayStatus
}

// Calendar holds a speaker's per-month day statuses.
type Calendar struct {
	SpeakerID string
	Months    map[YearMonth]MonthAvailability
}

// NewCalendar returns an empty calendar for speakerID.
func NewCalendar(speakerID string) *Calendar {
	return &Calendar{SpeakerID: speakerID, Months: make(map[YearMonth]MonthAvailability)}
}

// Status returns the status of d, DayUnknown when absent. A nil calendar is empty.
func (c *Calendar) Status(d Date) DayStatus {
	if c == nil {
		return DayUnknown
	}
	if s, ok := c.Months[d.YearMonth()][d]; ok {
		return s
	}
	return DayUnknown
}

// Set records the status of d.
func (c *Calendar) Set(d Date, s DayStatus) {
	ym := d.YearMonth()
	m, ok := c.Months[ym]
	if !ok {
		m = make(MonthAvailability)
		c.Months[ym] = m
	}
	m[d] = s
}

// Month returns a copy of the statuses of ym. The result is never nil.
func (c *Calendar) Month(ym YearMonth) MonthAvailability {
	out := make(MonthAvailability)
	if c == nil {
		return out
	}
	for d, s := range c.Months[ym] {
		out[d] = s
	}
	return out
}

// Clone returns a deep copy of c.
func (c *Calendar) Clone() *Calendar {
	if c == nil {
		return nil
	}
	out := NewCalendar(c.SpeakerID)
	for ym := range c.Months {
		out.Months[ym] = c.Month(ym)
	}
	return out
}

// AvailabilityWeights are the probabilities used to generate future day statuses.
type AvailabilityWeights struct {
	Available float64 `json:"available"`
	Tentative float64 `json:"tentative"`
	Booked    float64 `json:"booked"`
}

// DefaultAvailabilityWeights is the 60/20/20 split.
var DefaultAvailabilityWeights = AvailabilityWeights{Available: 0.6, Tentative: 0.2, Booked: 0.2}

const weightsTolerance = 1e-9

// Validate returns ErrInvalidWeights unless every weight is non-negative and they sum to 1.
func (w AvailabilityWeights) Validate() error {
	if w.Available < 0 || w.Tentative < 0 || w.Booked < 0 {
		return fmt.Errorf("%w: negative weight in %+v", ErrInvalidWeights, w)
	}
	if sum := w.Available + w.Tentative + w.Booked; math.Abs(sum-1) > weightsTolerance {
		return fmt.Errorf("%w: got sum %v", ErrInvalidWeights, sum)
	}
	return nil
}

// CalendarSource generates the calendar for a speaker covering [from, to] inclusive.
// Implementations must return the same calendar for the same inputs.
type CalendarSource interface {
	Generate(speakerID string, from, to Date) *Calendar
}

// AvailabilityStore is the query and commit surface over speaker calendars.
type AvailabilityStore interface {
	GetMonth(ctx context.Context, speakerID string, ym YearMonth) (MonthAvailability, error)
	GetMonths(ctx context.Context, speakerID string, from YearMonth, n int) ([]MonthView, error)
	GetDate(ctx context.Context, speakerID string, d Date) (DayStatus, error)
	Snapshot(ctx context.Context, speakerID string) (*Calendar, error)
	// Commit marks d booked for requestID. It is idempotent for the same request and
	// returns ErrDateUnavailable when d is not bookable.
	Commit(ctx context.Context, speakerID string, d Date, requestID string) error
}

// MonthView is one month of a calendar panel.
// swagger:model MonthView
type MonthView struct {
	Month   YearMonth         `json:"month"`
	Days    MonthAvailability `json:"days"`
	Summary MonthSummary      `json:"summary"`
}
