package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"speakerbooking/internal/domain"
)

// HorizonMonths is how far ahead of today calendars are generated.
const HorizonMonths = 12

// RandomCalendarSource draws each day's status independently from the configured weights.
// The generator for a speaker is seeded from the source seed mixed with a hash of the
// speaker id, so the same (seed, speaker, range) always yields the same calendar.
type RandomCalendarSource struct {
	weights domain.AvailabilityWeights
	seed    int64
}

// NewRandomCalendarSource validates weights and returns a seeded source.
func NewRandomCalendarSource(weights domain.AvailabilityWeights, seed int64) (*RandomCalendarSource, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &RandomCalendarSource{weights: weights, seed: seed}, nil
}

func (s *RandomCalendarSource) Generate(speakerID string, from, to domain.Date) *domain.Calendar {
	rng := rand.New(rand.NewSource(s.seed ^ speakerSeed(speakerID)))
	cal := domain.NewCalendar(speakerID)
	for d := from; !d.After(to); d = d.AddDays(1) {
		cal.Set(d, s.draw(rng))
	}
	return cal
}

func (s *RandomCalendarSource) draw(rng *rand.Rand) domain.DayStatus {
	r := rng.Float64()
	switch {
	case r < s.weights.Available:
		return domain.DayAvailable
	case r < s.weights.Available+s.weights.Tentative:
		return domain.DayTentative
	default:
		return domain.DayBooked
	}
}

func speakerSeed(speakerID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(speakerID))
	return int64(h.Sum64())
}

// StaticCalendarSource serves precomputed calendars, clipped to the requested range.
// Speakers without an entry get an empty calendar.
type StaticCalendarSource map[string]*domain.Calendar

func (s StaticCalendarSource) Generate(speakerID string, from, to domain.Date) *domain.Calendar {
	out := domain.NewCalendar(speakerID)
	src, ok := s[speakerID]
	if !ok {
		return out
	}
	for _, days := range src.Months {
		for d, st := range days {
			if d.Before(from) || d.After(to) {
				continue
			}
			out.Set(d, st)
		}
	}
	return out
}

// Summarize counts the days of m per status.
func Summarize(m domain.MonthAvailability) domain.MonthSummary {
	var sum domain.MonthSummary
	for _, st := range m {
		switch st {
		case domain.DayAvailable:
			sum.Available++
		case domain.DayTentative:
			sum.Tentative++
		case domain.DayBooked:
			sum.Booked++
		}
	}
	return sum
}

// generatedRange is the date range a speaker's calendar was generated over.
type generatedRange struct {
	from, to domain.Date
}

type availabilityStore struct {
	speakers domain.SpeakerRepository
	source   domain.CalendarSource
	now      func() time.Time
	logger   *slog.Logger

	mu        sync.RWMutex
	calendars map[string]*domain.Calendar
	spans     map[string]generatedRange
	bookedBy  map[string]map[domain.Date]string
}

// NewAvailabilityStore returns a store that lazily generates a calendar per known speaker on
// first query and keeps it for its own lifetime, extending it as today moves so that it
// always covers HorizonMonths ahead. A nil clock uses time.Now.
func NewAvailabilityStore(speakers domain.SpeakerRepository, source domain.CalendarSource, clock func() time.Time, logger *slog.Logger) domain.AvailabilityStore {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &availabilityStore{
		speakers:  speakers,
		source:    source,
		now:       clock,
		logger:    logger,
		calendars: make(map[string]*domain.Calendar),
		spans:     make(map[string]generatedRange),
		bookedBy:  make(map[string]map[domain.Date]string),
	}
}

func (s *availabilityStore) today() domain.Date {
	return domain.DateOf(s.now())
}

func horizonEnd(today domain.Date) domain.Date {
	return domain.DateOf(today.Time().AddDate(0, HorizonMonths, 0))
}

// ensure generates the speaker's calendar if needed, or extends it when the horizon has
// moved past the generated range. It reports false for unknown speakers, which are not cached.
func (s *availabilityStore) ensure(ctx context.Context, speakerID string) (bool, error) {
	today := s.today()
	end := horizonEnd(today)
	s.mu.RLock()
	sp, ok := s.spans[speakerID]
	s.mu.RUnlock()
	if ok && !sp.to.Before(end) {
		return true, nil
	}

	if !ok {
		if _, err := s.speakers.GetByID(ctx, speakerID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("get speaker: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok = s.spans[speakerID]
	switch {
	case !ok:
		s.calendars[speakerID] = s.source.Generate(speakerID, today, end)
		s.spans[speakerID] = generatedRange{from: today, to: end}
		s.bookedBy[speakerID] = make(map[domain.Date]string)
		s.logger.Debug("availability generated", "speaker_id", speakerID, "from", today.String(), "to", end.String())
	case sp.to.Before(end):
		s.extendLocked(speakerID, sp, end)
	}
	return true, nil
}

// extendLocked adds the days after sp.to up to end. The source is replayed from sp.from so the
// new days continue the same stream; days already held, including commits, are left alone.
// Callers hold s.mu for writing.
func (s *availabilityStore) extendLocked(speakerID string, sp generatedRange, end domain.Date) {
	fresh := s.source.Generate(speakerID, sp.from, end)
	cal := s.calendars[speakerID]
	for d := sp.to.AddDays(1); !d.After(end); d = d.AddDays(1) {
		if st := fresh.Status(d); st != domain.DayUnknown {
			cal.Set(d, st)
		}
	}
	s.spans[speakerID] = generatedRange{from: sp.from, to: end}
	s.logger.Debug("availability extended", "speaker_id", speakerID, "from", sp.to.AddDays(1).String(), "to", end.String())
}

// monthLocked copies ym for speakerID, dropping days before today. Callers hold s.mu.
func (s *availabilityStore) monthLocked(speakerID string, ym domain.YearMonth, today domain.Date) domain.MonthAvailability {
	m := s.calendars[speakerID].Month(ym)
	for d := range m {
		if d.Before(today) {
			delete(m, d)
		}
	}
	return m
}

func (s *availabilityStore) GetMonth(ctx context.Context, speakerID string, ym domain.YearMonth) (domain.MonthAvailability, error) {
	known, err := s.ensure(ctx, speakerID)
	if err != nil {
		return nil, err
	}
	if !known {
		return domain.MonthAvailability{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.monthLocked(speakerID, ym, s.today()), nil
}

func (s *availabilityStore) GetMonths(ctx context.Context, speakerID string, from domain.YearMonth, n int) ([]domain.MonthView, error) {
	if n < 1 {
		n = 1
	}
	known, err := s.ensure(ctx, speakerID)
	if err != nil {
		return nil, err
	}
	views := make([]domain.MonthView, 0, n)
	s.mu.RLock()
	defer s.mu.RUnlock()
	today := s.today()
	for i := 0; i < n; i++ {
		ym := from.AddMonths(i)
		days := domain.MonthAvailability{}
		if known {
			days = s.monthLocked(speakerID, ym, today)
		}
		views = append(views, domain.MonthView{Month: ym, Days: days, Summary: Summarize(days)})
	}
	return views, nil
}

func (s *availabilityStore) GetDate(ctx context.Context, speakerID string, d domain.Date) (domain.DayStatus, error) {
	known, err := s.ensure(ctx, speakerID)
	if err != nil {
		return domain.DayUnknown, err
	}
	if !known {
		return domain.DayUnknown, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d.Before(s.today()) {
		return domain.DayUnknown, nil
	}
	return s.calendars[speakerID].Status(d), nil
}

func (s *availabilityStore) Snapshot(ctx context.Context, speakerID string) (*domain.Calendar, error) {
	known, err := s.ensure(ctx, speakerID)
	if err != nil {
		return nil, err
	}
	if !known {
		return domain.NewCalendar(speakerID), nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	today := s.today()
	out := domain.NewCalendar(speakerID)
	for ym := range s.calendars[speakerID].Months {
		out.Months[ym] = s.monthLocked(speakerID, ym, today)
	}
	return out, nil
}

func (s *availabilityStore) Commit(ctx context.Context, speakerID string, d domain.Date, requestID string) error {
	known, err := s.ensure(ctx, speakerID)
	if err != nil {
		return err
	}
	if !known {
		return fmt.Errorf("%w: unknown speaker %s", domain.ErrDateUnavailable, speakerID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if d.Before(s.today()) {
		return fmt.Errorf("%w: %s is in the past", domain.ErrDateUnavailable, d)
	}
	cal := s.calendars[speakerID]
	switch st := cal.Status(d); {
	case st == domain.DayBooked:
		if s.bookedBy[speakerID][d] == requestID && requestID != "" {
			return nil
		}
		return fmt.Errorf("%w: %s is already booked", domain.ErrDateUnavailable, d)
	case !st.Bookable():
		return fmt.Errorf("%w: %s has no availability", domain.ErrDateUnavailable, d)
	}
	cal.Set(d, domain.DayBooked)
	s.bookedBy[speakerID][d] = requestID
	s.logger.Info("date booked", "speaker_id", speakerID, "date", d.String(), "request_id", requestID)
	return nil
}
