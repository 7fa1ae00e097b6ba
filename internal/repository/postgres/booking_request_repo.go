package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"speakerbooking/internal/domain"

	"github.com/lib/pq"
)

type bookingRequestRepository struct {
	DB *sql.DB
}

// NewBookingRequestRepository returns a domain.BookingRequestRepository implemented with Postgres.
func NewBookingRequestRepository(db *sql.DB) domain.BookingRequestRepository {
	return &bookingRequestRepository{DB: db}
}

// Create stores req. A row with the same id, left by an earlier attempt whose outcome was
// lost, is overwritten, keeping its created_at. The (speaker_id, event_date) unique index
// makes a request for a date another request holds fail with domain.ErrDateUnavailable.
func (r *bookingRequestRepository) Create(ctx context.Context, req *domain.BookingRequest) error {
	var userID sql.NullString
	if req.OrganizerUserID != "" {
		userID = sql.NullString{String: req.OrganizerUserID, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO booking_requests (
			id, speaker_id, organizer_user_id, event_name, event_type, venue_type, venue,
			audience_size, topic, requirements, event_date, start_time, end_time,
			organizer_name, organizer_email, organizer_phone, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			speaker_id = EXCLUDED.speaker_id, organizer_user_id = EXCLUDED.organizer_user_id,
			event_name = EXCLUDED.event_name, event_type = EXCLUDED.event_type,
			venue_type = EXCLUDED.venue_type, venue = EXCLUDED.venue,
			audience_size = EXCLUDED.audience_size, topic = EXCLUDED.topic,
			requirements = EXCLUDED.requirements, event_date = EXCLUDED.event_date,
			start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
			organizer_name = EXCLUDED.organizer_name, organizer_email = EXCLUDED.organizer_email,
			organizer_phone = EXCLUDED.organizer_phone`,
		req.ID, req.SpeakerID, userID, req.EventName, req.EventType, string(req.VenueType), req.Venue,
		req.AudienceSize, req.Topic, req.Requirements, req.Date.Time(), req.StartTime, req.EndTime,
		req.OrganizerName, req.OrganizerEmail, req.OrganizerPhone, req.CreatedAt,
	)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return fmt.Errorf("speaker %s on %s: %w", req.SpeakerID, req.Date, domain.ErrDateUnavailable)
		}
		return err
	}
	return nil
}

func (r *bookingRequestRepository) GetByID(ctx context.Context, id string) (*domain.BookingRequest, error) {
	var req domain.BookingRequest
	var userID sql.NullString
	var venueType string
	var eventDate sql.NullTime
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, speaker_id, organizer_user_id, event_name, event_type, venue_type, venue,
		        audience_size, topic, requirements, event_date, start_time, end_time,
		        organizer_name, organizer_email, organizer_phone, created_at
		 FROM booking_requests WHERE id = $1`, id).Scan(
		&req.ID, &req.SpeakerID, &userID, &req.EventName, &req.EventType, &venueType, &req.Venue,
		&req.AudienceSize, &req.Topic, &req.Requirements, &eventDate, &req.StartTime, &req.EndTime,
		&req.OrganizerName, &req.OrganizerEmail, &req.OrganizerPhone, &req.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	req.OrganizerUserID = userID.String
	req.VenueType = domain.VenueType(venueType)
	if eventDate.Valid {
		req.Date = domain.DateOf(eventDate.Time.UTC())
	}
	return &req, nil
}
