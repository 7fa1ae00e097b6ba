package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"speakerbooking/internal/domain"

	"github.com/lib/pq"
)

const speakerColumns = `id, name, credentials, image, bio, topics, experience, languages, rate_min, rate_max, video_url, location, verified, featured, rating, total_bookings, past_talks`

type speakerRepository struct {
	DB *sql.DB
}

// NewSpeakerRepository returns a domain.SpeakerRepository implemented with Postgres.
func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpeaker(row rowScanner) (*domain.Speaker, error) {
	var s domain.Speaker
	var videoURL sql.NullString
	var pastTalks []byte
	err := row.Scan(
		&s.ID, &s.Name, &s.Credentials, &s.Image, &s.Bio,
		pq.Array(&s.Topics), &s.Experience, pq.Array(&s.Languages),
		&s.RateMin, &s.RateMax, &videoURL, &s.Location, &s.Verified, &s.Featured,
		&s.Rating, &s.TotalBookings, &pastTalks,
	)
	if err != nil {
		return nil, err
	}
	s.VideoURL = videoURL.String
	if len(pastTalks) > 0 {
		if err := json.Unmarshal(pastTalks, &s.PastTalks); err != nil {
			return nil, fmt.Errorf("decode past_talks of %s: %w", s.ID, err)
		}
	}
	return &s, nil
}

func (r *speakerRepository) List(ctx context.Context) ([]*domain.Speaker, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+speakerColumns+` FROM speakers ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var speakers []*domain.Speaker
	for rows.Next() {
		s, err := scanSpeaker(rows)
		if err != nil {
			return nil, err
		}
		speakers = append(speakers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return speakers, nil
}

func (r *speakerRepository) GetByID(ctx context.Context, id string) (*domain.Speaker, error) {
	s, err := scanSpeaker(r.DB.QueryRowContext(ctx, `SELECT `+speakerColumns+` FROM speakers WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *speakerRepository) ListReviewsBySpeakerID(ctx context.Context, speakerID string) ([]*domain.Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT speaker_id, reviewer_name, reviewer_position, reviewer_company, reviewer_image,
		        rating, review_date, event_name, comment
		 FROM speaker_reviews
		 WHERE speaker_id = $1
		 ORDER BY review_date DESC`, speakerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.SpeakerID, &rv.ReviewerName, &rv.ReviewerPosition, &rv.ReviewerCompany,
			&rv.ReviewerImage, &rv.Rating, &rv.Date, &rv.EventName, &rv.Comment); err != nil {
			return nil, err
		}
		reviews = append(reviews, &rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
