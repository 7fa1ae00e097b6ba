package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speakerbooking/internal/domain"
)

func testRequest() *domain.BookingRequest {
	req := domain.NewBookingRequest("req-1", "s1", time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC))
	req.EventName = "Annual Leadership Conference"
	req.EventType = "Conference"
	req.Venue = "Convention Center"
	req.AudienceSize = "500"
	req.Topic = "Leadership"
	req.Date = domain.Date{Year: 2026, Month: time.November, Day: 2}
	req.StartTime = "13:00"
	req.EndTime = "14:00"
	req.OrganizerName = "John Doe"
	req.OrganizerEmail = "john@example.com"
	req.OrganizerPhone = "5551234567"
	return req
}

func TestBookingRequestRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "inserts",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO booking_requests`).
					WithArgs("req-1", "s1", nil, "Annual Leadership Conference", "Conference", "in-person", "Convention Center",
						"500", "Leadership", "", sqlmock.AnyArg(), "13:00", "14:00", "John Doe", "john@example.com", "5551234567", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "same id again overwrites its own row",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`(?s)INSERT INTO booking_requests.*ON CONFLICT \(id\) DO UPDATE SET`).
					WithArgs("req-1", "s1", nil, "Annual Leadership Conference", "Conference", "in-person", "Convention Center",
						"500", "Leadership", "", sqlmock.AnyArg(), "13:00", "14:00", "John Doe", "john@example.com", "5551234567", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "unique violation is date unavailable",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO booking_requests`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrDateUnavailable,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO booking_requests`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)
			err = NewBookingRequestRepository(db).Create(ctx, testRequest())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingRequestRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	cols := []string{
		"id", "speaker_id", "organizer_user_id", "event_name", "event_type", "venue_type", "venue",
		"audience_size", "topic", "requirements", "event_date", "start_time", "end_time",
		"organizer_name", "organizer_email", "organizer_phone", "created_at",
	}

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		created := time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT .* FROM booking_requests WHERE id = \$1`).
			WithArgs("req-1").
			WillReturnRows(sqlmock.NewRows(cols).AddRow(
				"req-1", "s1", "user-42", "Summit", "Conference", "virtual", "Zoom",
				"50", "Leadership", "", time.Date(2026, time.November, 2, 0, 0, 0, 0, time.UTC), "13:00", "14:00",
				"John Doe", "john@example.com", "5551234567", created,
			))

		got, err := NewBookingRequestRepository(db).GetByID(ctx, "req-1")
		require.NoError(t, err)
		assert.Equal(t, "user-42", got.OrganizerUserID)
		assert.Equal(t, domain.VenueVirtual, got.VenueType)
		assert.Equal(t, domain.Date{Year: 2026, Month: time.November, Day: 2}, got.Date)
		assert.Equal(t, created, got.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`SELECT .* FROM booking_requests WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err = NewBookingRequestRepository(db).GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
