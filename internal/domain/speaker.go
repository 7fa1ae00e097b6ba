package domain

import "context"

// Speaker is a bookable speaker from the catalog. Catalog data is immutable for this service.
// swagger:model Speaker
type Speaker struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Credentials   string     `json:"credentials"`
	Image         string     `json:"image"`
	Bio           string     `json:"bio"`
	Topics        []string   `json:"topics"`
	Experience    string     `json:"experience"`
	Languages     []string   `json:"languages"`
	RateMin       float64    `json:"rate_min"`
	RateMax       float64    `json:"rate_max"`
	VideoURL      string     `json:"video_url,omitempty"`
	Location      string     `json:"location"`
	Verified      bool       `json:"verified"`
	Featured      bool       `json:"featured"`
	Rating        float64    `json:"rating"`
	TotalBookings int        `json:"total_bookings"`
	PastTalks     []PastTalk `json:"past_talks"`
}

// PastTalk is a talk the speaker has already given.
type PastTalk struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Venue       string `json:"venue"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url,omitempty"`
}

// Review is an organizer's review of a past booking.
// swagger:model Review
type Review struct {
	SpeakerID        string `json:"speaker_id"`
	ReviewerName     string `json:"reviewer_name"`
	ReviewerPosition string `json:"reviewer_position"`
	ReviewerCompany  string `json:"reviewer_company"`
	ReviewerImage    string `json:"reviewer_image"`
	Rating           int    `json:"rating"`
	Date             string `json:"date"`
	EventName        string `json:"event_name"`
	Comment          string `json:"comment"`
}

// SpeakerRepository is the read-only speaker catalog.
type SpeakerRepository interface {
	// List returns the full roster in catalog order.
	List(ctx context.Context) ([]*Speaker, error)
	// GetByID returns ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*Speaker, error)
	ListReviewsBySpeakerID(ctx context.Context, speakerID string) ([]*Review, error)
}

// SpeakerService is the directory's read surface over the catalog.
type SpeakerService interface {
	// Search filters the roster and returns the requested page plus the total number of matches.
	Search(ctx context.Context, criteria FilterCriteria, page PaginationParams) ([]*Speaker, int, error)
	Featured(ctx context.Context, limit int) ([]*Speaker, error)
	GetByID(ctx context.Context, id string) (*Speaker, error)
	ListReviews(ctx context.Context, speakerID string) ([]*Review, error)
	// MaxRate is the highest rate in the roster, the upper bound of the price range control.
	MaxRate(ctx context.Context) (float64, error)
}
