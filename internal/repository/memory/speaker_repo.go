// Package memory serves the speaker catalog from a roster embedded in the binary.
package memory

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	"speakerbooking/internal/domain"
)

//go:embed seed/*.json
var seedFS embed.FS

type speakerRepository struct {
	speakers []*domain.Speaker
	byID     map[string]*domain.Speaker
	reviews  map[string][]*domain.Review
}

// NewSpeakerRepository returns a read-only domain.SpeakerRepository over the given roster.
func NewSpeakerRepository(speakers []*domain.Speaker, reviews []*domain.Review) domain.SpeakerRepository {
	r := &speakerRepository{
		speakers: speakers,
		byID:     make(map[string]*domain.Speaker, len(speakers)),
		reviews:  make(map[string][]*domain.Review),
	}
	for _, s := range speakers {
		r.byID[s.ID] = s
	}
	for _, rv := range reviews {
		r.reviews[rv.SpeakerID] = append(r.reviews[rv.SpeakerID], rv)
	}
	return r
}

// LoadEmbedded returns a repository over the embedded seed roster.
func LoadEmbedded() (domain.SpeakerRepository, error) {
	return LoadFromFS(seedFS)
}

// LoadFromFS reads seed/speakers.json and seed/reviews.json from fsys.
func LoadFromFS(fsys fs.FS) (domain.SpeakerRepository, error) {
	var speakers []*domain.Speaker
	if err := readJSON(fsys, "seed/speakers.json", &speakers); err != nil {
		return nil, err
	}
	var reviews []*domain.Review
	if err := readJSON(fsys, "seed/reviews.json", &reviews); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(speakers))
	for _, s := range speakers {
		if s.ID == "" {
			return nil, fmt.Errorf("seed speaker %q has no id", s.Name)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("seed speaker id %s is duplicated", s.ID)
		}
		if s.RateMin > s.RateMax {
			return nil, fmt.Errorf("seed speaker %s: rate_min %v above rate_max %v", s.ID, s.RateMin, s.RateMax)
		}
		seen[s.ID] = true
	}
	return NewSpeakerRepository(speakers, reviews), nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (r *speakerRepository) List(ctx context.Context) ([]*domain.Speaker, error) {
	return r.speakers, nil
}

func (r *speakerRepository) GetByID(ctx context.Context, id string) (*domain.Speaker, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (r *speakerRepository) ListReviewsBySpeakerID(ctx context.Context, speakerID string) ([]*domain.Review, error) {
	return r.reviews[speakerID], nil
}
