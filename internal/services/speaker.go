package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"speakerbooking/internal/domain"
)

type speakerService struct {
	speakerRepo    domain.SpeakerRepository
	contextTimeout time.Duration
}

// NewSpeakerService returns the directory service over speakerRepo.
func NewSpeakerService(speakerRepo domain.SpeakerRepository, timeout time.Duration) domain.SpeakerService {
	return &speakerService{
		speakerRepo:    speakerRepo,
		contextTimeout: timeout,
	}
}

func (s *speakerService) Search(ctx context.Context, criteria domain.FilterCriteria, page domain.PaginationParams) ([]*domain.Speaker, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	roster, err := s.speakerRepo.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list speakers: %w", err)
	}
	matches := FilterSpeakers(roster, criteria)
	start, end := page.Window(len(matches))
	out := matches[start:end]
	if out == nil {
		out = []*domain.Speaker{}
	}
	return out, len(matches), nil
}

func (s *speakerService) Featured(ctx context.Context, limit int) ([]*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	roster, err := s.speakerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	out := FeaturedSpeakers(roster, limit)
	if out == nil {
		out = []*domain.Speaker{}
	}
	return out, nil
}

func (s *speakerService) GetByID(ctx context.Context, id string) (*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sp, err := s.speakerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	return sp, nil
}

func (s *speakerService) ListReviews(ctx context.Context, speakerID string) ([]*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.speakerRepo.GetByID(ctx, speakerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	reviews, err := s.speakerRepo.ListReviewsBySpeakerID(ctx, speakerID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return reviews, nil
}

func (s *speakerService) MaxRate(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	roster, err := s.speakerRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list speakers: %w", err)
	}
	return MaxRate(roster), nil
}
