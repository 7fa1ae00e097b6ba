package services

import (
	"strings"

	"speakerbooking/internal/domain"
)

// FilterSpeakers returns the speakers matching every criterion in c, in roster order.
// Empty criteria return the roster unchanged.
func FilterSpeakers(speakers []*domain.Speaker, c domain.FilterCriteria) []*domain.Speaker {
	if c.IsEmpty() {
		return speakers
	}
	term := strings.ToLower(strings.TrimSpace(c.Term))
	out := make([]*domain.Speaker, 0, len(speakers))
	for _, s := range speakers {
		if term != "" && !matchesTerm(s, term) {
			continue
		}
		if len(c.Topics) > 0 && !anyIn(s.Topics, c.Topics) {
			continue
		}
		if len(c.Languages) > 0 && !anyIn(s.Languages, c.Languages) {
			continue
		}
		if c.Price != nil && (s.RateMin > c.Price.Max || s.RateMax < c.Price.Min) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matchesTerm(s *domain.Speaker, term string) bool {
	if strings.Contains(strings.ToLower(s.Name), term) ||
		strings.Contains(strings.ToLower(s.Credentials), term) ||
		strings.Contains(strings.ToLower(s.Bio), term) {
		return true
	}
	for _, t := range s.Topics {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}

func anyIn(values, set []string) bool {
	for _, v := range values {
		for _, want := range set {
			if v == want {
				return true
			}
		}
	}
	return false
}

// FeaturedSpeakers returns up to limit featured speakers in roster order. A limit of zero
// or less means no limit.
func FeaturedSpeakers(speakers []*domain.Speaker, limit int) []*domain.Speaker {
	var out []*domain.Speaker
	for _, s := range speakers {
		if !s.Featured {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// MaxRate returns the highest RateMax of the roster, the upper bound of the price slider.
func MaxRate(speakers []*domain.Speaker) float64 {
	var max float64
	for _, s := range speakers {
		if s.RateMax > max {
			max = s.RateMax
		}
	}
	return max
}
