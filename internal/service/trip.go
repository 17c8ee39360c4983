package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/repo"
)

// DefaultHeader is shown until a headline is set.
var DefaultHeader = domain.TripHeader{Headline: "My Trip"}

// TripService manages the board headline.
type TripService struct {
	header repo.Document[domain.TripHeader]
}

func NewTripService(header repo.Document[domain.TripHeader]) *TripService {
	return &TripService{header: header}
}

// Header returns the stored header, or DefaultHeader if none was set.
func (s *TripService) Header(ctx context.Context) (domain.TripHeader, error) {
	h, err := s.header.Load(ctx)
	if err != nil {
		return domain.TripHeader{}, fmt.Errorf("service.TripService.Header: %w", err)
	}
	if h.Headline == "" {
		h.Headline = DefaultHeader.Headline
	}
	return h, nil
}

// SetHeader replaces the header. Blank fields keep their current value.
func (s *TripService) SetHeader(ctx context.Context, h domain.TripHeader) (domain.TripHeader, error) {
	h.Headline = strings.TrimSpace(h.Headline)
	h.Subheadline = strings.TrimSpace(h.Subheadline)
	if h.Headline == "" && h.Subheadline == "" {
		return domain.TripHeader{}, fmt.Errorf("%w: headline or subheadline is required", domain.ErrValidation)
	}
	out, err := s.header.Update(ctx, func(cur domain.TripHeader) (domain.TripHeader, error) {
		if h.Headline != "" {
			cur.Headline = h.Headline
		}
		if h.Subheadline != "" {
			cur.Subheadline = h.Subheadline
		}
		return cur, nil
	})
	if err != nil {
		return domain.TripHeader{}, fmt.Errorf("service.TripService.SetHeader: %w", err)
	}
	return out, nil
}
