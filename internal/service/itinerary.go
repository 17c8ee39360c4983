package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/tripboard/internal/decode"
	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/importer"
	"github.com/pkordes/tripboard/internal/merge"
	"github.com/pkordes/tripboard/internal/repo"
)

// ItineraryImport reports the outcome of a document import.
type ItineraryImport struct {
	Added   int                `json:"added"`
	Skipped int                `json:"skipped"`
	Front   decode.Frontmatter `json:"-"`
}

// ItineraryService manages itinerary stops.
type ItineraryService struct {
	stops repo.Document[[]domain.Stop]
}

func NewItineraryService(stops repo.Document[[]domain.Stop]) *ItineraryService {
	return &ItineraryService{stops: stops}
}

// List returns all stops in insertion order.
func (s *ItineraryService) List(ctx context.Context) ([]domain.Stop, error) {
	stops, err := s.stops.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.List: %w", err)
	}
	return nonNil(stops), nil
}

// Days returns the stops grouped by day label.
func (s *ItineraryService) Days(ctx context.Context) ([]domain.Day, error) {
	stops, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.GroupByDay(stops), nil
}

// Add appends a stop. Manual entries are never deduplicated.
func (s *ItineraryService) Add(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	stop.Date = strings.TrimSpace(stop.Date)
	stop.Location = strings.TrimSpace(stop.Location)
	if err := validateStop(stop); err != nil {
		return domain.Stop{}, err
	}
	if stop.ID == "" {
		stop.ID = domain.NewID()
	}
	if _, err := s.stops.Update(ctx, func(cur []domain.Stop) ([]domain.Stop, error) {
		return append(cur, stop), nil
	}); err != nil {
		return domain.Stop{}, fmt.Errorf("service.ItineraryService.Add: %w", err)
	}
	return stop, nil
}

// Remove deletes a stop by id.
func (s *ItineraryService) Remove(ctx context.Context, id string) error {
	_, err := s.stops.Update(ctx, func(cur []domain.Stop) ([]domain.Stop, error) {
		return removeByID(cur, id, func(st domain.Stop) string { return st.ID })
	})
	if err != nil {
		return fmt.Errorf("service.ItineraryService.Remove: %w", err)
	}
	return nil
}

// Clear removes every stop.
func (s *ItineraryService) Clear(ctx context.Context) error {
	if _, err := s.stops.Update(ctx, func([]domain.Stop) ([]domain.Stop, error) {
		return []domain.Stop{}, nil
	}); err != nil {
		return fmt.Errorf("service.ItineraryService.Clear: %w", err)
	}
	return nil
}

// ImportMarkdown appends the stops of a Markdown itinerary, skipping those
// already present on the same day.
func (s *ItineraryService) ImportMarkdown(ctx context.Context, doc string) (ItineraryImport, error) {
	stops, front, err := importer.StopsFromMarkdown(doc)
	if err != nil {
		return ItineraryImport{}, fmt.Errorf("service.ItineraryService.ImportMarkdown: %w", err)
	}
	res, err := s.appendStops(ctx, stops)
	if err != nil {
		return ItineraryImport{}, fmt.Errorf("service.ItineraryService.ImportMarkdown: %w", err)
	}
	res.Front = front
	return res, nil
}

// ImportKML appends one stop per placemark, using folder names as day
// labels. Returns domain.ErrImport when the document has no placemarks.
func (s *ItineraryService) ImportKML(ctx context.Context, data []byte) (ItineraryImport, error) {
	stops, err := importer.StopsFromKML(data)
	if err != nil {
		return ItineraryImport{}, fmt.Errorf("service.ItineraryService.ImportKML: %w", err)
	}
	res, err := s.appendStops(ctx, stops)
	if err != nil {
		return ItineraryImport{}, fmt.Errorf("service.ItineraryService.ImportKML: %w", err)
	}
	return res, nil
}

// ImportPreset imports a preset's itinerary. The Markdown document is used
// when it has day sections; otherwise the KML folders become the days and
// the head of the Markdown is attached to the first stop. Importing the
// same preset again adds nothing.
func (s *ItineraryService) ImportPreset(ctx context.Context, p Preset) (ItineraryImport, error) {
	stops, front, err := importer.StopsFromMarkdown(p.Markdown)
	if err != nil {
		return ItineraryImport{}, fmt.Errorf("service.ItineraryService.ImportPreset: %w", err)
	}
	if len(stops) == 0 {
		if len(p.KML) == 0 {
			return ItineraryImport{}, fmt.Errorf("service.ItineraryService.ImportPreset: %w: preset %q has no itinerary", domain.ErrImport, p.Name)
		}
		stops, err = importer.StopsFromKML(p.KML)
		if err != nil {
			return ItineraryImport{}, fmt.Errorf("service.ItineraryService.ImportPreset: %w", err)
		}
		stops = importer.AttachSummary(stops, p.Markdown)
	}
	res, err := s.appendStops(ctx, stops)
	if err != nil {
		return ItineraryImport{}, fmt.Errorf("service.ItineraryService.ImportPreset: %w", err)
	}
	res.Front = front
	return res, nil
}

func (s *ItineraryService) appendStops(ctx context.Context, stops []domain.Stop) (ItineraryImport, error) {
	var res ItineraryImport
	_, err := s.stops.Update(ctx, func(cur []domain.Stop) ([]domain.Stop, error) {
		merged, added := merge.Stops(cur, stops)
		res = ItineraryImport{Added: len(added), Skipped: len(stops) - len(added)}
		if len(added) == 0 {
			return nil, repo.ErrSkipWrite
		}
		return merged, nil
	})
	return res, err
}

// validateStop requires a day label and a location.
func validateStop(stop domain.Stop) error {
	if err := required("date", stop.Date); err != nil {
		return err
	}
	return required("location", stop.Location)
}
