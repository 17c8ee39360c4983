package service

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/repo"
)

// DefaultLayerColor is used for layers created without a colour.
const DefaultLayerColor = "#ff5722"

// CustomMapService manages the hand-edited map.
type CustomMapService struct {
	doc repo.Document[domain.CustomMap]
}

func NewCustomMapService(doc repo.Document[domain.CustomMap]) *CustomMapService {
	return &CustomMapService{doc: doc}
}

// Get returns the custom map with non-nil slices.
func (s *CustomMapService) Get(ctx context.Context) (domain.CustomMap, error) {
	m, err := s.doc.Load(ctx)
	if err != nil {
		return domain.CustomMap{}, fmt.Errorf("service.CustomMapService.Get: %w", err)
	}
	m.Layers = nonNil(m.Layers)
	m.Markers = nonNil(m.Markers)
	return m, nil
}

// AddLayer appends a layer. Name is required.
func (s *CustomMapService) AddLayer(ctx context.Context, l domain.MapLayer) (domain.MapLayer, error) {
	l.Name = strings.TrimSpace(l.Name)
	if err := required("name", l.Name); err != nil {
		return domain.MapLayer{}, err
	}
	if l.Color == "" {
		l.Color = DefaultLayerColor
	}
	if l.IconDataURL != "" && !strings.HasPrefix(l.IconDataURL, "data:image/") {
		return domain.MapLayer{}, fmt.Errorf("%w: iconDataUrl must be an image data URL", domain.ErrValidation)
	}
	if l.ID == "" {
		l.ID = domain.NewID()
	}
	if _, err := s.doc.Update(ctx, func(cur domain.CustomMap) (domain.CustomMap, error) {
		cur.Layers = append(slices.Clone(cur.Layers), l)
		return cur, nil
	}); err != nil {
		return domain.MapLayer{}, fmt.Errorf("service.CustomMapService.AddLayer: %w", err)
	}
	return l, nil
}

// RemoveLayer deletes a layer together with its markers.
func (s *CustomMapService) RemoveLayer(ctx context.Context, id string) error {
	_, err := s.doc.Update(ctx, func(cur domain.CustomMap) (domain.CustomMap, error) {
		layers, err := removeByID(cur.Layers, id, func(l domain.MapLayer) string { return l.ID })
		if err != nil {
			return cur, err
		}
		markers := slices.DeleteFunc(slices.Clone(cur.Markers), func(m domain.MapMarker) bool { return m.LayerID == id })
		return domain.CustomMap{Layers: layers, Markers: markers}, nil
	})
	if err != nil {
		return fmt.Errorf("service.CustomMapService.RemoveLayer: %w", err)
	}
	return nil
}

// AddMarker appends a marker. Name and finite coordinates are required;
// a layer id, when given, must exist.
func (s *CustomMapService) AddMarker(ctx context.Context, m domain.MapMarker) (domain.MapMarker, error) {
	m.Name = strings.TrimSpace(m.Name)
	if err := validateMarker(m); err != nil {
		return domain.MapMarker{}, err
	}
	if m.ID == "" {
		m.ID = domain.NewID()
	}
	_, err := s.doc.Update(ctx, func(cur domain.CustomMap) (domain.CustomMap, error) {
		if m.LayerID != "" && !slices.ContainsFunc(cur.Layers, func(l domain.MapLayer) bool { return l.ID == m.LayerID }) {
			return cur, fmt.Errorf("%w: no layer with id %q", domain.ErrValidation, m.LayerID)
		}
		cur.Markers = append(slices.Clone(cur.Markers), m)
		return cur, nil
	})
	if err != nil {
		return domain.MapMarker{}, fmt.Errorf("service.CustomMapService.AddMarker: %w", err)
	}
	return m, nil
}

// RemoveMarker deletes a marker by id.
func (s *CustomMapService) RemoveMarker(ctx context.Context, id string) error {
	_, err := s.doc.Update(ctx, func(cur domain.CustomMap) (domain.CustomMap, error) {
		markers, err := removeByID(cur.Markers, id, func(m domain.MapMarker) string { return m.ID })
		if err != nil {
			return cur, err
		}
		cur.Markers = markers
		return cur, nil
	})
	if err != nil {
		return fmt.Errorf("service.CustomMapService.RemoveMarker: %w", err)
	}
	return nil
}

func validateMarker(m domain.MapMarker) error {
	if err := required("name", m.Name); err != nil {
		return err
	}
	for _, v := range []float64{m.Lat, m.Lng} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: coordinates must be finite", domain.ErrValidation)
		}
	}
	if m.Lat < -90 || m.Lat > 90 || m.Lng < -180 || m.Lng > 180 {
		return fmt.Errorf("%w: coordinates out of range", domain.ErrValidation)
	}
	return nil
}
