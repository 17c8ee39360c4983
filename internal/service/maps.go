package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/pkordes/tripboard/internal/decode"
	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/importer"
	"github.com/pkordes/tripboard/internal/repo"
)

// DefaultLayer names features that are not in any KML folder.
const DefaultLayer = "Default"

// placeholderIconRe matches the blank and white pins My Maps uses when a
// layer has no real icon.
var placeholderIconRe = regexp.MustCompile(`(?i)blank|wht`)

// MapService holds the imported map as GeoJSON.
type MapService struct {
	geojson repo.Document[*geojson.FeatureCollection]
	source  KMLSource
	logger  *slog.Logger
}

func NewMapService(doc repo.Document[*geojson.FeatureCollection], source KMLSource, logger *slog.Logger) *MapService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MapService{geojson: doc, source: source, logger: logger}
}

// Get returns the imported map; an empty collection when none was imported.
func (s *MapService) Get(ctx context.Context) (*geojson.FeatureCollection, error) {
	fc, err := s.geojson.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.MapService.Get: %w", err)
	}
	if fc == nil {
		return geojson.NewFeatureCollection(), nil
	}
	return fc, nil
}

// ImportKML replaces the map with the given KML. Uploaded files are
// annotated with style and layer hints; pasted KML (annotate false) is
// converted as is.
func (s *MapService) ImportKML(ctx context.Context, data []byte, annotate bool) (*geojson.FeatureCollection, error) {
	convert := importer.MapFromKMLPlain
	if annotate {
		convert = importer.MapFromKML
	}
	fc, err := convert(data)
	if err != nil {
		return nil, fmt.Errorf("service.MapService.ImportKML: %w", err)
	}
	if err := s.put(ctx, fc); err != nil {
		return nil, fmt.Errorf("service.MapService.ImportKML: %w", err)
	}
	return fc, nil
}

// ImportMyMaps downloads a My Maps map (share link or bare id) and
// replaces the map with it. A failed download leaves the map unchanged.
func (s *MapService) ImportMyMaps(ctx context.Context, link string) (*geojson.FeatureCollection, error) {
	if err := required("url", link); err != nil {
		return nil, err
	}
	data, err := s.source.FetchKML(ctx, link)
	if err != nil {
		s.logger.WarnContext(ctx, "my maps download failed", "link", link, "error", err)
		return nil, fmt.Errorf("service.MapService.ImportMyMaps: %w", err)
	}
	fc, err := importer.MapFromKML(data)
	if err != nil {
		return nil, fmt.Errorf("service.MapService.ImportMyMaps: %w", err)
	}
	if err := s.put(ctx, fc); err != nil {
		return nil, fmt.Errorf("service.MapService.ImportMyMaps: %w", err)
	}
	return fc, nil
}

// Clear removes the imported map.
func (s *MapService) Clear(ctx context.Context) error {
	if err := s.put(ctx, nil); err != nil {
		return fmt.Errorf("service.MapService.Clear: %w", err)
	}
	return nil
}

// Legend lists the map's layers in first-seen order with the icon and
// colour of their last feature that has one. Placeholder icons are left
// out.
func (s *MapService) Legend(ctx context.Context) ([]domain.LegendEntry, error) {
	fc, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return Legend(fc), nil
}

// Legend builds the legend of a feature collection.
func Legend(fc *geojson.FeatureCollection) []domain.LegendEntry {
	entries := []domain.LegendEntry{}
	index := map[string]int{}
	for _, f := range fc.Features {
		layer := strings.TrimSpace(f.Properties.MustString(decode.PropLayer, ""))
		if layer == "" {
			layer = DefaultLayer
		}
		i, ok := index[layer]
		if !ok {
			i = len(entries)
			index[layer] = i
			entries = append(entries, domain.LegendEntry{Layer: layer})
		}
		e := &entries[i]
		e.Count++
		if icon := f.Properties.MustString(decode.PropIcon, ""); icon != "" {
			e.Icon = icon
		}
		if color := f.Properties.MustString(decode.PropColor, ""); color != "" {
			e.Color = color
		}
	}
	for i := range entries {
		if placeholderIconRe.MatchString(entries[i].Icon) {
			entries[i].Icon = ""
		}
	}
	return entries
}

func (s *MapService) put(ctx context.Context, fc *geojson.FeatureCollection) error {
	_, err := s.geojson.Update(ctx, func(*geojson.FeatureCollection) (*geojson.FeatureCollection, error) {
		return fc, nil
	})
	return err
}
