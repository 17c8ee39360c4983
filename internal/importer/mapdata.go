package importer

import (
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/pkordes/tripboard/internal/decode"
)

// MapFromKML converts a KML document to GeoJSON and annotates every
// feature with its style and layer.
func MapFromKML(data []byte) (*geojson.FeatureCollection, error) {
	doc, err := decode.ParseKML(data)
	if err != nil {
		return nil, fmt.Errorf("importer.MapFromKML: %w", err)
	}
	fc := doc.ToGeoJSON()
	decode.Annotate(fc, doc.Styles(), doc.PlacemarkLayers())
	return fc, nil
}

// MapFromKMLPlain converts a KML document to GeoJSON without annotation,
// as done for pasted KML.
func MapFromKMLPlain(data []byte) (*geojson.FeatureCollection, error) {
	doc, err := decode.ParseKML(data)
	if err != nil {
		return nil, fmt.Errorf("importer.MapFromKMLPlain: %w", err)
	}
	return doc.ToGeoJSON(), nil
}
