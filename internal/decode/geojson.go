package decode

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/pkordes/tripboard/internal/domain"
)

// Feature property keys added by Annotate.
const (
	PropIcon    = "_icon"
	PropColor   = "_color"
	PropOpacity = "_opacity"
	PropLayer   = "_layer"
)

// ToGeoJSON converts every placemark with a geometry into a GeoJSON
// feature. Properties carry name, description, styleUrl and any
// ExtendedData values. Placemarks without geometry are skipped.
func (d *KMLDocument) ToGeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, pm := range d.allPlacemarks() {
		geom := pm.geometry()
		if geom == nil {
			continue
		}
		f := geojson.NewFeature(geom)
		if pm.Name != "" {
			f.Properties["name"] = strings.TrimSpace(pm.Name)
		}
		if pm.Description != "" {
			f.Properties["description"] = strings.TrimSpace(pm.Description)
		}
		if pm.StyleURL != "" {
			f.Properties["styleUrl"] = strings.TrimSpace(pm.StyleURL)
		}
		for _, data := range pm.ExtendedData {
			if data.Name != "" {
				f.Properties[data.Name] = strings.TrimSpace(data.Value)
			}
		}
		fc.Append(f)
	}
	return fc
}

// Annotate copies presentation hints onto each feature: _icon, _color and
// _opacity from the style its styleUrl references, and _layer from the
// folder that holds a placemark of the same name.
func Annotate(fc *geojson.FeatureCollection, styles map[string]domain.StyleEntry, layers map[string]string) {
	for _, f := range fc.Features {
		if f.Properties == nil {
			f.Properties = geojson.Properties{}
		}
		if st, ok := styles[styleID(f.Properties.MustString("styleUrl", ""))]; ok {
			if st.Icon != "" {
				f.Properties[PropIcon] = st.Icon
			}
			if st.Color != "" {
				f.Properties[PropColor] = st.Color
			}
			if st.Opacity != nil {
				f.Properties[PropOpacity] = *st.Opacity
			}
		}
		if layer, ok := layers[f.Properties.MustString("name", "")]; ok {
			f.Properties[PropLayer] = layer
		}
	}
}

func (pm kmlPlacemark) geometry() orb.Geometry {
	return pm.kmlGeometry.toOrb()
}

func (g kmlGeometry) toOrb() orb.Geometry {
	switch {
	case g.Point != nil:
		if pts := parseCoords(g.Point.Coordinates); len(pts) > 0 {
			return pts[0]
		}
	case g.LineString != nil:
		if pts := parseCoords(g.LineString.Coordinates); len(pts) > 1 {
			return orb.LineString(pts)
		}
	case g.LinearRing != nil:
		if pts := parseCoords(g.LinearRing.Coordinates); len(pts) > 1 {
			return orb.LineString(pts)
		}
	case g.Polygon != nil:
		return g.Polygon.toOrb()
	case g.MultiGeometry != nil:
		return g.MultiGeometry.toOrb()
	}
	return nil
}

func (p kmlPolygon) toOrb() orb.Geometry {
	outer := parseCoords(p.Outer.Coordinates)
	if len(outer) < 3 {
		return nil
	}
	poly := orb.Polygon{orb.Ring(outer)}
	for _, in := range p.Inner {
		if pts := parseCoords(in.Coordinates); len(pts) >= 3 {
			poly = append(poly, orb.Ring(pts))
		}
	}
	return poly
}

func (m kmlMultiGeometry) toOrb() orb.Geometry {
	var coll orb.Collection
	for _, c := range m.Points {
		if g := (kmlGeometry{Point: &c}).toOrb(); g != nil {
			coll = append(coll, g)
		}
	}
	for _, c := range m.LineStrings {
		if g := (kmlGeometry{LineString: &c}).toOrb(); g != nil {
			coll = append(coll, g)
		}
	}
	for _, p := range m.Polygons {
		if g := p.toOrb(); g != nil {
			coll = append(coll, g)
		}
	}
	for _, mg := range m.MultiGeometries {
		if g := mg.toOrb(); g != nil {
			coll = append(coll, g)
		}
	}
	if len(coll) == 0 {
		return nil
	}
	return coll
}

// parseCoords reads "lon,lat[,alt]" tuples separated by whitespace.
// Malformed tuples are skipped.
func parseCoords(s string) []orb.Point {
	var out []orb.Point
	for _, tuple := range strings.Fields(s) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			continue
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			continue
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			continue
		}
		out = append(out, orb.Point{lon, lat})
	}
	return out
}
