package decode

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkordes/tripboard/internal/domain"
)

// DefaultFolderName labels itinerary days whose KML folder has no name.
const DefaultFolderName = "Day"

// DefaultPlacemarkName is used for placemarks without a name.
const DefaultPlacemarkName = "Untitled"

type kmlFile struct {
	XMLName  xml.Name      `xml:"kml"`
	Document *kmlContainer `xml:"Document"`
	kmlContainer
}

// kmlContainer models both <Document> and <Folder>.
type kmlContainer struct {
	Name        string         `xml:"name"`
	Description string         `xml:"description"`
	Styles      []kmlStyle     `xml:"Style"`
	StyleMaps   []kmlStyleMap  `xml:"StyleMap"`
	Folders     []kmlContainer `xml:"Folder"`
	Placemarks  []kmlPlacemark `xml:"Placemark"`
}

type kmlStyle struct {
	ID         string        `xml:"id,attr"`
	IconStyle  kmlIconStyle  `xml:"IconStyle"`
	LineStyle  kmlColorStyle `xml:"LineStyle"`
	PolyStyle  kmlColorStyle `xml:"PolyStyle"`
	LabelStyle kmlColorStyle `xml:"LabelStyle"`
}

type kmlIconStyle struct {
	Color string `xml:"color"`
	Href  string `xml:"Icon>href"`
}

type kmlColorStyle struct {
	Color string `xml:"color"`
}

type kmlStyleMap struct {
	ID    string `xml:"id,attr"`
	Pairs []struct {
		Key      string `xml:"key"`
		StyleURL string `xml:"styleUrl"`
	} `xml:"Pair"`
}

type kmlPlacemark struct {
	Name         string `xml:"name"`
	Description  string `xml:"description"`
	StyleURL     string `xml:"styleUrl"`
	ExtendedData []struct {
		Name  string `xml:"name,attr"`
		Value string `xml:"value"`
	} `xml:"ExtendedData>Data"`
	kmlGeometry
}

type kmlGeometry struct {
	Point         *kmlCoords        `xml:"Point"`
	LineString    *kmlCoords        `xml:"LineString"`
	LinearRing    *kmlCoords        `xml:"LinearRing"`
	Polygon       *kmlPolygon       `xml:"Polygon"`
	MultiGeometry *kmlMultiGeometry `xml:"MultiGeometry"`
}

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer kmlCoords   `xml:"outerBoundaryIs>LinearRing"`
	Inner []kmlCoords `xml:"innerBoundaryIs>LinearRing"`
}

type kmlMultiGeometry struct {
	Points          []kmlCoords        `xml:"Point"`
	LineStrings     []kmlCoords        `xml:"LineString"`
	Polygons        []kmlPolygon       `xml:"Polygon"`
	MultiGeometries []kmlMultiGeometry `xml:"MultiGeometry"`
}

// KMLDocument is a parsed KML file.
type KMLDocument struct {
	root kmlContainer
}

// KMLFolder is one folder with the placemarks it directly contains.
type KMLFolder struct {
	Name       string
	Placemarks []KMLPlacemark
}

// KMLPlacemark is the part of a placemark the itinerary cares about.
type KMLPlacemark struct {
	Name        string
	Description string
}

// ParseKML parses a KML document. Both <kml><Document>…</Document></kml>
// and folders placed directly under <kml> are accepted.
func ParseKML(data []byte) (*KMLDocument, error) {
	var f kmlFile
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode.ParseKML: %w: malformed KML: %v", domain.ErrImport, err)
	}
	root := f.kmlContainer
	if f.Document != nil {
		root = *f.Document
		root.Folders = append(root.Folders, f.kmlContainer.Folders...)
		root.Placemarks = append(root.Placemarks, f.kmlContainer.Placemarks...)
	}
	return &KMLDocument{root: root}, nil
}

// Name is the document name, if any.
func (d *KMLDocument) Name() string {
	return strings.TrimSpace(d.root.Name)
}

// Folders walks the folders in document order (parents before children)
// and returns each one with its direct placemarks. Placemarks placed
// directly under the document come first, labelled with the document name.
// Folders without placemarks are skipped.
func (d *KMLDocument) Folders() []KMLFolder {
	var out []KMLFolder
	if len(d.root.Placemarks) > 0 {
		out = append(out, newKMLFolder(d.root.Name, d.root.Placemarks))
	}
	var walk func(folders []kmlContainer)
	walk = func(folders []kmlContainer) {
		for _, f := range folders {
			if len(f.Placemarks) > 0 {
				out = append(out, newKMLFolder(f.Name, f.Placemarks))
			}
			walk(f.Folders)
		}
	}
	walk(d.root.Folders)
	return out
}

func newKMLFolder(name string, pms []kmlPlacemark) KMLFolder {
	folder := KMLFolder{Name: orDefault(name, DefaultFolderName)}
	for _, pm := range pms {
		folder.Placemarks = append(folder.Placemarks, KMLPlacemark{
			Name:        orDefault(pm.Name, DefaultPlacemarkName),
			Description: strings.TrimSpace(pm.Description),
		})
	}
	return folder
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

// Styles decodes every Style by id. StyleMap ids alias the style referenced
// by their first pair, whatever its key.
func (d *KMLDocument) Styles() map[string]domain.StyleEntry {
	out := map[string]domain.StyleEntry{}
	var maps []kmlStyleMap
	var walk func(c kmlContainer)
	walk = func(c kmlContainer) {
		for _, s := range c.Styles {
			if s.ID != "" {
				out[s.ID] = s.entry()
			}
		}
		maps = append(maps, c.StyleMaps...)
		for _, f := range c.Folders {
			walk(f)
		}
	}
	walk(d.root)

	for _, sm := range maps {
		if sm.ID == "" || len(sm.Pairs) == 0 {
			continue
		}
		if e, ok := out[styleID(sm.Pairs[0].StyleURL)]; ok {
			out[sm.ID] = e
		}
	}
	return out
}

func (s kmlStyle) entry() domain.StyleEntry {
	e := domain.StyleEntry{Icon: strings.TrimSpace(s.IconStyle.Href)}
	for _, c := range []string{s.IconStyle.Color, s.PolyStyle.Color, s.LineStyle.Color, s.LabelStyle.Color} {
		if color, opacity, ok := KMLColorToCSS(c); ok {
			e.Color = color
			e.Opacity = &opacity
			break
		}
	}
	return e
}

// PlacemarkLayers maps each placemark name to the name of the folder that
// contains it. When folders nest, the innermost folder wins.
func (d *KMLDocument) PlacemarkLayers() map[string]string {
	out := map[string]string{}
	var visit func(f kmlContainer)
	visit = func(f kmlContainer) {
		if name := strings.TrimSpace(f.Name); name != "" {
			for _, pm := range descendantPlacemarks(f) {
				if pn := strings.TrimSpace(pm.Name); pn != "" {
					out[pn] = name
				}
			}
		}
		for _, child := range f.Folders {
			visit(child)
		}
	}
	for _, f := range d.root.Folders {
		visit(f)
	}
	return out
}

func descendantPlacemarks(f kmlContainer) []kmlPlacemark {
	out := append([]kmlPlacemark(nil), f.Placemarks...)
	for _, child := range f.Folders {
		out = append(out, descendantPlacemarks(child)...)
	}
	return out
}

// allPlacemarks returns root placemarks followed by folder contents,
// depth first.
func (d *KMLDocument) allPlacemarks() []kmlPlacemark {
	out := append([]kmlPlacemark(nil), d.root.Placemarks...)
	for _, f := range d.root.Folders {
		out = append(out, descendantPlacemarks(f)...)
	}
	return out
}

var kmlColorRe = regexp.MustCompile(`^[0-9a-fA-F]{8}$`)

// KMLColorToCSS converts a KML colour (AABBGGRR hex) to a CSS "#rrggbb"
// colour and an opacity in [0,1]. Anything but eight hex digits is rejected.
func KMLColorToCSS(s string) (string, float64, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if !kmlColorRe.MatchString(s) {
		return "", 0, false
	}
	alpha, err := strconv.ParseUint(s[0:2], 16, 8)
	if err != nil {
		return "", 0, false
	}
	bb, gg, rr := s[2:4], s[4:6], s[6:8]
	return "#" + strings.ToLower(rr+gg+bb), float64(alpha) / 255, true
}

func styleID(url string) string {
	url = strings.TrimSpace(url)
	if i := strings.LastIndex(url, "#"); i >= 0 {
		return url[i+1:]
	}
	return url
}
