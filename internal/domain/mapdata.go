package domain

// StyleEntry is the presentation decoded from one KML Style.
// Opacity is nil when no colour was present.
type StyleEntry struct {
	Icon    string   `json:"icon,omitempty"`
	Color   string   `json:"color,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
}

// LegendEntry describes one map layer for display.
type LegendEntry struct {
	Layer string `json:"layer"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
	Count int    `json:"count"`
}

// CustomMap is the hand-edited map: named layers and markers placed on them.
type CustomMap struct {
	Layers  []MapLayer  `json:"layers"`
	Markers []MapMarker `json:"markers"`
}

// MapLayer groups markers under a shared colour or icon.
type MapLayer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	IconDataURL string `json:"iconDataUrl,omitempty"`
}

// MapMarker is a single point on the custom map.
type MapMarker struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	LayerID string  `json:"layerId,omitempty"`
	Desc    string  `json:"desc,omitempty"`
}
