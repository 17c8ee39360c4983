package domain

// WeatherPlace is a geocoded location with its last fetched daily forecast.
// Error is set instead of Daily when the place could not be resolved.
type WeatherPlace struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Lat   float64        `json:"lat"`
	Lon   float64        `json:"lon"`
	Daily *DailyForecast `json:"daily,omitempty"`
	Error string         `json:"error,omitempty"`
}

// DailyForecast mirrors the parallel arrays of the forecast provider.
type DailyForecast struct {
	Time        []string  `json:"time"`
	MaxTemp     []float64 `json:"temperature_2m_max"`
	MinTemp     []float64 `json:"temperature_2m_min"`
	WeatherCode []int     `json:"weathercode"`
}

// WeatherIcon maps a WMO weather interpretation code to an emoji.
func WeatherIcon(code int) string {
	switch {
	case code == 0:
		return "☀️"
	case code == 1 || code == 2:
		return "🌤️"
	case code == 3:
		return "☁️"
	case code == 45 || code == 48:
		return "🌫️"
	case code >= 51 && code <= 67:
		return "🌦️"
	case code >= 71 && code <= 77:
		return "🌨️"
	case code >= 80 && code <= 82:
		return "🌧️"
	case code >= 95:
		return "⛈️"
	default:
		return "🌈"
	}
}
