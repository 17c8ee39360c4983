package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/pkordes/tripboard/internal/decode"
	"github.com/pkordes/tripboard/internal/domain"
)

// Files making up a preset directory.
const (
	PresetItineraryFile = "itinerary.md"
	PresetMapFile       = "map.kml"
)

var (
	presetNameRe   = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	presetFlightRe = regexp.MustCompile(`^([A-Za-z0-9]{2})\s*(\d{1,4}[A-Za-z]?)$`)
)

// Preset is a bundled trip: a Markdown itinerary, whose front matter may
// carry the headline and the weather places and flights to track, and a
// KML map.
type Preset struct {
	Name     string
	Markdown string
	KML      []byte
	Front    decode.Frontmatter
}

// LoadPreset reads the preset directory name from fsys. Either file may be
// missing but not both.
func LoadPreset(fsys fs.FS, name string) (Preset, error) {
	if !presetNameRe.MatchString(name) {
		return Preset{}, fmt.Errorf("%w: invalid preset name %q", domain.ErrValidation, name)
	}
	p := Preset{Name: name}

	md, mdErr := fs.ReadFile(fsys, path.Join(name, PresetItineraryFile))
	if mdErr != nil && !errors.Is(mdErr, fs.ErrNotExist) {
		return Preset{}, fmt.Errorf("service.LoadPreset: %w", mdErr)
	}
	kml, kmlErr := fs.ReadFile(fsys, path.Join(name, PresetMapFile))
	if kmlErr != nil && !errors.Is(kmlErr, fs.ErrNotExist) {
		return Preset{}, fmt.Errorf("service.LoadPreset: %w", kmlErr)
	}
	if mdErr != nil && kmlErr != nil {
		return Preset{}, fmt.Errorf("service.LoadPreset: %w: preset %q", domain.ErrNotFound, name)
	}

	p.Markdown = string(md)
	p.KML = kml
	if p.Markdown != "" {
		it, err := decode.ParseItinerary(p.Markdown)
		if err != nil {
			return Preset{}, fmt.Errorf("service.LoadPreset: %w", err)
		}
		p.Front = it.Front
	}
	return p, nil
}

// ListPresets returns the names of the preset directories in fsys.
func ListPresets(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("service.ListPresets: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() && presetNameRe.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// PresetStep is the outcome of one preset command.
type PresetStep struct {
	Command string `json:"command"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PresetReport lists the steps run by Apply, in order.
type PresetReport struct {
	Preset string       `json:"preset"`
	Steps  []PresetStep `json:"steps"`
}

// Failed reports whether any step failed.
func (r PresetReport) Failed() bool {
	for _, s := range r.Steps {
		if s.Error != "" {
			return true
		}
	}
	return false
}

type presetCommand struct {
	name string
	run  func(ctx context.Context, p Preset) (string, error)
}

// PresetService applies bundled presets to the board.
type PresetService struct {
	fsys      fs.FS
	trip      *TripService
	itinerary *ItineraryService
	maps      *MapService
	weather   *WeatherService
	flights   *FlightService
	logger    *slog.Logger
}

func NewPresetService(fsys fs.FS, trip *TripService, itinerary *ItineraryService, maps *MapService, weather *WeatherService, flights *FlightService, logger *slog.Logger) *PresetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PresetService{
		fsys:      fsys,
		trip:      trip,
		itinerary: itinerary,
		maps:      maps,
		weather:   weather,
		flights:   flights,
		logger:    logger,
	}
}

// List returns the available preset names.
func (s *PresetService) List(ctx context.Context) ([]string, error) {
	return ListPresets(s.fsys)
}

// Apply loads a preset and runs its commands in order: header, itinerary,
// map, weather, flights. A failing command is logged and reported; the
// remaining commands still run. Returns domain.ErrNotFound when the preset
// does not exist.
func (s *PresetService) Apply(ctx context.Context, name string) (PresetReport, error) {
	p, err := LoadPreset(s.fsys, name)
	if err != nil {
		return PresetReport{}, fmt.Errorf("service.PresetService.Apply: %w", err)
	}

	report := PresetReport{Preset: name, Steps: []PresetStep{}}
	for _, cmd := range s.commands() {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("service.PresetService.Apply: %w", err)
		}
		detail, err := cmd.run(ctx, p)
		step := PresetStep{Command: cmd.name, Detail: detail}
		if err != nil {
			s.logger.WarnContext(ctx, "preset step failed", "preset", name, "command", cmd.name, "error", err)
			step.Error = err.Error()
		}
		report.Steps = append(report.Steps, step)
	}
	s.logger.InfoContext(ctx, "preset applied", "preset", name, "failed", report.Failed())
	return report, nil
}

func (s *PresetService) commands() []presetCommand {
	return []presetCommand{
		{name: "header", run: s.applyHeader},
		{name: "itinerary", run: s.applyItinerary},
		{name: "map", run: s.applyMap},
		{name: "weather", run: s.applyWeather},
		{name: "flights", run: s.applyFlights},
	}
}

func (s *PresetService) applyHeader(ctx context.Context, p Preset) (string, error) {
	h := domain.TripHeader{Headline: p.Front.Headline, Subheadline: p.Front.Subheadline}
	if strings.TrimSpace(h.Headline+h.Subheadline) == "" {
		return "no headline", nil
	}
	got, err := s.trip.SetHeader(ctx, h)
	if err != nil {
		return "", err
	}
	return got.Headline, nil
}

func (s *PresetService) applyItinerary(ctx context.Context, p Preset) (string, error) {
	res, err := s.itinerary.ImportPreset(ctx, p)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d stops added, %d skipped", res.Added, res.Skipped), nil
}

func (s *PresetService) applyMap(ctx context.Context, p Preset) (string, error) {
	if len(p.KML) == 0 {
		return "no map", nil
	}
	fc, err := s.maps.ImportKML(ctx, p.KML, true)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d features", len(fc.Features)), nil
}

func (s *PresetService) applyWeather(ctx context.Context, p Preset) (string, error) {
	added := 0
	var errs []error
	for _, place := range p.Front.Weather {
		ok, err := s.weather.Ensure(ctx, place)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", place, err))
			continue
		}
		if ok {
			added++
		}
	}
	return fmt.Sprintf("%d places added", added), errors.Join(errs...)
}

func (s *PresetService) applyFlights(ctx context.Context, p Preset) (string, error) {
	added := 0
	var errs []error
	for _, code := range p.Front.Flights {
		m := presetFlightRe.FindStringSubmatch(strings.TrimSpace(code))
		if m == nil {
			errs = append(errs, fmt.Errorf("%w: bad flight code %q", domain.ErrValidation, code))
			continue
		}
		res, err := s.flights.Lookup(ctx, m[1], m[2])
		if errors.Is(err, domain.ErrNotConfigured) {
			return fmt.Sprintf("%d flights added", added), err
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", code, err))
			continue
		}
		added += len(res.Added)
	}
	return fmt.Sprintf("%d flights added", added), errors.Join(errs...)
}
