package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/repo"
)

// Export row sections, in output order.
const (
	SectionStay    = "stay"
	SectionStop    = "stop"
	SectionFlight  = "flight"
	SectionWeather = "weather"
	SectionBudget  = "budget"
	SectionTotal   = "total"
)

// ExportSources are the collections included in an export.
type ExportSources struct {
	Stays   repo.Document[[]domain.Stay]
	Stops   repo.Document[[]domain.Stop]
	Flights repo.Document[[]domain.Flight]
	Weather repo.Document[[]domain.WeatherPlace]
	Budget  repo.Document[[]domain.BudgetItem]
}

// ExportService flattens the whole board into one table.
type ExportService struct {
	src ExportSources
}

func NewExportService(src ExportSources) *ExportService {
	return &ExportService{src: src}
}

// Export returns one row per record: stays, stops, flights, weather places
// and budget lines, followed by a single budget total row. Flight times
// are rendered in each airport's own zone.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	stays, err := s.src.Stays.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	stops, err := s.src.Stops.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	flights, err := s.src.Flights.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	places, err := s.src.Weather.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	items, err := s.src.Budget.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(stays)+len(stops)+len(flights)+len(places)+len(items)+1)
	for _, st := range stays {
		rows = append(rows, domain.ExportRow{
			Section: SectionStay,
			Title:   st.Name,
			Detail:  st.Address,
			Start:   st.CheckIn,
			End:     st.CheckOut,
		})
	}
	for _, day := range domain.GroupByDay(stops) {
		for _, st := range day.Stops {
			rows = append(rows, domain.ExportRow{
				Section: SectionStop,
				Day:     day.Label,
				Title:   st.Location,
				Detail:  st.Notes,
			})
		}
	}
	for _, f := range flights {
		rows = append(rows, domain.ExportRow{
			Section: SectionFlight,
			Title:   f.Airline + " " + f.FlightNumber,
			Detail:  f.From + " -> " + f.To,
			Start:   f.LocalDepart(),
			End:     f.LocalArrive(),
		})
	}
	for _, p := range places {
		rows = append(rows, weatherRow(p))
	}
	for _, it := range items {
		rows = append(rows, domain.ExportRow{
			Section: SectionBudget,
			Title:   it.Desc,
			Amount:  it.Amount.StringFixed(2),
		})
	}
	rows = append(rows, domain.ExportRow{
		Section: SectionTotal,
		Title:   "Total",
		Amount:  domain.BudgetTotal(items).StringFixed(2),
	})
	return rows, nil
}

func weatherRow(p domain.WeatherPlace) domain.ExportRow {
	row := domain.ExportRow{Section: SectionWeather, Title: p.Name, Detail: p.Error}
	if p.Error != "" {
		return row
	}
	row.Detail = strconv.FormatFloat(p.Lat, 'f', 4, 64) + "," + strconv.FormatFloat(p.Lon, 'f', 4, 64)
	if d := p.Daily; d != nil && len(d.Time) > 0 {
		row.Start = d.Time[0]
		row.End = d.Time[len(d.Time)-1]
	}
	return row
}
