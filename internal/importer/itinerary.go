package importer

import (
	"fmt"
	"strings"

	"github.com/pkordes/tripboard/internal/decode"
	"github.com/pkordes/tripboard/internal/domain"
)

// summaryLines is how many lines of a Markdown document are attached to
// the first stop when the itinerary itself comes from KML.
const summaryLines = 6

// StopsFromMarkdown builds one Stop per itinerary entry.
func StopsFromMarkdown(doc string) ([]domain.Stop, decode.Frontmatter, error) {
	it, err := decode.ParseItinerary(doc)
	if err != nil {
		return nil, decode.Frontmatter{}, fmt.Errorf("importer.StopsFromMarkdown: %w", err)
	}
	var stops []domain.Stop
	for _, day := range it.Days {
		for _, e := range day.Entries {
			stops = append(stops, domain.Stop{
				ID:       domain.NewID(),
				Date:     day.Label,
				Location: e.Location,
				Notes:    e.Notes,
			})
		}
	}
	return stops, it.Front, nil
}

// StopsFromKML builds one Stop per placemark, using the folder name as the
// day label. Returns domain.ErrImport when the document has no placemarks.
func StopsFromKML(data []byte) ([]domain.Stop, error) {
	doc, err := decode.ParseKML(data)
	if err != nil {
		return nil, fmt.Errorf("importer.StopsFromKML: %w", err)
	}
	var stops []domain.Stop
	for _, f := range doc.Folders() {
		for _, pm := range f.Placemarks {
			stops = append(stops, domain.Stop{
				ID:       domain.NewID(),
				Date:     f.Name,
				Location: pm.Name,
				Notes:    pm.Description,
			})
		}
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("importer.StopsFromKML: %w: no placemarks found in KML", domain.ErrImport)
	}
	return stops, nil
}

// AttachSummary prepends the head of a Markdown document to the notes of
// the first stop. Used when a preset's days come from KML but its
// description lives in Markdown.
func AttachSummary(stops []domain.Stop, markdown string) []domain.Stop {
	summary := decode.Head(markdown, summaryLines)
	if len(stops) == 0 || summary == "" {
		return stops
	}
	out := append([]domain.Stop(nil), stops...)
	out[0].Notes = strings.TrimSpace(out[0].Notes + "\n\n" + summary)
	return out
}
