package decode

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/pkordes/tripboard/internal/domain"
)

// Itinerary is a decoded Markdown itinerary document.
type Itinerary struct {
	Front Frontmatter
	Days  []ItineraryDay
}

// Frontmatter is the optional YAML header of an itinerary document.
type Frontmatter struct {
	Headline    string   `yaml:"headline"`
	Subheadline string   `yaml:"subheadline"`
	Weather     []string `yaml:"weather"`
	Flights     []string `yaml:"flights"`
}

// ItineraryDay is one "## Day N:" section.
type ItineraryDay struct {
	Label   string
	Entries []ItineraryEntry
}

// ItineraryEntry is one top-level list item and its nested notes.
type ItineraryEntry struct {
	Location string
	Notes    string
}

var (
	dayHeaderRe  = regexp.MustCompile(`(?mi)^##[ \t]*Day[ \t]+(\d+)[ \t]*:(.*)$`)
	topItemRe    = regexp.MustCompile(`^[-*+][ \t]+(.+)$`)
	nestedItemRe = regexp.MustCompile(`^[ \t]+[-*+][ \t]+(.+)$`)
)

var inlineMarkdown = goldmark.New()

// ParseItinerary decodes an itinerary document.
//
// The body is split on "## Day N:" headers; text before the first header
// is ignored. The rest of the header line, with emphasis removed, is the
// day label ("Day N" when blank). Each top-level list line starts an entry.
// An indented list line directly below becomes a note of the latest entry
// in the same section; several notes are joined with newlines. Nested
// lines that appear before any entry in their section are dropped.
func ParseItinerary(doc string) (Itinerary, error) {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	front, body, err := splitFrontmatter(doc)
	if err != nil {
		return Itinerary{}, err
	}

	it := Itinerary{Front: front}
	headers := dayHeaderRe.FindAllStringSubmatchIndex(body, -1)
	for i, h := range headers {
		end := len(body)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		label := PlainText(body[h[4]:h[5]])
		if label == "" {
			label = "Day " + body[h[2]:h[3]]
		}
		it.Days = append(it.Days, ItineraryDay{
			Label:   label,
			Entries: parseSection(body[h[1]:end]),
		})
	}
	return it, nil
}

func parseSection(section string) []ItineraryEntry {
	var entries []ItineraryEntry
	var notes [][]string
	for _, line := range strings.Split(section, "\n") {
		if m := topItemRe.FindStringSubmatch(line); m != nil {
			if loc := PlainText(m[1]); loc != "" {
				entries = append(entries, ItineraryEntry{Location: loc})
				notes = append(notes, nil)
			}
			continue
		}
		if m := nestedItemRe.FindStringSubmatch(line); m != nil && len(entries) > 0 {
			if note := PlainText(m[1]); note != "" {
				notes[len(notes)-1] = append(notes[len(notes)-1], note)
			}
		}
	}
	for i := range entries {
		entries[i].Notes = strings.Join(notes[i], "\n")
	}
	return entries
}

// Head returns the first n lines of the document body, front matter
// excluded.
func Head(doc string, n int) string {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	if _, body, err := splitFrontmatter(doc); err == nil {
		doc = body
	}
	lines := strings.Split(strings.TrimLeft(doc, "\n"), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func splitFrontmatter(doc string) (Frontmatter, string, error) {
	var fm Frontmatter
	if !strings.HasPrefix(doc, "---\n") {
		return fm, doc, nil
	}
	rest := doc[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return fm, doc, nil
	}
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return Frontmatter{}, "", fmt.Errorf("decode.ParseItinerary: %w: front matter: %v", domain.ErrImport, err)
	}
	body := rest[end+len("\n---"):]
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}
	return fm, body, nil
}

// PlainText renders one line of inline Markdown as plain text: emphasis,
// code spans and links are reduced to their text.
func PlainText(s string) string {
	src := []byte(strings.TrimSpace(s))
	if len(src) == 0 {
		return ""
	}
	doc := inlineMarkdown.Parser().Parse(text.NewReader(src))
	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
