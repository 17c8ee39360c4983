package extract

import (
	"regexp"
	"strings"
)

// DefaultProvider is the booking provider whose marker starts the snippet.
const DefaultProvider = "Booking.com"

const snippetSeparator = " • "

var confirmationLineRe = regexp.MustCompile(`(?i)Confirmation`)

// Confirmation builds a short note from the lines following the provider
// marker: the first "Confirmation" line and the two after it, or the first
// three lines when there is none. Returns false when the marker is absent.
func Confirmation(text, provider string) (string, bool) {
	if provider == "" {
		provider = DefaultProvider
	}
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(provider))
	if err != nil {
		return "", false
	}
	loc := re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	lines := nonEmptyLines(text[loc[0]:])
	if len(lines) == 0 {
		return "", false
	}
	start := 0
	for i, l := range lines {
		if confirmationLineRe.MatchString(l) {
			start = i
			break
		}
	}
	end := min(start+3, len(lines))
	return strings.Join(lines[start:end], snippetSeparator), true
}
