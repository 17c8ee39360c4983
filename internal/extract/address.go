package extract

import (
	"regexp"
	"strings"
)

var (
	locationHeadingRe = regexp.MustCompile(`(?i)\bLocation\b`)
	streetRe          = regexp.MustCompile(`\d{1,4}[^\n\r]{5,100},\s*[^\n\r]{2,60}`)
)

// AddressStrategies is the fallback order for street addresses.
var AddressStrategies = Chain[string]{
	{Name: "location-heading", Find: addressAfterLocationHeading},
	{Name: "street-pattern", Find: addressFromStreetPattern},
}

// Address returns the street address of the property, if any.
func Address(text string) (string, bool) {
	v, _, ok := AddressStrategies.First(Input{Text: text})
	return v, ok
}

// addressAfterLocationHeading takes the second non-empty line starting at
// the "Location" heading; the first is the heading line itself.
func addressAfterLocationHeading(in Input) (string, bool) {
	loc := locationHeadingRe.FindStringIndex(in.Text)
	if loc == nil {
		return "", false
	}
	lines := nonEmptyLines(in.Text[loc[0]:])
	if len(lines) < 2 {
		return "", false
	}
	return lines[1], true
}

func addressFromStreetPattern(in Input) (string, bool) {
	m := streetRe.FindString(in.Text)
	if m == "" {
		return "", false
	}
	return strings.TrimSpace(m), true
}
