package extract

import (
	"regexp"
	"strings"
)

var (
	replyToRe            = regexp.MustCompile(`(?i)Reply-To:\s*"([^"]+)"`)
	hotelWordsRe         = regexp.MustCompile(`(?i)Hotel[ \t]+[A-Z0-9\w \t',\-]{3,80}`)
	reservationDetailsRe = regexp.MustCompile(`(?i)Reservation details[\s\S]{0,120}?\n\s*(.+)`)
)

// HotelNameStrategies is the fallback order for the property name.
var HotelNameStrategies = Chain[string]{
	{Name: "reply-to", Find: nameFromReplyTo},
	{Name: "hotel-words", Find: nameFromHotelWords},
	{Name: "reservation-details", Find: nameAfterReservationDetails},
}

// HotelName returns the property name. raw is the undecoded message, used
// for the Reply-To display name; text is the decoded body.
func HotelName(raw, text string) (string, bool) {
	v, _, ok := HotelNameStrategies.First(Input{Raw: raw, Text: text})
	return v, ok
}

func nameFromReplyTo(in Input) (string, bool) {
	m := replyToRe.FindStringSubmatch(in.Raw)
	if m == nil {
		return "", false
	}
	return nonBlank(m[1])
}

func nameFromHotelWords(in Input) (string, bool) {
	return nonBlank(hotelWordsRe.FindString(in.Text))
}

func nameAfterReservationDetails(in Input) (string, bool) {
	m := reservationDetailsRe.FindStringSubmatch(in.Text)
	if m == nil {
		return "", false
	}
	return nonBlank(m[1])
}

func nonBlank(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
