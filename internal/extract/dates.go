package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	checkInRe  = regexp.MustCompile(`(?i)Check[- ]?in[^\n\r]*?(\d{1,2})\s+(\p{L}+)\s+(\d{4})`)
	checkOutRe = regexp.MustCompile(`(?i)Check[- ]?out[^\n\r]*?(\d{1,2})\s+(\p{L}+)\s+(\d{4})`)
)

// Dates holds the check-in and check-out dates found in a text, as ISO
// calendar dates. Either may be empty when absent or invalid.
type Dates struct {
	CheckIn  string
	CheckOut string
}

// DateRange finds "Check-in ... 23 June 2026" and "Check-out ... 25 June 2026"
// phrases and converts each side independently to YYYY-MM-DD.
// The conversion does not depend on the process locale or time zone.
func DateRange(text string) Dates {
	return Dates{
		CheckIn:  matchDate(checkInRe, text),
		CheckOut: matchDate(checkOutRe, text),
	}
}

func matchDate(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	iso, ok := ISODate(m[1], m[2], m[3])
	if !ok {
		return ""
	}
	return iso
}

// ISODate converts day, month name and year parts to YYYY-MM-DD.
// It rejects unknown month names and dates that do not exist on the calendar.
func ISODate(day, month, year string) (string, bool) {
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", false
	}
	m := monthFromName(month)
	if m == 0 {
		return "", false
	}
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != m {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d), true
}

var monthPrefixes = []struct {
	prefix string
	month  time.Month
}{
	{"jan", time.January}, {"feb", time.February}, {"mar", time.March},
	{"apr", time.April}, {"may", time.May}, {"jun", time.June},
	{"jul", time.July}, {"aug", time.August}, {"sep", time.September},
	{"oct", time.October}, {"nov", time.November}, {"dec", time.December},
}

// monthFromName accepts full English month names and their three-letter
// abbreviations ("Sept" included). Returns 0 when unknown.
func monthFromName(name string) time.Month {
	name = strings.ToLower(name)
	if len(name) < 3 {
		return 0
	}
	for _, p := range monthPrefixes {
		if strings.HasPrefix(name, p.prefix) {
			return p.month
		}
	}
	return 0
}
