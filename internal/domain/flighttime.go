package domain

import (
	"time"
	_ "time/tzdata"
)

var flightTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseFlightTime parses a provider timestamp. Values without an offset are
// taken to be local to tz; an unknown or empty tz means UTC.
func ParseFlightTime(value, tz string) (time.Time, bool) {
	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}
	for _, layout := range flightTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatFlightTime renders a timestamp as "dd/mm, HH:MM" in the zone tz.
// Unparseable values are returned unchanged and empty ones as "-".
func FormatFlightTime(value, tz string) string {
	if value == "" {
		return "-"
	}
	t, ok := ParseFlightTime(value, tz)
	if !ok {
		return value
	}
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			t = t.In(loc)
		}
	}
	return t.Format("02/01, 15:04")
}

// LocalDepart is the departure time in the departure airport's zone.
func (f Flight) LocalDepart() string {
	return FormatFlightTime(f.Depart, f.DepartTZ)
}

// LocalArrive is the arrival time in the arrival airport's zone.
func (f Flight) LocalArrive() string {
	return FormatFlightTime(f.Arrive, f.ArriveTZ)
}
