package domain

import "strings"

// UnscheduledDay is the label used when grouping stops that have no day label.
const UnscheduledDay = "Unscheduled"

// Stop is a single itinerary entry. Date holds the day label, which is free
// text such as "Arrival" or "Day 2".
type Stop struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// Day is a group of stops sharing the same day label, in first-seen order.
type Day struct {
	Label string `json:"label"`
	Stops []Stop `json:"stops"`
}

// GroupByDay groups stops by their day label, preserving the order in which
// each label first appears. Stops with a blank label go to UnscheduledDay.
func GroupByDay(stops []Stop) []Day {
	days := []Day{}
	index := map[string]int{}
	for _, s := range stops {
		label := strings.TrimSpace(s.Date)
		if label == "" {
			label = UnscheduledDay
		}
		i, ok := index[label]
		if !ok {
			i = len(days)
			index[label] = i
			days = append(days, Day{Label: label})
		}
		days[i].Stops = append(days[i].Stops, s)
	}
	return days
}
