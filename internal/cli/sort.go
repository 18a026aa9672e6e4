package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/belle-events/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByTitle SortOrder = "title"
	SortByVenue SortOrder = "venue"
	SortByGenre SortOrder = "genre"
)

func (o SortOrder) valid() bool {
	switch o {
	case SortByDate, SortByTitle, SortByVenue, SortByGenre:
		return true
	}
	return false
}

// sortEvents sorts a slice of events based on the specified sort order.
// Ties keep their existing order.
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		event.SortByDate(events)
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			ti, tj := strings.ToLower(events[i].Title), strings.ToLower(events[j].Title)
			if ti != tj {
				return ti < tj
			}
			return compareByDate(events[i], events[j])
		})
	case SortByVenue:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByField(events[i].Venue, events[j].Venue, events[i], events[j])
		})
	case SortByGenre:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByField(events[i].Genre, events[j].Genre, events[i], events[j])
		})
	}
}

// compareByField orders by a classification, unclassified last, then by date.
func compareByField(a, b string, i, j *event.Event) bool {
	if a != b {
		if a == "" || b == "" {
			return b == ""
		}
		return a < b
	}
	return compareByDate(i, j)
}

// compareByDate compares two events by their date
// Returns true if event i should come before event j
func compareByDate(i, j *event.Event) bool {
	dateI := i.ParsedDate()
	dateJ := j.ParsedDate()

	// If both dates are valid, compare them
	if !dateI.IsZero() && !dateJ.IsZero() {
		return dateI.Before(dateJ)
	}

	// If only one date is valid, put the valid one first
	if !dateI.IsZero() {
		return true
	}
	if !dateJ.IsZero() {
		return false
	}

	return strings.ToLower(i.Title) < strings.ToLower(j.Title)
}
