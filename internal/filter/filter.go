// Package filter narrows, summarizes and highlights extracted events.
//
// It carries the listing's search and filter logic server-side so the HTTP
// API and the CLI agree on what a given query returns:
//   - Title search (case-insensitive substring)
//   - Genre, venue and event type (exact match)
//   - Date ranges (from/to dates, inclusive)
//   - Hide sold-out events
//   - Weekends only (Saturday/Sunday)
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Genre = "Rock"
//	f.HideSoldOut = true
//
//	filtered := f.Apply(events)
//	stats := filter.ComputeStats(filtered, time.Now())
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/belle-events/internal/event"
)

// Filter represents event filtering criteria
type Filter struct {
	// Title search (case-insensitive substring match)
	Search string `json:"search,omitempty"`

	// Exact classification matches
	Genre     string `json:"genre,omitempty"`
	Venue     string `json:"venue,omitempty"`
	EventType string `json:"event_type,omitempty"`

	// Date range filtering
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	HideSoldOut bool `json:"hide_sold_out,omitempty"`

	// Weekend-only filtering (Saturday/Sunday)
	WeekendsOnly bool `json:"weekends_only,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all events until criteria are added.
func NewFilter() *Filter {
	return &Filter{}
}

// IsEmpty checks if the filter has any active criteria.
// Returns true if the filter would match all events.
func (f *Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Search) == "" &&
		f.Genre == "" &&
		f.Venue == "" &&
		f.EventType == "" &&
		f.DateFrom == nil &&
		f.DateTo == nil &&
		!f.HideSoldOut &&
		!f.WeekendsOnly
}

// Matches checks if an event matches all active filter criteria.
// An empty filter matches all events.
//
// Events whose date cannot be parsed are not excluded by date criteria.
func (f *Filter) Matches(evt *event.Event) bool {
	if f.IsEmpty() {
		return true
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		if !strings.Contains(strings.ToLower(evt.Title), strings.ToLower(search)) {
			return false
		}
	}

	if f.Genre != "" && evt.Genre != f.Genre {
		return false
	}
	if f.Venue != "" && evt.Venue != f.Venue {
		return false
	}
	if f.EventType != "" && evt.EventType != f.EventType {
		return false
	}

	if f.HideSoldOut && evt.IsSoldOut {
		return false
	}

	eventDate := evt.ParsedDate()
	if eventDate.IsZero() {
		return true
	}

	if f.DateFrom != nil && eventDate.Before(startOfDay(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && eventDate.After(*f.DateTo) {
		return false
	}

	if f.WeekendsOnly {
		weekday := eventDate.Weekday()
		if weekday != time.Saturday && weekday != time.Sunday {
			return false
		}
	}

	return true
}

// Apply returns the events matching the filter, keeping their order.
// The result is never nil.
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	filtered := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Returns "No active filters" if the filter is empty.
// Format: "Search: hives | Genre: Rock | From: 17.10.25 | Hide sold out"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if s := strings.TrimSpace(f.Search); s != "" {
		parts = append(parts, fmt.Sprintf("Search: %s", s))
	}
	if f.Genre != "" {
		parts = append(parts, fmt.Sprintf("Genre: %s", f.Genre))
	}
	if f.Venue != "" {
		parts = append(parts, fmt.Sprintf("Venue: %s", f.Venue))
	}
	if f.EventType != "" {
		parts = append(parts, fmt.Sprintf("Type: %s", f.EventType))
	}
	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("02.01.06")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("02.01.06")))
	}
	if f.HideSoldOut {
		parts = append(parts, "Hide sold out")
	}
	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
func (f *Filter) Clone() *Filter {
	clone := *f

	if f.DateFrom != nil {
		df := *f.DateFrom
		clone.DateFrom = &df
	}
	if f.DateTo != nil {
		dt := *f.DateTo
		clone.DateTo = &dt
	}

	return &clone
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
