package filter

import (
	"sort"
	"time"

	"github.com/pfrederiksen/belle-events/internal/event"
)

// NotAvailable is reported when no event carries a venue or genre.
const NotAvailable = "N/A"

// FacetSet lists the distinct values the listing can be filtered on.
type FacetSet struct {
	Genres     []string `json:"genres"`
	Venues     []string `json:"venues"`
	EventTypes []string `json:"eventTypes"`
}

// Stats summarizes a set of events relative to a point in time.
type Stats struct {
	Total         int    `json:"total"`
	Upcoming      int    `json:"upcoming"`
	ThisMonth     int    `json:"thisMonth"`
	NextSevenDays int    `json:"nextSevenDays"`
	SoldOut       int    `json:"soldOut"`
	TopVenue      string `json:"topVenue"`
	TopGenre      string `json:"topGenre"`
}

// Facets returns the sorted distinct non-empty genres, venues and event types.
func Facets(events []*event.Event) FacetSet {
	genres := make(map[string]bool)
	venues := make(map[string]bool)
	types := make(map[string]bool)

	for _, evt := range events {
		if evt.Genre != "" {
			genres[evt.Genre] = true
		}
		if evt.Venue != "" {
			venues[evt.Venue] = true
		}
		if evt.EventType != "" {
			types[evt.EventType] = true
		}
	}

	return FacetSet{
		Genres:     sortedKeys(genres),
		Venues:     sortedKeys(venues),
		EventTypes: sortedKeys(types),
	}
}

// ComputeStats counts events by time window and finds the busiest venue and
// most frequent genre. Ties go to the value seen first.
func ComputeStats(events []*event.Event, now time.Time) Stats {
	stats := Stats{Total: len(events)}

	venueCounts := make(map[string]int)
	genreCounts := make(map[string]int)
	var venueOrder, genreOrder []string

	for _, evt := range events {
		if evt.IsUpcomingAt(now) && !evt.ParsedDate().IsZero() {
			stats.Upcoming++
		}
		if d := evt.ParsedDate(); !d.IsZero() && d.Year() == now.Year() && d.Month() == now.Month() {
			stats.ThisMonth++
		}
		if !evt.ParsedDate().IsZero() && evt.IsWithinDays(7, now) {
			stats.NextSevenDays++
		}
		if evt.IsSoldOut {
			stats.SoldOut++
		}

		if evt.Venue != "" {
			if venueCounts[evt.Venue] == 0 {
				venueOrder = append(venueOrder, evt.Venue)
			}
			venueCounts[evt.Venue]++
		}
		if evt.Genre != "" {
			if genreCounts[evt.Genre] == 0 {
				genreOrder = append(genreOrder, evt.Genre)
			}
			genreCounts[evt.Genre]++
		}
	}

	stats.TopVenue = mostFrequent(venueOrder, venueCounts)
	stats.TopGenre = mostFrequent(genreOrder, genreCounts)

	return stats
}

// Upcoming returns the first n events dated today or later, in input order.
// n <= 0 returns all of them.
func Upcoming(events []*event.Event, n int, now time.Time) []*event.Event {
	out := make([]*event.Event, 0)
	for _, evt := range events {
		if evt.ParsedDate().IsZero() || !evt.IsUpcomingAt(now) {
			continue
		}
		out = append(out, evt)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}

func mostFrequent(order []string, counts map[string]int) string {
	best := NotAvailable
	bestCount := 0
	for _, v := range order {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
