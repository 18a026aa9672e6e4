package filter_test

import (
	"testing"
	"time"

	"github.com/pfrederiksen/belle-events/internal/event"
	"github.com/pfrederiksen/belle-events/internal/filter"
)

// TestIntegration demonstrates the full filter workflow
func TestIntegration(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	events := []*event.Event{
		{ID: "17.10.25-3", Title: "Ibeyi", Date: "17.10.25", Genre: "Soul", Venue: "Grande Salle", EventType: "Concert", IsSoldOut: true},
		{ID: "22.10.25-0", Title: "The Hives", Date: "22.10.25", Genre: "Rock", Venue: "Grande Salle", EventType: "Concert"},
		{ID: "25.10.25-5", Title: "Shame + Guest", Date: "25.10.25", Genre: "Rock", Venue: "Bar", EventType: "Concert"},
		{ID: "31.10.25-2", Title: "Dressing Club Halloween", Date: "31.10.25", StartDate: "31.10.25", EndDate: "01.11.25", Genre: "Techno", Venue: "Bar", EventType: "Dressing Club"},
		{ID: "05.12.25-4", Title: "Projection : Sound of Grenoble", Date: "05.12.25", Venue: "Le Labo de La Belle", EventType: "Projection"},
	}

	// Step 1: the date range a user typed
	from, to, err := filter.ParseDateRangeAt("20-31 octobre", now)
	if err != nil {
		t.Fatalf("Failed to parse date range: %v", err)
	}

	// Step 2: build the filter
	f := filter.NewFilter()
	f.DateFrom = from
	f.DateTo = to
	f.Genre = "Rock"

	if f.IsEmpty() {
		t.Error("Filter should not be empty")
	}

	// Step 3: apply
	filtered := f.Apply(events)
	if len(filtered) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(filtered))
	}
	if filtered[0].Title != "The Hives" || filtered[1].Title != "Shame + Guest" {
		t.Errorf("Unexpected events: %s, %s", filtered[0].Title, filtered[1].Title)
	}

	// Step 4: narrow to weekends (25.10.25 is a Saturday)
	weekend := f.Clone()
	weekend.WeekendsOnly = true
	if got := weekend.Apply(events); len(got) != 1 || got[0].ID != "25.10.25-5" {
		t.Errorf("Expected only the Saturday show, got %v", got)
	}
	if f.WeekendsOnly {
		t.Error("Clone should not modify the original")
	}

	// Step 5: facets and stats over the full set
	facets := filter.Facets(events)
	if len(facets.Venues) != 3 {
		t.Errorf("Expected 3 venues, got %v", facets.Venues)
	}

	stats := filter.ComputeStats(events, now)
	if stats.Upcoming != 5 || stats.SoldOut != 1 || stats.TopVenue != "Grande Salle" || stats.TopGenre != "Rock" {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	// Step 6: next highlights
	highlights := filter.Upcoming(events, 3, now)
	if len(highlights) != 3 || highlights[0].ID != "17.10.25-3" {
		t.Errorf("Unexpected highlights: %v", highlights)
	}
}

func TestEmptyFilterBehavior(t *testing.T) {
	events := []*event.Event{
		{ID: "1", Title: "Event 1", Date: "17.10.25"},
		{ID: "2", Title: "Event 2", Date: "bientôt"},
	}

	f := filter.NewFilter()

	if !f.IsEmpty() {
		t.Error("New filter should be empty")
	}

	filtered := f.Apply(events)
	if len(filtered) != len(events) {
		t.Errorf("Empty filter should return all events, got %d", len(filtered))
	}

	if f.String() != "No active filters" {
		t.Errorf("Expected 'No active filters', got %q", f.String())
	}
}
