package filter

import (
	"testing"
	"time"

	"github.com/pfrederiksen/belle-events/internal/event"
)

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{
			name:   "empty filter",
			filter: NewFilter(),
			want:   true,
		},
		{
			name:   "blank search",
			filter: &Filter{Search: "   "},
			want:   true,
		},
		{
			name:   "filter with date from",
			filter: &Filter{DateFrom: timePtr(time.Now())},
			want:   false,
		},
		{
			name:   "filter with weekends only",
			filter: &Filter{WeekendsOnly: true},
			want:   false,
		},
		{
			name:   "filter with genre",
			filter: &Filter{Genre: "Rock"},
			want:   false,
		},
		{
			name:   "filter hiding sold out",
			filter: &Filter{HideSoldOut: true},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("Filter.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	oct1 := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	oct20 := time.Date(2025, 10, 20, 23, 59, 59, 0, time.UTC)

	hives := &event.Event{
		Title:     "The Hives",
		Date:      "22.10.25", // Wednesday
		Genre:     "Rock",
		Venue:     "Grande Salle",
		EventType: "Concert",
	}
	club := &event.Event{
		Title:     "Dressing Club Halloween",
		Date:      "01.11.25", // Saturday
		Genre:     "Techno",
		Venue:     "Bar",
		EventType: "Dressing Club",
		IsSoldOut: true,
	}

	tests := []struct {
		name   string
		filter *Filter
		event  *event.Event
		want   bool
	}{
		{
			name:   "empty filter matches all",
			filter: NewFilter(),
			event:  hives,
			want:   true,
		},
		{
			name:   "search is case-insensitive",
			filter: &Filter{Search: "hIVES"},
			event:  hives,
			want:   true,
		},
		{
			name:   "search does not match",
			filter: &Filter{Search: "ibeyi"},
			event:  hives,
			want:   false,
		},
		{
			name:   "genre exact match",
			filter: &Filter{Genre: "Rock"},
			event:  hives,
			want:   true,
		},
		{
			name:   "genre is not a substring match",
			filter: &Filter{Genre: "Roc"},
			event:  hives,
			want:   false,
		},
		{
			name:   "venue does not match",
			filter: &Filter{Venue: "Bar"},
			event:  hives,
			want:   false,
		},
		{
			name:   "event type matches",
			filter: &Filter{EventType: "Dressing Club"},
			event:  club,
			want:   true,
		},
		{
			name:   "sold out hidden",
			filter: &Filter{HideSoldOut: true},
			event:  club,
			want:   false,
		},
		{
			name:   "available kept when hiding sold out",
			filter: &Filter{HideSoldOut: true},
			event:  hives,
			want:   true,
		},
		{
			name:   "date range filter matches",
			filter: &Filter{DateFrom: &oct1, DateTo: timePtr(time.Date(2025, 10, 31, 23, 59, 59, 0, time.UTC))},
			event:  hives,
			want:   true,
		},
		{
			name:   "date range filter does not match (after)",
			filter: &Filter{DateFrom: &oct1, DateTo: &oct20},
			event:  hives,
			want:   false,
		},
		{
			name:   "date from later in the same day still matches",
			filter: &Filter{DateFrom: timePtr(time.Date(2025, 10, 22, 18, 0, 0, 0, time.UTC))},
			event:  hives,
			want:   true,
		},
		{
			name:   "weekends only rejects a weekday",
			filter: &Filter{WeekendsOnly: true},
			event:  hives,
			want:   false,
		},
		{
			name:   "weekends only keeps a saturday",
			filter: &Filter{WeekendsOnly: true},
			event:  club,
			want:   true,
		},
		{
			name:   "unparseable date is not excluded by date criteria",
			filter: &Filter{DateFrom: &oct1, WeekendsOnly: true},
			event:  &event.Event{Title: "TBA", Date: "bientôt"},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.event); got != tt.want {
				t.Errorf("Filter.Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	events := []*event.Event{
		{ID: "1", Title: "Ibeyi", Date: "17.10.25", Genre: "Soul", IsSoldOut: true},
		{ID: "2", Title: "The Hives", Date: "22.10.25", Genre: "Rock"},
		{ID: "3", Title: "Shame", Date: "25.10.25", Genre: "Rock"},
	}

	t.Run("empty filter returns everything", func(t *testing.T) {
		got := NewFilter().Apply(events)
		if len(got) != 3 {
			t.Errorf("Apply() returned %d events, want 3", len(got))
		}
	})

	t.Run("keeps order", func(t *testing.T) {
		got := (&Filter{Genre: "Rock"}).Apply(events)
		if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
			t.Errorf("Apply() = %v, want events 2 and 3", got)
		}
	})

	t.Run("no match returns empty non-nil slice", func(t *testing.T) {
		got := (&Filter{Genre: "Jazz"}).Apply(events)
		if got == nil || len(got) != 0 {
			t.Errorf("Apply() = %#v, want empty slice", got)
		}
	})
}

func TestFilter_String(t *testing.T) {
	from := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter *Filter
		want   string
	}{
		{
			name:   "empty",
			filter: NewFilter(),
			want:   "No active filters",
		},
		{
			name:   "several criteria",
			filter: &Filter{Search: "hives", Genre: "Rock", DateFrom: &from, HideSoldOut: true},
			want:   "Search: hives | Genre: Rock | From: 01.10.25 | Hide sold out",
		},
		{
			name:   "venue type and weekends",
			filter: &Filter{Venue: "Bar", EventType: "Dressing Club", WeekendsOnly: true},
			want:   "Venue: Bar | Type: Dressing Club | Weekends only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.String(); got != tt.want {
				t.Errorf("Filter.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilter_Clone(t *testing.T) {
	from := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	original := &Filter{Genre: "Rock", DateFrom: &from}

	clone := original.Clone()
	clone.Genre = "Jazz"
	*clone.DateFrom = from.AddDate(0, 1, 0)

	if original.Genre != "Rock" {
		t.Error("Modifying clone genre affected original")
	}
	if !original.DateFrom.Equal(from) {
		t.Error("Modifying clone date affected original")
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
