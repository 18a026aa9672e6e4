package event

import (
	"fmt"
)

// Event represents one concert or other happening at the venue
type Event struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"` // DD.MM.YY, first day for multi-day events
	Time      string `json:"time"` // "20h" or "20h30", may be empty
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Genre     string `json:"genre"`
	Venue     string `json:"venue"`
	EventType string `json:"eventType"`
	ImageURL  string `json:"imageUrl"`
	EventURL  string `json:"eventUrl"`
	IsSoldOut bool   `json:"isSoldOut"`

	Links *StreamingLinks `json:"links,omitempty"`
}

// GenerateID builds the per-run identifier from the event date and the
// position of its element within the run.
func GenerateID(date string, index int) string {
	return fmt.Sprintf("%s-%d", date, index)
}

// IsMultiDay reports whether the event spans a start and end date
func (e *Event) IsMultiDay() bool {
	return e.StartDate != "" && e.EndDate != ""
}

// WithLinks returns a copy of the event carrying streaming search links.
// The receiver is left untouched.
func (e *Event) WithLinks() *Event {
	cp := *e
	links := NewStreamingLinks(e.Title)
	cp.Links = &links
	return &cp
}
