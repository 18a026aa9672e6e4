package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/belle-events/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	FetchedAt  time.Time      `json:"fetched_at"`
	Source     string         `json:"source"`
	Filter     string         `json:"filter,omitempty"`
	Events     []*event.Event `json:"events"`
	EventCount int            `json:"event_count"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	if result.Events == nil {
		result.Events = []*event.Event{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.Filter != "" {
		fmt.Fprintf(w, "Filters: %s\n\n", result.Filter)
	}

	if result.EventCount == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	for _, evt := range result.Events {
		line := fmt.Sprintf("%-14s %s", when(evt), evt.Title)
		if details := classification(evt); details != "" {
			line += " [" + details + "]"
		}
		if evt.IsSoldOut {
			line += " (SOLD OUT)"
		}
		fmt.Fprintln(w, line)

		if verbose {
			writeDetails(w, evt)
		}
	}

	label := "events"
	if result.EventCount == 1 {
		label = "event"
	}
	fmt.Fprintf(w, "\nTotal: %d %s\n", result.EventCount, label)

	return nil
}

func writeDetails(w io.Writer, evt *event.Event) {
	fmt.Fprintf(w, "     ID: %s\n", evt.ID)
	if evt.EventURL != "" {
		fmt.Fprintf(w, "     URL: %s\n", evt.EventURL)
	}
	if evt.ImageURL != "" {
		fmt.Fprintf(w, "     Image: %s\n", evt.ImageURL)
	}
	if evt.Links != nil {
		fmt.Fprintf(w, "     Spotify: %s\n", evt.Links.Spotify)
		fmt.Fprintf(w, "     YouTube Music: %s\n", evt.Links.YouTube)
		fmt.Fprintf(w, "     Deezer: %s\n", evt.Links.Deezer)
		fmt.Fprintf(w, "     Apple Music: %s\n", evt.Links.AppleMusic)
	}
}

// when renders the date column: "17.10.25 20h30" or "31.10.25-01.11.25".
func when(evt *event.Event) string {
	if evt.IsMultiDay() {
		return evt.StartDate + "-" + evt.EndDate
	}
	if evt.Time != "" {
		return evt.Date + " " + evt.Time
	}
	return evt.Date
}

func classification(evt *event.Event) string {
	var parts []string
	for _, p := range []string{evt.EventType, evt.Genre, evt.Venue} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
