package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/belle-events/internal/event"
	"github.com/pfrederiksen/belle-events/internal/pattern"
)

const (
	ProdID          = "-//Calendrier La Belle Électrique//FR"
	UIDDomain       = "la-belle-electrique"
	DefaultCity     = "Grenoble"
	DefaultName     = "La Belle Électrique"
	DefaultTimeZone = "Europe/Paris"
	DefaultStart    = "20h"
	DefaultDuration = 3 * time.Hour
)

// Options carry the defaults applied when an event lacks timing details.
type Options struct {
	Name            string
	TimeZone        string
	DefaultStart    string // clock used when the event has no time, e.g. "20h"
	DefaultDuration time.Duration
	Now             func() time.Time
}

// DefaultOptions returns the venue's calendar defaults.
func DefaultOptions() Options {
	return Options{
		Name:            DefaultName,
		TimeZone:        DefaultTimeZone,
		DefaultStart:    DefaultStart,
		DefaultDuration: DefaultDuration,
		Now:             time.Now,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Name == "" {
		o.Name = d.Name
	}
	if o.TimeZone == "" {
		o.TimeZone = d.TimeZone
	}
	if o.DefaultStart == "" {
		o.DefaultStart = d.DefaultStart
	}
	if o.DefaultDuration <= 0 {
		o.DefaultDuration = d.DefaultDuration
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}

// GenerateICS generates an iCalendar (.ics) file for an event
func GenerateICS(evt *event.Event, opts Options) string {
	return GenerateMultipleICS([]*event.Event{evt}, opts)
}

// GenerateMultipleICS generates one calendar holding every event, in order
func GenerateMultipleICS(events []*event.Event, opts Options) string {
	opts = opts.withDefaults()

	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString(fmt.Sprintf("PRODID:%s\r\n", ProdID))
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(opts.Name)))
	ics.WriteString(fmt.Sprintf("X-WR-TIMEZONE:%s\r\n", opts.TimeZone))

	stamp := formatICSTime(opts.Now())
	for _, evt := range events {
		if evt == nil {
			continue
		}
		writeEvent(&ics, evt, opts, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func writeEvent(ics *strings.Builder, evt *event.Event, opts Options, stamp string) {
	start, end := eventWindow(evt, opts)

	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s@%s\r\n", evt.ID, UIDDomain))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))

	// Floating local times, read in the calendar's time zone
	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatLocalTime(start)))
	ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatLocalTime(end)))

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(evt.Title)))
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description(evt))))
	ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(location(evt))))

	if evt.EventURL != "" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", evt.EventURL))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// eventWindow resolves start and end. Without a time the default start is
// used; the end is the default duration after the start, on the last day for
// multi-day events.
func eventWindow(evt *event.Event, opts Options) (time.Time, time.Time) {
	day := event.ParseDate(evt.Date)
	if day.IsZero() {
		// If we can't parse the date, use one week from now
		now := opts.Now()
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7)
	}

	hour, minute := startClock(evt.Time, opts.DefaultStart)
	start := day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)

	last := start
	if evt.IsMultiDay() {
		if endDay := event.ParseDate(evt.EndDate); !endDay.IsZero() && !endDay.Before(day) {
			last = endDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
		}
	}

	return start, last.Add(opts.DefaultDuration)
}

func startClock(eventTime, fallback string) (int, int) {
	if h, m, ok := pattern.ParseClock(eventTime); ok {
		return h, m
	}
	if h, m, ok := pattern.ParseClock(fallback); ok {
		return h, m
	}
	return 20, 0
}

func description(evt *event.Event) string {
	var lines []string
	if evt.Genre != "" {
		lines = append(lines, "Genre: "+evt.Genre)
	}
	if evt.Venue != "" {
		lines = append(lines, "Salle: "+evt.Venue)
	}
	if evt.IsSoldOut {
		lines = append(lines, "COMPLET")
	}
	if evt.EventURL != "" {
		lines = append(lines, "", "Plus d'infos: "+evt.EventURL)
	}
	return strings.Join(lines, "\n")
}

func location(evt *event.Event) string {
	place := evt.Venue
	if place == "" {
		place = DefaultCity
	}
	return fmt.Sprintf("La Belle Électrique - %s", place)
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatLocalTime formats wall-clock time without a zone designator
func formatLocalTime(t time.Time) string {
	return t.Format("20060102T150405")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// Filename suggests a download name for an event's calendar file.
func Filename(evt *event.Event) string {
	var b strings.Builder
	for _, r := range strings.ToLower(evt.Title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "concert"
	}
	return name + ".ics"
}
