package event

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var dateFormat = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{2}$`)

// ParseDate parses a DD.MM.YY date into midnight UTC of year 20YY.
// Returns time.Time{} (zero value) if the text is not a valid date.
func ParseDate(dateText string) time.Time {
	dateText = strings.TrimSpace(dateText)
	if !dateFormat.MatchString(dateText) {
		return time.Time{}
	}

	parts := strings.Split(dateText, ".")
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])

	if month < 1 || month > 12 || day < 1 {
		return time.Time{}
	}

	t := time.Date(2000+year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31.02 -> 03.03); reject it
	if t.Day() != day {
		return time.Time{}
	}

	return t
}

// ValidDate reports whether dateText is a well-formed DD.MM.YY calendar date.
func ValidDate(dateText string) bool {
	return !ParseDate(dateText).IsZero()
}

// ParsedDate returns the event's primary date, or the zero time.
func (e *Event) ParsedDate() time.Time {
	return ParseDate(e.Date)
}

// IsUpcoming checks if an event happens today or later.
// Returns true if the date cannot be parsed (safer default).
func (e *Event) IsUpcoming() bool {
	return e.IsUpcomingAt(time.Now())
}

// IsUpcomingAt is IsUpcoming relative to now.
func (e *Event) IsUpcomingAt(now time.Time) bool {
	parsed := e.ParsedDate()
	if parsed.IsZero() {
		return true
	}
	return !parsed.Before(startOfDay(now))
}

// IsWithinDays checks if an event falls between today and N days from now, inclusive.
// Returns true if days <= 0 (feature disabled) or date is unparseable.
func (e *Event) IsWithinDays(days int, now time.Time) bool {
	if days <= 0 {
		return true
	}
	parsed := e.ParsedDate()
	if parsed.IsZero() {
		return true
	}
	today := startOfDay(now)
	cutoff := today.AddDate(0, 0, days)
	return !parsed.Before(today) && !parsed.After(cutoff)
}

// SortByDate orders events by ascending date in place. The sort is stable,
// so events on the same day keep their discovery order. Events with an
// unparseable date go last.
func SortByDate(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return compareByDate(events[i], events[j])
	})
}

// compareByDate returns true if event i should come before event j
func compareByDate(i, j *Event) bool {
	dateI := i.ParsedDate()
	dateJ := j.ParsedDate()

	if !dateI.IsZero() && !dateJ.IsZero() {
		return dateI.Before(dateJ)
	}

	// Put the valid one first
	return !dateI.IsZero() && dateJ.IsZero()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
