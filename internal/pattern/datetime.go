package pattern

import (
	"regexp"
	"strconv"
	"time"
)

var (
	// "Du 17.10.25 / 20h au 19.10.25 / 23h"
	rangePattern = regexp.MustCompile(`(?i)Du\s*(\d{2}\.\d{2}\.\d{2})\s*/\s*(\d{2}h\d{0,2})\s*au\s*(\d{2}\.\d{2}\.\d{2})\s*/\s*(\d{2}h\d{0,2})`)

	// "17.10.25 / 20h30"
	timedPattern = regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{2})\s*/\s*(\d{2}h\d{0,2})`)
	// "17.10.25" on its own
	datePattern = regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{2})\b`)

	// Looser shapes used only to decide whether an element looks like it carries a date.
	looseNumericDate = regexp.MustCompile(`\d{1,2}[./-]\d{1,2}[./-]\d{2,4}`)
	looseFrenchDate  = regexp.MustCompile(`(?i)\d{1,2}\s+(janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre)`)

	clockPattern = regexp.MustCompile(`(\d+)h(\d+)?`)
)

// DateTime holds the date fields resolved from one text blob.
// StartDate and EndDate are only set for multi-day events.
type DateTime struct {
	Date      string
	Time      string
	StartDate string
	EndDate   string
}

// IsRange reports whether the text described a multi-day event.
func (dt DateTime) IsRange() bool {
	return dt.StartDate != "" && dt.EndDate != ""
}

// ParseDateTime extracts the event date and time from text.
// The range form is tried first, then a date followed by a time, then a bare
// date. Within each form the first occurrence that is a real calendar day
// wins, so phone numbers like 04.76.90.96.73 never shadow the event date.
// Returns false when no date is present.
func ParseDateTime(text string) (DateTime, bool) {
	if m := rangePattern.FindStringSubmatch(text); m != nil {
		return DateTime{
			Date:      m[1],
			Time:      m[2],
			StartDate: m[1],
			EndDate:   m[3],
		}, true
	}

	if m := firstCalendarDay(timedPattern, text); m != nil {
		return DateTime{Date: m[1], Time: m[2]}, true
	}

	if m := firstCalendarDay(datePattern, text); m != nil {
		return DateTime{Date: m[1]}, true
	}

	return DateTime{}, false
}

// firstCalendarDay returns the first match whose date group is a valid day.
func firstCalendarDay(re *regexp.Regexp, text string) []string {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if _, err := time.Parse("02.01.06", m[1]); err == nil {
			return m
		}
	}
	return nil
}

// HasDate reports whether text contains anything that looks like a date,
// numeric ("17.10.25", "17/10/2025") or a day followed by a French month name.
func HasDate(text string) bool {
	return looseNumericDate.MatchString(text) || looseFrenchDate.MatchString(text)
}

// ParseClock parses "20h", "20h30" or "9h5" into hours and minutes.
func ParseClock(text string) (hour, minute int, ok bool) {
	m := clockPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return 0, 0, false
	}

	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return 0, 0, false
		}
	}

	return hour, minute, true
}
