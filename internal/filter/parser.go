package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/belle-events/internal/event"
)

const monthNames = `janvier|janv|février|fevrier|févr|fevr|mars|avril|avr|mai|juin|juillet|juil|août|aout|septembre|sept|octobre|oct|novembre|nov|décembre|decembre|déc|dec`

var (
	// "17.10.25-31.10.25" or "17.10.25 au 31.10.25"
	numericRange = regexp.MustCompile(`(?i)^(\d{2}\.\d{2}\.\d{2})\s*(?:-|au)\s*(\d{2}\.\d{2}\.\d{2})$`)
	numericDay   = regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{2})$`)

	// "1-15 octobre"
	sameMonthRange = regexp.MustCompile(`(?i)^(\d{1,2})\s*-\s*(\d{1,2})\s+(` + monthNames + `)$`)
	// "20 octobre - 5 novembre"
	crossMonthRange = regexp.MustCompile(`(?i)^(\d{1,2})\s+(` + monthNames + `)\s*-\s*(\d{1,2})\s+(` + monthNames + `)$`)
	// "octobre"
	wholeMonth = regexp.MustCompile(`(?i)^(` + monthNames + `)$`)
)

// ParseDateRange parses a date range string into start and end times.
//
// Supported formats:
//   - "17.10.25-31.10.25" or "17.10.25 au 31.10.25" - Explicit dates
//   - "17.10.25" - A single day
//   - "1-15 octobre" - Same month, different days
//   - "20 octobre - 5 novembre" - Different months
//   - "octobre" - Entire month
//
// Month names are French, with or without accents. For month-based formats
// the year is inferred: a month already past this year means next year.
//
// Returns (dateFrom, dateTo, error). Times are in UTC.
// Start time is at 00:00:00, end time is at 23:59:59.
func ParseDateRange(input string) (*time.Time, *time.Time, error) {
	return ParseDateRangeAt(input, time.Now())
}

// ParseDateRangeAt is ParseDateRange with year inference relative to now.
func ParseDateRangeAt(input string, now time.Time) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}

	if matches := numericRange.FindStringSubmatch(input); matches != nil {
		from := event.ParseDate(matches[1])
		if from.IsZero() {
			return nil, nil, fmt.Errorf("invalid date: %s", matches[1])
		}
		to := event.ParseDate(matches[2])
		if to.IsZero() {
			return nil, nil, fmt.Errorf("invalid date: %s", matches[2])
		}
		return bounded(from, to)
	}

	if matches := numericDay.FindStringSubmatch(input); matches != nil {
		day := event.ParseDate(matches[1])
		if day.IsZero() {
			return nil, nil, fmt.Errorf("invalid date: %s", matches[1])
		}
		return bounded(day, day)
	}

	if matches := sameMonthRange.FindStringSubmatch(input); matches != nil {
		month := parseMonth(matches[3])
		year := getYearForMonth(month, now)

		from, err := dayOf(year, month, matches[1])
		if err != nil {
			return nil, nil, err
		}
		to, err := dayOf(year, month, matches[2])
		if err != nil {
			return nil, nil, err
		}
		return bounded(from, to)
	}

	if matches := crossMonthRange.FindStringSubmatch(input); matches != nil {
		month1 := parseMonth(matches[2])
		month2 := parseMonth(matches[4])

		year1 := getYearForMonth(month1, now)
		year2 := getYearForMonth(month2, now)
		// If month2 < month1, assume month2 is in the following year
		if month2 < month1 {
			year2 = year1 + 1
		}

		from, err := dayOf(year1, month1, matches[1])
		if err != nil {
			return nil, nil, err
		}
		to, err := dayOf(year2, month2, matches[3])
		if err != nil {
			return nil, nil, err
		}
		return bounded(from, to)
	}

	if matches := wholeMonth.FindStringSubmatch(input); matches != nil {
		month := parseMonth(matches[1])
		year := getYearForMonth(month, now)

		from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		// Last day of month
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
		return bounded(from, last)
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use '17.10.25-31.10.25', '1-15 octobre', '20 octobre - 5 novembre' or 'octobre'")
}

func bounded(from, to time.Time) (*time.Time, *time.Time, error) {
	end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, time.UTC)
	if from.After(end) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}
	return &from, &end, nil
}

func dayOf(year int, month time.Month, dayText string) (time.Time, error) {
	day, err := strconv.Atoi(dayText)
	if err != nil || day < 1 {
		return time.Time{}, fmt.Errorf("invalid day: %s", dayText)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid day: %s", dayText)
	}
	return t, nil
}

// parseMonth converts a French month name to time.Month
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))

	months := map[string]time.Month{
		"janvier":   time.January,
		"janv":      time.January,
		"février":   time.February,
		"fevrier":   time.February,
		"févr":      time.February,
		"fevr":      time.February,
		"mars":      time.March,
		"avril":     time.April,
		"avr":       time.April,
		"mai":       time.May,
		"juin":      time.June,
		"juillet":   time.July,
		"juil":      time.July,
		"août":      time.August,
		"aout":      time.August,
		"septembre": time.September,
		"sept":      time.September,
		"octobre":   time.October,
		"oct":       time.October,
		"novembre":  time.November,
		"nov":       time.November,
		"décembre":  time.December,
		"decembre":  time.December,
		"déc":       time.December,
		"dec":       time.December,
	}

	return months[name]
}

// getYearForMonth returns the appropriate year for a given month
// If the month has already passed this year, returns next year
func getYearForMonth(month time.Month, now time.Time) int {
	year := now.Year()

	// If month is in the past, use next year
	if month < now.Month() {
		year++
	}

	return year
}
