package utils

import (
	"fmt"
	"strings"
	"time"
)

type DateFormat string

const (
	FormatISO8601     DateFormat = time.RFC3339
	FormatISO8601Date DateFormat = "2006-01-02"
	FormatUSDate      DateFormat = "01/02/2006"
	FormatDotDate     DateFormat = "02.01.2006"
	FormatYearMonth   DateFormat = "2006-01"
)

var acceptedDateFormats = []DateFormat{
	FormatISO8601Date,
	FormatISO8601,
	FormatUSDate,
	FormatDotDate,
}

// ParseDate accepts the date formats clients send for cleaning dates and
// filters, and returns the UTC start of that day.
func ParseDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}

	for _, format := range acceptedDateFormats {
		if parsed, err := time.Parse(string(format), input); err == nil {
			return StartOfDay(parsed), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", input)
}

func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDayExclusive returns the first instant of the following day.
func EndOfDayExclusive(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// MonthKey renders the calendar month bucket, e.g. "2026-03".
func MonthKey(t time.Time) string {
	return t.UTC().Format(string(FormatYearMonth))
}

// DayKey renders the calendar day bucket, e.g. "2026-03-14".
func DayKey(t time.Time) string {
	return t.UTC().Format(string(FormatISO8601Date))
}

// MonthRange returns [first day of month, first day of next month).
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
