// Package dateutils parses the date columns found in statement text.
package dateutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts used by the supported statements.
const (
	DateLayoutISO          = "2006-01-02"
	DateLayoutDayMonthYear = "02/01/2006"
	DateLayoutDayMonthYY   = "02/01/06"
	DateLayoutDashed       = "02-01-2006"
	DateLayoutWithMonth    = "02 Jan 2006"
	DateLayoutWithMonthYY  = "02-Jan-06"
)

// ErrEmptyDate is returned when there is no date text to parse.
var ErrEmptyDate = errors.New("empty date")

// CommonFormats is tried by ParseDate when no explicit layout is known.
var CommonFormats = []string{
	DateLayoutDayMonthYear,
	DateLayoutDayMonthYY,
	DateLayoutISO,
	DateLayoutDashed,
	DateLayoutWithMonth,
	DateLayoutWithMonthYY,
	"2 Jan 2006",
	"02.01.2006",
}

var spaces = regexp.MustCompile(`\s+`)

// ParseWithLayouts parses dateStr with the first layout that accepts it.
// Two-digit years follow time.Parse: 69-99 map to the 1900s, 00-68 to the 2000s.
func ParseWithLayouts(dateStr string, layouts []string) (time.Time, error) {
	clean := CleanDateString(dateStr)
	if clean == "" {
		return time.Time{}, ErrEmptyDate
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q with layouts %v", dateStr, layouts)
}

// ParseDate tries CommonFormats and returns the parsed time and the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	clean := CleanDateString(dateStr)
	if clean == "" {
		return time.Time{}, "", ErrEmptyDate
	}
	for _, format := range CommonFormats {
		if t, err := time.Parse(format, clean); err == nil {
			return t, format, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// FormatDate formats date with layout, DateLayoutISO when layout is empty.
// The zero time renders as "".
func FormatDate(date time.Time, layout string) string {
	if date.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DateLayoutISO
	}
	return date.Format(layout)
}

// CleanDateString trims and collapses internal whitespace.
func CleanDateString(dateStr string) string {
	return spaces.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}
