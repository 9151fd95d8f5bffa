// CLAUDE:SUMMARY Parses the two "Last Update" encodings of the daily reports into a UTC calendar date.
package region

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the output format for series dates.
const DateLayout = "01/02/2006"

var (
	// 3/2/20 23:15, 3/2/2020 23:15:00
	slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})(?:\s|$)`)
	// 2020-03-02T23:15:00, 2020-03-22 23:45:00
	isoDate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:[T ]|$)`)
)

// ParseDate extracts the calendar date from a last-update timestamp.
// The time of day is discarded; the result is midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)

	if m := slashDate.FindStringSubmatch(s); m != nil {
		year := atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		return civilDate(raw, year, atoi(m[1]), atoi(m[2]))
	}
	if m := isoDate.FindStringSubmatch(s); m != nil {
		return civilDate(raw, atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	return time.Time{}, &ParseError{Field: "date", Value: raw, Reason: "unsupported format"}
}

// FormatDate renders a date as MM/DD/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// civilDate rejects components that time.Date would silently normalize (2/30 -> 3/1).
func civilDate(raw string, year, month, day int) (time.Time, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, &ParseError{Field: "date", Value: raw, Reason: "no such calendar day"}
	}
	return t, nil
}

// atoi is only called on regexp-validated digit runs.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
