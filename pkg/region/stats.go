package region

import (
	"strconv"
	"strings"
	"time"
)

// Stats holds the case counts reported for one region on one date.
// It is a value type: assigning or passing a Stats copies it.
type Stats struct {
	Date      time.Time
	Confirmed int
	Deaths    int
	Recovered int
}

// NewStats builds a Stats from already-parsed counts.
func NewStats(date time.Time, confirmed, deaths, recovered int) Stats {
	return Stats{Date: date, Confirmed: confirmed, Deaths: deaths, Recovered: recovered}
}

// ParseStats builds a Stats from the raw count fields of a report row.
// Blank fields count as zero.
func ParseStats(date time.Time, confirmed, deaths, recovered string) (Stats, error) {
	s := Stats{Date: date}
	var err error
	if s.Confirmed, err = parseCount("confirmed", confirmed); err != nil {
		return Stats{}, err
	}
	if s.Deaths, err = parseCount("deaths", deaths); err != nil {
		return Stats{}, err
	}
	if s.Recovered, err = parseCount("recovered", recovered); err != nil {
		return Stats{}, err
	}
	return s, nil
}

// Infected is confirmed minus deaths minus recovered. Inconsistent upstream data can make it negative.
func (s Stats) Infected() int {
	return s.Confirmed - s.Deaths - s.Recovered
}

// Merge sums two stats for the same date. A zero Date takes the other operand's date.
func Merge(a, b Stats) (Stats, error) {
	date := a.Date
	switch {
	case date.IsZero():
		date = b.Date
	case !b.Date.IsZero() && !b.Date.Equal(date):
		return Stats{}, &MergeError{Have: a.Date, Got: b.Date}
	}
	return Stats{
		Date:      date,
		Confirmed: a.Confirmed + b.Confirmed,
		Deaths:    a.Deaths + b.Deaths,
		Recovered: a.Recovered + b.Recovered,
	}, nil
}

func parseCount(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ParseError{Field: field, Value: raw, Reason: "not an integer"}
	}
	if n < 0 {
		return 0, &ParseError{Field: field, Value: raw, Reason: "negative count"}
	}
	return n, nil
}
