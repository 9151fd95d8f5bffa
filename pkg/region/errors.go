package region

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidChoice is returned by Select when the 1-based choice is outside the candidate list.
var ErrInvalidChoice = errors.New("selection out of range")

// ParseError reports a date or count field that matches no supported format.
type ParseError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %s", e.Field, e.Value, e.Reason)
}

// MergeError reports an attempt to sum stats tagged with different dates.
type MergeError struct {
	Have time.Time
	Got  time.Time
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge stats: date mismatch (%s vs %s)", FormatDate(e.Have), FormatDate(e.Got))
}

// NotFoundError is returned when a query matches no region.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no region matches %q", e.Query)
}

// AmbiguousError is returned when a query matches several regions and no choice was given.
// Candidates are in catalog order; callers pick one and call Select again with its 1-based index.
type AmbiguousError struct {
	Query      string
	Candidates []*Region
}

func (e *AmbiguousError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, r := range e.Candidates {
		names[i] = r.String()
	}
	return fmt.Sprintf("%q matches %d regions: %s", e.Query, len(e.Candidates), strings.Join(names, "; "))
}
