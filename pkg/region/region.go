// CLAUDE:SUMMARY Region identity (kind, canonical name, owning country, normalized key) and its per-date stats.
package region

import (
	"fmt"
	"slices"
	"time"
)

// Kind distinguishes sub-national regions from countries.
type Kind int

const (
	State Kind = iota + 1
	Country
)

func (k Kind) String() string {
	switch k {
	case State:
		return "state"
	case Country:
		return "country"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts "state" or "country".
func ParseKind(s string) (Kind, error) {
	switch Normalize(s) {
	case "state", "states", "province":
		return State, nil
	case "country", "countries":
		return Country, nil
	}
	return 0, fmt.Errorf("unknown region kind %q", s)
}

// Key returns the aggregation identity of a region.
// States carry their country so that same-named provinces in different countries stay apart.
func Key(kind Kind, name, country string) string {
	if kind == State {
		return Normalize(name + "_" + country)
	}
	return Normalize(name)
}

// Region is one aggregation unit. Its identity never changes after creation;
// stats are only added while the owning Catalog is being built.
type Region struct {
	kind    Kind
	name    string
	country string
	key     string
	stats   map[time.Time]Stats
	aliases map[string]struct{}
}

func newRegion(kind Kind, name, country string) *Region {
	if kind == Country {
		country = name
	}
	return &Region{
		kind:    kind,
		name:    name,
		country: country,
		key:     Key(kind, name, country),
		stats:   make(map[time.Time]Stats),
		aliases: make(map[string]struct{}),
	}
}

func (r *Region) Kind() Kind      { return r.kind }
func (r *Region) Name() string    { return r.name }
func (r *Region) Country() string { return r.country }
func (r *Region) Key() string     { return r.key }

// String is "Name, Country" for states and "Name" for countries.
func (r *Region) String() string {
	if r.kind == State {
		return r.name + ", " + r.country
	}
	return r.name
}

// Stats returns the merged stats for a date.
func (r *Region) Stats(date time.Time) (Stats, bool) {
	s, ok := r.stats[date]
	return s, ok
}

// Dates returns every date with data, ascending.
func (r *Region) Dates() []time.Time {
	dates := make([]time.Time, 0, len(r.stats))
	for d := range r.stats {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return dates
}

// Aliases returns the raw source spellings that resolved to this region, sorted.
func (r *Region) Aliases() []string {
	out := make([]string, 0, len(r.aliases))
	for a := range r.aliases {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// merge adds s into the slot for s.Date. Undated stats add nothing.
func (r *Region) merge(s Stats) error {
	if s.Date.IsZero() {
		return nil
	}
	cur, ok := r.stats[s.Date]
	if !ok {
		r.stats[s.Date] = s
		return nil
	}
	sum, err := Merge(cur, s)
	if err != nil {
		return err
	}
	r.stats[s.Date] = sum
	return nil
}

func (r *Region) addAlias(raw string) {
	if raw != "" && raw != r.name {
		r.aliases[raw] = struct{}{}
	}
}
