package region

import (
	"slices"
	"strings"
	"time"
)

// Catalog holds every known region, one map per kind keyed by Region.Key.
// It is built once per load and treated as read-only after it is published.
type Catalog struct {
	states    map[string]*Region
	countries map[string]*Region

	// first-seen order per kind, used for candidate lists
	stateOrder   []string
	countryOrder []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		states:    make(map[string]*Region),
		countries: make(map[string]*Region),
	}
}

// Add merges s into the region identified by (kind, name, country), creating it on first sight.
// raw is the source spelling that resolved to name; it is recorded as an alias.
func (c *Catalog) Add(kind Kind, name, country, raw string, s Stats) (*Region, error) {
	r := c.getOrCreate(kind, name, country)
	if err := r.merge(s); err != nil {
		return nil, err
	}
	r.addAlias(raw)
	return r, nil
}

// Absorb merges every region of other into c. Nothing in c changes if any merge would fail.
func (c *Catalog) Absorb(other *Catalog) error {
	type pending struct {
		dst  *Region
		src  *Region
		sums map[time.Time]Stats
	}
	var plan []pending

	for _, kind := range []Kind{Country, State} {
		for _, key := range other.order(kind) {
			src := other.index(kind)[key]
			dst, ok := c.index(kind)[key]
			if !ok {
				plan = append(plan, pending{src: src})
				continue
			}
			sums := make(map[time.Time]Stats, len(src.stats))
			for date, s := range src.stats {
				if cur, ok := dst.stats[date]; ok {
					sum, err := Merge(cur, s)
					if err != nil {
						return err
					}
					s = sum
				}
				sums[date] = s
			}
			plan = append(plan, pending{dst: dst, src: src, sums: sums})
		}
	}

	for _, p := range plan {
		if p.dst == nil {
			c.insert(p.src)
			continue
		}
		for date, s := range p.sums {
			p.dst.stats[date] = s
		}
		for a := range p.src.aliases {
			p.dst.aliases[a] = struct{}{}
		}
	}
	return nil
}

// Lookup finds a region by kind and key.
func (c *Catalog) Lookup(kind Kind, key string) (*Region, bool) {
	r, ok := c.index(kind)[key]
	return r, ok
}

// Regions returns the regions of one kind in first-seen order.
func (c *Catalog) Regions(kind Kind) []*Region {
	idx := c.index(kind)
	out := make([]*Region, 0, len(idx))
	for _, key := range c.order(kind) {
		out = append(out, idx[key])
	}
	return out
}

// Sorted returns the regions of one kind ordered by key.
func (c *Catalog) Sorted(kind Kind) []*Region {
	out := c.Regions(kind)
	slices.SortFunc(out, func(a, b *Region) int { return strings.Compare(a.key, b.key) })
	return out
}

// Len returns the number of regions of one kind.
func (c *Catalog) Len(kind Kind) int {
	return len(c.index(kind))
}

func (c *Catalog) getOrCreate(kind Kind, name, country string) *Region {
	if r, ok := c.index(kind)[Key(kind, name, country)]; ok {
		return r
	}
	r := newRegion(kind, name, country)
	c.insert(r)
	return r
}

func (c *Catalog) insert(r *Region) {
	if r.kind == State {
		c.states[r.key] = r
		c.stateOrder = append(c.stateOrder, r.key)
		return
	}
	c.countries[r.key] = r
	c.countryOrder = append(c.countryOrder, r.key)
}

func (c *Catalog) index(kind Kind) map[string]*Region {
	if kind == State {
		return c.states
	}
	return c.countries
}

func (c *Catalog) order(kind Kind) []string {
	if kind == State {
		return c.stateOrder
	}
	return c.countryOrder
}
