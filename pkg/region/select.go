package region

import "regexp"

// Find returns every region whose key, or one of whose aliases, matches the query.
// The query is normalized and used as a regular expression; if it does not compile
// it is matched literally. Countries come first, then states, each in first-seen order.
func (c *Catalog) Find(query string) []*Region {
	re := queryPattern(query)

	var matches []*Region
	for _, kind := range []Kind{Country, State} {
		for _, r := range c.Regions(kind) {
			if r.matches(re) {
				matches = append(matches, r)
			}
		}
	}
	return matches
}

// Select resolves a query to exactly one region.
// choice is a 1-based index into the candidate list; 0 means "no choice made".
// Several matches with no choice yield an *AmbiguousError carrying the candidates.
func (c *Catalog) Select(query string, choice int) (*Region, error) {
	matches := c.Find(query)
	switch {
	case len(matches) == 0:
		return nil, &NotFoundError{Query: query}
	case choice < 0 || choice > len(matches):
		return nil, ErrInvalidChoice
	case choice > 0:
		return matches[choice-1], nil
	case len(matches) == 1:
		return matches[0], nil
	default:
		return nil, &AmbiguousError{Query: query, Candidates: matches}
	}
}

func queryPattern(query string) *regexp.Regexp {
	q := Normalize(query)
	if re, err := regexp.Compile(q); err == nil {
		return re
	}
	return regexp.MustCompile(regexp.QuoteMeta(q))
}

func (r *Region) matches(re *regexp.Regexp) bool {
	if re.MatchString(r.key) {
		return true
	}
	for a := range r.aliases {
		if re.MatchString(Normalize(a)) {
			return true
		}
	}
	return false
}
