// CLAUDE:SUMMARY Maps raw location strings onto canonical region names via ignore lists and ordered regex rules.
package classify

import (
	"fmt"
	"regexp"
	"strings"
)

var cruiseShip = regexp.MustCompile(`(?i)princess|cruise ship`)

// IsCruiseShip reports whether s refers to a cruise ship (e.g. "Diamond Princess", "Grand Princess Cruise Ship").
func IsCruiseShip(s string) bool {
	return cruiseShip.MatchString(s)
}

// compiledRule is a single canonical name with its compiled pattern.
type compiledRule struct {
	name   string
	re     *regexp.Regexp
	cruise bool
}

// Table is an immutable, compiled rule table. It is safe for concurrent use.
type Table struct {
	ignore    map[string]struct{}
	canonical map[string]struct{}
	rules     []compiledRule
}

// Compile builds a Table from its YAML form.
func Compile(spec TableSpec) (*Table, error) {
	t := &Table{
		ignore:    make(map[string]struct{}, len(spec.Ignore)),
		canonical: make(map[string]struct{}, len(spec.Rules)),
		rules:     make([]compiledRule, 0, len(spec.Rules)),
	}
	for _, name := range spec.Ignore {
		t.ignore[strings.TrimSpace(name)] = struct{}{}
	}
	for i, rs := range spec.Rules {
		if rs.Name == "" {
			return nil, fmt.Errorf("rule %d: missing name", i)
		}
		re, err := regexp.Compile(rs.Regex)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rs.Name, err)
		}
		t.rules = append(t.rules, compiledRule{name: rs.Name, re: re, cruise: rs.Cruise})
		t.canonical[rs.Name] = struct{}{}
	}
	return t, nil
}

// Canonical reports whether name is the canonical name of at least one rule.
func (t *Table) Canonical(name string) bool {
	_, ok := t.canonical[name]
	return ok
}

// Len returns the number of rules.
func (t *Table) Len() int { return len(t.rules) }

// Classifier resolves raw location strings against one Table.
type Classifier struct {
	table *Table
}

// New returns a Classifier backed by t.
func New(t *Table) *Classifier {
	return &Classifier{table: t}
}

// Classify returns the canonical name for raw, the cleaned input itself when no rule applies,
// or "" when the row should be suppressed for this dimension (blank, ignored, cruise ship).
func (c *Classifier) Classify(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}
	if _, ok := c.table.ignore[name]; ok {
		return ""
	}
	if c.table.Canonical(name) {
		return name
	}

	cruise := IsCruiseShip(name)
	for _, r := range c.table.rules {
		// Only rules written for cruise-ship variants may claim a cruise-ship string.
		if cruise && !r.cruise {
			continue
		}
		if r.re.MatchString(name) {
			return r.name
		}
	}
	if cruise {
		return ""
	}
	return name
}

// Set is the pair of classifiers used by the loader.
type Set struct {
	Countries *Classifier
	States    *Classifier
}

// Build compiles both tables of cfg.
func Build(cfg *Config) (*Set, error) {
	countries, err := Compile(cfg.Countries)
	if err != nil {
		return nil, fmt.Errorf("countries: %w", err)
	}
	states, err := Compile(cfg.States)
	if err != nil {
		return nil, fmt.Errorf("states: %w", err)
	}
	return &Set{Countries: New(countries), States: New(states)}, nil
}
