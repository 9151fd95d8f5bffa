// CLAUDE:SUMMARY Detects which of the two daily-report header layouts a file uses.
package loader

import "strings"

// Schema names the columns of one dataset era.
type Schema struct {
	Name       string
	State      string
	Country    string
	LastUpdate string
}

var (
	// Legacy is the layout used by the earliest daily reports.
	Legacy = Schema{
		Name:       "legacy",
		State:      "Province/State",
		Country:    "Country/Region",
		LastUpdate: "Last Update",
	}
	// Current is the underscore layout used from late March 2020 on.
	Current = Schema{
		Name:       "current",
		State:      "Province_State",
		Country:    "Country_Region",
		LastUpdate: "Last_Update",
	}

	schemas = []Schema{Legacy, Current}
)

// Count columns share their names across both layouts.
const (
	colConfirmed = "Confirmed"
	colDeaths    = "Deaths"
	colRecovered = "Recovered"
)

// columns holds resolved header indices; -1 means absent.
type columns struct {
	state, country, lastUpdate   int
	confirmed, deaths, recovered int
}

// DetectSchema returns the layout whose state, country and last-update columns are all present.
func DetectSchema(header []string) (Schema, error) {
	idx := headerIndex(header)
	for _, s := range schemas {
		_, hasState := idx[s.State]
		_, hasCountry := idx[s.Country]
		_, hasUpdate := idx[s.LastUpdate]
		if hasState && hasCountry && hasUpdate {
			return s, nil
		}
	}
	return Schema{}, &SchemaError{Header: header}
}

func resolveColumns(s Schema, header []string) columns {
	idx := headerIndex(header)
	get := func(name string) int {
		if i, ok := idx[name]; ok {
			return i
		}
		return -1
	}
	return columns{
		state:      get(s.State),
		country:    get(s.Country),
		lastUpdate: get(s.LastUpdate),
		confirmed:  get(colConfirmed),
		deaths:     get(colDeaths),
		recovered:  get(colRecovered),
	}
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

// field returns record[i], or "" when the column is absent or the row is short.
func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
