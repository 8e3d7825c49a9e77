package regionmap

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Region is one tile of the map.
type Region struct {
	ID     string
	Name   string
	Abbrev string
	Col    int
	Row    int
}

// Canada lays out the provinces and territories as a tile grid. IDs match
// the region codes used by the dataset.
var Canada = []Region{
	{ID: "CA-YT", Name: "Yukon", Abbrev: "YT", Col: 1, Row: 0},
	{ID: "CA-NT", Name: "Northwest Territories", Abbrev: "NT", Col: 2, Row: 0},
	{ID: "CA-NU", Name: "Nunavut", Abbrev: "NU", Col: 3, Row: 0},
	{ID: "CA-BC", Name: "British Columbia", Abbrev: "BC", Col: 0, Row: 1},
	{ID: "CA-AB", Name: "Alberta", Abbrev: "AB", Col: 1, Row: 1},
	{ID: "CA-SK", Name: "Saskatchewan", Abbrev: "SK", Col: 2, Row: 1},
	{ID: "CA-MB", Name: "Manitoba", Abbrev: "MB", Col: 3, Row: 1},
	{ID: "CA-ON", Name: "Ontario", Abbrev: "ON", Col: 4, Row: 1},
	{ID: "CA-QC", Name: "Quebec", Abbrev: "QC", Col: 5, Row: 1},
	{ID: "CA-NL", Name: "Newfoundland and Labrador", Abbrev: "NL", Col: 6, Row: 1},
	{ID: "CA-NB", Name: "New Brunswick", Abbrev: "NB", Col: 5, Row: 2},
	{ID: "CA-PE", Name: "Prince Edward Island", Abbrev: "PE", Col: 6, Row: 2},
	{ID: "CA-NS", Name: "Nova Scotia", Abbrev: "NS", Col: 7, Row: 2},
}

// ResolveRegion finds the region matching an id, abbreviation or name.
// Case and accents are ignored, so "Québec" resolves to CA-QC.
func ResolveRegion(layout []Region, value string) (Region, bool) {
	needle := foldName(value)
	if needle == "" {
		return Region{}, false
	}
	for _, r := range layout {
		if needle == foldName(r.ID) || needle == foldName(r.Abbrev) || needle == foldName(r.Name) {
			return r, true
		}
	}
	return Region{}, false
}

func foldName(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(value))
	if err != nil {
		folded = strings.TrimSpace(value)
	}
	return strings.ToLower(folded)
}

func bounds(layout []Region) (cols int, rows int) {
	for _, r := range layout {
		cols = max(cols, r.Col+1)
		rows = max(rows, r.Row+1)
	}
	return cols, rows
}
