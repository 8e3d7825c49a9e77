// Package catalog holds the films loaded at startup and the sorted views
// derived from them. A Catalog is read-only once Load returns it.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"film-map-cli/logging"
	"film-map-cli/model"
)

// Source fetches the raw film records.
type Source interface {
	Fetch(ctx context.Context) ([]model.Film, error)
}

// ColourAssigner picks the display colour for a film.
type ColourAssigner interface {
	Assign() string
}

// LoadError is returned when the data source cannot be fetched or parsed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e == nil || e.Err == nil {
		return "load films failed"
	}
	if e.Source == "" {
		return fmt.Sprintf("load films: %v", e.Err)
	}
	return fmt.Sprintf("load films from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsLoadFailure reports whether err came from a failed catalog load.
func IsLoadFailure(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr)
}

// Catalog indexes films by region code and keeps two sorted projections.
type Catalog struct {
	byRegionCode       map[string]model.Film
	sortedByRegionName []model.Film
	sortedByTitle      []model.Film
}

// Load fetches the records once, colours them and builds the catalog.
// Nothing is returned on failure.
func Load(ctx context.Context, source Source, assigner ColourAssigner) (*Catalog, error) {
	name := sourceName(source)
	if source == nil {
		return nil, &LoadError{Source: name, Err: errors.New("no data source configured")}
	}
	if assigner == nil {
		return nil, &LoadError{Source: name, Err: errors.New("no colour assigner configured")}
	}

	records, err := source.Fetch(ctx)
	if err != nil {
		logging.Error(fmt.Errorf("catalog load: %w", err))
		return nil, &LoadError{Source: name, Err: err}
	}

	films := make([]model.Film, 0, len(records))
	for _, record := range records {
		record.AssignedColour = assigner.Assign()
		films = append(films, record)
	}
	c := New(films...)
	logging.Trace("catalog.load", map[string]interface{}{
		"source":  name,
		"records": len(records),
		"films":   c.Len(),
	})
	return c, nil
}

// New builds a catalog from films that already carry their colour.
// When two films share a region code the later one wins.
func New(films ...model.Film) *Catalog {
	c := &Catalog{byRegionCode: make(map[string]model.Film, len(films))}
	for _, film := range films {
		if _, dup := c.byRegionCode[film.RegionCode]; dup {
			logging.Trace("catalog.duplicate_region", map[string]interface{}{
				"region": film.RegionCode,
				"title":  film.Title,
			})
		}
		c.byRegionCode[film.RegionCode] = film
	}

	unique := dedupeByRegion(films)
	c.sortedByRegionName = SortBy(unique, regionNameKey)
	c.sortedByTitle = SortBy(unique, titleSortKey, titleKey)
	return c
}

// Get returns the film for regionCode; ok is false when the region has none.
func (c *Catalog) Get(regionCode string) (model.Film, bool) {
	if c == nil {
		return model.Film{}, false
	}
	film, ok := c.byRegionCode[regionCode]
	return film, ok
}

// Len is the number of films.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byRegionCode)
}

// ByRegionName returns the films ordered by region name.
func (c *Catalog) ByRegionName() []model.Film {
	if c == nil {
		return nil
	}
	return append([]model.Film(nil), c.sortedByRegionName...)
}

// ByTitle returns the films ordered by title, ignoring a leading article.
func (c *Catalog) ByTitle() []model.Film {
	if c == nil {
		return nil
	}
	return append([]model.Film(nil), c.sortedByTitle...)
}

// dedupeByRegion keeps the last film seen for each region code.
func dedupeByRegion(films []model.Film) []model.Film {
	seen := make(map[string]int, len(films))
	out := make([]model.Film, 0, len(films))
	for _, film := range films {
		if i, ok := seen[film.RegionCode]; ok {
			out[i] = film
			continue
		}
		seen[film.RegionCode] = len(out)
		out = append(out, film)
	}
	return out
}

func sourceName(source Source) string {
	if s, ok := source.(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}
