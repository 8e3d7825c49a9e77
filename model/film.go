package model

import (
	"strconv"
	"strings"
)

// Film is one catalog entry: the film chosen for a region.
type Film struct {
	RegionCode    string `json:"stateCode"`
	RegionName    string `json:"state"`
	Title         string `json:"title"`
	Year          int    `json:"year"`
	OriginalTitle string `json:"originalTitle,omitempty"`
	Reviewer      string `json:"reviewer,omitempty"`

	PosterURL string `json:"image,omitempty"`
	FlagURL   string `json:"flag,omitempty"`

	IMDbID             string `json:"imdb,omitempty"`
	LetterboxdSlug     string `json:"letterboxd,omitempty"`
	RottenTomatoesSlug string `json:"rottenTomatoes,omitempty"`
	WikipediaSlug      string `json:"wikipedia,omitempty"`
	JustWatchSlug      string `json:"justwatch,omitempty"`
	TrailerID          string `json:"trailer,omitempty"`
	ReviewID           string `json:"review,omitempty"`

	// AssignedColour is set once when the catalog is loaded.
	AssignedColour string `json:"-"`
}

// TitleAndYear formats the film as "Title (Year)".
func (f Film) TitleAndYear() string {
	return f.Title + " (" + strconv.Itoa(f.Year) + ")"
}

// Has reports whether an optional field carries a value.
func Has(value string) bool {
	return strings.TrimSpace(value) != ""
}
