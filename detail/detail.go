// Package detail turns a film into the fields shown by the detail panel.
package detail

import (
	"strconv"
	"strings"

	"film-map-cli/model"
)

// LinkKind identifies one of the external links.
type LinkKind int

const (
	LinkIMDb LinkKind = iota
	LinkLetterboxd
	LinkRottenTomatoes
	LinkWikipedia
	LinkJustWatch
	LinkTrailer
	LinkReview
)

const (
	imdbTemplate           = "https://www.imdb.com/title/{0}/"
	letterboxdTemplate     = "https://letterboxd.com/film/{0}/"
	rottenTomatoesTemplate = "https://www.rottentomatoes.com/m/{0}"
	wikipediaTemplate      = "https://en.wikipedia.org/wiki/{0}"
	justWatchTemplate      = "https://www.justwatch.com/uk/movie/{0}"
	youTubeTemplate        = "https://www.youtube.com/watch?v={0}"
)

var linkLabels = map[LinkKind]string{
	LinkIMDb:           "IMDb",
	LinkLetterboxd:     "Letterboxd",
	LinkRottenTomatoes: "Rotten Tomatoes",
	LinkWikipedia:      "Wikipedia",
	LinkJustWatch:      "JustWatch",
	LinkTrailer:        "Trailer",
	LinkReview:         "Review",
}

func (k LinkKind) String() string {
	if label, ok := linkLabels[k]; ok {
		return label
	}
	return "Link"
}

// Link is an external link; URL is empty when the link is hidden.
type Link struct {
	Kind    LinkKind
	Label   string
	URL     string
	Visible bool
}

// Image references an optional picture.
type Image struct {
	URL     string
	Alt     string
	Visible bool
}

// View is everything the detail panel needs to draw one film.
type View struct {
	RegionCode string
	RegionName string
	Title      string
	Year       int
	Accent     string

	// Flag is shown when a URL is present; a URL that fails to load is
	// hidden by the consumer.
	Flag Image

	Poster Image
	// DefaultImage is set when there is no poster to show.
	DefaultImage bool

	OriginalTitle     string
	ShowOriginalTitle bool

	Links    []Link
	Reviewer string
}

// Project maps film into its detail view. It performs no I/O.
func Project(film model.Film) View {
	hasPoster := model.Has(film.PosterURL)
	v := View{
		RegionCode: film.RegionCode,
		RegionName: film.RegionName,
		Title:      film.Title,
		Year:       film.Year,
		Accent:     film.AssignedColour,
		Flag: Image{
			URL:     film.FlagURL,
			Alt:     "Flag of " + film.RegionName,
			Visible: model.Has(film.FlagURL),
		},
		Poster: Image{
			URL:     film.PosterURL,
			Alt:     "Movie poster for " + film.TitleAndYear(),
			Visible: hasPoster,
		},
		DefaultImage:      !hasPoster,
		OriginalTitle:     film.OriginalTitle,
		ShowOriginalTitle: model.Has(film.OriginalTitle),
		Reviewer:          film.Reviewer,
	}
	v.Links = []Link{
		newLink(LinkIMDb, imdbTemplate, film.IMDbID),
		newLink(LinkLetterboxd, letterboxdTemplate, film.LetterboxdSlug),
		newLink(LinkRottenTomatoes, rottenTomatoesTemplate, film.RottenTomatoesSlug),
		newLink(LinkWikipedia, wikipediaTemplate, film.WikipediaSlug),
		newLink(LinkJustWatch, justWatchTemplate, film.JustWatchSlug),
		newLink(LinkTrailer, youTubeTemplate, film.TrailerID),
		newLink(LinkReview, youTubeTemplate, film.ReviewID),
	}
	return v
}

// Link returns the link of the given kind.
func (v View) Link(kind LinkKind) Link {
	for _, l := range v.Links {
		if l.Kind == kind {
			return l
		}
	}
	return Link{Kind: kind, Label: kind.String()}
}

// VisibleLinks returns the links to show, in display order.
func (v View) VisibleLinks() []Link {
	out := make([]Link, 0, len(v.Links))
	for _, l := range v.Links {
		if l.Visible {
			out = append(out, l)
		}
	}
	return out
}

// Heading is the "Title (Year)" line.
func (v View) Heading() string {
	return v.Title + " (" + strconv.Itoa(v.Year) + ")"
}

func newLink(kind LinkKind, template string, id string) Link {
	id = strings.TrimSpace(id)
	link := Link{Kind: kind, Label: kind.String()}
	if id == "" {
		return link
	}
	link.URL = formatTemplate(template, id)
	link.Visible = true
	return link
}

// formatTemplate replaces {0}, {1}, ... with the matching argument.
func formatTemplate(template string, args ...string) string {
	if len(args) == 0 {
		return template
	}
	pairs := make([]string, 0, len(args)*2)
	for i, arg := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", arg)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
