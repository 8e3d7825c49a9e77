package tui

import (
	_ "embed"

	"github.com/charmbracelet/glamour"

	"film-map-cli/logging"
)

//go:embed about.md
var aboutMarkdown string

const defaultAboutWidth = 80

func renderAbout(width int) string {
	if width <= 0 {
		width = defaultAboutWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(24, width-4)),
	)
	if err != nil {
		logging.Error(err)
		return aboutMarkdown
	}
	out, err := r.Render(aboutMarkdown)
	if err != nil {
		logging.Error(err)
		return aboutMarkdown
	}
	return out
}
