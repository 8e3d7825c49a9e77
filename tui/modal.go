package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"film-map-cli/detail"
)

const modalWidth = 56

var copyToClipboard = clipboard.WriteAll

// detailModal is the open detail panel and its link cursor.
type detailModal struct {
	view   detail.View
	links  []detail.Link
	cursor int
}

func newDetailModal(view detail.View) *detailModal {
	return &detailModal{view: view, links: view.VisibleLinks()}
}

func (d *detailModal) selected() (detail.Link, bool) {
	if d == nil || len(d.links) == 0 {
		return detail.Link{}, false
	}
	return d.links[d.cursor], true
}

func (d *detailModal) move(delta int) {
	if len(d.links) == 0 {
		return
	}
	d.cursor = (d.cursor + delta + len(d.links)) % len(d.links)
}

func (m appModel) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.modal = nil
		return m, nil
	case key.Matches(msg, m.keys.LinkUp):
		m.modal.move(-1)
		return m, nil
	case key.Matches(msg, m.keys.LinkDown):
		m.modal.move(1)
		return m, nil
	case key.Matches(msg, m.keys.OpenLink):
		if link, ok := m.modal.selected(); ok {
			return m, openURLCmd(link.URL)
		}
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		if link, ok := m.modal.selected(); ok {
			return m, copyCmd(link.URL)
		}
		return m, nil
	case key.Matches(msg, m.keys.Poster):
		if m.posterShown(m.modal.view) {
			return m, openURLCmd(m.resolve(m.modal.view.Poster.URL))
		}
		return m, nil
	}

	if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.modal.links) {
		m.modal.cursor = n - 1
		return m, openURLCmd(m.modal.links[n-1].URL)
	}
	return m, nil
}

func (m appModel) flagShown(v detail.View) bool {
	return v.Flag.Visible && m.assetUsable(v.Flag.URL)
}

func (m appModel) posterShown(v detail.View) bool {
	return v.Poster.Visible && m.assetUsable(v.Poster.URL)
}

func (m appModel) modalView() string {
	if m.modal == nil {
		return ""
	}
	v := m.modal.view
	accent := lipgloss.Color(v.Accent)

	heading := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(accent).
		Padding(0, 1).
		Width(modalWidth - 4).
		Render(v.Heading())

	region := v.RegionName
	if m.flagShown(v) {
		region = flagMarker + " " + region
	}
	lines := []string{heading, "", region}
	if v.ShowOriginalTitle {
		lines = append(lines, hint("Original title: ")+v.OriginalTitle)
	}
	lines = append(lines, "", m.posterBlock(v), "")

	if len(m.modal.links) == 0 {
		lines = append(lines, hint("No links for this film."))
	}
	for i, link := range m.modal.links {
		row := fmt.Sprintf("%d. %s", i+1, link.Label)
		if i == m.modal.cursor {
			row = lipgloss.NewStyle().Bold(true).Foreground(accent).Render("> " + row)
			row += "  " + hint(link.URL)
		} else {
			row = "  " + row
		}
		lines = append(lines, row)
	}
	if strings.TrimSpace(v.Reviewer) != "" {
		lines = append(lines, "", hint("Reviewed by ")+v.Reviewer)
	}
	lines = append(lines, "", m.help.ShortHelpView(m.modalBindings()))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(modalWidth).
		Render(strings.Join(lines, "\n"))
}

func (m appModel) posterBlock(v detail.View) string {
	frame := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("8")).
		Width(modalWidth - 8).
		Align(lipgloss.Center)
	if m.posterShown(v) {
		return frame.Render(v.Poster.Alt + "\n" + hint("p to open"))
	}
	return frame.Render(hint("No poster available"))
}

func (m appModel) modalBindings() []key.Binding {
	bindings := []key.Binding{m.keys.LinkDown, m.keys.OpenLink, m.keys.Copy}
	if m.posterShown(m.modal.view) {
		bindings = append(bindings, m.keys.Poster)
	}
	return append(bindings, m.keys.Close)
}

type statusMsg struct {
	text string
}

func copyCmd(value string) tea.Cmd {
	return func() tea.Msg {
		if err := copyToClipboard(value); err != nil {
			return errMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return statusMsg{text: "Copied " + value}
	}
}
