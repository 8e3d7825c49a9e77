package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"film-map-cli/viewstate"
)

const flagMarker = "⚑"

// entrySink collects the entries the controller writes into a list
// container. It lives on the heap so model copies share it.
type entrySink struct {
	entries []viewstate.Entry
}

func (s *entrySink) Clear() {
	s.entries = nil
}

func (s *entrySink) Append(entry viewstate.Entry) {
	s.entries = append(s.entries, entry)
}

type entryItem struct {
	entry    viewstate.Entry
	showFlag bool
}

func (e entryItem) Title() string       { return e.entry.Label }
func (e entryItem) Description() string { return e.entry.Tip }
func (e entryItem) FilterValue() string { return e.entry.Label + " " + e.entry.Tip }

func buildEntryItems(entries []viewstate.Entry, flagOK func(ref string) bool) []list.Item {
	items := make([]list.Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entryItem{
			entry:    entry,
			showFlag: strings.TrimSpace(entry.FlagURL) != "" && flagOK(entry.FlagURL),
		})
	}
	return items
}

// entryDelegate draws an entry as a colour swatch, its label and, below,
// the tip.
type entryDelegate struct{}

func (entryDelegate) Height() int                             { return 2 }
func (entryDelegate) Spacing() int                            { return 1 }
func (entryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(entryItem)
	if !ok {
		return
	}
	cursor := "  "
	labelStyle := lipgloss.NewStyle()
	if index == m.Index() {
		cursor = "> "
		labelStyle = labelStyle.Bold(true)
	}
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(it.entry.Colour)).Render("  ")
	label := it.entry.Label
	if it.showFlag {
		label += " " + flagMarker
	}
	fmt.Fprintf(w, "%s%s %s\n     %s", cursor, swatch, labelStyle.Render(label), hint(it.entry.Tip))
}

func newList(title string) list.Model {
	l := list.New([]list.Item{}, entryDelegate{}, 0, 0)
	l.Title = title
	l.Filter = fuzzyFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.FilterInput.Prompt = "Filter: "
	return l
}

// fuzzyFilter ranks targets by fuzzy distance to term, ignoring case and
// diacritics. Ties keep list order.
func fuzzyFilter(term string, targets []string) []list.Rank {
	term = strings.TrimSpace(term)
	if term == "" {
		ranks := make([]list.Rank, len(targets))
		for i := range targets {
			ranks[i] = list.Rank{Index: i}
		}
		return ranks
	}
	matches := fuzzy.RankFindNormalizedFold(term, targets)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].OriginalIndex < matches[j].OriginalIndex
	})
	ranks := make([]list.Rank, 0, len(matches))
	for _, match := range matches {
		ranks = append(ranks, list.Rank{Index: match.OriginalIndex})
	}
	return ranks
}
