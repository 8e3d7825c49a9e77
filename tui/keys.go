package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Map       key.Binding
	Regions   key.Binding
	Titles    key.Binding
	About     key.Binding
	Next      key.Binding
	Prev      key.Binding
	Move      key.Binding
	Select    key.Binding
	Locate    key.Binding
	Filter    key.Binding
	LinkUp    key.Binding
	LinkDown  key.Binding
	OpenLink  key.Binding
	Copy      key.Binding
	Poster    key.Binding
	Scroll    key.Binding
	Close     key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Map:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "map")),
		Regions:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "by region")),
		Titles:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "by title")),
		About:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "about")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab")),
		Move:      key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("←↑↓→", "move")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Locate:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "find my region")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		LinkUp:    key.NewBinding(key.WithKeys("up", "k")),
		LinkDown:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↑/↓", "choose link")),
		OpenLink:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter/1-9", "open link")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy url")),
		Poster:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "open poster")),
		Scroll:    key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑/↓", "scroll")),
		Close:     key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}
