// Package regionmap provides the region map capability and its terminal
// implementation: a tile grid coloured per region.
package regionmap

import (
	"github.com/charmbracelet/lipgloss"

	"film-map-cli/palette"
)

// Map is the capability the view controller drives. Implementations do
// not support in-place refresh beyond recolouring; callers destroy and
// recreate instead.
type Map interface {
	RegionIDs() []string
	SetRegionColours(colours map[string]string)
	Destroy()
}

// Options configures a new map instance.
type Options struct {
	Colours       map[string]string
	OnRegionClick func(regionID string)
	// OnRegionHover returns the tooltip for a region, if it has one.
	OnRegionHover func(regionID string) (string, bool)
}

// Factory constructs a map instance.
type Factory func(opts Options) Map

const (
	tileWidth  = 7
	tileHeight = 3
)

// TileMap renders regions as coloured tiles and tracks a cursor standing
// in for the mouse: the cursor tile is the hovered region.
type TileMap struct {
	layout    []Region
	colours   map[string]string
	opts      Options
	cursor    int
	destroyed bool
}

// NewTileMap builds a map over layout.
func NewTileMap(layout []Region, opts Options) *TileMap {
	m := &TileMap{
		layout:  append([]Region(nil), layout...),
		colours: map[string]string{},
		opts:    opts,
	}
	m.SetRegionColours(opts.Colours)
	return m
}

// CanadaFactory creates tile maps of Canada.
func CanadaFactory(opts Options) Map {
	return NewTileMap(Canada, opts)
}

func (m *TileMap) RegionIDs() []string {
	ids := make([]string, 0, len(m.layout))
	for _, r := range m.layout {
		ids = append(ids, r.ID)
	}
	return ids
}

// SetRegionColours replaces the colours of the listed regions.
func (m *TileMap) SetRegionColours(colours map[string]string) {
	if m.destroyed {
		return
	}
	for id, c := range colours {
		m.colours[id] = c
	}
}

// Destroy releases the instance. Further calls are no-ops.
func (m *TileMap) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.colours = map[string]string{}
	m.opts = Options{}
}

func (m *TileMap) Destroyed() bool {
	return m.destroyed
}

// Colour returns the colour currently painted on a region.
func (m *TileMap) Colour(regionID string) string {
	if c, ok := m.colours[regionID]; ok {
		return c
	}
	return palette.InactiveColour
}

// Current returns the region under the cursor.
func (m *TileMap) Current() (Region, bool) {
	if m.destroyed || len(m.layout) == 0 {
		return Region{}, false
	}
	return m.layout[m.cursor], true
}

// Focus moves the cursor to regionID.
func (m *TileMap) Focus(regionID string) bool {
	if m.destroyed {
		return false
	}
	for i, r := range m.layout {
		if r.ID == regionID {
			m.cursor = i
			return true
		}
	}
	return false
}

// Move steps the cursor to the nearest tile in the given direction.
// Tiles in the same row (or column) are preferred.
func (m *TileMap) Move(dx, dy int) bool {
	cur, ok := m.Current()
	if !ok || (dx == 0 && dy == 0) {
		return false
	}
	best, bestScore := -1, 0
	for i, r := range m.layout {
		dc, dr := r.Col-cur.Col, r.Row-cur.Row
		var along, across int
		switch {
		case dx != 0:
			along, across = dc*sign(dx), abs(dr)
		default:
			along, across = dr*sign(dy), abs(dc)
		}
		if along <= 0 {
			continue
		}
		score := along + across*3
		if best < 0 || score < bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return false
	}
	m.cursor = best
	return true
}

// Click reports a click on the cursor region.
func (m *TileMap) Click() {
	cur, ok := m.Current()
	if !ok || m.opts.OnRegionClick == nil {
		return
	}
	m.opts.OnRegionClick(cur.ID)
}

// Tooltip returns the hover text of the cursor region, or "".
func (m *TileMap) Tooltip() string {
	cur, ok := m.Current()
	if !ok || m.opts.OnRegionHover == nil {
		return ""
	}
	tip, ok := m.opts.OnRegionHover(cur.ID)
	if !ok {
		return ""
	}
	return tip
}

// View draws the tile grid.
func (m *TileMap) View() string {
	if m.destroyed {
		return ""
	}
	cols, rows := bounds(m.layout)
	grid := make([][]int, rows)
	for r := range grid {
		grid[r] = make([]int, cols)
		for c := range grid[r] {
			grid[r][c] = -1
		}
	}
	for i, region := range m.layout {
		grid[region.Row][region.Col] = i
	}

	blank := lipgloss.NewStyle().
		Width(tileWidth).
		Height(tileHeight).
		Background(lipgloss.Color(palette.MapBackground)).
		Render("")

	lines := make([]string, 0, rows)
	for r := 0; r < rows; r++ {
		cells := make([]string, 0, cols)
		for c := 0; c < cols; c++ {
			idx := grid[r][c]
			if idx < 0 {
				cells = append(cells, blank)
				continue
			}
			cells = append(cells, m.renderTile(idx))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *TileMap) renderTile(idx int) string {
	region := m.layout[idx]
	label := region.Abbrev
	style := lipgloss.NewStyle().
		Width(tileWidth).
		Height(tileHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Background(lipgloss.Color(m.Colour(region.ID))).
		Foreground(lipgloss.Color("0"))
	if idx == m.cursor {
		label = "[" + label + "]"
		style = style.Bold(true).Foreground(lipgloss.Color("15"))
	}
	return style.Render(label)
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
