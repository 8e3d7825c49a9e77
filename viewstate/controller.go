// Package viewstate tracks which top-level view is active and keeps the
// visible content consistent with it.
package viewstate

import (
	"film-map-cli/catalog"
	"film-map-cli/detail"
	"film-map-cli/logging"
	"film-map-cli/model"
	"film-map-cli/palette"
	"film-map-cli/regionmap"
)

// Mode is the active top-level view.
type Mode int

const (
	ModeMap Mode = iota
	ModeListByRegion
	ModeListByTitle
	ModeAbout
)

var modeNames = map[Mode]string{
	ModeMap:          "map",
	ModeListByRegion: "list-by-region",
	ModeListByTitle:  "list-by-title",
	ModeAbout:        "about",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Modes lists the modes in navigation order.
func Modes() []Mode {
	return []Mode{ModeMap, ModeListByRegion, ModeListByTitle, ModeAbout}
}

// Section is a piece of content that can be shown or hidden.
type Section int

const (
	SectionNone Section = iota
	SectionMap
	SectionRegionList
	SectionTitleList
	SectionAbout
)

// Entry is one interactive row of a list container.
type Entry struct {
	RegionCode string
	Label      string
	Tip        string
	Colour     string
	FlagURL    string
}

// ListSink is a list container the controller fills.
type ListSink interface {
	Clear()
	Append(entry Entry)
}

// Options wires the controller to its collaborators.
type Options struct {
	NewMap     regionmap.Factory
	RegionList ListSink
	TitleList  ListSink
}

// Controller is the view-mode state machine. It owns the live map
// instance; at most one exists at a time.
type Controller struct {
	catalog *catalog.Catalog
	opts    Options

	mode    Mode
	started bool
	visible Section

	mapInst   regionmap.Map
	selection *detail.View
}

// New creates a controller over a loaded catalog. No view is active until
// Start or Activate is called.
func New(c *catalog.Catalog, opts Options) *Controller {
	return &Controller{catalog: c, opts: opts}
}

// Start enters the default view.
func (c *Controller) Start() {
	c.Activate(ModeMap)
}

// Activate switches to mode. Activating the current mode again rebuilds
// its content and leaves the same section visible.
func (c *Controller) Activate(mode Mode) {
	switch mode {
	case ModeMap:
		c.showMap()
		c.visible = SectionMap
	case ModeListByRegion:
		c.destroyMap()
		c.fillList(c.opts.RegionList, c.catalog.ByRegionName(), regionEntry)
		c.visible = SectionRegionList
	case ModeListByTitle:
		c.destroyMap()
		c.fillList(c.opts.TitleList, c.catalog.ByTitle(), titleEntry)
		c.visible = SectionTitleList
	case ModeAbout:
		c.destroyMap()
		c.visible = SectionAbout
	default:
		return
	}
	c.mode = mode
	c.started = true
	logging.Trace("view.activate", map[string]interface{}{"mode": mode.String()})
}

// Mode returns the active mode and whether any mode has been entered.
func (c *Controller) Mode() (Mode, bool) {
	return c.mode, c.started
}

// Visible returns the one section currently shown.
func (c *Controller) Visible() Section {
	return c.visible
}

// IsVisible reports whether section is shown.
func (c *Controller) IsVisible(section Section) bool {
	return section != SectionNone && c.visible == section
}

// ActiveMap returns the live map instance, or nil. Callers may use it
// within the current event only and must not keep it.
func (c *Controller) ActiveMap() regionmap.Map {
	return c.mapInst
}

// Select projects the film of regionCode. ok is false when the region has
// no film; that is not an error.
func (c *Controller) Select(regionCode string) (detail.View, bool) {
	film, ok := c.catalog.Get(regionCode)
	if !ok {
		return detail.View{}, false
	}
	v := detail.Project(film)
	logging.Trace("view.select", map[string]interface{}{"region": regionCode})
	return v, true
}

// TakeSelection returns and clears the detail view requested by the last
// map click.
func (c *Controller) TakeSelection() (detail.View, bool) {
	if c.selection == nil {
		return detail.View{}, false
	}
	v := *c.selection
	c.selection = nil
	return v, true
}

// Hover returns the map tooltip for regionCode.
func (c *Controller) Hover(regionCode string) (string, bool) {
	film, ok := c.catalog.Get(regionCode)
	if !ok {
		return "", false
	}
	return film.RegionName + ": " + film.TitleAndYear(), true
}

// RegionColours builds the colour table for every region of the live map.
func (c *Controller) RegionColours() map[string]string {
	if c.mapInst == nil {
		return nil
	}
	return palette.RegionColourTable(c.mapInst.RegionIDs(), c.catalog.Get)
}

// Close destroys the live map, if any.
func (c *Controller) Close() {
	c.destroyMap()
}

func (c *Controller) showMap() {
	c.destroyMap()
	if c.opts.NewMap == nil {
		return
	}
	c.mapInst = c.opts.NewMap(regionmap.Options{
		OnRegionClick: c.handleRegionClick,
		OnRegionHover: c.Hover,
	})
	if c.mapInst == nil {
		return
	}
	c.mapInst.SetRegionColours(c.RegionColours())
}

func (c *Controller) handleRegionClick(regionCode string) {
	v, ok := c.Select(regionCode)
	if !ok {
		return
	}
	c.selection = &v
}

func (c *Controller) destroyMap() {
	if c.mapInst == nil {
		return
	}
	c.mapInst.Destroy()
	c.mapInst = nil
}

func (c *Controller) fillList(sink ListSink, films []model.Film, entry func(model.Film) Entry) {
	if sink == nil {
		return
	}
	sink.Clear()
	for _, film := range films {
		sink.Append(entry(film))
	}
}

func regionEntry(film model.Film) Entry {
	return Entry{
		RegionCode: film.RegionCode,
		Label:      film.RegionName,
		Tip:        film.TitleAndYear(),
		Colour:     film.AssignedColour,
		FlagURL:    film.FlagURL,
	}
}

func titleEntry(film model.Film) Entry {
	return Entry{
		RegionCode: film.RegionCode,
		Label:      film.TitleAndYear(),
		Tip:        film.RegionName,
		Colour:     film.AssignedColour,
		FlagURL:    film.FlagURL,
	}
}
