package tui

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"film-map-cli/catalog"
	"film-map-cli/detail"
	"film-map-cli/logging"
	"film-map-cli/palette"
	"film-map-cli/regionmap"
	"film-map-cli/service"
	"film-map-cli/viewstate"
)

const (
	probeTimeout  = 6 * time.Second
	locateTimeout = 10 * time.Second
)

type appState int

const (
	stateLoading appState = iota
	stateReady
	stateError
)

// Options configures the application.
type Options struct {
	Source   catalog.Source
	Assigner catalog.ColourAssigner
	// SourceName is the configured source; relative image references resolve
	// against it.
	SourceName string
	HTTPClient *http.Client
	NewMap     regionmap.Factory

	Probe  func(ctx context.Context, ref string) error
	Locate func(ctx context.Context) (service.UserLocation, error)
}

type assetState int

const (
	assetPending assetState = iota + 1
	assetOK
	assetBroken
)

type appModel struct {
	opts Options

	state appState
	err   error

	width  int
	height int

	ctrl  *viewstate.Controller
	films *catalog.Catalog

	regionSink *entrySink
	titleSink  *entrySink
	regionList list.Model
	titleList  list.Model

	about viewport.Model
	modal *detailModal

	assets map[string]assetState

	status  string
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

type errMsg struct {
	err error
}

type catalogMsg struct {
	catalog *catalog.Catalog
	err     error
}

type assetMsg struct {
	ref string
	err error
}

type locationMsg struct {
	location service.UserLocation
	err      error
}

func New(opts Options) tea.Model {
	if opts.Assigner == nil {
		opts.Assigner = palette.NewAssigner(0)
	}
	if opts.NewMap == nil {
		opts.NewMap = regionmap.CanadaFactory
	}
	if opts.Probe == nil {
		client, source := opts.HTTPClient, opts.SourceName
		opts.Probe = func(ctx context.Context, ref string) error {
			return service.ProbeAsset(ctx, client, ref, source)
		}
	}
	if opts.Locate == nil {
		client := opts.HTTPClient
		opts.Locate = func(ctx context.Context) (service.UserLocation, error) {
			return service.DetectRegion(ctx, client)
		}
	}

	m := appModel{
		opts:       opts,
		state:      stateLoading,
		regionSink: &entrySink{},
		titleSink:  &entrySink{},
		regionList: newList("Films by region"),
		titleList:  newList("Films by title"),
		about:      viewport.New(defaultAboutWidth, 20),
		assets:     make(map[string]assetState),
		help:       help.New(),
		keys:       newKeyMap(),
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(palette.ActiveColours[0]))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.loadCatalogCmd(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, m.quit()
		}
		switch m.state {
		case stateReady:
			return m.handleKey(msg)
		default:
			if key.Matches(msg, m.keys.Quit) || msg.Type == tea.KeyEsc {
				return m, m.quit()
			}
			return m, nil
		}

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case catalogMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.films = msg.catalog
		m.ctrl = viewstate.New(msg.catalog, viewstate.Options{
			NewMap:     m.opts.NewMap,
			RegionList: m.regionSink,
			TitleList:  m.titleSink,
		})
		m.ctrl.Start()
		m.state = stateReady
		return m, m.probeFlagsCmd()

	case assetMsg:
		if msg.err != nil {
			m.assets[msg.ref] = assetBroken
			logging.Trace("asset.broken", map[string]interface{}{"ref": msg.ref, "error": msg.err.Error()})
		} else {
			m.assets[msg.ref] = assetOK
		}
		m.refreshLists()
		return m, nil

	case locationMsg:
		if msg.err != nil {
			logging.Error(msg.err)
			m.status = "Could not detect your region."
			return m, nil
		}
		m.status = m.focusLocation(msg.location)
		return m, nil

	case statusMsg:
		m.status = msg.text
		return m, nil

	case errMsg:
		logging.Error(msg.err)
		m.status = "Error: " + msg.err.Error()
		return m, nil
	}

	return m.updateActive(msg)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		return m.handleModalKey(msg)
	}
	if l := m.activeList(); l != nil && l.FilterState() == list.Filtering {
		return m.updateActive(msg)
	}
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Map):
		m.activate(viewstate.ModeMap)
		return m, nil
	case key.Matches(msg, m.keys.Regions):
		m.activate(viewstate.ModeListByRegion)
		return m, nil
	case key.Matches(msg, m.keys.Titles):
		m.activate(viewstate.ModeListByTitle)
		return m, nil
	case key.Matches(msg, m.keys.About):
		m.activate(viewstate.ModeAbout)
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.activate(m.cycleMode(1))
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.activate(m.cycleMode(-1))
		return m, nil
	}

	switch m.ctrl.Visible() {
	case viewstate.SectionMap:
		return m.handleMapKey(msg)
	case viewstate.SectionRegionList, viewstate.SectionTitleList:
		if key.Matches(msg, m.keys.Select) {
			return m.selectListEntry()
		}
	}
	return m.updateActive(msg)
}

func (m appModel) handleMapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tm := m.tileMap()
	if tm == nil {
		return m, nil
	}
	switch msg.String() {
	case "up":
		tm.Move(0, -1)
	case "down":
		tm.Move(0, 1)
	case "left":
		tm.Move(-1, 0)
	case "right":
		tm.Move(1, 0)
	case "enter":
		tm.Click()
		if v, ok := m.ctrl.TakeSelection(); ok {
			return m.showDetail(v)
		}
		if cur, ok := tm.Current(); ok {
			m.status = cur.Name + " has no film yet."
		}
	case "l":
		m.status = "Detecting your region..."
		return m, m.locateCmd()
	}
	return m, nil
}

func (m appModel) selectListEntry() (tea.Model, tea.Cmd) {
	l := m.activeList()
	if l == nil {
		return m, nil
	}
	it, ok := l.SelectedItem().(entryItem)
	if !ok {
		return m, nil
	}
	v, ok := m.ctrl.Select(it.entry.RegionCode)
	if !ok {
		return m, nil
	}
	return m.showDetail(v)
}

// showDetail opens the modal on v and probes its images.
func (m appModel) showDetail(v detail.View) (tea.Model, tea.Cmd) {
	m.modal = newDetailModal(v)
	var cmds []tea.Cmd
	for _, ref := range []string{v.Flag.URL, v.Poster.URL} {
		if cmd := m.probeCmd(ref); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *appModel) activate(mode viewstate.Mode) {
	m.modal = nil
	m.ctrl.Activate(mode)
	switch mode {
	case viewstate.ModeListByRegion:
		m.regionList.ResetFilter()
		m.regionList.Select(0)
	case viewstate.ModeListByTitle:
		m.titleList.ResetFilter()
		m.titleList.Select(0)
	case viewstate.ModeAbout:
		m.about.SetContent(renderAbout(m.width))
		m.about.GotoTop()
	}
	m.refreshLists()
}

func (m appModel) cycleMode(delta int) viewstate.Mode {
	modes := viewstate.Modes()
	current, _ := m.ctrl.Mode()
	for i, mode := range modes {
		if mode == current {
			return modes[(i+delta+len(modes))%len(modes)]
		}
	}
	return modes[0]
}

func (m appModel) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state != stateReady {
		return m, nil
	}
	var cmd tea.Cmd
	switch m.ctrl.Visible() {
	case viewstate.SectionRegionList:
		m.regionList, cmd = m.regionList.Update(msg)
	case viewstate.SectionTitleList:
		m.titleList, cmd = m.titleList.Update(msg)
	case viewstate.SectionAbout:
		m.about, cmd = m.about.Update(msg)
	}
	return m, cmd
}

func (m *appModel) activeList() *list.Model {
	if m.ctrl == nil {
		return nil
	}
	switch m.ctrl.Visible() {
	case viewstate.SectionRegionList:
		return &m.regionList
	case viewstate.SectionTitleList:
		return &m.titleList
	default:
		return nil
	}
}

// tileMap borrows the live map for the current event.
func (m appModel) tileMap() *regionmap.TileMap {
	if m.ctrl == nil {
		return nil
	}
	tm, _ := m.ctrl.ActiveMap().(*regionmap.TileMap)
	return tm
}

func (m *appModel) refreshLists() {
	m.regionList.SetItems(buildEntryItems(m.regionSink.entries, m.assetUsable))
	m.titleList.SetItems(buildEntryItems(m.titleSink.entries, m.assetUsable))
}

func (m *appModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.regionList.SetSize(m.width, h)
	m.titleList.SetSize(m.width, h)
	m.about.Width = m.width
	m.about.Height = h
	if m.ctrl != nil && m.ctrl.IsVisible(viewstate.SectionAbout) {
		m.about.SetContent(renderAbout(m.width))
	}
}

func (m appModel) focusLocation(loc service.UserLocation) string {
	if cc := strings.ToUpper(strings.TrimSpace(loc.CountryCode)); cc != "" && cc != "CA" {
		return fmt.Sprintf("You appear to be in %s, outside the map.", nonEmpty(loc.Country, cc))
	}
	region, ok := regionmap.ResolveRegion(regionmap.Canada, loc.RegionCode)
	if !ok {
		region, ok = regionmap.ResolveRegion(regionmap.Canada, loc.Region)
	}
	if !ok {
		return fmt.Sprintf("No map region matches %q.", loc.Region)
	}
	if tm := m.tileMap(); tm != nil {
		tm.Focus(region.ID)
	}
	return "You are in " + region.Name + "."
}

func (m appModel) assetUsable(ref string) bool {
	return m.assets[m.resolve(ref)] != assetBroken
}

func (m appModel) resolve(ref string) string {
	return service.ResolveAsset(ref, m.opts.SourceName)
}

func (m appModel) quit() tea.Cmd {
	if m.ctrl != nil {
		m.ctrl.Close()
	}
	return tea.Quit
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoading:
		return header + "\n\n" + fmt.Sprintf("%s Loading films\n\n%s", m.spinner.View(), hint("Fetching data..."))
	case stateError:
		return header + "\n\n" +
			lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error()) +
			"\n\n" + hint("Press q to quit.")
	}

	body := m.bodyView()
	if m.modal != nil {
		body = m.modalView()
		if m.width > 0 && m.height > 0 {
			body = lipgloss.Place(m.width, max(m.height-6, 0), lipgloss.Center, lipgloss.Center, body)
		}
	}
	footer := m.help.ShortHelpView(m.bindings())
	if m.status != "" {
		footer = m.status + "\n" + footer
	}
	return header + "\n\n" + body + "\n\n" + footer
}

func (m appModel) bodyView() string {
	switch m.ctrl.Visible() {
	case viewstate.SectionMap:
		return m.mapView()
	case viewstate.SectionRegionList:
		return m.regionList.View()
	case viewstate.SectionTitleList:
		return m.titleList.View()
	case viewstate.SectionAbout:
		return m.about.View()
	default:
		return ""
	}
}

func (m appModel) mapView() string {
	tm := m.tileMap()
	if tm == nil {
		return ""
	}
	tip := tm.Tooltip()
	if tip == "" {
		if cur, ok := tm.Current(); ok {
			tip = hint(cur.Name + ": no film yet")
		}
	} else {
		tip = lipgloss.NewStyle().Bold(true).Render(tip)
	}
	legend := hint(fmt.Sprintf("%d of %d regions have a film", m.films.Len(), len(tm.RegionIDs())))
	return tm.View() + "\n\n" + tip + "\n" + legend
}

var modeLabels = map[viewstate.Mode]string{
	viewstate.ModeMap:          "Map",
	viewstate.ModeListByRegion: "By region",
	viewstate.ModeListByTitle:  "By title",
	viewstate.ModeAbout:        "About",
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Film Map")
	if m.state != stateReady {
		return title
	}
	current, _ := m.ctrl.Mode()
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color(palette.ActiveColours[0])).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().Faint(true).Padding(0, 1)

	tabs := make([]string, 0, len(viewstate.Modes()))
	for _, mode := range viewstate.Modes() {
		if mode == current {
			tabs = append(tabs, active.Render(modeLabels[mode]))
		} else {
			tabs = append(tabs, inactive.Render(modeLabels[mode]))
		}
	}
	meta := ""
	if m.opts.SourceName != "" {
		meta = "\n" + hint(fmt.Sprintf("%d films • source: %s", m.films.Len(), m.opts.SourceName))
	}
	return title + "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + meta
}

func (m appModel) bindings() []key.Binding {
	nav := []key.Binding{m.keys.Map, m.keys.Regions, m.keys.Titles, m.keys.About}
	switch m.ctrl.Visible() {
	case viewstate.SectionMap:
		return append([]key.Binding{m.keys.Move, m.keys.Select, m.keys.Locate}, append(nav, m.keys.Quit)...)
	case viewstate.SectionRegionList, viewstate.SectionTitleList:
		return append([]key.Binding{m.keys.Select, m.keys.Filter}, append(nav, m.keys.Quit)...)
	case viewstate.SectionAbout:
		return append([]key.Binding{m.keys.Scroll}, append(nav, m.keys.Quit)...)
	}
	return append(nav, m.keys.Quit)
}

func (m appModel) loadCatalogCmd() tea.Cmd {
	source, assigner := m.opts.Source, m.opts.Assigner
	return func() tea.Msg {
		c, err := catalog.Load(context.Background(), source, assigner)
		return catalogMsg{catalog: c, err: err}
	}
}

// probeFlagsCmd checks every distinct flag once.
func (m appModel) probeFlagsCmd() tea.Cmd {
	var cmds []tea.Cmd
	for _, film := range m.films.ByRegionName() {
		if cmd := m.probeCmd(film.FlagURL); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// probeCmd returns nil when ref is empty or was already checked.
func (m appModel) probeCmd(ref string) tea.Cmd {
	if strings.TrimSpace(ref) == "" {
		return nil
	}
	resolved := m.resolve(ref)
	if _, seen := m.assets[resolved]; seen {
		return nil
	}
	m.assets[resolved] = assetPending
	probe := m.opts.Probe
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		return assetMsg{ref: resolved, err: probe(ctx, ref)}
	}
}

func (m appModel) locateCmd() tea.Cmd {
	locate := m.opts.Locate
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), locateTimeout)
		defer cancel()
		location, err := locate(ctx)
		if err != nil {
			return locationMsg{err: fmt.Errorf("failed to detect current region: %w", err)}
		}
		return locationMsg{location: location}
	}
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func nonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var openURLFn = openURL

func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := openURLFn(url); err != nil {
			return errMsg{err: err}
		}
		return statusMsg{text: "Opened " + url}
	}
}

func openURL(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return fmt.Errorf("unsupported OS for opening browser: %s", runtime.GOOS)
	}
}
