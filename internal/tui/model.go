package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"eventpage/internal/content"
	"eventpage/internal/metrics"
	"eventpage/internal/view"
)

// Layout, in terminal cells.
const (
	headerLines = 2 // title + back hint
	footerLines = 1 // key help
	marginX     = 2
)

// cardRegion is the vertical span a summary card occupies on screen.
type cardRegion struct {
	top, bottom int // bottom exclusive
}

// Model is the bubbletea model. It uses a pointer receiver because the
// mounted EventView's effects call back into it (viewport reset).
type Model struct {
	catalog *content.Catalog
	metrics *metrics.Metrics

	bus    *view.PointerBus
	ev     *view.EventView
	cursor int

	width  int
	height int
	ready  bool

	viewport viewport.Model

	// scrollResets counts viewport resets; each entry into Detail adds one.
	scrollResets int
}

// NewModel builds a model over cat showing the summary list. m may be nil.
func NewModel(cat *content.Catalog, m *metrics.Metrics) *Model {
	if m == nil {
		m = metrics.New()
	}
	model := &Model{
		catalog: cat,
		metrics: m,
		bus:     view.NewPointerBus(),
	}
	model.mount(0)
	return model
}

// mount replaces the current EventView with one for record i.
func (m *Model) mount(i int) {
	if m.ev != nil {
		m.ev.Unmount()
		m.ev = nil
	}
	if m.catalog.Len() == 0 {
		return
	}
	m.cursor = i

	ev := view.New(m.catalog.Events[i], m.catalog.Gallery, m.bus, view.ScrollerFunc(m.scrollToTop))
	ev.Observe(func(from, to view.State) {
		m.metrics.Transitions.WithLabelValues(from.String(), to.String()).Inc()
		m.metrics.ActiveListeners.Set(float64(m.bus.Len()))
	})
	m.ev = ev
}

// scrollToTop resets the detail viewport. Terminals cannot animate, so
// a smooth request jumps as well.
func (m *Model) scrollToTop(_ bool) {
	m.viewport.GotoTop()
	m.scrollResets++
}

// State reports the mounted view's state; Summary when nothing is mounted.
func (m *Model) State() view.State {
	if m.ev == nil {
		return view.Summary
	}
	return m.ev.State()
}

// Close unmounts the current view, releasing its pointer listener.
func (m *Model) Close() {
	if m.ev != nil {
		m.ev.Unmount()
	}
	m.metrics.ActiveListeners.Set(float64(m.bus.Len()))
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Run starts the terminal UI and blocks until the user quits or ctx is
// canceled.
func Run(ctx context.Context, cat *content.Catalog, met *metrics.Metrics) error {
	m := NewModel(cat, met)
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
