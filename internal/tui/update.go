package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"eventpage/internal/view"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(m.viewportWidth(), m.viewportHeight())
		m.ready = true
		if m.State() == view.Detail {
			m.refreshDetail()
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, keys.Back):
			if m.ev != nil {
				m.ev.ExitDetail()
			}
			return m, nil
		}
		if m.State() == view.Summary {
			m.updateSummaryKey(msg)
			return m, nil
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.pointerDown(view.Point{X: msg.X, Y: msg.Y})
			return m, nil
		}
	}

	if m.ready && m.State() == view.Detail {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) updateSummaryKey(msg tea.KeyMsg) {
	n := m.catalog.Len()
	if n == 0 {
		return
	}
	switch {
	case key.Matches(msg, keys.Up):
		m.mount((m.cursor - 1 + n) % n)
	case key.Matches(msg, keys.Down):
		m.mount((m.cursor + 1) % n)
	case key.Matches(msg, keys.Open):
		m.enterDetail()
	}
}

// pointerDown feeds a click to the document-wide bus first, as a browser
// would, and then handles card activation if the view was in Summary
// before the click.
func (m *Model) pointerDown(p view.Point) {
	wasSummary := m.State() == view.Summary
	m.bus.Dispatch(p)
	if !wasSummary {
		return
	}
	_, regions := m.summaryCards()
	for i, c := range regions {
		if p.Y >= c.top && p.Y < c.bottom {
			if i != m.cursor {
				m.mount(i)
			}
			m.enterDetail()
			return
		}
	}
}

func (m *Model) enterDetail() {
	if m.ev == nil || !m.ready {
		return
	}
	// Content goes in before the transition so the scroll reset lands on
	// the new page.
	m.refreshDetail()
	m.ev.EnterDetail()
}

// refreshDetail re-renders the detail content and publishes the detail
// box bounds for outside-click detection.
func (m *Model) refreshDetail() {
	m.viewport.SetContent(renderDetail(m.ev.Detail(), m.viewportWidth()))
	m.ev.SetDetailBounds(m.detailRect())
}

func (m *Model) detailRect() view.Rect {
	return view.Rect{
		X:      marginX,
		Y:      headerLines,
		Width:  max(m.width-2*marginX, 0),
		Height: max(m.height-headerLines-footerLines, 0),
	}
}

// viewportWidth is the box width minus borders (2) and padding (2).
func (m *Model) viewportWidth() int {
	return max(m.width-2*marginX-4, 10)
}

// viewportHeight is the box height minus borders.
func (m *Model) viewportHeight() int {
	return max(m.height-headerLines-footerLines-2, 1)
}
