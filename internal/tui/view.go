package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"eventpage/internal/view"
)

var (
	colorText    = lipgloss.Color("#DFDBDD")
	colorMuted   = lipgloss.Color("#858392")
	colorPrimary = lipgloss.Color("#6B50FF")
	colorAccent  = lipgloss.Color("#FF60FF")
	colorSuccess = lipgloss.Color("#00FFB2")
	colorBorder  = lipgloss.Color("#4D4C57")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	badgeStyle   = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	actionStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	slotStyle    = lipgloss.NewStyle().Foreground(colorPrimary).Width(16)

	cardStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	selectedCardStyle = cardStyle.BorderForeground(colorAccent)
)

func (m *Model) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	header := titleStyle.Render("Events")
	var body string
	if m.State() == view.Detail {
		header += "\n" + actionStyle.Render("← "+m.ev.Detail().Back)
		body = m.viewDetail()
	} else {
		header += "\n"
		cards, _ := m.summaryCards()
		body = cards
	}

	help := mutedStyle.Render(m.helpLine())
	return lipgloss.NewStyle().MaxHeight(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, body, help),
	)
}

func (m *Model) helpLine() string {
	if m.State() == view.Detail {
		return "esc back • ↑/↓ scroll • click outside to close • q quit"
	}
	return "↑/↓ select • enter open • q quit"
}

// viewDetail frames the viewport in the detail box. Its on-screen
// position must match detailRect.
func (m *Model) viewDetail() string {
	r := m.detailRect()
	box := cardStyle.
		Width(max(r.Width-2, 0)).
		Height(max(r.Height-2, 0)).
		MarginLeft(marginX)
	return box.Render(m.viewport.View())
}

// summaryCards renders one card per record starting right below the
// header and reports the screen rows each card covers.
func (m *Model) summaryCards() (string, []cardRegion) {
	if m.catalog.Len() == 0 {
		return mutedStyle.Render("No events yet."), nil
	}

	width := max(m.width-2*marginX-2, 10)
	var (
		rendered []string
		regions  []cardRegion
		y        = headerLines
	)
	for i, ev := range m.catalog.Events {
		style := cardStyle
		if i == m.cursor {
			style = selectedCardStyle
		}
		card := style.Width(width).MarginLeft(marginX).Render(renderSummary(view.BuildSummary(ev)))
		h := lipgloss.Height(card)
		regions = append(regions, cardRegion{top: y, bottom: y + h})
		rendered = append(rendered, card)
		y += h
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...), regions
}

func renderSummary(p view.SummaryPage) string {
	lines := []string{
		titleStyle.Render(p.Title) + "  " + badgeStyle.Render(p.Status),
		mutedStyle.Render(p.Date + " • " + p.Time),
		mutedStyle.Render(p.Location),
		p.Teaser,
		actionStyle.Render("[ " + p.Action + " ]"),
	}
	return strings.Join(lines, "\n")
}

// renderDetail lays out the detail page as plain scrollable text.
func renderDetail(p view.DetailPage, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var b strings.Builder

	line := func(s string) {
		b.WriteString(wrap.Render(s))
		b.WriteByte('\n')
	}

	line(titleStyle.Render(p.Title) + "  " + badgeStyle.Render(p.Status))
	line("")
	line("Date: " + p.Date)
	when := p.Time
	if p.Duration != "" {
		when += " (" + p.Duration + ")"
	}
	line("Time: " + when)
	line("Location: " + p.Location)
	for _, row := range p.Rows() {
		line(row.Title + ": " + row.Value)
	}
	line("")
	line(p.Description)

	for _, sec := range p.Sections() {
		line("")
		line(headingStyle.Render(sec.Title))
		for _, slot := range sec.Slots {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
				slotStyle.Render(slot.Time),
				lipgloss.NewStyle().Width(max(width-16, 10)).Render(slot.Session),
			))
			b.WriteByte('\n')
		}
		for _, item := range sec.Items {
			line("• " + item)
		}
	}

	line("")
	line(headingStyle.Render(p.GalleryTitle))
	for i, src := range p.Gallery {
		line(mutedStyle.Render(fmt.Sprintf("[%d] %s", i+1, src)))
	}

	line("")
	line(headingStyle.Render(p.RecordingTitle))
	line(p.RecordingText())

	return strings.TrimRight(b.String(), "\n")
}
