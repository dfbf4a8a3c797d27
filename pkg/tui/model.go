// Package tui renders the landing page widgets in a terminal. Terminal focus
// stands in for the browser's page visibility and a per-widget toggle stands
// in for scrolling a widget into view.
package tui

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jordanlanch/landing/pkg/sequencer"
	"github.com/jordanlanch/landing/pkg/widgets"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	selectedBoxStyle = boxStyle.BorderForeground(lipgloss.Color("57"))

	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	currentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("57"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	fadingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingLeft(1)
)

// PanelRows are the lines of the insights metrics panel. The panel scrolls
// by line, so its content height is len(PanelRows).
var PanelRows = []string{
	"Leads this week        184",
	"Median response        11m",
	"Qualified rate         46%",
	"Meetings booked         37",
	"Pipeline value     $92,400",
	"Won this month          14",
	"Avg. deal size      $6,600",
	"Churned accounts         2",
}

const (
	refreshInterval = 50 * time.Millisecond
	connectorWidth  = 6
	chromeRows      = 18
)

type tickMsg time.Time

// Model is the bubbletea model for the widget preview.
type Model struct {
	registry *widgets.Registry
	snaps    []widgets.Snapshot
	selected int
	focused  bool
	width    int
	height   int
	err      error
}

// New returns a Model driving registry. The caller owns the registry and
// must Close it after the program exits.
func New(registry *widgets.Registry) Model {
	return Model{
		registry: registry,
		snaps:    registry.List(),
		focused:  true,
	}
}

// Init starts the refresh tick.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update processes messages and returns an updated model plus any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		viewport := max(1, min(len(PanelRows), msg.Height-chromeRows))
		_, m.err = m.registry.Measure(widgets.InsightsID, float64(len(PanelRows)), float64(viewport))
		m.snaps = m.registry.List()
		return m, nil

	case tea.FocusMsg:
		m.focused = true
		m.registry.SetTabVisible(true)
		m.snaps = m.registry.List()
		return m, nil

	case tea.BlurMsg:
		m.focused = false
		m.registry.SetTabVisible(false)
		m.snaps = m.registry.List()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "down", "j":
			if n := len(m.snaps); n > 0 {
				m.selected = (m.selected + 1) % n
			}
		case "shift+tab", "up", "k":
			if n := len(m.snaps); n > 0 {
				m.selected = (m.selected - 1 + n) % n
			}
		case "v", " ":
			if m.selected < len(m.snaps) {
				s := m.snaps[m.selected]
				m.setInView(s.ID, !s.InView)
			}
		case "a":
			show := slices.ContainsFunc(m.snaps, func(s widgets.Snapshot) bool { return !s.InView })
			for _, s := range m.snaps {
				m.setInView(s.ID, show)
			}
		}
		m.snaps = m.registry.List()
		return m, nil

	case tickMsg:
		m.snaps = m.registry.List()
		return m, tick()
	}

	return m, nil
}

func (m *Model) setInView(id string, inView bool) {
	if _, err := m.registry.SetVisibility(id, &inView, nil); err != nil {
		m.err = err
	}
}

// View renders the widgets stacked vertically.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Landing widgets"))
	b.WriteString("\n\n")

	if len(m.snaps) == 0 {
		b.WriteString(dimStyle.Render("  no widgets mounted"))
		b.WriteString("\n")
	}
	for i, s := range m.snaps {
		style := boxStyle
		if i == m.selected {
			style = selectedBoxStyle
		}
		b.WriteString(style.Render(m.renderWidget(s)))
		b.WriteString("\n")
	}

	b.WriteString(m.statusBar())
	return b.String()
}

func (m Model) renderWidget(s widgets.Snapshot) string {
	header := fmt.Sprintf("%s  %s", s.Title, signalLabel(s))
	var body string
	switch st := s.State.(type) {
	case sequencer.LinearState:
		body = renderLinear(s.Items, st)
	case sequencer.RingState:
		body = renderRing(s.Items, st)
	case sequencer.InsightsState:
		body = renderRing(s.Items, st.Cards) + "\n\n" + renderPanel(st.Panel)
	default:
		body = dimStyle.Render("unknown widget state")
	}
	return header + "\n" + body
}

func signalLabel(s widgets.Snapshot) string {
	switch {
	case s.Active:
		return doneStyle.Render("● running")
	case !s.InView:
		return dimStyle.Render("○ out of view")
	default:
		return dimStyle.Render("○ paused (tab hidden)")
	}
}

func renderLinear(steps []string, st sequencer.LinearState) string {
	parts := make([]string, 0, 2*len(steps))
	for i, name := range steps {
		switch {
		case slices.Contains(st.Completed, i):
			parts = append(parts, doneStyle.Render("✓ "+name))
		case i == st.Current && st.Phase == sequencer.PhaseStep:
			parts = append(parts, currentStyle.Render(" "+name+" "))
		default:
			parts = append(parts, pendingStyle.Render("○ "+name))
		}
		if i < len(steps)-1 {
			parts = append(parts, connector(i, st))
		}
	}

	line := strings.Join(parts, " ")
	switch st.Phase {
	case sequencer.PhaseFinishing:
		line += "\n" + dimStyle.Render("wrapping up...")
	case sequencer.PhaseAllCompleted:
		line += "\n" + doneStyle.Render(fmt.Sprintf("All steps completed (run %d)", st.Loop+1))
	}
	return line
}

func connector(i int, st sequencer.LinearState) string {
	filled := 0
	switch {
	case slices.Contains(st.Completed, i+1), st.Phase == sequencer.PhaseAllCompleted:
		filled = connectorWidth
	case st.Phase == sequencer.PhaseConnecting && st.Current == i:
		filled = st.Progress * connectorWidth / 100
	case slices.Contains(st.Completed, i) && st.Current > i:
		filled = connectorWidth
	}
	return doneStyle.Render(strings.Repeat("━", filled)) + pendingStyle.Render(strings.Repeat("─", connectorWidth-filled))
}

func renderRing(items []string, st sequencer.RingState) string {
	if len(st.Visible) == 0 {
		return dimStyle.Render("waiting...")
	}
	lines := make([]string, 0, len(st.Visible))
	for pos, idx := range st.Visible {
		if idx < 0 || idx >= len(items) {
			continue
		}
		text := "▸ " + items[idx]
		if pos == 0 && st.Transitioning {
			text = fadingStyle.Render(text)
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n")
}

func renderPanel(st sequencer.ScrollState) string {
	first := int(math.Round(st.Offset))
	rows := int(st.Viewport)
	if rows <= 0 {
		return dimStyle.Render("panel not measured")
	}
	first = max(0, min(first, len(PanelRows)-1))
	last := min(len(PanelRows), first+rows)

	lines := slices.Clone(PanelRows[first:last])
	lines = append(lines, dimStyle.Render(fmt.Sprintf("scroll %.1f/%.0f", st.Offset, st.Target)))
	return strings.Join(lines, "\n")
}

func (m Model) statusBar() string {
	focus := "focused"
	if !m.focused {
		focus = "hidden"
	}
	text := fmt.Sprintf("tab %s  |  %d timers  |  tab: select  v: toggle view  a: all  q: quit",
		focus, m.registry.PendingTimers())
	if m.err != nil {
		text += "  |  " + m.err.Error()
	}
	return statusBarStyle.Render(text)
}
