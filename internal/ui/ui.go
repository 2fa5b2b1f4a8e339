// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sattrack/internal/state"
	"github.com/litescript/ls-sattrack/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewTracking ViewMode = iota
	ViewPasses
	ViewSky
	ViewRadio
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a fresh tracking snapshot is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a refresh error.
	ErrorMsg struct {
		Error error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state *state.Manager

	// UI state
	viewMode ViewMode
	width    int
	height   int
	ready    bool
	animTick int // animation tick for the spinner

	// Sub-models
	tracking TrackingModel
	passes   PassListModel
	skyView  SkyViewModel
	radio    RadioModel

	// Data snapshot (updated on DataUpdateMsg)
	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager) Model {
	return Model{
		state:    stateMgr,
		viewMode: ViewTracking,
		tracking: NewTrackingModel(),
		passes:   NewPassListModel(),
		skyView:  NewSkyViewModel(),
		radio:    NewRadioModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "t":
			m.viewMode = ViewTracking
		case "2", "p":
			m.viewMode = ViewPasses
		case "3", "s":
			// Entering Sky View follows the tracking cursor so the
			// highlighted satellite stays highlighted.
			if m.viewMode != ViewSky {
				m.skyView = m.skyView.FocusSatellite(m.tracking.SelectedName())
			}
			m.viewMode = ViewSky
		case "4", "r":
			m.viewMode = ViewRadio

		case "tab":
			// Cycle through views
			m.viewMode = (m.viewMode + 1) % 4

		default:
			// Pass to active view
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes ~10 lines, tabs and footer ~4
		contentHeight := msg.Height - 14
		m.tracking = m.tracking.SetSize(msg.Width, contentHeight)
		m.passes = m.passes.SetSize(msg.Width, contentHeight)
		m.skyView = m.skyView.SetSize(msg.Width, contentHeight)
		m.radio = m.radio.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		// Request fresh snapshot
		m.snapshot = m.state.Snapshot()

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case DataUpdateMsg:
		m.snapshot = msg.Snapshot
		m.tracking = m.tracking.UpdateData(m.snapshot)
		m.passes = m.passes.UpdateData(m.snapshot)
		m.skyView = m.skyView.UpdateData(m.snapshot)
		m.radio = m.radio.UpdateData(m.snapshot)

	case ErrorMsg:
		m.tracking = m.tracking.SetError(msg.Error)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewTracking:
		m.tracking, cmd = m.tracking.Update(msg)
	case ViewPasses:
		m.passes, cmd = m.passes.Update(msg)
	case ViewSky:
		m.skyView, cmd = m.skyView.Update(msg)
	case ViewRadio:
		m.radio, cmd = m.radio.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewTracking:
		content = m.tracking.View()
	case ViewPasses:
		content = m.passes.View()
	case ViewSky:
		content = m.skyView.View()
	case ViewRadio:
		content = m.radio.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	// ASCII art with smooth truecolor gradient
	logo := []string{
		`  ██╗     ███████╗      ███████╗ █████╗ ████████╗████████╗██████╗  █████╗  ██████╗██╗  ██╗`,
		`  ██║     ██╔════╝      ██╔════╝██╔══██╗╚══██╔══╝╚══██╔══╝██╔══██╗██╔══██╗██╔════╝██║ ██╔╝`,
		`  ██║     ███████╗█████╗███████╗███████║   ██║      ██║   ██████╔╝███████║██║     █████╔╝ `,
		`  ██║     ╚════██║╚════╝╚════██║██╔══██║   ██║      ██║   ██╔══██╗██╔══██║██║     ██╔═██╗ `,
		`  ███████╗███████║      ███████║██║  ██║   ██║      ██║   ██║  ██║██║  ██║╚██████╗██║  ██╗`,
		`  ╚══════╝╚══════╝      ╚══════╝╚═╝  ╚═╝   ╚═╝      ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	// Render each line with a horizontal truecolor gradient
	for row, line := range logo {
		runes := []rune(line)
		lineLen := len(runes)

		for col, r := range runes {
			color := gradientColor(col, row, lineLen, len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	// Tagline
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render("  Satellite Tracking · Pass Prediction · Doppler"))
	b.WriteString("\n")

	copyright := fmt.Sprintf("  (c) 2026 litescript.net | v%s", version.Version)
	b.WriteString(muted.Render(copyright))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient.
// Creates a vibrant nebula effect: blue -> purple -> magenta -> pink
func gradientColor(col, row, width, height int) string {
	// Normalize positions to 0-1
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	// Blue (#3B82F6) -> Purple (#8B5CF6) -> Magenta (#D946EF) -> Pink (#EC4899)
	var r, g, b float64

	if xRatio < 0.33 {
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246 + t*(246-246)
	} else if xRatio < 0.66 {
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	} else {
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	// Vertical fade: brighter at top, darker toward bottom
	brightnessFactor := 1.0 - (yRatio * 0.5)
	r *= brightnessFactor
	g *= brightnessFactor
	b *= brightnessFactor

	return fmt.Sprintf("#%02X%02X%02X", clamp8(r), clamp8(g), clamp8(b))
}

func clamp8(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Tracking", "[2] Passes", "[3] Sky", "[4] Radio"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	alertStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case !m.snapshot.LastRefresh.IsZero():
		status = accentStyle.Render(spinner) + dimStyle.Render(
			" updated "+m.snapshot.LastRefresh.Local().Format("15:04:05"))
	default:
		status = accentStyle.Render(spinner) + dimStyle.Render(" waiting for data...")
	}

	var help string
	switch m.viewMode {
	case ViewSky:
		help = dimStyle.Render("j/k: focus | l: labels | tab: switch view")
	case ViewRadio:
		help = dimStyle.Render("j/k: satellite | tab: switch view")
	default:
		help = dimStyle.Render("↑↓: navigate | tab: switch view")
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help

	if line := renderAlertLine(m.snapshot.Alerts, time.Now()); line != "" {
		footer += "\n  " + alertStyle.Render(line)
	}

	return footer
}

// renderAlertLine condenses active and imminent passes into one line.
func renderAlertLine(alerts []state.Alert, now time.Time) string {
	if len(alerts) == 0 {
		return ""
	}

	var parts []string
	for _, a := range alerts {
		if a.Active {
			parts = append(parts, fmt.Sprintf("⚡ %s pass in progress (max %.0f°)", a.Satellite, a.MaxElDeg))
			continue
		}
		until := a.Rise.Sub(now).Round(time.Minute)
		if until < time.Minute {
			until = time.Minute
		}
		parts = append(parts, fmt.Sprintf("⏰ %s rises in %s (max %.0f°)", a.Satellite, formatLead(until), a.MaxElDeg))
	}
	return strings.Join(parts, "   ")
}

func formatLead(d time.Duration) string {
	if d >= time.Hour {
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// SendDataUpdate creates a command that sends a data update message.
func SendDataUpdate(snapshot state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DataUpdateMsg{Snapshot: snapshot}
	}
}

// SendError creates a command that sends an error message.
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err}
	}
}
