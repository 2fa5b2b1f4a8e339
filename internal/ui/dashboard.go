package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sattrack/internal/state"
	"github.com/litescript/ls-sattrack/internal/track"
)

// Styles for the tracking table
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	visibleRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("120"))

	noDataRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))
)

// TrackingModel is the live look-angle table view.
type TrackingModel struct {
	width    int
	height   int
	cursor   int
	snapshot state.Snapshot
	lastErr  error
}

// NewTrackingModel creates a new tracking model.
func NewTrackingModel() TrackingModel {
	return TrackingModel{}
}

// SetSize updates the viewport size.
func (m TrackingModel) SetSize(width, height int) TrackingModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with a new snapshot.
func (m TrackingModel) UpdateData(snapshot state.Snapshot) TrackingModel {
	m.snapshot = snapshot
	if n := len(snapshot.Positions); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
	return m
}

// SetError sets the last error for display.
func (m TrackingModel) SetError(err error) TrackingModel {
	m.lastErr = err
	return m
}

// SelectedName returns the name of the satellite under the cursor, or "".
func (m TrackingModel) SelectedName() string {
	if m.cursor < 0 || m.cursor >= len(m.snapshot.Positions) {
		return ""
	}
	return m.snapshot.Positions[m.cursor].Name
}

// Update handles messages.
func (m TrackingModel) Update(msg tea.Msg) (TrackingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		count := len(m.snapshot.Positions)

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < count-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if count > 0 {
				m.cursor = count - 1
			}
		}
	}

	return m, nil
}

// View renders the tracking table.
func (m TrackingModel) View() string {
	var b strings.Builder

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	if len(m.snapshot.Positions) == 0 && m.lastErr == nil {
		b.WriteString("Waiting for tracking data...\n")
		return b.String()
	}

	b.WriteString(m.renderSummary())
	b.WriteString("\n\n")
	b.WriteString(m.renderPositionTable())

	return b.String()
}

func (m TrackingModel) renderSummary() string {
	visible := 0
	noData := 0
	for _, pos := range m.snapshot.Positions {
		switch {
		case pos.Status != track.StatusOK:
			noData++
		case pos.Visible:
			visible++
		}
	}

	line := fmt.Sprintf("  %d tracked · %d above horizon", len(m.snapshot.Positions), visible)
	if noData > 0 {
		line += fmt.Sprintf(" · %d no data", noData)
	}

	return titleStyle.Render("Live Tracking") + "\n" + dimStyle.Render(line)
}

func (m TrackingModel) renderPositionTable() string {
	var b strings.Builder

	header := fmt.Sprintf("%-16s %7s %7s %9s %10s %-16s %-9s %s",
		"Satellite", "Az", "El", "Range", "Rate", "Subpoint", "Signal", "Link")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	positions := m.snapshot.Positions

	// Visible rows based on height, leaving room for header and summary
	maxRows := m.height - 8
	if maxRows < 5 {
		maxRows = 5
	}

	startIdx := 0
	if m.cursor >= maxRows {
		startIdx = m.cursor - maxRows + 1
	}
	endIdx := startIdx + maxRows
	if endIdx > len(positions) {
		endIdx = len(positions)
	}

	for i := startIdx; i < endIdx; i++ {
		pos := positions[i]
		row := m.renderPositionRow(pos)

		switch {
		case i == m.cursor:
			b.WriteString(selectedRowStyle.Render(row))
		case pos.Status != track.StatusOK:
			b.WriteString(noDataRowStyle.Render(row))
		case pos.Visible:
			b.WriteString(visibleRowStyle.Render(row))
		default:
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if len(positions) > maxRows {
		b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d satellites", startIdx+1, endIdx, len(positions)))
	}

	return b.String()
}

func (m TrackingModel) renderPositionRow(pos track.SatellitePosition) string {
	if pos.Status != track.StatusOK {
		reason := ""
		if pos.Err != nil {
			reason = pos.Err.Error()
		}
		return fmt.Sprintf("%-16s %s  %s",
			truncate(pos.Name, 16), pos.Status, truncate(reason, 48))
	}

	subpoint := fmt.Sprintf("%+6.1f° %+7.1f°", pos.Subpoint.LatDeg, pos.Subpoint.LonDeg)

	signal := "-"
	link := ""
	if pos.Link != nil {
		signal = pos.Link.Strength.String()
		link = renderQualityBar(pos.Link.Quality, 8)
	}

	return fmt.Sprintf("%-16s %6.1f° %6.1f° %7.0fkm %7.2fkm/s %-16s %-9s %s",
		truncate(pos.Name, 16),
		pos.Look.AzimuthDeg,
		pos.Look.ElevationDeg,
		pos.Look.RangeKm,
		pos.Look.RangeRateKmS,
		subpoint,
		signal,
		link,
	)
}

// renderQualityBar renders a bracketed bar for a 0..1 quality estimate.
func renderQualityBar(quality float64, width int) string {
	if quality < 0 {
		quality = 0
	}
	filled := int(quality * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
