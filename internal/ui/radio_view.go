package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sattrack/internal/state"
	"github.com/litescript/ls-sattrack/internal/track"
)

var (
	windowOpenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	windowClosedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	freqStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))
)

// RadioModel shows Doppler corrections and link state per satellite.
type RadioModel struct {
	width  int
	height int
	cursor int

	// Satellites with radio evaluation enabled, snapshot order.
	positions []track.SatellitePosition
}

// NewRadioModel creates a new radio panel model.
func NewRadioModel() RadioModel {
	return RadioModel{}
}

// SetSize updates the viewport size.
func (m RadioModel) SetSize(width, height int) RadioModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData keeps the satellites that carry a link report.
func (m RadioModel) UpdateData(snapshot state.Snapshot) RadioModel {
	m.positions = m.positions[:0]
	for _, pos := range snapshot.Positions {
		if pos.Status != track.StatusOK || pos.Link == nil {
			continue
		}
		m.positions = append(m.positions, pos)
	}
	if m.cursor >= len(m.positions) {
		m.cursor = 0
	}
	return m
}

// Update handles messages.
func (m RadioModel) Update(msg tea.Msg) (RadioModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.positions)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		}
	}
	return m, nil
}

// View renders the radio panel: a window list plus a detail card for the
// satellite under the cursor.
func (m RadioModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Radio"))
	b.WriteString("\n\n")

	if len(m.positions) == 0 {
		b.WriteString("  No satellites with radio data (enable radio in the config)\n")
		return b.String()
	}

	b.WriteString(m.renderWindowList())
	b.WriteString("\n")
	b.WriteString(m.renderDetailCard())

	return b.String()
}

func (m RadioModel) renderWindowList() string {
	var b strings.Builder

	header := fmt.Sprintf("%-16s %-8s %7s %-10s %-9s %s",
		"Satellite", "Window", "El", "Doppler", "Signal", "Mode")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, pos := range m.positions {
		link := pos.Link

		window := "closed"
		if link.Open {
			window = "OPEN"
		}

		row := fmt.Sprintf("%-16s %-8s %6.1f° %-10s %-9s %s",
			truncate(pos.Name, 16),
			window,
			pos.Look.ElevationDeg,
			track.FormatDopplerShift(link.Doppler.DownlinkShiftHz),
			link.Strength,
			link.Mode,
		)

		switch {
		case i == m.cursor:
			b.WriteString(selectedRowStyle.Render(row))
		case link.Open:
			b.WriteString(windowOpenStyle.Render(row))
		default:
			b.WriteString(windowClosedStyle.Render(row))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m RadioModel) renderDetailCard() string {
	pos := m.positions[m.cursor]
	link := pos.Link
	dop := link.Doppler

	var b strings.Builder

	b.WriteString(titleStyle.Render("  " + pos.Name))
	b.WriteString("\n")

	if link.Open {
		b.WriteString("  " + windowOpenStyle.Render("WINDOW OPEN") + dimStyle.Render("  "+link.Reason))
	} else {
		b.WriteString("  " + windowClosedStyle.Render("window closed") + dimStyle.Render("  "+link.Reason))
	}
	b.WriteString("\n\n")

	// Tune lines: what to listen on, what to transmit on.
	b.WriteString(dimStyle.Render("  downlink  "))
	b.WriteString(freqStyle.Render(fmt.Sprintf("%.6f MHz", dop.DownlinkObservedMHz)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  (%s)", track.FormatDopplerShift(dop.DownlinkShiftHz))))
	b.WriteString("\n")

	if dop.UplinkCorrectedMHz > 0 {
		b.WriteString(dimStyle.Render("  uplink    "))
		b.WriteString(freqStyle.Render(fmt.Sprintf("%.6f MHz", dop.UplinkCorrectedMHz)))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (%s)", track.FormatDopplerShift(dop.UplinkShiftHz))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  quality   "))
	b.WriteString(renderQualityBar(link.Quality, 16))
	b.WriteString(dimStyle.Render(fmt.Sprintf(" %.0f%%", link.Quality*100)))
	if link.Mode != "" {
		b.WriteString(dimStyle.Render("   mode "))
		b.WriteString(freqStyle.Render(link.Mode))
	}
	b.WriteString("\n")

	return b.String()
}
