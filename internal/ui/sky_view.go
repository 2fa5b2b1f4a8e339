package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sattrack/internal/state"
	"github.com/litescript/ls-sattrack/internal/track"
)

const (
	// Satellite glyphs
	glyphSatellite        = '✦'
	glyphSatelliteFocused = '◆'

	// Satellite colors
	colorSatellite        = "#d0c8ff"
	colorSatelliteFocused = "229" // bright gold

	// Horizon ring and grid colors
	colorRing     = "60"  // muted purple
	colorCardinal = "250" // light gray
	colorZenith   = "244"

	// Terminal cells are roughly twice as tall as wide; stretch the
	// horizontal axis so the rings read as circles.
	cellAspect = 2.0
)

// LabelMode controls how satellite labels are displayed.
type LabelMode int

const (
	LabelFocused LabelMode = iota // only the focused satellite
	LabelAll                      // all satellites
	LabelNone                     // no labels
)

// SkyViewModel renders a polar plot of the sky: zenith at the center,
// horizon at the outer ring, north up.
type SkyViewModel struct {
	width  int
	height int

	focusIdx  int
	labelMode LabelMode

	positions []track.SatellitePosition // above-horizon satellites only
}

// NewSkyViewModel creates a new sky view model.
func NewSkyViewModel() SkyViewModel {
	return SkyViewModel{labelMode: LabelFocused}
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData keeps the satellites that are above the horizon, preserving
// snapshot order (descending elevation).
func (m SkyViewModel) UpdateData(snapshot state.Snapshot) SkyViewModel {
	m.positions = m.positions[:0]
	for _, pos := range snapshot.Positions {
		if pos.Status != track.StatusOK || pos.Look.ElevationDeg < 0 {
			continue
		}
		m.positions = append(m.positions, pos)
	}
	if m.focusIdx >= len(m.positions) {
		m.focusIdx = 0
	}
	return m
}

// FocusSatellite moves focus to the named satellite if it is plotted.
func (m SkyViewModel) FocusSatellite(name string) SkyViewModel {
	for i, pos := range m.positions {
		if pos.Name == name {
			m.focusIdx = i
			break
		}
	}
	return m
}

// Update handles messages.
func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if len(m.positions) > 0 {
				m.focusIdx = (m.focusIdx + 1) % len(m.positions)
			}
		case "k", "up":
			if len(m.positions) > 0 {
				m.focusIdx = (m.focusIdx - 1 + len(m.positions)) % len(m.positions)
			}
		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		}
	}
	return m, nil
}

// View renders the sky dome.
func (m SkyViewModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Sky View"))
	b.WriteString(dimStyle.Render("  zenith center · horizon edge · north up"))
	b.WriteString("\n\n")

	if len(m.positions) == 0 {
		b.WriteString("  No satellites above the horizon\n")
		return b.String()
	}

	canvasW := m.width - 4
	canvasH := m.height - 6
	if canvasW < 21 {
		canvasW = 21
	}
	if canvasH < 11 {
		canvasH = 11
	}

	b.WriteString(m.renderSkyCanvas(canvasW, canvasH))
	b.WriteString("\n")
	b.WriteString(m.renderFocusLine())

	return b.String()
}

// projectToPolar maps azimuth/elevation to canvas coordinates. The zenith
// lands at the center; elevation 0 lands on the horizon ring. North is up,
// east is right.
func projectToPolar(azDeg, elDeg float64, width, height int) (x, y int, visible bool) {
	if elDeg < 0 {
		return 0, 0, false
	}

	cx := float64(width-1) / 2
	cy := float64(height-1) / 2
	// Horizon radius in rows; columns get the aspect stretch.
	radius := cy
	if rx := cx / cellAspect; rx < radius {
		radius = rx
	}

	r := radius * (90 - elDeg) / 90
	az := azDeg * math.Pi / 180

	x = int(math.Round(cx + r*math.Sin(az)*cellAspect))
	y = int(math.Round(cy - r*math.Cos(az)))

	if x < 0 || x >= width || y < 0 || y >= height {
		return 0, 0, false
	}
	return x, y, true
}

func (m SkyViewModel) renderSkyCanvas(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			canvas[y][x] = ' '
			colors[y][x] = "236"
		}
	}

	// Elevation rings at 0°, 30°, and 60°
	for _, el := range []float64{0, 30, 60} {
		m.drawRing(canvas, colors, width, height, el)
	}

	// Zenith marker
	if x, y, ok := projectToPolar(0, 90, width, height); ok {
		canvas[y][x] = '+'
		colors[y][x] = colorZenith
	}

	// Cardinal directions on the horizon ring
	for _, c := range []struct {
		label rune
		az    float64
	}{{'N', 0}, {'E', 90}, {'S', 180}, {'W', 270}} {
		if x, y, ok := projectToPolar(c.az, 0, width, height); ok {
			canvas[y][x] = c.label
			colors[y][x] = colorCardinal
		}
	}

	// Satellites
	var positions []satellitePos
	for i, pos := range m.positions {
		x, y, ok := projectToPolar(pos.Look.AzimuthDeg, pos.Look.ElevationDeg, width, height)
		if !ok {
			continue
		}

		isFocused := i == m.focusIdx

		sym := glyphSatellite
		color := lipgloss.Color(colorSatellite)
		if isFocused {
			sym = glyphSatelliteFocused
			color = colorSatelliteFocused
		}

		canvas[y][x] = sym
		colors[y][x] = color

		positions = append(positions, satellitePos{
			x:         x,
			y:         y,
			name:      pos.Name,
			isFocused: isFocused,
		})
	}

	m.renderLabels(canvas, colors, width, positions)

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// drawRing traces the circle of constant elevation.
func (m SkyViewModel) drawRing(canvas [][]rune, colors [][]lipgloss.Color, width, height int, elDeg float64) {
	for azDeg := 0.0; azDeg < 360; azDeg += 2 {
		x, y, ok := projectToPolar(azDeg, elDeg, width, height)
		if !ok {
			continue
		}
		if canvas[y][x] == ' ' {
			canvas[y][x] = '·'
			colors[y][x] = colorRing
		}
	}
}

type satellitePos struct {
	x, y      int
	name      string
	isFocused bool
}

// renderLabels draws satellite names next to their glyphs. Focused labels
// win in overlapping regions.
func (m SkyViewModel) renderLabels(canvas [][]rune, colors [][]lipgloss.Color, width int, positions []satellitePos) {
	if m.labelMode == LabelNone {
		return
	}

	for _, pos := range positions {
		if m.labelMode == LabelFocused && !pos.isFocused {
			continue
		}

		label := truncate(pos.name, 12)
		startX := pos.x + 2
		color := lipgloss.Color(colorSatellite)
		if pos.isFocused {
			color = colorSatelliteFocused
		}

		for i, r := range label {
			x := startX + i
			if x >= width {
				break
			}
			if canvas[pos.y][x] != ' ' && !pos.isFocused {
				break
			}
			canvas[pos.y][x] = r
			colors[pos.y][x] = color
		}
	}
}

func (m SkyViewModel) renderFocusLine() string {
	if m.focusIdx < 0 || m.focusIdx >= len(m.positions) {
		return ""
	}
	pos := m.positions[m.focusIdx]

	line := fmt.Sprintf("  ◆ %s  az %.1f°  el %.1f°  range %.0f km",
		pos.Name, pos.Look.AzimuthDeg, pos.Look.ElevationDeg, pos.Look.RangeKm)
	if pos.Link != nil {
		line += fmt.Sprintf("  %s", pos.Link.Strength)
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(colorSatelliteFocused))
	return style.Render(line)
}
