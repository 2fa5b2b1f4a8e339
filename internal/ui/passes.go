package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-sattrack/internal/state"
	"github.com/litescript/ls-sattrack/internal/track"
)

// PassListModel is the upcoming-pass schedule view.
type PassListModel struct {
	width  int
	height int
	cursor int

	passes      []track.Pass
	diagnostics []string
	lastPredict time.Time
}

// NewPassListModel creates a new pass list model.
func NewPassListModel() PassListModel {
	return PassListModel{}
}

// SetSize updates the viewport size.
func (m PassListModel) SetSize(width, height int) PassListModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData flattens the per-satellite predictions into one rise-ordered
// schedule and collects any prediction diagnostics.
func (m PassListModel) UpdateData(snapshot state.Snapshot) PassListModel {
	m.passes = nil
	m.diagnostics = nil
	m.lastPredict = snapshot.LastPredict

	for _, pred := range snapshot.Predictions {
		m.passes = append(m.passes, pred.Passes...)
		if pred.Diagnostic != "" {
			m.diagnostics = append(m.diagnostics, fmt.Sprintf("%s: %s", pred.Satellite, pred.Diagnostic))
		}
	}
	sort.Slice(m.passes, func(i, j int) bool {
		return m.passes[i].Rise.Before(m.passes[j].Rise)
	})

	if n := len(m.passes); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
	return m
}

// Update handles messages.
func (m PassListModel) Update(msg tea.Msg) (PassListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.passes)-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if len(m.passes) > 0 {
				m.cursor = len(m.passes) - 1
			}
		}
	}
	return m, nil
}

// View renders the pass schedule.
func (m PassListModel) View() string {
	return m.render(time.Now())
}

// render is View with an injectable clock.
func (m PassListModel) render(now time.Time) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Upcoming Passes"))
	if !m.lastPredict.IsZero() {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  computed %s", m.lastPredict.Local().Format("15:04:05"))))
	}
	b.WriteString("\n\n")

	for _, d := range m.diagnostics {
		b.WriteString(errorStyle.Render("  " + d))
		b.WriteString("\n")
	}
	if len(m.diagnostics) > 0 {
		b.WriteString("\n")
	}

	if len(m.passes) == 0 {
		b.WriteString("  No passes predicted in the horizon\n")
		return b.String()
	}

	header := fmt.Sprintf("%-16s %-12s %7s %7s %-12s %8s %-12s",
		"Satellite", "Rise", "RiseAz", "MaxEl", "Set", "Length", "Countdown")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 8
	if maxRows < 5 {
		maxRows = 5
	}
	startIdx := 0
	if m.cursor >= maxRows {
		startIdx = m.cursor - maxRows + 1
	}
	endIdx := startIdx + maxRows
	if endIdx > len(m.passes) {
		endIdx = len(m.passes)
	}

	for i := startIdx; i < endIdx; i++ {
		p := m.passes[i]
		row := fmt.Sprintf("%-16s %-12s %6.0f° %6.1f° %-12s %8s %-12s",
			truncate(p.Satellite, 16),
			p.Rise.Local().Format("Jan-2 15:04"),
			p.RiseAzDeg,
			p.MaxElDeg,
			p.Set.Local().Format("Jan-2 15:04"),
			formatPassLength(p.Duration()),
			passCountdown(p, now),
		)

		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if len(m.passes) > maxRows {
		b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d passes", startIdx+1, endIdx, len(m.passes)))
	}

	return b.String()
}

// passCountdown describes where a pass stands relative to now.
func passCountdown(p track.Pass, now time.Time) string {
	switch {
	case now.After(p.Set):
		return "done"
	case !now.Before(p.Rise):
		return "IN PROGRESS"
	default:
		return "in " + formatLead(p.Rise.Sub(now).Round(time.Minute))
	}
}

func formatPassLength(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
