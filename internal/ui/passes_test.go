package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-sattrack/internal/state"
	"github.com/litescript/ls-sattrack/internal/track"
)

func passSnapshot(now time.Time) state.Snapshot {
	return state.Snapshot{
		LastPredict: now,
		Predictions: []track.Prediction{
			{
				Satellite: "AO-91",
				Passes: []track.Pass{{
					Satellite: "AO-91",
					Rise:      now.Add(2 * time.Hour),
					RiseAzDeg: 210,
					Max:       now.Add(2*time.Hour + 5*time.Minute),
					MaxElDeg:  34,
					Set:       now.Add(2*time.Hour + 11*time.Minute),
					SetAzDeg:  80,
				}},
			},
			{
				Satellite: "ISS (ZARYA)",
				Passes: []track.Pass{{
					Satellite: "ISS (ZARYA)",
					Rise:      now.Add(-3 * time.Minute),
					RiseAzDeg: 180,
					Max:       now.Add(2 * time.Minute),
					MaxElDeg:  78,
					Set:       now.Add(7 * time.Minute),
					SetAzDeg:  10,
				}},
			},
			{
				Satellite: "NOAA 19",
				Diagnostic: "too many propagation failures over the horizon",
			},
		},
	}
}

func TestPassList_FlattensAndOrders(t *testing.T) {
	now := time.Now()
	m := NewPassListModel().SetSize(120, 30).UpdateData(passSnapshot(now))

	if len(m.passes) != 2 {
		t.Fatalf("got %d passes, want 2", len(m.passes))
	}
	// The in-progress ISS pass rises first.
	if m.passes[0].Satellite != "ISS (ZARYA)" || m.passes[1].Satellite != "AO-91" {
		t.Errorf("passes not in rise order: %s then %s", m.passes[0].Satellite, m.passes[1].Satellite)
	}
	if len(m.diagnostics) != 1 || !strings.Contains(m.diagnostics[0], "NOAA 19") {
		t.Errorf("diagnostics = %v", m.diagnostics)
	}
}

func TestPassList_Render(t *testing.T) {
	now := time.Now()
	m := NewPassListModel().SetSize(120, 30).UpdateData(passSnapshot(now))
	view := m.render(now)

	if !strings.Contains(view, "IN PROGRESS") {
		t.Error("active pass not marked in progress")
	}
	if !strings.Contains(view, "in 2h00m") {
		t.Errorf("future pass countdown missing:\n%s", view)
	}
	if !strings.Contains(view, "too many propagation failures") {
		t.Error("prediction diagnostic not shown")
	}
}

func TestPassList_Empty(t *testing.T) {
	m := NewPassListModel().SetSize(120, 30)

	if view := m.View(); !strings.Contains(view, "No passes predicted") {
		t.Errorf("empty view:\n%s", view)
	}
}

func TestPassCountdown(t *testing.T) {
	now := time.Now()
	p := track.Pass{
		Rise: now.Add(30 * time.Minute),
		Set:  now.Add(40 * time.Minute),
	}

	if got := passCountdown(p, now); got != "in 30m" {
		t.Errorf("upcoming = %q", got)
	}
	if got := passCountdown(p, now.Add(35*time.Minute)); got != "IN PROGRESS" {
		t.Errorf("active = %q", got)
	}
	if got := passCountdown(p, now.Add(time.Hour)); got != "done" {
		t.Errorf("finished = %q", got)
	}
}

func TestFormatPassLength(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{11*time.Minute + 3*time.Second, "11m03s"},
		{45 * time.Second, "0m45s"},
		{10 * time.Minute, "10m00s"},
	}
	for _, tt := range tests {
		if got := formatPassLength(tt.d); got != tt.want {
			t.Errorf("formatPassLength(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
