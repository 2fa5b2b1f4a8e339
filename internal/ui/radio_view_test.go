package ui

import (
	"strings"
	"testing"

	"github.com/litescript/ls-sattrack/internal/astro"
	"github.com/litescript/ls-sattrack/internal/state"
	"github.com/litescript/ls-sattrack/internal/track"
)

func radioSnapshot() state.Snapshot {
	return state.Snapshot{
		Positions: []track.SatellitePosition{
			{
				Name:    "AO-91",
				Status:  track.StatusOK,
				Visible: true,
				Look:    astro.LookAngle{AzimuthDeg: 120, ElevationDeg: 42, RangeKm: 900, RangeRateKmS: -3.5},
				Link: &track.LinkReport{
					Open:   true,
					Reason: "el 42.0°, range 900 km",
					Doppler: track.DopplerShift{
						DownlinkShiftHz:     1703,
						DownlinkObservedMHz: 145.961703,
						UplinkShiftHz:       -5081,
						UplinkCorrectedMHz:  435.244919,
					},
					Strength: track.SignalGood,
					Quality:  0.95,
					Mode:     "FM/SSB",
				},
			},
			{
				Name:   "SO-50",
				Status: track.StatusOK,
				Look:   astro.LookAngle{AzimuthDeg: 310, ElevationDeg: 2, RangeKm: 2800},
				Link: &track.LinkReport{
					Open:     false,
					Reason:   "elevation 2.0° below 10.0° threshold",
					Strength: track.SignalNone,
				},
			},
			{
				Name:   "NO-RADIO",
				Status: track.StatusOK,
			},
		},
	}
}

func TestRadioView_FiltersSatellitesWithoutLink(t *testing.T) {
	m := NewRadioModel().SetSize(120, 30).UpdateData(radioSnapshot())

	if len(m.positions) != 2 {
		t.Fatalf("got %d radio satellites, want 2", len(m.positions))
	}
	for _, pos := range m.positions {
		if pos.Name == "NO-RADIO" {
			t.Error("satellite without link report kept")
		}
	}
}

func TestRadioView_Render(t *testing.T) {
	m := NewRadioModel().SetSize(120, 30).UpdateData(radioSnapshot())
	view := m.View()

	if !strings.Contains(view, "OPEN") {
		t.Error("open window not marked")
	}
	if !strings.Contains(view, "closed") {
		t.Error("closed window not marked")
	}
	if !strings.Contains(view, "+1.70 kHz") {
		t.Errorf("downlink shift missing:\n%s", view)
	}
	// Detail card for the focused satellite
	if !strings.Contains(view, "145.961703 MHz") {
		t.Error("observed downlink frequency missing")
	}
	if !strings.Contains(view, "435.244919 MHz") {
		t.Error("corrected uplink frequency missing")
	}
	if !strings.Contains(view, "FM/SSB") {
		t.Error("recommended mode missing")
	}
}

func TestRadioView_Empty(t *testing.T) {
	m := NewRadioModel().SetSize(120, 30)

	if view := m.View(); !strings.Contains(view, "No satellites with radio data") {
		t.Errorf("empty view:\n%s", view)
	}
}
