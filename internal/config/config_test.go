package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
observer:
  name: Test Station
  latitude: 51.4769
  longitude: 0.0
  altitude_m: 45

satellites:
  tle_file: /tmp/active.tle
  names:
    - "ISS (ZARYA)"
  max: 10

prediction:
  horizon_hours: 48
  step_seconds: 15
  min_elevation_deg: 5

radio:
  enabled: true
  downlink_mhz: 145.8
  uplink_mhz: 437.5

display:
  refresh_seconds: 2

alerts:
  enabled: true
  lead_minutes: 10
  min_elevation_deg: 30

catalog:
  path: /tmp/sats.db
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Observer.Name != "Test Station" {
		t.Errorf("observer name = %q", c.Observer.Name)
	}
	if len(c.Satellites.Names) != 1 || c.Satellites.Names[0] != "ISS (ZARYA)" {
		t.Errorf("satellite names = %v", c.Satellites.Names)
	}

	pred := c.TrackPrediction()
	if pred.Horizon != 48*time.Hour {
		t.Errorf("horizon = %v", pred.Horizon)
	}
	if pred.Step != 15*time.Second {
		t.Errorf("step = %v", pred.Step)
	}

	radio := c.TrackRadio()
	if radio == nil {
		t.Fatal("radio enabled but TrackRadio returned nil")
	}
	// Unset radio thresholds pick up defaults.
	if radio.MinElevationDeg != DefaultMinElevationDeg {
		t.Errorf("radio min elevation = %v", radio.MinElevationDeg)
	}
	if radio.ReferenceRangeKm != DefaultReferenceRangeKm {
		t.Errorf("reference range = %v", radio.ReferenceRangeKm)
	}

	if c.RefreshInterval() != 2*time.Second {
		t.Errorf("refresh = %v", c.RefreshInterval())
	}
	if c.AlertLead() != 10*time.Minute {
		t.Errorf("alert lead = %v", c.AlertLead())
	}
	if c.Catalog.Path != "/tmp/sats.db" {
		t.Errorf("catalog path = %q", c.Catalog.Path)
	}

	obs, err := c.ObserverLocation()
	if err != nil {
		t.Fatal(err)
	}
	if obs.Geodetic.AltKm != 0.045 {
		t.Errorf("observer altitude = %v km", obs.Geodetic.AltKm)
	}
}

func TestLoad_Defaults(t *testing.T) {
	minimal := `
observer:
  name: Minimal
  latitude: 10
  longitude: 20
satellites:
  tle_file: sats.tle
`
	c, err := Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	pred := c.TrackPrediction()
	if pred.Horizon != 24*time.Hour || pred.Step != 30*time.Second {
		t.Errorf("prediction defaults not applied: %+v", pred)
	}
	if pred.MinElevationDeg != DefaultMinElevationDeg {
		t.Errorf("min elevation default not applied: %v", pred.MinElevationDeg)
	}
	if c.TrackRadio() != nil {
		t.Error("radio should default to disabled")
	}
	if c.Display.PredictEvery != DefaultPredictEvery {
		t.Errorf("predict_every default not applied: %v", c.Display.PredictEvery)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantSub string
	}{
		{
			name:    "missing observer name",
			yaml:    "observer:\n  latitude: 10\nsatellites:\n  tle_file: x.tle\n",
			wantSub: "name is required",
		},
		{
			name:    "latitude out of range",
			yaml:    "observer:\n  name: X\n  latitude: 95\nsatellites:\n  tle_file: x.tle\n",
			wantSub: "latitude",
		},
		{
			name:    "missing tle file",
			yaml:    "observer:\n  name: X\n  latitude: 10\n",
			wantSub: "tle_file is required",
		},
		{
			name: "bad prediction step",
			yaml: "observer:\n  name: X\n  latitude: 10\nsatellites:\n  tle_file: x.tle\n" +
				"prediction:\n  step_seconds: -5\n",
			wantSub: "step",
		},
		{
			name: "radio without downlink",
			yaml: "observer:\n  name: X\n  latitude: 10\nsatellites:\n  tle_file: x.tle\n" +
				"radio:\n  enabled: true\n",
			wantSub: "downlink",
		},
		{
			name:    "not yaml",
			yaml:    "{{{",
			wantSub: "parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q missing %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
