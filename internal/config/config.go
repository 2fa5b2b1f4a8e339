// Package config loads and validates the YAML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/litescript/ls-sattrack/internal/track"
)

// Config is the full application configuration.
type Config struct {
	Observer   ObserverConfig   `yaml:"observer"`
	Satellites SatellitesConfig `yaml:"satellites"`
	Prediction PredictionConfig `yaml:"prediction,omitempty"`
	Radio      RadioConfig      `yaml:"radio,omitempty"`
	Display    DisplayConfig    `yaml:"display,omitempty"`
	Alerts     AlertsConfig     `yaml:"alerts,omitempty"`
	Catalog    CatalogConfig    `yaml:"catalog,omitempty"`
}

// ObserverConfig is the ground station location.
type ObserverConfig struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	AltitudeM float64 `yaml:"altitude_m,omitempty"`
}

// SatellitesConfig selects which element sets to track.
type SatellitesConfig struct {
	TLEFile string   `yaml:"tle_file"`
	Names   []string `yaml:"names,omitempty"` // empty = every satellite in the file
	Max     int      `yaml:"max,omitempty"`   // cap on tracked satellites, 0 = no cap
}

// PredictionConfig bounds the pass-prediction runs.
type PredictionConfig struct {
	HorizonHours    float64 `yaml:"horizon_hours,omitempty"`
	StepSeconds     int     `yaml:"step_seconds,omitempty"`
	MinElevationDeg float64 `yaml:"min_elevation_deg,omitempty"`
	MaxPasses       int     `yaml:"max_passes,omitempty"`
}

// RadioConfig holds station frequencies and link thresholds.
type RadioConfig struct {
	Enabled          bool    `yaml:"enabled"`
	DownlinkMHz      float64 `yaml:"downlink_mhz,omitempty"`
	UplinkMHz        float64 `yaml:"uplink_mhz,omitempty"`
	MinElevationDeg  float64 `yaml:"min_elevation_deg,omitempty"`
	ReferenceRangeKm float64 `yaml:"reference_range_km,omitempty"`
	ReferenceQuality float64 `yaml:"reference_quality,omitempty"`
}

// DisplayConfig tunes the refresh loop.
type DisplayConfig struct {
	RefreshSeconds float64 `yaml:"refresh_seconds,omitempty"`
	// PredictEvery is how many refresh ticks pass between prediction runs;
	// positions update every tick, passes only this often.
	PredictEvery int `yaml:"predict_every,omitempty"`
}

// AlertsConfig controls upcoming-pass alerts.
type AlertsConfig struct {
	Enabled         bool    `yaml:"enabled"`
	LeadMinutes     int     `yaml:"lead_minutes,omitempty"`
	MinElevationDeg float64 `yaml:"min_elevation_deg,omitempty"`
}

// CatalogConfig points at the satellite-details database.
type CatalogConfig struct {
	Path string `yaml:"path,omitempty"` // empty disables the catalog
}

// Defaults applied to fields left unset.
const (
	DefaultHorizonHours     = 24.0
	DefaultStepSeconds      = 30
	DefaultMinElevationDeg  = 10.0
	DefaultRefreshSeconds   = 1.0
	DefaultPredictEvery     = 300
	DefaultLeadMinutes      = 15
	DefaultReferenceRangeKm = 1000.0
	DefaultReferenceQuality = 0.9
)

// Load reads, defaults, and validates a configuration file. Validation
// errors surface here, once, so the refresh loop never re-reports them.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := &Config{}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Prediction.HorizonHours == 0 {
		c.Prediction.HorizonHours = DefaultHorizonHours
	}
	if c.Prediction.StepSeconds == 0 {
		c.Prediction.StepSeconds = DefaultStepSeconds
	}
	if c.Prediction.MinElevationDeg == 0 {
		c.Prediction.MinElevationDeg = DefaultMinElevationDeg
	}
	if c.Display.RefreshSeconds == 0 {
		c.Display.RefreshSeconds = DefaultRefreshSeconds
	}
	if c.Display.PredictEvery == 0 {
		c.Display.PredictEvery = DefaultPredictEvery
	}
	if c.Radio.Enabled {
		if c.Radio.MinElevationDeg == 0 {
			c.Radio.MinElevationDeg = DefaultMinElevationDeg
		}
		if c.Radio.ReferenceRangeKm == 0 {
			c.Radio.ReferenceRangeKm = DefaultReferenceRangeKm
		}
		if c.Radio.ReferenceQuality == 0 {
			c.Radio.ReferenceQuality = DefaultReferenceQuality
		}
	}
	if c.Alerts.Enabled {
		if c.Alerts.LeadMinutes == 0 {
			c.Alerts.LeadMinutes = DefaultLeadMinutes
		}
		if c.Alerts.MinElevationDeg == 0 {
			c.Alerts.MinElevationDeg = DefaultMinElevationDeg
		}
	}
}

// Validate checks the configuration. The track-level configs carry their own
// validation; this adds the file-level concerns.
func (c *Config) Validate() error {
	if c.Observer.Name == "" {
		return fmt.Errorf("observer: name is required")
	}
	if _, err := c.ObserverLocation(); err != nil {
		return err
	}
	if c.Satellites.TLEFile == "" {
		return fmt.Errorf("satellites: tle_file is required")
	}
	if c.Satellites.Max < 0 {
		return fmt.Errorf("satellites: max must not be negative")
	}
	if err := c.TrackPrediction().Validate(); err != nil {
		return err
	}
	if c.Radio.Enabled {
		if err := c.TrackRadio().Validate(); err != nil {
			return err
		}
	}
	if c.Display.RefreshSeconds < 0.1 {
		return fmt.Errorf("display: refresh_seconds %v below 0.1", c.Display.RefreshSeconds)
	}
	if c.Alerts.Enabled && c.Alerts.LeadMinutes < 0 {
		return fmt.Errorf("alerts: lead_minutes must not be negative")
	}
	return nil
}

// ObserverLocation converts the observer block to a track location.
func (c *Config) ObserverLocation() (track.ObserverLocation, error) {
	return track.NewObserverLocation(c.Observer.Name, c.Observer.Latitude, c.Observer.Longitude, c.Observer.AltitudeM)
}

// TrackPrediction converts the prediction block to engine units.
func (c *Config) TrackPrediction() track.PredictionConfig {
	return track.PredictionConfig{
		Horizon:         time.Duration(c.Prediction.HorizonHours * float64(time.Hour)),
		Step:            time.Duration(c.Prediction.StepSeconds) * time.Second,
		MinElevationDeg: c.Prediction.MinElevationDeg,
		MaxPasses:       c.Prediction.MaxPasses,
	}
}

// TrackRadio converts the radio block; nil when radio evaluation is off.
func (c *Config) TrackRadio() *track.RadioConfig {
	if !c.Radio.Enabled {
		return nil
	}
	return &track.RadioConfig{
		DownlinkMHz:      c.Radio.DownlinkMHz,
		UplinkMHz:        c.Radio.UplinkMHz,
		MinElevationDeg:  c.Radio.MinElevationDeg,
		ReferenceRangeKm: c.Radio.ReferenceRangeKm,
		ReferenceQuality: c.Radio.ReferenceQuality,
	}
}

// RefreshInterval returns the display refresh period.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Display.RefreshSeconds * float64(time.Second))
}

// AlertLead returns how far ahead of a pass alerts fire.
func (c *Config) AlertLead() time.Duration {
	return time.Duration(c.Alerts.LeadMinutes) * time.Minute
}
