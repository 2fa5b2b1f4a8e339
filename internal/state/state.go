// Package state provides thread-safe state management for the application.
package state

import (
	"sort"
	"sync"
	"time"

	"github.com/litescript/ls-sattrack/internal/track"
)

// Alert flags a pass that is imminent or in progress.
type Alert struct {
	Satellite string    `json:"satellite"`
	Rise      time.Time `json:"rise"`
	MaxElDeg  float64   `json:"max_el_deg"`
	Active    bool      `json:"active"` // pass in progress right now
}

// AlertConfig filters which passes raise alerts.
type AlertConfig struct {
	Enabled         bool
	Lead            time.Duration // alert this far before rise
	MinElevationDeg float64       // ignore passes culminating below this
}

// Manager handles all shared application state with thread-safe access.
// The refresh goroutine writes, the UI reads snapshots.
type Manager struct {
	mu sync.RWMutex

	// Current state
	positions   []track.SatellitePosition
	predictions []track.Prediction
	lastRefresh time.Time
	lastPredict time.Time
	lastError   error

	// Derived data
	alerts []Alert

	// Configuration
	refreshInterval time.Duration
	alertCfg        AlertConfig
}

// Config holds configuration for the state manager.
type Config struct {
	RefreshInterval time.Duration
	Alerts          AlertConfig
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &Manager{
		refreshInterval: interval,
		alertCfg:        cfg.Alerts,
	}
}

// UpdatePositions atomically replaces the live position set. A refresh
// error is recorded but does not clear the last good data; the UI shows
// both.
func (m *Manager) UpdatePositions(positions []track.SatellitePosition, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastRefresh = time.Now()
	m.lastError = err
	if positions != nil {
		m.positions = positions
	}
	m.refreshAlerts(time.Now())
}

// UpdatePredictions atomically replaces the cached pass predictions.
func (m *Manager) UpdatePredictions(preds []track.Prediction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastPredict = time.Now()
	m.predictions = preds
	m.refreshAlerts(time.Now())
}

// refreshAlerts recomputes the alert list from cached predictions.
// Caller must hold the write lock.
func (m *Manager) refreshAlerts(now time.Time) {
	m.alerts = nil
	if !m.alertCfg.Enabled {
		return
	}

	for _, pred := range m.predictions {
		for _, p := range pred.Passes {
			if p.MaxElDeg < m.alertCfg.MinElevationDeg {
				continue
			}
			if now.After(p.Set) {
				continue
			}
			active := !now.Before(p.Rise)
			if !active && p.Rise.Sub(now) > m.alertCfg.Lead {
				continue
			}
			m.alerts = append(m.alerts, Alert{
				Satellite: p.Satellite,
				Rise:      p.Rise,
				MaxElDeg:  p.MaxElDeg,
				Active:    active,
			})
		}
	}
}

// Snapshot is an immutable view of current state.
type Snapshot struct {
	Positions   []track.SatellitePosition
	Predictions []track.Prediction
	Alerts      []Alert
	LastRefresh time.Time
	LastPredict time.Time
	LastError   error
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	positions := make([]track.SatellitePosition, len(m.positions))
	copy(positions, m.positions)

	preds := make([]track.Prediction, len(m.predictions))
	copy(preds, m.predictions)

	alerts := make([]Alert, len(m.alerts))
	copy(alerts, m.alerts)

	return Snapshot{
		Positions:   positions,
		Predictions: preds,
		Alerts:      alerts,
		LastRefresh: m.lastRefresh,
		LastPredict: m.lastPredict,
		LastError:   m.lastError,
	}
}

// Passes returns every cached pass in rise order, flattened across
// satellites.
func (m *Manager) Passes() []track.Pass {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var passes []track.Pass
	for _, pred := range m.predictions {
		passes = append(passes, pred.Passes...)
	}
	sort.Slice(passes, func(i, j int) bool {
		return passes[i].Rise.Before(passes[j].Rise)
	})
	return passes
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// HasData returns true once at least one refresh has delivered positions.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.positions) > 0
}
