// Command ls-sattrack is a terminal UI for tracking satellites from a ground
// station: live look angles, pass prediction, and Doppler-corrected radio
// frequencies.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-sattrack/internal/catalog"
	"github.com/litescript/ls-sattrack/internal/config"
	"github.com/litescript/ls-sattrack/internal/logging"
	"github.com/litescript/ls-sattrack/internal/state"
	"github.com/litescript/ls-sattrack/internal/track"
	"github.com/litescript/ls-sattrack/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	passesMode    bool
	nowMode       bool
	watchInterval time.Duration
	snapshotPath  string
)

func main() {
	configPath := flag.String("config", "sattrack.yaml", "Path to configuration file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to file (TUI mode discards logs otherwise)")
	flag.BoolVar(&summaryMode, "summary", false, "Print position table instead of TUI")
	flag.BoolVar(&passesMode, "passes", false, "Print upcoming-pass table instead of TUI")
	flag.BoolVar(&nowMode, "now", false, "Single-line visible-satellite status")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat headless output at interval (e.g., 30s)")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	flag.Parse()

	headless := summaryMode || passesMode || nowMode || snapshotPath != ""

	// Named loggers capture the output at creation, so the destination is
	// settled first: a file when asked for, stderr when headless, discarded
	// while the TUI owns the terminal.
	logger := logging.New(logging.ParseLevel(*logLevel))
	switch {
	case *logFile != "":
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	case !headless:
		logger.SetOutput(io.Discard)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Optional satellite-details catalog
	var store *catalog.Store
	if cfg.Catalog.Path != "" {
		store, err = catalog.Open(cfg.Catalog.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open catalog: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	obs, err := cfg.ObserverLocation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sats, err := loadSatellites(cfg, store, logger.Named("tle"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("Tracking %d satellites from %s", len(sats), obs.Name)

	tracker, err := track.NewTracker(obs, cfg.Prediction.MinElevationDeg, cfg.TrackRadio(), cfg.TrackPrediction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stateMgr := state.NewManager(state.Config{
		RefreshInterval: cfg.RefreshInterval(),
		Alerts: state.AlertConfig{
			Enabled:         cfg.Alerts.Enabled,
			Lead:            cfg.AlertLead(),
			MinElevationDeg: cfg.Alerts.MinElevationDeg,
		},
	})

	app := &app{
		cfg:     cfg,
		tracker: tracker,
		sats:    sats,
		state:   stateMgr,
		logger:  logger.Named("refresh"),
	}

	if headless {
		app.runHeadless(ctx)
		return
	}

	model := ui.New(stateMgr)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go app.runRefreshLoop(ctx, p)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the long-lived pieces the refresh loop works with.
type app struct {
	cfg     *config.Config
	tracker *track.Tracker
	sats    []*track.Satellite
	state   *state.Manager
	logger  *logging.Logger
}

// loadSatellites reads the TLE file, applies the name filter and cap, merges
// catalog frequency overrides, and initializes a propagator per satellite.
// Entries that fail to parse or initialize are logged and skipped; only an
// empty result is fatal.
func loadSatellites(cfg *config.Config, store *catalog.Store, logger *logging.Logger) ([]*track.Satellite, error) {
	f, err := os.Open(cfg.Satellites.TLEFile)
	if err != nil {
		return nil, fmt.Errorf("open TLE file: %w", err)
	}
	defer f.Close()

	elements, parseErrs := track.ReadTLESet(f)
	for _, perr := range parseErrs {
		logger.Warn("%v", perr)
	}

	wanted := map[string]bool{}
	for _, name := range cfg.Satellites.Names {
		wanted[strings.ToUpper(name)] = true
	}

	base := cfg.TrackRadio()
	now := time.Now()

	var sats []*track.Satellite
	for _, el := range elements {
		if len(wanted) > 0 && !wanted[strings.ToUpper(el.Name)] {
			continue
		}
		if cfg.Satellites.Max > 0 && len(sats) >= cfg.Satellites.Max {
			logger.Info("Satellite cap %d reached, ignoring the rest", cfg.Satellites.Max)
			break
		}

		switch el.AgeStatus(now) {
		case track.AgeStale:
			logger.Warn("%s: element set is %.0f days old, positions will be unreliable", el.Name, el.Age(now).Hours()/24)
		case track.AgeAging:
			logger.Info("%s: element set is %.0f days old", el.Name, el.Age(now).Hours()/24)
		}

		sat, err := track.NewSatellite(el)
		if err != nil {
			logger.Warn("%s: %v, skipping", el.Name, err)
			continue
		}

		if radio := catalogRadio(store, el.Name, base, logger); radio != nil {
			sat.Radio = radio
		}

		sats = append(sats, sat)
	}

	if len(sats) == 0 {
		return nil, errors.New("no usable satellites in TLE file")
	}
	return sats, nil
}

// catalogRadio returns a per-satellite radio override when the catalog knows
// this satellite's frequencies. The station thresholds carry over; only the
// carriers change.
func catalogRadio(store *catalog.Store, name string, base *track.RadioConfig, logger *logging.Logger) *track.RadioConfig {
	if store == nil || base == nil {
		return nil
	}

	entry, err := store.Get(name)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			logger.Warn("catalog lookup %s: %v", name, err)
		}
		return nil
	}
	if entry.DownlinkMHz <= 0 {
		return nil
	}

	override := *base
	override.DownlinkMHz = entry.DownlinkMHz
	if entry.UplinkMHz > 0 {
		override.UplinkMHz = entry.UplinkMHz
	}
	logger.Debug("%s: catalog frequencies %.4f/%.4f MHz", name, override.DownlinkMHz, override.UplinkMHz)
	return &override
}

// runRefreshLoop drives the TUI: positions every tick, pass predictions every
// predict_every ticks.
func (a *app) runRefreshLoop(ctx context.Context, p *tea.Program) {
	a.refreshPositions(time.Now())
	a.refreshPredictions(ctx, time.Now())
	p.Send(ui.DataUpdateMsg{Snapshot: a.state.Snapshot()})

	ticker := time.NewTicker(a.state.RefreshInterval())
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("Refresh loop shutting down")
			return
		case now := <-ticker.C:
			tick++
			a.refreshPositions(now)
			if tick%a.cfg.Display.PredictEvery == 0 {
				a.refreshPredictions(ctx, now)
			}
			p.Send(ui.DataUpdateMsg{Snapshot: a.state.Snapshot()})
		}
	}
}

func (a *app) refreshPositions(now time.Time) {
	positions := a.tracker.Snapshot(a.sats, now)
	a.state.UpdatePositions(positions, nil)
}

func (a *app) refreshPredictions(ctx context.Context, now time.Time) {
	preds, err := a.tracker.PassesAll(ctx, a.sats, now)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			a.logger.Error("Pass prediction failed: %v", err)
			a.state.UpdatePositions(nil, err)
		}
		return
	}
	a.state.UpdatePredictions(preds)
}

// runHeadless handles all headless modes without starting the TUI.
func (a *app) runHeadless(ctx context.Context) {
	outputOnce := func() error {
		now := time.Now()
		positions := a.tracker.Snapshot(a.sats, now)
		a.state.UpdatePositions(positions, nil)

		var preds []track.Prediction
		if passesMode || snapshotPath != "" {
			var err error
			preds, err = a.tracker.PassesAll(ctx, a.sats, now)
			if err != nil {
				return err
			}
			a.state.UpdatePredictions(preds)
		}

		if nowMode {
			track.WriteNowLine(os.Stdout, positions)
			return nil
		}

		if snapshotPath != "" {
			export := track.ExportSnapshot(a.tracker.Observer, positions, preds, now)
			if snapshotPath == "-" {
				if err := export.WriteJSON(os.Stdout); err != nil {
					return fmt.Errorf("write JSON to stdout: %w", err)
				}
			} else {
				f, err := os.Create(snapshotPath)
				if err != nil {
					return fmt.Errorf("create snapshot file: %w", err)
				}
				defer f.Close()
				if err := export.WriteJSON(f); err != nil {
					return fmt.Errorf("write JSON to file: %w", err)
				}
			}
		}

		if summaryMode {
			track.WriteSummaryTable(os.Stdout, a.tracker.Observer, positions, now)
		}

		if passesMode {
			if summaryMode {
				fmt.Println()
			}
			track.WritePassTable(os.Stdout, preds, now)
		}

		return nil
	}

	// Single run
	if watchInterval == 0 {
		if err := outputOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Watch mode: repeat at interval
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !nowMode {
				fmt.Println() // blank line between outputs
				if isTTY {
					fmt.Print("\033[H\033[2J") // clear screen for table modes
				}
			}
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}
