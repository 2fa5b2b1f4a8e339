package track

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
)

// SnapshotExport is the JSON-serializable representation of one tracking
// snapshot: the observer, every satellite's geometry, and the predicted
// passes.
type SnapshotExport struct {
	Timestamp  time.Time          `json:"timestamp"`
	Observer   ObserverExport     `json:"observer"`
	Satellites []SatelliteExport  `json:"satellites"`
	Passes     []PassExport       `json:"passes,omitempty"`
}

// ObserverExport is a JSON-friendly observer representation.
type ObserverExport struct {
	Name   string  `json:"name"`
	LatDeg float64 `json:"lat_deg"`
	LonDeg float64 `json:"lon_deg"`
	AltM   float64 `json:"alt_m"`
}

// SatelliteExport is a JSON-friendly satellite position with derived fields.
type SatelliteExport struct {
	Name         string  `json:"name"`
	Status       string  `json:"status"`
	Error        string  `json:"error,omitempty"`
	LatDeg       float64 `json:"lat_deg,omitempty"`
	LonDeg       float64 `json:"lon_deg,omitempty"`
	AltKm        float64 `json:"alt_km,omitempty"`
	SpeedKmS     float64 `json:"speed_km_s,omitempty"`
	AzimuthDeg   float64 `json:"azimuth_deg,omitempty"`
	ElevationDeg float64 `json:"elevation_deg,omitempty"`
	RangeKm      float64 `json:"range_km,omitempty"`
	RangeRateKmS float64 `json:"range_rate_km_s,omitempty"`
	Visible      bool    `json:"visible"`
	Signal       string  `json:"signal,omitempty"`
	DopplerHz    float64 `json:"doppler_hz,omitempty"`
}

// PassExport is a JSON-friendly pass record.
type PassExport struct {
	Satellite string    `json:"satellite"`
	Rise      time.Time `json:"rise"`
	RiseAzDeg float64   `json:"rise_az_deg"`
	Max       time.Time `json:"max"`
	MaxElDeg  float64   `json:"max_el_deg"`
	Set       time.Time `json:"set"`
	SetAzDeg  float64   `json:"set_az_deg"`
	Seconds   float64   `json:"duration_s"`
}

// ExportSnapshot converts a batch of positions and predictions to the
// exportable format.
func ExportSnapshot(obs ObserverLocation, positions []SatellitePosition, preds []Prediction, at time.Time) *SnapshotExport {
	export := &SnapshotExport{
		Timestamp: at,
		Observer: ObserverExport{
			Name:   obs.Name,
			LatDeg: obs.Geodetic.LatDeg,
			LonDeg: obs.Geodetic.LonDeg,
			AltM:   obs.Geodetic.AltKm * 1000,
		},
	}

	for _, pos := range positions {
		se := SatelliteExport{
			Name:   pos.Name,
			Status: pos.Status.String(),
		}
		if pos.Status != StatusOK {
			if pos.Err != nil {
				se.Error = pos.Err.Error()
			}
			export.Satellites = append(export.Satellites, se)
			continue
		}

		se.LatDeg = pos.Subpoint.LatDeg
		se.LonDeg = pos.Subpoint.LonDeg
		se.AltKm = pos.Subpoint.AltKm
		se.SpeedKmS = pos.SpeedKmS
		se.AzimuthDeg = pos.Look.AzimuthDeg
		se.ElevationDeg = pos.Look.ElevationDeg
		se.RangeKm = pos.Look.RangeKm
		se.RangeRateKmS = pos.Look.RangeRateKmS
		se.Visible = pos.Visible
		if pos.Link != nil {
			se.Signal = pos.Link.Strength.String()
			se.DopplerHz = pos.Link.Doppler.DownlinkShiftHz
		}
		export.Satellites = append(export.Satellites, se)
	}

	for _, pred := range preds {
		for _, p := range pred.Passes {
			export.Passes = append(export.Passes, PassExport{
				Satellite: p.Satellite,
				Rise:      p.Rise,
				RiseAzDeg: p.RiseAzDeg,
				Max:       p.Max,
				MaxElDeg:  p.MaxElDeg,
				Set:       p.Set,
				SetAzDeg:  p.SetAzDeg,
				Seconds:   p.Duration().Seconds(),
			})
		}
	}

	return export
}

// WriteJSON writes the snapshot as indented JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteSummaryTable writes a plain-text position table to the given writer.
func WriteSummaryTable(w io.Writer, obs ObserverLocation, positions []SatellitePosition, timestamp time.Time) {
	fmt.Fprintf(w, "Satellites over %s @ %s\n", obs.Name, timestamp.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 86))

	if len(positions) == 0 {
		fmt.Fprintln(w, "No satellites tracked")
		return
	}

	fmt.Fprintf(w, "%-16s %-8s %7s %7s %9s %9s %8s %-10s\n",
		"Satellite", "Status", "Az", "El", "Range", "Rate", "Alt", "Signal")
	fmt.Fprintln(w, strings.Repeat("─", 86))

	visible := 0
	for _, pos := range positions {
		if pos.Status != StatusOK {
			fmt.Fprintf(w, "%-16s %-8s %s\n",
				truncateStr(pos.Name, 16), pos.Status, errText(pos.Err))
			continue
		}
		if pos.Visible {
			visible++
		}
		signal := "-"
		if pos.Link != nil {
			signal = pos.Link.Strength.String()
		}
		fmt.Fprintf(w, "%-16s %-8s %6.1f° %6.1f° %7.0fkm %6.2fkm/s %6.0fkm %-10s\n",
			truncateStr(pos.Name, 16),
			pos.Status,
			pos.Look.AzimuthDeg,
			pos.Look.ElevationDeg,
			pos.Look.RangeKm,
			pos.Look.RangeRateKmS,
			pos.Subpoint.AltKm,
			signal,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d tracked, %d visible\n", len(positions), visible)
}

// WritePassTable writes a plain-text upcoming-pass table to the given writer.
func WritePassTable(w io.Writer, preds []Prediction, now time.Time) {
	var passes []Pass
	for _, pred := range preds {
		passes = append(passes, pred.Passes...)
		if pred.Diagnostic != "" {
			fmt.Fprintf(w, "%s: %s\n", pred.Satellite, pred.Diagnostic)
		}
	}
	sortPasses(passes)

	fmt.Fprintf(w, "Upcoming passes @ %s\n", now.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 80))

	if len(passes) == 0 {
		fmt.Fprintln(w, "No passes in horizon")
		return
	}

	fmt.Fprintf(w, "%-16s %-17s %7s %7s %-17s %8s\n",
		"Satellite", "Rise (UTC)", "RiseAz", "MaxEl", "Set (UTC)", "Length")
	fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, p := range passes {
		fmt.Fprintf(w, "%-16s %-17s %6.0f° %6.1f° %-17s %8s\n",
			truncateStr(p.Satellite, 16),
			p.Rise.UTC().Format("01-02 15:04:05"),
			p.RiseAzDeg,
			p.MaxElDeg,
			p.Set.UTC().Format("01-02 15:04:05"),
			formatDuration(p.Duration()),
		)
	}
}

// WriteNowLine writes a compact single-line status for each satellite,
// suitable for scripts and status bars.
func WriteNowLine(w io.Writer, positions []SatellitePosition) {
	var parts []string
	for _, pos := range positions {
		if pos.Status != StatusOK {
			parts = append(parts, fmt.Sprintf("%s: no data", pos.Name))
			continue
		}
		if !pos.Visible {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s az %.0f° el %.0f°", pos.Name, pos.Look.AzimuthDeg, pos.Look.ElevationDeg))
	}
	if len(parts) == 0 {
		fmt.Fprintln(w, "no satellites visible")
		return
	}
	fmt.Fprintln(w, strings.Join(parts, " | "))
}

// FormatDopplerShift formats a Doppler shift for display.
func FormatDopplerShift(hz float64) string {
	if math.Abs(hz) >= 1000 {
		return fmt.Sprintf("%+.2f kHz", hz/1000)
	}
	return fmt.Sprintf("%+.0f Hz", hz)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%02ds", m, s)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
