// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - Satellite catalog store, per-satellite frequency overrides, pass alerts
// 0.3.0 - Radio panel: Doppler correction, signal tiers, communication windows
// 0.2.0 - Pass prediction with rise/culmination/set refinement, sky view
// 0.1.0 - Initial release: TLE loading, live look angles, TUI dashboard, headless modes
