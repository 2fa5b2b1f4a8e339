// Package catalog persists per-satellite details: element sets, launch
// information, and radio frequency overrides.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a satellite is not in the catalog.
var ErrNotFound = errors.New("catalog: satellite not found")

// Entry is one satellite's stored details. Frequencies are optional
// overrides of the station radio config; zero means "use the station's".
type Entry struct {
	Name        string
	NoradID     int
	Line1       string
	Line2       string
	LaunchDate  string // free-form, typically YYYY-MM-DD
	DownlinkMHz float64
	UplinkMHz   float64
	Notes       string
	UpdatedAt   time.Time
}

// Store is a SQLite-backed satellite catalog.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS satellite_details (
	name         TEXT PRIMARY KEY,
	norad_id     INTEGER NOT NULL DEFAULT 0,
	line1        TEXT NOT NULL DEFAULT '',
	line2        TEXT NOT NULL DEFAULT '',
	launch_date  TEXT NOT NULL DEFAULT '',
	downlink_mhz REAL NOT NULL DEFAULT 0,
	uplink_mhz   REAL NOT NULL DEFAULT 0,
	notes        TEXT NOT NULL DEFAULT '',
	updated_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_satellite_norad ON satellite_details(norad_id);
`

// Open opens (creating if needed) a catalog at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenMemory opens a throwaway in-memory catalog, used by tests.
func OpenMemory() (*Store, error) {
	return Open(":memory:")
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert inserts or replaces an entry keyed by satellite name.
func (s *Store) Upsert(e Entry) error {
	if e.Name == "" {
		return fmt.Errorf("catalog upsert: empty name")
	}
	_, err := s.db.Exec(`
		INSERT INTO satellite_details
			(name, norad_id, line1, line2, launch_date, downlink_mhz, uplink_mhz, notes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			norad_id     = excluded.norad_id,
			line1        = excluded.line1,
			line2        = excluded.line2,
			launch_date  = excluded.launch_date,
			downlink_mhz = excluded.downlink_mhz,
			uplink_mhz   = excluded.uplink_mhz,
			notes        = excluded.notes,
			updated_at   = excluded.updated_at`,
		e.Name, e.NoradID, e.Line1, e.Line2, e.LaunchDate,
		e.DownlinkMHz, e.UplinkMHz, e.Notes,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("catalog upsert %q: %w", e.Name, err)
	}
	return nil
}

// Get looks up an entry by satellite name.
func (s *Store) Get(name string) (Entry, error) {
	row := s.db.QueryRow(`
		SELECT name, norad_id, line1, line2, launch_date, downlink_mhz, uplink_mhz, notes, updated_at
		FROM satellite_details WHERE name = ?`, name)

	e, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("catalog get %q: %w", name, err)
	}
	return e, nil
}

// All returns every entry ordered by name.
func (s *Store) All() ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT name, norad_id, line1, line2, launch_date, downlink_mhz, uplink_mhz, notes, updated_at
		FROM satellite_details ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("catalog list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("catalog list: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog list: %w", err)
	}
	return entries, nil
}

// Delete removes an entry by name. Deleting a missing entry is not an error.
func (s *Store) Delete(name string) error {
	if _, err := s.db.Exec(`DELETE FROM satellite_details WHERE name = ?`, name); err != nil {
		return fmt.Errorf("catalog delete %q: %w", name, err)
	}
	return nil
}

func scanEntry(scan func(dest ...any) error) (Entry, error) {
	var e Entry
	var updated string
	err := scan(&e.Name, &e.NoradID, &e.Line1, &e.Line2, &e.LaunchDate,
		&e.DownlinkMHz, &e.UplinkMHz, &e.Notes, &updated)
	if err != nil {
		return Entry{}, err
	}
	if t, perr := time.Parse(time.RFC3339, updated); perr == nil {
		e.UpdatedAt = t
	}
	return e, nil
}
