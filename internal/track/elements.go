// Package track implements the orbital geometry engine: SGP4 propagation,
// pass prediction, and radio link evaluation for satellites observed from a
// fixed ground location.
package track

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// TLE freshness thresholds. Element sets degrade with age; beyond a few
// months SGP4 predictions drift by tens of kilometers.
const (
	AgeWarnThreshold  = 30 * 24 * time.Hour
	AgeStaleThreshold = 90 * 24 * time.Hour
)

// AgeStatus classifies how old an element set is.
type AgeStatus int

const (
	AgeFresh AgeStatus = iota
	AgeAging           // older than 30 days, accuracy degrading
	AgeStale           // older than 90 days, predictions unreliable
)

// String returns the status name.
func (s AgeStatus) String() string {
	switch s {
	case AgeFresh:
		return "FRESH"
	case AgeAging:
		return "AGING"
	case AgeStale:
		return "STALE"
	default:
		return "?"
	}
}

// OrbitalElements is an immutable two-line element set for one satellite.
// The raw lines are retained because the SGP4 library consumes them directly;
// the parsed fields are for display and sanity checks.
type OrbitalElements struct {
	Name    string
	NoradID int
	Line1   string
	Line2   string
	Epoch   time.Time

	InclinationDeg float64
	Eccentricity   float64
	MeanMotionRev  float64 // revolutions per day
}

// Age returns how far now is past the element set's epoch.
func (e OrbitalElements) Age(now time.Time) time.Duration {
	return now.Sub(e.Epoch)
}

// AgeStatus classifies the element set's age at the given time.
func (e OrbitalElements) AgeStatus(now time.Time) AgeStatus {
	age := e.Age(now)
	switch {
	case age > AgeStaleThreshold:
		return AgeStale
	case age > AgeWarnThreshold:
		return AgeAging
	default:
		return AgeFresh
	}
}

// ValidateTLELines performs format validation on a pair of TLE lines. The
// SGP4 library calls log.Fatal on malformed input, so everything must be
// checked before the lines reach it.
func ValidateTLELines(line1, line2 string) error {
	if len(line1) != 69 {
		return fmt.Errorf("line 1 is %d chars, want 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line 2 is %d chars, want 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line 1 starts with %q, want '1'", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line 2 starts with %q, want '2'", line2[0])
	}
	if err := verifyChecksum(line1); err != nil {
		return fmt.Errorf("line 1: %w", err)
	}
	if err := verifyChecksum(line2); err != nil {
		return fmt.Errorf("line 2: %w", err)
	}
	if c1, c2 := strings.TrimSpace(line1[2:7]), strings.TrimSpace(line2[2:7]); c1 != c2 {
		return fmt.Errorf("catalog number mismatch between lines: %q vs %q", c1, c2)
	}
	return nil
}

// verifyChecksum checks the mod-10 checksum in column 69. Digits count their
// value, minus signs count 1, everything else counts 0.
func verifyChecksum(line string) error {
	sum := 0
	for _, c := range line[:68] {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	want := int(line[68] - '0')
	if sum%10 != want {
		return fmt.Errorf("checksum %d, line says %d", sum%10, want)
	}
	return nil
}

// ParseTLE parses a named two-line element set.
func ParseTLE(name, line1, line2 string) (OrbitalElements, error) {
	line1 = strings.TrimRight(line1, "\r\n")
	line2 = strings.TrimRight(line2, "\r\n")

	if err := ValidateTLELines(line1, line2); err != nil {
		return OrbitalElements{}, fmt.Errorf("tle %q: %w", name, err)
	}

	el := OrbitalElements{
		Name:  strings.TrimSpace(name),
		Line1: line1,
		Line2: line2,
	}

	norad, err := strconv.Atoi(strings.TrimSpace(line1[2:7]))
	if err != nil {
		return OrbitalElements{}, fmt.Errorf("tle %q: catalog number: %w", name, err)
	}
	el.NoradID = norad

	epoch, err := parseEpoch(line1)
	if err != nil {
		return OrbitalElements{}, fmt.Errorf("tle %q: %w", name, err)
	}
	el.Epoch = epoch

	if el.InclinationDeg, err = parseField(line2, 8, 16, "inclination"); err != nil {
		return OrbitalElements{}, fmt.Errorf("tle %q: %w", name, err)
	}
	// Eccentricity has an implied leading decimal point.
	ecc, err := strconv.ParseFloat("0."+strings.TrimSpace(line2[26:33]), 64)
	if err != nil {
		return OrbitalElements{}, fmt.Errorf("tle %q: eccentricity: %w", name, err)
	}
	el.Eccentricity = ecc
	if el.MeanMotionRev, err = parseField(line2, 52, 63, "mean motion"); err != nil {
		return OrbitalElements{}, fmt.Errorf("tle %q: %w", name, err)
	}
	if el.MeanMotionRev <= 0 {
		return OrbitalElements{}, fmt.Errorf("tle %q: non-positive mean motion %v", name, el.MeanMotionRev)
	}

	return el, nil
}

func parseField(line string, start, end int, what string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(line[start:end]), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	return v, nil
}

// parseEpoch extracts the element set epoch from line 1 columns 19-32:
// a two-digit year followed by a fractional day of year. Years below 57 are
// 20xx, otherwise 19xx (the convention pivots at Sputnik's launch year).
func parseEpoch(line1 string) (time.Time, error) {
	yy, err := strconv.Atoi(strings.TrimSpace(line1[18:20]))
	if err != nil {
		return time.Time{}, fmt.Errorf("epoch year: %w", err)
	}
	doy, err := strconv.ParseFloat(strings.TrimSpace(line1[20:32]), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("epoch day: %w", err)
	}
	if doy < 1 || doy >= 367 {
		return time.Time{}, fmt.Errorf("epoch day %v out of range", doy)
	}

	year := yy + 2000
	if yy >= 57 {
		year = yy + 1900
	}

	jan1 := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	// Day of year is 1-based.
	return jan1.Add(time.Duration((doy - 1) * 24 * float64(time.Hour))), nil
}

// TLEParseError records a parse failure for one entry in a multi-satellite
// element file.
type TLEParseError struct {
	Name string
	Line int
	Err  error
}

func (e *TLEParseError) Error() string {
	return fmt.Sprintf("tle entry %q at line %d: %v", e.Name, e.Line, e.Err)
}

func (e *TLEParseError) Unwrap() error { return e.Err }

// ReadTLESet reads a standard three-line-per-satellite TLE file. Entries
// that fail to parse are reported individually and do not abort the rest of
// the file; callers decide whether partial results are acceptable.
func ReadTLESet(r io.Reader) ([]OrbitalElements, []error) {
	var (
		elements []OrbitalElements
		errs     []error
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	var name string
	var nameLine int
	var line1 string

	flush := func(line2 string) {
		el, err := ParseTLE(name, line1, line2)
		if err != nil {
			errs = append(errs, &TLEParseError{Name: name, Line: nameLine, Err: err})
		} else {
			elements = append(elements, el)
		}
		name, line1 = "", ""
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "1 "):
			if name == "" {
				name = "UNNAMED"
				nameLine = lineNo
			}
			line1 = line
		case strings.HasPrefix(line, "2 "):
			if line1 == "" {
				errs = append(errs, &TLEParseError{Name: name, Line: lineNo,
					Err: fmt.Errorf("line 2 without a preceding line 1")})
				name = ""
				continue
			}
			flush(line)
		default:
			if line1 != "" {
				errs = append(errs, &TLEParseError{Name: name, Line: nameLine,
					Err: fmt.Errorf("line 1 without a following line 2")})
			}
			name = strings.TrimSpace(line)
			nameLine = lineNo
			line1 = ""
		}
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("reading tle set: %w", err))
	}
	if line1 != "" {
		errs = append(errs, &TLEParseError{Name: name, Line: nameLine,
			Err: fmt.Errorf("truncated entry at end of file")})
	}

	return elements, errs
}
