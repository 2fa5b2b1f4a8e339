package track

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func approxEq(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// Canonical ISS element set (checksums valid).
const (
	issName  = "ISS (ZARYA)"
	issLine1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	issLine2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
)

func TestParseTLE(t *testing.T) {
	el, err := ParseTLE(issName, issLine1, issLine2)
	if err != nil {
		t.Fatalf("ParseTLE: %v", err)
	}

	if el.Name != issName {
		t.Errorf("name = %q", el.Name)
	}
	if el.NoradID != 25544 {
		t.Errorf("norad = %d, want 25544", el.NoradID)
	}
	if !approxEq(el.InclinationDeg, 51.6416, 1e-9) {
		t.Errorf("inclination = %v", el.InclinationDeg)
	}
	if !approxEq(el.Eccentricity, 0.0006703, 1e-9) {
		t.Errorf("eccentricity = %v", el.Eccentricity)
	}
	if !approxEq(el.MeanMotionRev, 15.72125391, 1e-6) {
		t.Errorf("mean motion = %v", el.MeanMotionRev)
	}

	// Epoch 08264.51782528: day 264 of 2008 is September 20.
	if el.Epoch.Year() != 2008 || el.Epoch.Month() != time.September || el.Epoch.Day() != 20 {
		t.Errorf("epoch = %v, want 2008-09-20", el.Epoch)
	}
	if el.Epoch.Hour() != 12 {
		t.Errorf("epoch hour = %d, want 12", el.Epoch.Hour())
	}
}

func TestParseTLE_CenturyPivot(t *testing.T) {
	// Column 19-20 year 98 must land in 1998, not 2098.
	line1 := "1 25544U 98067A   98324.28472222 -.00003469  00000-0 -34726-4 0  9995"
	el, err := ParseTLE("ZARYA", line1, issLine2)
	if err != nil {
		t.Fatalf("ParseTLE: %v", err)
	}
	if el.Epoch.Year() != 1998 {
		t.Errorf("epoch year = %d, want 1998", el.Epoch.Year())
	}
}

func TestValidateTLELines(t *testing.T) {
	tests := []struct {
		name   string
		line1  string
		line2  string
		wantOK bool
	}{
		{name: "valid", line1: issLine1, line2: issLine2, wantOK: true},
		{name: "short line 1", line1: issLine1[:60], line2: issLine2},
		{name: "short line 2", line1: issLine1, line2: issLine2[:68]},
		{name: "wrong prefix", line1: "2" + issLine1[1:], line2: issLine2},
		{name: "bad checksum", line1: issLine1[:68] + "0", line2: issLine2},
		{
			name:  "catalog mismatch",
			line1: issLine1,
			line2: "2 25545  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563538",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTLELines(tt.line1, tt.line2)
			if tt.wantOK && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.wantOK && err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestAgeStatus(t *testing.T) {
	el, err := ParseTLE(issName, issLine1, issLine2)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		after time.Duration
		want  AgeStatus
	}{
		{after: 24 * time.Hour, want: AgeFresh},
		{after: 45 * 24 * time.Hour, want: AgeAging},
		{after: 180 * 24 * time.Hour, want: AgeStale},
	}
	for _, tt := range tests {
		if got := el.AgeStatus(el.Epoch.Add(tt.after)); got != tt.want {
			t.Errorf("AgeStatus at +%v = %v, want %v", tt.after, got, tt.want)
		}
	}
}

func TestReadTLESet(t *testing.T) {
	input := strings.Join([]string{
		issName,
		issLine1,
		issLine2,
		"BROKEN SAT",
		"1 garbage",
		"2 garbage",
		"", // blank lines are skipped
	}, "\n")

	elements, errs := ReadTLESet(strings.NewReader(input))

	if len(elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(elements))
	}
	if elements[0].NoradID != 25544 {
		t.Errorf("norad = %d", elements[0].NoradID)
	}

	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	var perr *TLEParseError
	if !errors.As(errs[0], &perr) {
		t.Fatalf("error type %T, want *TLEParseError", errs[0])
	}
	if perr.Name != "BROKEN SAT" {
		t.Errorf("failed entry name = %q", perr.Name)
	}
}

func TestReadTLESet_TruncatedEntry(t *testing.T) {
	input := issName + "\n" + issLine1 + "\n"
	elements, errs := ReadTLESet(strings.NewReader(input))
	if len(elements) != 0 {
		t.Errorf("got %d elements, want 0", len(elements))
	}
	if len(errs) != 1 {
		t.Errorf("got %d errors, want 1", len(errs))
	}
}
