package astro

import (
	"math"
	"testing"
	"time"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want float64
	}{
		{
			name: "J2000 epoch",
			t:    time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			want: 2451545.0,
		},
		{
			name: "start of 2000",
			t:    time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			want: 2451544.5,
		},
		{
			name: "Vallado example 3-4",
			t:    time.Date(1996, 10, 26, 14, 20, 0, 0, time.UTC),
			want: 2450383.09722222,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.t)
			if !approxEq(got, tt.want, 1e-6) {
				t.Errorf("JulianDate(%v) = %.8f, want %.8f", tt.t, got, tt.want)
			}
		})
	}
}

func TestGMST_ReferenceValues(t *testing.T) {
	tests := []struct {
		name    string
		t       time.Time
		wantDeg float64
	}{
		{
			// At the J2000 epoch the series constant term dominates:
			// 67310.54841 s -> 280.4606 deg.
			name:    "J2000 epoch",
			t:       time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			wantDeg: 280.46062,
		},
		{
			name:    "2000-01-01 midnight",
			t:       time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			wantDeg: 99.96775,
		},
		{
			// Vallado Example 3-5.
			name:    "1992-08-20 12:14 UT",
			t:       time.Date(1992, 8, 20, 12, 14, 0, 0, time.UTC),
			wantDeg: 152.578788,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := radToDeg(GMST(tt.t))
			if !approxEq(got, tt.wantDeg, 1e-3) {
				t.Errorf("GMST(%v) = %.6f deg, want %.6f deg", tt.t, got, tt.wantDeg)
			}
		})
	}
}

func TestGMST_Range(t *testing.T) {
	for _, tm := range []time.Time{
		time.Date(1980, 3, 1, 6, 30, 0, 0, time.UTC),
		time.Date(2026, 8, 29, 18, 45, 12, 0, time.UTC),
		time.Date(2050, 12, 31, 23, 59, 59, 0, time.UTC),
	} {
		g := GMST(tm)
		if g < 0 || g >= 2*math.Pi {
			t.Errorf("GMST(%v) = %v, outside [0, 2pi)", tm, g)
		}
	}
}

func TestGMST_DailyAdvance(t *testing.T) {
	// Sidereal time gains about 0.9856 deg per solar day.
	t0 := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	g0 := GMST(t0)
	g1 := GMST(t0.Add(24 * time.Hour))

	diff := radToDeg(g1 - g0)
	for diff < 0 {
		diff += 360
	}
	if !approxEq(diff, 0.98565, 1e-3) {
		t.Errorf("GMST advance over one day = %.5f deg, want ~0.98565 deg", diff)
	}
}
