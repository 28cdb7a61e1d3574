package recency

import (
	"math"
	"testing"
	"time"
)

func TestScore_DecaysWithHalfLife(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, SGT)
	cases := []struct {
		name string
		t    time.Time
		want float64
	}{
		{"fresh", now, 1.0},
		{"half_life", now.Add(-6 * 24 * time.Hour), 0.5},
		{"ttl_boundary_inside", now.Add(-14 * 24 * time.Hour), math.Exp(-math.Ln2 * 14 / 6)},
		{"just_past_ttl", now.Add(-14*24*time.Hour - time.Second), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Score(c.t, now)
			want := roundTo4(c.want)
			if math.Abs(got-want) > 1e-9 {
				t.Fatalf("Score() = %v, want %v", got, want)
			}
		})
	}
}

func TestScore_ClampedToUnitInterval(t *testing.T) {
	now := time.Now()
	got := Score(now, now)
	if got < 0 || got > 1 {
		t.Fatalf("Score() out of [0,1]: %v", got)
	}
}

func TestParseNaive_InterpretsAsSGT(t *testing.T) {
	tm, err := ParseNaive("2026-01-15 08:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tm.Location() != SGT {
		t.Fatalf("expected SGT location, got %v", tm.Location())
	}
}

func TestParseNaive_BadTimestamp(t *testing.T) {
	_, err := ParseNaive("not-a-timestamp")
	if err == nil {
		t.Fatalf("expected error")
	}
	var bt *BadTimestamp
	if !asBadTimestamp(err, &bt) {
		t.Fatalf("expected *BadTimestamp, got %T", err)
	}
}

func asBadTimestamp(err error, target **BadTimestamp) bool {
	if bt, ok := err.(*BadTimestamp); ok {
		*target = bt
		return true
	}
	return false
}

func TestForRecord_PrefersLastUpdated(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, SGT)
	lastUpdated := now
	createdAt := now.Add(-20 * 24 * time.Hour)
	got := ForRecord(lastUpdated, createdAt, now)
	if got != 1.0 {
		t.Fatalf("expected fresh score from last_updated, got %v", got)
	}
}

func TestForRecord_FallsBackToCreatedAt(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, SGT)
	createdAt := now.Add(-6 * 24 * time.Hour)
	got := ForRecord(time.Time{}, createdAt, now)
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected half-life score from created_at, got %v", got)
	}
}
