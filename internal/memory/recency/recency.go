// Package recency implements C2: mapping a stored record's timestamp to a
// [0,1] freshness weight. Grounded on the exponential-decay formula in the
// original Python service's recency_score.py, with the same half-life/TTL
// constants and Singapore-time handling for naive timestamps.
package recency

import (
	"fmt"
	"math"
	"time"
)

const (
	// HalfLifeDays is the exponential decay half-life.
	HalfLifeDays = 6.0
	// TTLDays is the cutoff beyond which a record scores exactly zero.
	TTLDays = 14.0
)

// SGT is Singapore time, UTC+8. Naive (location-less) timestamps are
// interpreted in this zone to remove the ambiguity the source data had.
var SGT = time.FixedZone("SGT", 8*60*60)

// BadTimestamp is returned for unparseable timestamp input. Per the error
// handling design, callers record recency_score=0 and continue rather than
// aborting the request.
type BadTimestamp struct {
	Input string
}

func (e *BadTimestamp) Error() string {
	return fmt.Sprintf("recency: bad timestamp %q", e.Input)
}

// Score computes the recency score for a record timestamp `t` evaluated
// against `now`. A naive time.Time (Location() == time.Local or UTC with no
// explicit offset information from the caller) should be constructed with
// SGT directly by the caller; Score always treats `t` as already being in
// the zone it carries and converts `now` to the same zone for the delta.
func Score(t time.Time, now time.Time) float64 {
	nowSGT := now.In(SGT)
	tSGT := t.In(SGT)
	deltaDays := nowSGT.Sub(tSGT).Hours() / 24.0
	return scoreFromDeltaDays(deltaDays)
}

func scoreFromDeltaDays(deltaDays float64) float64 {
	if deltaDays > TTLDays {
		return 0
	}
	if deltaDays < 0 {
		deltaDays = 0
	}
	raw := math.Exp(-math.Ln2 * deltaDays / HalfLifeDays)
	return roundTo4(raw)
}

func roundTo4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// ParseNaive parses a timestamp string that carries no zone information,
// attaching SGT per §4.2. Returns *BadTimestamp on failure.
func ParseNaive(s string) (time.Time, error) {
	layouts := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, SGT); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &BadTimestamp{Input: s}
}

// ForRecord picks `last_updated` if non-zero, else `created_at`, per the
// "record timestamp" rule in §4.2, and scores it against now.
func ForRecord(lastUpdated, createdAt time.Time, now time.Time) float64 {
	t := lastUpdated
	if t.IsZero() {
		t = createdAt
	}
	if t.IsZero() {
		return 0
	}
	return Score(t, now)
}
