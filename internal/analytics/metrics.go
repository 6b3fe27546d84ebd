package analytics

import (
	"math"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/errors"
)

// DurationSeconds returns the event's duration in exact float seconds, or
// nil for an open event. An end timestamp before the start timestamp is
// surfaced as INVALID_INTERVAL, never clamped. Rounding is a presentation
// concern; aggregation always works on the exact value.
func DurationSeconds(e *domain.PickEvent) (*float64, error) {
	if e.CompletedAt == nil {
		return nil, nil
	}

	d := e.CompletedAt.Sub(e.StartedAt)
	if d < 0 {
		return nil, errors.ErrInvalidInterval(e.ID)
	}

	seconds := d.Seconds()
	return &seconds, nil
}

// Round2 rounds to 2 decimal places. Applied only when mapping values into
// report rows so chained aggregates never compound rounding error.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round2Ptr rounds an optional value, preserving nil.
func Round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round2(*v)
	return &r
}

// ValueStats summarizes an already-derived metric series, used for
// secondary aggregation over values computed from a first aggregation
// pass (per-shift statistics over per-worker averages).
type ValueStats struct {
	Count int
	Avg   *float64
	Min   *float64
	Max   *float64
}

// SummarizeValues computes count, mean, minimum and maximum over the
// series. An empty series yields zero count and nil statistics.
func SummarizeValues(values []float64) ValueStats {
	stats := ValueStats{Count: len(values)}
	if len(values) == 0 {
		return stats
	}

	sum := values[0]
	min := values[0]
	max := values[0]
	for _, v := range values[1:] {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	avg := sum / float64(len(values))
	stats.Avg = &avg
	stats.Min = &min
	stats.Max = &max
	return stats
}
