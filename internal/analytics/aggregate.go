package analytics

import "github.com/wms-platform/productivity-service/internal/domain"

// GroupKeyFn derives the grouping key for an event.
type GroupKeyFn func(*domain.PickEvent) string

// GroupStats holds the aggregates for one group. Counts and quantity sums
// use exact integer arithmetic. Duration statistics cover only completed
// events; they are nil when the group has none.
type GroupStats struct {
	Count         int
	QuantitySum   int
	ShortPicks    int
	DurationCount int
	DurationAvg   *float64
	DurationMin   *float64
	DurationMax   *float64

	durationSum float64
}

// Aggregate partitions the input by key and computes per-group statistics.
// The partition is exhaustive and disjoint: every event lands in exactly
// one group, and only keys present in the input produce entries. Groups
// for absent keys are never synthesized here; left-inclusive semantics
// against a dimension set belong to the report composer.
func Aggregate(events []*domain.PickEvent, keyFn GroupKeyFn) (map[string]*GroupStats, error) {
	groups := make(map[string]*GroupStats)

	for _, event := range events {
		key := keyFn(event)
		stats, ok := groups[key]
		if !ok {
			stats = &GroupStats{}
			groups[key] = stats
		}

		stats.Count++
		stats.QuantitySum += event.Quantity
		if event.ShortPick {
			stats.ShortPicks++
		}

		duration, err := DurationSeconds(event)
		if err != nil {
			return nil, err
		}
		if duration != nil {
			stats.DurationCount++
			stats.durationSum += *duration
			if stats.DurationMin == nil || *duration < *stats.DurationMin {
				d := *duration
				stats.DurationMin = &d
			}
			if stats.DurationMax == nil || *duration > *stats.DurationMax {
				d := *duration
				stats.DurationMax = &d
			}
		}
	}

	for _, stats := range groups {
		if stats.DurationCount > 0 {
			avg := stats.durationSum / float64(stats.DurationCount)
			stats.DurationAvg = &avg
		}
	}

	return groups, nil
}
