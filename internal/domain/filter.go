package domain

import "time"

// EventFilter narrows an event store query. All constraints intersect; the
// zero-value filter matches everything. Time bounds are inclusive and apply
// to the end timestamp, so open events never satisfy a bounded window. Zone
// constraints resolve transitively through bin locations.
type EventFilter struct {
	From          *time.Time
	To            *time.Time
	WorkerIDs     []string
	ZoneIDs       []string
	ItemIDs       []string
	CompletedOnly bool
}

// IsZero reports whether the filter carries no constraints.
func (f EventFilter) IsZero() bool {
	return f.From == nil && f.To == nil &&
		len(f.WorkerIDs) == 0 && len(f.ZoneIDs) == 0 && len(f.ItemIDs) == 0 &&
		!f.CompletedOnly
}

// Matches reports whether the event satisfies every constraint of the
// filter. zoneLocations is the set of location IDs belonging to the
// filter's zones, resolved by the caller through the catalog; it is
// consulted only when ZoneIDs is non-empty, and an unknown zone resolves
// to an empty set that matches nothing.
func (f EventFilter) Matches(e *PickEvent, zoneLocations map[string]struct{}) bool {
	if f.CompletedOnly && !e.IsCompleted() {
		return false
	}

	if f.From != nil || f.To != nil {
		if !e.IsCompleted() {
			return false
		}
		if f.From != nil && e.CompletedAt.Before(*f.From) {
			return false
		}
		if f.To != nil && e.CompletedAt.After(*f.To) {
			return false
		}
	}

	if len(f.WorkerIDs) > 0 && !containsString(f.WorkerIDs, e.WorkerID) {
		return false
	}
	if len(f.ItemIDs) > 0 && !containsString(f.ItemIDs, e.ItemID) {
		return false
	}
	if len(f.ZoneIDs) > 0 {
		if _, ok := zoneLocations[e.LocationID]; !ok {
			return false
		}
	}

	return true
}

func containsString(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
