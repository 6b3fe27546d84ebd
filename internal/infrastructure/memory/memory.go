// Package memory provides in-memory implementations of the domain
// repositories and the event store. All stores copy on write and on read,
// so callers never share mutable state with the store. The backend is
// used for local runs and tests and must match the mongodb backend's
// semantics exactly.
package memory

// pageBounds clamps a limit/offset pair to [0, total]. A non-positive
// limit disables paging.
func pageBounds(total, limit, offset int64) (int64, int64) {
	start := offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	if limit <= 0 {
		return start, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}

func toSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
