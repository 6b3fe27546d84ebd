package domain

import "context"

// WorkerRepository defines the interface for worker persistence. FindAll
// returns one page plus the total count; a non-positive limit disables
// paging. The same convention holds for every FindAll below.
type WorkerRepository interface {
	Save(ctx context.Context, worker *Worker) error
	Update(ctx context.Context, worker *Worker) error
	FindByID(ctx context.Context, id string) (*Worker, error)
	FindByEmployeeCode(ctx context.Context, code string) (*Worker, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Worker, error)
	FindAll(ctx context.Context, limit, offset int64) ([]*Worker, int64, error)
}

// ZoneRepository defines the interface for zone persistence
type ZoneRepository interface {
	Save(ctx context.Context, zone *Zone) error
	FindByID(ctx context.Context, id string) (*Zone, error)
	FindByCode(ctx context.Context, code string) (*Zone, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Zone, error)
	FindAll(ctx context.Context, limit, offset int64) ([]*Zone, int64, error)
}

// LocationRepository defines the interface for bin location persistence
type LocationRepository interface {
	Save(ctx context.Context, location *BinLocation) error
	Update(ctx context.Context, location *BinLocation) error
	FindByID(ctx context.Context, id string) (*BinLocation, error)
	FindByCode(ctx context.Context, code string) (*BinLocation, error)
	FindByIDs(ctx context.Context, ids []string) ([]*BinLocation, error)
	FindAll(ctx context.Context, limit, offset int64) ([]*BinLocation, int64, error)
}

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	Save(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id string) (*Item, error)
	FindBySKU(ctx context.Context, sku string) (*Item, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Item, error)
	FindAll(ctx context.Context, limit, offset int64) ([]*Item, int64, error)
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	FindByNumber(ctx context.Context, number string) (*Order, error)
	FindAll(ctx context.Context, limit, offset int64) ([]*Order, int64, error)
}

// Catalog resolves entity references. The event store validates appended
// events against it, and query filters use it to resolve zone constraints
// through bin locations.
type Catalog interface {
	WorkerExists(ctx context.Context, id string) (bool, error)
	OrderExists(ctx context.Context, id string) (bool, error)
	ItemExists(ctx context.Context, id string) (bool, error)
	LocationExists(ctx context.Context, id string) (bool, error)

	// ZonesForLocations resolves the zone ID each given location belongs
	// to. Unknown locations are absent from the result.
	ZonesForLocations(ctx context.Context, locationIDs []string) (map[string]string, error)

	// LocationIDsForZones returns the IDs of all locations belonging to
	// the given zones. Unknown zones contribute nothing.
	LocationIDsForZones(ctx context.Context, zoneIDs []string) ([]string, error)
}

// EventStore defines the interface for pick event persistence.
type EventStore interface {
	// Append stores a new event after validating that every referenced
	// entity resolves in the catalog. Appending an event whose ID already
	// exists fails with CONFLICT, which ingestion treats as already
	// processed. Returns the event ID.
	Append(ctx context.Context, event *PickEvent) (string, error)

	// FindByID returns the event, or nil when it does not exist.
	FindByID(ctx context.Context, eventID string) (*PickEvent, error)

	// Update persists the completion of an open event. A finalized event
	// is frozen; updating it fails with CONFLICT.
	Update(ctx context.Context, event *PickEvent) error

	// Query returns a finite snapshot of events matching the filter.
	// Ordering is unspecified; callers requiring order sort explicitly.
	Query(ctx context.Context, filter EventFilter) ([]*PickEvent, error)
}
