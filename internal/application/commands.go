package application

import (
	"time"

	"github.com/wms-platform/productivity-service/pkg/api"
)

// CreateWorkerCommand creates a new worker
type CreateWorkerCommand struct {
	Name         string
	EmployeeCode string
	Shift        string
	HourlyRate   *float64
	HireDate     time.Time
}

// SetWorkerRateCommand updates a worker's hourly rate
type SetWorkerRateCommand struct {
	WorkerID   string
	HourlyRate float64
}

// DeactivateWorkerCommand marks a worker as inactive
type DeactivateWorkerCommand struct {
	WorkerID string
}

// CreateZoneCommand creates a new zone
type CreateZoneCommand struct {
	Code string
	Name string
	Type string
}

// CreateLocationCommand creates a new bin location inside a zone
type CreateLocationCommand struct {
	Code   string
	ZoneID string
	Aisle  string
	Bay    int
	Level  int
}

// DeactivateLocationCommand marks a bin location as inactive
type DeactivateLocationCommand struct {
	LocationID string
}

// CreateItemCommand creates a new item
type CreateItemCommand struct {
	SKU         string
	Description string
	Category    string
	WeightKg    float64
}

// DeactivateItemCommand marks an item as inactive
type DeactivateItemCommand struct {
	ItemID string
}

// CreateOrderCommand creates a new order
type CreateOrderCommand struct {
	Number       string
	CustomerName string
	OrderedAt    time.Time
	Priority     string
}

// AdvanceOrderStatusCommand moves an order to a later lifecycle status
type AdvanceOrderStatusCommand struct {
	OrderID string
	Status  string
}

// ListQuery retrieves one page of a catalog collection
type ListQuery struct {
	Pagination api.PageRequest
}

// RecordPickCommand appends a new open pick event. StartedAt defaults to
// the current time when absent.
type RecordPickCommand struct {
	OrderID    string
	WorkerID   string
	ItemID     string
	LocationID string
	Quantity   int
	StartedAt  *time.Time
}

// CompletePickCommand finalizes an open pick event. CompletedAt defaults
// to the current time when absent.
type CompletePickCommand struct {
	PickID      string
	CompletedAt *time.Time
	ShortPick   bool
}

// QueryPicksQuery retrieves a page of pick events matching a filter
type QueryPicksQuery struct {
	From          *time.Time
	To            *time.Time
	WorkerIDs     []string
	ZoneIDs       []string
	ItemIDs       []string
	CompletedOnly bool
	Pagination    api.PageRequest
}

// Window is the explicit reporting interval. Both bounds are required and
// inclusive over event completion times; there is no ambient default.
type Window struct {
	From time.Time
	To   time.Time
}

// Grouping modes for reports with a left-inclusive variant
const (
	GroupingInner      = "inner"
	GroupingAllWorkers = "all_workers"
	GroupingAllZones   = "all_zones"
)

// WorkerLeaderboardQuery parameterizes the worker leaderboard report
type WorkerLeaderboardQuery struct {
	Window          Window
	Mode            string // inner (default) or all_workers
	IncludeInactive bool
	TopN            int
	RequireEvents   bool
}

// ShiftLeaderboardQuery parameterizes the shift leaderboard report. Shift
// optionally narrows the output after both rankings are computed.
type ShiftLeaderboardQuery struct {
	Window        Window
	Shift         string
	RequireEvents bool
}

// ItemVelocityQuery parameterizes the item velocity report
type ItemVelocityQuery struct {
	Window        Window
	IncludeIdle   bool
	TopN          int
	RequireEvents bool
}

// ZoneThroughputQuery parameterizes the zone throughput report
type ZoneThroughputQuery struct {
	Window        Window
	Mode          string // inner (default) or all_zones
	TopN          int
	RequireEvents bool
}

// PickDurationStatsQuery parameterizes the pick duration statistics report
type PickDurationStatsQuery struct {
	Window        Window
	RequireEvents bool
}
