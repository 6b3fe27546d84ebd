package application

import "time"

// WorkerDTO represents a worker in responses
type WorkerDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	EmployeeCode string    `json:"employeeCode"`
	Shift        string    `json:"shift"`
	HourlyRate   *float64  `json:"hourlyRate,omitempty"`
	HireDate     time.Time `json:"hireDate"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ZoneDTO represents a zone in responses
type ZoneDTO struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LocationDTO represents a bin location in responses
type LocationDTO struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	ZoneID    string    `json:"zoneId"`
	Aisle     string    `json:"aisle"`
	Bay       int       `json:"bay"`
	Level     int       `json:"level"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemDTO represents an item in responses
type ItemDTO struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	WeightKg    float64   `json:"weightKg"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OrderDTO represents an order in responses
type OrderDTO struct {
	ID           string    `json:"id"`
	Number       string    `json:"number"`
	CustomerName string    `json:"customerName"`
	OrderedAt    time.Time `json:"orderedAt"`
	Priority     string    `json:"priority"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PickEventDTO represents a pick event in responses. DurationSeconds is
// derived and rounded to 2 decimals; it is nil while the pick is open.
type PickEventDTO struct {
	ID              string     `json:"id"`
	OrderID         string     `json:"orderId"`
	WorkerID        string     `json:"workerId"`
	ItemID          string     `json:"itemId"`
	LocationID      string     `json:"locationId"`
	Quantity        int        `json:"quantity"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	ShortPick       bool       `json:"shortPick"`
	DurationSeconds *float64   `json:"durationSeconds,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// ReportMeta carries the identity and window of a generated report
type ReportMeta struct {
	Report      string    `json:"report"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// WorkerLeaderboardRow is one row of the worker leaderboard report
type WorkerLeaderboardRow struct {
	WorkerID   string   `json:"workerId"`
	Name       string   `json:"name"`
	Shift      string   `json:"shift"`
	Picks      int      `json:"picks"`
	Units      int      `json:"units"`
	ShortPicks int      `json:"shortPicks"`
	AvgSeconds *float64 `json:"avgSeconds"`
	Tier       string   `json:"tier"`
	Rank       int      `json:"rank"`
}

// WorkerLeaderboardReport is the worker leaderboard result table
type WorkerLeaderboardReport struct {
	ReportMeta
	Rows []WorkerLeaderboardRow `json:"rows"`
}

// ShiftLeaderboardRow is one row of the shift leaderboard report. The
// overall rank spans the whole window; the shift rank restarts per shift.
type ShiftLeaderboardRow struct {
	WorkerID    string   `json:"workerId"`
	Name        string   `json:"name"`
	Shift       string   `json:"shift"`
	Picks       int      `json:"picks"`
	Units       int      `json:"units"`
	AvgSeconds  *float64 `json:"avgSeconds"`
	OverallRank int      `json:"overallRank"`
	ShiftRank   int      `json:"shiftRank"`
}

// ShiftLeaderboardReport is the shift leaderboard result table
type ShiftLeaderboardReport struct {
	ReportMeta
	Rows []ShiftLeaderboardRow `json:"rows"`
}

// ItemVelocityRow is one row of the item velocity report
type ItemVelocityRow struct {
	ItemID      string `json:"itemId"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Picks       int    `json:"picks"`
	Units       int    `json:"units"`
	Rank        int    `json:"rank"`
}

// ItemVelocityReport is the item velocity result table
type ItemVelocityReport struct {
	ReportMeta
	Rows []ItemVelocityRow `json:"rows"`
}

// ZoneThroughputRow is one row of the zone throughput report
type ZoneThroughputRow struct {
	ZoneID          string `json:"zoneId"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	ZoneType        string `json:"zoneType"`
	Picks           int    `json:"picks"`
	Units           int    `json:"units"`
	DistinctWorkers int    `json:"distinctWorkers"`
	Rank            int    `json:"rank"`
}

// ZoneThroughputReport is the zone throughput result table
type ZoneThroughputReport struct {
	ReportMeta
	Rows []ZoneThroughputRow `json:"rows"`
}

// PickDurationStatsRow is one row of the pick duration statistics report:
// per-shift statistics computed over per-worker average durations. Rows
// are ordered fastest shift first.
type PickDurationStatsRow struct {
	Shift      string   `json:"shift"`
	Workers    int      `json:"workers"`
	Picks      int      `json:"picks"`
	AvgSeconds *float64 `json:"avgSeconds"`
	MinSeconds *float64 `json:"minSeconds"`
	MaxSeconds *float64 `json:"maxSeconds"`
}

// PickDurationStatsReport is the pick duration statistics result table
type PickDurationStatsReport struct {
	ReportMeta
	Rows []PickDurationStatsRow `json:"rows"`
}
