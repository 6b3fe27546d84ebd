package cloudevents

import (
	"time"
)

// EventType constants for events this service consumes and emits
const (
	// Picking events (consumed from the picking topic)
	ItemPicked        = "wms.picking.item-picked"
	PickTaskCompleted = "wms.picking.task-completed"

	// Productivity events (emitted)
	PickRecorded  = "wms.productivity.pick-recorded"
	PickCompleted = "wms.productivity.pick-completed"
)

// Source constants for event sources
const (
	SourcePicking      = "/wms/picking-service"
	SourceProductivity = "/wms/productivity-service"
)

// WMSCloudEvent represents a CloudEvents v1.0 compliant event for WMS
type WMSCloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	// WMS extensions
	CorrelationID string `json:"wmscorrelationid,omitempty"`
	OrderID       string `json:"wmsorderid,omitempty"`
	FacilityID    string `json:"wmsfacilityid,omitempty"`
	WarehouseID   string `json:"wmswarehouseid,omitempty"`

	// W3C trace context extensions
	TraceParent string `json:"traceparent,omitempty"`
	TraceState  string `json:"tracestate,omitempty"`
}

// ItemPickedData is the payload of picking events carrying one pick.
// StartedAt and CompletedAt are RFC 3339; CompletedAt is absent for picks
// still in progress.
type ItemPickedData struct {
	PickID       string     `json:"pickId"`
	OrderNumber  string     `json:"orderNumber"`
	EmployeeCode string     `json:"employeeCode"`
	SKU          string     `json:"sku"`
	LocationCode string     `json:"locationCode"`
	Quantity     int        `json:"quantity"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ShortPick    bool       `json:"shortPick,omitempty"`
}

// PickTaskCompletedData is the payload of picking events finalizing a
// pick that was announced without a completion time.
type PickTaskCompletedData struct {
	PickID      string    `json:"pickId"`
	CompletedAt time.Time `json:"completedAt"`
	ShortPick   bool      `json:"shortPick,omitempty"`
}

// PickRecordedData is the payload emitted after a pick event is appended
type PickRecordedData struct {
	PickID     string    `json:"pickId"`
	OrderID    string    `json:"orderId"`
	WorkerID   string    `json:"workerId"`
	ItemID     string    `json:"itemId"`
	LocationID string    `json:"locationId"`
	Quantity   int       `json:"quantity"`
	StartedAt  time.Time `json:"startedAt"`
}

// PickCompletedData is the payload emitted after a pick event is finalized
type PickCompletedData struct {
	PickID      string    `json:"pickId"`
	WorkerID    string    `json:"workerId"`
	CompletedAt time.Time `json:"completedAt"`
	ShortPick   bool      `json:"shortPick"`
}
