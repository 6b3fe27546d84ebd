package domain

import "errors"

// Closed-set enum errors
var (
	ErrInvalidShift         = errors.New("invalid shift value")
	ErrInvalidZoneType      = errors.New("invalid zone type")
	ErrInvalidOrderPriority = errors.New("invalid order priority")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
)

// Shift represents a worker's shift classification
type Shift string

const (
	ShiftDay   Shift = "day"
	ShiftNight Shift = "night"
	ShiftSwing Shift = "swing"
)

// IsValid checks if the shift is a member of the closed set
func (s Shift) IsValid() bool {
	switch s {
	case ShiftDay, ShiftNight, ShiftSwing:
		return true
	default:
		return false
	}
}

// String returns the string representation of the shift
func (s Shift) String() string {
	return string(s)
}

// NewShift creates a Shift from a string with validation
func NewShift(s string) (Shift, error) {
	shift := Shift(s)
	if !shift.IsValid() {
		return "", ErrInvalidShift
	}
	return shift, nil
}

// Shifts returns all valid shifts in a fixed order
func Shifts() []Shift {
	return []Shift{ShiftDay, ShiftNight, ShiftSwing}
}

// ZoneType represents the functional type of a warehouse zone
type ZoneType string

const (
	ZoneTypePicking   ZoneType = "picking"
	ZoneTypePacking   ZoneType = "packing"
	ZoneTypeReceiving ZoneType = "receiving"
	ZoneTypeShipping  ZoneType = "shipping"
)

// IsValid checks if the zone type is a member of the closed set
func (t ZoneType) IsValid() bool {
	switch t {
	case ZoneTypePicking, ZoneTypePacking, ZoneTypeReceiving, ZoneTypeShipping:
		return true
	default:
		return false
	}
}

// String returns the string representation of the zone type
func (t ZoneType) String() string {
	return string(t)
}

// NewZoneType creates a ZoneType from a string with validation
func NewZoneType(s string) (ZoneType, error) {
	zoneType := ZoneType(s)
	if !zoneType.IsValid() {
		return "", ErrInvalidZoneType
	}
	return zoneType, nil
}

// OrderPriority represents order priority levels
type OrderPriority string

const (
	OrderPriorityStandard  OrderPriority = "standard"
	OrderPriorityExpedited OrderPriority = "expedited"
	OrderPriorityRush      OrderPriority = "rush"
)

// IsValid checks if the priority is a member of the closed set
func (p OrderPriority) IsValid() bool {
	switch p {
	case OrderPriorityStandard, OrderPriorityExpedited, OrderPriorityRush:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority
func (p OrderPriority) String() string {
	return string(p)
}

// NewOrderPriority creates an OrderPriority from a string with validation
func NewOrderPriority(s string) (OrderPriority, error) {
	priority := OrderPriority(s)
	if !priority.IsValid() {
		return "", ErrInvalidOrderPriority
	}
	return priority, nil
}

// OrderStatus represents the order fulfillment lifecycle status.
// Progression is monotonic forward only; there is no transition back.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPicking OrderStatus = "picking"
	OrderStatusPicked  OrderStatus = "picked"
	OrderStatusPacking OrderStatus = "packing"
	OrderStatusShipped OrderStatus = "shipped"
)

// IsValid checks if the status is a member of the closed set
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPicking, OrderStatusPicked,
		OrderStatusPacking, OrderStatusShipped:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status
func (s OrderStatus) String() string {
	return string(s)
}

// NewOrderStatus creates an OrderStatus from a string with validation
func NewOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidOrderStatus
	}
	return status, nil
}

// stage returns the position of the status in the fulfillment pipeline
func (s OrderStatus) stage() int {
	switch s {
	case OrderStatusPending:
		return 1
	case OrderStatusPicking:
		return 2
	case OrderStatusPicked:
		return 3
	case OrderStatusPacking:
		return 4
	case OrderStatusShipped:
		return 5
	default:
		return 0
	}
}

// CanTransitionTo reports whether the status may advance to next.
// Any strictly later pipeline stage is reachable; backward and
// same-stage transitions are rejected.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	return next.stage() > s.stage()
}
