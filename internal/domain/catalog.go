package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/wms-platform/productivity-service/pkg/errors"
)

// Worker is a warehouse employee who performs picks
type Worker struct {
	Record       `bson:",inline"`
	Name         string    `bson:"name" json:"name"`
	EmployeeCode string    `bson:"employeeCode" json:"employeeCode"`
	Shift        Shift     `bson:"shift" json:"shift"`
	HourlyRate   *float64  `bson:"hourlyRate,omitempty" json:"hourlyRate,omitempty"`
	HireDate     time.Time `bson:"hireDate" json:"hireDate"`
	Active       bool      `bson:"active" json:"active"`
}

// NewWorker creates a new Worker with field validation
func NewWorker(name, employeeCode string, shift Shift, hourlyRate *float64, hireDate time.Time) (*Worker, error) {
	if name == "" {
		return nil, errors.ErrValidationField("name", name)
	}
	if employeeCode == "" {
		return nil, errors.ErrValidationField("employeeCode", employeeCode)
	}
	if !shift.IsValid() {
		return nil, errors.ErrValidationField("shift", shift.String())
	}
	if hourlyRate != nil && *hourlyRate < 0 {
		return nil, errors.ErrValidationField("hourlyRate", strconv.FormatFloat(*hourlyRate, 'f', -1, 64))
	}
	if hireDate.IsZero() {
		return nil, errors.ErrValidationField("hireDate", "")
	}

	return &Worker{
		Record:       NewRecord(),
		Name:         name,
		EmployeeCode: employeeCode,
		Shift:        shift,
		HourlyRate:   hourlyRate,
		HireDate:     hireDate,
		Active:       true,
	}, nil
}

// SetHourlyRate updates the worker's hourly rate
func (w *Worker) SetHourlyRate(rate float64) error {
	if rate < 0 {
		return errors.ErrValidationField("hourlyRate", strconv.FormatFloat(rate, 'f', -1, 64))
	}
	w.HourlyRate = &rate
	w.Touch()
	return nil
}

// Deactivate marks the worker as inactive
func (w *Worker) Deactivate() {
	w.Active = false
	w.Touch()
}

// Zone is a functional area of the warehouse owning bin locations
type Zone struct {
	Record `bson:",inline"`
	Code   string   `bson:"code" json:"code"`
	Name   string   `bson:"name" json:"name"`
	Type   ZoneType `bson:"type" json:"type"`
}

// NewZone creates a new Zone with field validation
func NewZone(code, name string, zoneType ZoneType) (*Zone, error) {
	if code == "" {
		return nil, errors.ErrValidationField("code", code)
	}
	if name == "" {
		return nil, errors.ErrValidationField("name", name)
	}
	if !zoneType.IsValid() {
		return nil, errors.ErrValidationField("type", zoneType.String())
	}

	return &Zone{
		Record: NewRecord(),
		Code:   code,
		Name:   name,
		Type:   zoneType,
	}, nil
}

// BinLocation is a storage slot inside a zone. The zone reference is a
// non-owning back-reference: the location records membership only.
type BinLocation struct {
	Record `bson:",inline"`
	Code   string `bson:"code" json:"code"`
	ZoneID string `bson:"zoneId" json:"zoneId"`
	Aisle  string `bson:"aisle" json:"aisle"`
	Bay    int    `bson:"bay" json:"bay"`
	Level  int    `bson:"level" json:"level"`
	Active bool   `bson:"active" json:"active"`
}

// NewBinLocation creates a new BinLocation with field validation
func NewBinLocation(code, zoneID, aisle string, bay, level int) (*BinLocation, error) {
	if code == "" {
		return nil, errors.ErrValidationField("code", code)
	}
	if zoneID == "" {
		return nil, errors.ErrValidationField("zoneId", zoneID)
	}
	if aisle == "" {
		return nil, errors.ErrValidationField("aisle", aisle)
	}
	if bay < 0 {
		return nil, errors.ErrValidationField("bay", strconv.Itoa(bay))
	}
	if level < 0 {
		return nil, errors.ErrValidationField("level", strconv.Itoa(level))
	}

	return &BinLocation{
		Record: NewRecord(),
		Code:   code,
		ZoneID: zoneID,
		Aisle:  aisle,
		Bay:    bay,
		Level:  level,
		Active: true,
	}, nil
}

// Deactivate marks the location as inactive
func (l *BinLocation) Deactivate() {
	l.Active = false
	l.Touch()
}

// Item is a stock-keeping unit that can be picked
type Item struct {
	Record      `bson:",inline"`
	SKU         string  `bson:"sku" json:"sku"`
	Description string  `bson:"description" json:"description"`
	Category    string  `bson:"category" json:"category"`
	WeightKg    float64 `bson:"weightKg" json:"weightKg"`
	Active      bool    `bson:"active" json:"active"`
}

// NewItem creates a new Item with field validation
func NewItem(sku, description, category string, weightKg float64) (*Item, error) {
	if sku == "" {
		return nil, errors.ErrValidationField("sku", sku)
	}
	if description == "" {
		return nil, errors.ErrValidationField("description", description)
	}
	if weightKg < 0 {
		return nil, errors.ErrValidationField("weightKg", fmt.Sprintf("%g", weightKg))
	}

	return &Item{
		Record:      NewRecord(),
		SKU:         sku,
		Description: description,
		Category:    category,
		WeightKg:    weightKg,
		Active:      true,
	}, nil
}

// Deactivate marks the item as inactive
func (i *Item) Deactivate() {
	i.Active = false
	i.Touch()
}

// Order is a customer order whose lines are picked by workers
type Order struct {
	Record       `bson:",inline"`
	Number       string        `bson:"number" json:"number"`
	CustomerName string        `bson:"customerName" json:"customerName"`
	OrderedAt    time.Time     `bson:"orderedAt" json:"orderedAt"`
	Priority     OrderPriority `bson:"priority" json:"priority"`
	Status       OrderStatus   `bson:"status" json:"status"`
}

// NewOrder creates a new Order with field validation. New orders start
// in the pending status.
func NewOrder(number, customerName string, orderedAt time.Time, priority OrderPriority) (*Order, error) {
	if number == "" {
		return nil, errors.ErrValidationField("number", number)
	}
	if customerName == "" {
		return nil, errors.ErrValidationField("customerName", customerName)
	}
	if orderedAt.IsZero() {
		return nil, errors.ErrValidationField("orderedAt", "")
	}
	if !priority.IsValid() {
		return nil, errors.ErrValidationField("priority", priority.String())
	}

	return &Order{
		Record:       NewRecord(),
		Number:       number,
		CustomerName: customerName,
		OrderedAt:    orderedAt,
		Priority:     priority,
		Status:       OrderStatusPending,
	}, nil
}

// AdvanceStatus moves the order to a later lifecycle status. Backward and
// same-stage transitions are rejected.
func (o *Order) AdvanceStatus(next OrderStatus) error {
	if !next.IsValid() {
		return errors.ErrValidationField("status", next.String())
	}
	if !o.Status.CanTransitionTo(next) {
		return errors.ErrValidation(
			fmt.Sprintf("cannot transition order status from %q to %q", o.Status, next)).
			WithDetail("from", o.Status.String()).
			WithDetail("to", next.String())
	}
	o.Status = next
	o.Touch()
	return nil
}
