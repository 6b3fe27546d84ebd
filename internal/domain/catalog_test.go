package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/productivity-service/pkg/errors"
)

func floatPtr(v float64) *float64 {
	return &v
}

// requireValidationError asserts the error is a VALIDATION_ERROR naming field
func requireValidationError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok, "expected *errors.AppError, got %T", err)
	assert.Equal(t, errors.CodeValidationError, appErr.Code)
	assert.Equal(t, field, appErr.Details["field"])
}

func TestNewWorker(t *testing.T) {
	hireDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates worker with valid fields", func(t *testing.T) {
		worker, err := NewWorker("Alice Johnson", "EMP-1001", ShiftDay, floatPtr(21.50), hireDate)

		require.NoError(t, err)
		require.NotNil(t, worker)
		assert.NotEmpty(t, worker.ID)
		assert.Equal(t, "Alice Johnson", worker.Name)
		assert.Equal(t, "EMP-1001", worker.EmployeeCode)
		assert.Equal(t, ShiftDay, worker.Shift)
		require.NotNil(t, worker.HourlyRate)
		assert.Equal(t, 21.50, *worker.HourlyRate)
		assert.Equal(t, hireDate, worker.HireDate)
		assert.True(t, worker.Active)
		assert.NotZero(t, worker.CreatedAt)
		assert.NotZero(t, worker.UpdatedAt)
	})

	t.Run("allows nil hourly rate", func(t *testing.T) {
		worker, err := NewWorker("Bob Smith", "EMP-1002", ShiftNight, nil, hireDate)

		require.NoError(t, err)
		assert.Nil(t, worker.HourlyRate)
	})

	tests := []struct {
		name         string
		workerName   string
		employeeCode string
		shift        Shift
		hourlyRate   *float64
		hireDate     time.Time
		wantField    string
	}{
		{"empty name", "", "EMP-1003", ShiftDay, nil, hireDate, "name"},
		{"empty employee code", "Carol Davis", "", ShiftDay, nil, hireDate, "employeeCode"},
		{"invalid shift", "Carol Davis", "EMP-1003", Shift("graveyard"), nil, hireDate, "shift"},
		{"negative hourly rate", "Carol Davis", "EMP-1003", ShiftDay, floatPtr(-1.0), hireDate, "hourlyRate"},
		{"zero hire date", "Carol Davis", "EMP-1003", ShiftDay, nil, time.Time{}, "hireDate"},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := NewWorker(tt.workerName, tt.employeeCode, tt.shift, tt.hourlyRate, tt.hireDate)
			requireValidationError(t, err, tt.wantField)
		})
	}
}

func TestWorker_SetHourlyRate(t *testing.T) {
	worker, err := NewWorker("Alice Johnson", "EMP-1001", ShiftDay, nil, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	t.Run("sets a non-negative rate", func(t *testing.T) {
		err := worker.SetHourlyRate(19.25)

		require.NoError(t, err)
		require.NotNil(t, worker.HourlyRate)
		assert.Equal(t, 19.25, *worker.HourlyRate)
	})

	t.Run("rejects a negative rate", func(t *testing.T) {
		err := worker.SetHourlyRate(-0.01)

		requireValidationError(t, err, "hourlyRate")
		assert.Equal(t, 19.25, *worker.HourlyRate, "rate unchanged after rejection")
	})
}

func TestWorker_Deactivate(t *testing.T) {
	worker, err := NewWorker("Alice Johnson", "EMP-1001", ShiftDay, nil, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, worker.Active)

	worker.Deactivate()

	assert.False(t, worker.Active)
}

func TestNewZone(t *testing.T) {
	t.Run("creates zone with valid fields", func(t *testing.T) {
		zone, err := NewZone("PICK-A", "Pick Zone A", ZoneTypePicking)

		require.NoError(t, err)
		assert.NotEmpty(t, zone.ID)
		assert.Equal(t, "PICK-A", zone.Code)
		assert.Equal(t, "Pick Zone A", zone.Name)
		assert.Equal(t, ZoneTypePicking, zone.Type)
	})

	tests := []struct {
		name      string
		code      string
		zoneName  string
		zoneType  ZoneType
		wantField string
	}{
		{"empty code", "", "Pick Zone A", ZoneTypePicking, "code"},
		{"empty name", "PICK-A", "", ZoneTypePicking, "name"},
		{"invalid type", "PICK-A", "Pick Zone A", ZoneType("staging"), "type"},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := NewZone(tt.code, tt.zoneName, tt.zoneType)
			requireValidationError(t, err, tt.wantField)
		})
	}
}

func TestNewBinLocation(t *testing.T) {
	t.Run("creates location with valid fields", func(t *testing.T) {
		location, err := NewBinLocation("A-01-02-B1", "zone-1", "A", 1, 2)

		require.NoError(t, err)
		assert.Equal(t, "A-01-02-B1", location.Code)
		assert.Equal(t, "zone-1", location.ZoneID)
		assert.Equal(t, "A", location.Aisle)
		assert.Equal(t, 1, location.Bay)
		assert.Equal(t, 2, location.Level)
		assert.True(t, location.Active)
	})

	tests := []struct {
		name      string
		code      string
		zoneID    string
		aisle     string
		bay       int
		level     int
		wantField string
	}{
		{"empty code", "", "zone-1", "A", 1, 2, "code"},
		{"empty zone reference", "A-01-02-B1", "", "A", 1, 2, "zoneId"},
		{"empty aisle", "A-01-02-B1", "zone-1", "", 1, 2, "aisle"},
		{"negative bay", "A-01-02-B1", "zone-1", "A", -1, 2, "bay"},
		{"negative level", "A-01-02-B1", "zone-1", "A", 1, -2, "level"},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := NewBinLocation(tt.code, tt.zoneID, tt.aisle, tt.bay, tt.level)
			requireValidationError(t, err, tt.wantField)
		})
	}
}

func TestNewItem(t *testing.T) {
	t.Run("creates item with valid fields", func(t *testing.T) {
		item, err := NewItem("SKU-100", "Wireless Mouse", "electronics", 0.25)

		require.NoError(t, err)
		assert.Equal(t, "SKU-100", item.SKU)
		assert.Equal(t, "Wireless Mouse", item.Description)
		assert.Equal(t, "electronics", item.Category)
		assert.Equal(t, 0.25, item.WeightKg)
		assert.True(t, item.Active)
	})

	tests := []struct {
		name        string
		sku         string
		description string
		weightKg    float64
		wantField   string
	}{
		{"empty sku", "", "Wireless Mouse", 0.25, "sku"},
		{"empty description", "SKU-100", "", 0.25, "description"},
		{"negative weight", "SKU-100", "Wireless Mouse", -0.5, "weightKg"},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := NewItem(tt.sku, tt.description, "electronics", tt.weightKg)
			requireValidationError(t, err, tt.wantField)
		})
	}
}

func TestNewOrder(t *testing.T) {
	orderedAt := time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

	t.Run("creates order in pending status", func(t *testing.T) {
		order, err := NewOrder("ORD-20240610", "Acme Corp", orderedAt, OrderPriorityExpedited)

		require.NoError(t, err)
		assert.Equal(t, "ORD-20240610", order.Number)
		assert.Equal(t, "Acme Corp", order.CustomerName)
		assert.Equal(t, orderedAt, order.OrderedAt)
		assert.Equal(t, OrderPriorityExpedited, order.Priority)
		assert.Equal(t, OrderStatusPending, order.Status)
	})

	tests := []struct {
		name         string
		number       string
		customerName string
		orderedAt    time.Time
		priority     OrderPriority
		wantField    string
	}{
		{"empty number", "", "Acme Corp", orderedAt, OrderPriorityStandard, "number"},
		{"empty customer", "ORD-20240610", "", orderedAt, OrderPriorityStandard, "customerName"},
		{"zero order date", "ORD-20240610", "Acme Corp", time.Time{}, OrderPriorityStandard, "orderedAt"},
		{"invalid priority", "ORD-20240610", "Acme Corp", orderedAt, OrderPriority("urgent"), "priority"},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := NewOrder(tt.number, tt.customerName, tt.orderedAt, tt.priority)
			requireValidationError(t, err, tt.wantField)
		})
	}
}

func TestOrder_AdvanceStatus(t *testing.T) {
	newOrder := func(t *testing.T) *Order {
		t.Helper()
		order, err := NewOrder("ORD-1", "Acme Corp", time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC), OrderPriorityStandard)
		require.NoError(t, err)
		return order
	}

	t.Run("advances through the full pipeline", func(t *testing.T) {
		order := newOrder(t)
		for _, next := range []OrderStatus{OrderStatusPicking, OrderStatusPicked, OrderStatusPacking, OrderStatusShipped} {
			require.NoError(t, order.AdvanceStatus(next))
			assert.Equal(t, next, order.Status)
		}
	})

	t.Run("allows forward skips", func(t *testing.T) {
		order := newOrder(t)
		require.NoError(t, order.AdvanceStatus(OrderStatusPicked))
		assert.Equal(t, OrderStatusPicked, order.Status)
	})

	t.Run("rejects transitions back", func(t *testing.T) {
		order := newOrder(t)
		require.NoError(t, order.AdvanceStatus(OrderStatusPacking))

		err := order.AdvanceStatus(OrderStatusPicking)

		require.Error(t, err)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeValidationError, appErr.Code)
		assert.Equal(t, OrderStatusPacking, order.Status, "status unchanged after rejection")
	})

	t.Run("rejects same-stage transition", func(t *testing.T) {
		order := newOrder(t)
		err := order.AdvanceStatus(OrderStatusPending)
		require.Error(t, err)
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		order := newOrder(t)
		err := order.AdvanceStatus(OrderStatus("delivered"))
		requireValidationError(t, err, "status")
	})
}
