package events_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/productivity-service/pkg/cloudevents"
	"github.com/wms-platform/productivity-service/pkg/contracts/asyncapi"
)

const asyncAPISpecPath = "../../../docs/asyncapi.yaml"

// loadValidator builds an event validator from the committed AsyncAPI spec.
func loadValidator(t *testing.T) *asyncapi.EventValidator {
	t.Helper()

	absPath, err := filepath.Abs(asyncAPISpecPath)
	require.NoError(t, err)

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		t.Skip("AsyncAPI spec not found - skipping event validation tests")
	}

	validator, err := asyncapi.NewEventValidator(absPath)
	require.NoError(t, err)
	return validator
}

func TestAsyncAPISpecExists(t *testing.T) {
	absPath, err := filepath.Abs(asyncAPISpecPath)
	require.NoError(t, err)

	_, err = os.Stat(absPath)
	require.NoError(t, err, "docs/asyncapi.yaml must ship with the service")
}

func TestEventValidatorCoversAllEventTypes(t *testing.T) {
	validator := loadValidator(t)

	expected := []string{
		cloudevents.ItemPicked,
		cloudevents.PickTaskCompleted,
		cloudevents.PickRecorded,
		cloudevents.PickCompleted,
	}
	for _, eventType := range expected {
		assert.True(t, validator.HasSchema(eventType), "missing schema for %s", eventType)
	}

	assert.Len(t, validator.GetSupportedEventTypes(), len(expected))
}

func TestPickingEventSchemas(t *testing.T) {
	validator := loadValidator(t)

	startedAt := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	completedAt := startedAt.Add(45 * time.Second)

	t.Run("ItemPicked completed", func(t *testing.T) {
		data := cloudevents.ItemPickedData{
			PickID:       "pick-1001",
			OrderNumber:  "SO-1001",
			EmployeeCode: "EMP-001",
			SKU:          "SKU-RED-M",
			LocationCode: "A-01-2-B",
			Quantity:     2,
			StartedAt:    startedAt,
			CompletedAt:  &completedAt,
			ShortPick:    true,
		}
		require.NoError(t, validator.ValidateEventData(cloudevents.ItemPicked, data))
	})

	t.Run("ItemPicked still open", func(t *testing.T) {
		data := cloudevents.ItemPickedData{
			PickID:       "pick-1002",
			OrderNumber:  "SO-1001",
			EmployeeCode: "EMP-001",
			SKU:          "SKU-RED-M",
			LocationCode: "A-01-2-B",
			Quantity:     1,
			StartedAt:    startedAt,
		}
		require.NoError(t, validator.ValidateEventData(cloudevents.ItemPicked, data))
	})

	t.Run("ItemPicked missing sku rejected", func(t *testing.T) {
		data := map[string]interface{}{
			"pickId":       "pick-1003",
			"orderNumber":  "SO-1001",
			"employeeCode": "EMP-001",
			"locationCode": "A-01-2-B",
			"quantity":     1,
			"startedAt":    startedAt.Format(time.RFC3339),
		}
		require.Error(t, validator.ValidateEventData(cloudevents.ItemPicked, data))
	})

	t.Run("ItemPicked zero quantity rejected", func(t *testing.T) {
		data := cloudevents.ItemPickedData{
			PickID:       "pick-1004",
			OrderNumber:  "SO-1001",
			EmployeeCode: "EMP-001",
			SKU:          "SKU-RED-M",
			LocationCode: "A-01-2-B",
			Quantity:     0,
			StartedAt:    startedAt,
		}
		require.Error(t, validator.ValidateEventData(cloudevents.ItemPicked, data))
	})

	t.Run("PickTaskCompleted", func(t *testing.T) {
		data := cloudevents.PickTaskCompletedData{
			PickID:      "pick-1001",
			CompletedAt: completedAt,
			ShortPick:   false,
		}
		require.NoError(t, validator.ValidateEventData(cloudevents.PickTaskCompleted, data))
	})

	t.Run("PickTaskCompleted missing completedAt rejected", func(t *testing.T) {
		data := map[string]interface{}{
			"pickId": "pick-1001",
		}
		require.Error(t, validator.ValidateEventData(cloudevents.PickTaskCompleted, data))
	})
}

func TestProductivityEventSchemas(t *testing.T) {
	validator := loadValidator(t)
	factory := cloudevents.NewEventFactory(cloudevents.SourceProductivity)

	startedAt := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	t.Run("PickRecorded", func(t *testing.T) {
		event := factory.CreatePickRecordedEvent(context.Background(),
			"pck-1", "ord-1", "wrk-1", "itm-1", "loc-1", 3, startedAt)

		require.NoError(t, validator.ValidateEventData(event.Type, event.Data))
	})

	t.Run("PickCompleted", func(t *testing.T) {
		event := factory.CreatePickCompletedEvent(context.Background(),
			"pck-1", "wrk-1", startedAt.Add(time.Minute), true)

		require.NoError(t, validator.ValidateEventData(event.Type, event.Data))
	})
}

func TestValidateEventJSON(t *testing.T) {
	validator := loadValidator(t)

	startedAt := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	event := asyncapi.CloudEvent{
		SpecVersion:     "1.0",
		Type:            cloudevents.PickRecorded,
		Source:          cloudevents.SourceProductivity,
		ID:              "evt-123",
		Time:            startedAt.Format(time.RFC3339),
		DataContentType: "application/json",
		Data: cloudevents.PickRecordedData{
			PickID:     "pck-1",
			OrderID:    "ord-1",
			WorkerID:   "wrk-1",
			ItemID:     "itm-1",
			LocationID: "loc-1",
			Quantity:   3,
			StartedAt:  startedAt,
		},
	}

	eventJSON, err := json.Marshal(event)
	require.NoError(t, err)
	require.NoError(t, validator.ValidateEventJSON(eventJSON))

	t.Run("unknown event type rejected", func(t *testing.T) {
		event.Type = "wms.picking.unknown"
		eventJSON, err := json.Marshal(event)
		require.NoError(t, err)
		require.Error(t, validator.ValidateEventJSON(eventJSON))
	})
}

func TestRegisterCustomSchema(t *testing.T) {
	validator := loadValidator(t)

	customSchema := []byte(`{
		"type": "object",
		"properties": {
			"testField": {"type": "string"}
		},
		"required": ["testField"]
	}`)

	require.NoError(t, validator.RegisterSchema("custom.test.event", customSchema))
	assert.True(t, validator.HasSchema("custom.test.event"))

	event := asyncapi.CloudEvent{
		SpecVersion: "1.0",
		Type:        "custom.test.event",
		Source:      "/wms/test",
		ID:          "test-123",
		Data: map[string]interface{}{
			"testField": "test value",
		},
	}
	require.NoError(t, validator.ValidateEvent(event))
}
