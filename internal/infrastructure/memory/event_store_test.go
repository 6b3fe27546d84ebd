package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/errors"
)

type fixture struct {
	workers   *WorkerStore
	zones     *ZoneStore
	locations *LocationStore
	items     *ItemStore
	orders    *OrderStore
	catalog   *Catalog
	store     *EventStore

	alice  *domain.Worker
	bob    *domain.Worker
	zoneA  *domain.Zone
	zoneB  *domain.Zone
	locA   *domain.BinLocation
	locB   *domain.BinLocation
	widget *domain.Item
	gadget *domain.Item
	order  *domain.Order
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		workers:   NewWorkerStore(),
		zones:     NewZoneStore(),
		locations: NewLocationStore(),
		items:     NewItemStore(),
		orders:    NewOrderStore(),
	}
	f.catalog = NewCatalog(f.workers, f.orders, f.items, f.locations)
	f.store = NewEventStore(f.catalog)

	var err error
	hired := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	f.alice, err = domain.NewWorker("Alice", "EMP-001", domain.ShiftDay, nil, hired)
	require.NoError(t, err)
	require.NoError(t, f.workers.Save(ctx, f.alice))

	f.bob, err = domain.NewWorker("Bob", "EMP-002", domain.ShiftNight, nil, hired)
	require.NoError(t, err)
	require.NoError(t, f.workers.Save(ctx, f.bob))

	f.zoneA, err = domain.NewZone("A", "Fast movers", domain.ZoneTypePicking)
	require.NoError(t, err)
	require.NoError(t, f.zones.Save(ctx, f.zoneA))

	f.zoneB, err = domain.NewZone("B", "Slow movers", domain.ZoneTypePicking)
	require.NoError(t, err)
	require.NoError(t, f.zones.Save(ctx, f.zoneB))

	f.locA, err = domain.NewBinLocation("A-01-1-1", f.zoneA.ID, "A-01", 1, 1)
	require.NoError(t, err)
	require.NoError(t, f.locations.Save(ctx, f.locA))

	f.locB, err = domain.NewBinLocation("B-01-1-1", f.zoneB.ID, "B-01", 1, 1)
	require.NoError(t, err)
	require.NoError(t, f.locations.Save(ctx, f.locB))

	f.widget, err = domain.NewItem("SKU-100", "Widget", "widgets", 0.4)
	require.NoError(t, err)
	require.NoError(t, f.items.Save(ctx, f.widget))

	f.gadget, err = domain.NewItem("SKU-200", "Gadget", "gadgets", 1.2)
	require.NoError(t, err)
	require.NoError(t, f.items.Save(ctx, f.gadget))

	f.order, err = domain.NewOrder("ORD-1001", "Acme Corp", hired, domain.OrderPriorityStandard)
	require.NoError(t, err)
	require.NoError(t, f.orders.Save(ctx, f.order))

	return f
}

// seedEvent appends an event; a nil completedAt leaves it open.
func (f *fixture) seedEvent(t *testing.T, workerID, itemID, locationID string, startedAt time.Time, completedAt *time.Time) *domain.PickEvent {
	t.Helper()
	event, err := domain.NewPickEvent(f.order.ID, workerID, itemID, locationID, 1, startedAt)
	require.NoError(t, err)
	if completedAt != nil {
		require.NoError(t, event.Complete(*completedAt, false))
	}
	_, err = f.store.Append(context.Background(), event)
	require.NoError(t, err)
	return event
}

func TestEventStoreAppendAndFind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	startedAt := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	event, err := domain.NewPickEvent(f.order.ID, f.alice.ID, f.widget.ID, f.locA.ID, 3, startedAt)
	require.NoError(t, err)

	id, err := f.store.Append(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, event.ID, id)

	found, err := f.store.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, event.ID, found.ID)
	assert.Equal(t, 3, found.Quantity)
	assert.Nil(t, found.CompletedAt)

	missing, err := f.store.FindByID(ctx, "EVT-missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEventStoreAppendUnknownReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	startedAt := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		orderID    string
		workerID   string
		itemID     string
		locationID string
		field      string
	}{
		{"unknown order", "ORD-ghost", f.alice.ID, f.widget.ID, f.locA.ID, "orderId"},
		{"unknown worker", f.order.ID, "WRK-ghost", f.widget.ID, f.locA.ID, "workerId"},
		{"unknown item", f.order.ID, f.alice.ID, "ITM-ghost", f.locA.ID, "itemId"},
		{"unknown location", f.order.ID, f.alice.ID, f.widget.ID, "LOC-ghost", "locationId"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event, err := domain.NewPickEvent(tc.orderID, tc.workerID, tc.itemID, tc.locationID, 1, startedAt)
			require.NoError(t, err)

			_, err = f.store.Append(ctx, event)
			require.Error(t, err)

			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, errors.CodeValidationError, appErr.Code)
			assert.Equal(t, tc.field, appErr.Details["field"])
		})
	}
}

func TestEventStoreAppendDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	startedAt := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	event, err := domain.NewPickEventWithID("EVT-001", f.order.ID, f.alice.ID, f.widget.ID, f.locA.ID, 1, startedAt)
	require.NoError(t, err)

	_, err = f.store.Append(ctx, event)
	require.NoError(t, err)

	duplicate, err := domain.NewPickEventWithID("EVT-001", f.order.ID, f.bob.ID, f.gadget.ID, f.locB.ID, 2, startedAt)
	require.NoError(t, err)

	_, err = f.store.Append(ctx, duplicate)
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeConflict, appErr.Code)
}

func TestEventStoreUpdateLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	startedAt := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	event := f.seedEvent(t, f.alice.ID, f.widget.ID, f.locA.ID, startedAt, nil)

	require.NoError(t, event.Complete(startedAt.Add(30*time.Second), true))
	require.NoError(t, f.store.Update(ctx, event))

	found, err := f.store.FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.NotNil(t, found.CompletedAt)
	assert.True(t, found.ShortPick)

	// The stored event is now frozen.
	err = f.store.Update(ctx, event)
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeConflict, appErr.Code)

	ghost, err := domain.NewPickEventWithID("EVT-ghost", f.order.ID, f.alice.ID, f.widget.ID, f.locA.ID, 1, startedAt)
	require.NoError(t, err)
	err = f.store.Update(ctx, ghost)
	require.Error(t, err)
	appErr, ok = errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeNotFound, appErr.Code)
}

func TestEventStoreSnapshotIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	startedAt := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	event := f.seedEvent(t, f.alice.ID, f.widget.ID, f.locA.ID, startedAt, nil)

	// Completing a read copy must not complete the stored event.
	found, err := f.store.FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.NoError(t, found.Complete(startedAt.Add(time.Minute), false))

	again, err := f.store.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Nil(t, again.CompletedAt)

	snapshot, err := f.store.Query(ctx, domain.EventFilter{})
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	snapshot[0].Quantity = 99

	again, err = f.store.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Quantity)
}

func TestEventStoreQuery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	morning := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	midday := time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC)
	started := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	atMorning := f.seedEvent(t, f.alice.ID, f.widget.ID, f.locA.ID, started, &morning)
	atMidday := f.seedEvent(t, f.bob.ID, f.gadget.ID, f.locB.ID, started, &midday)
	open := f.seedEvent(t, f.alice.ID, f.gadget.ID, f.locA.ID, started, nil)

	ids := func(events []*domain.PickEvent) map[string]bool {
		set := make(map[string]bool, len(events))
		for _, e := range events {
			set[e.ID] = true
		}
		return set
	}

	t.Run("zero filter returns everything", func(t *testing.T) {
		events, err := f.store.Query(ctx, domain.EventFilter{})
		require.NoError(t, err)
		assert.Len(t, events, 3)
	})

	t.Run("completed only", func(t *testing.T) {
		events, err := f.store.Query(ctx, domain.EventFilter{CompletedOnly: true})
		require.NoError(t, err)
		got := ids(events)
		assert.Len(t, events, 2)
		assert.True(t, got[atMorning.ID])
		assert.True(t, got[atMidday.ID])
	})

	t.Run("bounds are inclusive and exclude open events", func(t *testing.T) {
		events, err := f.store.Query(ctx, domain.EventFilter{From: &morning, To: &midday})
		require.NoError(t, err)
		got := ids(events)
		assert.Len(t, events, 2)
		assert.True(t, got[atMorning.ID])
		assert.True(t, got[atMidday.ID])
		assert.False(t, got[open.ID])
	})

	t.Run("from bound alone", func(t *testing.T) {
		after := morning.Add(time.Second)
		events, err := f.store.Query(ctx, domain.EventFilter{From: &after})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, atMidday.ID, events[0].ID)
	})

	t.Run("to bound alone", func(t *testing.T) {
		before := midday.Add(-time.Second)
		events, err := f.store.Query(ctx, domain.EventFilter{To: &before})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, atMorning.ID, events[0].ID)
	})

	t.Run("worker filter spans open and completed", func(t *testing.T) {
		events, err := f.store.Query(ctx, domain.EventFilter{WorkerIDs: []string{f.alice.ID}})
		require.NoError(t, err)
		got := ids(events)
		assert.Len(t, events, 2)
		assert.True(t, got[atMorning.ID])
		assert.True(t, got[open.ID])
	})

	t.Run("item filter", func(t *testing.T) {
		events, err := f.store.Query(ctx, domain.EventFilter{ItemIDs: []string{f.gadget.ID}})
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("zone filter resolves through locations", func(t *testing.T) {
		events, err := f.store.Query(ctx, domain.EventFilter{ZoneIDs: []string{f.zoneA.ID}})
		require.NoError(t, err)
		got := ids(events)
		assert.Len(t, events, 2)
		assert.True(t, got[atMorning.ID])
		assert.True(t, got[open.ID])
	})

	t.Run("unknown zone matches nothing", func(t *testing.T) {
		events, err := f.store.Query(ctx, domain.EventFilter{ZoneIDs: []string{"ZONE-ghost"}})
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("dimensions combine with and", func(t *testing.T) {
		events, err := f.store.Query(ctx, domain.EventFilter{
			WorkerIDs: []string{f.alice.ID},
			ZoneIDs:   []string{f.zoneB.ID},
		})
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}
