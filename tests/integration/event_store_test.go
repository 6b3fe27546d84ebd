package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/internal/infrastructure/memory"
	"github.com/wms-platform/productivity-service/internal/infrastructure/mongodb"
	"github.com/wms-platform/productivity-service/pkg/errors"
	"github.com/wms-platform/productivity-service/pkg/metrics"
)

var pickShiftStart = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

type repoSet struct {
	workers   domain.WorkerRepository
	zones     domain.ZoneRepository
	locations domain.LocationRepository
	items     domain.ItemRepository
	orders    domain.OrderRepository
}

type eventFixture struct {
	worker1, worker2 *domain.Worker
	zoneA, zoneB     *domain.Zone
	locA, locB       *domain.BinLocation
	item1, item2     *domain.Item
	order            *domain.Order
}

// seedEventFixture provisions the catalog both backends validate appends
// against: two workers on different shifts, two zoned locations, two
// items and one order.
func seedEventFixture(t *testing.T, ctx context.Context, repos repoSet) *eventFixture {
	t.Helper()

	fx := &eventFixture{}

	fx.worker1 = mustWorker(t, "Dana Cruz", "EMP-201", domain.ShiftDay)
	require.NoError(t, repos.workers.Save(ctx, fx.worker1))
	fx.worker2 = mustWorker(t, "Eli Novak", "EMP-202", domain.ShiftNight)
	require.NoError(t, repos.workers.Save(ctx, fx.worker2))

	var err error
	fx.zoneA, err = domain.NewZone("ZONE-A", "Forward Pick A", domain.ZoneTypePicking)
	require.NoError(t, err)
	require.NoError(t, repos.zones.Save(ctx, fx.zoneA))
	fx.zoneB, err = domain.NewZone("ZONE-B", "Forward Pick B", domain.ZoneTypePicking)
	require.NoError(t, err)
	require.NoError(t, repos.zones.Save(ctx, fx.zoneB))

	fx.locA, err = domain.NewBinLocation("A-01-2-B", fx.zoneA.ID, "A", 1, 2)
	require.NoError(t, err)
	require.NoError(t, repos.locations.Save(ctx, fx.locA))
	fx.locB, err = domain.NewBinLocation("B-03-1-A", fx.zoneB.ID, "B", 3, 1)
	require.NoError(t, err)
	require.NoError(t, repos.locations.Save(ctx, fx.locB))

	fx.item1, err = domain.NewItem("SKU-RED-M", "Red shirt, medium", "apparel", 0.3)
	require.NoError(t, err)
	require.NoError(t, repos.items.Save(ctx, fx.item1))
	fx.item2, err = domain.NewItem("SKU-BLU-L", "Blue shirt, large", "apparel", 0.35)
	require.NoError(t, err)
	require.NoError(t, repos.items.Save(ctx, fx.item2))

	fx.order, err = domain.NewOrder("SO-2001", "Acme Retail",
		pickShiftStart.Add(-time.Hour), domain.OrderPriorityStandard)
	require.NoError(t, err)
	require.NoError(t, repos.orders.Save(ctx, fx.order))

	return fx
}

// appendScenario loads three picks: two completed in different zones and
// one still open. Completed picks go through the open-then-update path so
// the update happy path is covered on every backend.
func appendScenario(t *testing.T, ctx context.Context, store domain.EventStore, fx *eventFixture) (e1, e2, e3 *domain.PickEvent) {
	t.Helper()

	e1, err := domain.NewPickEvent(fx.order.ID, fx.worker1.ID, fx.item1.ID, fx.locA.ID, 2, pickShiftStart)
	require.NoError(t, err)
	_, err = store.Append(ctx, e1)
	require.NoError(t, err)
	require.NoError(t, e1.Complete(pickShiftStart.Add(time.Minute), false))
	require.NoError(t, store.Update(ctx, e1))

	e2, err = domain.NewPickEvent(fx.order.ID, fx.worker2.ID, fx.item2.ID, fx.locB.ID, 5, pickShiftStart.Add(30*time.Minute))
	require.NoError(t, err)
	_, err = store.Append(ctx, e2)
	require.NoError(t, err)
	require.NoError(t, e2.Complete(pickShiftStart.Add(time.Hour), true))
	require.NoError(t, store.Update(ctx, e2))

	e3, err = domain.NewPickEvent(fx.order.ID, fx.worker1.ID, fx.item1.ID, fx.locA.ID, 1, pickShiftStart.Add(2*time.Hour))
	require.NoError(t, err)
	_, err = store.Append(ctx, e3)
	require.NoError(t, err)

	return e1, e2, e3
}

func eventIDs(events []*domain.PickEvent) []string {
	ids := make([]string, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.ID)
	}
	return ids
}

func setupMemoryBackend(t *testing.T) (domain.EventStore, repoSet, func()) {
	t.Helper()

	workers := memory.NewWorkerStore()
	orders := memory.NewOrderStore()
	items := memory.NewItemStore()
	locations := memory.NewLocationStore()
	catalog := memory.NewCatalog(workers, orders, items, locations)

	repos := repoSet{
		workers:   workers,
		zones:     memory.NewZoneStore(),
		locations: locations,
		items:     items,
		orders:    orders,
	}
	return memory.NewEventStore(catalog), repos, func() {}
}

func setupMongoBackend(t *testing.T) (domain.EventStore, repoSet, func()) {
	t.Helper()

	db, cleanup := startMongo(t)
	m := metrics.New(metrics.DefaultConfig("integration-test"))
	logger := integrationLogger()

	workers := mongodb.NewWorkerRepository(db, m, logger)
	orders := mongodb.NewOrderRepository(db, m, logger)
	items := mongodb.NewItemRepository(db, m, logger)
	locations := mongodb.NewLocationRepository(db, m, logger)
	catalog := mongodb.NewCatalog(workers, orders, items, locations)

	repos := repoSet{
		workers:   workers,
		zones:     mongodb.NewZoneRepository(db, m, logger),
		locations: locations,
		items:     items,
		orders:    orders,
	}
	return mongodb.NewEventRepository(db, catalog, m, logger), repos, cleanup
}

// TestEventStoreBackends runs the same scenario against the in-memory
// store and the MongoDB repository. Both must agree on filter semantics
// and on the append and completion conflicts.
func TestEventStoreBackends(t *testing.T) {
	backends := []struct {
		name  string
		setup func(t *testing.T) (domain.EventStore, repoSet, func())
	}{
		{name: "memory", setup: setupMemoryBackend},
		{name: "mongodb", setup: setupMongoBackend},
	}

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			store, repos, cleanup := backend.setup(t)
			defer cleanup()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			fx := seedEventFixture(t, ctx, repos)
			e1, e2, e3 := appendScenario(t, ctx, store, fx)

			t.Run("find by id round trip", func(t *testing.T) {
				found, err := store.FindByID(ctx, e1.ID)
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, fx.worker1.ID, found.WorkerID)
				assert.Equal(t, 2, found.Quantity)
				assert.False(t, found.ShortPick)
				assert.WithinDuration(t, pickShiftStart, found.StartedAt, time.Second)
				require.NotNil(t, found.CompletedAt)
				assert.WithinDuration(t, pickShiftStart.Add(time.Minute), *found.CompletedAt, time.Second)

				open, err := store.FindByID(ctx, e3.ID)
				require.NoError(t, err)
				require.NotNil(t, open)
				assert.Nil(t, open.CompletedAt)
			})

			t.Run("find miss returns nil", func(t *testing.T) {
				found, err := store.FindByID(ctx, "EVT-404")
				require.NoError(t, err)
				assert.Nil(t, found)
			})

			t.Run("filters", func(t *testing.T) {
				windowFrom := pickShiftStart
				windowTo := pickShiftStart.Add(30 * time.Minute)
				exactlyE1 := pickShiftStart.Add(time.Minute)
				lateFrom := pickShiftStart.Add(30 * time.Minute)

				cases := []struct {
					name   string
					filter domain.EventFilter
					want   []string
				}{
					{
						name:   "zero filter matches everything",
						filter: domain.EventFilter{},
						want:   []string{e1.ID, e2.ID, e3.ID},
					},
					{
						name:   "completed only excludes open picks",
						filter: domain.EventFilter{CompletedOnly: true},
						want:   []string{e1.ID, e2.ID},
					},
					{
						name:   "bounded window excludes open picks",
						filter: domain.EventFilter{From: &windowFrom, To: &windowTo},
						want:   []string{e1.ID},
					},
					{
						name:   "bounds are inclusive at the exact completion time",
						filter: domain.EventFilter{From: &exactlyE1, To: &exactlyE1},
						want:   []string{e1.ID},
					},
					{
						name:   "lower bound alone",
						filter: domain.EventFilter{From: &lateFrom},
						want:   []string{e2.ID},
					},
					{
						name:   "worker filter",
						filter: domain.EventFilter{WorkerIDs: []string{fx.worker2.ID}},
						want:   []string{e2.ID},
					},
					{
						name:   "item filter",
						filter: domain.EventFilter{ItemIDs: []string{fx.item2.ID}},
						want:   []string{e2.ID},
					},
					{
						name:   "zone filter resolves through locations",
						filter: domain.EventFilter{ZoneIDs: []string{fx.zoneA.ID}},
						want:   []string{e1.ID, e3.ID},
					},
					{
						name:   "zone filter with completed only",
						filter: domain.EventFilter{ZoneIDs: []string{fx.zoneA.ID}, CompletedOnly: true},
						want:   []string{e1.ID},
					},
					{
						name:   "unknown zone matches nothing",
						filter: domain.EventFilter{ZoneIDs: []string{"ZON-404"}},
						want:   []string{},
					},
				}

				for _, tc := range cases {
					t.Run(tc.name, func(t *testing.T) {
						events, err := store.Query(ctx, tc.filter)
						require.NoError(t, err)
						assert.ElementsMatch(t, tc.want, eventIDs(events))
					})
				}
			})

			t.Run("duplicate append is a conflict", func(t *testing.T) {
				dup, err := domain.NewPickEventWithID(e1.ID, fx.order.ID, fx.worker1.ID,
					fx.item1.ID, fx.locA.ID, 1, pickShiftStart)
				require.NoError(t, err)

				_, err = store.Append(ctx, dup)
				require.Error(t, err)

				appErr, ok := errors.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, errors.CodeConflict, appErr.Code)
			})

			t.Run("completion is one shot", func(t *testing.T) {
				err := store.Update(ctx, e2)
				require.Error(t, err)

				appErr, ok := errors.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, errors.CodeConflict, appErr.Code)
			})

			t.Run("update unknown event", func(t *testing.T) {
				ghost, err := domain.NewPickEvent(fx.order.ID, fx.worker1.ID,
					fx.item1.ID, fx.locA.ID, 1, pickShiftStart)
				require.NoError(t, err)

				err = store.Update(ctx, ghost)
				require.Error(t, err)

				appErr, ok := errors.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, errors.CodeNotFound, appErr.Code)
			})

			t.Run("unknown references rejected", func(t *testing.T) {
				stray, err := domain.NewPickEvent(fx.order.ID, "WRK-404",
					fx.item1.ID, fx.locA.ID, 1, pickShiftStart)
				require.NoError(t, err)

				_, err = store.Append(ctx, stray)
				require.Error(t, err)

				appErr, ok := errors.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, errors.CodeValidationError, appErr.Code)
			})
		})
	}
}
