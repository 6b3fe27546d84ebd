package integration

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/internal/infrastructure/mongodb"
	"github.com/wms-platform/productivity-service/pkg/errors"
	"github.com/wms-platform/productivity-service/pkg/logging"
	"github.com/wms-platform/productivity-service/pkg/metrics"
	sharedtesting "github.com/wms-platform/productivity-service/pkg/testing"
)

func integrationLogger() *logging.Logger {
	cfg := logging.DefaultConfig("productivity-integration")
	cfg.Output = io.Discard
	return logging.New(cfg)
}

// startMongo spins up a MongoDB container and hands back a database handle.
func startMongo(t *testing.T) (*mongo.Database, func()) {
	t.Helper()
	ctx := context.Background()

	mongoContainer, err := sharedtesting.NewMongoDBContainer(ctx)
	require.NoError(t, err)

	client, err := mongoContainer.GetClient(ctx)
	require.NoError(t, err)

	cleanup := func() {
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("Failed to disconnect MongoDB client: %v", err)
		}
		if err := mongoContainer.Close(ctx); err != nil {
			t.Logf("Failed to close MongoDB container: %v", err)
		}
	}

	return client.Database("test_productivity_db"), cleanup
}

func mustWorker(t *testing.T, name, code string, shift domain.Shift) *domain.Worker {
	t.Helper()
	worker, err := domain.NewWorker(name, code, shift, nil,
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return worker
}

func TestWorkerRepository(t *testing.T) {
	db, cleanup := startMongo(t)
	defer cleanup()

	repo := mongodb.NewWorkerRepository(db, metrics.New(metrics.DefaultConfig("integration-test")), integrationLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Run("save and find", func(t *testing.T) {
		worker := mustWorker(t, "Dana Cruz", "EMP-100", domain.ShiftDay)
		require.NoError(t, repo.Save(ctx, worker))

		found, err := repo.FindByID(ctx, worker.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Dana Cruz", found.Name)
		assert.Equal(t, domain.ShiftDay, found.Shift)
		assert.True(t, found.Active)
		assert.WithinDuration(t, worker.HireDate, found.HireDate, time.Second)

		byCode, err := repo.FindByEmployeeCode(ctx, "EMP-100")
		require.NoError(t, err)
		require.NotNil(t, byCode)
		assert.Equal(t, worker.ID, byCode.ID)
	})

	t.Run("find miss returns nil", func(t *testing.T) {
		found, err := repo.FindByID(ctx, "WRK-404")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("duplicate employee code is a conflict", func(t *testing.T) {
		first := mustWorker(t, "Eli Novak", "EMP-101", domain.ShiftNight)
		require.NoError(t, repo.Save(ctx, first))

		dup := mustWorker(t, "Imposter", "EMP-101", domain.ShiftDay)
		err := repo.Save(ctx, dup)
		require.Error(t, err)

		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeConflict, appErr.Code)
	})

	t.Run("update rate", func(t *testing.T) {
		worker := mustWorker(t, "Sam Reyes", "EMP-102", domain.ShiftSwing)
		require.NoError(t, repo.Save(ctx, worker))

		require.NoError(t, worker.SetHourlyRate(21.5))
		require.NoError(t, repo.Update(ctx, worker))

		found, err := repo.FindByID(ctx, worker.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		require.NotNil(t, found.HourlyRate)
		assert.InDelta(t, 21.5, *found.HourlyRate, 0.001)
	})

	t.Run("update missing worker", func(t *testing.T) {
		ghost := mustWorker(t, "Ghost", "EMP-103", domain.ShiftDay)
		err := repo.Update(ctx, ghost)
		require.Error(t, err)

		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeNotFound, appErr.Code)
	})

	t.Run("find all pages in creation order", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			worker := mustWorker(t, fmt.Sprintf("Pager %d", i), fmt.Sprintf("EMP-PAGE-%d", i), domain.ShiftDay)
			require.NoError(t, repo.Save(ctx, worker))
		}

		page, total, err := repo.FindAll(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, page, 2)
		assert.GreaterOrEqual(t, total, int64(3))

		rest, _, err := repo.FindAll(ctx, 2, 2)
		require.NoError(t, err)
		assert.NotEmpty(t, rest)
		assert.NotEqual(t, page[0].ID, rest[0].ID)
	})
}

func TestZoneRepository(t *testing.T) {
	db, cleanup := startMongo(t)
	defer cleanup()

	repo := mongodb.NewZoneRepository(db, metrics.New(metrics.DefaultConfig("integration-test")), integrationLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	zone, err := domain.NewZone("ZONE-A", "Forward Pick A", domain.ZoneTypePicking)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, zone))

	t.Run("find by code", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "ZONE-A")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, zone.ID, found.ID)
		assert.Equal(t, domain.ZoneTypePicking, found.Type)
	})

	t.Run("duplicate code is a conflict", func(t *testing.T) {
		dup, err := domain.NewZone("ZONE-A", "Duplicate", domain.ZoneTypePacking)
		require.NoError(t, err)

		err = repo.Save(ctx, dup)
		require.Error(t, err)

		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeConflict, appErr.Code)
	})

	t.Run("unpaged listing", func(t *testing.T) {
		other, err := domain.NewZone("ZONE-B", "Pack Lane B", domain.ZoneTypePacking)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, other))

		zones, total, err := repo.FindAll(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, zones, 2)
	})
}

func TestLocationRepositoryAndCatalog(t *testing.T) {
	db, cleanup := startMongo(t)
	defer cleanup()

	m := metrics.New(metrics.DefaultConfig("integration-test"))
	logger := integrationLogger()

	workers := mongodb.NewWorkerRepository(db, m, logger)
	orders := mongodb.NewOrderRepository(db, m, logger)
	items := mongodb.NewItemRepository(db, m, logger)
	locations := mongodb.NewLocationRepository(db, m, logger)
	catalog := mongodb.NewCatalog(workers, orders, items, locations)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	zoneA := "zone-a-id"
	zoneB := "zone-b-id"

	locA, err := domain.NewBinLocation("A-01-2-B", zoneA, "A", 1, 2)
	require.NoError(t, err)
	require.NoError(t, locations.Save(ctx, locA))

	locB, err := domain.NewBinLocation("B-03-1-A", zoneB, "B", 3, 1)
	require.NoError(t, err)
	require.NoError(t, locations.Save(ctx, locB))

	t.Run("duplicate code is a conflict", func(t *testing.T) {
		dup, err := domain.NewBinLocation("A-01-2-B", zoneA, "A", 1, 3)
		require.NoError(t, err)

		err = locations.Save(ctx, dup)
		require.Error(t, err)

		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeConflict, appErr.Code)
	})

	t.Run("deactivate persists", func(t *testing.T) {
		locA.Deactivate()
		require.NoError(t, locations.Update(ctx, locA))

		found, err := locations.FindByID(ctx, locA.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.False(t, found.Active)
	})

	t.Run("zone resolution through locations", func(t *testing.T) {
		ids, err := catalog.LocationIDsForZones(ctx, []string{zoneA})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{locA.ID}, ids)

		both, err := catalog.LocationIDsForZones(ctx, []string{zoneA, zoneB})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{locA.ID, locB.ID}, both)

		none, err := catalog.LocationIDsForZones(ctx, []string{"ZON-404"})
		require.NoError(t, err)
		assert.Empty(t, none)

		zones, err := catalog.ZonesForLocations(ctx, []string{locA.ID, locB.ID})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{locA.ID: zoneA, locB.ID: zoneB}, zones)
	})

	t.Run("existence checks", func(t *testing.T) {
		exists, err := catalog.LocationExists(ctx, locB.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = catalog.WorkerExists(ctx, "WRK-404")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestItemRepository(t *testing.T) {
	db, cleanup := startMongo(t)
	defer cleanup()

	repo := mongodb.NewItemRepository(db, metrics.New(metrics.DefaultConfig("integration-test")), integrationLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	item, err := domain.NewItem("SKU-RED-M", "Red shirt, medium", "apparel", 0.3)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, item))

	t.Run("find by sku", func(t *testing.T) {
		found, err := repo.FindBySKU(ctx, "SKU-RED-M")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, item.ID, found.ID)
		assert.InDelta(t, 0.3, found.WeightKg, 0.001)
	})

	t.Run("duplicate sku is a conflict", func(t *testing.T) {
		dup, err := domain.NewItem("SKU-RED-M", "Duplicate", "apparel", 0.4)
		require.NoError(t, err)

		err = repo.Save(ctx, dup)
		require.Error(t, err)

		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeConflict, appErr.Code)
	})

	t.Run("deactivate persists", func(t *testing.T) {
		item.Deactivate()
		require.NoError(t, repo.Update(ctx, item))

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.False(t, found.Active)
	})
}

func TestOrderRepository(t *testing.T) {
	db, cleanup := startMongo(t)
	defer cleanup()

	repo := mongodb.NewOrderRepository(db, metrics.New(metrics.DefaultConfig("integration-test")), integrationLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	order, err := domain.NewOrder("SO-1001", "Acme Retail",
		time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC), domain.OrderPriorityStandard)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, order))

	t.Run("find by number", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, "SO-1001")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, domain.OrderStatusPending, found.Status)
		assert.WithinDuration(t, order.OrderedAt, found.OrderedAt, time.Second)
	})

	t.Run("duplicate number is a conflict", func(t *testing.T) {
		dup, err := domain.NewOrder("SO-1001", "Duplicate",
			time.Date(2025, 6, 9, 13, 0, 0, 0, time.UTC), domain.OrderPriorityRush)
		require.NoError(t, err)

		err = repo.Save(ctx, dup)
		require.Error(t, err)

		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeConflict, appErr.Code)
	})

	t.Run("status advance persists", func(t *testing.T) {
		require.NoError(t, order.AdvanceStatus(domain.OrderStatusPicked))
		require.NoError(t, repo.Update(ctx, order))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, domain.OrderStatusPicked, found.Status)
	})
}
