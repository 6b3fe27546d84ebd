package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/wms-platform/productivity-service/internal/domain"
)

// stubCatalog resolves every reference except the configured missing ID.
type stubCatalog struct {
	missing     string
	locationIDs []string
	err         error
}

func (c stubCatalog) WorkerExists(_ context.Context, id string) (bool, error) {
	return id != c.missing, c.err
}

func (c stubCatalog) OrderExists(_ context.Context, id string) (bool, error) {
	return id != c.missing, c.err
}

func (c stubCatalog) ItemExists(_ context.Context, id string) (bool, error) {
	return id != c.missing, c.err
}

func (c stubCatalog) LocationExists(_ context.Context, id string) (bool, error) {
	return id != c.missing, c.err
}

func (c stubCatalog) ZonesForLocations(context.Context, []string) (map[string]string, error) {
	return nil, c.err
}

func (c stubCatalog) LocationIDsForZones(context.Context, []string) ([]string, error) {
	return c.locationIDs, c.err
}

func TestSetDocDropsID(t *testing.T) {
	worker, err := domain.NewWorker("Alice", "EMP-001", "day", nil, time.Now())
	require.NoError(t, err)

	doc, err := setDoc(worker)
	require.NoError(t, err)

	assert.NotContains(t, doc, "_id")
	assert.Equal(t, "Alice", doc["name"])
	assert.Equal(t, "EMP-001", doc["employeeCode"])
}

func TestEventBuildFilterUnbounded(t *testing.T) {
	repo := &EventRepository{}

	filter, err := repo.buildFilter(context.Background(), domain.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, filter)
}

func TestEventBuildFilterWindow(t *testing.T) {
	repo := &EventRepository{}
	from := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	filter, err := repo.buildFilter(context.Background(), domain.EventFilter{From: &from, To: &to})
	require.NoError(t, err)

	completed, ok := filter["completedAt"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, true, completed["$exists"])
	assert.Equal(t, from, completed["$gte"])
	assert.Equal(t, to, completed["$lte"])
	assert.NotContains(t, filter, "workerId")
}

func TestEventBuildFilterCompletedOnly(t *testing.T) {
	repo := &EventRepository{}

	filter, err := repo.buildFilter(context.Background(), domain.EventFilter{CompletedOnly: true})
	require.NoError(t, err)

	assert.Equal(t, bson.M{"$exists": true}, filter["completedAt"])
}

func TestEventBuildFilterDimensions(t *testing.T) {
	repo := &EventRepository{}

	filter, err := repo.buildFilter(context.Background(), domain.EventFilter{
		WorkerIDs: []string{"W-1", "W-2"},
		ItemIDs:   []string{"I-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, bson.M{"$in": []string{"W-1", "W-2"}}, filter["workerId"])
	assert.Equal(t, bson.M{"$in": []string{"I-1"}}, filter["itemId"])
	assert.NotContains(t, filter, "completedAt")
}

func TestEventBuildFilterZones(t *testing.T) {
	repo := &EventRepository{catalog: stubCatalog{locationIDs: []string{"LOC-1", "LOC-2"}}}

	filter, err := repo.buildFilter(context.Background(), domain.EventFilter{ZoneIDs: []string{"Z-1"}})
	require.NoError(t, err)

	assert.Equal(t, bson.M{"$in": []string{"LOC-1", "LOC-2"}}, filter["locationId"])
}

func TestEventBuildFilterUnknownZone(t *testing.T) {
	repo := &EventRepository{catalog: stubCatalog{}}

	filter, err := repo.buildFilter(context.Background(), domain.EventFilter{ZoneIDs: []string{"Z-404"}})
	require.NoError(t, err)

	// The empty location set must survive as a real array so $in matches
	// nothing instead of failing.
	assert.Equal(t, bson.M{"$in": []string{}}, filter["locationId"])
}

func TestEventBuildFilterZoneResolutionError(t *testing.T) {
	repo := &EventRepository{catalog: stubCatalog{err: assert.AnError}}

	_, err := repo.buildFilter(context.Background(), domain.EventFilter{ZoneIDs: []string{"Z-1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve zone locations")
}
