package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/wms-platform/productivity-service/pkg/mongodb"
)

// Catalog resolves entity references against the catalog collections.
type Catalog struct {
	workers   *WorkerRepository
	orders    *OrderRepository
	items     *ItemRepository
	locations *LocationRepository
}

// NewCatalog creates a Catalog over the given repositories.
func NewCatalog(workers *WorkerRepository, orders *OrderRepository, items *ItemRepository, locations *LocationRepository) *Catalog {
	return &Catalog{
		workers:   workers,
		orders:    orders,
		items:     items,
		locations: locations,
	}
}

func existsByID(ctx context.Context, collection *mongodb.InstrumentedCollection, id string) (bool, error) {
	count, err := collection.CountDocuments(ctx, bson.M{"_id": id})
	return count > 0, err
}

func (c *Catalog) WorkerExists(ctx context.Context, id string) (bool, error) {
	return existsByID(ctx, c.workers.collection, id)
}

func (c *Catalog) OrderExists(ctx context.Context, id string) (bool, error) {
	return existsByID(ctx, c.orders.collection, id)
}

func (c *Catalog) ItemExists(ctx context.Context, id string) (bool, error) {
	return existsByID(ctx, c.items.collection, id)
}

func (c *Catalog) LocationExists(ctx context.Context, id string) (bool, error) {
	return existsByID(ctx, c.locations.collection, id)
}

func (c *Catalog) ZonesForLocations(ctx context.Context, locationIDs []string) (map[string]string, error) {
	locations, err := c.locations.FindByIDs(ctx, locationIDs)
	if err != nil {
		return nil, err
	}

	zones := make(map[string]string, len(locations))
	for _, location := range locations {
		zones[location.ID] = location.ZoneID
	}
	return zones, nil
}

func (c *Catalog) LocationIDsForZones(ctx context.Context, zoneIDs []string) ([]string, error) {
	if len(zoneIDs) == 0 {
		return nil, nil
	}
	return c.locations.findIDsByZones(ctx, zoneIDs)
}
