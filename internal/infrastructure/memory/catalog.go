package memory

import "context"

// Catalog resolves entity references against the in-memory stores.
type Catalog struct {
	workers   *WorkerStore
	orders    *OrderStore
	items     *ItemStore
	locations *LocationStore
}

// NewCatalog creates a Catalog over the given stores.
func NewCatalog(workers *WorkerStore, orders *OrderStore, items *ItemStore, locations *LocationStore) *Catalog {
	return &Catalog{
		workers:   workers,
		orders:    orders,
		items:     items,
		locations: locations,
	}
}

func (c *Catalog) WorkerExists(ctx context.Context, id string) (bool, error) {
	worker, err := c.workers.FindByID(ctx, id)
	return worker != nil, err
}

func (c *Catalog) OrderExists(ctx context.Context, id string) (bool, error) {
	order, err := c.orders.FindByID(ctx, id)
	return order != nil, err
}

func (c *Catalog) ItemExists(ctx context.Context, id string) (bool, error) {
	item, err := c.items.FindByID(ctx, id)
	return item != nil, err
}

func (c *Catalog) LocationExists(ctx context.Context, id string) (bool, error) {
	location, err := c.locations.FindByID(ctx, id)
	return location != nil, err
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

func (c *Catalog) LocationIDsForZones(_ context.Context, zoneIDs []string) ([]string, error) {
	want := toSet(zoneIDs)
	if want == nil {
		return nil, nil
	}
	return c.locations.findByZones(want), nil
}
