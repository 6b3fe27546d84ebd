// Package mongodb persists the productivity catalog and pick event log in
// MongoDB. Unique business keys are enforced by indexes, and duplicate key
// errors surface as the same conflicts the memory backend reports.
package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/errors"
	"github.com/wms-platform/productivity-service/pkg/logging"
	"github.com/wms-platform/productivity-service/pkg/metrics"
	"github.com/wms-platform/productivity-service/pkg/mongodb"
)

const indexTimeout = 10 * time.Second

// creationOrder is the stable listing order shared by every FindAll.
var creationOrder = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

// setDoc marshals v into a $set document, dropping the immutable _id.
func setDoc(v interface{}) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	delete(doc, "_id")
	return doc, nil
}

// listOptions translates the FindAll paging convention: a non-positive
// limit disables paging and returns the full listing.
func listOptions(limit, offset int64) *options.FindOptions {
	opts := options.Find().SetSort(creationOrder)
	if limit > 0 {
		opts.SetLimit(limit)
		if offset > 0 {
			opts.SetSkip(offset)
		}
	}
	return opts
}

// WorkerRepository is a MongoDB-backed domain.WorkerRepository.
type WorkerRepository struct {
	collection *mongodb.InstrumentedCollection
}

// NewWorkerRepository creates a WorkerRepository and ensures its indexes.
func NewWorkerRepository(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) *WorkerRepository {
	r := &WorkerRepository{collection: mongodb.WrapCollection(db.Collection("workers"), m, logger)}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	_, _ = r.collection.CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "employeeCode", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "shift", Value: 1}}},
		{Keys: creationOrder},
	})
	return r
}

// Save inserts a new worker; a duplicate employee code is a conflict.
func (r *WorkerRepository) Save(ctx context.Context, worker *domain.Worker) error {
	if _, err := r.collection.InsertOne(ctx, worker); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ErrConflict("worker with this employee code already exists").
				WithDetail("employeeCode", worker.EmployeeCode)
		}
		return err
	}
	return nil
}

func (r *WorkerRepository) Update(ctx context.Context, worker *domain.Worker) error {
	doc, err := setDoc(worker)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": worker.ID}, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.ErrNotFoundWithID("worker", worker.ID)
	}
	return nil
}

func (r *WorkerRepository) FindByID(ctx context.Context, id string) (*domain.Worker, error) {
	var worker domain.Worker
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&worker)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepository) FindByEmployeeCode(ctx context.Context, code string) (*domain.Worker, error) {
	var worker domain.Worker
	err := r.collection.FindOne(ctx, bson.M{"employeeCode": code}).Decode(&worker)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Worker, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.findMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (r *WorkerRepository) FindAll(ctx context.Context, limit, offset int64) ([]*domain.Worker, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	workers, err := r.findMany(ctx, bson.M{}, listOptions(limit, offset))
	if err != nil {
		return nil, 0, err
	}
	return workers, total, nil
}

func (r *WorkerRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Worker, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workers []*domain.Worker
	if err := cursor.All(ctx, &workers); err != nil {
		return nil, err
	}
	return workers, nil
}

// ZoneRepository is a MongoDB-backed domain.ZoneRepository.
type ZoneRepository struct {
	collection *mongodb.InstrumentedCollection
}

// NewZoneRepository creates a ZoneRepository and ensures its indexes.
func NewZoneRepository(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) *ZoneRepository {
	r := &ZoneRepository{collection: mongodb.WrapCollection(db.Collection("zones"), m, logger)}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	_, _ = r.collection.CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: creationOrder},
	})
	return r
}

// Save inserts a new zone; a duplicate code is a conflict.
func (r *ZoneRepository) Save(ctx context.Context, zone *domain.Zone) error {
	if _, err := r.collection.InsertOne(ctx, zone); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ErrConflict("zone with this code already exists").
				WithDetail("code", zone.Code)
		}
		return err
	}
	return nil
}

func (r *ZoneRepository) FindByID(ctx context.Context, id string) (*domain.Zone, error) {
	var zone domain.Zone
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&zone)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *ZoneRepository) FindByCode(ctx context.Context, code string) (*domain.Zone, error) {
	var zone domain.Zone
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&zone)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *ZoneRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Zone, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.findMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (r *ZoneRepository) FindAll(ctx context.Context, limit, offset int64) ([]*domain.Zone, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	zones, err := r.findMany(ctx, bson.M{}, listOptions(limit, offset))
	if err != nil {
		return nil, 0, err
	}
	return zones, total, nil
}

func (r *ZoneRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Zone, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var zones []*domain.Zone
	if err := cursor.All(ctx, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// LocationRepository is a MongoDB-backed domain.LocationRepository.
type LocationRepository struct {
	collection *mongodb.InstrumentedCollection
}

// NewLocationRepository creates a LocationRepository and ensures its indexes.
func NewLocationRepository(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) *LocationRepository {
	r := &LocationRepository{collection: mongodb.WrapCollection(db.Collection("bin_locations"), m, logger)}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	_, _ = r.collection.CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "zoneId", Value: 1}}},
		{Keys: creationOrder},
	})
	return r
}

// Save inserts a new bin location; a duplicate code is a conflict.
func (r *LocationRepository) Save(ctx context.Context, location *domain.BinLocation) error {
	if _, err := r.collection.InsertOne(ctx, location); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ErrConflict("location with this code already exists").
				WithDetail("code", location.Code)
		}
		return err
	}
	return nil
}

func (r *LocationRepository) Update(ctx context.Context, location *domain.BinLocation) error {
	doc, err := setDoc(location)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": location.ID}, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.ErrNotFoundWithID("location", location.ID)
	}
	return nil
}

func (r *LocationRepository) FindByID(ctx context.Context, id string) (*domain.BinLocation, error) {
	var location domain.BinLocation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&location)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *LocationRepository) FindByCode(ctx context.Context, code string) (*domain.BinLocation, error) {
	var location domain.BinLocation
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&location)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *LocationRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.BinLocation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.findMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (r *LocationRepository) FindAll(ctx context.Context, limit, offset int64) ([]*domain.BinLocation, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	locations, err := r.findMany(ctx, bson.M{}, listOptions(limit, offset))
	if err != nil {
		return nil, 0, err
	}
	return locations, total, nil
}

// findIDsByZones returns the IDs of all locations in the given zones.
func (r *LocationRepository) findIDsByZones(ctx context.Context, zoneIDs []string) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"zoneId": bson.M{"$in": zoneIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func (r *LocationRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.BinLocation, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var locations []*domain.BinLocation
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// ItemRepository is a MongoDB-backed domain.ItemRepository.
type ItemRepository struct {
	collection *mongodb.InstrumentedCollection
}

// NewItemRepository creates an ItemRepository and ensures its indexes.
func NewItemRepository(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) *ItemRepository {
	r := &ItemRepository{collection: mongodb.WrapCollection(db.Collection("items"), m, logger)}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	_, _ = r.collection.CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: creationOrder},
	})
	return r
}

// Save inserts a new item; a duplicate SKU is a conflict.
func (r *ItemRepository) Save(ctx context.Context, item *domain.Item) error {
	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ErrConflict("item with this sku already exists").
				WithDetail("sku", item.SKU)
		}
		return err
	}
	return nil
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	doc, err := setDoc(item)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": item.ID}, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.ErrNotFoundWithID("item", item.ID)
	}
	return nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	var item domain.Item
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) FindBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	var item domain.Item
	err := r.collection.FindOne(ctx, bson.M{"sku": sku}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.findMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (r *ItemRepository) FindAll(ctx context.Context, limit, offset int64) ([]*domain.Item, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	items, err := r.findMany(ctx, bson.M{}, listOptions(limit, offset))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ItemRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Item, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*domain.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// OrderRepository is a MongoDB-backed domain.OrderRepository.
type OrderRepository struct {
	collection *mongodb.InstrumentedCollection
}

// NewOrderRepository creates an OrderRepository and ensures its indexes.
func NewOrderRepository(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) *OrderRepository {
	r := &OrderRepository{collection: mongodb.WrapCollection(db.Collection("orders"), m, logger)}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	_, _ = r.collection.CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: creationOrder},
	})
	return r
}

// Save inserts a new order; a duplicate order number is a conflict.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ErrConflict("order with this number already exists").
				WithDetail("number", order.Number)
		}
		return err
	}
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	doc, err := setDoc(order)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.ErrNotFoundWithID("order", order.ID)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	var order domain.Order
	err := r.collection.FindOne(ctx, bson.M{"number": number}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindAll(ctx context.Context, limit, offset int64) ([]*domain.Order, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, listOptions(limit, offset))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
