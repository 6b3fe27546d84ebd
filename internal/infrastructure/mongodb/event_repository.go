package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/errors"
	"github.com/wms-platform/productivity-service/pkg/logging"
	"github.com/wms-platform/productivity-service/pkg/metrics"
	"github.com/wms-platform/productivity-service/pkg/mongodb"
)

// EventRepository is a MongoDB-backed domain.EventStore. Appends validate
// every referenced entity against the catalog, and completed events are
// frozen by a conditional update that only matches open documents.
type EventRepository struct {
	collection *mongodb.InstrumentedCollection
	catalog    domain.Catalog
}

// NewEventRepository creates an EventRepository validating against catalog
// and ensures its indexes.
func NewEventRepository(db *mongo.Database, catalog domain.Catalog, m *metrics.Metrics, logger *logging.Logger) *EventRepository {
	r := &EventRepository{
		collection: mongodb.WrapCollection(db.Collection("pick_events"), m, logger),
		catalog:    catalog,
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	_, _ = r.collection.CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "completedAt", Value: 1}}},
		{Keys: bson.D{{Key: "workerId", Value: 1}, {Key: "completedAt", Value: 1}}},
		{Keys: bson.D{{Key: "itemId", Value: 1}}},
		{Keys: bson.D{{Key: "locationId", Value: 1}}},
		{Keys: bson.D{{Key: "orderId", Value: 1}}},
	})
	return r
}

func (r *EventRepository) Append(ctx context.Context, event *domain.PickEvent) (string, error) {
	if err := r.validateReferences(ctx, event); err != nil {
		return "", err
	}

	if _, err := r.collection.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", errors.ErrConflict("pick event already exists").WithDetail("eventId", event.ID)
		}
		return "", err
	}
	return event.ID, nil
}

func (r *EventRepository) FindByID(ctx context.Context, eventID string) (*domain.PickEvent, error) {
	var event domain.PickEvent
	err := r.collection.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.PickEvent) error {
	doc, err := setDoc(event)
	if err != nil {
		return err
	}

	// The filter matches open events only; completion is the single
	// permitted transition.
	filter := bson.M{"_id": event.ID, "completedAt": bson.M{"$exists": false}}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": doc})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		current, err := r.FindByID(ctx, event.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return errors.ErrNotFoundWithID("pick event", event.ID)
		}
		return errors.ErrConflict("pick event is already completed").WithDetail("eventId", event.ID)
	}
	return nil
}

func (r *EventRepository) Query(ctx context.Context, filter domain.EventFilter) ([]*domain.PickEvent, error) {
	mongoFilter, err := r.buildFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, mongoFilter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]*domain.PickEvent, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// buildFilter translates an EventFilter. Open events omit completedAt, so
// any time bound or the completed-only flag adds an existence check, and
// the bounds themselves are inclusive over completion times.
func (r *EventRepository) buildFilter(ctx context.Context, filter domain.EventFilter) (bson.M, error) {
	mongoFilter := bson.M{}

	completed := bson.M{}
	if filter.CompletedOnly || filter.From != nil || filter.To != nil {
		completed["$exists"] = true
	}
	if filter.From != nil {
		completed["$gte"] = *filter.From
	}
	if filter.To != nil {
		completed["$lte"] = *filter.To
	}
	if len(completed) > 0 {
		mongoFilter["completedAt"] = completed
	}

	if len(filter.WorkerIDs) > 0 {
		mongoFilter["workerId"] = bson.M{"$in": filter.WorkerIDs}
	}
	if len(filter.ItemIDs) > 0 {
		mongoFilter["itemId"] = bson.M{"$in": filter.ItemIDs}
	}
	if len(filter.ZoneIDs) > 0 {
		locationIDs, err := r.catalog.LocationIDsForZones(ctx, filter.ZoneIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve zone locations: %w", err)
		}
		if locationIDs == nil {
			// An unknown zone resolves to no locations, and $in over the
			// empty set matches nothing.
			locationIDs = []string{}
		}
		mongoFilter["locationId"] = bson.M{"$in": locationIDs}
	}

	return mongoFilter, nil
}

func (r *EventRepository) validateReferences(ctx context.Context, event *domain.PickEvent) error {
	checks := []struct {
		field  string
		value  string
		exists func(context.Context, string) (bool, error)
	}{
		{"orderId", event.OrderID, r.catalog.OrderExists},
		{"workerId", event.WorkerID, r.catalog.WorkerExists},
		{"itemId", event.ItemID, r.catalog.ItemExists},
		{"locationId", event.LocationID, r.catalog.LocationExists},
	}
	for _, check := range checks {
		exists, err := check.exists(ctx, check.value)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", check.field, err)
		}
		if !exists {
			return errors.ErrValidationField(check.field, check.value)
		}
	}
	return nil
}
