package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fabrico/orders-api/internal/core/domain"
)

const collectionEvents = "status_events"

type EventRepository struct {
	orders *mongo.Collection
	events *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		orders: db.Collection(collectionOrders),
		events: db.Collection(collectionEvents),
	}
}

// UpdateOrderStatus atomically sets the order's new status and appends a
// history entry in a single update.
func (r *EventRepository) UpdateOrderStatus(
	ctx context.Context,
	ticketNumber string,
	status domain.OrderStatus,
	ts time.Time,
	source string,
	notes string,
) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if notes == "" {
		notes = source
	}
	entry := domain.StatusHistoryEntry{
		Status:    status,
		Timestamp: ts,
		Notes:     notes,
	}

	res, err := r.orders.UpdateOne(ctx,
		bson.M{"ticket_number": ticketNumber},
		bson.M{
			"$set":  bson.M{"status": status},
			"$push": bson.M{"status_history": entry},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// InsertEvent persists an event to the status_events audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.StatusEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"ticket_number": event.TicketNumber,
		"status":        event.Status,
		"timestamp":     event.Timestamp,
		"source":        event.Source,
	}
	if event.Notes != "" {
		doc["notes"] = event.Notes
	}

	_, err := r.events.InsertOne(ctx, doc)
	return err
}
