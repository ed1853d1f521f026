package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/persistence/db"
)

type orderRepository struct {
	db *mongo.Database
}

func NewOrderRepository(database *mongo.Database) domain.OrderRepository {
	return &orderRepository{
		db: database,
	}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	collection := r.db.Collection(db.OrdersCollection)

	_, err := collection.InsertOne(ctx, order)
	return err
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *orderRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	return r.findOne(ctx, bson.M{"session_id": sessionID})
}

func (r *orderRepository) findOne(ctx context.Context, filter bson.M) (*domain.Order, error) {
	collection := r.db.Collection(db.OrdersCollection)

	var order domain.Order
	err := collection.FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Order, error) {
	collection := r.db.Collection(db.OrdersCollection)

	filter := bson.M{"$or": bson.A{
		bson.M{"room_id": roomID},
		bson.M{"fulfilled_room_id": roomID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepository) SetSessionID(ctx context.Context, id, sessionID string) error {
	collection := r.db.Collection(db.OrdersCollection)

	res, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.A{
		bson.M{"$set": bson.M{
			"session_id": sessionID,
			"updated_at": "$$NOW",
		}},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// Complete records payment id and fulfillment result in a single update; the
// room_id backfill only applies when the order had none (create_room intents).
// The filter matches pending orders only, so the first completion wins and a
// concurrent duplicate is a no-op.
func (r *orderRepository) Complete(ctx context.Context, id, paymentID, fulfilledRoomID string) error {
	collection := r.db.Collection(db.OrdersCollection)

	update := bson.A{
		bson.M{"$set": bson.M{
			"status":            domain.OrderCompleted,
			"payment_id":        paymentID,
			"fulfilled_room_id": fulfilledRoomID,
			"room_id": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{"$room_id", ""}}, ""}},
				fulfilledRoomID,
				"$room_id",
			}},
			"completed_at": "$$NOW",
			"updated_at":   "$$NOW",
		}},
	}

	res, err := collection.UpdateOne(ctx, bson.M{"_id": id, "status": domain.OrderPending}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the order does not exist or it is already completed.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return nil
	}

	return nil
}

func (r *orderRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(db.OrdersCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"session_id": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{
				{Key: "room_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
