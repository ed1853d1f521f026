// Package repository implements the domain repositories on MongoDB.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/persistence/db"
)

type roomRepository struct {
	db *mongo.Database
}

func NewRoomRepository(database *mongo.Database) domain.RoomRepository {
	return &roomRepository{
		db: database,
	}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	collection := r.db.Collection(db.RoomsCollection)

	_, err := collection.InsertOne(ctx, room)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrCodeCollision
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	collection := r.db.Collection(db.RoomsCollection)

	var room domain.Room
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *roomRepository) GetByCode(ctx context.Context, code string) (*domain.Room, error) {
	collection := r.db.Collection(db.RoomsCollection)

	filter := bson.M{
		"code":   domain.NormalizeCode(code),
		"status": domain.RoomActive,
	}

	var room domain.Room
	err := collection.FindOne(ctx, filter).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	return &room, nil
}

// ExtendExpiry pushes expires_at forward server-side with an aggregation
// pipeline update, so concurrent extensions both land instead of the last
// writer clobbering the first.
func (r *roomRepository) ExtendExpiry(ctx context.Context, id string, d time.Duration) error {
	collection := r.db.Collection(db.RoomsCollection)

	filter := bson.M{
		"_id":    id,
		"status": domain.RoomActive,
	}

	update := bson.A{
		bson.M{"$set": bson.M{
			"expires_at": bson.M{"$add": bson.A{"$expires_at", d.Milliseconds()}},
			"updated_at": "$$NOW",
		}},
	}

	res, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missReason(ctx, id)
	}

	return nil
}

func (r *roomRepository) Expire(ctx context.Context, id string) error {
	return r.transition(ctx, id, domain.RoomExpired)
}

func (r *roomRepository) Delete(ctx context.Context, id string) error {
	return r.transition(ctx, id, domain.RoomDeleted)
}

// transition only matches active rooms, which makes repeated expire or
// delete calls no-ops on already terminal rooms.
func (r *roomRepository) transition(ctx context.Context, id string, status domain.RoomStatus) error {
	collection := r.db.Collection(db.RoomsCollection)

	filter := bson.M{
		"_id":    id,
		"status": domain.RoomActive,
	}
	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}}

	res, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if err := r.missReason(ctx, id); errors.Is(err, domain.ErrRoomNotFound) {
			return err
		}
	}

	return nil
}

// missReason distinguishes a missing room from one that exists but is no
// longer active.
func (r *roomRepository) missReason(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrRoomNotActive
}

func (r *roomRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(db.RoomsCollection)

	indexes := []mongo.IndexModel{
		{
			// Codes are unique among active rooms only; terminal rooms
			// release their code for reuse.
			Keys: bson.D{{Key: "code", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.RoomActive}),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "expires_at", Value: 1},
			},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
