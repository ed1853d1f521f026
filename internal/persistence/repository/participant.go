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

type participantRepository struct {
	db *mongo.Database
}

func NewParticipantRepository(database *mongo.Database) domain.ParticipantRepository {
	return &participantRepository{
		db: database,
	}
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	collection := r.db.Collection(db.ParticipantsCollection)

	_, err := collection.InsertOne(ctx, p)
	return err
}

func (r *participantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	collection := r.db.Collection(db.ParticipantsCollection)

	var p domain.Participant
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrParticipantNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *participantRepository) ListActiveByRoom(ctx context.Context, roomID string) ([]domain.Participant, error) {
	collection := r.db.Collection(db.ParticipantsCollection)

	filter := bson.M{
		"room_id":   roomID,
		"is_banned": false,
	}
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participants []domain.Participant
	if err := cursor.All(ctx, &participants); err != nil {
		return nil, err
	}

	return participants, nil
}

func (r *participantRepository) CountActive(ctx context.Context, roomID string) (int, error) {
	collection := r.db.Collection(db.ParticipantsCollection)

	filter := bson.M{
		"room_id":   roomID,
		"is_banned": false,
	}

	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

func (r *participantRepository) Ban(ctx context.Context, id string) error {
	collection := r.db.Collection(db.ParticipantsCollection)

	res, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_banned": true},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrParticipantNotFound
	}

	return nil
}

func (r *participantRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(db.ParticipantsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "room_id", Value: 1},
				{Key: "is_banned", Value: 1},
				{Key: "joined_at", Value: 1},
			},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
