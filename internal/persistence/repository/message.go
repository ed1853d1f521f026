package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/persistence/db"
)

type messageRepository struct {
	db *mongo.Database
}

func NewMessageRepository(database *mongo.Database) domain.MessageRepository {
	return &messageRepository{
		db: database,
	}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	collection := r.db.Collection(db.MessagesCollection)

	_, err := collection.InsertOne(ctx, message)
	return err
}

// messageWithSender carries the $lookup join alongside the inlined message.
type messageWithSender struct {
	domain.Message `bson:",inline"`
	Sender         []domain.Participant `bson:"sender"`
}

// ListByRoom returns the most recent window of messages in ascending order,
// each joined with its sender for display.
func (r *messageRepository) ListByRoom(ctx context.Context, roomID string, limit int) ([]domain.Message, error) {
	collection := r.db.Collection(db.MessagesCollection)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"room_id": roomID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(limit)}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         db.ParticipantsCollection,
			"localField":   "participant_id",
			"foreignField": "_id",
			"as":           "sender",
		}}},
	)

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []messageWithSender
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(rows))
	for _, row := range rows {
		msg := row.Message
		if len(row.Sender) > 0 {
			sender := row.Sender[0]
			msg.Participant = &sender
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

func (r *messageRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(db.MessagesCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "room_id", Value: 1},
				{Key: "created_at", Value: 1},
			},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
