package events

import (
	"context"
	"encoding/json"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/contracts"
	"github.com/fuseroom/fuseroom/internal/infrastructure/messaging"
)

type RoomPublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewRoomPublisher(rabbitmq *messaging.RabbitMQ) *RoomPublisher {
	return &RoomPublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *RoomPublisher) publishRoomEvent(ctx context.Context, routingKey string, room domain.Room) error {
	payload := messaging.RoomEventData{
		Room: room,
	}

	roomEventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, routingKey, contracts.AmqpMessage{
		RoomID: room.ID,
		Data:   roomEventJSON,
	})
}

func (p *RoomPublisher) PublishRoomCreated(ctx context.Context, room domain.Room) error {
	return p.publishRoomEvent(ctx, contracts.EventRoomCreated, room)
}

func (p *RoomPublisher) PublishRoomExpired(ctx context.Context, room domain.Room) error {
	return p.publishRoomEvent(ctx, contracts.EventRoomExpired, room)
}

func (p *RoomPublisher) PublishRoomExtended(ctx context.Context, room domain.Room) error {
	return p.publishRoomEvent(ctx, contracts.EventRoomExtended, room)
}

func (p *RoomPublisher) PublishRoomDeleted(ctx context.Context, room domain.Room) error {
	return p.publishRoomEvent(ctx, contracts.EventRoomDeleted, room)
}

func (p *RoomPublisher) PublishOrderCompleted(ctx context.Context, order domain.Order) error {
	payload := messaging.OrderEventData{
		Order: order,
	}

	orderEventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, contracts.EventOrderCompleted, contracts.AmqpMessage{
		RoomID: order.RoomID,
		Data:   orderEventJSON,
	})
}
