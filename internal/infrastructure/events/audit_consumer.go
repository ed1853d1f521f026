package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/contracts"
	"github.com/fuseroom/fuseroom/internal/infrastructure/messaging"
)

type auditConsumer struct {
	rabbitmq *messaging.RabbitMQ
	audits   domain.RoomAuditRepository
}

func NewAuditConsumer(rabbitmq *messaging.RabbitMQ, audits domain.RoomAuditRepository) *auditConsumer {
	return &auditConsumer{
		rabbitmq: rabbitmq,
		audits:   audits,
	}
}

func (c *auditConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.AuditQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		var message contracts.AmqpMessage
		if err := json.Unmarshal(msg.Body, &message); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			return err
		}

		entry := &domain.RoomAuditLog{
			RoomID:    message.RoomID,
			EventType: domain.RoomEventType(msg.RoutingKey),
			Timestamp: time.Now(),
		}

		var details map[string]any
		if err := json.Unmarshal(message.Data, &details); err == nil {
			entry.Details = details
		}

		return c.audits.Log(ctx, entry)
	})
}
