package ports

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"bookmark-api/internal/domain/bookmark"
)

type EventPublisher interface {
	Publish(ctx context.Context, e bookmark.Event) error
}

type RabbitMQ interface {
	EventPublisher
	PublisherWorker(ctx context.Context)
	GetConn() *amqp091.Connection
}
