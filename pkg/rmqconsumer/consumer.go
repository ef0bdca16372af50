package rmqconsumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"bookmark-api/config"
	"bookmark-api/internal/domain/bookmark"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

// FileRemover deletes stored objects that no bookmark references any more.
type FileRemover interface {
	RemoveFile(ctx context.Context, key string) error
}

type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	conn       *amqp091.Connection
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
	files      FileRemover
}

// New builds a consumer that logs every bookmark event. With a non-nil files
// it also removes objects named by file.orphaned and bookmark.deleted events.
func New(cfg config.MQ, logger *zap.Logger, conn *amqp091.Connection, files FileRemover) *Consumer {
	return &Consumer{
		cfg:   cfg,
		log:   logger,
		conn:  conn,
		files: files,
	}
}

func (c *Consumer) Connect(dsn string) error {
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	c.conn, c.chConsume = conn, ch

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, rk := range bookmark.Actions {
		if err := c.chConsume.QueueBind(
			c.cfg.QueueName,
			string(rk),
			c.cfg.Exchange,
			false,
			nil,
		); err != nil {
			return fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}

	if err := c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	var err error
	c.chDelivery, err = c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting delivery worker")

	defer func() {
		c.log.Info("delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			c.settle(msg, c.delivery(ctx, msg))
		case <-ctx.Done():
			_ = c.chConsume.Close()
			if c.conn != nil {
				_ = c.conn.Close()
			}
			return
		}
	}
}

// settle acks handled messages. A failed message is requeued once; a
// redelivered one is dropped so a poison message cannot loop forever.
func (c *Consumer) settle(msg amqp091.Delivery, err error) {
	if err == nil {
		if aerr := msg.Ack(false); aerr != nil {
			c.log.Error("mq ack", zap.Error(aerr))
		}
		return
	}

	c.log.Error("mq read message error",
		zap.String("routing_key", msg.RoutingKey),
		zap.Bool("redelivered", msg.Redelivered),
		zap.Error(err))
	if nerr := msg.Nack(false, !msg.Redelivered); nerr != nil {
		c.log.Error("mq nack", zap.Error(nerr))
	}
}

func (c *Consumer) delivery(ctx context.Context, msg amqp091.Delivery) error {
	var e bookmark.Event
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	c.log.Info("bookmark event",
		zap.String("event_id", e.ID.String()),
		zap.String("action", string(e.Action)),
		zap.String("user_id", e.UserID),
		zap.String("bookmark_id", e.BookmarkID),
		zap.String("file_key", e.FileKey))

	if c.files == nil || e.FileKey == "" {
		return nil
	}
	switch e.Action {
	case bookmark.ActionFileOrphaned, bookmark.ActionDeleted:
		if err := c.files.RemoveFile(ctx, e.FileKey); err != nil {
			return fmt.Errorf("remove %s: %w", e.FileKey, err)
		}
		c.log.Info("stored file removed", zap.String("file_key", e.FileKey))
	}

	return nil
}
