package mq

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"bookmark-api/config"
	"bookmark-api/internal/domain/bookmark"
)

// "Rely on metrics, not guesses."
const bufferSize = 128

var ErrBufferFull = errors.New("mq publish buffer is full")

type (
	InputCh  = chan bookmark.Event
	RabbitMQ struct {
		cfg   config.MQ
		log   *zap.Logger
		conn  *amqp091.Connection
		pubCh *amqp091.Channel
		in    InputCh
	}
)

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger,
		in:  make(chan bookmark.Event, bufferSize),
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "bookmarkapi",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	r.pubCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		return err
	}

	r.log.Info("rabbitmq connected successfully")

	return nil
}

// Init declares the exchange and the event queue, bound to every bookmark action.
func (r *RabbitMQ) Init() error {
	if err := r.pubCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.pubCh.Close()
		return err
	}
	q, err := r.pubCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for _, rk := range bookmark.Actions {
		if err = r.pubCh.QueueBind(q.Name, string(rk), r.cfg.Exchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}

// Publish hands the event to the publisher worker without blocking the caller.
func (r *RabbitMQ) Publish(ctx context.Context, e bookmark.Event) error {
	select {
	case r.in <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBufferFull
	}
}

func (r *RabbitMQ) PublisherWorker(ctx context.Context) {
	r.log.Info("starting publisher worker")

	defer func() {
		r.log.Info("publisher worker gracefully stopped")
	}()

	for {
		select {
		case e := <-r.in:
			if err := r.publish(ctx, e); err != nil {
				// alert
				r.log.Error("mq publish error",
					zap.String("event_action", string(e.Action)),
					zap.Error(err))
			}
		case <-ctx.Done():
			if r.pubCh != nil {
				_ = r.pubCh.Close()
			}
			return
		}
	}
}

func (r *RabbitMQ) publish(ctx context.Context, e bookmark.Event) error {
	pub, err := publishing(e)
	if err != nil {
		return err
	}

	return r.pubCh.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		string(e.Action),
		true,
		false,
		pub,
	)
}

func publishing(e bookmark.Event) (amqp091.Publishing, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return amqp091.Publishing{}, err
	}

	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.ID.String(),
		Timestamp:    e.TS,
		Type:         string(e.Action),
		Body:         b,
	}, nil
}

func (r *RabbitMQ) GetInputChan() chan bookmark.Event { return r.in }
func (r *RabbitMQ) GetConn() *amqp091.Connection      { return r.conn }

// Discard is the publisher used when no broker is configured.
type Discard struct{}

func (Discard) Publish(context.Context, bookmark.Event) error { return nil }
func (Discard) PublisherWorker(ctx context.Context)           { <-ctx.Done() }
func (Discard) GetConn() *amqp091.Connection                  { return nil }
