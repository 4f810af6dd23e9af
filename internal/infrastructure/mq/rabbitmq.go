package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"file-exchange-api/config"
)

const (
	EventUserCreated  = "user.created"
	EventUserVerified = "user.verified"
	EventFileUploaded = "file.uploaded"
	EventFileDeleted  = "file.deleted"
)

// RoutingKeys lists every key the service publishes.
func RoutingKeys() []string {
	return []string{EventUserCreated, EventUserVerified, EventFileUploaded, EventFileDeleted}
}

type (
	Event struct {
		ID      uuid.UUID `json:"event_id"`
		TS      time.Time `json:"time_stamp"`
		Action  string    `json:"event_action"`
		ActorID int64     `json:"actor_id"`
		Payload any       `json:"payload"`
	}

	channel interface {
		PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	}

	RabbitMQ struct {
		cfg   config.MQ
		log   *zap.Logger
		conn  *amqp091.Connection
		mu    sync.Mutex
		pubCh channel
		now   func() time.Time
	}
)

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger,
		now: time.Now,
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "fileexchange",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	}

	conn, err := amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	if err = declare(ch, r.cfg); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	r.conn = conn
	r.pubCh = ch

	r.log.Info("rabbitmq connected successfully", zap.String("exchange", r.cfg.Exchange))

	return nil
}

// declare sets up the exchange and the event queue bound to every event key.
func declare(ch *amqp091.Channel, cfg config.MQ) error {
	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, rk := range RoutingKeys() {
		if err = ch.QueueBind(q.Name, rk, cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}
	return nil
}

// Publish sends one event and waits for the broker to accept it.
func (r *RabbitMQ) Publish(ctx context.Context, action string, actorID int64, payload any) error {
	e := Event{
		ID:      uuid.New(),
		TS:      r.now().UTC(),
		Action:  action,
		ActorID: actorID,
		Payload: payload,
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.ID.String(),
		Timestamp:    e.TS,
		Type:         e.Action,
		Body:         b,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pubCh.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		e.Action,
		false,
		false,
		pub,
	)
}

func (r *RabbitMQ) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}

// Nop drops every event; used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, int64, any) error { return nil }
func (Nop) Close() error                                      { return nil }
