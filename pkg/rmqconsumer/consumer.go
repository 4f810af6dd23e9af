package rmqconsumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"file-exchange-api/config"
	"file-exchange-api/internal/infrastructure/mq"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	conn       *amqp091.Connection
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
	known      map[string]struct{}
}

func New(cfg config.MQ, logger *zap.Logger) *Consumer {
	known := make(map[string]struct{})
	for _, rk := range mq.RoutingKeys() {
		known[rk] = struct{}{}
	}

	return &Consumer{
		cfg:   cfg,
		log:   logger,
		known: known,
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

	c.conn = conn
	c.chConsume = ch
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
	for _, rk := range mq.RoutingKeys() {
		if err := c.chConsume.QueueBind(
			c.cfg.QueueName,
			rk,
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

	deliveries, err := c.chConsume.Consume(
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
	c.chDelivery = deliveries

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
				c.log.Warn("delivery channel closed by broker")
				return
			}
			if err := c.delivery(msg); err != nil {
				c.log.Error("mq read message error", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

// delivery logs one event and acks it. Bodies that are not events are
// rejected without requeue so they cannot loop.
func (c *Consumer) delivery(msg amqp091.Delivery) error {
	var e mq.Event
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		if nackErr := msg.Nack(false, false); nackErr != nil {
			return fmt.Errorf("nack: %w", nackErr)
		}
		return fmt.Errorf("decode event %q: %w", msg.MessageId, err)
	}

	fields := []zap.Field{
		zap.String("event_id", e.ID.String()),
		zap.String("event_action", e.Action),
		zap.Int64("actor_id", e.ActorID),
		zap.Time("time_stamp", e.TS),
		zap.ByteString("event_body", msg.Body),
	}
	if _, ok := c.known[msg.RoutingKey]; ok {
		c.log.Info("event received", fields...)
	} else {
		c.log.Warn("event with unknown routing key", append(fields, zap.String("routing_key", msg.RoutingKey))...)
	}

	return msg.Ack(false)
}

func (c *Consumer) Close() error {
	if c.chConsume != nil {
		_ = c.chConsume.Close()
	}
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
