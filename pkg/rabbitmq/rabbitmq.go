package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"kedai/internal/models"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// OrderEventsQueue is the durable queue order events are published to.
const OrderEventsQueue = "order_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
	mu      sync.Mutex // serializes publishes on the shared channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the order events queue.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareOrderEvents(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("RabbitMQ client connected", zap.String("queue", OrderEventsQueue))

	return &Client{
		conn:    conn,
		channel: ch,
		logger:  logger,
	}, nil
}

func declareOrderEvents(ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		OrderEventsQueue, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare %s: %w", OrderEventsQueue, err)
	}
	return q, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishOrderEvent publishes event as a persistent JSON message.
func (c *Client) PublishOrderEvent(event models.OrderEvent) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",               // default exchange
		OrderEventsQueue, // routing key
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(event.Type),
			MessageId:    event.EventID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	c.logger.Debug("Order event published",
		zap.String("type", string(event.Type)),
		zap.String("orderId", event.OrderID))
	return nil
}

// ConsumeOrderEvents delivers every message on the order events queue to
// handler in a background goroutine. It returns once the consumer is registered.
func (c *Client) ConsumeOrderEvents(handler func(event models.OrderEvent) error) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	queue, err := declareOrderEvents(c.channel)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Waiting for order events", zap.String("queue", queue.Name))

	go func() {
		for msg := range msgs {
			HandleDelivery(msg, handler, c.logger)
		}
		c.logger.Info("Order event consumer stopped")
	}()
	return nil
}

// HandleDelivery decodes one message and acknowledges it according to the outcome.
// Undecodable messages are rejected; a failed handler gets one redelivery.
func HandleDelivery(msg amqp.Delivery, handler func(event models.OrderEvent) error, logger *zap.Logger) {
	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.Warn("Dropping unreadable order event",
			zap.Uint64("deliveryTag", msg.DeliveryTag),
			zap.Error(err))
		if rejectErr := msg.Reject(false); rejectErr != nil {
			logger.Error("Failed to reject message", zap.Uint64("deliveryTag", msg.DeliveryTag), zap.Error(rejectErr))
		}
		return
	}

	if err := handler(event); err != nil {
		logger.Warn("Order event handler failed",
			zap.String("eventId", event.EventID),
			zap.Bool("requeue", !msg.Redelivered),
			zap.Error(err))
		if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
			logger.Error("Failed to nack message", zap.Uint64("deliveryTag", msg.DeliveryTag), zap.Error(nackErr))
		}
		return
	}

	if ackErr := msg.Ack(false); ackErr != nil {
		logger.Error("Failed to ack message", zap.Uint64("deliveryTag", msg.DeliveryTag), zap.Error(ackErr))
	}
}

// NewOrderEventLogger returns a handler that records each consumed event.
func NewOrderEventLogger(logger *zap.Logger) func(event models.OrderEvent) error {
	return func(event models.OrderEvent) error {
		logger.Info("Order event received",
			zap.String("eventId", event.EventID),
			zap.String("type", string(event.Type)),
			zap.String("orderId", event.OrderID),
			zap.String("status", string(event.Status)),
			zap.Time("timestamp", event.Timestamp))
		return nil
	}
}
