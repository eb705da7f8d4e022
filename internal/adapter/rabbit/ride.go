package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
	"github.com/shubinsengi1/ubertest/pkg/metrics"
	"github.com/shubinsengi1/ubertest/pkg/rabbit"
)

const (
	ExchangeRideTopic = "ride_topic"

	QueueRideRequests = "ride_requests"
	QueueRideStatus   = "ride_status"

	keyRideRequested = "ride.requested"
	keyRideStatus    = "ride.status"
)

// RideBroker publishes and consumes ride traffic on the ride_topic
// exchange. New ride requests fan out to every connected driver;
// status updates let other services follow a ride without polling.
type RideBroker struct {
	client *rabbit.RabbitMQ
	l      logger.Logger
}

func NewRideBroker(client *rabbit.RabbitMQ, l logger.Logger) (*RideBroker, error) {
	b := &RideBroker{
		client: client,
		l:      l,
	}
	if err := b.declareExchange(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *RideBroker) declareExchange() error {
	return b.client.Channel.ExchangeDeclare(
		ExchangeRideTopic,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
}

func (b *RideBroker) PublishRideRequested(ctx context.Context, msg models.RideRequestedMessage) error {
	return b.publish(ctx, keyRideRequested, msg)
}

func (b *RideBroker) PublishRideStatus(ctx context.Context, msg models.RideStatusMessage) error {
	return b.publish(ctx, fmt.Sprintf("%s.%s", keyRideStatus, msg.Status), msg)
}

func (b *RideBroker) publish(ctx context.Context, key string, msg any) error {
	if err := b.client.EnsureConnection(ctx); err != nil {
		metrics.RecordRabbitMQPublish(ExchangeRideTopic, err)
		return wrap.Error(ctx, fmt.Errorf("rabbit not available: %w", err))
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	err = b.client.Channel.PublishWithContext(
		ctx,
		ExchangeRideTopic,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	metrics.RecordRabbitMQPublish(ExchangeRideTopic, err)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish message: %w", err))
	}
	return nil
}

// ConsumeRideRequests delivers every new ride announcement to the
// handler. Used by the websocket layer to push open requests to
// available drivers.
func (b *RideBroker) ConsumeRideRequests(ctx context.Context, handler func(context.Context, models.RideRequestedMessage)) error {
	q, err := b.client.Channel.QueueDeclare(
		QueueRideRequests,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to declare queue: %w", err))
	}

	if err := b.client.Channel.QueueBind(q.Name, keyRideRequested, ExchangeRideTopic, false, nil); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to bind queue: %w", err))
	}

	msgs, err := b.client.Channel.Consume(
		q.Name,
		"",
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to register consumer: %w", err))
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}
				var msg models.RideRequestedMessage
				if err := json.Unmarshal(d.Body, &msg); err != nil {
					b.l.Warn(ctx, "dropping malformed ride request message", "error", err.Error())
					continue
				}
				handler(ctx, msg)
			}
		}
	}()

	return nil
}
