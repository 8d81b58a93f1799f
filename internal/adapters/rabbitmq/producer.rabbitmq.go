// Package rabbitmq publishes draw lifecycle events. Event emission is lossy:
// a publish failure is logged and never fails the draw that produced it.
package rabbitmq

import (
	"context"
	"encoding/json"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/feastly/draw-engine/pkg/mmodel"
)

// ProducerRepository is the event publishing port.
type ProducerRepository interface {
	ProduceDrawCompleted(ctx context.Context, event *mmodel.DrawCompletedEvent) error
}

// RabbitMQConnection manages the AMQP connection and channel.
type RabbitMQConnection struct {
	ConnectionString string
	Exchange         string
	RoutingKey       string
	Logger           libLog.Logger

	conn    *amqp.Connection
	channel *amqp.Channel
}

func (rc *RabbitMQConnection) Connect() error {
	rc.Logger.Info("Connecting to rabbitmq...")

	conn, err := amqp.Dial(rc.ConnectionString)
	if err != nil {
		rc.Logger.Error("failed to connect to rabbitmq", err)

		return err
	}

	channel, err := conn.Channel()
	if err != nil {
		return err
	}

	err = channel.ExchangeDeclare(rc.Exchange, "topic", true, false, false, false, nil)
	if err != nil {
		return err
	}

	rc.conn = conn
	rc.channel = channel

	rc.Logger.Info("Connected to rabbitmq ✅ ")

	return nil
}

func (rc *RabbitMQConnection) GetChannel() (*amqp.Channel, error) {
	if rc.channel == nil || rc.channel.IsClosed() {
		if err := rc.Connect(); err != nil {
			return nil, err
		}
	}

	return rc.channel, nil
}

// ProducerRabbitMQRepository is the amqp implementation of ProducerRepository.
type ProducerRabbitMQRepository struct {
	conn *RabbitMQConnection
}

func NewProducerRabbitMQ(rc *RabbitMQConnection) *ProducerRabbitMQRepository {
	return &ProducerRabbitMQRepository{conn: rc}
}

// ProduceDrawCompleted publishes the event to the draw exchange. Consumers
// must tolerate gaps; the draw record is the durable source of truth.
func (r *ProducerRabbitMQRepository) ProduceDrawCompleted(ctx context.Context, event *mmodel.DrawCompletedEvent) error {
	tracer := libCommons.NewTracerFromContext(ctx)
	logger := libCommons.NewLoggerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "rabbitmq.produce_draw_completed")
	defer span.End()

	channel, err := r.conn.GetChannel()
	if err != nil {
		return err
	}

	publishing, err := newPublishing(event)
	if err != nil {
		return err
	}

	err = channel.PublishWithContext(ctx, r.conn.Exchange, r.conn.RoutingKey, false, false, publishing)
	if err != nil {
		logger.Warnf("draw completed event not published for draw %s: %v", event.DecisionID, err)

		return err
	}

	return nil
}

func newPublishing(event *mmodel.DrawCompletedEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, err
	}

	return amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	}, nil
}
