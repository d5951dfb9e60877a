package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"docuchat/internal/model"
)

// ExtractJobPublisher enqueues document extraction jobs after upload, so the
// upload request never blocks on parsing.
type ExtractJobPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewExtractJobPublisher(conn *amqp.Connection, queueName string) *ExtractJobPublisher {
	return &ExtractJobPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ExtractJobPublisher) Publish(ctx context.Context, job model.ExtractJob) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal extract job failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish extract job failed: %w", err)
	}
	return nil
}
