package rabbitmq

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rabbitmq/amqp091-go"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

var _ Publisher = &QueuePublisher{}

//counterfeiter:generate . Publisher
type Publisher interface {
	Publish(msg amqp091.Publishing) error
}

func NewQueuePublisher(conn *amqp091.Connection, queueName string) (*QueuePublisher, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create rabbit channel")
	}

	_, err = channel.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)

	if err != nil {
		return nil, errors.Wrap(err, "Failed to declare the queue")
	}

	return &QueuePublisher{
		channel:   channel,
		queueName: queueName,
	}, nil
}

type QueuePublisher struct {
	channel     *amqp091.Channel
	channelLock sync.Mutex
	queueName   string
}

func (q *QueuePublisher) Publish(msg amqp091.Publishing) error {
	msg.ContentType = "application/json"
	msg.DeliveryMode = amqp091.Persistent

	q.channelLock.Lock()
	defer q.channelLock.Unlock()

	err := q.channel.PublishWithContext(
		context.Background(),
		"",
		q.queueName,
		true,
		false,
		msg,
	)

	if err != nil {
		return errors.Wrap(err, "Failed to publish message to rabbitMQ channel")
	}

	return nil
}
