package client

import "context"

// QueueClient is a common interface for queue publishers regardless of the
// underlying broker.
type QueueClient interface {
	SendMessage(ctx context.Context, messageBody string) error
	GetQueueName() string
	Ping() error
	Stop() error
}

func NewQueueClient(queueURL, user, password, queueName string) (QueueClient, error) {
	return NewRabbitMqClient(queueURL, user, password, queueName)
}
