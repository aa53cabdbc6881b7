package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/termvault/staking-ledger-service/internal/config"
	"github.com/termvault/staking-ledger-service/internal/queue/client"
)

// Queues owns one publisher per notification kind.
type Queues struct {
	StakeCreatedQueueClient client.QueueClient
	StakeClosedQueueClient  client.QueueClient
}

func New(cfg *config.QueueConfig) *Queues {
	stakeCreatedQueueClient, err := client.NewQueueClient(
		cfg.Url, cfg.QueueUser, cfg.QueuePassword, client.StakeCreatedQueueName,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating StakeCreatedQueueClient")
	}

	stakeClosedQueueClient, err := client.NewQueueClient(
		cfg.Url, cfg.QueueUser, cfg.QueuePassword, client.StakeClosedQueueName,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating StakeClosedQueueClient")
	}

	return &Queues{
		StakeCreatedQueueClient: stakeCreatedQueueClient,
		StakeClosedQueueClient:  stakeClosedQueueClient,
	}
}

func (q *Queues) SendStakeCreatedEvent(ctx context.Context, event client.StakeCreatedEvent) error {
	return sendEvent(ctx, q.StakeCreatedQueueClient, event)
}

func (q *Queues) SendStakeClosedEvent(ctx context.Context, event client.StakeClosedEvent) error {
	return sendEvent(ctx, q.StakeClosedQueueClient, event)
}

func sendEvent[E any](ctx context.Context, queueClient client.QueueClient, event E) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for %s: %w", queueClient.GetQueueName(), err)
	}
	return queueClient.SendMessage(ctx, string(body))
}

// IsConnectionHealthy pings every queue connection, returning the first
// failure.
func (q *Queues) IsConnectionHealthy() error {
	if err := q.StakeCreatedQueueClient.Ping(); err != nil {
		return err
	}
	if err := q.StakeClosedQueueClient.Ping(); err != nil {
		return err
	}
	return nil
}

// Stop closes all queue connections.
func (q *Queues) Stop() {
	if err := q.StakeCreatedQueueClient.Stop(); err != nil {
		log.Error().Err(err).Msg("error while stopping StakeCreatedQueueClient")
	}
	if err := q.StakeClosedQueueClient.Stop(); err != nil {
		log.Error().Err(err).Msg("error while stopping StakeClosedQueueClient")
	}
}
