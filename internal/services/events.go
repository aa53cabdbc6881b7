package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/termvault/staking-ledger-service/internal/observability/metrics"
	"github.com/termvault/staking-ledger-service/internal/queue/client"
)

// EventPublisher pushes stake notifications to downstream consumers.
// *queue.Queues satisfies it; tests inject a fake.
type EventPublisher interface {
	SendStakeCreatedEvent(ctx context.Context, event client.StakeCreatedEvent) error
	SendStakeClosedEvent(ctx context.Context, event client.StakeClosedEvent) error
}

// Event publishing is observability, not ledger state: by the time an event
// is emitted the mutation is already committed, so a publish failure is
// logged and counted but never fails the operation.
func (s *Services) publishStakeCreated(ctx context.Context, event client.StakeCreatedEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.SendStakeCreatedEvent(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("staker_address", event.StakerAddress).
			Uint64("position", event.Position).
			Msg("failed to publish stake created event")
		metrics.RecordEventPublish(client.StakeCreatedQueueName, metrics.Error)
		return
	}
	metrics.RecordEventPublish(client.StakeCreatedQueueName, metrics.Success)
}

func (s *Services) publishStakeClosed(ctx context.Context, event client.StakeClosedEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.SendStakeClosedEvent(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("staker_address", event.StakerAddress).
			Uint64("position", event.Position).
			Msg("failed to publish stake closed event")
		metrics.RecordEventPublish(client.StakeClosedQueueName, metrics.Error)
		return
	}
	metrics.RecordEventPublish(client.StakeClosedQueueName, metrics.Success)
}
