package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/termvault/staking-ledger-service/internal/observability/metrics"
	"github.com/termvault/staking-ledger-service/internal/types"
)

// SweepPublic reports the amounts moved to the administrator by a fee sweep.
type SweepPublic struct {
	NativeFees uint64 `json:"native_fees"`
	TokenFees  uint64 `json:"token_fees"`
}

func (s *Services) SweepFees(ctx context.Context, caller string) (*SweepPublic, *types.Error) {
	receipt, err := s.Ledger.SweepFees(ctx, caller)
	if err != nil {
		return nil, toServiceError(err)
	}
	metrics.RecordFeeAccumulators(0, 0)
	log.Ctx(ctx).Info().
		Uint64("native_fees", receipt.Native).
		Uint64("token_fees", receipt.Token).
		Msg("fee accumulators swept to administrator")
	return &SweepPublic{NativeFees: receipt.Native, TokenFees: receipt.Token}, nil
}

// EmergencyPublic reports the effect of the circuit breaker.
type EmergencyPublic struct {
	ClosedStakes  int    `json:"closed_stakes"`
	DrainedNative uint64 `json:"drained_native"`
	DrainedToken  uint64 `json:"drained_token"`
	ClosedAt      int64  `json:"closed_at"`
}

func (s *Services) EmergencyWithdrawAll(ctx context.Context, caller string) (*EmergencyPublic, *types.Error) {
	receipt, err := s.Ledger.EmergencyWithdrawAll(ctx, caller)
	if err != nil {
		return nil, toServiceError(err)
	}
	metrics.RecordFeeAccumulators(0, 0)
	log.Ctx(ctx).Warn().
		Int("closed_stakes", receipt.ClosedStakes).
		Uint64("drained_native", receipt.Drained.Native).
		Uint64("drained_token", receipt.Drained.Token).
		Msg("emergency withdrawal executed")
	return &EmergencyPublic{
		ClosedStakes:  receipt.ClosedStakes,
		DrainedNative: receipt.Drained.Native,
		DrainedToken:  receipt.Drained.Token,
		ClosedAt:      receipt.ClosedAt,
	}, nil
}

func (s *Services) TransferAdministrator(ctx context.Context, caller, newAdmin string) *types.Error {
	if err := s.Ledger.TransferAdministrator(ctx, caller, newAdmin); err != nil {
		return toServiceError(err)
	}
	log.Ctx(ctx).Info().Str("new_admin", newAdmin).Msg("administrator transferred")
	return nil
}

func (s *Services) SetTokenCollaborator(ctx context.Context, caller, address string) *types.Error {
	if err := s.Ledger.SetTokenCollaborator(ctx, caller, address); err != nil {
		return toServiceError(err)
	}
	log.Ctx(ctx).Info().Str("token_address", address).Msg("token collaborator reconfigured")
	return nil
}

func (s *Services) SetFeePercent(ctx context.Context, caller string, percent uint64) *types.Error {
	if err := s.Ledger.SetFeePercent(ctx, caller, percent); err != nil {
		return toServiceError(err)
	}
	log.Ctx(ctx).Info().Uint64("fee_percent", percent).Msg("fee percent updated")
	return nil
}

func (s *Services) SetPlan(ctx context.Context, caller string, plan types.Plan) *types.Error {
	if err := s.Ledger.SetPlan(ctx, caller, plan); err != nil {
		return toServiceError(err)
	}
	log.Ctx(ctx).Info().
		Uint32("term_months", plan.TermMonths).
		Int64("duration_seconds", plan.DurationSeconds).
		Uint64("reward_percent", plan.RewardPercent).
		Msg("plan registry updated")
	return nil
}
