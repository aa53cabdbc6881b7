package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/termvault/staking-ledger-service/internal/ledger"
	"github.com/termvault/staking-ledger-service/internal/observability/metrics"
	"github.com/termvault/staking-ledger-service/internal/queue/client"
	"github.com/termvault/staking-ledger-service/internal/types"
)

// StakePublic is the API projection of one stake.
type StakePublic struct {
	Position   uint64 `json:"position"`
	Amount     uint64 `json:"amount"`
	Asset      string `json:"asset"`
	TermMonths uint32 `json:"term_months"`
	OpenedAt   int64  `json:"opened_at"`
	Closed     bool   `json:"closed"`
	ClosedAt   int64  `json:"closed_at,omitempty"`
	Payout     uint64 `json:"payout,omitempty"`
}

func fromStake(position uint64, s ledger.Stake) StakePublic {
	return StakePublic{
		Position:   position,
		Amount:     s.Amount,
		Asset:      s.Asset.ToString(),
		TermMonths: s.TermMonths,
		OpenedAt:   s.OpenedAt,
		Closed:     s.Closed,
		ClosedAt:   s.ClosedAt,
		Payout:     s.Payout,
	}
}

// CreateStakePublic reports the outcome of a stake creation.
type CreateStakePublic struct {
	StakerAddress string `json:"staker_address"`
	Position      uint64 `json:"position"`
	Asset         string `json:"asset"`
	Amount        uint64 `json:"amount"`
	TermMonths    uint32 `json:"term_months"`
}

// CreateStake appends a new stake to the ledger, pulling token principal in
// through the custody collaborator first.
func (s *Services) CreateStake(
	ctx context.Context, stakerAddress string, amount uint64, asset types.AssetKind, termMonths uint32,
) (*CreateStakePublic, *types.Error) {
	position, err := s.Ledger.CreateStake(ctx, stakerAddress, amount, asset, termMonths)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("staker_address", stakerAddress).
			Msg("stake creation rejected")
		return nil, toServiceError(err)
	}

	metrics.RecordStakeCreated(asset.ToString())
	s.publishStakeCreated(ctx, client.NewStakeCreatedEvent(
		stakerAddress, asset.ToString(), amount, termMonths, position,
	))

	return &CreateStakePublic{
		StakerAddress: stakerAddress,
		Position:      position,
		Asset:         asset.ToString(),
		Amount:        amount,
		TermMonths:    termMonths,
	}, nil
}

// WithdrawPublic reports the committed accounting split of a withdrawal.
type WithdrawPublic struct {
	StakerAddress string `json:"staker_address"`
	Position      uint64 `json:"position"`
	Asset         string `json:"asset"`
	Amount        uint64 `json:"amount"`
	Reward        uint64 `json:"reward"`
	Fee           uint64 `json:"fee"`
	Payout        uint64 `json:"payout"`
	Matured       bool   `json:"matured"`
	ClosedAt      int64  `json:"closed_at"`
}

// WithdrawStake closes the stake and pays out principal plus reward (matured)
// or principal minus fee (early).
func (s *Services) WithdrawStake(
	ctx context.Context, stakerAddress string, position uint64,
) (*WithdrawPublic, *types.Error) {
	receipt, err := s.Ledger.Withdraw(ctx, stakerAddress, position)
	if err != nil {
		if ledger.IsTransferError(err) {
			// The record is already closed with its payout journaled; only
			// the delivery failed. Known design tension, surfaced loudly.
			log.Ctx(ctx).Error().Err(err).
				Str("staker_address", stakerAddress).
				Uint64("position", position).
				Msg("stake closed but payout transfer failed")
		}
		return nil, toServiceError(err)
	}

	metrics.RecordStakeClosed(receipt.Asset.ToString(), receipt.Matured)
	fees := s.Ledger.FeeTotals()
	metrics.RecordFeeAccumulators(fees.Native, fees.Token)
	s.publishStakeClosed(ctx, client.NewStakeClosedEvent(
		stakerAddress, receipt.Asset.ToString(), position,
		receipt.Payout, receipt.Reward, receipt.Fee, !receipt.Matured,
	))

	return &WithdrawPublic{
		StakerAddress: stakerAddress,
		Position:      receipt.Position,
		Asset:         receipt.Asset.ToString(),
		Amount:        receipt.Amount,
		Reward:        receipt.Reward,
		Fee:           receipt.Fee,
		Payout:        receipt.Payout,
		Matured:       receipt.Matured,
		ClosedAt:      receipt.ClosedAt,
	}, nil
}
