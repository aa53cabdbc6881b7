package services

import (
	"context"

	"github.com/termvault/staking-ledger-service/internal/ledger"
	"github.com/termvault/staking-ledger-service/internal/observability/tracing"
	"github.com/termvault/staking-ledger-service/internal/types"
)

// StakerStakes returns one owner's stakes, optionally filtered by asset kind
// and/or restricted to open stakes. Results preserve creation order.
func (s *Services) StakerStakes(
	ctx context.Context, stakerAddress string, asset *types.AssetKind, activeOnly bool,
) ([]StakePublic, *types.Error) {
	var out []StakePublic
	switch {
	case asset != nil:
		indexed := s.Ledger.StakesByOwnerAndAsset(stakerAddress, *asset)
		out = make([]StakePublic, 0, len(indexed))
		for _, is := range indexed {
			if activeOnly && is.Stake.Closed {
				continue
			}
			out = append(out, fromStake(is.Position, is.Stake))
		}
	case activeOnly:
		indexed := s.Ledger.ActiveStakesByOwner(stakerAddress)
		out = make([]StakePublic, 0, len(indexed))
		for _, is := range indexed {
			out = append(out, fromStake(is.Position, is.Stake))
		}
	default:
		stakes := s.Ledger.StakesByOwner(stakerAddress)
		out = make([]StakePublic, 0, len(stakes))
		for i, st := range stakes {
			out = append(out, fromStake(uint64(i), st))
		}
	}
	return out, nil
}

// GlobalStakePublic is one entry of the system-wide active-stake projection.
type GlobalStakePublic struct {
	StakerAddress string `json:"staker_address"`
	StakePublic
}

// ActiveStakes returns every open stake across all owners in creation order.
func (s *Services) ActiveStakes(ctx context.Context) ([]GlobalStakePublic, *types.Error) {
	global := s.Ledger.ActiveStakes()
	out := make([]GlobalStakePublic, 0, len(global))
	for _, gs := range global {
		out = append(out, GlobalStakePublic{
			StakerAddress: gs.Owner,
			StakePublic:   fromStake(gs.Position, gs.Stake),
		})
	}
	return out, nil
}

// StatsPublic aggregates the ledger's totals with the collaborator's custody
// balances.
type StatsPublic struct {
	ActiveNativePrincipal uint64 `json:"active_native_principal"`
	ActiveTokenPrincipal  uint64 `json:"active_token_principal"`
	CustodyNativeBalance  uint64 `json:"custody_native_balance"`
	CustodyTokenBalance   uint64 `json:"custody_token_balance"`
	UnsweptNativeFees     uint64 `json:"unswept_native_fees"`
	UnsweptTokenFees      uint64 `json:"unswept_token_fees"`
}

func (s *Services) GetStats(ctx context.Context) (*StatsPublic, *types.Error) {
	principal := s.Ledger.ActivePrincipal()
	fees := s.Ledger.FeeTotals()
	balances, err := tracing.WrapWithSpan(ctx, "custodyBalances", func() (ledger.PrincipalTotals, error) {
		return s.Ledger.CustodyBalances(ctx)
	})
	if err != nil {
		return nil, toServiceError(err)
	}
	return &StatsPublic{
		ActiveNativePrincipal: principal.Native,
		ActiveTokenPrincipal:  principal.Token,
		CustodyNativeBalance:  balances.Native,
		CustodyTokenBalance:   balances.Token,
		UnsweptNativeFees:     fees.Native,
		UnsweptTokenFees:      fees.Token,
	}, nil
}

// PlansPublic lists the plan registry and the current global fee percent.
type PlansPublic struct {
	Plans      []types.Plan `json:"plans"`
	FeePercent uint64       `json:"fee_percent"`
}

func (s *Services) GetPlans(ctx context.Context) (*PlansPublic, *types.Error) {
	return &PlansPublic{
		Plans:      s.Ledger.Plans(),
		FeePercent: s.Ledger.FeePercent(),
	}, nil
}
