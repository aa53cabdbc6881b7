package ledger

import (
	"context"
	"sort"

	"github.com/termvault/staking-ledger-service/internal/types"
)

// IndexedStake pairs a stake with its position in the owner's collection.
type IndexedStake struct {
	Position uint64
	Stake    Stake
}

// GlobalStake is one entry of a system-wide projection.
type GlobalStake struct {
	Owner    string
	Position uint64
	Stake    Stake
}

// PrincipalTotals splits an aggregate amount by asset kind.
type PrincipalTotals struct {
	Native uint64
	Token  uint64
}

// StakesByOwner returns the owner's full collection in creation order.
func (l *Ledger) StakesByOwner(owner string) []Stake {
	l.mu.RLock()
	defer l.mu.RUnlock()
	stakes := l.accounts[owner]
	out := make([]Stake, len(stakes))
	for i, s := range stakes {
		out[i] = *s
	}
	return out
}

// StakesByOwnerAndAsset returns the owner's stakes of one asset kind, paired
// with their positions. Two passes: count, then fill an exact-size result.
func (l *Ledger) StakesByOwnerAndAsset(owner string, asset types.AssetKind) []IndexedStake {
	l.mu.RLock()
	defer l.mu.RUnlock()
	stakes := l.accounts[owner]
	count := 0
	for _, s := range stakes {
		if s.Asset == asset {
			count++
		}
	}
	out := make([]IndexedStake, 0, count)
	for i, s := range stakes {
		if s.Asset == asset {
			out = append(out, IndexedStake{Position: uint64(i), Stake: *s})
		}
	}
	return out
}

// ActiveStakesByOwner returns the owner's open stakes paired with their
// positions.
func (l *Ledger) ActiveStakesByOwner(owner string) []IndexedStake {
	l.mu.RLock()
	defer l.mu.RUnlock()
	stakes := l.accounts[owner]
	count := 0
	for _, s := range stakes {
		if !s.Closed {
			count++
		}
	}
	out := make([]IndexedStake, 0, count)
	for i, s := range stakes {
		if !s.Closed {
			out = append(out, IndexedStake{Position: uint64(i), Stake: *s})
		}
	}
	return out
}

// ActiveStakes returns every open stake across all owners by filtering the
// global index, preserving creation order.
func (l *Ledger) ActiveStakes() []GlobalStake {
	l.mu.RLock()
	defer l.mu.RUnlock()
	count := 0
	for _, ref := range l.index {
		if !l.accounts[ref.Owner][ref.Position].Closed {
			count++
		}
	}
	out := make([]GlobalStake, 0, count)
	for _, ref := range l.index {
		s := l.accounts[ref.Owner][ref.Position]
		if !s.Closed {
			out = append(out, GlobalStake{Owner: ref.Owner, Position: ref.Position, Stake: *s})
		}
	}
	return out
}

// ActivePrincipal sums open-stake principal by asset kind.
func (l *Ledger) ActivePrincipal() PrincipalTotals {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var totals PrincipalTotals
	for _, ref := range l.index {
		s := l.accounts[ref.Owner][ref.Position]
		if s.Closed {
			continue
		}
		if s.Asset == types.AssetToken {
			totals.Token += s.Amount
		} else {
			totals.Native += s.Amount
		}
	}
	return totals
}

// CustodyBalances reports the collaborator's custody balance per asset kind.
func (l *Ledger) CustodyBalances(ctx context.Context) (PrincipalTotals, error) {
	native, err := l.custody.BalanceOf(ctx, types.AssetNative)
	if err != nil {
		return PrincipalTotals{}, &TransferError{Op: "balance-of", Asset: types.AssetNative, Err: err}
	}
	token, err := l.custody.BalanceOf(ctx, types.AssetToken)
	if err != nil {
		return PrincipalTotals{}, &TransferError{Op: "balance-of", Asset: types.AssetToken, Err: err}
	}
	return PrincipalTotals{Native: native, Token: token}, nil
}

// FeeTotals returns the un-swept fee accumulators.
func (l *Ledger) FeeTotals() FeeTotals {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fees
}

// Plans returns the plan registry contents ordered by term.
func (l *Ledger) Plans() []types.Plan {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]types.Plan, 0, len(l.plans))
	for _, p := range l.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TermMonths < out[j].TermMonths })
	return out
}

func (l *Ledger) FeePercent() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.feePercent
}

func (l *Ledger) Admin() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.admin
}

func (l *Ledger) TokenAddress() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tokenAddr
}

// IndexLen is the number of stakes ever created across all owners.
func (l *Ledger) IndexLen() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.index))
}
