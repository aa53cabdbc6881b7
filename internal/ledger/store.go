package ledger

import (
	"context"

	"github.com/termvault/staking-ledger-service/internal/types"
)

// CreateStake validates the request, pulls token principal in through the
// custody collaborator, journals the new record and appends it to the owner's
// collection and the global index. It returns the stake's position, which is
// stable for the lifetime of the ledger and is the sole external identifier
// for the stake.
func (l *Ledger) CreateStake(
	ctx context.Context, owner string, amount uint64, asset types.AssetKind, termMonths uint32,
) (uint64, error) {
	if err := l.guard.enter(); err != nil {
		return 0, err
	}
	defer l.guard.release()

	if owner == "" {
		return 0, ErrZeroAddress
	}
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	if !asset.Valid() {
		return 0, ErrInvalidAsset
	}
	l.mu.RLock()
	_, planKnown := l.plans[termMonths]
	position := uint64(len(l.accounts[owner]))
	seq := uint64(len(l.index))
	l.mu.RUnlock()
	if !planKnown {
		return 0, ErrInvalidPlan
	}

	// Token principal moves in before any record is written. Native value
	// arrives attached to the creation call itself, so there is nothing to
	// pull.
	if asset == types.AssetToken {
		if err := l.custody.TransferIn(ctx, asset, owner, amount); err != nil {
			return 0, &TransferError{Op: "transfer-in", Asset: asset, Err: err}
		}
	}

	stake := Stake{
		Amount:     amount,
		Asset:      asset,
		OpenedAt:   l.now().Unix(),
		TermMonths: termMonths,
	}
	if err := l.journalStakeOpened(ctx, seq, owner, position, stake); err != nil {
		return 0, err
	}

	l.mu.Lock()
	l.accounts[owner] = append(l.accounts[owner], &stake)
	l.index = append(l.index, Ref{Owner: owner, Position: position})
	l.mu.Unlock()

	return position, nil
}

// GetStake returns a copy of the stake at the given position in the owner's
// collection.
func (l *Ledger) GetStake(owner string, position uint64) (Stake, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	stakes := l.accounts[owner]
	if position >= uint64(len(stakes)) {
		return Stake{}, ErrIndexOutOfRange
	}
	return *stakes[position], nil
}

// WithdrawReceipt reports the committed outcome of a withdrawal.
type WithdrawReceipt struct {
	Owner    string
	Position uint64
	Asset    types.AssetKind
	Amount   uint64
	Reward   uint64
	Fee      uint64
	Payout   uint64
	Matured  bool
	ClosedAt int64
}

// Withdraw resolves the stake's payout, closes the record, accrues the fee
// and only then moves funds out through the custody collaborator. The ledger
// commit deliberately precedes the transfer: if the transfer then fails, the
// stake stays closed with its recorded payout undelivered and the failure is
// surfaced as a TransferError. There is no compensating path.
func (l *Ledger) Withdraw(ctx context.Context, owner string, position uint64) (*WithdrawReceipt, error) {
	if err := l.guard.enter(); err != nil {
		return nil, err
	}
	defer l.guard.release()

	l.mu.RLock()
	stakes := l.accounts[owner]
	if position >= uint64(len(stakes)) {
		l.mu.RUnlock()
		return nil, ErrIndexOutOfRange
	}
	stake := *stakes[position]
	plan, planKnown := l.plans[stake.TermMonths]
	feePercent := l.feePercent
	fees := l.fees
	l.mu.RUnlock()

	if stake.Closed {
		return nil, ErrAlreadyClosed
	}
	if !planKnown {
		return nil, ErrInvalidPlan
	}

	now := l.now().Unix()
	res, err := resolve(stake, now, plan, feePercent)
	if err != nil {
		return nil, err
	}

	// The payout must be coverable before anything is committed.
	balance, err := l.custody.BalanceOf(ctx, stake.Asset)
	if err != nil {
		return nil, &TransferError{Op: "balance-of", Asset: stake.Asset, Err: err}
	}
	if balance < res.Payout {
		return nil, ErrInsufficientCustody
	}

	closed := stake
	closed.Closed = true
	closed.ClosedAt = now
	closed.Payout = res.Payout
	newFees := fees
	if stake.Asset == types.AssetToken {
		newFees.Token += res.Fee
	} else {
		newFees.Native += res.Fee
	}
	if err := l.journalStakeClosed(ctx, owner, position, closed, newFees); err != nil {
		return nil, err
	}

	l.mu.Lock()
	s := l.accounts[owner][position]
	s.Closed = true
	s.ClosedAt = now
	s.Payout = res.Payout
	l.fees = newFees
	l.mu.Unlock()

	if err := l.custody.TransferOut(ctx, stake.Asset, owner, res.Payout); err != nil {
		return nil, &TransferError{Op: "transfer-out", Asset: stake.Asset, Err: err}
	}

	return &WithdrawReceipt{
		Owner:    owner,
		Position: position,
		Asset:    stake.Asset,
		Amount:   stake.Amount,
		Reward:   res.Reward,
		Fee:      res.Fee,
		Payout:   res.Payout,
		Matured:  res.Matured,
		ClosedAt: now,
	}, nil
}
