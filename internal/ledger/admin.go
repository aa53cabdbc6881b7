package ledger

import (
	"context"

	"github.com/termvault/staking-ledger-service/internal/types"
)

// SweepReceipt reports the amounts moved to the administrator by a fee sweep.
type SweepReceipt struct {
	Native uint64
	Token  uint64
}

// SweepFees resets both fee accumulators and transfers each nonzero amount to
// the administrator. The reset is journaled and committed before any transfer
// leaves, mirroring the commit-before-transfer order of Withdraw.
func (l *Ledger) SweepFees(ctx context.Context, caller string) (*SweepReceipt, error) {
	if err := l.guard.enter(); err != nil {
		return nil, err
	}
	defer l.guard.release()

	if err := l.requireAdmin(caller); err != nil {
		return nil, err
	}

	l.mu.RLock()
	fees := l.fees
	admin := l.admin
	l.mu.RUnlock()
	if fees.Zero() {
		return nil, ErrNoFeesAvailable
	}

	if l.journal != nil {
		if err := l.journal.FeesSwept(ctx); err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	l.fees = FeeTotals{}
	l.mu.Unlock()

	for _, asset := range types.AssetKinds() {
		amount := fees.Of(asset)
		if amount == 0 {
			continue
		}
		if err := l.custody.TransferOut(ctx, asset, admin, amount); err != nil {
			return nil, &TransferError{Op: "transfer-out", Asset: asset, Err: err}
		}
	}

	return &SweepReceipt{Native: fees.Native, Token: fees.Token}, nil
}

// EmergencyReceipt reports the effect of an emergency stop.
type EmergencyReceipt struct {
	ClosedStakes int
	Drained      PrincipalTotals
	ClosedAt     int64
}

// EmergencyWithdrawAll is the circuit breaker: every open stake is closed
// with payout 0, both fee accumulators are zeroed and the entire custody
// balance of both assets is moved to the administrator. No entitlement is
// paid to stakers.
func (l *Ledger) EmergencyWithdrawAll(ctx context.Context, caller string) (*EmergencyReceipt, error) {
	if err := l.guard.enter(); err != nil {
		return nil, err
	}
	defer l.guard.release()

	if err := l.requireAdmin(caller); err != nil {
		return nil, err
	}

	now := l.now().Unix()
	if l.journal != nil {
		if err := l.journal.EmergencyStopped(ctx, now); err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	admin := l.admin
	closedCount := 0
	for _, ref := range l.index {
		s := l.accounts[ref.Owner][ref.Position]
		if s.Closed {
			continue
		}
		s.Closed = true
		s.ClosedAt = now
		s.Payout = 0
		closedCount++
	}
	l.fees = FeeTotals{}
	l.mu.Unlock()

	var drained PrincipalTotals
	for _, asset := range types.AssetKinds() {
		balance, err := l.custody.BalanceOf(ctx, asset)
		if err != nil {
			return nil, &TransferError{Op: "balance-of", Asset: asset, Err: err}
		}
		if balance == 0 {
			continue
		}
		if err := l.custody.TransferOut(ctx, asset, admin, balance); err != nil {
			return nil, &TransferError{Op: "transfer-out", Asset: asset, Err: err}
		}
		if asset == types.AssetToken {
			drained.Token = balance
		} else {
			drained.Native = balance
		}
	}

	return &EmergencyReceipt{ClosedStakes: closedCount, Drained: drained, ClosedAt: now}, nil
}

// TransferAdministrator hands the privileged role to a new identity.
func (l *Ledger) TransferAdministrator(ctx context.Context, caller, newAdmin string) error {
	return l.updateSettings(ctx, caller, func(s *Settings) error {
		if newAdmin == "" {
			return ErrZeroAddress
		}
		s.Admin = newAdmin
		return nil
	})
}

// SetTokenCollaborator reconfigures the fungible-token collaborator address.
func (l *Ledger) SetTokenCollaborator(ctx context.Context, caller, address string) error {
	return l.updateSettings(ctx, caller, func(s *Settings) error {
		if address == "" {
			return ErrZeroAddress
		}
		s.TokenAddress = address
		return nil
	})
}

// SetFeePercent updates the global fee percentage applied to gross payouts.
func (l *Ledger) SetFeePercent(ctx context.Context, caller string, percent uint64) error {
	return l.updateSettings(ctx, caller, func(s *Settings) error {
		if percent > types.MaxPercent {
			return ErrInvalidPercent
		}
		s.FeePercent = percent
		return nil
	})
}

func (l *Ledger) updateSettings(ctx context.Context, caller string, apply func(*Settings) error) error {
	if err := l.guard.enter(); err != nil {
		return err
	}
	defer l.guard.release()

	if err := l.requireAdmin(caller); err != nil {
		return err
	}

	l.mu.RLock()
	settings := Settings{Admin: l.admin, TokenAddress: l.tokenAddr, FeePercent: l.feePercent}
	l.mu.RUnlock()
	if err := apply(&settings); err != nil {
		return err
	}
	if l.journal != nil {
		if err := l.journal.SettingsChanged(ctx, settings); err != nil {
			return err
		}
	}

	l.mu.Lock()
	l.admin = settings.Admin
	l.tokenAddr = settings.TokenAddress
	l.feePercent = settings.FeePercent
	l.mu.Unlock()
	return nil
}

// SetPlan adds or replaces one plan registry entry.
func (l *Ledger) SetPlan(ctx context.Context, caller string, plan types.Plan) error {
	if err := l.guard.enter(); err != nil {
		return err
	}
	defer l.guard.release()

	if err := l.requireAdmin(caller); err != nil {
		return err
	}
	if err := validatePlan(plan); err != nil {
		return err
	}
	if l.journal != nil {
		if err := l.journal.PlanChanged(ctx, plan); err != nil {
			return err
		}
	}

	l.mu.Lock()
	l.plans[plan.TermMonths] = plan
	l.mu.Unlock()
	return nil
}
