package ledger

import (
	"math"

	"github.com/termvault/staking-ledger-service/internal/types"
)

// resolution is the outcome of the accounting engine for one stake at
// withdrawal time.
type resolution struct {
	Reward  uint64
	Gross   uint64
	Fee     uint64
	Payout  uint64
	Matured bool
}

// resolve computes maturity, reward, fee and net payout for an open stake.
// The reward is all-or-nothing at the term boundary, computed on principal
// only. The fee is charged on the gross amount so it scales with earned
// rewards. All arithmetic is checked; a misconfigured fee fails with
// ErrFeeExceedsGross rather than underflowing.
func resolve(stake Stake, now int64, plan types.Plan, feePercent uint64) (resolution, error) {
	matured := now >= stake.OpenedAt+plan.DurationSeconds

	var reward uint64
	if matured {
		var err error
		reward, err = percentOf(stake.Amount, plan.RewardPercent)
		if err != nil {
			return resolution{}, err
		}
	}

	gross, err := addChecked(stake.Amount, reward)
	if err != nil {
		return resolution{}, err
	}

	fee, err := percentOf(gross, feePercent)
	if err != nil {
		return resolution{}, err
	}
	if fee > gross {
		return resolution{}, ErrFeeExceedsGross
	}

	return resolution{
		Reward:  reward,
		Gross:   gross,
		Fee:     fee,
		Payout:  gross - fee,
		Matured: matured,
	}, nil
}

// percentOf returns floor(amount * percent / 100) with overflow detection on
// the intermediate product.
func percentOf(amount, percent uint64) (uint64, error) {
	if amount == 0 || percent == 0 {
		return 0, nil
	}
	if amount > math.MaxUint64/percent {
		return 0, ErrArithmeticOverflow
	}
	return amount * percent / 100, nil
}

func addChecked(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}
