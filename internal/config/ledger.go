package config

import (
	"fmt"

	"github.com/termvault/staking-ledger-service/internal/types"
	"github.com/termvault/staking-ledger-service/internal/utils"
)

// LedgerConfig seeds the ledger on first boot: the administrator identity,
// the token collaborator address, the global fee percentage and the plan
// registry. Once a persisted ledger exists, journaled settings take
// precedence over these values.
type LedgerConfig struct {
	AdminAddress string       `mapstructure:"admin-address"`
	TokenAddress string       `mapstructure:"token-address"`
	FeePercent   uint64       `mapstructure:"fee-percent"`
	Plans        []PlanConfig `mapstructure:"plans"`
}

type PlanConfig struct {
	TermMonths      uint32 `mapstructure:"term-months"`
	DurationSeconds int64  `mapstructure:"duration-seconds"`
	RewardPercent   uint64 `mapstructure:"reward-percent"`
}

func (cfg *LedgerConfig) Validate() error {
	if cfg.AdminAddress == "" {
		return fmt.Errorf("missing ledger admin address")
	}

	if cfg.FeePercent > types.MaxPercent {
		return fmt.Errorf("ledger fee percent must not exceed %d", types.MaxPercent)
	}

	if len(cfg.Plans) == 0 {
		return fmt.Errorf("ledger plan registry must not be empty")
	}

	var seen []uint32
	for _, p := range cfg.Plans {
		if p.TermMonths == 0 {
			return fmt.Errorf("plan term months must be a positive integer")
		}
		if utils.Contains(seen, p.TermMonths) {
			return fmt.Errorf("duplicate plan for term %d", p.TermMonths)
		}
		seen = append(seen, p.TermMonths)

		if p.DurationSeconds <= 0 {
			return fmt.Errorf("plan for term %d must have a positive duration", p.TermMonths)
		}
		if p.RewardPercent > types.MaxPercent {
			return fmt.Errorf("plan for term %d reward percent must not exceed %d", p.TermMonths, types.MaxPercent)
		}
	}

	return nil
}

// PlanRegistry converts the configured plans into registry entries.
func (cfg *LedgerConfig) PlanRegistry() []types.Plan {
	plans := make([]types.Plan, 0, len(cfg.Plans))
	for _, p := range cfg.Plans {
		plans = append(plans, types.Plan{
			TermMonths:      p.TermMonths,
			DurationSeconds: p.DurationSeconds,
			RewardPercent:   p.RewardPercent,
		})
	}
	return plans
}
