package types

// Plan is one entry of the staking plan registry: the lock duration and the
// reward applied when a stake of this term is withdrawn after maturity.
type Plan struct {
	TermMonths      uint32 `json:"term_months"`
	DurationSeconds int64  `json:"duration_seconds"`
	RewardPercent   uint64 `json:"reward_percent"`
}

// MaxPercent bounds reward and fee percentages. The accounting engine fails
// closed rather than underflowing if a larger value sneaks in at runtime.
const MaxPercent = 100
