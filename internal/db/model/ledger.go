package model

const (
	FeeLedgerCollection      = "fee_ledger"
	LedgerSettingsCollection = "ledger_settings"
	PlanCollection           = "plans"
)

// Singleton document ids for the fee ledger and settings collections.
const (
	FeeLedgerId      = "fee_accumulators"
	LedgerSettingsId = "settings"
)

// FeeLedgerDocument persists the two fee accumulators.
type FeeLedgerDocument struct {
	ID         string `bson:"_id"`
	NativeFees uint64 `bson:"native_fees"`
	TokenFees  uint64 `bson:"token_fees"`
}

// LedgerSettingsDocument persists the administratively mutable scalars so
// runtime changes survive a restart.
type LedgerSettingsDocument struct {
	ID           string `bson:"_id"`
	AdminAddress string `bson:"admin_address"`
	TokenAddress string `bson:"token_address"`
	FeePercent   uint64 `bson:"fee_percent"`
}

// PlanDocument persists one plan registry entry, keyed by term.
type PlanDocument struct {
	TermMonths      uint32 `bson:"_id"`
	DurationSeconds int64  `bson:"duration_seconds"`
	RewardPercent   uint64 `bson:"reward_percent"`
}
