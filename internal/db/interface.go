package db

import (
	"context"

	"github.com/termvault/staking-ledger-service/internal/db/model"
	"github.com/termvault/staking-ledger-service/internal/ledger"
	"github.com/termvault/staking-ledger-service/internal/types"
)

// DBClient is the persistence surface consumed by the service layer. It is a
// superset of ledger.Journal: the write-through journal methods plus the
// loaders used to rebuild the ledger on startup.
type DBClient interface {
	Ping(ctx context.Context) error

	// ledger.Journal
	StakeOpened(ctx context.Context, seq uint64, owner string, position uint64, stake ledger.Stake) error
	StakeClosed(ctx context.Context, owner string, position uint64, stake ledger.Stake, fees ledger.FeeTotals) error
	FeesSwept(ctx context.Context) error
	EmergencyStopped(ctx context.Context, closedAt int64) error
	SettingsChanged(ctx context.Context, settings ledger.Settings) error
	PlanChanged(ctx context.Context, plan types.Plan) error

	// startup replay
	FindAllStakeRecords(ctx context.Context) ([]model.StakeRecordDocument, error)
	GetFeeTotals(ctx context.Context) (ledger.FeeTotals, error)
	GetSettings(ctx context.Context) (*ledger.Settings, error)
	FindAllPlans(ctx context.Context) ([]types.Plan, error)
}
