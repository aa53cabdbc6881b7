package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/termvault/staking-ledger-service/internal/clients/custody"
	"github.com/termvault/staking-ledger-service/internal/config"
	"github.com/termvault/staking-ledger-service/internal/db"
	"github.com/termvault/staking-ledger-service/internal/ledger"
	"github.com/termvault/staking-ledger-service/internal/types"
)

// Services contains the business logic: it wraps the in-memory ledger with
// persistence, event publishing and metrics. The ledger is rebuilt from the
// journal on startup so stake positions and fee accumulators survive
// restarts.
type Services struct {
	DbClient db.DBClient
	Ledger   *ledger.Ledger
	Events   EventPublisher
	cfg      *config.Config
}

func New(ctx context.Context, cfg *config.Config) (*Services, error) {
	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		log.Ctx(ctx).Fatal().Err(err).Msg("error while creating db client")
		return nil, err
	}

	custodyClient := custody.NewClient(&cfg.Custody)

	led, err := restoreLedger(ctx, cfg, dbClient, custodyClient)
	if err != nil {
		return nil, err
	}

	return &Services{
		DbClient: dbClient,
		Ledger:   led,
		cfg:      cfg,
	}, nil
}

// restoreLedger seeds the ledger from config, then overlays whatever the
// journal recorded: settings and plan changes made at runtime take precedence
// over the config file, and the full stake journal is replayed in creation
// order.
func restoreLedger(
	ctx context.Context, cfg *config.Config, dbClient db.DBClient, custodyClient ledger.Custody,
) (*ledger.Ledger, error) {
	settings := ledger.Settings{
		Admin:        cfg.Ledger.AdminAddress,
		TokenAddress: cfg.Ledger.TokenAddress,
		FeePercent:   cfg.Ledger.FeePercent,
	}
	if journaled, err := dbClient.GetSettings(ctx); err != nil {
		return nil, err
	} else if journaled != nil {
		settings = *journaled
	}

	plans := cfg.Ledger.PlanRegistry()
	journaledPlans, err := dbClient.FindAllPlans(ctx)
	if err != nil {
		return nil, err
	}
	plans = overlayPlans(plans, journaledPlans)

	fees, err := dbClient.GetFeeTotals(ctx)
	if err != nil {
		return nil, err
	}

	documents, err := dbClient.FindAllStakeRecords(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]ledger.StakeRecord, 0, len(documents))
	for _, doc := range documents {
		records = append(records, ledger.StakeRecord{
			Seq:      doc.Seq,
			Owner:    doc.StakerAddress,
			Position: doc.Position,
			Stake: ledger.Stake{
				Amount:     doc.Amount,
				Asset:      types.AssetKind(doc.Asset),
				OpenedAt:   doc.OpenedAt,
				ClosedAt:   doc.ClosedAt,
				TermMonths: doc.TermMonths,
				Closed:     doc.Closed,
				Payout:     doc.Payout,
			},
		})
	}

	led, err := ledger.Restore(settings, plans, fees, records, custodyClient, dbClient)
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().
		Int("stakes", len(records)).
		Uint64("native_fees", fees.Native).
		Uint64("token_fees", fees.Token).
		Msg("ledger restored from journal")
	return led, nil
}

func overlayPlans(base, overrides []types.Plan) []types.Plan {
	merged := make(map[uint32]types.Plan, len(base))
	order := make([]uint32, 0, len(base))
	for _, p := range base {
		merged[p.TermMonths] = p
		order = append(order, p.TermMonths)
	}
	for _, p := range overrides {
		if _, ok := merged[p.TermMonths]; !ok {
			order = append(order, p.TermMonths)
		}
		merged[p.TermMonths] = p
	}
	out := make([]types.Plan, 0, len(order))
	for _, term := range order {
		out = append(out, merged[term])
	}
	return out
}

// DoHealthCheck checks the health of the services by ping the database.
func (s *Services) DoHealthCheck(ctx context.Context) error {
	return s.DbClient.Ping(ctx)
}
