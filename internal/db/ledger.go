package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/termvault/staking-ledger-service/internal/db/model"
	"github.com/termvault/staking-ledger-service/internal/ledger"
	"github.com/termvault/staking-ledger-service/internal/types"
)

// FeesSwept zeroes the persisted fee accumulators.
func (db *Database) FeesSwept(ctx context.Context) error {
	return db.setFeeTotals(ctx, ledger.FeeTotals{})
}

func (db *Database) setFeeTotals(ctx context.Context, fees ledger.FeeTotals) error {
	client := db.Client.Database(db.DbName).Collection(model.FeeLedgerCollection)
	filter := bson.M{"_id": model.FeeLedgerId}
	update := bson.M{"$set": bson.M{
		"native_fees": fees.Native,
		"token_fees":  fees.Token,
	}}
	_, err := client.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetFeeTotals loads the persisted fee accumulators; zero totals are returned
// when nothing has been journaled yet.
func (db *Database) GetFeeTotals(ctx context.Context) (ledger.FeeTotals, error) {
	client := db.Client.Database(db.DbName).Collection(model.FeeLedgerCollection)
	var doc model.FeeLedgerDocument
	err := client.FindOne(ctx, bson.M{"_id": model.FeeLedgerId}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ledger.FeeTotals{}, nil
		}
		return ledger.FeeTotals{}, err
	}
	return ledger.FeeTotals{Native: doc.NativeFees, Token: doc.TokenFees}, nil
}

// SettingsChanged persists the administratively mutable scalars.
func (db *Database) SettingsChanged(ctx context.Context, settings ledger.Settings) error {
	client := db.Client.Database(db.DbName).Collection(model.LedgerSettingsCollection)
	filter := bson.M{"_id": model.LedgerSettingsId}
	update := bson.M{"$set": bson.M{
		"admin_address": settings.Admin,
		"token_address": settings.TokenAddress,
		"fee_percent":   settings.FeePercent,
	}}
	_, err := client.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetSettings loads journaled settings, or nil when the service has never
// persisted any (first boot).
func (db *Database) GetSettings(ctx context.Context) (*ledger.Settings, error) {
	client := db.Client.Database(db.DbName).Collection(model.LedgerSettingsCollection)
	var doc model.LedgerSettingsDocument
	err := client.FindOne(ctx, bson.M{"_id": model.LedgerSettingsId}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &ledger.Settings{
		Admin:        doc.AdminAddress,
		TokenAddress: doc.TokenAddress,
		FeePercent:   doc.FeePercent,
	}, nil
}

// PlanChanged persists one plan registry entry.
func (db *Database) PlanChanged(ctx context.Context, plan types.Plan) error {
	client := db.Client.Database(db.DbName).Collection(model.PlanCollection)
	filter := bson.M{"_id": plan.TermMonths}
	update := bson.M{"$set": bson.M{
		"duration_seconds": plan.DurationSeconds,
		"reward_percent":   plan.RewardPercent,
	}}
	_, err := client.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// FindAllPlans loads journaled plan registry overrides.
func (db *Database) FindAllPlans(ctx context.Context) ([]types.Plan, error) {
	client := db.Client.Database(db.DbName).Collection(model.PlanCollection)
	cursor, err := client.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []model.PlanDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	plans := make([]types.Plan, 0, len(docs))
	for _, doc := range docs {
		plans = append(plans, types.Plan{
			TermMonths:      doc.TermMonths,
			DurationSeconds: doc.DurationSeconds,
			RewardPercent:   doc.RewardPercent,
		})
	}
	return plans, nil
}
