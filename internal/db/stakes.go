package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/termvault/staking-ledger-service/internal/db/model"
	"github.com/termvault/staking-ledger-service/internal/ledger"
)

// StakeOpened journals a newly created stake.
func (db *Database) StakeOpened(
	ctx context.Context, seq uint64, owner string, position uint64, stake ledger.Stake,
) error {
	client := db.Client.Database(db.DbName).Collection(model.StakeRecordCollection)
	document := model.StakeRecordDocument{
		ID:            model.StakeRecordId(owner, position),
		Seq:           seq,
		StakerAddress: owner,
		Position:      position,
		Amount:        stake.Amount,
		Asset:         stake.Asset.ToString(),
		TermMonths:    stake.TermMonths,
		OpenedAt:      stake.OpenedAt,
	}
	_, err := client.InsertOne(ctx, document)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     document.ID,
						Message: "Stake record already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

// StakeClosed journals the one-time closing of a stake and the new fee
// accumulator totals in a single transaction, so the journal never shows a
// closed stake without its accrued fee or vice versa.
func (db *Database) StakeClosed(
	ctx context.Context, owner string, position uint64, stake ledger.Stake, fees ledger.FeeTotals,
) error {
	transactionWork := func(sessCtx mongo.SessionContext) (interface{}, error) {
		stakes := db.Client.Database(db.DbName).Collection(model.StakeRecordCollection)

		filter := bson.M{"_id": model.StakeRecordId(owner, position), "closed": false}
		update := bson.M{"$set": bson.M{
			"closed":    true,
			"closed_at": stake.ClosedAt,
			"payout":    stake.Payout,
		}}
		result, err := stakes.UpdateOne(sessCtx, filter, update)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, &NotFoundError{
				Key:     model.StakeRecordId(owner, position),
				Message: "Stake record not found or already closed",
			}
		}

		if err := db.setFeeTotals(sessCtx, fees); err != nil {
			return nil, err
		}
		return nil, nil
	}

	_, txErr := db.txWithRetries(ctx, transactionWork)
	return txErr
}

// EmergencyStopped journals the circuit breaker: all open stake records are
// closed with payout 0 and both fee accumulators are zeroed.
func (db *Database) EmergencyStopped(ctx context.Context, closedAt int64) error {
	transactionWork := func(sessCtx mongo.SessionContext) (interface{}, error) {
		stakes := db.Client.Database(db.DbName).Collection(model.StakeRecordCollection)

		filter := bson.M{"closed": false}
		update := bson.M{"$set": bson.M{
			"closed":    true,
			"closed_at": closedAt,
			"payout":    uint64(0),
		}}
		if _, err := stakes.UpdateMany(sessCtx, filter, update); err != nil {
			return nil, err
		}

		if err := db.setFeeTotals(sessCtx, ledger.FeeTotals{}); err != nil {
			return nil, err
		}
		return nil, nil
	}

	_, txErr := db.txWithRetries(ctx, transactionWork)
	return txErr
}

// FindAllStakeRecords loads the whole journal in creation order for the
// startup replay.
func (db *Database) FindAllStakeRecords(ctx context.Context) ([]model.StakeRecordDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.StakeRecordCollection)

	opts := options.Find().SetSort(bson.M{"seq": 1})
	cursor, err := client.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []model.StakeRecordDocument
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
