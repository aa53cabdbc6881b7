package model

import "fmt"

const StakeRecordCollection = "stake_records"

// StakeRecordDocument journals one stake. The document is inserted when the
// stake is opened and updated exactly once when it closes; the (seq, owner,
// position) triple mirrors the ledger's global index so the in-memory state
// can be rebuilt in creation order.
type StakeRecordDocument struct {
	ID            string `bson:"_id"` // staker_address:position
	Seq           uint64 `bson:"seq"`
	StakerAddress string `bson:"staker_address"`
	Position      uint64 `bson:"position"`
	Amount        uint64 `bson:"amount"`
	Asset         string `bson:"asset"`
	TermMonths    uint32 `bson:"term_months"`
	OpenedAt      int64  `bson:"opened_at"`
	Closed        bool   `bson:"closed"`
	ClosedAt      int64  `bson:"closed_at"`
	Payout        uint64 `bson:"payout"`
}

func StakeRecordId(stakerAddress string, position uint64) string {
	return fmt.Sprintf("%s:%d", stakerAddress, position)
}
