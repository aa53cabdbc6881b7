package client

const (
	StakeCreatedQueueName string = "stake_created_queue"
	StakeClosedQueueName  string = "stake_closed_queue"
)

const (
	StakeCreatedEventType EventType = 1
	StakeClosedEventType  EventType = 2
)

type EventType int

// StakeCreatedEvent notifies downstream consumers that a new stake was
// appended to the ledger.
type StakeCreatedEvent struct {
	EventType     EventType `json:"event_type"` // always 1
	StakerAddress string    `json:"staker_address"`
	Asset         string    `json:"asset"`
	Amount        uint64    `json:"amount"`
	TermMonths    uint32    `json:"term_months"`
	Position      uint64    `json:"position"`
}

func NewStakeCreatedEvent(
	stakerAddress, asset string, amount uint64, termMonths uint32, position uint64,
) StakeCreatedEvent {
	return StakeCreatedEvent{
		EventType:     StakeCreatedEventType,
		StakerAddress: stakerAddress,
		Asset:         asset,
		Amount:        amount,
		TermMonths:    termMonths,
		Position:      position,
	}
}

// StakeClosedEvent notifies downstream consumers that a stake was withdrawn,
// with the resolved accounting split.
type StakeClosedEvent struct {
	EventType     EventType `json:"event_type"` // always 2
	StakerAddress string    `json:"staker_address"`
	Asset         string    `json:"asset"`
	Position      uint64    `json:"position"`
	Payout        uint64    `json:"payout"`
	Reward        uint64    `json:"reward"`
	Fee           uint64    `json:"fee"`
	WasEarly      bool      `json:"was_early"`
}

func NewStakeClosedEvent(
	stakerAddress, asset string, position, payout, reward, fee uint64, wasEarly bool,
) StakeClosedEvent {
	return StakeClosedEvent{
		EventType:     StakeClosedEventType,
		StakerAddress: stakerAddress,
		Asset:         asset,
		Position:      position,
		Payout:        payout,
		Reward:        reward,
		Fee:           fee,
		WasEarly:      wasEarly,
	}
}
