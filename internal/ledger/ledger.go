package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/termvault/staking-ledger-service/internal/types"
)

// Domain errors surfaced by ledger operations. The service layer maps these
// onto HTTP status and application error codes.
var (
	ErrInvalidAmount       = errors.New("stake amount must be greater than zero")
	ErrInvalidAsset        = errors.New("unknown asset kind")
	ErrInvalidPlan         = errors.New("no staking plan for the requested term")
	ErrInvalidPercent      = errors.New("percentage must not exceed 100")
	ErrIndexOutOfRange     = errors.New("stake position out of range")
	ErrAlreadyClosed       = errors.New("stake is already closed")
	ErrReentrantCall       = errors.New("another ledger operation is in flight")
	ErrUnauthorized        = errors.New("caller is not the administrator")
	ErrZeroAddress         = errors.New("address must not be empty")
	ErrInsufficientCustody = errors.New("custody balance below required payout")
	ErrNoFeesAvailable     = errors.New("no accrued fees to sweep")
	ErrFeeExceedsGross     = errors.New("fee exceeds gross payout")
	ErrArithmeticOverflow  = errors.New("arithmetic overflow in payout computation")
)

// TransferError wraps a failure reported by the custody collaborator. The
// enclosing ledger mutation, if any, has already been committed when this is
// returned (see the custody-guard notes on Withdraw).
type TransferError struct {
	Op    string
	Asset types.AssetKind
	Err   error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("custody %s of %s asset failed: %v", e.Op, e.Asset, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

func IsTransferError(err error) bool {
	var te *TransferError
	return errors.As(err, &te)
}

// Stake is one deposit event and its resolution. The closing fields are
// written exactly once when Closed transitions to true and are frozen
// thereafter.
type Stake struct {
	Amount     uint64
	Asset      types.AssetKind
	OpenedAt   int64
	ClosedAt   int64
	TermMonths uint32
	Closed     bool
	Payout     uint64
}

// Ref points at one stake through the global creation-order index.
type Ref struct {
	Owner    string
	Position uint64
}

// FeeTotals are the two running fee accumulators, kept disjoint from user
// principal. They only grow on withdrawal and only reset on a sweep or an
// emergency stop.
type FeeTotals struct {
	Native uint64
	Token  uint64
}

func (f FeeTotals) Zero() bool {
	return f.Native == 0 && f.Token == 0
}

func (f FeeTotals) Of(asset types.AssetKind) uint64 {
	if asset == types.AssetToken {
		return f.Token
	}
	return f.Native
}

// Settings are the administratively mutable scalars of the ledger.
type Settings struct {
	Admin        string
	TokenAddress string
	FeePercent   uint64
}

// Custody is the external asset-transfer collaborator. Native inbound
// transfers are implicit in the creation call and never go through
// TransferIn.
type Custody interface {
	TransferIn(ctx context.Context, asset types.AssetKind, from string, amount uint64) error
	TransferOut(ctx context.Context, asset types.AssetKind, to string, amount uint64) error
	BalanceOf(ctx context.Context, asset types.AssetKind) (uint64, error)
}

// Journal receives every committed ledger mutation for durable write-through.
// A journal call sits between payout resolution and the in-memory commit, so
// a journal failure aborts the operation with no state change. A nil journal
// is allowed and skips persistence entirely.
type Journal interface {
	StakeOpened(ctx context.Context, seq uint64, owner string, position uint64, stake Stake) error
	StakeClosed(ctx context.Context, owner string, position uint64, stake Stake, fees FeeTotals) error
	FeesSwept(ctx context.Context) error
	EmergencyStopped(ctx context.Context, closedAt int64) error
	SettingsChanged(ctx context.Context, settings Settings) error
	PlanChanged(ctx context.Context, plan types.Plan) error
}

// Ledger owns all staking state: per-owner append-only stake collections, the
// flat global index, the plan registry and the fee accumulators. Every
// state-mutating operation is serialized by the custody guard; the RWMutex
// exists only so that unguarded read-only queries are memory safe against a
// concurrent mutation.
type Ledger struct {
	guard guard
	mu    sync.RWMutex

	accounts map[string][]*Stake
	index    []Ref
	fees     FeeTotals

	plans      map[uint32]types.Plan
	feePercent uint64
	admin      string
	tokenAddr  string

	custody Custody
	journal Journal
	now     func() time.Time
}

// New builds an empty ledger from seed settings and plan registry contents.
func New(settings Settings, plans []types.Plan, custody Custody, journal Journal) (*Ledger, error) {
	if settings.Admin == "" {
		return nil, ErrZeroAddress
	}
	if settings.FeePercent > types.MaxPercent {
		return nil, ErrInvalidPercent
	}
	if len(plans) == 0 {
		return nil, errors.New("plan registry must not be empty")
	}
	if custody == nil {
		return nil, errors.New("custody collaborator is required")
	}

	registry := make(map[uint32]types.Plan, len(plans))
	for _, p := range plans {
		if err := validatePlan(p); err != nil {
			return nil, err
		}
		if _, ok := registry[p.TermMonths]; ok {
			return nil, fmt.Errorf("duplicate plan for term %d", p.TermMonths)
		}
		registry[p.TermMonths] = p
	}

	return &Ledger{
		accounts:   make(map[string][]*Stake),
		plans:      registry,
		feePercent: settings.FeePercent,
		admin:      settings.Admin,
		tokenAddr:  settings.TokenAddress,
		custody:    custody,
		journal:    journal,
		now:        time.Now,
	}, nil
}

// StakeRecord is one journaled stake used to rebuild the ledger on startup.
// Seq is the stake's slot in the global index.
type StakeRecord struct {
	Seq      uint64
	Owner    string
	Position uint64
	Stake    Stake
}

// Restore rebuilds a ledger from journaled state. Records must be ordered by
// Seq; each record's position must equal the owner's collection length at
// replay time, otherwise the journal is corrupt.
func Restore(
	settings Settings, plans []types.Plan, fees FeeTotals, records []StakeRecord,
	custody Custody, journal Journal,
) (*Ledger, error) {
	l, err := New(settings, plans, custody, journal)
	if err != nil {
		return nil, err
	}
	for i, rec := range records {
		if uint64(i) != rec.Seq {
			return nil, fmt.Errorf("journal gap: record %d has seq %d", i, rec.Seq)
		}
		if rec.Position != uint64(len(l.accounts[rec.Owner])) {
			return nil, fmt.Errorf(
				"journal corrupt: owner %s position %d out of order", rec.Owner, rec.Position,
			)
		}
		stake := rec.Stake
		l.accounts[rec.Owner] = append(l.accounts[rec.Owner], &stake)
		l.index = append(l.index, Ref{Owner: rec.Owner, Position: rec.Position})
	}
	l.fees = fees
	return l, nil
}

func validatePlan(p types.Plan) error {
	if p.TermMonths == 0 {
		return ErrInvalidPlan
	}
	if p.DurationSeconds <= 0 {
		return fmt.Errorf("plan for term %d has non-positive duration", p.TermMonths)
	}
	if p.RewardPercent > types.MaxPercent {
		return ErrInvalidPercent
	}
	return nil
}

func (l *Ledger) journalStakeOpened(ctx context.Context, seq uint64, owner string, position uint64, stake Stake) error {
	if l.journal == nil {
		return nil
	}
	return l.journal.StakeOpened(ctx, seq, owner, position, stake)
}

func (l *Ledger) journalStakeClosed(ctx context.Context, owner string, position uint64, stake Stake, fees FeeTotals) error {
	if l.journal == nil {
		return nil
	}
	return l.journal.StakeClosed(ctx, owner, position, stake, fees)
}

func (l *Ledger) requireAdmin(caller string) error {
	l.mu.RLock()
	admin := l.admin
	l.mu.RUnlock()
	if caller != admin {
		return ErrUnauthorized
	}
	return nil
}
