package ledger

import "sync/atomic"

// guard is the custody guard: a single mutual-exclusion flag that serializes
// every state-mutating operation. An operation that starts while the flag is
// held fails with ErrReentrantCall instead of queueing, which is the sole
// defense against a custody-transfer callback re-entering the ledger while an
// operation is awaiting its external transfer.
type guard struct {
	held atomic.Bool
}

// enter acquires the flag or fails. Callers must pair every successful enter
// with a deferred release so the flag is dropped on all exit paths.
func (g *guard) enter() error {
	if !g.held.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}
	return nil
}

func (g *guard) release() {
	g.held.Store(false)
}
