// Package ledger supplies the two inputs the seed derivation binds to that
// the state machine must not compute itself: the current slot of the backing
// ledger and the current wall-clock time. Both are trusted external sources.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
)

// Time is the process clock. Swapped for a clockwork fake in tests so
// deadline gating can be driven deterministically.
var Time clockwork.Clock = clockwork.NewRealClock()

func Now() time.Time {
	return Time.Now()
}

// Querier is the slice of pgx both a pool and an open transaction satisfy.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CurrentSlot advances and returns the monotonic slot counter standing in
// for the ledger block height. Reading it consumes a slot, so two
// distributions can never observe the same value.
func CurrentSlot(ctx context.Context, q Querier) (uint64, error) {
	var slot int64
	if err := q.QueryRow(ctx, "select nextval('ledger_slot')").Scan(&slot); err != nil {
		return 0, fmt.Errorf("unable to advance ledger slot: %w", err)
	}
	return uint64(slot), nil
}
