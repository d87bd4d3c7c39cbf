package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

type fakeRow struct {
	slot int64
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.slot
	return nil
}

type fakeQuerier struct {
	next int64
	err  error
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.next++
	return fakeRow{slot: q.next, err: q.err}
}

func TestNowFollowsInjectedClock(t *testing.T) {
	a := assert.New(t)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fake := clockwork.NewFakeClockAt(fixed)
	original := Time
	Time = fake
	defer func() { Time = original }()

	a.Equal(fixed, Now())
	fake.Advance(90 * time.Minute)
	a.Equal(fixed.Add(90*time.Minute), Now())
}

func TestCurrentSlotIsMonotonic(t *testing.T) {
	a := assert.New(t)
	q := &fakeQuerier{}
	first, err := CurrentSlot(context.Background(), q)
	a.NoError(err)
	second, err := CurrentSlot(context.Background(), q)
	a.NoError(err)
	a.Greater(second, first)
}

func TestCurrentSlotWrapsError(t *testing.T) {
	a := assert.New(t)
	q := &fakeQuerier{err: errors.New("connection lost")}
	_, err := CurrentSlot(context.Background(), q)
	a.ErrorContains(err, "unable to advance ledger slot")
}
