package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var start = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type mockLookup struct {
	orders map[string]domain.Order
	calls  int
}

func (l *mockLookup) GetOrder(_ context.Context, id string) (domain.Order, error) {
	l.calls++
	o, ok := l.orders[id]
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	return o, nil
}

func placed(id string, at time.Time) domain.Order {
	return domain.Order{ID: id, Total: 1099, Status: domain.OrderStatusOrdered, CreatedAt: at}
}

func TestScheduler_DefaultProgression(t *testing.T) {
	clock := NewManualClock(start)
	s := NewScheduler(clock, nil, nil, nil)
	defer s.Stop()
	ctx := context.Background()

	s.OrderPlaced(ctx, placed("ORD1", start))

	tr, err := s.Status(ctx, "ORD1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusOrdered, tr.Status)
	assert.Equal(t, 0, tr.Stage)

	clock.Advance(4 * time.Second)
	tr, _ = s.Status(ctx, "ORD1")
	assert.Equal(t, domain.OrderStatusOrdered, tr.Status)

	clock.Advance(time.Second)
	tr, _ = s.Status(ctx, "ORD1")
	assert.Equal(t, domain.OrderStatusShipped, tr.Status)
	assert.Equal(t, start.Add(5*time.Second), tr.UpdatedAt)

	clock.Advance(7 * time.Second)
	tr, _ = s.Status(ctx, "ORD1")
	assert.Equal(t, domain.OrderStatusShipped, tr.Status)

	clock.Advance(time.Second)
	tr, _ = s.Status(ctx, "ORD1")
	assert.Equal(t, domain.OrderStatusOutForDelivery, tr.Status)
	assert.Equal(t, 2, tr.Stage)

	// No further automatic steps.
	clock.Advance(time.Hour)
	tr, _ = s.Status(ctx, "ORD1")
	assert.Equal(t, domain.OrderStatusOutForDelivery, tr.Status)
	assert.Zero(t, clock.Pending())
}

func TestScheduler_SingleAdvanceFiresChainedSteps(t *testing.T) {
	clock := NewManualClock(start)
	s := NewScheduler(clock, nil, nil, nil)
	defer s.Stop()

	s.OrderPlaced(context.Background(), placed("ORD1", start))
	clock.Advance(20 * time.Second)

	tr, err := s.Status(context.Background(), "ORD1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusOutForDelivery, tr.Status)
	assert.Equal(t, start.Add(13*time.Second), tr.UpdatedAt)
}

func TestScheduler_CustomSchedule(t *testing.T) {
	clock := NewManualClock(start)
	schedule := []Step{
		{Delay: time.Minute, Status: domain.OrderStatusShipped},
		{Delay: time.Minute, Status: domain.OrderStatusOutForDelivery},
		{Delay: time.Minute, Status: domain.OrderStatusDelivered},
	}
	s := NewScheduler(clock, schedule, nil, nil)
	defer s.Stop()

	s.OrderPlaced(context.Background(), placed("ORD1", start))
	clock.Advance(3 * time.Minute)

	tr, err := s.Status(context.Background(), "ORD1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, tr.Status)
	assert.Equal(t, 3, tr.Stage)
}

func TestScheduler_UnknownOrder(t *testing.T) {
	s := NewScheduler(NewManualClock(start), nil, nil, nil)
	defer s.Stop()

	_, err := s.Status(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestScheduler_ResumesFromLookup(t *testing.T) {
	clock := NewManualClock(start.Add(7 * time.Second))
	lookup := &mockLookup{orders: map[string]domain.Order{"OLD": placed("OLD", start)}}
	s := NewScheduler(clock, nil, lookup, nil)
	defer s.Stop()
	ctx := context.Background()

	tr, err := s.Status(ctx, "OLD")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, tr.Status)
	assert.Equal(t, start.Add(5*time.Second), tr.UpdatedAt)

	// 13s after placement the second step is due.
	clock.Advance(5 * time.Second)
	tr, _ = s.Status(ctx, "OLD")
	assert.Equal(t, domain.OrderStatusShipped, tr.Status)

	clock.Advance(time.Second)
	tr, _ = s.Status(ctx, "OLD")
	assert.Equal(t, domain.OrderStatusOutForDelivery, tr.Status)
	assert.Equal(t, 1, lookup.calls)
}

func (s *Scheduler) tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func TestScheduler_DropsFinishedOrdersAfterRetention(t *testing.T) {
	clock := NewManualClock(start)
	lookup := &mockLookup{orders: map[string]domain.Order{"ORD1": placed("ORD1", start)}}
	s := NewScheduler(clock, nil, lookup, nil)
	defer s.Stop()
	ctx := context.Background()

	s.OrderPlaced(ctx, placed("ORD1", start))
	clock.Advance(13 * time.Second)
	require.Equal(t, 1, s.tracked())

	clock.Advance(DefaultRetention - time.Second)
	assert.Equal(t, 1, s.tracked())

	clock.Advance(time.Second)
	assert.Zero(t, s.tracked())
	assert.Zero(t, clock.Pending())

	tr, err := s.Status(ctx, "ORD1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusOutForDelivery, tr.Status)
	assert.Equal(t, 1, lookup.calls)
}

func TestScheduler_KeepsFinishedOrdersWithoutLookup(t *testing.T) {
	clock := NewManualClock(start)
	s := NewScheduler(clock, nil, nil, nil)
	defer s.Stop()

	s.OrderPlaced(context.Background(), placed("ORD1", start))
	clock.Advance(DefaultRetention + time.Minute)

	assert.Equal(t, 1, s.tracked())
}

func TestScheduler_LookupError(t *testing.T) {
	boom := errors.New("journal down")
	s := NewScheduler(NewManualClock(start), nil, failingLookup{err: boom}, nil)
	defer s.Stop()

	_, err := s.Status(context.Background(), "X")
	assert.ErrorIs(t, err, boom)
}

type failingLookup struct{ err error }

func (l failingLookup) GetOrder(context.Context, string) (domain.Order, error) {
	return domain.Order{}, l.err
}

func TestScheduler_StopCancelsPending(t *testing.T) {
	clock := NewManualClock(start)
	s := NewScheduler(clock, nil, nil, nil)

	s.OrderPlaced(context.Background(), placed("ORD1", start))
	require.Equal(t, 1, clock.Pending())

	s.Stop()
	assert.Zero(t, clock.Pending())

	clock.Advance(time.Minute)
	tr, err := s.Status(context.Background(), "ORD1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusOrdered, tr.Status)

	s.OrderPlaced(context.Background(), placed("ORD2", start))
	_, err = s.Status(context.Background(), "ORD2")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestScheduler_ReplacingOrderRestartsProgression(t *testing.T) {
	clock := NewManualClock(start)
	s := NewScheduler(clock, nil, nil, nil)
	defer s.Stop()
	ctx := context.Background()

	s.OrderPlaced(ctx, placed("ORD1", start))
	clock.Advance(4 * time.Second)
	s.OrderPlaced(ctx, placed("ORD1", clock.Now()))
	clock.Advance(2 * time.Second)

	tr, _ := s.Status(ctx, "ORD1")
	assert.Equal(t, domain.OrderStatusOrdered, tr.Status)
	assert.Equal(t, 1, clock.Pending())
}

func TestScheduler_RealClock(t *testing.T) {
	s := NewScheduler(RealClock(), []Step{{Delay: 10 * time.Millisecond, Status: domain.OrderStatusShipped}}, nil, nil)
	defer s.Stop()

	s.OrderPlaced(context.Background(), placed("ORD1", time.Now()))
	require.Eventually(t, func() bool {
		tr, err := s.Status(context.Background(), "ORD1")
		return err == nil && tr.Status == domain.OrderStatusShipped
	}, time.Second, 5*time.Millisecond)
}
