package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"go.uber.org/zap"
)

var ErrOrderNotFound = domain.ErrOrderNotFound

// Step moves an order to Status once Delay has passed since the previous step.
type Step struct {
	Delay  time.Duration
	Status domain.OrderStatus
}

// DefaultSchedule is a simulated progression; it is not tied to delivery events.
var DefaultSchedule = []Step{
	{Delay: 5 * time.Second, Status: domain.OrderStatusShipped},
	{Delay: 8 * time.Second, Status: domain.OrderStatusOutForDelivery},
}

// DefaultRetention is how long a finished progression stays in memory before
// Status falls back to the lookup again.
const DefaultRetention = 10 * time.Minute

// OrderLookup finds orders placed before the scheduler started.
type OrderLookup interface {
	GetOrder(ctx context.Context, id string) (domain.Order, error)
}

// Tracking is the status view of one order.
type Tracking struct {
	Order     domain.Order       `json:"order"`
	Status    domain.OrderStatus `json:"status"`
	Stage     int                `json:"stage"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type entry struct {
	order     domain.Order
	status    domain.OrderStatus
	next      int
	updatedAt time.Time
	timer     Timer
}

type Scheduler struct {
	mu       sync.Mutex
	clock    Clock
	schedule []Step
	lookup   OrderLookup
	logger   *zap.Logger
	orders   map[string]*entry
	stopped  bool

	retention time.Duration
}

func NewScheduler(clock Clock, schedule []Step, lookup OrderLookup, logger *zap.Logger) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	if schedule == nil {
		schedule = DefaultSchedule
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		clock:    clock,
		schedule: schedule,
		lookup:   lookup,
		logger:   logger,
		orders:   make(map[string]*entry),

		retention: DefaultRetention,
	}
}

// OrderPlaced starts the progression of a freshly placed order.
func (s *Scheduler) OrderPlaced(_ context.Context, order domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if old, ok := s.orders[order.ID]; ok && old.timer != nil {
		old.timer.Stop()
	}
	e := &entry{order: order, status: domain.OrderStatusOrdered, updatedAt: s.clock.Now()}
	s.orders[order.ID] = e
	s.armLocked(e)
}

// Status returns the current stage of an order. Orders not seen since start-up
// are looked up and resumed from the time elapsed since they were placed.
func (s *Scheduler) Status(ctx context.Context, id string) (Tracking, error) {
	s.mu.Lock()
	e, ok := s.orders[id]
	if ok {
		t := e.view()
		s.mu.Unlock()
		return t, nil
	}
	s.mu.Unlock()

	if s.lookup == nil {
		return Tracking{}, ErrOrderNotFound
	}
	order, err := s.lookup.GetOrder(ctx, id)
	if err != nil {
		return Tracking{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.orders[id]; ok {
		return e.view(), nil
	}
	e = s.resumeLocked(order)
	return e.view(), nil
}

// Stop cancels every pending transition.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for _, e := range s.orders {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
}

func (s *Scheduler) resumeLocked(order domain.Order) *entry {
	e := &entry{order: order, status: domain.OrderStatusOrdered, updatedAt: order.CreatedAt}
	elapsed := s.clock.Now().Sub(order.CreatedAt)
	var at time.Duration
	for e.next < len(s.schedule) {
		step := s.schedule[e.next]
		if at+step.Delay > elapsed {
			break
		}
		at += step.Delay
		e.status = step.Status
		e.updatedAt = order.CreatedAt.Add(at)
		e.next++
	}
	s.orders[order.ID] = e
	if !s.stopped {
		s.armAfterLocked(e, elapsed-at)
	}
	return e
}

func (s *Scheduler) armLocked(e *entry) {
	s.armAfterLocked(e, 0)
}

// armAfterLocked schedules the next step, crediting time already spent in the
// current status. A finished entry is dropped after the retention period when
// a lookup can bring it back; otherwise memory is its only record.
func (s *Scheduler) armAfterLocked(e *entry, spent time.Duration) {
	if e.next >= len(s.schedule) {
		e.timer = nil
		if s.lookup != nil {
			e.timer = s.clock.AfterFunc(s.retention, func() { s.forget(e) })
		}
		return
	}
	step := s.schedule[e.next]
	wait := step.Delay - spent
	if wait < 0 {
		wait = 0
	}
	id := e.order.ID
	e.timer = s.clock.AfterFunc(wait, func() { s.advance(id, step) })
}

func (s *Scheduler) advance(id string, step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.orders[id]
	if !ok || s.stopped || e.next >= len(s.schedule) || s.schedule[e.next] != step {
		return
	}
	e.status = step.Status
	e.updatedAt = s.clock.Now()
	e.next++
	s.logger.Debug("order status advanced", zap.String("order_id", id), zap.String("status", string(step.Status)))
	s.armLocked(e)
}

func (s *Scheduler) forget(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders[e.order.ID] == e {
		delete(s.orders, e.order.ID)
	}
}

func (e *entry) view() Tracking {
	return Tracking{Order: e.order, Status: e.status, Stage: e.status.Stage(), UpdatedAt: e.updatedAt}
}
