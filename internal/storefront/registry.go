package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/cart"
	"github.com/Nivash8098/E-Commerece-Website/internal/checkout"
	"github.com/Nivash8098/E-Commerece-Website/internal/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultIdleTimeout     = 30 * time.Minute
	DefaultCleanupInterval = time.Minute

	restoreTimeout = 5 * time.Second
)

var ErrInvalidSession = errors.New("invalid session id")

// Session bundles the per-shopper state containers.
type Session struct {
	ID       string
	Cart     *cart.Store
	Checkout *checkout.Flow
	Identity *session.Store

	// guarded by Registry.mu
	lastSeen time.Time
	detached bool // cart not bound to the persister yet
	evicted  bool
	stop     []func()
}

type Deps struct {
	Submitter      checkout.OrderSubmitter
	Authenticator  session.Authenticator
	Identities     session.Storage
	Persister      *cart.Persister
	OrderListeners []checkout.OrderListener
	Describe       func(error) string
	Logger         *zap.Logger

	// IdleTimeout evicts sessions not resolved for that long.
	IdleTimeout     time.Duration
	CleanupInterval time.Duration
	Now             func() time.Time
}

// Registry owns one Session per session id. Idle sessions are evicted in the
// background; resolving their id again rebuilds them from persisted state.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	deps     Deps
	sfg      singleflight.Group

	stopCleanup chan struct{}
	closeOnce   sync.Once
	wg          sync.WaitGroup
}

func NewRegistry(deps Deps) *Registry {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Identities == nil {
		deps.Identities = session.NewMemoryStorage()
	}
	if deps.IdleTimeout <= 0 {
		deps.IdleTimeout = DefaultIdleTimeout
	}
	if deps.CleanupInterval <= 0 {
		deps.CleanupInterval = DefaultCleanupInterval
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	r := &Registry{
		sessions:    make(map[string]*Session),
		deps:        deps,
		stopCleanup: make(chan struct{}),
	}
	r.wg.Add(1)
	go r.cleanupLoop()
	return r
}

// Resolve returns the session for id. An empty id starts a new session; an
// unknown but well-formed id is rebuilt from persisted state, so shoppers keep
// their cart and login across restarts and evictions.
func (r *Registry) Resolve(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSession, id)
	}

	r.mu.Lock()
	s, ok := r.sessions[id]
	retry := false
	if ok {
		s.lastSeen = r.deps.Now()
		retry = s.detached
	}
	r.mu.Unlock()
	if ok {
		if retry {
			r.attach(ctx, s)
		}
		return s, nil
	}

	// Restoring may hit the network, so it runs outside mu and at most once per id.
	v, _, _ := r.sfg.Do(id, func() (interface{}, error) {
		r.mu.Lock()
		if s, ok := r.sessions[id]; ok {
			r.mu.Unlock()
			return s, nil
		}
		r.mu.Unlock()

		s := r.build(id)
		r.attach(ctx, s)

		r.mu.Lock()
		s.lastSeen = r.deps.Now()
		r.sessions[id] = s
		r.mu.Unlock()
		return s, nil
	})
	return v.(*Session), nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops the cleanup loop and detaches every session from its
// persistence hooks.
func (r *Registry) Close() {
	r.closeOnce.Do(func() { close(r.stopCleanup) })
	r.wg.Wait()

	r.mu.Lock()
	var stops []func()
	for id, s := range r.sessions {
		stops = append(stops, r.evictLocked(id, s)...)
	}
	r.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
}

func (r *Registry) cleanupLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.deps.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictIdle()
		case <-r.stopCleanup:
			return
		}
	}
}

// evictIdle drops sessions idle past the timeout. A session with an order
// submission in flight is kept until the next pass.
func (r *Registry) evictIdle() {
	cutoff := r.deps.Now().Add(-r.deps.IdleTimeout)

	r.mu.Lock()
	var stops []func()
	evicted := 0
	for id, s := range r.sessions {
		if s.lastSeen.After(cutoff) || s.Checkout.Snapshot().Submitting {
			continue
		}
		stops = append(stops, r.evictLocked(id, s)...)
		evicted++
	}
	remaining := len(r.sessions)
	r.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
	if evicted > 0 {
		r.deps.Logger.Debug("evicted idle sessions", zap.Int("evicted", evicted), zap.Int("remaining", remaining))
	}
}

func (r *Registry) evictLocked(id string, s *Session) []func() {
	delete(r.sessions, id)
	s.evicted = true
	stops := s.stop
	s.stop = nil
	return stops
}

func (r *Registry) build(id string) *Session {
	logger := r.deps.Logger.With(zap.String("session_id", id))
	store := cart.NewStore()

	opts := []checkout.Option{checkout.WithLogger(logger)}
	if r.deps.Describe != nil {
		opts = append(opts, checkout.WithErrorDescriber(r.deps.Describe))
	}
	for _, l := range r.deps.OrderListeners {
		opts = append(opts, checkout.WithOrderListener(l))
	}
	flow := checkout.NewFlow(store, r.deps.Submitter, opts...)

	s := &Session{
		ID:       id,
		Cart:     store,
		Checkout: flow,
		Identity: session.NewStore(id, r.deps.Authenticator, r.deps.Identities, logger),
		detached: r.deps.Persister != nil,
	}
	s.stop = append(s.stop, store.Subscribe(flow.OnCartChanged))

	logger.Debug("session started")
	return s
}

// attach binds the cart to the persister. It does not follow the request
// that triggered it, and a failure leaves the session detached so the next
// Resolve tries again. A cart that already has lines by then is saved as is
// instead of being overwritten by the restore.
func (r *Registry) attach(ctx context.Context, s *Session) {
	if r.deps.Persister == nil {
		return
	}
	_, _, _ = r.sfg.Do("attach:"+s.ID, func() (interface{}, error) {
		r.mu.Lock()
		pending := s.detached
		r.mu.Unlock()
		if !pending {
			return nil, nil
		}

		restoreCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), restoreTimeout)
		defer cancel()

		var (
			stop func()
			err  error
		)
		if s.Cart.Len() == 0 {
			stop, err = r.deps.Persister.Attach(restoreCtx, s.ID, s.Cart)
		} else {
			stop = r.deps.Persister.Bind(s.ID, s.Cart)
			if err = r.deps.Persister.Save(restoreCtx, s.ID, s.Cart.Lines()); err != nil {
				stop()
			}
		}
		if err != nil {
			r.deps.Logger.Warn("cart persistence unavailable, retrying on next request",
				zap.String("session_id", s.ID), zap.Error(err))
			return nil, nil
		}

		r.mu.Lock()
		if s.evicted {
			r.mu.Unlock()
			stop()
			return nil, nil
		}
		s.detached = false
		s.stop = append(s.stop, stop)
		r.mu.Unlock()
		return nil, nil
	})
}
