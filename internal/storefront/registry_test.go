package storefront

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/cart"
	"github.com/Nivash8098/E-Commerece-Website/internal/checkout"
	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/Nivash8098/E-Commerece-Website/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSubmitter struct {
	err error
}

func (s *mockSubmitter) CreateOrder(context.Context, domain.Order) error { return s.err }

type mockListener struct {
	m      sync.Mutex
	orders []domain.Order
}

func (l *mockListener) OrderPlaced(_ context.Context, o domain.Order) {
	l.m.Lock()
	defer l.m.Unlock()
	l.orders = append(l.orders, o)
}

type mockAuth struct{}

func (mockAuth) Login(context.Context, string, string) (domain.Identity, error) {
	return domain.Identity{Token: "tok", User: &domain.User{ID: "u1", Role: domain.RoleUser}}, nil
}

func (mockAuth) Register(context.Context, string, string, string) error { return nil }

// mockRepository honours cancellation like the mongo driver does. failGets
// makes that many lookups fail before the store answers again.
type mockRepository struct {
	m        sync.Mutex
	carts    map[string]*domain.SavedCart
	failGets int
}

func (r *mockRepository) GetCart(ctx context.Context, id string) (*domain.SavedCart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.m.Lock()
	defer r.m.Unlock()
	if r.failGets > 0 {
		r.failGets--
		return nil, errors.New("server selection timeout")
	}
	c, ok := r.carts[id]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return c, nil
}

func (r *mockRepository) UpsertCart(ctx context.Context, c *domain.SavedCart) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()
	r.carts[c.SessionID] = c
	return nil
}

func (r *mockRepository) DeleteCart(_ context.Context, id string) error {
	r.m.Lock()
	defer r.m.Unlock()
	delete(r.carts, id)
	return nil
}

func (r *mockRepository) lines(id string) []domain.CartLine {
	r.m.Lock()
	defer r.m.Unlock()
	if c, ok := r.carts[id]; ok {
		return c.Lines
	}
	return nil
}

func TestResolve_NewAndExisting(t *testing.T) {
	reg := NewRegistry(Deps{Submitter: &mockSubmitter{}, Authenticator: mockAuth{}})
	defer reg.Close()
	ctx := context.Background()

	s, err := reg.Resolve(ctx, "")
	require.NoError(t, err)
	_, err = uuid.Parse(s.ID)
	require.NoError(t, err)

	again, err := reg.Resolve(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, again)
	assert.Equal(t, 1, reg.Len())

	other, err := reg.Resolve(ctx, "")
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, other.ID)
	assert.Equal(t, 2, reg.Len())
}

func TestResolve_InvalidID(t *testing.T) {
	reg := NewRegistry(Deps{})
	defer reg.Close()
	_, err := reg.Resolve(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestResolve_ConcurrentSameID(t *testing.T) {
	reg := NewRegistry(Deps{Submitter: &mockSubmitter{}})
	defer reg.Close()
	id := uuid.NewString()

	var wg sync.WaitGroup
	got := make([]*Session, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := reg.Resolve(context.Background(), id)
			assert.NoError(t, err)
			got[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range got {
		assert.Same(t, got[0], s)
	}
}

func TestSession_RestoresAndPersistsCart(t *testing.T) {
	repo := &mockRepository{carts: make(map[string]*domain.SavedCart)}
	id := uuid.NewString()
	repo.carts[id] = &domain.SavedCart{SessionID: id, Lines: []domain.CartLine{
		{Product: domain.Product{ID: "m1", Price: 1500}, Quantity: 2},
	}}
	reg := NewRegistry(Deps{Submitter: &mockSubmitter{}, Persister: cart.NewPersister(repo, nil, nil)})

	s, err := reg.Resolve(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), s.Cart.Total())

	s.Cart.AddItem(domain.Product{ID: "2", Price: 500})
	assert.Len(t, repo.lines(id), 2)

	reg.Close()
	s.Cart.Clear()
	assert.Len(t, repo.lines(id), 2, "closed sessions stop persisting")
}

func TestSession_CheckoutFollowsCart(t *testing.T) {
	listener := &mockListener{}
	reg := NewRegistry(Deps{
		Submitter:      &mockSubmitter{},
		OrderListeners: []checkout.OrderListener{listener},
	})
	defer reg.Close()

	s, err := reg.Resolve(context.Background(), "")
	require.NoError(t, err)

	s.Cart.AddItem(domain.Product{ID: "1", Price: 1000})
	require.NoError(t, s.Checkout.Begin())
	assert.Equal(t, domain.CheckoutStageAddress, s.Checkout.Stage())

	s.Cart.RemoveItem("1")
	assert.Equal(t, domain.CheckoutStageCart, s.Checkout.Stage())
}

func TestSession_OrderReachesListeners(t *testing.T) {
	listener := &mockListener{}
	reg := NewRegistry(Deps{
		Submitter:      &mockSubmitter{},
		OrderListeners: []checkout.OrderListener{listener},
	})
	defer reg.Close()
	ctx := context.Background()

	s, err := reg.Resolve(ctx, "")
	require.NoError(t, err)
	s.Cart.AddItem(domain.Product{ID: "1", Price: 1000})
	require.NoError(t, s.Checkout.Begin())
	require.NoError(t, s.Checkout.SetAddress(domain.ShippingAddress{
		Name: "A", Mobile: "9876543210", Pincode: "1", Locality: "L", Address: "X", City: "C", State: "S",
	}))
	require.NoError(t, s.Checkout.ConfirmAddress())
	require.NoError(t, s.Checkout.SelectPayment(domain.PaymentMethodCashOnDelivery))

	order, err := s.Checkout.PlaceOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1099), order.Total)
	require.Len(t, listener.orders, 1)
	assert.Equal(t, order.ID, listener.orders[0].ID)
	assert.Zero(t, s.Cart.Len())
	assert.Equal(t, domain.CheckoutStageCompleted, s.Checkout.Stage())
}

func TestSession_IdentityPerSession(t *testing.T) {
	reg := NewRegistry(Deps{Authenticator: mockAuth{}})
	defer reg.Close()
	ctx := context.Background()

	a, _ := reg.Resolve(ctx, "")
	b, _ := reg.Resolve(ctx, "")

	_, err := a.Identity.Login(ctx, "a@x.io", "pw")
	require.NoError(t, err)
	assert.True(t, a.Identity.Identity().IsAuthenticated())
	assert.False(t, b.Identity.Identity().IsAuthenticated())
}

// fakeNow is a settable clock for the registry.
type fakeNow struct {
	m   sync.Mutex
	now time.Time
}

func (f *fakeNow) Now() time.Time {
	f.m.Lock()
	defer f.m.Unlock()
	return f.now
}

func (f *fakeNow) Advance(d time.Duration) {
	f.m.Lock()
	defer f.m.Unlock()
	f.now = f.now.Add(d)
}

func newRepository() *mockRepository {
	return &mockRepository{carts: make(map[string]*domain.SavedCart)}
}

func TestRegistry_EvictsIdleSessions(t *testing.T) {
	clock := &fakeNow{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	reg := NewRegistry(Deps{
		Submitter:       &mockSubmitter{},
		IdleTimeout:     10 * time.Minute,
		CleanupInterval: time.Hour,
		Now:             clock.Now,
	})
	defer reg.Close()
	ctx := context.Background()

	active, err := reg.Resolve(ctx, "")
	require.NoError(t, err)
	for i := 0; i < 99; i++ {
		_, err := reg.Resolve(ctx, "")
		require.NoError(t, err)
	}
	require.Equal(t, 100, reg.Len())

	clock.Advance(6 * time.Minute)
	_, err = reg.Resolve(ctx, active.ID)
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	reg.evictIdle()
	assert.Equal(t, 1, reg.Len())

	again, err := reg.Resolve(ctx, active.ID)
	require.NoError(t, err)
	assert.Same(t, active, again)

	clock.Advance(11 * time.Minute)
	reg.evictIdle()
	assert.Zero(t, reg.Len())
}

func TestRegistry_CleanupLoopEvicts(t *testing.T) {
	reg := NewRegistry(Deps{
		Submitter:       &mockSubmitter{},
		IdleTimeout:     time.Millisecond,
		CleanupInterval: 5 * time.Millisecond,
	})
	defer reg.Close()

	for i := 0; i < 10; i++ {
		_, err := reg.Resolve(context.Background(), "")
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool { return reg.Len() == 0 },
		time.Second, 10*time.Millisecond, "idle sessions were not evicted")
}

func TestRegistry_EvictedSessionIsRebuilt(t *testing.T) {
	clock := &fakeNow{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	repo := newRepository()
	reg := NewRegistry(Deps{
		Submitter:       &mockSubmitter{},
		Persister:       cart.NewPersister(repo, nil, nil),
		IdleTimeout:     time.Minute,
		CleanupInterval: time.Hour,
		Now:             clock.Now,
	})
	defer reg.Close()
	ctx := context.Background()

	s, err := reg.Resolve(ctx, "")
	require.NoError(t, err)
	s.Cart.AddItem(domain.Product{ID: "1", Price: 1000})

	clock.Advance(2 * time.Minute)
	reg.evictIdle()
	require.Zero(t, reg.Len())

	s.Cart.AddItem(domain.Product{ID: "2", Price: 10})
	assert.Len(t, repo.lines(s.ID), 1, "evicted sessions stop persisting")

	rebuilt, err := reg.Resolve(ctx, s.ID)
	require.NoError(t, err)
	assert.NotSame(t, s, rebuilt)
	assert.Equal(t, int64(1000), rebuilt.Cart.Total())
}

func TestResolve_CancelledRequestStillBindsPersistence(t *testing.T) {
	repo := newRepository()
	reg := NewRegistry(Deps{Submitter: &mockSubmitter{}, Persister: cart.NewPersister(repo, nil, nil)})
	defer reg.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := reg.Resolve(ctx, "")
	require.NoError(t, err)
	s.Cart.AddItem(domain.Product{ID: "1", Price: 1000})

	assert.Len(t, repo.lines(s.ID), 1)
}

func TestResolve_RetriesFailedRestore(t *testing.T) {
	repo := newRepository()
	id := uuid.NewString()
	repo.carts[id] = &domain.SavedCart{SessionID: id, Lines: []domain.CartLine{
		{Product: domain.Product{ID: "old", Price: 100}, Quantity: 1},
	}}
	repo.failGets = 1
	reg := NewRegistry(Deps{Submitter: &mockSubmitter{}, Persister: cart.NewPersister(repo, nil, nil)})
	defer reg.Close()
	ctx := context.Background()

	s, err := reg.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, s.Cart.Len(), "restore failed, cart starts empty")

	s.Cart.AddItem(domain.Product{ID: "new", Price: 500})
	require.Len(t, repo.lines(id), 1)
	assert.Equal(t, "old", repo.lines(id)[0].Product.ID, "nothing saved while detached")

	again, err := reg.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Same(t, s, again)
	require.Len(t, repo.lines(id), 1)
	assert.Equal(t, "new", repo.lines(id)[0].Product.ID, "the live cart wins once persistence is back")

	s.Cart.UpdateQuantity("new", 3)
	assert.Equal(t, 3, repo.lines(id)[0].Quantity)
}

func TestResolve_RetryRestoresUntouchedCart(t *testing.T) {
	repo := newRepository()
	id := uuid.NewString()
	repo.carts[id] = &domain.SavedCart{SessionID: id, Lines: []domain.CartLine{
		{Product: domain.Product{ID: "old", Price: 100}, Quantity: 2},
	}}
	repo.failGets = 1
	reg := NewRegistry(Deps{Submitter: &mockSubmitter{}, Persister: cart.NewPersister(repo, nil, nil)})
	defer reg.Close()
	ctx := context.Background()

	s, err := reg.Resolve(ctx, id)
	require.NoError(t, err)
	require.Zero(t, s.Cart.Len())

	_, err = reg.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(200), s.Cart.Total())
}
