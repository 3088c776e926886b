package catalog

import (
	"context"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// fetchTimeout bounds a shared catalog fetch once it no longer follows the
// request that started it.
const fetchTimeout = 10 * time.Second

// Lister fetches the live catalog.
type Lister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Listing is what the storefront shows: live products, or the demo catalog
// with DemoMode set and a diagnostic message when the backend failed.
type Listing struct {
	Products []domain.Product `json:"products"`
	DemoMode bool             `json:"demoMode"`
	Error    string           `json:"error,omitempty"`
}

type Service struct {
	source   Lister
	demo     []domain.Product
	describe func(error) string
	logger   *zap.Logger
	sfg      singleflight.Group // collapses concurrent fetches
}

func NewService(source Lister, describe func(error) string, logger *zap.Logger) *Service {
	if describe == nil {
		describe = func(err error) string { return err.Error() }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:   source,
		demo:     DemoProducts(),
		describe: describe,
		logger:   logger,
	}
}

// List never fails: an unreachable backend or an empty live catalog yields the
// demo products. Concurrent callers share one fetch, and a caller that goes
// away does not cancel it for the others.
func (s *Service) List(ctx context.Context) Listing {
	ch := s.sfg.DoChan("products", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return s.source.ListProducts(fetchCtx)
	})

	var (
		v   interface{}
		err error
	)
	select {
	case res := <-ch:
		v, err = res.Val, res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		s.logger.Warn("catalog fetch failed, serving demo products", zap.Error(err))
		return Listing{Products: s.demo, DemoMode: true, Error: s.describe(err)}
	}

	products := v.([]domain.Product)
	if len(products) == 0 {
		return Listing{Products: s.demo, DemoMode: true}
	}
	return Listing{Products: products}
}

// Get looks the product up in the live catalog, falling back to the demo
// products. The bool result reports whether the demo catalog answered.
func (s *Service) Get(ctx context.Context, id string) (domain.Product, bool, error) {
	listing := s.List(ctx)
	if p, ok := find(listing.Products, id); ok {
		return p, listing.DemoMode, nil
	}
	if !listing.DemoMode {
		if p, ok := find(s.demo, id); ok {
			return p, true, nil
		}
	}
	return domain.Product{}, false, ErrProductNotFound
}

func find(products []domain.Product, id string) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
