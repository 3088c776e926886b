package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/cache"
	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/Nivash8098/E-Commerece-Website/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const saveTimeout = 3 * time.Second

// Persister keeps session carts across restarts. The repository is the source
// of truth and the cache is read-through. Either may be nil.
type Persister struct {
	repo   repository.CartRepository
	cache  cache.CartCache
	logger *zap.Logger
	sfg    singleflight.Group
}

func NewPersister(repo repository.CartRepository, c cache.CartCache, logger *zap.Logger) *Persister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Persister{repo: repo, cache: c, logger: logger}
}

// Load returns the saved lines of a session, or nil when nothing was saved.
// Concurrent loads for one session share a single lookup.
func (p *Persister) Load(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	v, err, _ := p.sfg.Do(sessionID, func() (interface{}, error) {
		if p.cache != nil {
			saved, err := p.cache.Get(ctx, sessionID)
			if err == nil {
				return saved.Lines, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				p.logger.Warn("cart cache get failed", zap.String("session_id", sessionID), zap.Error(err))
			}
		}
		if p.repo == nil {
			return []domain.CartLine(nil), nil
		}

		saved, err := p.repo.GetCart(ctx, sessionID)
		if errors.Is(err, repository.ErrCartNotFound) {
			return []domain.CartLine(nil), nil
		}
		if err != nil {
			return nil, fmt.Errorf("load cart: %w", err)
		}
		if p.cache != nil {
			if err := p.cache.Set(ctx, saved); err != nil {
				p.logger.Warn("cart cache set failed", zap.String("session_id", sessionID), zap.Error(err))
			}
		}
		return saved.Lines, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.CartLine), nil
}

// Save writes the lines through to the repository and drops the cached copy.
// Without a repository the cache holds the only copy.
func (p *Persister) Save(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	saved := &domain.SavedCart{SessionID: sessionID, Lines: lines, UpdatedAt: time.Now().UTC()}
	if p.repo == nil {
		if p.cache == nil {
			return nil
		}
		if err := p.cache.Set(ctx, saved); err != nil {
			return fmt.Errorf("save cart: %w", err)
		}
		return nil
	}

	if err := p.repo.UpsertCart(ctx, saved); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	p.invalidate(ctx, sessionID)
	return nil
}

// Attach restores the saved lines into store and saves every later change.
// The returned func stops saving.
func (p *Persister) Attach(ctx context.Context, sessionID string, store *Store) (func(), error) {
	lines, err := p.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	store.Restore(lines)
	return p.Bind(sessionID, store), nil
}

// Bind saves every later change of store without restoring anything first.
// The returned func stops saving.
func (p *Persister) Bind(sessionID string, store *Store) func() {
	return store.Subscribe(func(lines []domain.CartLine) {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := p.Save(ctx, sessionID, lines); err != nil {
			p.logger.Warn("cart save failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	})
}

func (p *Persister) invalidate(ctx context.Context, sessionID string) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Delete(ctx, sessionID); err != nil {
		p.logger.Warn("cart cache invalidate failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}
