package cache

import (
	"context"
	"errors"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
)

type CartCache interface {
	Get(ctx context.Context, sessionID string) (*domain.SavedCart, error)
	Set(ctx context.Context, cart *domain.SavedCart) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrCacheMiss = errors.New("cache miss")
