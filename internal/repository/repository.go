package repository

import (
	"context"
	"errors"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// CartRepository stores the cart of each storefront session.
type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*domain.SavedCart, error)
	UpsertCart(ctx context.Context, cart *domain.SavedCart) error
	DeleteCart(ctx context.Context, sessionID string) error
}
