package repository

import (
	"context"
	"time"

	"github.com/logogen/logogen-backend/internal/orders/domain"
)

// Repository persists orders keyed by checkout session ID.
type Repository interface {
	// Create fails with domain.ErrOrderExists when the session already has an order.
	Create(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, sessionID string) (*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
	// ListExpired returns up to limit completed orders whose links lapsed at or before before.
	ListExpired(ctx context.Context, before time.Time, limit int) ([]*domain.Order, error)
}
