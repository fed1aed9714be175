package repository

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/logogen/logogen-backend/internal/orders/domain"
)

// MemoryRepository keeps orders in process memory. It backs ORDER_STORE=memory for local runs.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[string]domain.Order)}
}

func (r *MemoryRepository) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.SessionID]; ok {
		return domain.ErrOrderExists
	}
	r.orders[o.SessionID] = copyOrder(o)
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, sessionID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[sessionID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	out := copyOrder(&o)
	return &out, nil
}

func (r *MemoryRepository) Update(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.SessionID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.orders[o.SessionID] = copyOrder(o)
	return nil
}

func (r *MemoryRepository) ListExpired(_ context.Context, before time.Time, limit int) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Order
	for _, o := range r.orders {
		if o.Status == domain.StatusCompleted && !o.ExpiresAt.After(before) {
			c := copyOrder(&o)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyOrder(o *domain.Order) domain.Order {
	c := *o
	c.DownloadLinks = maps.Clone(o.DownloadLinks)
	return c
}
