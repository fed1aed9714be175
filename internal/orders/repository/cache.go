package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/logogen/logogen-backend/internal/orders/domain"
)

const orderKeyPrefix = "order:" // order:{session_id} -> order JSON

// CachedRepository fronts a Repository with Redis. The status endpoint is polled by the
// success page, so reads are served from the cache and every write refreshes it.
// Cache failures are logged and fall through to the backing store.
type CachedRepository struct {
	next   Repository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedRepository(next Repository, client *redis.Client, ttl time.Duration) *CachedRepository {
	return &CachedRepository{next: next, client: client, ttl: ttl}
}

func (r *CachedRepository) key(id string) string {
	return orderKeyPrefix + id
}

func (r *CachedRepository) Create(ctx context.Context, o *domain.Order) error {
	if err := r.next.Create(ctx, o); err != nil {
		return err
	}
	r.store(ctx, o)
	return nil
}

func (r *CachedRepository) Get(ctx context.Context, sessionID string) (*domain.Order, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	switch {
	case err == nil:
		var o domain.Order
		if uerr := json.Unmarshal(data, &o); uerr == nil {
			return &o, nil
		}
		slog.WarnContext(ctx, "discarding unreadable cached order", "session_id", sessionID)
	case !errors.Is(err, redis.Nil):
		slog.WarnContext(ctx, "order cache read failed", "session_id", sessionID, "error", err)
	}

	o, err := r.next.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, o)
	return o, nil
}

func (r *CachedRepository) Update(ctx context.Context, o *domain.Order) error {
	if err := r.next.Update(ctx, o); err != nil {
		return err
	}
	r.store(ctx, o)
	return nil
}

func (r *CachedRepository) ListExpired(ctx context.Context, before time.Time, limit int) ([]*domain.Order, error) {
	return r.next.ListExpired(ctx, before, limit)
}

func (r *CachedRepository) store(ctx context.Context, o *domain.Order) {
	data, err := json.Marshal(o)
	if err != nil {
		slog.WarnContext(ctx, "failed to marshal order for cache", "session_id", o.SessionID, "error", err)
		return
	}
	if err := r.client.Set(ctx, r.key(o.SessionID), data, r.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "order cache write failed", "session_id", o.SessionID, "error", err)
	}
}
