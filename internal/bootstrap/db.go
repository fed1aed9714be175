package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/logogen/logogen-backend/config"
	"github.com/logogen/logogen-backend/internal/orders/repository"
	"github.com/logogen/logogen-backend/internal/storage/postgres"
)

// OrderStore is the configured order repository plus the handles the process must close.
type OrderStore struct {
	Repo repository.Repository
	// Pool is set for the postgres backend and feeds the health check.
	Pool *pgxpool.Pool

	closers []func() error
}

func (s *OrderStore) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenOrderStore selects the order backend from ORDER_STORE and fronts it with the
// Redis read-through cache when rdb is not nil. app may be nil unless ORDER_STORE=firestore.
func OpenOrderStore(ctx context.Context, cfg *config.Config, app *firebase.App, rdb *redis.Client) (*OrderStore, error) {
	store := &OrderStore{}

	switch cfg.Database.OrderStore {
	case "firestore":
		if app == nil {
			return nil, fmt.Errorf("ORDER_STORE=firestore needs Firebase credentials")
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("firestore client: %w", err)
		}
		store.closers = append(store.closers, client.Close)
		store.Repo = repository.NewFirestoreRepository(client)

	case "postgres":
		pool, err := postgres.OpenPool(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		store.closers = append(store.closers, func() error { pool.Close(); return nil })
		store.Pool = pool
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			store.Close()
			return nil, err
		}

		var db *sql.DB
		if db, err = postgres.NewConnection(ctx, &cfg.Database); err != nil {
			store.Close()
			return nil, err
		}
		store.closers = append(store.closers, db.Close)
		store.Repo = repository.NewPostgresRepository(db)

	case "memory":
		slog.Warn("using in-memory order store; orders are lost on restart")
		store.Repo = repository.NewMemoryRepository()

	default:
		return nil, fmt.Errorf("unknown order store %q", cfg.Database.OrderStore)
	}

	if rdb != nil {
		store.Repo = repository.NewCachedRepository(store.Repo, rdb, cfg.Redis.OrderTTL)
	}
	return store, nil
}

// OpenRedis returns nil when REDIS_ADDR is unset.
func OpenRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
