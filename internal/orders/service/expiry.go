package service

import (
	"context"
	"time"

	"github.com/logogen/logogen-backend/internal/orders/domain"
)

const expiryBatchSize = 100

// ExpireOrders marks lapsed orders expired and deletes their stored files.
// An order whose files could not be deleted stays completed and is retried on the next run.
func (s *OrderService) ExpireOrders(ctx context.Context, now time.Time) (int, error) {
	expired := 0
	for {
		batch, err := s.repo.ListExpired(ctx, now, expiryBatchSize)
		if err != nil {
			return expired, err
		}

		progressed := 0
		for _, o := range batch {
			if err := ctx.Err(); err != nil {
				return expired, err
			}
			if s.expire(ctx, o) {
				progressed++
			}
		}
		expired += progressed

		if len(batch) < expiryBatchSize || progressed == 0 {
			return expired, nil
		}
	}
}

func (s *OrderService) expire(ctx context.Context, o *domain.Order) bool {
	log := s.logger.With("session_id", o.SessionID)
	for ft := range o.DownloadLinks {
		key := domain.ObjectKey(s.cfg.KeyPrefix, o.SessionID, ft)
		if err := s.store.Delete(ctx, key); err != nil {
			log.WarnContext(ctx, "failed to delete expired file", "key", key, "error", err)
			return false
		}
	}

	o.Status = domain.StatusExpired
	if err := s.repo.Update(ctx, o); err != nil {
		log.WarnContext(ctx, "failed to mark order expired", "error", err)
		return false
	}
	log.InfoContext(ctx, "order expired", "files", len(o.DownloadLinks))
	return true
}
