package cronjob

import (
	"context"
	"log/slog"
	"time"
)

// OrderExpirer is satisfied by the order service.
type OrderExpirer interface {
	ExpireOrders(ctx context.Context, now time.Time) (int, error)
}

// Sweeper drops idle entries; the checkout rate limiter implements it.
type Sweeper interface {
	Sweep(cutoff time.Time) int
}

func ExpireOrdersJob(svc OrderExpirer, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		n, err := svc.ExpireOrders(ctx, time.Now().UTC())
		if n > 0 {
			logger.InfoContext(ctx, "expired orders", "count", n)
		}
		return err
	}
}

// SweepLimiterJob forgets clients idle for longer than idle.
func SweepLimiterJob(s Sweeper, idle time.Duration, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		if n := s.Sweep(time.Now().Add(-idle)); n > 0 {
			logger.DebugContext(ctx, "rate limiter swept", "removed", n)
		}
		return nil
	}
}
