package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"github.com/redis/go-redis/v9"

	"github.com/logogen/logogen-backend/config"
	"github.com/logogen/logogen-backend/internal/auth"
	"github.com/logogen/logogen-backend/internal/logo/render"
	"github.com/logogen/logogen-backend/internal/notify"
	"github.com/logogen/logogen-backend/internal/orders/service"
	"github.com/logogen/logogen-backend/internal/payments"
	"github.com/logogen/logogen-backend/internal/storage/blob"
)

// App holds the process-wide dependencies shared by the API server and the worker CLI.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Firebase *firebase.App
	Redis    *redis.Client
	Orders   *OrderStore
	Files    blob.Store
	Raster   *render.Rasterizer
	Payments payments.Provider
	Mailer   notify.Mailer
	OrderSvc *service.OrderService
}

func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	if needsFirebase(cfg) {
		fb, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return nil, err
		}
		app.Firebase = fb
	}

	rdb, err := OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		return nil, err
	}
	app.Redis = rdb

	if app.Orders, err = OpenOrderStore(ctx, cfg, app.Firebase, rdb); err != nil {
		app.Close()
		return nil, err
	}
	if app.Files, err = OpenBlobStore(ctx, cfg, app.Firebase); err != nil {
		app.Close()
		return nil, err
	}

	fonts, err := render.NewFontRegistry()
	if err != nil {
		app.Close()
		return nil, err
	}
	if cfg.Orders.FontsDir != "" {
		n, err := fonts.LoadDir(cfg.Orders.FontsDir)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("load fonts: %w", err)
		}
		logger.Info("fonts loaded", "dir", cfg.Orders.FontsDir, "count", n)
	}
	app.Raster = render.NewRasterizer(fonts)

	app.Payments = payments.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	if cfg.Email.EmailEnabled() {
		app.Mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.User,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			Support:  cfg.Email.Support,
			LinkTTL:  cfg.Orders.LinkTTL,
		})
	} else {
		logger.Warn("SMTP_HOST not set; download emails are logged instead of sent")
		app.Mailer = notify.NewLogMailer(logger)
	}

	app.OrderSvc = service.NewOrderService(app.Orders.Repo, app.Files, app.Payments, app.Raster, app.Mailer, logger, service.Config{
		KeyPrefix:         cfg.Storage.KeyPrefix,
		LinkTTL:           cfg.Orders.LinkTTL,
		FulfilmentTimeout: cfg.Orders.FulfilmentTimeout,
	})
	return app, nil
}

func (a *App) Close() {
	if a.Orders != nil {
		if err := a.Orders.Close(); err != nil {
			a.Logger.Warn("closing order store", "error", err)
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}

func needsFirebase(cfg *config.Config) bool {
	return cfg.Database.OrderStore == "firestore" ||
		cfg.Storage.Backend == "firebase" ||
		len(cfg.Firebase.AdminEmails) > 0
}
