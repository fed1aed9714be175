package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/logogen/logogen-backend/config"
	"github.com/logogen/logogen-backend/internal/api/http/middleware"
	"github.com/logogen/logogen-backend/internal/api/http/routes"
	authmw "github.com/logogen/logogen-backend/internal/auth/middleware"
	"github.com/logogen/logogen-backend/internal/bootstrap"
	"github.com/logogen/logogen-backend/internal/catalog"
	"github.com/logogen/logogen-backend/internal/checkout"
	checkouthttp "github.com/logogen/logogen-backend/internal/checkout/http"
	"github.com/logogen/logogen-backend/internal/cronjob"
	"github.com/logogen/logogen-backend/internal/logging"
	ordershttp "github.com/logogen/logogen-backend/internal/orders/http"
	"github.com/logogen/logogen-backend/internal/preview"
)

const serviceName = "logogen-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.Setup(logging.Config{Level: cfg.App.LogLevel, Environment: cfg.App.Environment})
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	cat, err := catalog.Default()
	if err != nil {
		logger.Error("load catalog", "error", err)
		os.Exit(1)
	}

	limiter := middleware.NewIPRateLimiter(cfg.Checkout.RatePerMinute, cfg.Checkout.Burst)

	v1 := routes.V1Deps{
		Checkout: checkouthttp.New(checkout.NewService(app.Payments, cfg.App.Domain, cfg.Stripe.Currency)),
		Orders:   ordershttp.New(app.OrderSvc, app.Payments),
		Catalog:  catalog.NewHandler(cat),
		Preview:  preview.NewHandler(preview.NewService(cat, app.Raster)),
		Limit:    limiter.Middleware(),
	}
	if app.Firebase != nil && len(cfg.Firebase.AdminEmails) > 0 {
		authClient, err := app.Firebase.Auth(ctx)
		if err != nil {
			logger.Error("firebase auth client", "error", err)
			os.Exit(1)
		}
		v1.AdminAuth = []gin.HandlerFunc{
			authmw.FirebaseAuthMiddleware(authClient),
			authmw.RequireAdmin(cfg.Firebase.AdminEmails),
		}
	}

	deps := bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
		Logger:         logger,
		DB:             app.Orders.Pool,
		Redis:          app.Redis,
		V1:             v1,
	}
	if cfg.Storage.Backend == "local" {
		deps.LocalFilesDir = cfg.Storage.LocalDir
	}
	router, err := bootstrap.BuildRouter(deps)
	if err != nil {
		logger.Error("build router", "error", err)
		os.Exit(1)
	}

	scheduler := cronjob.NewScheduler(logger, 0)
	if err := scheduler.Add("expire-orders", cfg.Orders.SweepSchedule, cronjob.ExpireOrdersJob(app.OrderSvc, logger)); err != nil {
		logger.Error("schedule expiry", "error", err)
		os.Exit(1)
	}
	if err := scheduler.Add("sweep-rate-limiter", "0 */10 * * * *", cronjob.SweepLimiterJob(limiter, 10*time.Minute, logger)); err != nil {
		logger.Error("schedule limiter sweep", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.App.Environment, "version", cfg.App.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Warn("cron shutdown", "error", err)
	}
}
