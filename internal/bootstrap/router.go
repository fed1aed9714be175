package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/logogen/logogen-backend/internal/api/http"
	"github.com/logogen/logogen-backend/internal/api/http/middleware"
	"github.com/logogen/logogen-backend/internal/api/http/routes"
)

// LocalFilesRoute serves STORAGE_BACKEND=local objects.
const LocalFilesRoute = "/files"

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For; requests from anywhere else are keyed by their peer address.
	TrustedProxies []string
	Logger         *slog.Logger
	DB             *pgxpool.Pool
	Redis          *redis.Client
	// LocalFilesDir is served under LocalFilesRoute when set.
	LocalFilesDir string
	V1            routes.V1Deps
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(dep.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	if dep.LocalFilesDir != "" {
		r.Static(LocalFilesRoute, dep.LocalFilesDir)
	}

	routes.RegisterV1(r, dep.V1)
	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
