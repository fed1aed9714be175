package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Stripe   StripeConfig
	Firebase FirebaseConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Email    EmailConfig
	Checkout CheckoutConfig
	Orders   OrdersConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	// TrustedProxies are the proxy IPs/CIDRs whose X-Forwarded-For is believed; empty trusts none.
	TrustedProxies  []string
	ShutdownTimeout time.Duration
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	// Domain is the public site origin used for checkout success/cancel URLs.
	Domain string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
	StorageBucket   string
	AdminEmails     []string
}

type StorageConfig struct {
	// Backend is "firebase", "s3" or "local".
	Backend   string
	S3Bucket  string
	S3Region  string
	KeyPrefix string
	// LocalDir and PublicBaseURL apply to the local backend; PublicBaseURL also overrides S3 URLs.
	LocalDir      string
	PublicBaseURL string
}

type DatabaseConfig struct {
	// OrderStore is "firestore", "postgres" or "memory" (local development only).
	OrderStore string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	OrderTTL time.Duration
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Support  string
}

type CheckoutConfig struct {
	RatePerMinute int
	Burst         int
}

type OrdersConfig struct {
	LinkTTL           time.Duration
	SweepSchedule     string
	FulfilmentTimeout time.Duration
	FontsDir          string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			TrustedProxies:  getEnvAsList("TRUSTED_PROXIES", nil),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Domain:      strings.TrimRight(getEnv("PUBLIC_DOMAIN", "http://localhost:3000"), "/"),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			Currency:      getEnv("STRIPE_CURRENCY", "usd"),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			StorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
			AdminEmails:     getEnvAsList("ADMIN_EMAILS", nil),
		},
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", "firebase"),
			S3Bucket:      getEnv("S3_BUCKET", ""),
			S3Region:      getEnv("AWS_REGION", "us-east-1"),
			KeyPrefix:     getEnv("STORAGE_KEY_PREFIX", "logos"),
			LocalDir:      getEnv("LOCAL_STORAGE_DIR", "./data/files"),
			PublicBaseURL: strings.TrimRight(getEnv("STORAGE_PUBLIC_BASE_URL", ""), "/"),
		},
		Database: DatabaseConfig{
			OrderStore: getEnv("ORDER_STORE", "firestore"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvAsInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			Name:       getEnv("DB_NAME", "logogen"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			OrderTTL: getEnvAsDuration("REDIS_ORDER_TTL", 5*time.Minute),
		},
		Email: EmailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", "LogoGen <noreply@logogen.com>"),
			Support:  getEnv("SUPPORT_EMAIL", "support@logogen.com"),
		},
		Checkout: CheckoutConfig{
			RatePerMinute: getEnvAsInt("CHECKOUT_RATE_PER_MINUTE", 20),
			Burst:         getEnvAsInt("CHECKOUT_BURST", 5),
		},
		Orders: OrdersConfig{
			LinkTTL:           getEnvAsDuration("LINK_TTL", 30*24*time.Hour),
			SweepSchedule:     getEnv("EXPIRY_SWEEP_SCHEDULE", "0 30 3 * * *"),
			FulfilmentTimeout: getEnvAsDuration("FULFILMENT_TIMEOUT", 60*time.Second),
			FontsDir:          getEnv("FONTS_DIR", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Storage.Backend {
	case "firebase", "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be firebase, s3 or local, got %q", c.Storage.Backend)
	}

	switch c.Database.OrderStore {
	case "firestore", "memory":
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required when ORDER_STORE=postgres")
		}
	default:
		return fmt.Errorf("ORDER_STORE must be firestore, postgres or memory, got %q", c.Database.OrderStore)
	}

	if c.Orders.LinkTTL <= 0 {
		return fmt.Errorf("LINK_TTL must be positive")
	}

	if c.App.Environment == "production" {
		if c.Stripe.SecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY is required")
		}
		if c.Stripe.WebhookSecret == "" {
			return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
		}
	}

	return nil
}

// EmailEnabled reports whether SMTP delivery is configured.
func (c *EmailConfig) EmailEnabled() bool {
	return c.Host != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
