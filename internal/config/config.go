package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Providers ProvidersConfig
	Google    GoogleConfig
	Billing   BillingConfig
}

type ServerConfig struct {
	Port        string
	Environment string
	// Cohort selects the deployment feature set: "preview" or "full".
	Cohort      string
	SecretKey   string
	FrontendURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type RateLimitConfig struct {
	PreviewPerHour int
	FullPerHour    int
}

type ProvidersConfig struct {
	// APIKey is the shared marketplace key injected into upstream requests.
	APIKey string
	// HostOverrides remaps a provider host by registry key.
	HostOverrides map[string]string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type BillingConfig struct {
	StripeSecret  string
	WebhookSecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	previewLimit, _ := strconv.Atoi(getEnv("RATE_LIMIT_PREVIEW", "50"))
	fullLimit, _ := strconv.Atoi(getEnv("RATE_LIMIT_FULL", "200"))

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			Cohort:      getEnv("API_VERSION", "full"),
			SecretKey:   getEnv("SECRET_KEY", ""),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "orchestra"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-me-in-production"),
		},
		RateLimit: RateLimitConfig{
			PreviewPerHour: previewLimit,
			FullPerHour:    fullLimit,
		},
		Providers: ProvidersConfig{
			APIKey:        getEnv("PROVIDER_API_KEY", ""),
			HostOverrides: hostOverrides(os.Environ()),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/full/auth/google/callback"),
		},
		Billing: BillingConfig{
			StripeSecret:  getEnv("STRIPE_SECRET", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
	}
}

// hostOverrides reads PROVIDER_HOST_<KEY>=host pairs so a single upstream
// can be redirected without a rebuild. The key is lower-cased with
// underscores mapped to dashes, matching registry keys.
func hostOverrides(environ []string) map[string]string {
	const prefix = "PROVIDER_HOST_"
	overrides := make(map[string]string)
	for _, kv := range environ {
		if !strings.HasPrefix(kv, prefix) {
			continue
		}
		name, value, ok := strings.Cut(kv[len(prefix):], "=")
		if !ok || value == "" {
			continue
		}
		key := strings.ReplaceAll(strings.ToLower(name), "_", "-")
		overrides[key] = value
	}
	return overrides
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
