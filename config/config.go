package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	HTTP      ServerConfig
	MySQL     MySQLConfig
	Log       LogConfig
	Auth      AuthConfig
	Stripe    StripeConfig
	OpenAI    OpenAIConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	ServiceName string
	Env         string
	FrontendURL string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

type StripeConfig struct {
	SecretKey                 string
	WebhookSecret             string
	SuccessURL                string
	CancelURL                 string
	SignatureToleranceSeconds int64
	HTTPTimeout               time.Duration
}

type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	HTTPTimeout time.Duration
}

type RateLimitConfig struct {
	AuthPerMinute int
	AIPerMinute   int
}

type JobsConfig struct {
	UnprocessedEventsInterval time.Duration
	StaleOrdersInterval       time.Duration
	EventStaleAfter           time.Duration
	OrderStaleAfter           time.Duration
	BatchSize                 int32
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:3000")

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "mpu-platform"),
			Env:         getEnv("APP_ENV", "dev"),
			FrontendURL: frontendURL,
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8000"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:  jwtSecret,
			TokenTTL:   getMinutesEnv("JWT_TTL_MINUTES", 7*24*60*time.Minute),
			BcryptCost: getIntEnv("BCRYPT_COST", 12),
		},
		Stripe: StripeConfig{
			SecretKey:                 getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:             getEnv("STRIPE_WEBHOOK_SECRET", ""),
			SuccessURL:                getEnv("CHECKOUT_SUCCESS_URL", frontendURL+"/dashboard?checkout=success"),
			CancelURL:                 getEnv("CHECKOUT_CANCEL_URL", frontendURL+"/pricing?checkout=cancelled"),
			SignatureToleranceSeconds: int64(getIntEnv("STRIPE_SIGNATURE_TOLERANCE_SECONDS", 300)),
			HTTPTimeout:               getSecondsEnv("STRIPE_HTTP_TIMEOUT_SECONDS", 10*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			HTTPTimeout: getSecondsEnv("OPENAI_HTTP_TIMEOUT_SECONDS", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: getIntEnv("RATE_LIMIT_AUTH_PER_MINUTE", 20),
			AIPerMinute:   getIntEnv("RATE_LIMIT_AI_PER_MINUTE", 30),
		},
		Jobs: JobsConfig{
			UnprocessedEventsInterval: getMinutesEnv("JOBS_UNPROCESSED_EVENTS_INTERVAL_MINUTES", 5*time.Minute),
			StaleOrdersInterval:       getMinutesEnv("JOBS_STALE_ORDERS_INTERVAL_MINUTES", 15*time.Minute),
			EventStaleAfter:           getMinutesEnv("JOBS_EVENT_STALE_AFTER_MINUTES", 10*time.Minute),
			OrderStaleAfter:           getMinutesEnv("JOBS_ORDER_STALE_AFTER_MINUTES", 24*60*time.Minute),
			BatchSize:                 int32(getIntEnv("JOBS_BATCH_SIZE", 100)),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
