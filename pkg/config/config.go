package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string

	ServerPort int

	DatabaseURL string
	SeedData    bool

	JWTSecret        []byte
	JWTIssuer        string
	JWTAudience      string
	JWTDuration      time.Duration
	RefreshTokenDays int
	BcryptCost       int

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimit RateLimitConfig

	LogLevel string
}

// RateLimitConfig drives the token bucket in front of the authentication routes.
type RateLimitConfig struct {
	Enabled        bool
	Prefix         string
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "order-management"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		SeedData:    EnvBoolDefault("SEED_DATA", false),

		JWTSecret:        []byte(os.Getenv("JWT_SECRET")),
		JWTIssuer:        EnvDefault("JWT_ISSUER", "order-management"),
		JWTAudience:      EnvDefault("JWT_AUDIENCE", "order-management"),
		JWTDuration:      time.Duration(EnvIntDefault("JWT_DURATION_MINUTES", 60)) * time.Minute,
		RefreshTokenDays: EnvIntDefault("REFRESH_TOKEN_DAYS", 7),
		BcryptCost:       EnvIntDefault("BCRYPT_COST", 10),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "order-management.events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       EnvIntDefault("REDIS_DB", 0),

		RateLimit: RateLimitConfig{
			Enabled:        EnvBoolDefault("RATE_LIMIT_ENABLED", true),
			Prefix:         EnvDefault("RATE_LIMIT_PREFIX", "rl:auth"),
			Capacity:       EnvIntDefault("RATE_LIMIT_CAPACITY", 10),
			RefillTokens:   EnvIntDefault("RATE_LIMIT_REFILL_TOKENS", 1),
			RefillInterval: time.Duration(EnvIntDefault("RATE_LIMIT_REFILL_SECONDS", 6)) * time.Second,
			TTL:            time.Duration(EnvIntDefault("RATE_LIMIT_TTL_SECONDS", 600)) * time.Second,
		},

		LogLevel: EnvDefault("LOG_LEVEL", "info"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
