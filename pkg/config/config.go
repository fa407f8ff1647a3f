package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	AppEnv      string
	LogLevel    string

	ServerPort int

	DatabaseURL    string
	DBDriver       string
	AutoMigrate    bool
	DBMaxOpenConns int
	DBMaxIdleConns int

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	SentryDSN string

	RateLimitRPS   float64
	RateLimitBurst int
	// TrustedProxies are CIDRs whose X-Forwarded-For is believed. Empty
	// means the client IP is the TCP peer.
	TrustedProxies []string

	ShutdownTimeout time.Duration
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "tasks"),
		AppEnv:      EnvDefault("APP_ENV", "development"),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		ServerPort: EnvIntDefault("SERVER_PORT", EnvIntDefault("TASKS_SERVICE_PORT", 5003)),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBDriver:    EnvDefault("DB_DRIVER", "pgx"),
		AutoMigrate: EnvBoolDefault("AUTO_MIGRATE", true),

		DBMaxOpenConns: EnvIntDefault("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns: EnvIntDefault("DB_MAX_IDLE_CONNS", 10),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "task_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "tasks"),

		SentryDSN: os.Getenv("SENTRY_DSN"),

		RateLimitRPS:   EnvFloatDefault("RATE_LIMIT_RPS", 20),
		RateLimitBurst: EnvIntDefault("RATE_LIMIT_BURST", 40),
		TrustedProxies: CSV(os.Getenv("TRUSTED_PROXIES")),

		ShutdownTimeout: EnvDurationDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
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
	if v := os.Getenv(key); v != "" {
		return v
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

func EnvFloatDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
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

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
