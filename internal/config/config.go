package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	Env         string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	AdminWhitelist   []string
	WhitelistOrigins []string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string

	RedisAddr      string
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found, using system environment: %v", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "releasehub"),
		Env:         EnvDefault("ENV", "development"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),
		AccessTokenTTL:   EnvDurationDefault("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:  EnvDurationDefault("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		AdminWhitelist:   CSV(os.Getenv("WHITELIST_ADMIN_MAIL")),
		WhitelistOrigins: CSV(os.Getenv("WHITELIST_ORIGINS")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),

		RedisAddr:      os.Getenv("REDIS_ADDR"),
		AuthRateLimit:  EnvIntDefault("AUTH_RATE_LIMIT", 60),
		AuthRateWindow: EnvDurationDefault("AUTH_RATE_WINDOW", time.Minute),
	}
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
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

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
