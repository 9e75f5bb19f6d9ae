package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MongoURI    string
	MongoDB     string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	AdminEmail string
	AdminPass  string
	JWTSecret  string
	JWTTTL     time.Duration

	HostawayBase  string
	HostawayToken string
	SeedFile      string
	Workers       int
	ReviewCount   int
	CacheTTL      time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8081"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MongoURI:    env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     env("MONGO_DB", "flexreviews"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),

		AdminEmail: env("ADMIN_EMAIL", ""),
		AdminPass:  env("ADMIN_PASSWORD", ""),
		JWTSecret:  env("JWT_SECRET", ""),
		JWTTTL:     time.Duration(atoi("JWT_TTL_HOURS", 168)) * time.Hour,

		HostawayBase:  env("HOSTAWAY_BASE_URL", "https://api.hostaway.com/v1"),
		HostawayToken: env("HOSTAWAY_TOKEN", ""),
		SeedFile:      env("SEED_FILE", "data/hostaway.json"),
		Workers:       atoi("INGEST_WORKERS", 8),
		ReviewCount:   atoi("INGEST_REVIEW_COUNT", 200),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty")
	}
	if c.AdminEmail == "" || c.AdminPass == "" {
		log.Warn().Msg("admin credentials not configured; login will always fail")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
