package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	FredBaseURL     string
	FredAPIKey      string
	RedisURL        string
	CacheTTL        time.Duration
	RequestTimeout  time.Duration
	RateLimitPerMin int
}

func Load() Config {
	return Config{
		Port:            getEnv("PORT", "8080"),
		FredBaseURL:     getEnv("FRED_BASE_URL", "https://api.stlouisfed.org/fred"),
		FredAPIKey:      os.Getenv("FRED_API_KEY"),
		RedisURL:        os.Getenv("REDIS_URL"),
		CacheTTL:        getEnvDuration("CACHE_TTL_MACRO", 15*time.Minute),
		RequestTimeout:  getEnvDuration("FRED_REQUEST_TIMEOUT", 12*time.Second),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 120),
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return time.Duration(i) * time.Second
}
