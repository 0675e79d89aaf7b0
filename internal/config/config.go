package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr string

	// storage
	StorageBackend string // sqlite, redis or memory
	SQLitePath     string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	// AI provider
	AIProvider string
	AIMinDelay time.Duration
	AIMaxDelay time.Duration

	// auth
	OTPCode string

	// pagination
	HistoryBatchSize int
	PageCap          int
	ScrollThreshold  int
	FetchCooldown    time.Duration

	CountriesBaseURL string

	LogLevel  string
	LogFormat string
}

func Load() Config {
	return Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		StorageBackend:   getEnv("STORAGE_BACKEND", "sqlite"),
		SQLitePath:       getEnv("SQLITE_PATH", "aichat.db"),
		RedisAddr:        getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		AIProvider:       getEnv("AI_PROVIDER", "canned"),
		AIMinDelay:       getEnvMillis("AI_MIN_DELAY_MS", 1000),
		AIMaxDelay:       getEnvMillis("AI_MAX_DELAY_MS", 4000),
		OTPCode:          getEnv("OTP_CODE", "123456"),
		HistoryBatchSize: getEnvInt("HISTORY_BATCH_SIZE", 20),
		PageCap:          getEnvInt("HISTORY_PAGE_CAP", 5),
		ScrollThreshold:  getEnvInt("SCROLL_THRESHOLD", 100),
		FetchCooldown:    getEnvMillis("FETCH_COOLDOWN_MS", 1000),
		CountriesBaseURL: getEnv("COUNTRIES_BASE_URL", "https://restcountries.com"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvMillis(key string, defMillis int) time.Duration {
	return time.Duration(getEnvInt(key, defMillis)) * time.Millisecond
}
