// ==============================================================================
// CONFIG PACKAGE - pkg/config/config.go
// ==============================================================================
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Service   ServiceConfig
	Retrieval RetrievalConfig
	Redis     RedisConfig
	Metrics   MetricsConfig
}

type ServiceConfig struct {
	Name     string
	LogLevel string
}

type RetrievalConfig struct {
	Enabled bool
	DocsDir string
	TopK    int
	Timeout time.Duration
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Password string
	DB       int
	PatchTTL time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

func Load() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:     getEnv("SERVICE_NAME", "underwriting-engine"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Retrieval: RetrievalConfig{
			Enabled: getBoolEnv("POLICY_RETRIEVAL_ENABLED", false),
			DocsDir: getEnv("POLICY_DOCS_DIR", "bank_docs"),
			TopK:    getIntEnv("POLICY_RETRIEVAL_TOP_K", 3),
			Timeout: getDurationEnv("POLICY_RETRIEVAL_TIMEOUT", 2*time.Second),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
			URL:      normalizeRedisURL(getEnv("REDIS_URL", "localhost:6379")),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			PatchTTL: getDurationEnv("POLICY_PATCH_TTL", 15*time.Minute),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("METRICS_ENABLED", true),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func normalizeRedisURL(url string) string {
	url = strings.TrimPrefix(url, "redis://")
	url = strings.TrimPrefix(url, "rediss://")
	if i := strings.Index(url, "@"); i >= 0 {
		url = url[i+1:]
	}
	return url
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
