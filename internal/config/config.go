package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// AuthJWKSURL points at the identity provider's JWKS endpoint. Empty
	// disables authentication; imports then run without an audit actor.
	AuthJWKSURL string
	// DefaultBatchSize applies when the request does not carry batchSize.
	DefaultBatchSize int
	// MaxUploadMB bounds the multipart form size.
	MaxUploadMB int64
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      env,
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		CORSOrigins:      getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:      getEnv("TABLE_PREFIX", ""),
		AuthJWKSURL:      getEnv("AUTH_JWKS_URL", ""),
		DefaultBatchSize: getEnvInt("DEFAULT_BATCH_SIZE", 100),
		MaxUploadMB:      int64(getEnvInt("MAX_UPLOAD_MB", 32)),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
