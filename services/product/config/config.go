package config

import (
	"os"
	"time"
)

type Config struct {
	Port         string
	Env          string
	ProductTable string
	RedisURL     string
	ImageBucket  string
	CacheTTL     time.Duration
}

func Load() Config {
	return Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("APP_ENV", "development"),
		ProductTable: getEnv("PRODUCT_TABLE_NAME", "product"),
		RedisURL:     getEnv("REDIS_URL", ""),
		ImageBucket:  getEnv("PRODUCT_IMAGE_BUCKET", ""),
		CacheTTL:     10 * time.Minute,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
