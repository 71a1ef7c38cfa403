package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	Env             string
	OrderTable      string
	OrderQueueURL   string
	DeadLetterURL   string
	AlertTopicARN   string
	MaxMessages     int32
	WaitTime        time.Duration
	Visibility      time.Duration
	MaxReceiveCount int
}

func Load() Config {
	return Config{
		Port:            getEnv("PORT", "8082"),
		Env:             getEnv("APP_ENV", "development"),
		OrderTable:      getEnv("ORDER_TABLE_NAME", "order"),
		OrderQueueURL:   getEnv("ORDER_QUEUE_URL", ""),
		DeadLetterURL:   getEnv("ORDER_DLQ_URL", ""),
		AlertTopicARN:   getEnv("ALERT_TOPIC_ARN", ""),
		MaxMessages:     int32(getEnvInt("SQS_MAX_MESSAGES", 10)),
		WaitTime:        time.Duration(getEnvInt("SQS_WAIT_SECONDS", 20)) * time.Second,
		Visibility:      time.Duration(getEnvInt("SQS_VISIBILITY_SECONDS", 30)) * time.Second,
		MaxReceiveCount: getEnvInt("SQS_MAX_RECEIVE_COUNT", 5),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
