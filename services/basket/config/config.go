package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port            string
	Env             string
	BasketTable     string
	EventBusName    string
	EventSource     string
	EventDetailType string
	OrderQueueURL   string
	LocalBus        bool
}

func Load() Config {
	return Config{
		Port:            getEnv("PORT", "8081"),
		Env:             getEnv("APP_ENV", "development"),
		BasketTable:     getEnv("BASKET_TABLE_NAME", "basket"),
		EventBusName:    getEnv("EVENT_BUSNAME", "SwnEventBus"),
		EventSource:     getEnv("EVENT_SOURCE", "com.swn.basket.checkoutbasket"),
		EventDetailType: getEnv("EVENT_DETAILTYPE", "CheckoutBasket"),
		OrderQueueURL:   getEnv("ORDER_QUEUE_URL", ""),
		LocalBus:        getEnv("LOCAL_EVENT_BUS", "") == "true",
	}
}

// Validate rejects configurations that would otherwise only fail at request
// time. With the in-process bus there is no EventBridge rule to deliver
// checkout events, so the order queue URL must be known up front.
func (c Config) Validate() error {
	if c.LocalBus && c.OrderQueueURL == "" {
		return fmt.Errorf("ORDER_QUEUE_URL is required when LOCAL_EVENT_BUS is enabled")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
