package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration shared by the three binaries.
type Config struct {
	Port              string
	LogLevel          string
	DatabaseURL       string
	RedisURL          string
	RabbitMQURL       string
	ProbeQueue        string
	OriginationNumber string
	SMSGatewayURL     string
	SMSWebhookToken   string
	GeocoderURL       string
	GeocoderIndex     string
	LocatorURL        string
	SweepInterval     time.Duration
	TeardownGrace     time.Duration
	TeardownTimeout   time.Duration
	StoreRadiusKM     int
	StoreCategory     int
}

// Load loads the configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RedisURL:          getEnv("REDIS_URL", ""),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		ProbeQueue:        getEnv("PROBE_QUEUE", "chatime.monitoring.queue"),
		OriginationNumber: getEnv("ORIGINATION_NUMBER", ""),
		SMSGatewayURL:     getEnv("SMS_GATEWAY_URL", ""),
		SMSWebhookToken:   getEnv("SMS_WEBHOOK_TOKEN", ""),
		GeocoderURL:       getEnv("GEOCODER_URL", ""),
		GeocoderIndex:     getEnv("GEOCODER_INDEX", "place-index"),
		LocatorURL:        getEnv("LOCATOR_URL", "https://chatime.com/wp-admin/admin-ajax.php"),
		SweepInterval:     getEnvAsDuration("SWEEP_INTERVAL", time.Minute),
		TeardownGrace:     getEnvAsDuration("TEARDOWN_GRACE", 30*time.Second),
		TeardownTimeout:   getEnvAsDuration("TEARDOWN_TIMEOUT", 5*time.Minute),
		StoreRadiusKM:     getEnvAsInt("STORE_RADIUS_KM", 50),
		StoreCategory:     getEnvAsInt("STORE_CATEGORY", 63),
	}, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("invalid duration for %s; using default %s", key, defaultValue)
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("invalid integer for %s; using default %d", key, defaultValue)
	}
	return defaultValue
}
