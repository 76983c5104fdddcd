package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	MongoURI string
	MongoDB  string

	JWTSecret string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioPublicURL string
	MinioUseSSL    bool

	// AdminGateModeration attaches the admin gate to the moderation
	// endpoints (approve, delete, demo review). Off by default to match
	// the soft-launch behavior of the public site.
	AdminGateModeration bool

	SiteBaseURL  string
	KeepAliveURL string
}

// Load initializes configuration from environment variables or defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017/reviews"),
		MongoDB:  getEnv("MONGO_DB", "reviews"),

		JWTSecret: getEnv("JWT_SECRET", "defaultSecret"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "review-images"),
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		AdminGateModeration: getEnvBool("ADMIN_GATE_MODERATION", false),

		SiteBaseURL:  getEnv("SITE_BASE_URL", "https://www.receptivesolutions.co.in"),
		KeepAliveURL: getEnv("KEEPALIVE_URL", ""),
	}

	if cfg.MinioPublicURL == "" {
		scheme := "http://"
		if cfg.MinioUseSSL {
			scheme = "https://"
		}
		cfg.MinioPublicURL = scheme + cfg.MinioEndpoint
	}

	if cfg.JWTSecret == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET. Update it in your environment.")
	}

	return cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool retrieves an environment variable as a bool or returns the default
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}
