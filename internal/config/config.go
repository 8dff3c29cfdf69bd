package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddress      string
	MongoURI           string
	MongoDatabase      string
	SessionSecret      string
	SessionTTL         time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
}

func Load() *Config {
	return &Config{
		ServerAddress:      getEnv("SERVER_ADDRESS", ":5050"),
		MongoURI:           getEnv("MONGODB_CONNECTION_STRING", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGO_DB_NAME", "voosh"),
		SessionSecret:      getEnv("SESSION_SECRET", "your-secret-key-change-in-production"),
		SessionTTL:         24 * time.Hour,
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleCallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:5050/auth/google/callback"),
		RateLimitRequests:  getEnvInt("RATE_LIMIT_REQUESTS", 20),
		RateLimitWindow:    2 * time.Minute,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
