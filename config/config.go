package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	AppMode       string
	LogMode       string
	DBDriver      string
	DBPath        string
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string
	JWTSecret     string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	ProfileServiceURL    string
	IcebreakerServiceURL string
	ExternalServiceToken string
	ExternalTimeout      time.Duration

	RequestTimeout   time.Duration
	ReadDebounce     time.Duration
	MessageRateLimit int
	LegacyScanLimit  int
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		AppMode:       getEnv("APP_MODE", "debug"),
		LogMode:       getEnv("LOG_MODE", "development"),
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DBPath:        getEnv("DB_PATH", "spark-chat.db"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "spark_chat"),
		DBPort:        getEnv("DB_PORT", "5432"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		ProfileServiceURL:    getEnv("PROFILE_SERVICE_URL", "http://localhost:8000"),
		IcebreakerServiceURL: getEnv("ICEBREAKER_SERVICE_URL", "http://localhost:8000"),
		ExternalServiceToken: getEnv("EXTERNAL_SERVICE_TOKEN", ""),
		ExternalTimeout:      getEnvAsMillis("EXTERNAL_TIMEOUT_MS", 10000),

		RequestTimeout:   getEnvAsMillis("REQUEST_TIMEOUT_MS", 5000),
		ReadDebounce:     getEnvAsMillis("READ_DEBOUNCE_MS", 500),
		MessageRateLimit: getEnvAsInt("MESSAGE_RATE_LIMIT", 60),
		LegacyScanLimit:  getEnvAsInt("LEGACY_SCAN_LIMIT", 500),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsMillis(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Millisecond
}
