package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	UploadRoot string

	AuthDomain   string
	AuthAudience string
	JWKSCacheTTL time.Duration

	GinMode    string
	ServerPort string
}

func Load() *Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "wingsuser"),
		DBPassword: getEnv("DB_PASSWORD", "wingspassword"),
		DBName:     getEnv("DB_NAME", "earn_your_wings"),

		UploadRoot: getEnv("UPLOAD_ROOT", "uploads"),

		AuthDomain:   getEnv("AUTH_DOMAIN", ""),
		AuthAudience: getEnv("AUTH_AUDIENCE", "earn-your-wings-api"),
		JWKSCacheTTL: getMinutesEnv("JWKS_CACHE_TTL_MINUTES", 5),

		GinMode:    getEnv("GIN_MODE", "debug"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getMinutesEnv(key string, defaultMinutes int) time.Duration {
	value := os.Getenv(key)
	if value != "" {
		if minutes, err := strconv.Atoi(value); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return time.Duration(defaultMinutes) * time.Minute
}
