package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Session backends.
const (
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type Config struct {
	AppPort   string
	LogFormat string

	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSslMode   string
	DBConnStr   string
	AutoMigrate bool

	SessionBackend string
	SessionTTL     time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Bootstrap admin credentials. Optional: when both are set the admin
	// account is seeded at startup through the normal hashing path.
	AdminUsername string
	AdminPassword string
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // no .env file is fine, plain env vars still apply

	cfg := &Config{
		AppPort:   getEnv("APP_PORT", "8080"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "userhub"),
		DBPassword:  getEnv("DB_PASSWORD", "userhub"),
		DBName:      getEnv("DB_NAME", "userhub"),
		DBSslMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnvAsBool("AUTO_MIGRATE", true),

		SessionBackend: getEnv("SESSION_BACKEND", SessionBackendRedis),
		SessionTTL:     time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	if cfg.SessionBackend != SessionBackendRedis && cfg.SessionBackend != SessionBackendMemory {
		return nil, fmt.Errorf("config: unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode

	return cfg, nil
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

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}
