package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for both services.
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	Redis         RedisConfig
	Notifications NotificationConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
}

type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
}

type NotificationConfig struct {
	// RetentionDays is how long read notifications are kept before the
	// purge job removes them.
	RetentionDays int
	// PurgeSpec is the cron expression for the purge job.
	PurgeSpec string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Name:     getEnv("POSTGRES_DB", "edutrack"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			Addr:     redisAddr(),
			Username: getEnv("REDIS_USERNAME", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Notifications: NotificationConfig{
			RetentionDays: getEnvAsInt("NOTIFICATION_RETENTION_DAYS", 30),
			PurgeSpec:     getEnv("NOTIFICATION_PURGE_SPEC", "0 3 * * *"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

// redisAddr returns "" when no Redis host is configured; the queue and the
// realtime bridge are optional and stay disabled in that case.
func redisAddr() string {
	host := getEnv("REDIS_HOST", "")
	if host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", host, getEnvAsInt("REDIS_PORT", 6379))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
