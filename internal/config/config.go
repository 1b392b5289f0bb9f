package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config groups every setting the fee service reads from the environment.
type Config struct {
	Env         string
	Port        string
	LogLevel    string
	JWTSecret   string
	CORSOrigins string
	CacheTTL    time.Duration
	TieBreak    string

	DB     DBConfig
	Redis  RedisConfig
	Events EventsConfig
}

// DBConfig holds the postgres connection and pool settings.
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig holds the redis connection settings.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// EventsConfig selects where fee structure change events go.
type EventsConfig struct {
	Backend      string // none, redis or kafka
	KafkaBrokers []string
	KafkaTopic   string
	RedisChannel string
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load reads the full service configuration, applying defaults.
func Load() Config {
	return Config{
		Env:         GetEnv("ENV", "development"),
		Port:        GetEnv("PORT", "3000"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		JWTSecret:   GetEnv("JWT_SECRET", "your-secret-key"),
		CORSOrigins: GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		CacheTTL:    GetDurationEnv("CACHE_TTL", 5*time.Minute),
		TieBreak:    GetEnv("FEE_TIE_BREAK", "last_created_wins"),
		DB: DBConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "fees"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
		},
		Events: EventsConfig{
			Backend:      GetEnv("EVENTS_BACKEND", "none"),
			KafkaBrokers: GetSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			KafkaTopic:   GetEnv("KAFKA_TOPIC", "fee-structure-events"),
			RedisChannel: GetEnv("REDIS_EVENTS_CHANNEL", "fee_structure_events"),
		},
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// GetSliceEnv splits a comma separated environment variable.
func GetSliceEnv(key string, defaultVal []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}
