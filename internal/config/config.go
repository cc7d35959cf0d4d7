package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	SchedulePath string
	FAQPath      string

	DayOpen  string
	DayClose string

	MaxOfferedSlots     int
	NextDayAlternatives int

	SessionBackend  string
	SessionTTL      time.Duration
	SessionCapacity int
	RedisAddr       string
	RedisPassword   string

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SchedulePath: getEnv("SCHEDULE_PATH", "data/doctor_schedule.json"),
		FAQPath:      getEnv("FAQ_PATH", "data/clinic_info.json"),

		DayOpen:  getEnv("DAY_OPEN", "09:00"),
		DayClose: getEnv("DAY_CLOSE", "17:00"),

		MaxOfferedSlots:     getEnvAsInt("MAX_OFFERED_SLOTS", 5),
		NextDayAlternatives: getEnvAsInt("NEXT_DAY_ALTERNATIVES", 3),

		SessionBackend:  strings.ToLower(strings.TrimSpace(getEnv("SESSION_BACKEND", "memory"))),
		SessionTTL:      getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		SessionCapacity: getEnvAsInt("SESSION_CAPACITY", 10000),
		RedisAddr:       getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable or returns a default value
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
