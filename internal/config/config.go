package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JwtSecret string
	JwtTTL    time.Duration

	// Server
	ApiPort        string
	ServiceApiPort string

	// App Defaults
	AppName             string
	NotifyRadiusKm      float64
	UrgentTagSynonyms   []string
	RouteTimeBlendMs    float64 // divisor for the time tie-break term in route scoring
	MaxRoutePoints      int
	DefaultBookingKES   float64
	ListAvailableLimit  int
	MockServicesEnabled bool
	NotifyLogFile       string // when set, pushes are appended to this file as well

	// Rate Limiting Defaults
	RateLimitBucketSize int
	RateLimitRefillRate int // tokens per second
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode, // Set from flag
	}

	var err error

	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	cfg.MongoURI, err = getRequiredEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "ecosawa")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.JwtSecret, err = getRequiredEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}
	cfg.ApiPort = getEnv("API_PORT", "8080")
	cfg.ServiceApiPort = getEnv("SERVICE_API_PORT", "12345")
	cfg.AppName = getEnv("APP_NAME", "EcoSawa")
	cfg.MockServicesEnabled = os.Getenv("MOCK_SERVICES") == "true"
	cfg.NotifyLogFile = getEnv("NOTIFY_LOG_FILE", "")

	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	jwtTTLSeconds, err := strconv.ParseInt(getEnv("JWT_TTL_SECONDS", "604800"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_SECONDS: %w", err)
	}
	cfg.JwtTTL = time.Duration(jwtTTLSeconds) * time.Second

	cfg.NotifyRadiusKm, err = strconv.ParseFloat(getEnv("NOTIFY_RADIUS_KM", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_RADIUS_KM: %w", err)
	}

	// Extra substrings that classify a tag as urgent, comma-separated
	if syn := getEnv("URGENT_TAG_SYNONYMS", ""); syn != "" {
		cfg.UrgentTagSynonyms = splitCSV(syn)
	}

	cfg.RouteTimeBlendMs, err = strconv.ParseFloat(getEnv("ROUTE_TIME_BLEND_MS", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ROUTE_TIME_BLEND_MS: %w", err)
	}

	cfg.MaxRoutePoints, err = strconv.Atoi(getEnv("MAX_ROUTE_POINTS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_ROUTE_POINTS: %w", err)
	}

	cfg.DefaultBookingKES, err = strconv.ParseFloat(getEnv("DEFAULT_BOOKING_KES", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_BOOKING_KES: %w", err)
	}

	cfg.ListAvailableLimit, err = strconv.Atoi(getEnv("LIST_AVAILABLE_LIMIT", "200"))
	if err != nil {
		return nil, fmt.Errorf("invalid LIST_AVAILABLE_LIMIT: %w", err)
	}

	// Rate Limiting
	cfg.RateLimitBucketSize, err = strconv.Atoi(getEnv("RATE_LIMIT_BUCKET_SIZE", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BUCKET_SIZE: %w", err)
	}
	cfg.RateLimitRefillRate, err = strconv.Atoi(getEnv("RATE_LIMIT_REFILL_RATE", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REFILL_RATE: %w", err)
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
