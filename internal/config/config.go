package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBDriver   string
	DBSource   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	// Geocoding
	GeocoderURL     string
	GeocoderAPIKey  string
	GeocoderTimeout time.Duration

	// Object storage
	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
	S3Bucket     string
	S3Endpoint   string
	S3KeyPrefix  string

	// Seeded admin
	AdminEmail    string
	AdminPassword string

	// Server
	Port          string
	CORSOrigins   string
	PageSize      int
	RateLimit     int
	AuthRateLimit int
	BodyLimit     int

	// Observability
	SentryDSN        string
	AppEnv           string
	LogLevel         string
	LogRetentionDays int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBSource:   getEnv("DB_SOURCE", "restaurants.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "restaurants"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTExpiry:  parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour),
		BcryptCost: parseInt(getEnv("BCRYPT_COST", "10"), 10),

		GeocoderURL:     getEnv("GEOCODER_URL", "https://www.mapquestapi.com/geocoding/v1/address"),
		GeocoderAPIKey:  getEnv("GEOCODER_API_KEY", ""),
		GeocoderTimeout: parseDuration(getEnv("GEOCODER_TIMEOUT", "10s"), 10*time.Second),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AWSSecretKey: getEnv("AWS_SECRET_KEY", ""),
		S3Bucket:     getEnv("AWS_S3_BUCKET_NAME", ""),
		S3Endpoint:   getEnv("AWS_S3_ENDPOINT", ""),
		S3KeyPrefix:  getEnv("S3_KEY_PREFIX", "restaurants"),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		PageSize:      parseInt(getEnv("PAGE_SIZE", "2"), 2),
		RateLimit:     parseInt(getEnv("RATE_LIMIT", "60"), 60),
		AuthRateLimit: parseInt(getEnv("AUTH_RATE_LIMIT", "10"), 10),
		BodyLimit:     parseInt(getEnv("BODY_LIMIT_MB", "10"), 10) * 1024 * 1024,

		SentryDSN:        getEnv("SENTRY_DSN", ""),
		AppEnv:           getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
