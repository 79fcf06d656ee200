package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database (identity store + system logs)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Backends
	IdentityDriver string // postgres | memory
	DocstoreDriver string // mongo | memory
	MongoURI       string
	MongoDB        string

	// Clinic branding cache
	CacheDriver    string // memory | redis
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	ClinicCacheTTL time.Duration

	// ID tokens
	JWTSecret        string
	JWTIDTokenExpiry time.Duration

	// Admin allow-list (comma separated emails)
	AdminEmails string

	// Ads
	AdRotationInterval time.Duration

	// Server
	Port           string
	CORSOrigins    string
	RequestTimeout time.Duration

	SentryDSN string
	AppEnv    string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "vivamove"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		IdentityDriver: getEnv("IDENTITY_DRIVER", "postgres"),
		DocstoreDriver: getEnv("DOCSTORE_DRIVER", "mongo"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "vivamove"),

		CacheDriver:    getEnv("CACHE_DRIVER", "memory"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        parseInt(getEnv("REDIS_DB", "0")),
		ClinicCacheTTL: parseDuration(getEnv("CLINIC_CACHE_TTL", "5m"), 5*time.Minute),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTIDTokenExpiry: parseDuration(getEnv("JWT_ID_TOKEN_EXPIRY", "1h"), time.Hour),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		AdRotationInterval: parseDuration(getEnv("AD_ROTATION_INTERVAL", "30s"), 30*time.Second),

		Port:           getEnv("PORT", "8080"),
		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		RequestTimeout: parseDuration(getEnv("REQUEST_TIMEOUT", "15s"), 15*time.Second),

		SentryDSN: getEnv("SENTRY_DSN", ""),
		AppEnv:    getEnv("APP_ENV", "development"),
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

// AdminAllowList returns the normalized admin emails.
func (c *Config) AdminAllowList() []string {
	return ParseCSV(c.AdminEmails)
}

// ParseCSV splits a comma separated list, trimming blanks and lowercasing.
func ParseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(p))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
