package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	TMDB     TMDBConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
}

type ServerConfig struct {
	Port       string
	Host       string
	Env        string
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool
}

type DatabaseConfig struct {
	URL      string // Full database URL
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SessionConfig struct {
	Secret string
	// Store is "filesystem" (default) or "cookie". Cookie sessions are
	// capped at 4KB, which holds only a handful of cart items.
	Store  string
	Dir    string
	MaxAge int
}

// TMDBConfig points the catalog at the movie metadata provider.
type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Language     string
	Region       string
}

// CacheConfig controls the fetch cache and its retry policy.
type CacheConfig struct {
	Backend        string // "memory" or "redis"
	TTL            time.Duration
	MaxRetries     int
	BaseDelay      time.Duration
	RequestTimeout time.Duration
	KeyPrefix      string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CheckoutConfig struct {
	PaymentDelay time.Duration
	PricePerSeat float64
	ServiceFee   float64
	Cinema       string
	Hall         string
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port:       getEnv("PORT", "8080"),
			Host:       getEnv("HOST", "localhost"),
			Env:        getEnv("ENV", "development"),
			TrustProxy: getEnvAsBool("TRUST_PROXY", false),
		},
		Database: parseDatabaseConfig(),
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "your-secret-key-change-in-production"),
			Store:  strings.ToLower(getEnv("SESSION_STORE", "filesystem")),
			Dir:    getEnv("SESSION_DIR", filepath.Join(os.TempDir(), "movie-booking-sessions")),
			MaxAge: getEnvAsInt("SESSION_MAX_AGE", 86400*30),
		},
		TMDB: TMDBConfig{
			APIKey:       getEnv("TMDB_API_KEY", ""),
			BaseURL:      strings.TrimRight(getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"), "/"),
			ImageBaseURL: strings.TrimRight(getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"), "/"),
			Language:     getEnv("TMDB_LANGUAGE", "es-ES"),
			Region:       getEnv("TMDB_REGION", "ES"),
		},
		Cache: CacheConfig{
			Backend:        strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
			TTL:            getEnvAsDuration("CACHE_TTL", time.Hour),
			MaxRetries:     getEnvAsInt("CACHE_MAX_RETRIES", 3),
			BaseDelay:      getEnvAsDuration("CACHE_BASE_DELAY", time.Second),
			RequestTimeout: getEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second),
			KeyPrefix:      getEnv("CACHE_KEY_PREFIX", "movies:"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Checkout: CheckoutConfig{
			PaymentDelay: getEnvAsDuration("PAYMENT_DELAY", 2*time.Second),
			PricePerSeat: getEnvAsFloat("PRICE_PER_SEAT", 10),
			ServiceFee:   getEnvAsFloat("SERVICE_FEE", 2),
			Cinema:       getEnv("CINEMA_NAME", "CineMax Centro"),
			Hall:         getEnv("CINEMA_HALL", "Sala 3"),
		},
	}

	return config, nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func parseDatabaseConfig() DatabaseConfig {
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL != "" {
		return parseDatabaseURL(databaseURL)
	}

	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvAsInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "movie_booking"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func parseDatabaseURL(databaseURL string) DatabaseConfig {
	config := DatabaseConfig{
		URL: databaseURL,
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		return config
	}

	config.Host = u.Hostname()
	config.Port = 5432
	if u.Port() != "" {
		config.Port, _ = strconv.Atoi(u.Port())
	}

	if u.User != nil {
		config.User = u.User.Username()
		config.Password, _ = u.User.Password()
	}

	config.DBName = strings.TrimPrefix(u.Path, "/")

	config.SSLMode = u.Query().Get("sslmode")
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("90s") or a bare number of milliseconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
