package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at process start.
// It is built once in main and passed to the components that need it.
type Config struct {
	Port        string
	Environment string

	AdminUsername  string
	AdminPassword  string
	JWTSecret      string
	TokenTTL       time.Duration
	AllowAnonWrite bool

	// Hosted data service (PostgREST). ServiceKey has write access,
	// AnonKey is the restricted key used for public reads.
	ProjectURL string
	ServiceKey string
	AnonKey    string

	// Direct Postgres connection. When set it takes precedence over ProjectURL.
	DatabaseURL   string
	MigrationsDir string

	UpstreamTimeout    time.Duration
	CORSAllowedOrigins []string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	return &Config{
		Port:               getEnv("PORT", "4000"),
		Environment:        getEnv("APP_ENV", "development"),
		AdminUsername:      os.Getenv("ADMIN_USERNAME"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:          os.Getenv("JWT_ACCESS_SECRET"),
		TokenTTL:           24 * time.Hour,
		AllowAnonWrite:     getBool("ALLOW_ANONYMOUS_WRITES", false),
		ProjectURL:         strings.TrimRight(os.Getenv("PROJECT_URL"), "/"),
		ServiceKey:         os.Getenv("SERVICE_KEY"),
		AnonKey:            os.Getenv("ANON_KEY"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", "internal/db/migrations"),
		UpstreamTimeout:    getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}
}

// IsProduction reports whether internal error detail must be hidden from clients.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// UsesDirectDatabase reports whether posts are stored through a direct
// Postgres connection instead of the hosted REST endpoint.
func (c *Config) UsesDirectDatabase() bool {
	return c.DatabaseURL != ""
}

// ReadKey returns the key used for public reads, falling back to the
// privileged key when no restricted key is configured.
func (c *Config) ReadKey() string {
	if c.AnonKey != "" {
		return c.AnonKey
	}
	return c.ServiceKey
}

// Validate reports every missing or invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if c.AdminUsername == "" {
		problems = append(problems, "ADMIN_USERNAME is required")
	}
	if c.AdminPassword == "" {
		problems = append(problems, "ADMIN_PASSWORD is required")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_ACCESS_SECRET is required")
	}
	if !c.UsesDirectDatabase() {
		if c.ProjectURL == "" {
			problems = append(problems, "PROJECT_URL or DATABASE_URL is required")
		}
		if c.ServiceKey == "" {
			problems = append(problems, "SERVICE_KEY is required when using PROJECT_URL")
		}
	}
	if c.UpstreamTimeout <= 0 {
		problems = append(problems, "UPSTREAM_TIMEOUT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
