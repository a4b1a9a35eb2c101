// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store drivers understood by Load. They match the store package's driver names.
var storeDrivers = []string{"file", "memory", "postgres", "sqlite", "redis"}

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreDriver selects the persistence backend. Defaults to "file".
	StoreDriver string

	// DataDir is where the file driver keeps one JSON file per record.
	DataDir string

	// DatabaseURL is the Postgres connection string. Required for the postgres driver.
	DatabaseURL string

	// SQLitePath is the database file for the sqlite driver.
	SQLitePath string

	// Redis settings. RedisAddr is required for the redis driver.
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	// ShareOrigin prefixes generated share URLs. Defaults to the first CORS origin.
	ShareOrigin string

	// DemoLogin enables the built-in demo account. Defaults to true.
	DemoLogin bool

	// BcryptCost is the password hashing cost. Zero means the library default.
	BcryptCost int

	// AuthRatePerMinute and AuthRateBurst throttle /auth/* per client IP.
	// A zero rate disables throttling.
	AuthRatePerMinute int
	AuthRateBurst     int

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// SeedSamples loads the bundled sample trips when nothing is stored yet.
	SeedSamples bool
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or any
// that could not be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", "file")),
		DataDir:        getEnv("DATA_DIR", "./data"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getEnv("SQLITE_PATH", "./data/globetrotter.db"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "globetrotter:"),
	}

	var missing, invalid []string
	p := parser{invalid: &invalid}

	cfg.RedisDB = p.int("REDIS_DB", 0)
	cfg.DemoLogin = p.bool("DEMO_LOGIN", true)
	cfg.BcryptCost = p.int("BCRYPT_COST", 0)
	cfg.AuthRatePerMinute = p.int("AUTH_RATE_PER_MINUTE", 10)
	cfg.AuthRateBurst = p.int("AUTH_RATE_BURST", 5)
	cfg.MaxBodyBytes = int64(p.int("MAX_BODY_BYTES", 1<<20))
	cfg.SeedSamples = p.bool("SEED_SAMPLES", true)

	cfg.ShareOrigin = os.Getenv("SHARE_ORIGIN")
	if cfg.ShareOrigin == "" && len(cfg.CORSOrigins) > 0 {
		cfg.ShareOrigin = cfg.CORSOrigins[0]
	}

	switch cfg.StoreDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case "redis":
		if cfg.RedisAddr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	case "file", "memory", "sqlite":
	default:
		invalid = append(invalid, fmt.Sprintf("STORE_DRIVER (want one of %s)", strings.Join(storeDrivers, ", ")))
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// parser reads typed values and records the names of variables it could not parse.
type parser struct {
	invalid *[]string
}

func (p parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		*p.invalid = append(*p.invalid, key)
		return fallback
	}
	return n
}

func (p parser) bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*p.invalid = append(*p.invalid, key)
		return fallback
	}
	return b
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
