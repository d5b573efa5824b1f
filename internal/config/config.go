package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field maps to an
// environment variable. The refresh-token lifetime is intentionally not
// configurable on its own: it is always twice the access-token lifetime.
type Config struct {
	Env         string        // application environment (e.g. "dev", "prod")
	Port        string        // HTTP port to listen on
	DBUser      string        // database username
	DBPass      string        // database password (optional)
	DBHost      string        // database host address
	DBPort      string        // database port number
	DBName      string        // database name
	JWTSecret   string        // secret used to sign JWTs
	JWTAudience string        // audience claim stamped into access tokens
	JWTIssuer   string        // issuer claim stamped into access tokens
	AccessTTL   time.Duration // access-token lifetime
}

// RefreshTTL is the refresh-token lifetime: always 2x the access TTL.
func (c Config) RefreshTTL() time.Duration { return 2 * c.AccessTTL }

// Load reads configuration from environment variables. Required
// variables are enforced by must(); missing values exit with a fatal
// log message so a misconfigured instance never starts.
func Load() Config {
	return Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		DBUser:      must("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"), // empty allowed
		DBHost:      must("DB_HOST"),
		DBPort:      must("DB_PORT"),
		DBName:      must("DB_NAME"),
		JWTSecret:   must("JWT_SECRET"),
		JWTAudience: must("JWT_AUDIENCE"),
		JWTIssuer:   must("JWT_ISSUER"),
		AccessTTL:   time.Duration(mustInt("ACCESS_TOKEN_TTL_MIN")) * time.Minute,
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
