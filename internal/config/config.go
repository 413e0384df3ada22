package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Auth     AuthConfig
	CORS     CORSConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
	// Reset drops and recreates the drinks table with a sample drink on start.
	Reset bool
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level string
}

// AuthConfig describes the third-party token issuer.
type AuthConfig struct {
	Domain      string
	Audience    string
	Issuer      string
	JWKSURL     string
	Algorithms  []string
	JWKSTimeout time.Duration
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

const defaultAllowedOrigin = "http://localhost:8100"

// Load inspects the environment and builds a Config value. A .env file in the
// working directory is read first; variables already set take precedence.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			portAddr(os.Getenv("PORT")),
			":8080",
		),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			"",
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), 0),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), 0),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), 0),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), 0),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), false),
		Reset:           parseBoolWithDefault(os.Getenv("DATABASE_RESET"), false),
	}

	cfg.Logging = LoggingConfig{
		Level: firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
	}

	cfg.Auth = AuthConfig{
		Domain: strings.TrimSpace(os.Getenv("AUTH0_DOMAIN")),
		Audience: firstNonEmpty(
			os.Getenv("AUTH0_AUDIENCE"),
			os.Getenv("API_AUDIENCE"),
			"",
		),
		Issuer:      strings.TrimSpace(os.Getenv("AUTH0_ISSUER")),
		JWKSURL:     strings.TrimSpace(os.Getenv("AUTH0_JWKS_URL")),
		Algorithms:  splitList(firstNonEmpty(os.Getenv("AUTH0_ALGORITHMS"), "RS256")),
		JWKSTimeout: parseDurationWithDefault(os.Getenv("AUTH0_JWKS_TIMEOUT"), 10*time.Second),
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(firstNonEmpty(os.Getenv("CORS_ALLOWED_ORIGINS"), defaultAllowedOrigin)),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func portAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ""
	}
	return ":" + port
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseIntWithDefault(value string, def int) int {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}
