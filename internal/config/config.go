// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config holds the configuration for the catalog resolver and the browse
// server.
type Config struct {
	ConnectorID         string // connector identity stamped into handles (default "kv")
	TableDescriptionDir string // directory holding table description documents
	DefaultSchema       string // schema for documents that omit one (default "default")
	HideInternalColumns bool   // hide the synthetic store-metadata columns (default true)
	ListenAddr          string // HTTP listen address (default ":8080")
	LogLevel            string // log level: debug, info, warn, error (default "info")

	// CORS
	CORSAllowedOrigins []string // allowed origins for the browse API (default: ["*"])
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadFromEnv loads configuration from environment variables, applying
// defaults for everything unset.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		ConnectorID:         os.Getenv("CONNECTOR_ID"),
		TableDescriptionDir: os.Getenv("TABLE_DESCRIPTION_DIR"),
		DefaultSchema:       os.Getenv("DEFAULT_SCHEMA"),
		HideInternalColumns: parseBoolEnvDefault("HIDE_INTERNAL_COLUMNS", true),
		ListenAddr:          os.Getenv("LISTEN_ADDR"),
		LogLevel:            os.Getenv("LOG_LEVEL"),
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = origins
	}

	// Defaults
	if cfg.ConnectorID == "" {
		cfg.ConnectorID = "kv"
	}
	if cfg.TableDescriptionDir == "" {
		cfg.TableDescriptionDir = "etc/kvcatalog"
	}
	if cfg.DefaultSchema == "" {
		cfg.DefaultSchema = "default"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	return cfg, nil
}

func parseBoolEnvDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return defaultVal
	}
	if v == "0" || v == "false" || v == "no" || v == "off" {
		return false
	}
	if v == "1" || v == "true" || v == "yes" || v == "on" {
		return true
	}
	return defaultVal
}

// LoadDotEnv reads a .env file and sets any variables not already in the
// environment. Lines must be in KEY=VALUE format. Comments (#) and blank
// lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
