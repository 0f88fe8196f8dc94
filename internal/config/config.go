package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/okobah/spillcast/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataPath        string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	ForecastHorizon int

	// ZoneNames maps zonal-office codes to display names. It is passed into
	// the normalizer explicitly rather than living as a module-level constant;
	// ZONE_NAMES (a JSON object) replaces the built-in NOSDRA mapping.
	ZoneNames map[string]string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	horizon, err := parsePositiveIntEnv("FORECAST_HORIZON", 12)
	if err != nil {
		return nil, err
	}

	zoneNames, err := parseZoneNames()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataPath:        envOrDefault("DATA_PATH", "data/nosdra_cleaned.csv"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		ForecastHorizon: horizon,
		ZoneNames:       zoneNames,
	}

	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveIntEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseZoneNames() (map[string]string, error) {
	s := os.Getenv("ZONE_NAMES")
	if s == "" {
		return domain.DefaultZoneNames(), nil
	}
	var names map[string]string
	if err := json.Unmarshal([]byte(s), &names); err != nil {
		return nil, fmt.Errorf("invalid ZONE_NAMES: %w", err)
	}
	if len(names) == 0 {
		return nil, errors.New("invalid ZONE_NAMES: empty mapping")
	}
	return names, nil
}
