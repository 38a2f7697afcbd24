package application

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultConflictMarker matches the upstream message that marks a
// report as published and therefore immutable.
const DefaultConflictMarker = "Report is already published"

// Config defines report session configuration.
type Config struct {
	ConflictMarker         string `yaml:"conflict_marker"`
	DefaultCategory        string `yaml:"default_category"`
	UpstreamTimeoutSeconds int    `yaml:"upstream_timeout_seconds"`
}

// LoadConfig loads config from yaml or env.
func LoadConfig() (Config, error) {
	cfg := Config{
		ConflictMarker:         getenvDefault("REPORT_CONFLICT_MARKER", DefaultConflictMarker),
		DefaultCategory:        os.Getenv("REPORT_DEFAULT_CATEGORY"),
		UpstreamTimeoutSeconds: getenvIntDefault("UPSTREAM_TIMEOUT_SECONDS", 0),
	}

	if path := os.Getenv("REPORT_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.ConflictMarker == "" {
		cfg.ConflictMarker = DefaultConflictMarker
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
