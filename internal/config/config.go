package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Server   ServerConfig
}

// AnalysisConfig holds the counting-experiment inputs and scan settings
type AnalysisConfig struct {
	Signal         float64
	Background     float64
	BkgUncertainty float64
	Observed       float64
	POITest        float64
	ScanMin        float64
	ScanMax        float64
	ScanSteps      int
	Level          float64
	Workers        int
}

// ServerConfig holds API server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Analysis: AnalysisConfig{
			Signal:         getEnvFloatOrDefault("SIGNAL", 10.0),
			Background:     getEnvFloatOrDefault("BACKGROUND", 100.0),
			BkgUncertainty: getEnvFloatOrDefault("BKG_UNCERTAINTY", 10.0),
			Observed:       getEnvFloatOrDefault("OBSERVED", 100.0),
			POITest:        getEnvFloatOrDefault("POI_TEST", 1.0),
			ScanMin:        getEnvFloatOrDefault("SCAN_MIN", 0.0),
			ScanMax:        getEnvFloatOrDefault("SCAN_MAX", 10.0),
			ScanSteps:      getEnvIntOrDefault("SCAN_STEPS", 21),
			Level:          getEnvFloatOrDefault("CONFIDENCE_LEVEL", 0.05),
			Workers:        getEnvIntOrDefault("SCAN_WORKERS", 1),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	a := c.Analysis
	switch {
	case a.Signal < 0:
		return fmt.Errorf("SIGNAL must be non-negative, got %g", a.Signal)
	case a.Background < 0:
		return fmt.Errorf("BACKGROUND must be non-negative, got %g", a.Background)
	case a.BkgUncertainty <= 0:
		return fmt.Errorf("BKG_UNCERTAINTY must be positive, got %g", a.BkgUncertainty)
	case a.Observed < 0:
		return fmt.Errorf("OBSERVED must be non-negative, got %g", a.Observed)
	case a.POITest < 0:
		return fmt.Errorf("POI_TEST must be non-negative, got %g", a.POITest)
	case a.ScanMax <= a.ScanMin:
		return fmt.Errorf("SCAN_MAX (%g) must exceed SCAN_MIN (%g)", a.ScanMax, a.ScanMin)
	case a.ScanSteps < 2:
		return fmt.Errorf("SCAN_STEPS must be at least 2, got %d", a.ScanSteps)
	case a.Level <= 0 || a.Level >= 1:
		return fmt.Errorf("CONFIDENCE_LEVEL must be in (0,1), got %g", a.Level)
	case a.Workers < 1:
		return fmt.Errorf("SCAN_WORKERS must be at least 1, got %d", a.Workers)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
