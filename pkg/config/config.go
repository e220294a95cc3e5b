package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	DB        DBConfig        `yaml:"db"`
	Request   RequestConfig   `yaml:"request"`
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"` // DEBUG, INFO, WARN, ERROR
}

// DBConfig holds database settings.
type DBConfig struct {
	Path     string   `yaml:"path"`
	CacheTTL Duration `yaml:"cache_ttl"` // persistent response cache retention
}

// RequestConfig holds remote query execution settings.
type RequestConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	Concurrency int           `yaml:"concurrency"`
	Retries     int           `yaml:"retries"`
	Timeout     Duration      `yaml:"timeout"`
	Backoff     BackoffConfig `yaml:"backoff"`
	PhaseDelay  Duration      `yaml:"phase_delay"`
}

// BackoffConfig holds backoff settings for rate-limited retries.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
	MaxDelay  Duration `yaml:"max_delay"`
}

// DiscoveryConfig holds pipeline tuning settings.
type DiscoveryConfig struct {
	MaxSamples    int      `yaml:"max_samples"`
	BatchSize     int      `yaml:"batch_size"`
	SessionTTL    Duration `yaml:"session_ttl"`
	SessionSize   int      `yaml:"session_size"`
	DestRadiusKm  float64  `yaml:"dest_radius_km"`
	BBoxBufferDeg float64  `yaml:"bbox_buffer_deg"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "localhost:2140",
		},
		Log: LogConfig{
			Path:  "./logs/server.log",
			Level: "INFO",
		},
		DB: DBConfig{
			Path:     "./data/roadscout.db",
			CacheTTL: Duration(7 * 24 * time.Hour),
		},
		Request: RequestConfig{
			Endpoint:    "https://overpass-api.de/api/interpreter",
			Concurrency: 2,
			Retries:     3,
			Timeout:     Duration(90 * time.Second),
			Backoff: BackoffConfig{
				BaseDelay: Duration(500 * time.Millisecond),
				MaxDelay:  Duration(30 * time.Second),
			},
			PhaseDelay: Duration(1 * time.Second),
		},
		Discovery: DiscoveryConfig{
			MaxSamples:    40,
			BatchSize:     4,
			SessionTTL:    Duration(30 * time.Minute),
			SessionSize:   10,
			DestRadiusKm:  20,
			BBoxBufferDeg: 0.2,
		},
	}
}

// Load reads the config file at path, applying defaults for missing fields.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Env fallback for the endpoint (useful for pointing at a private
	// Overpass instance without editing the file).
	if ep := os.Getenv("OVERPASS_ENDPOINT"); ep != "" {
		cfg.Request.Endpoint = ep
	}

	return cfg, nil
}

// Save writes the config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# RoadScout Configuration
# ----------------------
# Durations accept standard Go units (ms, s, m, h).

`)
	data = append(header, data...)

	return os.WriteFile(path, data, 0o644)
}

// GenerateDefault writes a default config file if none exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // File exists, do nothing
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
