package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"calsync/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Sync       SyncConfig       `yaml:"sync"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	DSN            string `yaml:"dsn"`
	MaxConnections int    `yaml:"max_connections"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// SyncConfig tunes the engine's retry loop and eligibility window.
type SyncConfig struct {
	MaxAttempts           int           `yaml:"max_attempts"`
	BaseDelay             time.Duration `yaml:"base_delay"`
	BackoffFactor         float64       `yaml:"backoff_factor"`
	EligibilityWindowDays int           `yaml:"eligibility_window_days"`
	FailureBaseInterval   time.Duration `yaml:"failure_base_interval"`
	ParticipantCacheTTL   time.Duration `yaml:"participant_cache_ttl"`
}

// UnmarshalYAML принимает длительности в формате time.ParseDuration
// ("200ms", "5m"), которые yaml.v3 сам в time.Duration не разбирает.
func (s *SyncConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		MaxAttempts           int     `yaml:"max_attempts"`
		BaseDelay             string  `yaml:"base_delay"`
		BackoffFactor         float64 `yaml:"backoff_factor"`
		EligibilityWindowDays int     `yaml:"eligibility_window_days"`
		FailureBaseInterval   string  `yaml:"failure_base_interval"`
		ParticipantCacheTTL   string  `yaml:"participant_cache_ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	s.MaxAttempts = raw.MaxAttempts
	s.BackoffFactor = raw.BackoffFactor
	s.EligibilityWindowDays = raw.EligibilityWindowDays

	for _, field := range []struct {
		name string
		text string
		dst  *time.Duration
	}{
		{"base_delay", raw.BaseDelay, &s.BaseDelay},
		{"failure_base_interval", raw.FailureBaseInterval, &s.FailureBaseInterval},
		{"participant_cache_ttl", raw.ParticipantCacheTTL, &s.ParticipantCacheTTL},
	} {
		if field.text == "" {
			continue
		}
		d, err := time.ParseDuration(field.text)
		if err != nil {
			return fmt.Errorf("sync.%s: %w", field.name, err)
		}
		*field.dst = d
	}

	return nil
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// Загружаем .env файл если существует
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database dsn is required")
	}

	if c.Sync.BackoffFactor < 1 {
		return fmt.Errorf("sync backoff_factor must be >= 1, got %v", c.Sync.BackoffFactor)
	}

	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.New("redis address is required when redis is enabled")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "calsync"
	}
	if c.Database.MaxConnections == 0 {
		c.Database.MaxConnections = 10
	}
	if c.Sync.MaxAttempts == 0 {
		c.Sync.MaxAttempts = models.DefaultMaxAttempts
	}
	if c.Sync.BaseDelay == 0 {
		c.Sync.BaseDelay = models.DefaultBaseDelay
	}
	if c.Sync.BackoffFactor == 0 {
		c.Sync.BackoffFactor = models.DefaultBackoffFactor
	}
	if c.Sync.EligibilityWindowDays == 0 {
		c.Sync.EligibilityWindowDays = models.EligibilityWindowDays
	}
	if c.Sync.FailureBaseInterval == 0 {
		c.Sync.FailureBaseInterval = models.FailureBaseInterval
	}
	if c.Sync.ParticipantCacheTTL == 0 {
		c.Sync.ParticipantCacheTTL = models.DefaultParticipantTTL
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
