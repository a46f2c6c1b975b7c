// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	OutputDir  string `yaml:"output_dir"`
	PreviewDir string `yaml:"preview_dir"`
	// Workers bounds the page transform pool. Zero means one per CPU.
	Workers int `yaml:"workers"`
	Logging struct {
		Level      string `yaml:"level"`
		Pretty     bool   `yaml:"pretty"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logging"`
	Server struct {
		Addr         string        `yaml:"addr"`
		MaxUploadMB  int64         `yaml:"max_upload_mb"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`
	Cache struct {
		Backend    string        `yaml:"backend"`
		MaxEntries int           `yaml:"max_entries"`
		RedisURL   string        `yaml:"redis_url"`
		TTL        time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	cfg.Logging.Pretty = true
	return &cfg
}

func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./split"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.File != "" {
		if cfg.Logging.MaxSizeMB == 0 {
			cfg.Logging.MaxSizeMB = 100
		}
		if cfg.Logging.MaxBackups == 0 {
			cfg.Logging.MaxBackups = 10
		}
		if cfg.Logging.MaxAgeDays == 0 {
			cfg.Logging.MaxAgeDays = 30
		}
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 64
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 60 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 5 * time.Minute
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheBackendMemory
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 16
	}
	if cfg.Cache.RedisURL == "" {
		cfg.Cache.RedisURL = "redis://localhost:6379"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = time.Hour
	}
}

// ApplyEnv overrides selected settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LABELSPLIT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LABELSPLIT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
		c.Cache.Backend = CacheBackendRedis
	}
}

func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	switch c.Cache.Backend {
	case CacheBackendMemory:
		if c.Cache.MaxEntries <= 0 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	case CacheBackendRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}
