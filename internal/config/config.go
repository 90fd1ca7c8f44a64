package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverBolt     = "bolt"
)

type Config struct {
	Addr    string        `yaml:"addr"`
	LogMode string        `yaml:"log_mode"`
	Storage StorageConfig `yaml:"storage"`
}

type StorageConfig struct {
	Driver string      `yaml:"driver"`
	DSN    string      `yaml:"dsn"`
	Redis  RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

func Default() Config {
	return Config{
		Addr:    ":9090",
		LogMode: "production",
		Storage: StorageConfig{
			Driver: DriverMemory,
			Redis: RedisConfig{
				Addr:   "127.0.0.1:6379",
				Prefix: "coursebook:",
			},
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order. A .env file in the working directory is loaded
// first when present; its values never override variables already set.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv("COURSEBOOK_CONFIG")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Addr, "COURSEBOOK_ADDR")
	setString(&cfg.LogMode, "COURSEBOOK_LOG_MODE")
	setString(&cfg.Storage.Driver, "COURSEBOOK_STORAGE_DRIVER")
	setString(&cfg.Storage.DSN, "COURSEBOOK_STORAGE_DSN")
	setString(&cfg.Storage.Redis.Addr, "COURSEBOOK_REDIS_ADDR")
	setString(&cfg.Storage.Redis.Password, "COURSEBOOK_REDIS_PASSWORD")
	setString(&cfg.Storage.Redis.Prefix, "COURSEBOOK_REDIS_PREFIX")
	cfg.Storage.Redis.DB = envInt("COURSEBOOK_REDIS_DB", cfg.Storage.Redis.DB)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("config: addr must be set")
	}
	switch c.Storage.Driver {
	case DriverMemory, DriverRedis:
	case DriverSQLite, DriverPostgres, DriverBolt:
		if c.Storage.DSN == "" {
			return fmt.Errorf("config: storage driver %q requires a dsn", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

func setString(dst *string, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}

func envInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
