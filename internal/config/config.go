package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/hexext/grid"
)

// Config holds all service configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	JWT    JWTConfig    `yaml:"jwt"`
	Redis  RedisConfig  `yaml:"redis"`
	Map    MapConfig    `yaml:"map"`
	Query  QueryConfig  `yaml:"query"`
	Store  StoreConfig  `yaml:"store"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// JWTConfig holds optional token authentication settings.
// Authentication is disabled when PublicKeyPath is empty.
type JWTConfig struct {
	Issuer        string `yaml:"issuer"`
	PublicKeyPath string `yaml:"public_key_path"` // PEM-encoded ECDSA public key
}

// RedisConfig holds Redis connection settings. An empty Address disables
// the result cache and the token blacklist.
type RedisConfig struct {
	Address         string `yaml:"address"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	KeyPrefix       string `yaml:"key_prefix"`
	BlacklistPrefix string `yaml:"blacklist_prefix"`
	TTLSeconds      int    `yaml:"ttl_seconds"`
}

// MapConfig selects the map the server answers queries against
type MapConfig struct {
	ID          string  `yaml:"id"` // load from the store when set, otherwise generate
	Radius      int     `yaml:"radius"`
	Seed        int64   `yaml:"seed"`
	SeaLevel    float64 `yaml:"sea_level"`
	HillLevel   float64 `yaml:"hill_level"`
	MountainLvl float64 `yaml:"mountain_level"`
}

// GenConfig converts the map section into terrain generation parameters.
func (m MapConfig) GenConfig() grid.GenConfig {
	return grid.GenConfig{
		Radius:      m.Radius,
		Seed:        m.Seed,
		SeaLevel:    m.SeaLevel,
		HillLevel:   m.HillLevel,
		MountainLvl: m.MountainLvl,
	}
}

// QueryConfig bounds the work a single query may do
type QueryConfig struct {
	MaxRadius     int `yaml:"max_radius"`
	MaxExpansions int `yaml:"max_expansions"`
}

// StoreConfig holds map database settings
type StoreConfig struct {
	Path string `yaml:"path"` // SQLite file; empty disables persistence
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied, for running
// without a config file.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "hexext:query:"
	}
	if cfg.Redis.BlacklistPrefix == "" {
		cfg.Redis.BlacklistPrefix = "hexext:blacklist:"
	}
	if cfg.Redis.TTLSeconds == 0 {
		cfg.Redis.TTLSeconds = 300
	}
	if cfg.Map.Radius == 0 {
		cfg.Map.Radius = 16
	}
	if cfg.Map.SeaLevel == 0 {
		cfg.Map.SeaLevel = 0.28
	}
	if cfg.Map.HillLevel == 0 {
		cfg.Map.HillLevel = 0.60
	}
	if cfg.Map.MountainLvl == 0 {
		cfg.Map.MountainLvl = 0.72
	}
	if cfg.Query.MaxRadius == 0 {
		cfg.Query.MaxRadius = 24
	}
	if cfg.Query.MaxExpansions == 0 {
		cfg.Query.MaxExpansions = 20000
	}
}
