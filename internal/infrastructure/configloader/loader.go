package configloader

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string   `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int      `yaml:"writeTimeoutSeconds"`
	AllowedOrigins      []string `yaml:"allowedOrigins"`
	RateLimitPerSecond  float64  `yaml:"rateLimitPerSecond"`
	RateLimitBurst      int      `yaml:"rateLimitBurst"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// NetworkConfig holds configuration for a specific blockchain network.
type NetworkConfig struct {
	ID      string `yaml:"id"`      // e.g., "1"
	Name    string `yaml:"name"`    // e.g., "Ethereum Mainnet"
	ChainID uint64 `yaml:"chainID"` // e.g., 1
	RPCURL  string `yaml:"rpcURL"`  // e.g., "https://eth.llamarpc.com"
}

// CatalogConfig lists where token catalogs are loaded from.
type CatalogConfig struct {
	Sources              []string `yaml:"sources"` // file paths or http(s) URLs
	RequestTimeoutMillis int64    `yaml:"requestTimeoutMillis"`
}

// BalancesConfig points to an optional seed of raw balances.
type BalancesConfig struct {
	SeedFile string `yaml:"seedFile"`
}

// ContractsConfig holds settings of the contract fetcher.
type ContractsConfig struct {
	DialTimeoutSeconds int `yaml:"dialTimeoutSeconds"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server          ServerConfig    `yaml:"server"`
	Logging         LoggingConfig   `yaml:"logging"`
	Networks        []NetworkConfig `yaml:"networks"`
	SelectedNetwork string          `yaml:"selectedNetwork"`
	Catalog         CatalogConfig   `yaml:"catalog"`
	Balances        BalancesConfig  `yaml:"balances"`
	Contracts       ContractsConfig `yaml:"contracts"`
}

// Load reads the YAML configuration file from the given path and unmarshals it.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	logrus.Info("Configuration loaded successfully.")
	return cfg, nil
}

// Parse unmarshals YAML configuration, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 10
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 10
	}
	if cfg.Server.RateLimitPerSecond <= 0 {
		cfg.Server.RateLimitPerSecond = 50
		logrus.Infof("Server.RateLimitPerSecond not set, defaulting to %.0f", cfg.Server.RateLimitPerSecond)
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 100
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Catalog.RequestTimeoutMillis <= 0 {
		cfg.Catalog.RequestTimeoutMillis = 10000 // 10 seconds
		logrus.Infof("Catalog.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Catalog.RequestTimeoutMillis)
	}
	if cfg.Contracts.DialTimeoutSeconds <= 0 {
		cfg.Contracts.DialTimeoutSeconds = 10
	}
}

// Validate checks the parts of the configuration the service cannot run without.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Networks))
	for i, network := range c.Networks {
		id := strings.TrimSpace(network.ID)
		if id == "" {
			return fmt.Errorf("networks[%d]: id is required", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("networks[%d]: duplicate network id %q", i, id)
		}
		seen[id] = struct{}{}
		if network.RPCURL == "" {
			logrus.Warnf("Network '%s' has no rpcURL, contract objects cannot be fetched for it.", id)
		}
	}
	if c.SelectedNetwork != "" && len(c.Networks) > 0 {
		if _, ok := seen[c.SelectedNetwork]; !ok {
			return fmt.Errorf("selectedNetwork %q is not one of the configured networks", c.SelectedNetwork)
		}
	}
	if len(c.Catalog.Sources) == 0 {
		return fmt.Errorf("catalog.sources must list at least one token catalog")
	}
	return nil
}
