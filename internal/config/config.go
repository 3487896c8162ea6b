// Package config loads the gateway's YAML configuration file and merges in
// per-provider environment variable overrides, the way pkg/config's loader
// merged a base file with environment-specific layers, adapted here for the
// gateway's provider/chain schema instead of a full node's network config.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// ProviderSpec configures one upstream provider and the chains it serves.
type ProviderSpec struct {
	Kind       string            `mapstructure:"kind"`
	URL        string            `mapstructure:"url"`
	AuthHeader string            `mapstructure:"auth_header"`
	AuthEnv    string            `mapstructure:"auth_env"` // env var name holding the auth value
	Chains     []ChainSpec       `mapstructure:"chains"`
	Overrides  map[string]string `mapstructure:"overrides"`
}

// ChainSpec is one chain a provider serves, with its transports and
// selection priority.
type ChainSpec struct {
	Chain      string   `mapstructure:"chain"`
	Transports []string `mapstructure:"transports"`
	Priority   string   `mapstructure:"priority"` // "low" | "normal" | "high" | "max"
}

// ServerConfig configures the public and admin HTTP listeners.
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	AdminAddr  string `mapstructure:"admin_addr"`
}

// RateLimitConfig mirrors ratelimit.Config's fields for file-driven setup.
type RateLimitConfig struct {
	Capacity   float64  `mapstructure:"capacity"`
	RatePerSec float64  `mapstructure:"rate_per_sec"`
	Allowlist  []string `mapstructure:"allowlist"`
}

// MonitorConfig configures the availability monitor's tick interval.
type MonitorConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Config is the unified gateway configuration, populated from a YAML file
// plus environment overlays.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Providers []ProviderSpec  `mapstructure:"providers"`
}

// Load reads configPath (a YAML file) and an optional environment-specific
// overlay (configPath with "."+envName inserted before its extension, e.g.
// config.prod.yaml for config.yaml and "prod"), then unmarshals
// into a Config. AutomaticEnv lets any mapstructure field be overridden by
// an equivalent upper-cased environment variable.
func Load(configPath, envName string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", configPath, err)
	}

	if envName != "" {
		ext := filepath.Ext(configPath)
		v.SetConfigFile(strings.TrimSuffix(configPath, ext) + "." + envName + ext)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("config: merge %s overlay: %w", envName, err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// LoadFromEnv loads the config file named by RPC_GATEWAY_CONFIG (default
// "config.yaml"), overlaying RPC_GATEWAY_ENV if set.
func LoadFromEnv() (*Config, error) {
	path := EnvOrDefault("RPC_GATEWAY_CONFIG", "config.yaml")
	return Load(path, EnvOrDefault("RPC_GATEWAY_ENV", ""))
}
