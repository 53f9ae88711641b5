package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/meridianhq/risk-engine/internal/risk"
)

// Source configures the Execution Source adapter. Credentials come from
// APCA_API_KEY_ID / APCA_API_SECRET_KEY in the environment, never from the
// file.
type Source struct {
	Provider           string `yaml:"provider"` // alpaca | mock
	BaseURL            string `yaml:"base_url"`
	TimeoutMs          int    `yaml:"timeout_ms"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
	MaxRetries         int    `yaml:"max_retries"`
	BackoffBaseMs      int    `yaml:"backoff_base_ms"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type Root struct {
	RiskLimits risk.LimitPolicy  `yaml:"risk_limits"`
	Sectors    map[string]string `yaml:"sectors"` // merged over the built-in table
	Source     Source            `yaml:"source"`

	// FallbackPrice values orders that carry no limit price.
	FallbackPrice float64 `yaml:"fallback_price"`
	// RiskFreeRate is the annual rate used by the historical estimators.
	RiskFreeRate float64 `yaml:"risk_free_rate"`

	Logging Logging `yaml:"logging"`
}

// Default returns the configuration the engine runs with when no file is
// supplied.
func Default() Root {
	var c Root
	applyDefaults(&c)
	return c
}

// Load reads a YAML config file and fills unset fields with defaults.
func Load(path string) (Root, error) {
	var c Root
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	applyDefaults(&c)
	return c, nil
}

func applyDefaults(c *Root) {
	if c.RiskLimits == (risk.LimitPolicy{}) {
		c.RiskLimits = risk.DefaultLimitPolicy()
	}
	if c.Source.Provider == "" {
		c.Source.Provider = "mock"
	}
	if c.Source.BaseURL == "" {
		c.Source.BaseURL = "https://paper-api.alpaca.markets"
	}
	if c.Source.TimeoutMs == 0 {
		c.Source.TimeoutMs = 5000
	}
	if c.Source.RateLimitPerMinute == 0 {
		c.Source.RateLimitPerMinute = 200
	}
	if c.Source.MaxRetries == 0 {
		c.Source.MaxRetries = 3
	}
	if c.Source.BackoffBaseMs == 0 {
		c.Source.BackoffBaseMs = 100
	}
	if c.FallbackPrice == 0 {
		c.FallbackPrice = 100
	}
	if c.RiskFreeRate == 0 {
		c.RiskFreeRate = 0.02
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// SectorMap builds the sector lookup: the built-in table extended and
// overridden by the configured entries.
func (c Root) SectorMap() *risk.SectorMap {
	if len(c.Sectors) == 0 {
		return risk.DefaultSectorMap()
	}
	merged := risk.DefaultSectors()
	for symbol, sector := range c.Sectors {
		merged[symbol] = sector
	}
	return risk.NewSectorMap(merged)
}
