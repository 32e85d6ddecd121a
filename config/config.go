// Package config provides configuration for the telhawk-crash SDK.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Transport kinds accepted by Validate.
const (
	TransportHTTP = "http"
	TransportNATS = "nats"
)

type Config struct {
	// Release is the default release stamped onto events that carry none,
	// e.g. "my-service@1.4.2".
	Release string `mapstructure:"release"`

	// Environment is the default environment stamped onto events that
	// carry none, e.g. "production".
	Environment string `mapstructure:"environment"`

	InApp     InAppConfig     `mapstructure:"in_app"`
	Transport TransportConfig `mapstructure:"transport"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// InAppConfig drives the stack-frame classifier. A frame whose package
// matches an include prefix is in-app; includes win over excludes.
type InAppConfig struct {
	Includes []string `mapstructure:"includes"`
	Excludes []string `mapstructure:"excludes"`
}

type TransportConfig struct {
	Kind      string        `mapstructure:"kind"`
	Endpoint  string        `mapstructure:"endpoint"`
	AuthToken string        `mapstructure:"auth_token"`
	Timeout   time.Duration `mapstructure:"timeout"`
	NATS      NATSConfig    `mapstructure:"nats"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("release", "")
	v.SetDefault("environment", "production")
	v.SetDefault("transport.kind", TransportHTTP)
	v.SetDefault("transport.endpoint", "http://localhost:8099/api/v1/store")
	v.SetDefault("transport.timeout", "10s")
	v.SetDefault("transport.nats.url", "nats://localhost:4222")
	v.SetDefault("transport.nats.subject", "telhawk.crash.events")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/telhawk/crash")
	}

	// Environment variables override
	v.SetEnvPrefix("CRASH")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	cfg, _ := Load("")
	if cfg == nil {
		cfg = &Config{
			Environment: "production",
			Transport: TransportConfig{
				Kind:    TransportHTTP,
				Timeout: 10 * time.Second,
			},
			Logging: LoggingConfig{Level: "info", Format: "json"},
		}
	}
	return cfg
}

// Validate rejects configurations the SDK cannot start with.
func (c *Config) Validate() error {
	switch c.Transport.Kind {
	case TransportHTTP, TransportNATS:
	default:
		return fmt.Errorf("unknown transport kind %q", c.Transport.Kind)
	}
	if c.Transport.Timeout < 0 {
		return fmt.Errorf("transport timeout must not be negative")
	}
	return nil
}
