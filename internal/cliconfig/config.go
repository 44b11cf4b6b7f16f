package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/miteshsondhi/swagger-stats/pkg/emitter"
)

// Config holds CLI configuration for swsship.
type Config struct {
	Elasticsearch string
	IndexPrefix   string

	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSSessionToken    string
	AWSRegion          string
	AWSService         string

	Input     string
	FromStart bool
	Once      bool
	StateDir  string

	TickInterval    time.Duration
	HTTPTimeout     time.Duration
	ShutdownTimeout time.Duration

	MetricsAddr string
	LogLevel    string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		IndexPrefix:     emitter.DefaultIndexPrefix,
		TickInterval:    time.Second,
		HTTPTimeout:     emitter.DefaultHTTPTimeout,
		ShutdownTimeout: 30 * time.Second,
		LogLevel:        "info",
	}
}

// Validate checks the configuration for errors and normalizes values.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}

	c.Elasticsearch = strings.TrimRight(strings.TrimSpace(c.Elasticsearch), "/")

	if c.AWSAccessKeyID != "" || c.AWSSecretAccessKey != "" {
		if c.AWSAccessKeyID == "" || c.AWSSecretAccessKey == "" {
			return fmt.Errorf("aws access key id and secret access key must be set together")
		}
		if c.AWSRegion == "" {
			return fmt.Errorf("aws region is required when aws keys are set")
		}
	}

	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// EmitterConfig converts to the library configuration. AWS keys, when
// present, switch the emitter to signed requests.
func (c Config) EmitterConfig() emitter.Config {
	cfg := emitter.Config{
		Endpoint:    c.Elasticsearch,
		IndexPrefix: c.IndexPrefix,
		HTTPTimeout: c.HTTPTimeout,
	}
	if c.AWSAccessKeyID != "" {
		cfg.Credentials = &emitter.Credentials{
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretAccessKey,
			SessionToken:    c.AWSSessionToken,
			Region:          c.AWSRegion,
			Service:         c.AWSService,
		}
	}
	return cfg
}

// Masked returns a copy safe to log.
func (c Config) Masked() Config {
	if c.AWSSecretAccessKey != "" {
		c.AWSSecretAccessKey = "*****"
	}
	if c.AWSSessionToken != "" {
		c.AWSSessionToken = "*****"
	}
	return c
}

// configSetter applies values unless the matching flag was set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString accepts anything strconv.ParseBool does.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
