package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML friendly types.
type FileConfig struct {
	Elasticsearch      string `toml:"elasticsearch"`
	IndexPrefix        string `toml:"index_prefix"`
	AWSAccessKeyID     string `toml:"aws_access_key_id"`
	AWSSecretAccessKey string `toml:"aws_secret_access_key"`
	AWSSessionToken    string `toml:"aws_session_token"`
	AWSRegion          string `toml:"aws_region"`
	AWSService         string `toml:"aws_service"`
	Input              string `toml:"input"`
	FromStart          *bool  `toml:"from_start"`
	Once               *bool  `toml:"once"`
	StateDir           string `toml:"state_dir"`
	TickInterval       string `toml:"tick_interval"`
	HTTPTimeout        string `toml:"http_timeout"`
	ShutdownTimeout    string `toml:"shutdown_timeout"`
	MetricsAddr        string `toml:"metrics_addr"`
	LogLevel           string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.swsship/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".swsship", "config.toml")
	}
	return ""
}

// ApplyFileConfig copies file values into cfg, skipping flags in changed.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("elasticsearch", fc.Elasticsearch, &cfg.Elasticsearch)
	s.setString("index-prefix", fc.IndexPrefix, &cfg.IndexPrefix)
	s.setString("aws-access-key-id", fc.AWSAccessKeyID, &cfg.AWSAccessKeyID)
	s.setString("aws-secret-access-key", fc.AWSSecretAccessKey, &cfg.AWSSecretAccessKey)
	s.setString("aws-session-token", fc.AWSSessionToken, &cfg.AWSSessionToken)
	s.setString("aws-region", fc.AWSRegion, &cfg.AWSRegion)
	s.setString("aws-service", fc.AWSService, &cfg.AWSService)
	s.setString("input", fc.Input, &cfg.Input)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("tick-interval", fc.TickInterval, &cfg.TickInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", fc.ShutdownTimeout, &cfg.ShutdownTimeout); err != nil {
		return err
	}

	s.setBool("from-start", fc.FromStart, &cfg.FromStart)
	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}

// FileExists reports whether a file exists at p.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
