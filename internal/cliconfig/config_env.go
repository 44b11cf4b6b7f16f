package cliconfig

import "os"

// ApplyEnvConfig applies SWS_* environment variables to cfg, skipping
// flags in changed. AWS credentials also fall back to the standard AWS_*
// variables. Returns an error for malformed values.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("elasticsearch", os.Getenv("SWS_ELASTICSEARCH"), &cfg.Elasticsearch)
	s.setString("index-prefix", os.Getenv("SWS_INDEX_PREFIX"), &cfg.IndexPrefix)
	s.setString("aws-access-key-id", getenv("SWS_AWS_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"), &cfg.AWSAccessKeyID)
	s.setString("aws-secret-access-key", getenv("SWS_AWS_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"), &cfg.AWSSecretAccessKey)
	s.setString("aws-session-token", getenv("SWS_AWS_SESSION_TOKEN", "AWS_SESSION_TOKEN"), &cfg.AWSSessionToken)
	s.setString("aws-region", getenv("SWS_AWS_REGION", "AWS_REGION"), &cfg.AWSRegion)
	s.setString("aws-service", os.Getenv("SWS_AWS_SERVICE"), &cfg.AWSService)
	s.setString("input", os.Getenv("SWS_INPUT"), &cfg.Input)
	s.setString("state-dir", os.Getenv("SWS_STATE_DIR"), &cfg.StateDir)
	s.setString("metrics-addr", os.Getenv("SWS_METRICS_ADDR"), &cfg.MetricsAddr)
	s.setString("log-level", os.Getenv("SWS_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("tick-interval", os.Getenv("SWS_TICK_INTERVAL"), &cfg.TickInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("SWS_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", os.Getenv("SWS_SHUTDOWN_TIMEOUT"), &cfg.ShutdownTimeout); err != nil {
		return err
	}

	if err := s.setBoolFromString("from-start", os.Getenv("SWS_FROM_START"), &cfg.FromStart); err != nil {
		return err
	}
	if err := s.setBoolFromString("once", os.Getenv("SWS_ONCE"), &cfg.Once); err != nil {
		return err
	}
	return nil
}

// getenv returns the first non-empty variable among keys.
func getenv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
