package cliconfig

import (
	"testing"
	"time"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Input = "/var/log/api.ndjson"
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults with input are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing input",
			mutate:  func(c *Config) { c.Input = "" },
			wantErr: true,
		},
		{
			name: "aws keys without region",
			mutate: func(c *Config) {
				c.AWSAccessKeyID = "AKID"
				c.AWSSecretAccessKey = "secret"
			},
			wantErr: true,
		},
		{
			name: "aws key id without secret",
			mutate: func(c *Config) {
				c.AWSAccessKeyID = "AKID"
				c.AWSRegion = "us-east-1"
			},
			wantErr: true,
		},
		{
			name: "aws keys with region",
			mutate: func(c *Config) {
				c.AWSAccessKeyID = "AKID"
				c.AWSSecretAccessKey = "secret"
				c.AWSRegion = "us-east-1"
			},
		},
		{
			name:    "zero tick interval",
			mutate:  func(c *Config) { c.TickInterval = 0 },
			wantErr: true,
		},
		{
			name:    "negative http timeout",
			mutate:  func(c *Config) { c.HTTPTimeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.ShutdownTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateTrimsEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Elasticsearch = " http://localhost:9200// "
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Elasticsearch != "http://localhost:9200" {
		t.Errorf("Elasticsearch = %q, want %q", cfg.Elasticsearch, "http://localhost:9200")
	}
}

func TestConfigEmitterConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Elasticsearch = "http://localhost:9200"
	cfg.IndexPrefix = "swagger-"

	ec := cfg.EmitterConfig()
	if ec.Endpoint != "http://localhost:9200" || ec.IndexPrefix != "swagger-" {
		t.Errorf("EmitterConfig() = %+v", ec)
	}
	if ec.Credentials != nil {
		t.Errorf("Credentials = %+v, want nil without keys", ec.Credentials)
	}

	cfg.AWSAccessKeyID = "AKID"
	cfg.AWSSecretAccessKey = "secret"
	cfg.AWSSessionToken = "token"
	cfg.AWSRegion = "eu-west-1"
	ec = cfg.EmitterConfig()
	if ec.Credentials == nil {
		t.Fatal("Credentials = nil, want set")
	}
	if ec.Credentials.AccessKeyID != "AKID" || ec.Credentials.Region != "eu-west-1" || ec.Credentials.SessionToken != "token" {
		t.Errorf("Credentials = %+v", ec.Credentials)
	}
}

func TestConfigMasked(t *testing.T) {
	cfg := validConfig()
	cfg.AWSSecretAccessKey = "secret"
	cfg.AWSSessionToken = "token"

	m := cfg.Masked()
	if m.AWSSecretAccessKey != "*****" || m.AWSSessionToken != "*****" {
		t.Errorf("Masked() = %+v", m)
	}
	if cfg.AWSSecretAccessKey != "secret" {
		t.Error("Masked() modified the receiver")
	}
}
