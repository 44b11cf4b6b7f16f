package emitter

import (
	"fmt"
	"strings"
	"time"

	"github.com/miteshsondhi/swagger-stats/internal/app"
	"github.com/miteshsondhi/swagger-stats/internal/domain"
)

// Defaults.
const (
	DefaultIndexPrefix = app.DefaultIndexPrefix
	DefaultHTTPTimeout = 30 * time.Second
)

// Config holds the backend settings read by Initialize.
type Config struct {
	// Endpoint is the cluster URL, e.g. http://localhost:9200.
	// Empty leaves the emitter disabled.
	Endpoint string

	// IndexPrefix starts every daily index name. Default "api-".
	IndexPrefix string

	// Credentials switches to AWS SigV4 signed requests.
	Credentials *Credentials

	// HTTPTimeout bounds every request. Default 30s.
	HTTPTimeout time.Duration
}

// Credentials are static AWS keys used to sign requests.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string

	// Service is the signing name, "es" unless set.
	Service string
}

// Enabled reports whether the config names a backend.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.IndexPrefix == "" {
		c.IndexPrefix = DefaultIndexPrefix
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
}

// Validate checks the credential block. The endpoint itself is checked
// when the client is built.
func (c Config) Validate() error {
	if c.Credentials == nil {
		return nil
	}
	if c.Credentials.AccessKeyID == "" || c.Credentials.SecretAccessKey == "" {
		return fmt.Errorf("%w: credentials need an access key id and a secret access key", domain.ErrInvalidConfig)
	}
	if c.Credentials.Region == "" {
		return fmt.Errorf("%w: credentials need a region", domain.ErrInvalidConfig)
	}
	return nil
}
