package http

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// DefaultSigningService is the SigV4 service name for Amazon OpenSearch.
const DefaultSigningService = "es"

// SigningTransport signs every request with AWS Signature Version 4
// before handing it to Base.
type SigningTransport struct {
	Base        http.RoundTripper
	Credentials aws.CredentialsProvider
	Region      string
	Service     string

	signer *v4.Signer
	now    func() time.Time
}

// NewSigningTransport returns a transport that signs with static keys.
func NewSigningTransport(base http.RoundTripper, creds aws.Credentials, region, service string) *SigningTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if service == "" {
		service = DefaultSigningService
	}
	if creds.Source == "" {
		creds.Source = "swsship"
	}
	return &SigningTransport{
		Base: base,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return creds, nil
		}),
		Region:  region,
		Service: service,
		signer:  v4.NewSigner(),
		now:     time.Now,
	}
}

// RoundTrip signs a clone of req; the caller's request is not modified.
func (t *SigningTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	signed := req.Clone(ctx)

	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read body for signing: %w", err)
		}
		signed.Body = io.NopCloser(bytes.NewReader(body))
		signed.ContentLength = int64(len(body))
	}
	sum := sha256.Sum256(body)

	creds, err := t.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve credentials: %w", err)
	}
	if err := t.signer.SignHTTP(ctx, creds, signed, hex.EncodeToString(sum[:]), t.Service, t.Region, t.now()); err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}
	return t.Base.RoundTrip(signed)
}
