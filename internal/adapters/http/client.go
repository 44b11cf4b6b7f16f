package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/miteshsondhi/swagger-stats/internal/domain"
	"github.com/miteshsondhi/swagger-stats/internal/ports"
)

const (
	bulkEndpoint     = "/_bulk"
	templateEndpoint = "/_template/"

	ndjsonContentType = "application/x-ndjson"
	jsonContentType   = "application/json"

	// maxErrorBody caps how much of a failed response ends up in the error.
	maxErrorBody = 4 << 10
)

// BackendError is a non-2xx answer from the cluster.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("elasticsearch returned %d: %s", e.StatusCode, e.Body)
}

// Unwrap lets callers match with errors.Is(err, domain.ErrBackend).
func (e *BackendError) Unwrap() error {
	return domain.ErrBackend
}

// Client talks to the Elasticsearch REST API. It implements ports.Backend
// and is safe for concurrent use.
type Client struct {
	baseURL string
	client  ports.HTTPClient
}

var _ ports.Backend = (*Client)(nil)

// NewClient creates a client for the cluster at endpoint.
func NewClient(endpoint string, client ports.HTTPClient) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: endpoint scheme must be http or https, got %q", domain.ErrInvalidConfig, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: endpoint has no host", domain.ErrInvalidConfig)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		client:  client,
	}, nil
}

// BaseURL returns the normalized endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Bulk posts a newline-delimited action/document payload.
// A 200 response whose body reports item errors is returned as ErrBulkItems.
func (c *Client) Bulk(ctx context.Context, body []byte) error {
	resp, err := c.do(ctx, http.MethodPost, bulkEndpoint, ndjsonContentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	var result bulkResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	// Drain what the decoder left so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode bulk response: %w", err)
	}
	return result.err()
}

// TemplateExists reports whether the named index template is installed.
func (c *Client) TemplateExists(ctx context.Context, name string) (bool, error) {
	resp, err := c.do(ctx, http.MethodHead, templateEndpoint+url.PathEscape(name), "", nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode/100 == 2:
		return true, nil
	default:
		return false, &BackendError{StatusCode: resp.StatusCode}
	}
}

// PutTemplate installs body as the named index template.
func (c *Client) PutTemplate(ctx context.Context, name string, body []byte) error {
	resp, err := c.do(ctx, http.MethodPut, templateEndpoint+url.PathEscape(name), jsonContentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", jsonContentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode/100 == 2 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &BackendError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}

type bulkResponse struct {
	Errors bool                          `json:"errors"`
	Items  []map[string]bulkItemResponse `json:"items"`
}

type bulkItemResponse struct {
	ID     string `json:"_id"`
	Status int    `json:"status"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

// err summarizes rejected items, naming the first one.
func (r bulkResponse) err() error {
	if !r.Errors {
		return nil
	}
	failed := 0
	var first string
	for _, item := range r.Items {
		for _, res := range item {
			if res.Error == nil && res.Status < 300 {
				continue
			}
			failed++
			if first == "" && res.Error != nil {
				first = fmt.Sprintf("%s: %s: %s", res.ID, res.Error.Type, res.Error.Reason)
			}
		}
	}
	if first == "" {
		return fmt.Errorf("%w: %d of %d", domain.ErrBulkItems, failed, len(r.Items))
	}
	return fmt.Errorf("%w: %d of %d (first %s)", domain.ErrBulkItems, failed, len(r.Items), first)
}
