package ports

import "net/http"

// HTTPClient executes HTTP requests. *http.Client satisfies it; tests
// substitute a fake.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
