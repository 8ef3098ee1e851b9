package external

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/duma2005/moviedeck/internal/domain"
)

// UpstreamError carries a non-2xx upstream response through to the caller
// so the transport can forward the original status code.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d", e.Status)
}

// HTTPFetcher performs GET requests against an upstream API, attaching a
// fixed set of headers to every request.
type HTTPFetcher struct {
	client  *http.Client
	headers map[string]string
}

// NewHTTPFetcher creates a fetcher with the given request timeout.
func NewHTTPFetcher(timeout time.Duration, headers map[string]string) *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		headers: headers,
	}
}

// Fetch GETs the URL and returns the response body.
// Network failures map to domain.ErrUpstream; non-2xx responses are
// returned as *UpstreamError with the upstream status and body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstream, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %s", domain.ErrUpstream, err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &UpstreamError{Status: res.StatusCode, Body: string(body)}
	}
	return body, nil
}
