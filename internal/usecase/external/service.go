package external

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/duma2005/moviedeck/internal/domain"
)

const (
	omdbBase  = "https://www.omdbapi.com/"
	traktBase = "https://api.trakt.tv"
)

// TraktHeaders returns the fixed headers the Trakt API requires.
func TraktHeaders(clientID string) map[string]string {
	return map[string]string{
		"Content-Type":      "application/json",
		"trakt-api-version": "2",
		"trakt-api-key":     clientID,
	}
}

// Service proxies read requests to OMDb and Trakt, injecting credentials
// server-side so they never reach the browser.
type Service struct {
	omdb    Fetcher
	trakt   Fetcher
	omdbKey string
	traktID string
	logger  *zap.Logger
}

// New creates a Service. Either fetcher may be nil when the matching
// credential is absent; the corresponding proxy then reports
// domain.ErrUpstreamNotConfigured.
func New(omdb, trakt Fetcher, omdbKey, traktClientID string, logger *zap.Logger) *Service {
	return &Service{
		omdb:    omdb,
		trakt:   trakt,
		omdbKey: omdbKey,
		traktID: traktClientID,
		logger:  logger,
	}
}

// OMDb proxies a query to the OMDb API. The request must carry an "i"
// (IMDb id) or "t" (title) parameter; the API key is injected unless the
// caller supplied one.
func (s *Service) OMDb(ctx context.Context, query url.Values) ([]byte, error) {
	if s.omdbKey == "" || s.omdb == nil {
		return nil, fmt.Errorf("%w: OMDb API key", domain.ErrUpstreamNotConfigured)
	}
	if query.Get("i") == "" && query.Get("t") == "" {
		return nil, fmt.Errorf("%w: missing OMDb identifier", domain.ErrValidation)
	}
	if query.Get("apikey") == "" {
		query = cloneValues(query)
		query.Set("apikey", s.omdbKey)
	}
	return s.omdb.Fetch(ctx, omdbBase+"?"+query.Encode())
}

// Trakt proxies a query to the Trakt API under the given path.
func (s *Service) Trakt(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if s.traktID == "" || s.trakt == nil {
		return nil, fmt.Errorf("%w: Trakt client id", domain.ErrUpstreamNotConfigured)
	}
	u := traktBase + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return s.trakt.Fetch(ctx, u)
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
