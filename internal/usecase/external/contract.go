package external

import "context"

// Fetcher retrieves a raw upstream response for a fully built URL.
// Satisfied by HTTPFetcher and by the caching decorator around it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
