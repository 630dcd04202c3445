package fetcher

import (
	"context"
	"fmt"
)

//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock.go
type Client interface {
	// Fetch returns the raw HTML of the page behind url, optionally asking
	// the rendering service to execute JavaScript first.
	Fetch(ctx context.Context, url string, renderJS bool) (string, error)

	// FetchToFile fetches like Fetch and additionally writes the HTML to
	// savePath, creating parent directories as needed.
	FetchToFile(ctx context.Context, url string, renderJS bool, savePath string) (string, error)
}

// FetchError reports a network, HTTP, or rendering-service failure for one
// URL. The pipeline logs it and skips the URL; it never aborts a batch.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
