package searcher

import (
	"context"
	"fmt"
)

//go:generate go run go.uber.org/mock/mockgen -source=searcher.go -destination=mocks/mock.go
type Client interface {
	// Search runs one keyword query against the search service and returns
	// candidate result URLs, at most maxResults of them.
	Search(ctx context.Context, query string, maxResults int) ([]string, error)

	// FindCompanySlugs looks up LinkedIn company-page slugs for a company
	// name, e.g. "Teleperformance India" -> ["teleperformance-india"].
	FindCompanySlugs(ctx context.Context, companyName string, maxResults int) ([]string, error)
}

// SearchError reports a search service failure for one query. The pipeline
// logs it and continues with the remaining queries.
type SearchError struct {
	Query      string
	StatusCode int
	Err        error
}

func (e *SearchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search %q: status %d", e.Query, e.StatusCode)
	}
	return fmt.Sprintf("search %q: %v", e.Query, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}
