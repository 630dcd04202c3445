package pipeline

import (
	"context"
	"time"
)

// Options configures one pipeline run. Zero values fall back to the
// environment configuration.
type Options struct {
	// Keywords are event keywords to search for ("mothers day", "#IWD2025").
	Keywords []string
	// Companies narrows the search to posts by these companies.
	Companies []string
	// URLs bypasses the search step entirely.
	URLs []string
	// CompanyOnly drops parsed posts whose author does not match one of
	// Companies; company-page slugs are auto-detected when not provided.
	CompanyOnly bool
	// CompanySlugs are LinkedIn company-page slugs used for query building
	// and author matching.
	CompanySlugs []string
	// Since/Until keep only posts published inside the range (inclusive).
	Since *time.Time
	Until *time.Time

	// TopPerQuery caps results per search query.
	TopPerQuery int
	// SaveHTML writes each fetched page under HTMLDir.
	SaveHTML bool
	// HTMLDir overrides the configured directory for saved pages.
	HTMLDir string

	// Output overrides; empty means the configured default.
	MasterJSON  string
	MasterExcel string
	JSONDir     string
}

// Summary reports what one run did. A run with zero parsed records is not an
// error at this level; the caller decides the exit code.
type Summary struct {
	QueriesRun   int
	SearchErrors int
	URLsFound    int
	Fetched      int
	FetchErrors  int
	Parsed       int
	Skipped      int
	// CollectionSize is the master collection size after merging.
	CollectionSize int
}

type Client interface {
	// Run executes search -> fetch -> parse -> merge -> persist. Individual
	// fetch/search failures are logged and skipped; only persistence
	// failures abort the run.
	Run(ctx context.Context, opts Options) (*Summary, error)

	// RunBatch parses already-saved .html files from dir and merges them
	// into the master outputs, without any network access.
	RunBatch(ctx context.Context, dir string, opts Options) (*Summary, error)

	// Watch re-runs Run on a fixed interval until the context is cancelled.
	Watch(ctx context.Context, every time.Duration, opts Options) error
}
