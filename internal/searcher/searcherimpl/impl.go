package searcherimpl

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/leadscout/linkedin-post-parser/internal/searcher"
	"github.com/leadscout/linkedin-post-parser/pkg/config"
	"github.com/leadscout/linkedin-post-parser/pkg/errors"
	"github.com/leadscout/linkedin-post-parser/pkg/logger"
	"github.com/leadscout/linkedin-post-parser/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// SearcherImpl resolves keyword queries through the SerpAPI JSON endpoint.
type SearcherImpl struct {
	client *resty.Client
	logger logger.Logger
	apiKey string
	engine string
}

// New builds the client without requiring the API key, so offline modes can
// construct the object graph. The key is checked on first Search instead.
func New(opts Opts) *SearcherImpl {
	client := resty.New().
		SetBaseURL(opts.Config.SerpAPI.Endpoint).
		SetTimeout(time.Duration(opts.Config.SerpAPI.Timeout) * time.Second)

	return &SearcherImpl{
		client: client,
		logger: opts.Logger,
		apiKey: opts.Config.SerpAPI.APIKey,
		engine: opts.Config.SerpAPI.Engine,
	}
}

var _ searcher.Client = (*SearcherImpl)(nil)

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

type organicResult struct {
	Link         string `json:"link"`
	FormattedURL string `json:"formatted_url"`
}

func (s *SearcherImpl) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	if s.apiKey == "" {
		return nil, errors.Wrap(errors.ErrConfiguration, "SERPAPI_KEY is not set")
	}

	var out searchResponse

	err := retry.Do(ctx, s.logger, "search", func() error {
		resp, err := s.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"engine":  s.engine,
				"q":       query,
				"num":     strconv.Itoa(maxResults),
				"api_key": s.apiKey,
			}).
			SetResult(&out).
			Get("")
		if err != nil {
			return &searcher.SearchError{Query: query, Err: err}
		}
		if resp.IsError() {
			serr := &searcher.SearchError{Query: query, StatusCode: resp.StatusCode()}
			if retry.PermanentHTTPStatus(resp.StatusCode()) {
				return backoff.Permanent(serr)
			}
			return serr
		}
		return nil
	}, retry.DefaultConfig())
	if err != nil {
		return nil, err
	}

	var urls []string
	for _, item := range out.OrganicResults {
		if item.Link == "" {
			continue
		}
		urls = append(urls, item.Link)
		if len(urls) >= maxResults {
			break
		}
	}

	s.logger.Debug("Search completed", "query", query, "results", len(urls))
	return urls, nil
}

// FindCompanySlugs searches for the company's LinkedIn page and extracts
// candidate company-page slugs from the result URLs.
func (s *SearcherImpl) FindCompanySlugs(ctx context.Context, companyName string, maxResults int) ([]string, error) {
	query := fmt.Sprintf(`site:linkedin.com/company "%s"`, companyName)
	urls, err := s.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	var slugs []string
	seen := map[string]bool{}
	for _, u := range urls {
		if !strings.Contains(u, "linkedin.com/company") {
			continue
		}
		if slug := searcher.CompanySlugFromURL(u); slug != "" && !seen[slug] {
			seen[slug] = true
			slugs = append(slugs, slug)
		}
	}
	return slugs, nil
}
