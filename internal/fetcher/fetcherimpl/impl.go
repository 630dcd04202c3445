package fetcherimpl

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/leadscout/linkedin-post-parser/internal/fetcher"
	"github.com/leadscout/linkedin-post-parser/pkg/config"
	"github.com/leadscout/linkedin-post-parser/pkg/errors"
	"github.com/leadscout/linkedin-post-parser/pkg/logger"
	"github.com/leadscout/linkedin-post-parser/pkg/retry"
	"go.uber.org/fx"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// FetcherImpl fetches rendered page HTML through the ScrapingBee API.
type FetcherImpl struct {
	client *resty.Client
	logger logger.Logger
	apiKey string
}

// New builds the client without requiring the API key, so offline modes can
// construct the object graph. The key is checked on first Fetch instead.
func New(opts Opts) *FetcherImpl {
	client := resty.New().
		SetBaseURL(opts.Config.ScrapingBee.Endpoint).
		SetTimeout(time.Duration(opts.Config.ScrapingBee.Timeout) * time.Second).
		SetHeader("User-Agent", userAgent)

	return &FetcherImpl{
		client: client,
		logger: opts.Logger,
		apiKey: opts.Config.ScrapingBee.APIKey,
	}
}

var _ fetcher.Client = (*FetcherImpl)(nil)

func (f *FetcherImpl) Fetch(ctx context.Context, url string, renderJS bool) (string, error) {
	if f.apiKey == "" {
		return "", errors.Wrap(errors.ErrConfiguration, "SCRAPINGBEE_KEY is not set")
	}

	var html string

	err := retry.Do(ctx, f.logger, "fetch_html", func() error {
		resp, err := f.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"api_key":   f.apiKey,
				"url":       url,
				"render_js": strconv.FormatBool(renderJS),
			}).
			Get("")
		if err != nil {
			return &fetcher.FetchError{URL: url, Err: err}
		}
		if resp.IsError() {
			ferr := &fetcher.FetchError{URL: url, StatusCode: resp.StatusCode()}
			if retry.PermanentHTTPStatus(resp.StatusCode()) {
				return backoff.Permanent(ferr)
			}
			return ferr
		}
		html = resp.String()
		return nil
	}, retry.DefaultConfig())
	if err != nil {
		return "", err
	}

	f.logger.Debug("Fetched page", "url", url, "bytes", len(html))
	return html, nil
}

func (f *FetcherImpl) FetchToFile(ctx context.Context, url string, renderJS bool, savePath string) (string, error) {
	html, err := f.Fetch(ctx, url, renderJS)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(savePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrap(err, "failed to create directory for saved HTML")
		}
	}
	if err := os.WriteFile(savePath, []byte(html), 0o644); err != nil {
		return "", errors.Wrap(err, "failed to save HTML")
	}

	return html, nil
}
