package pipelineimpl

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/leadscout/linkedin-post-parser/internal/aggregator"
	"github.com/leadscout/linkedin-post-parser/internal/domain"
	"github.com/leadscout/linkedin-post-parser/internal/fetcher"
	"github.com/leadscout/linkedin-post-parser/internal/parser"
	"github.com/leadscout/linkedin-post-parser/internal/pipeline"
	"github.com/leadscout/linkedin-post-parser/internal/searcher"
	"github.com/leadscout/linkedin-post-parser/internal/storage/excelstore"
	"github.com/leadscout/linkedin-post-parser/internal/storage/jsonstore"
	"github.com/leadscout/linkedin-post-parser/pkg/config"
	"github.com/leadscout/linkedin-post-parser/pkg/logger"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Searcher   searcher.Client
	Fetcher    fetcher.Client
	Parser     parser.Client
	Aggregator aggregator.Client
	JSONStore  *jsonstore.Store
	ExcelStore *excelstore.Store
	Logger     logger.Logger
	Config     *config.Config
}

type PipelineImpl struct {
	Searcher   searcher.Client
	Fetcher    fetcher.Client
	Parser     parser.Client
	Aggregator aggregator.Client
	JSONStore  *jsonstore.Store
	ExcelStore *excelstore.Store
	Logger     logger.Logger
	Config     *config.Config
}

func New(opts Opts) *PipelineImpl {
	return &PipelineImpl{
		Searcher:   opts.Searcher,
		Fetcher:    opts.Fetcher,
		Parser:     opts.Parser,
		Aggregator: opts.Aggregator,
		JSONStore:  opts.JSONStore,
		ExcelStore: opts.ExcelStore,
		Logger:     opts.Logger,
		Config:     opts.Config,
	}
}

var _ pipeline.Client = (*PipelineImpl)(nil)

func (p *PipelineImpl) Run(ctx context.Context, opts pipeline.Options) (*pipeline.Summary, error) {
	opts = p.withDefaults(opts)
	summary := &pipeline.Summary{}

	slugs := opts.CompanySlugs
	if opts.CompanyOnly && len(slugs) == 0 {
		slugs = p.resolveCompanySlugs(ctx, opts.Companies)
	}

	urls := opts.URLs
	if len(urls) == 0 {
		urls = p.discoverURLs(ctx, opts, slugs, summary)
	}
	summary.URLsFound = len(urls)

	if len(urls) == 0 {
		p.Logger.Warn("No candidate post URLs to process")
		return summary, nil
	}

	records := p.fetchAndParse(ctx, urls, opts, slugs, summary)
	return summary, p.persist(opts, records, summary)
}

func (p *PipelineImpl) withDefaults(opts pipeline.Options) pipeline.Options {
	if opts.TopPerQuery <= 0 {
		opts.TopPerQuery = p.Config.Pipeline.TopPerQuery
	}
	if opts.MasterJSON == "" {
		opts.MasterJSON = p.Config.Pipeline.MasterJSON
	}
	if opts.MasterExcel == "" {
		opts.MasterExcel = p.Config.Pipeline.MasterExcel
	}
	if opts.JSONDir == "" {
		opts.JSONDir = p.Config.Pipeline.JSONDir
	}
	if opts.HTMLDir == "" {
		opts.HTMLDir = p.Config.Pipeline.HTMLDir
	}
	return opts
}

func (p *PipelineImpl) resolveCompanySlugs(ctx context.Context, companies []string) []string {
	var slugs []string
	for _, name := range companies {
		found, err := p.Searcher.FindCompanySlugs(ctx, name, 6)
		if err != nil {
			p.Logger.Warn("Company slug lookup failed", "company", name, "error", err)
			continue
		}
		slugs = append(slugs, found...)
	}
	if len(slugs) > 0 {
		p.Logger.Info("Auto-detected company slugs", "slugs", slugs)
	}
	return slugs
}

// discoverURLs runs every built query against the search service, keeping
// only URLs that look like individual LinkedIn posts. One failing query
// never aborts the discovery phase.
func (p *PipelineImpl) discoverURLs(ctx context.Context, opts pipeline.Options, slugs []string, summary *pipeline.Summary) []string {
	var queries []string
	if len(opts.Keywords) > 0 {
		queries = searcher.BuildEventQueries(opts.Keywords, opts.Companies, slugs)
	} else {
		queries = searcher.BuildCompanyQueries(opts.Companies, nil, slugs)
	}
	summary.QueriesRun = len(queries)

	searchDelay := time.Duration(p.Config.Pipeline.SearchDelay * float64(time.Second))
	seen := map[string]bool{}
	var urls []string

	for i, q := range queries {
		if ctx.Err() != nil {
			break
		}
		results, err := p.Searcher.Search(ctx, q, opts.TopPerQuery)
		if err != nil {
			summary.SearchErrors++
			p.Logger.Warn("Search query failed, skipping", "query", q, "error", err)
			continue
		}
		for _, u := range results {
			if searcher.IsLinkedInPostURL(u) && !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
		if i < len(queries)-1 {
			sleepCtx(ctx, searchDelay)
		}
	}

	// Deterministic processing order across runs.
	sort.Strings(urls)
	p.Logger.Info("Discovered candidate post URLs", "queries", len(queries), "urls", len(urls))
	return urls
}

// fetchAndParse fans the URL list out over a bounded worker pool. Merge
// order does not matter: the aggregator is commutative per identity key.
func (p *PipelineImpl) fetchAndParse(ctx context.Context, urls []string, opts pipeline.Options, slugs []string, summary *pipeline.Summary) []*domain.PostRecord {
	fetchDelay := time.Duration(p.Config.Pipeline.FetchDelay * float64(time.Second))

	var (
		mu      sync.Mutex
		records []*domain.PostRecord
		wg      sync.WaitGroup
	)

	pool, err := ants.NewPool(p.Config.Pipeline.Concurrency, ants.WithPreAlloc(true))
	if err != nil {
		p.Logger.Error("Failed to create worker pool, processing sequentially", "error", err)
		pool = nil
	} else {
		defer pool.Release()
	}

	process := func(url string) {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}

		rec, outcome := p.processURL(ctx, url, opts, slugs)

		mu.Lock()
		switch outcome {
		case outcomeParsed:
			records = append(records, rec)
			summary.Fetched++
			summary.Parsed++
		case outcomeFiltered:
			summary.Fetched++
			summary.Skipped++
		case outcomeFetchFailed:
			summary.FetchErrors++
		}
		mu.Unlock()

		sleepCtx(ctx, fetchDelay)
	}

	for _, url := range urls {
		u := url
		wg.Add(1)
		if pool != nil {
			if err := pool.Submit(func() { process(u) }); err != nil {
				wg.Done()
				p.Logger.Error("Failed to submit fetch job", "url", u, "error", err)
			}
		} else {
			process(u)
		}
	}
	wg.Wait()

	return records
}

type processOutcome int

const (
	outcomeFetchFailed processOutcome = iota
	outcomeFiltered
	outcomeParsed
)

func (p *PipelineImpl) processURL(ctx context.Context, url string, opts pipeline.Options, slugs []string) (*domain.PostRecord, processOutcome) {
	var (
		html string
		err  error
	)
	if opts.SaveHTML {
		savePath := filepath.Join(opts.HTMLDir, jsonstore.SafeFileName(url)+".html")
		html, err = p.Fetcher.FetchToFile(ctx, url, p.Config.ScrapingBee.RenderJS, savePath)
	} else {
		html, err = p.Fetcher.Fetch(ctx, url, p.Config.ScrapingBee.RenderJS)
	}
	if err != nil {
		p.Logger.Warn("Fetch failed, skipping URL", "url", url, "error", err)
		return nil, outcomeFetchFailed
	}

	rec, warnings := p.Parser.Parse(html)
	if rec.PostURL == "" {
		rec.PostURL = url
	}
	rec.FetchedURL = url
	for _, w := range warnings {
		p.Logger.Debug("Parse warning", "url", url, "warning", w)
	}

	if opts.CompanyOnly && !MatchesCompany(rec, opts.Companies, slugs) {
		p.Logger.Info("Skipping post not authored by target company", "url", url)
		return nil, outcomeFiltered
	}
	if !WithinDateRange(rec, opts.Since, opts.Until) {
		p.Logger.Info("Skipping post outside date range", "url", url)
		return nil, outcomeFiltered
	}

	if _, err := p.JSONStore.SaveOne(opts.JSONDir, rec); err != nil {
		p.Logger.Warn("Failed to save per-post JSON", "url", url, "error", err)
	}
	return rec, outcomeParsed
}

// persist merges new records into the master collection and regenerates both
// flat-file outputs. Failures here are fatal for the run.
func (p *PipelineImpl) persist(opts pipeline.Options, records []*domain.PostRecord, summary *pipeline.Summary) error {
	existing, err := p.JSONStore.Load(opts.MasterJSON)
	if err != nil {
		return err
	}

	merged := p.Aggregator.Merge(existing, records...)
	summary.CollectionSize = len(merged)

	if err := p.JSONStore.Save(opts.MasterJSON, merged); err != nil {
		return err
	}
	if err := p.ExcelStore.Save(opts.MasterExcel, merged); err != nil {
		return err
	}

	p.Logger.Info("Persisted collection",
		"json", opts.MasterJSON,
		"excel", opts.MasterExcel,
		"new", len(records),
		"total", len(merged),
	)
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
