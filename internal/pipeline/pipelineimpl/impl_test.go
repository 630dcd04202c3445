package pipelineimpl_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leadscout/linkedin-post-parser/internal/aggregator/aggregatorimpl"
	"github.com/leadscout/linkedin-post-parser/internal/domain"
	"github.com/leadscout/linkedin-post-parser/internal/fetcher/fetcherimpl"
	mock_fetcher "github.com/leadscout/linkedin-post-parser/internal/fetcher/mocks"
	mock_parser "github.com/leadscout/linkedin-post-parser/internal/parser/mocks"
	"github.com/leadscout/linkedin-post-parser/internal/pipeline"
	"github.com/leadscout/linkedin-post-parser/internal/pipeline/pipelineimpl"
	mock_searcher "github.com/leadscout/linkedin-post-parser/internal/searcher/mocks"
	"github.com/leadscout/linkedin-post-parser/internal/searcher/searcherimpl"
	"github.com/leadscout/linkedin-post-parser/internal/storage/excelstore"
	"github.com/leadscout/linkedin-post-parser/internal/storage/jsonstore"
	"github.com/leadscout/linkedin-post-parser/pkg/config"
	"github.com/leadscout/linkedin-post-parser/pkg/errors"
	"github.com/leadscout/linkedin-post-parser/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	pipeline *pipelineimpl.PipelineImpl
	searcher *mock_searcher.MockClient
	fetcher  *mock_fetcher.MockClient
	parser   *mock_parser.MockClient
	store    *jsonstore.Store
	opts     pipeline.Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	log := logger.New(logger.Opts{})
	cfg := &config.Config{}
	cfg.Pipeline.TopPerQuery = 5
	cfg.Pipeline.Concurrency = 2
	cfg.Pipeline.HTMLDir = filepath.Join(t.TempDir(), "html")

	mockSearcher := mock_searcher.NewMockClient(ctrl)
	mockFetcher := mock_fetcher.NewMockClient(ctrl)
	mockParser := mock_parser.NewMockClient(ctrl)
	store := jsonstore.New(jsonstore.Opts{Logger: log})

	p := pipelineimpl.New(pipelineimpl.Opts{
		Searcher:   mockSearcher,
		Fetcher:    mockFetcher,
		Parser:     mockParser,
		Aggregator: aggregatorimpl.New(aggregatorimpl.Opts{Logger: log}),
		JSONStore:  store,
		ExcelStore: excelstore.New(excelstore.Opts{Logger: log}),
		Logger:     log,
		Config:     cfg,
	})

	out := t.TempDir()
	return &fixture{
		pipeline: p,
		searcher: mockSearcher,
		fetcher:  mockFetcher,
		parser:   mockParser,
		store:    store,
		opts: pipeline.Options{
			MasterJSON:  filepath.Join(out, "master.json"),
			MasterExcel: filepath.Join(out, "master.xlsx"),
			JSONDir:     filepath.Join(out, "jsons"),
		},
	}
}

func TestRunWithExplicitURLs(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	urlA := "https://www.linkedin.com/posts/a"
	urlB := "https://www.linkedin.com/posts/b"
	urlC := "https://www.linkedin.com/posts/c"

	fx.fetcher.EXPECT().Fetch(gomock.Any(), urlA, false).Return("html-a", nil)
	fx.fetcher.EXPECT().Fetch(gomock.Any(), urlB, false).Return("html-b", nil)
	fx.fetcher.EXPECT().Fetch(gomock.Any(), urlC, false).
		Return("", errors.New("rendering service unavailable"))

	fx.parser.EXPECT().Parse("html-a").
		Return(&domain.PostRecord{PostURL: urlA, Text: "post a"}, nil)
	fx.parser.EXPECT().Parse("html-b").
		Return(&domain.PostRecord{Text: "post b"}, nil)

	fx.opts.URLs = []string{urlA, urlB, urlC}
	summary, err := fx.pipeline.Run(context.Background(), fx.opts)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.URLsFound)
	assert.Equal(t, 2, summary.Fetched)
	assert.Equal(t, 2, summary.Parsed)
	assert.Equal(t, 1, summary.FetchErrors)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 2, summary.CollectionSize)

	records, err := fx.store.Load(fx.opts.MasterJSON)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.NotEmpty(t, rec.PostURL, "post_url falls back to the fetched URL")
		assert.NotEmpty(t, rec.FetchedURL)
	}

	_, err = os.Stat(fx.opts.MasterExcel)
	require.NoError(t, err)

	perPost, err := os.ReadDir(fx.opts.JSONDir)
	require.NoError(t, err)
	assert.Len(t, perPost, 2)
}

func TestRunDiscoversURLsFromKeywords(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	postA := "https://www.linkedin.com/posts/a"
	postB := "https://www.linkedin.com/posts/b"
	profile := "https://www.linkedin.com/in/janedoe"

	// One result set per built query; non-post URLs and duplicates are
	// dropped before fetching.
	fx.searcher.EXPECT().Search(gomock.Any(), `site:linkedin.com/posts "mothers day"`, 5).
		Return([]string{postA, profile}, nil)
	fx.searcher.EXPECT().Search(gomock.Any(), `site:linkedin.com/feed/update "mothers day"`, 5).
		Return([]string{postA, postB}, nil)

	fx.fetcher.EXPECT().Fetch(gomock.Any(), postA, false).Return("html-a", nil)
	fx.fetcher.EXPECT().Fetch(gomock.Any(), postB, false).Return("html-b", nil)

	fx.parser.EXPECT().Parse("html-a").Return(&domain.PostRecord{PostURL: postA}, nil)
	fx.parser.EXPECT().Parse("html-b").Return(&domain.PostRecord{PostURL: postB}, nil)

	fx.opts.Keywords = []string{"mothers day"}
	summary, err := fx.pipeline.Run(context.Background(), fx.opts)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.QueriesRun)
	assert.Equal(t, 2, summary.URLsFound)
	assert.Equal(t, 2, summary.Parsed)
	assert.Equal(t, 2, summary.CollectionSize)
}

func TestRunSkipsFailedQueries(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	postA := "https://www.linkedin.com/posts/a"

	fx.searcher.EXPECT().Search(gomock.Any(), `site:linkedin.com/posts "mothers day"`, 5).
		Return(nil, errors.New("quota exceeded"))
	fx.searcher.EXPECT().Search(gomock.Any(), `site:linkedin.com/feed/update "mothers day"`, 5).
		Return([]string{postA}, nil)

	fx.fetcher.EXPECT().Fetch(gomock.Any(), postA, false).Return("html-a", nil)
	fx.parser.EXPECT().Parse("html-a").Return(&domain.PostRecord{PostURL: postA}, nil)

	fx.opts.Keywords = []string{"mothers day"}
	summary, err := fx.pipeline.Run(context.Background(), fx.opts)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SearchErrors)
	assert.Equal(t, 1, summary.Parsed)
}

func TestRunCompanyFilterSkipsOtherAuthors(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	urlA := "https://www.linkedin.com/posts/a"
	urlB := "https://www.linkedin.com/posts/b"

	fx.fetcher.EXPECT().Fetch(gomock.Any(), urlA, false).Return("html-a", nil)
	fx.fetcher.EXPECT().Fetch(gomock.Any(), urlB, false).Return("html-b", nil)

	fx.parser.EXPECT().Parse("html-a").
		Return(&domain.PostRecord{PostURL: urlA, AuthorName: domain.String("Acme Corp")}, nil)
	fx.parser.EXPECT().Parse("html-b").
		Return(&domain.PostRecord{PostURL: urlB, AuthorName: domain.String("Someone Else")}, nil)

	fx.opts.URLs = []string{urlA, urlB}
	fx.opts.CompanyOnly = true
	fx.opts.Companies = []string{"Acme Corp"}
	fx.opts.CompanySlugs = []string{"acme-corp"}

	summary, err := fx.pipeline.Run(context.Background(), fx.opts)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Parsed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.CollectionSize)
}

func TestRunMergesIntoExistingCollection(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	urlA := "https://www.linkedin.com/posts/a"

	require.NoError(t, fx.store.Save(fx.opts.MasterJSON, []*domain.PostRecord{{
		PostURL:    urlA,
		LikesCount: domain.Int(50),
	}}))

	fx.fetcher.EXPECT().Fetch(gomock.Any(), urlA, false).Return("html-a", nil)
	fx.parser.EXPECT().Parse("html-a").
		Return(&domain.PostRecord{PostURL: urlA, CommentsCount: domain.Int(9)}, nil)

	fx.opts.URLs = []string{urlA}
	summary, err := fx.pipeline.Run(context.Background(), fx.opts)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.CollectionSize)

	records, err := fx.store.Load(fx.opts.MasterJSON)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].LikesCount)
	assert.Equal(t, 50, *records[0].LikesCount)
	require.NotNil(t, records[0].CommentsCount)
	assert.Equal(t, 9, *records[0].CommentsCount)
}

func TestRunBatch(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post-a.html"), []byte("saved-a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post-b.HTML"), []byte("saved-b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	fx.parser.EXPECT().Parse("saved-a").
		Return(&domain.PostRecord{PostURL: "https://www.linkedin.com/posts/a"}, nil)
	fx.parser.EXPECT().Parse("saved-b").
		Return(&domain.PostRecord{PostURL: "https://www.linkedin.com/posts/b"}, nil)

	summary, err := fx.pipeline.RunBatch(context.Background(), dir, fx.opts)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Parsed)
	assert.Equal(t, 2, summary.CollectionSize)

	records, err := fx.store.Load(fx.opts.MasterJSON)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.NotEmpty(t, rec.SourceFile)
	}
}

func TestRunBatchNeedsNoAPIKeys(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	log := logger.New(logger.Opts{})
	cfg := &config.Config{}
	cfg.Pipeline.Concurrency = 2

	mockParser := mock_parser.NewMockClient(ctrl)
	store := jsonstore.New(jsonstore.Opts{Logger: log})

	// Batch mode never searches or fetches, so the real clients must be
	// constructable without SERPAPI_KEY or SCRAPINGBEE_KEY.
	p := pipelineimpl.New(pipelineimpl.Opts{
		Searcher:   searcherimpl.New(searcherimpl.Opts{Config: cfg, Logger: log}),
		Fetcher:    fetcherimpl.New(fetcherimpl.Opts{Config: cfg, Logger: log}),
		Parser:     mockParser,
		Aggregator: aggregatorimpl.New(aggregatorimpl.Opts{Logger: log}),
		JSONStore:  store,
		ExcelStore: excelstore.New(excelstore.Opts{Logger: log}),
		Logger:     log,
		Config:     cfg,
	})

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post-a.html"), []byte("saved-a"), 0o644))

	mockParser.EXPECT().Parse("saved-a").
		Return(&domain.PostRecord{PostURL: "https://www.linkedin.com/posts/a"}, nil)

	out := t.TempDir()
	summary, err := p.RunBatch(context.Background(), dir, pipeline.Options{
		MasterJSON:  filepath.Join(out, "master.json"),
		MasterExcel: filepath.Join(out, "master.xlsx"),
		JSONDir:     filepath.Join(out, "jsons"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Parsed)
}

func TestRunBatchMissingDir(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	_, err := fx.pipeline.RunBatch(context.Background(), filepath.Join(t.TempDir(), "nope"), fx.opts)
	require.Error(t, err)
}
