package pipelineimpl

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/leadscout/linkedin-post-parser/internal/domain"
	"github.com/leadscout/linkedin-post-parser/internal/pipeline"
	"github.com/leadscout/linkedin-post-parser/pkg/errors"
)

// RunBatch re-parses locally saved post pages. It is the offline half of the
// pipeline: no search, no fetch, same merge and persistence.
func (p *PipelineImpl) RunBatch(ctx context.Context, dir string, opts pipeline.Options) (*pipeline.Summary, error) {
	opts = p.withDefaults(opts)
	summary := &pipeline.Summary{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read HTML directory")
	}

	var records []*domain.PostRecord
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".html") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			p.Logger.Warn("Failed to read saved page, skipping", "path", path, "error", err)
			summary.FetchErrors++
			continue
		}

		rec, warnings := p.Parser.Parse(string(data))
		rec.SourceFile = entry.Name()
		for _, w := range warnings {
			p.Logger.Debug("Parse warning", "file", entry.Name(), "warning", w)
		}

		if opts.CompanyOnly && !MatchesCompany(rec, opts.Companies, opts.CompanySlugs) {
			summary.Skipped++
			continue
		}
		if !WithinDateRange(rec, opts.Since, opts.Until) {
			summary.Skipped++
			continue
		}

		if _, err := p.JSONStore.SaveOne(opts.JSONDir, rec); err != nil {
			p.Logger.Warn("Failed to save per-post JSON", "file", entry.Name(), "error", err)
		}
		records = append(records, rec)
		summary.Parsed++
	}

	if summary.Parsed == 0 {
		p.Logger.Warn("No HTML files parsed from directory", "dir", dir)
	}

	return summary, p.persist(opts, records, summary)
}
