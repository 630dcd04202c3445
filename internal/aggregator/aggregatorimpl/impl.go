package aggregatorimpl

import (
	"github.com/leadscout/linkedin-post-parser/internal/aggregator"
	"github.com/leadscout/linkedin-post-parser/internal/domain"
	"github.com/leadscout/linkedin-post-parser/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Logger logger.Logger
}

type AggregatorImpl struct {
	Logger logger.Logger
}

func New(opts Opts) *AggregatorImpl {
	return &AggregatorImpl{
		Logger: opts.Logger,
	}
}

var _ aggregator.Client = (*AggregatorImpl)(nil)

func (a *AggregatorImpl) Merge(existing []*domain.PostRecord, records ...*domain.PostRecord) []*domain.PostRecord {
	merged := make([]*domain.PostRecord, 0, len(existing)+len(records))
	index := make(map[string]int, len(existing))

	for _, rec := range existing {
		key := rec.Identity()
		if i, ok := index[key]; ok {
			merged[i] = combine(merged[i], rec)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, rec.Clone())
	}

	updated := 0
	for _, rec := range records {
		key := rec.Identity()
		if i, ok := index[key]; ok {
			merged[i] = combine(merged[i], rec)
			updated++
			continue
		}
		index[key] = len(merged)
		merged = append(merged, rec.Clone())
	}

	if updated > 0 {
		a.Logger.Debug("Merged records into collection", "updated", updated, "total", len(merged))
	}
	return merged
}

// combine overlays newer onto older: every field the newer parse knows wins,
// fields it left unknown keep the older value.
func combine(older, newer *domain.PostRecord) *domain.PostRecord {
	out := older.Clone()

	if newer.PostURL != "" {
		out.PostURL = newer.PostURL
	}
	if newer.Title != nil {
		out.Title = domain.String(*newer.Title)
	}
	if newer.Description != nil {
		out.Description = domain.String(*newer.Description)
	}
	if newer.AuthorName != nil {
		out.AuthorName = domain.String(*newer.AuthorName)
	}
	if newer.AuthorProfileURL != nil {
		out.AuthorProfileURL = domain.String(*newer.AuthorProfileURL)
	}
	if newer.Text != "" {
		out.Text = newer.Text
	}
	if newer.Timestamp != nil {
		out.Timestamp = domain.String(*newer.Timestamp)
	}
	if newer.LikesCount != nil {
		out.LikesCount = domain.Int(*newer.LikesCount)
	}
	if newer.CommentsCount != nil {
		out.CommentsCount = domain.Int(*newer.CommentsCount)
	}
	if newer.SharesCount != nil {
		out.SharesCount = domain.Int(*newer.SharesCount)
	}
	if len(newer.Images) > 0 {
		out.Images = append([]string(nil), newer.Images...)
	}
	if newer.SharedURL != nil {
		out.SharedURL = domain.String(*newer.SharedURL)
	}
	if newer.RawHTMLSnippet != "" {
		out.RawHTMLSnippet = newer.RawHTMLSnippet
	}
	if newer.SourceFile != "" {
		out.SourceFile = newer.SourceFile
	}
	if newer.FetchedURL != "" {
		out.FetchedURL = newer.FetchedURL
	}
	// The latest parse owns the error list; stale complaints about fields
	// that have since been filled in would be misleading.
	out.ParseErrors = append([]string(nil), newer.ParseErrors...)

	return out
}
