package excelstore

import (
	"encoding/json"
	"strings"

	"github.com/leadscout/linkedin-post-parser/internal/domain"
	"github.com/leadscout/linkedin-post-parser/pkg/errors"
	"github.com/leadscout/linkedin-post-parser/pkg/logger"
	"github.com/xuri/excelize/v2"
	"go.uber.org/fx"
)

const SheetName = "Posts"

// Headers match the JSON field names of PostRecord, plus the derived
// engagement column.
var Headers = []string{
	"post_url",
	"title",
	"description",
	"author_name",
	"author_profile_url",
	"text",
	"timestamp",
	"likes_count",
	"comments_count",
	"shares_count",
	"engagement",
	"images",
	"shared_url",
	"source_file",
	"fetched_url",
	"parse_errors",
}

type Opts struct {
	fx.In

	Logger logger.Logger
}

// Store writes the master spreadsheet: one row per record, regenerated in
// full from the in-memory collection each run.
type Store struct {
	Logger logger.Logger
}

func New(opts Opts) *Store {
	return &Store{
		Logger: opts.Logger,
	}
}

func (s *Store) Save(path string, records []*domain.PostRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return errors.Wrap(err, "failed to create sheet")
	}

	for col, h := range Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.Wrap(err, "failed to address header cell")
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return errors.Wrap(err, "failed to write header")
		}
	}

	for row, rec := range records {
		for col, v := range rowValues(rec) {
			if v == nil {
				continue // unknown stays an empty cell, never zero
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return errors.Wrap(err, "failed to address cell")
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return errors.Wrap(err, "failed to write cell")
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(errors.ErrPersistence, "failed to save spreadsheet: "+err.Error())
	}

	s.Logger.Debug("Saved spreadsheet", "path", path, "records", len(records))
	return nil
}

func rowValues(rec *domain.PostRecord) []any {
	values := []any{
		rec.PostURL,
		optString(rec.Title),
		optString(rec.Description),
		optString(rec.AuthorName),
		optString(rec.AuthorProfileURL),
		rec.Text,
		optString(rec.Timestamp),
		optInt(rec.LikesCount),
		optInt(rec.CommentsCount),
		optInt(rec.SharesCount),
		nil, // engagement, filled in below when known
		imagesJSON(rec.Images),
		optString(rec.SharedURL),
		rec.SourceFile,
		rec.FetchedURL,
		strings.Join(rec.ParseErrors, "; "),
	}
	if total, ok := rec.Engagement(); ok {
		values[10] = total
	}
	return values
}

func optString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func imagesJSON(images []string) any {
	if len(images) == 0 {
		return nil
	}
	data, err := json.Marshal(images)
	if err != nil {
		return nil
	}
	return string(data)
}
