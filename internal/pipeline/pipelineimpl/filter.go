package pipelineimpl

import (
	"regexp"
	"strings"
	"time"

	"github.com/leadscout/linkedin-post-parser/internal/domain"
)

var spaceRunRe = regexp.MustCompile(`\s+`)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " ")))
}

// MatchesCompany reports whether the record looks authored by one of the
// given companies: by author name substring, by company slug in the author
// profile URL or post URL, or by the text leading with the company name.
func MatchesCompany(rec *domain.PostRecord, names, slugs []string) bool {
	var namesNorm, slugsNorm []string
	for _, n := range names {
		if v := normalize(n); v != "" {
			namesNorm = append(namesNorm, v)
		}
	}
	for _, s := range slugs {
		if v := normalize(s); v != "" {
			slugsNorm = append(slugsNorm, v)
		}
	}
	if len(namesNorm) == 0 && len(slugsNorm) == 0 {
		return true
	}

	if rec.AuthorName != nil {
		author := normalize(*rec.AuthorName)
		for _, n := range namesNorm {
			if strings.Contains(author, n) {
				return true
			}
		}
	}

	var urls []string
	if rec.AuthorProfileURL != nil {
		urls = append(urls, normalize(*rec.AuthorProfileURL))
	}
	urls = append(urls, normalize(rec.PostURL), normalize(rec.FetchedURL))
	for _, u := range urls {
		for _, s := range slugsNorm {
			if s != "" && strings.Contains(u, s) {
				return true
			}
		}
	}

	text := normalize(rec.Text)
	if text == "" && rec.Description != nil {
		text = normalize(*rec.Description)
	}
	for _, n := range namesNorm {
		if strings.HasPrefix(text, n) {
			return true
		}
	}

	return false
}

// WithinDateRange keeps records whose published date falls inside
// [since, until]. Records without a parseable timestamp always pass: an
// unknown date is not grounds for dropping a post.
func WithinDateRange(rec *domain.PostRecord, since, until *time.Time) bool {
	if since == nil && until == nil {
		return true
	}
	if rec.Timestamp == nil {
		return true
	}

	t, err := time.Parse(time.RFC3339, *rec.Timestamp)
	if err != nil {
		return true
	}

	if since != nil && t.Before(*since) {
		return false
	}
	if until != nil && t.After(until.Add(24*time.Hour-time.Nanosecond)) {
		return false
	}
	return true
}
