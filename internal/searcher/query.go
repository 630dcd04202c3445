package searcher

import (
	"fmt"
	"net/url"
	"strings"
)

var postURLMarkers = []string{"/posts/", "/feed/update/", "/activity:", "/activity/"}

// IsLinkedInPostURL reports whether a search result points at an individual
// LinkedIn post rather than a profile, company page, or anything else.
func IsLinkedInPostURL(u string) bool {
	if !strings.Contains(u, "linkedin.com") {
		return false
	}
	for _, marker := range postURLMarkers {
		if strings.Contains(u, marker) {
			return true
		}
	}
	return false
}

// CompanySlugFromURL extracts the company-page slug from a LinkedIn URL:
// https://www.linkedin.com/company/teleperformance-india/ -> "teleperformance-india".
// The last path segment is used as a fallback for non-company URLs.
func CompanySlugFromURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	var parts []string
	for _, p := range strings.Split(parsed.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	for i, p := range parts {
		if p == "company" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return ""
}

// BuildEventQueries produces search queries biased toward LinkedIn posts
// about the given event keywords, optionally narrowed by company names and
// company-page slugs.
func BuildEventQueries(events, companies, slugs []string) []string {
	var queries []string
	for _, e := range events {
		queries = append(queries,
			fmt.Sprintf(`site:linkedin.com/posts "%s"`, e),
			fmt.Sprintf(`site:linkedin.com/feed/update "%s"`, e),
		)
		for _, slug := range slugs {
			queries = append(queries,
				fmt.Sprintf(`site:linkedin.com/company/%s "%s"`, slug, e),
				fmt.Sprintf(`site:linkedin.com/posts "linkedin.com/company/%s" "%s"`, slug, e),
			)
		}
		for _, c := range companies {
			queries = append(queries,
				fmt.Sprintf(`site:linkedin.com/posts "%s" "%s"`, e, c),
				fmt.Sprintf(`site:linkedin.com/feed/update "%s" "%s"`, e, c),
			)
		}
	}
	return dedupe(queries)
}

// BuildCompanyQueries produces search queries for posts by the given
// companies, optionally filtered to event keywords.
func BuildCompanyQueries(companies, events, slugs []string) []string {
	var queries []string
	for _, c := range companies {
		for _, slug := range slugs {
			queries = append(queries,
				fmt.Sprintf("site:linkedin.com/company/%s", slug),
				fmt.Sprintf(`site:linkedin.com/company/%s "%s"`, slug, c),
			)
		}
		queries = append(queries,
			fmt.Sprintf(`site:linkedin.com/posts "%s"`, c),
			fmt.Sprintf(`site:linkedin.com/feed/update "%s"`, c),
		)
		for _, e := range events {
			for _, slug := range slugs {
				queries = append(queries,
					fmt.Sprintf(`site:linkedin.com/company/%s "%s"`, slug, e),
					fmt.Sprintf(`site:linkedin.com/posts "linkedin.com/company/%s" "%s"`, slug, e),
				)
			}
			queries = append(queries,
				fmt.Sprintf(`site:linkedin.com/posts "%s" "%s"`, e, c),
				fmt.Sprintf(`site:linkedin.com/feed/update "%s" "%s"`, e, c),
			)
		}
	}
	return dedupe(queries)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
