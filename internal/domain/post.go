package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// PostRecord is the normalized output of parsing one LinkedIn post page.
// Optional fields use pointers: nil means "unknown", never zero. A record is
// created fresh per parse call and is treated as immutable once returned.
type PostRecord struct {
	PostURL          string   `json:"post_url"`
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	AuthorName       *string  `json:"author_name"`
	AuthorProfileURL *string  `json:"author_profile_url"`
	Text             string   `json:"text"`
	Timestamp        *string  `json:"timestamp"`
	LikesCount       *int     `json:"likes_count"`
	CommentsCount    *int     `json:"comments_count"`
	SharesCount      *int     `json:"shares_count"`
	Images           []string `json:"images"`
	SharedURL        *string  `json:"shared_url"`
	RawHTMLSnippet   string   `json:"raw_html_snippet,omitempty"`
	SourceFile       string   `json:"source_file,omitempty"`
	FetchedURL       string   `json:"fetched_url,omitempty"`
	ParseErrors      []string `json:"parse_errors"`
}

// Identity returns the deduplication key for the record: the post URL when
// present, otherwise a hash of (author_name, text).
func (p *PostRecord) Identity() string {
	if p.PostURL != "" {
		return p.PostURL
	}
	h := sha256.New()
	if p.AuthorName != nil {
		h.Write([]byte(*p.AuthorName))
	}
	h.Write([]byte{0})
	h.Write([]byte(p.Text))
	return "sha256:" + hex.EncodeToString(h.Sum(nil))
}

// Engagement sums the known engagement counts. Unknown counts contribute
// nothing; ok reports whether at least one count was known.
func (p *PostRecord) Engagement() (total int, ok bool) {
	for _, c := range []*int{p.LikesCount, p.CommentsCount, p.SharesCount} {
		if c != nil {
			total += *c
			ok = true
		}
	}
	return total, ok
}

// Clone returns a deep copy so callers can hand records across goroutines
// without sharing slices.
func (p *PostRecord) Clone() *PostRecord {
	cp := *p
	cp.Title = cloneString(p.Title)
	cp.Description = cloneString(p.Description)
	cp.AuthorName = cloneString(p.AuthorName)
	cp.AuthorProfileURL = cloneString(p.AuthorProfileURL)
	cp.Timestamp = cloneString(p.Timestamp)
	cp.LikesCount = cloneInt(p.LikesCount)
	cp.CommentsCount = cloneInt(p.CommentsCount)
	cp.SharesCount = cloneInt(p.SharesCount)
	cp.Images = append([]string(nil), p.Images...)
	cp.SharedURL = cloneString(p.SharedURL)
	cp.ParseErrors = append([]string(nil), p.ParseErrors...)
	return &cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

// String and Int are small helpers for building records with optional fields.
func String(s string) *string { return &s }

func Int(i int) *int { return &i }
