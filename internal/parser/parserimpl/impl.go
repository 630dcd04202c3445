package parserimpl

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/leadscout/linkedin-post-parser/internal/domain"
	"github.com/leadscout/linkedin-post-parser/internal/parser"
	"github.com/leadscout/linkedin-post-parser/pkg/logger"
	"go.uber.org/fx"
)

const (
	// Class-substring heuristics for the subtree holding one post. LinkedIn
	// markup shifts between logged-out renders, so these are substrings, not
	// exact classes. The first match in document order wins.
	postContainerSelectors = `[class*="feed-shared-update"], [class*="activity-card"], [class*="share-update-card"], article`

	containerTextSelectors  = `[class*="attributed-text"], [class*="commentary"], [class*="update-text"], [class*="feed-shared-text"]`
	containerActorSelectors = `[class*="actor__name"], [class*="entity-lockup__title"], [class*="actor-name"]`

	minTextBlockLength = 40
	rawSnippetLimit    = 2048
)

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	likesTextRe    = regexp.MustCompile(`(?i)([\d,.]+[KM]?)\s+(?:likes?|reactions?)\b`)
	commentsTextRe = regexp.MustCompile(`(?i)([\d,.]+[KM]?)\s+comments?\b`)
	sharesTextRe   = regexp.MustCompile(`(?i)([\d,.]+[KM]?)\s+(?:shares?|reposts?)\b`)
	onLinkedInRe   = regexp.MustCompile(`^(.+?) on LinkedIn\b`)
)

type Opts struct {
	fx.In

	Logger logger.Logger
}

type ParserImpl struct {
	Logger logger.Logger
}

func New(opts Opts) *ParserImpl {
	return &ParserImpl{
		Logger: opts.Logger,
	}
}

var _ parser.Client = (*ParserImpl)(nil)

// Parse extracts a PostRecord from raw HTML. Every field is attempted
// through an ordered list of heuristics; the first plausible value wins and
// exhausted fields are recorded in ParseErrors instead of failing the call.
func (p *ParserImpl) Parse(html string) (*domain.PostRecord, []string) {
	rec := &domain.PostRecord{}
	var warnings []string
	warn := func(msg string) {
		warnings = append(warnings, msg)
	}
	missing := func(field string) {
		msg := field + ": no heuristic produced a value"
		rec.ParseErrors = append(rec.ParseErrors, msg)
		warnings = append(warnings, msg)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// html.Parse recovers from almost any markup, so this only triggers
		// on reader-level failures. Degrade to an all-unknown record.
		warn("html: " + err.Error())
		for _, f := range []string{"post_url", "author_name", "author_profile_url", "text", "timestamp", "likes_count", "comments_count", "shares_count"} {
			missing(f)
		}
		return rec, warnings
	}

	postings := extractJSONLD(doc, warn)
	posting := selectPosting(postings)

	container := findPostContainer(doc)
	if container != nil {
		if outer, err := goquery.OuterHtml(container); err == nil {
			if len(outer) > rawSnippetLimit {
				outer = outer[:rawSnippetLimit]
			}
			rec.RawHTMLSnippet = outer
		}
	}

	pageText := normalizeWhitespace(doc.Text())

	// post_url
	rec.PostURL = firstString(
		func() string { return postingString(posting, "url") },
		func() string { return metaContent(doc, "og:url") },
		func() string { return attrOf(doc.Find(`link[rel="canonical"]`).First(), "href") },
	)
	if rec.PostURL == "" {
		missing("post_url")
	}

	// author
	name, profileURL := extractAuthor(doc, posting, container)
	if name != "" {
		rec.AuthorName = domain.String(name)
	} else {
		missing("author_name")
	}
	if profileURL != "" {
		rec.AuthorProfileURL = domain.String(profileURL)
	} else {
		missing("author_profile_url")
	}

	// text
	rec.Text = normalizeWhitespace(firstString(
		func() string { return postingString(posting, "articleBody") },
		func() string { return containerText(container) },
		func() string { return metaContent(doc, "og:description") },
		func() string { return longestTextBlock(doc) },
	))
	if rec.Text == "" {
		missing("text")
	}

	// title / description round out the record but are not identity fields.
	if title := firstString(
		func() string { return postingString(posting, "headline", "name") },
		func() string { return metaContent(doc, "og:title") },
		func() string { return strings.TrimSpace(doc.Find("title").First().Text()) },
	); title != "" {
		rec.Title = domain.String(normalizeWhitespace(title))
	} else {
		warn("title: no heuristic produced a value")
	}
	if desc := firstString(
		func() string { return postingString(posting, "description") },
		func() string { return metaContent(doc, "og:description") },
		func() string { return metaContent(doc, "description") },
	); desc != "" {
		rec.Description = domain.String(normalizeWhitespace(desc))
	} else {
		warn("description: no heuristic produced a value")
	}

	// timestamp
	if ts := firstString(
		func() string { return postingString(posting, "datePublished", "uploadDate") },
		func() string { return timeElementValue(doc) },
	); ts != "" {
		rec.Timestamp = domain.String(normalizeTimestamp(ts))
	} else {
		missing("timestamp")
	}

	// engagement counts
	likes, comments, shares := jsonldStats(posting)
	if likes == nil {
		likes = countFromText(pageText, likesTextRe)
	}
	if comments == nil {
		comments = countFromText(pageText, commentsTextRe)
	}
	if shares == nil {
		shares = countFromText(pageText, sharesTextRe)
	}
	rec.LikesCount, rec.CommentsCount, rec.SharesCount = likes, comments, shares
	if likes == nil {
		missing("likes_count")
	}
	if comments == nil {
		missing("comments_count")
	}
	if shares == nil {
		missing("shares_count")
	}

	// images and shared link
	rec.Images = collectImages(doc, posting)
	if posting != nil {
		if shared := jsonldSharedURL(posting); shared != "" {
			rec.SharedURL = domain.String(shared)
		}
	}

	return rec, warnings
}

// firstString runs heuristics in order and returns the first non-empty
// result.
func firstString(fns ...func() string) string {
	for _, fn := range fns {
		if v := strings.TrimSpace(fn()); v != "" {
			return v
		}
	}
	return ""
}

func postingString(posting map[string]any, keys ...string) string {
	if posting == nil {
		return ""
	}
	return jsonldString(posting, keys...)
}

// findPostContainer returns the first element in document order matching the
// post container heuristics, or nil when none match. Multi-post pages thus
// resolve to the first post.
func findPostContainer(doc *goquery.Document) *goquery.Selection {
	sel := doc.Find(postContainerSelectors).First()
	if sel.Length() == 0 {
		return nil
	}
	return sel
}

func containerText(container *goquery.Selection) string {
	if container == nil {
		return ""
	}
	text := ""
	container.Find(containerTextSelectors).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text = normalizeWhitespace(s.Text())
		return text == ""
	})
	return text
}

func extractAuthor(doc *goquery.Document, posting map[string]any, container *goquery.Selection) (name, profileURL string) {
	if posting != nil {
		name, profileURL = jsonldAuthor(posting)
	}

	if name == "" && container != nil {
		container.Find(containerActorSelectors).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			name = normalizeWhitespace(s.Text())
			return name == ""
		})
	}

	// "Jane Doe on LinkedIn: ..." og:title prefix.
	if name == "" {
		if m := onLinkedInRe.FindStringSubmatch(metaContent(doc, "og:title")); m != nil {
			name = strings.TrimSpace(m[1])
		}
	}

	if profileURL == "" {
		scope := doc.Selection
		if container != nil {
			scope = container
		}
		scope.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, _ := s.Attr("href")
			if strings.Contains(href, "linkedin.com/in/") || strings.Contains(href, "linkedin.com/company/") {
				profileURL = href
				return false
			}
			return true
		})
	}

	return name, profileURL
}

// longestTextBlock is the last-resort text heuristic: the longest paragraph
// style block above the minimum length anywhere in the document.
func longestTextBlock(doc *goquery.Document) string {
	best := ""
	doc.Find("p, blockquote, li").Each(func(_ int, s *goquery.Selection) {
		t := normalizeWhitespace(s.Text())
		if len(t) >= minTextBlockLength && len(t) > len(best) {
			best = t
		}
	})
	return best
}

func countFromText(pageText string, re *regexp.Regexp) *int {
	m := re.FindStringSubmatch(pageText)
	if m == nil {
		return nil
	}
	n, ok := ParseShortNumber(m[1])
	if !ok {
		return nil
	}
	return &n
}

func collectImages(doc *goquery.Document, posting map[string]any) []string {
	var images []string
	seen := map[string]bool{}
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			images = append(images, u)
		}
	}

	if posting != nil {
		for _, u := range jsonldImages(posting) {
			add(u)
		}
	}
	add(metaContent(doc, "og:image"))
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		// Short src values are almost always icons or tracking pixels.
		if src, _ := s.Attr("src"); len(src) > 20 {
			add(src)
		}
	})
	return images
}

// metaContent reads <meta property=...> falling back to <meta name=...>.
func metaContent(doc *goquery.Document, name string) string {
	if v := attrOf(doc.Find(`meta[property="`+name+`"]`).First(), "content"); v != "" {
		return v
	}
	return attrOf(doc.Find(`meta[name="`+name+`"]`).First(), "content")
}

func attrOf(sel *goquery.Selection, attr string) string {
	v, _ := sel.Attr(attr)
	return strings.TrimSpace(v)
}

func timeElementValue(doc *goquery.Document) string {
	el := doc.Find("time").First()
	if el.Length() == 0 {
		return ""
	}
	if dt, ok := el.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
		return strings.TrimSpace(dt)
	}
	return normalizeWhitespace(el.Text())
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// normalizeTimestamp re-renders parseable dates as RFC 3339 and keeps
// anything else verbatim; source pages rarely expose structured dates.
func normalizeTimestamp(s string) string {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return s
}

func normalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
