package parserimpl_test

import (
	"strings"
	"testing"

	"github.com/leadscout/linkedin-post-parser/internal/parser/parserimpl"
	"github.com/leadscout/linkedin-post-parser/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParser() *parserimpl.ParserImpl {
	return parserimpl.New(parserimpl.Opts{Logger: logger.New(logger.Opts{})})
}

const fullPostHTML = `<!DOCTYPE html>
<html>
<head>
<title>Jane Doe on LinkedIn: Happy Mother's Day!</title>
<meta property="og:title" content="Jane Doe on LinkedIn: Happy Mother's Day!"/>
<meta property="og:description" content="Happy Mother's Day! Celebrating the incredible moms on our team."/>
<meta property="og:url" content="https://www.linkedin.com/posts/janedoe_mothers-day-activity-7000000000000000000-abcd"/>
<meta property="og:image" content="https://media.licdn.com/dms/image/v2/D5622AQF0/feedshare-shrink_800/0"/>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "SocialMediaPosting",
  "url": "https://www.linkedin.com/posts/janedoe_mothers-day-activity-7000000000000000000-abcd",
  "articleBody": "Happy Mother's Day! Celebrating the incredible moms on our team.",
  "datePublished": "2025-05-11T08:30:00",
  "author": {"@type": "Person", "name": "Jane Doe", "url": "https://www.linkedin.com/in/janedoe"},
  "interactionStatistic": [
    {"@type": "InteractionCounter", "interactionType": {"@type": "LikeAction"}, "userInteractionCount": "1.2K"},
    {"@type": "InteractionCounter", "interactionType": {"@type": "CommentAction"}, "userInteractionCount": 34},
    {"@type": "InteractionCounter", "interactionType": {"@type": "ShareAction"}, "userInteractionCount": 7}
  ]
}
</script>
</head>
<body>
<article class="feed-shared-update-v2">
  <span class="update-components-actor__name">Jane Doe</span>
  <div class="feed-shared-update-v2__commentary">Happy Mother's Day! Celebrating the incredible moms on our team.</div>
</article>
</body>
</html>`

func TestParseFullPost(t *testing.T) {
	t.Parallel()
	p := newParser()

	rec, warnings := p.Parse(fullPostHTML)
	require.NotNil(t, rec)

	assert.Equal(t, "https://www.linkedin.com/posts/janedoe_mothers-day-activity-7000000000000000000-abcd", rec.PostURL)

	require.NotNil(t, rec.AuthorName)
	assert.Equal(t, "Jane Doe", *rec.AuthorName)
	require.NotNil(t, rec.AuthorProfileURL)
	assert.Equal(t, "https://www.linkedin.com/in/janedoe", *rec.AuthorProfileURL)

	assert.Equal(t, "Happy Mother's Day! Celebrating the incredible moms on our team.", rec.Text)

	require.NotNil(t, rec.Timestamp)
	assert.Equal(t, "2025-05-11T08:30:00Z", *rec.Timestamp)

	require.NotNil(t, rec.LikesCount)
	assert.Equal(t, 1200, *rec.LikesCount)
	require.NotNil(t, rec.CommentsCount)
	assert.Equal(t, 34, *rec.CommentsCount)
	require.NotNil(t, rec.SharesCount)
	assert.Equal(t, 7, *rec.SharesCount)

	assert.Contains(t, rec.Images, "https://media.licdn.com/dms/image/v2/D5622AQF0/feedshare-shrink_800/0")
	assert.NotEmpty(t, rec.RawHTMLSnippet)

	assert.Empty(t, rec.ParseErrors)
	assert.Empty(t, warnings)
}

func TestParseIsIdempotent(t *testing.T) {
	t.Parallel()
	p := newParser()

	first, _ := p.Parse(fullPostHTML)
	second, _ := p.Parse(fullPostHTML)
	assert.Equal(t, first, second)
}

func TestParseMetaFallbacks(t *testing.T) {
	t.Parallel()
	p := newParser()

	html := `<html><head>
<meta property="og:title" content="John Smith on LinkedIn: Team offsite recap"/>
<meta property="og:description" content="What a week with the team at our annual offsite in Lisbon."/>
<link rel="canonical" href="https://www.linkedin.com/feed/update/urn:li:activity:7123456789/"/>
</head><body>
<p>What a week with the team at our annual offsite in Lisbon. Grateful for everyone who made it happen.</p>
<p>1,204 reactions 37 comments 12 reposts</p>
</body></html>`

	rec, _ := p.Parse(html)
	require.NotNil(t, rec)

	assert.Equal(t, "https://www.linkedin.com/feed/update/urn:li:activity:7123456789/", rec.PostURL)

	require.NotNil(t, rec.AuthorName)
	assert.Equal(t, "John Smith", *rec.AuthorName)
	assert.Nil(t, rec.AuthorProfileURL)

	assert.Equal(t, "What a week with the team at our annual offsite in Lisbon.", rec.Text)

	require.NotNil(t, rec.LikesCount)
	assert.Equal(t, 1204, *rec.LikesCount)
	require.NotNil(t, rec.CommentsCount)
	assert.Equal(t, 37, *rec.CommentsCount)
	require.NotNil(t, rec.SharesCount)
	assert.Equal(t, 12, *rec.SharesCount)

	assert.Contains(t, rec.ParseErrors, "author_profile_url: no heuristic produced a value")
	assert.Contains(t, rec.ParseErrors, "timestamp: no heuristic produced a value")
}

func TestParseConcatenatedJSONLD(t *testing.T) {
	t.Parallel()
	p := newParser()

	html := `<html><head><script type="application/ld+json">
{"@type": "Organization", "name": "Acme Corp"} {"@type": "SocialMediaPosting", "articleBody": "Hello from the whole team at Acme.", "author": "Acme Corp"}
</script></head><body></body></html>`

	rec, _ := p.Parse(html)
	require.NotNil(t, rec)
	assert.Equal(t, "Hello from the whole team at Acme.", rec.Text)
	require.NotNil(t, rec.AuthorName)
	assert.Equal(t, "Acme Corp", *rec.AuthorName)
}

func TestParseConcatenatedJSONLDMiddleObject(t *testing.T) {
	t.Parallel()
	p := newParser()

	// Three concatenated objects with the posting in the middle: interior
	// parts must recover both braces lost at the split boundaries.
	html := `<html><head><script type="application/ld+json">
{"@type": "Organization", "name": "Acme Corp"} {"@type": "SocialMediaPosting", "articleBody": "Hello from the middle object.", "author": "Acme Corp"} {"@type": "WebSite", "url": "https://example.com"}
</script></head><body></body></html>`

	rec, warnings := p.Parse(html)
	require.NotNil(t, rec)
	assert.Equal(t, "Hello from the middle object.", rec.Text)
	require.NotNil(t, rec.AuthorName)
	assert.Equal(t, "Acme Corp", *rec.AuthorName)
	assert.NotContains(t, warnings, "json-ld: skipped malformed script block")
}

func TestParseMultiPostPicksFirst(t *testing.T) {
	t.Parallel()
	p := newParser()

	html := `<html><body>
<div class="feed-shared-update-v2">
  <div class="update-text">First post body, clearly longer than a label.</div>
</div>
<div class="feed-shared-update-v2">
  <div class="update-text">Second post body that must not be picked up.</div>
</div>
</body></html>`

	rec, _ := p.Parse(html)
	require.NotNil(t, rec)
	assert.Equal(t, "First post body, clearly longer than a label.", rec.Text)
	assert.Contains(t, rec.RawHTMLSnippet, "First post body")
}

func TestParseNeverPanics(t *testing.T) {
	t.Parallel()
	p := newParser()

	inputs := []string{
		"",
		"<div class=",
		"<<<<>>>>",
		strings.Repeat("<span>", 500),
		`<script type="application/ld+json">{not json at all</script>`,
	}

	for _, in := range inputs {
		require.NotPanics(t, func() {
			rec, _ := p.Parse(in)
			require.NotNil(t, rec)
			assert.NotEmpty(t, rec.ParseErrors, "input %q should report missing fields", in)
		})
	}
}

func TestParseMalformedJSONLDWarns(t *testing.T) {
	t.Parallel()
	p := newParser()

	html := `<html><head><script type="application/ld+json">{broken</script></head><body></body></html>`
	_, warnings := p.Parse(html)
	assert.Contains(t, warnings, "json-ld: skipped malformed script block")
}
