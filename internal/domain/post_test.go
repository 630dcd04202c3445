package domain_test

import (
	"strings"
	"testing"

	"github.com/leadscout/linkedin-post-parser/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	t.Parallel()

	withURL := &domain.PostRecord{PostURL: "https://www.linkedin.com/posts/a", Text: "x"}
	assert.Equal(t, "https://www.linkedin.com/posts/a", withURL.Identity())

	a := &domain.PostRecord{AuthorName: domain.String("Jane Doe"), Text: "same text"}
	b := &domain.PostRecord{AuthorName: domain.String("Jane Doe"), Text: "same text"}
	c := &domain.PostRecord{AuthorName: domain.String("John Smith"), Text: "same text"}

	assert.True(t, strings.HasPrefix(a.Identity(), "sha256:"))
	assert.Equal(t, a.Identity(), b.Identity())
	assert.NotEqual(t, a.Identity(), c.Identity())

	// Unknown author still yields a stable key.
	noAuthor := &domain.PostRecord{Text: "same text"}
	assert.Equal(t, noAuthor.Identity(), (&domain.PostRecord{Text: "same text"}).Identity())
	assert.NotEqual(t, noAuthor.Identity(), a.Identity())
}

func TestEngagement(t *testing.T) {
	t.Parallel()

	none := &domain.PostRecord{}
	total, ok := none.Engagement()
	assert.False(t, ok)
	assert.Zero(t, total)

	partial := &domain.PostRecord{LikesCount: domain.Int(10)}
	total, ok = partial.Engagement()
	assert.True(t, ok)
	assert.Equal(t, 10, total)

	full := &domain.PostRecord{
		LikesCount:    domain.Int(100),
		CommentsCount: domain.Int(10),
		SharesCount:   domain.Int(7),
	}
	total, ok = full.Engagement()
	assert.True(t, ok)
	assert.Equal(t, 117, total)
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := &domain.PostRecord{
		PostURL:    "https://www.linkedin.com/posts/a",
		LikesCount: domain.Int(5),
		Images:     []string{"https://media.licdn.com/img1"},
	}

	cp := orig.Clone()
	require.Equal(t, orig, cp)

	*cp.LikesCount = 99
	cp.Images[0] = "changed"

	assert.Equal(t, 5, *orig.LikesCount)
	assert.Equal(t, "https://media.licdn.com/img1", orig.Images[0])
}
