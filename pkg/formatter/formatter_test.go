package formatter_test

import (
	"testing"

	"github.com/leadscout/linkedin-post-parser/pkg/formatter"
	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", formatter.FormatNumber(0))
	assert.Equal(t, "950", formatter.FormatNumber(950))
	assert.Equal(t, "1,200", formatter.FormatNumber(1200))
	assert.Equal(t, "1,234,567", formatter.FormatNumber(1234567))
	assert.Equal(t, "-1,234", formatter.FormatNumber(-1234))
}

func TestFormatApprox(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "950", formatter.FormatApprox(950))
	assert.Equal(t, "1.2K", formatter.FormatApprox(1200))
	assert.Equal(t, "10K", formatter.FormatApprox(10000))
	assert.Equal(t, "2M", formatter.FormatApprox(2000000))
	assert.Equal(t, "1.5M", formatter.FormatApprox(1500000))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", formatter.Truncate("short", 10))
	assert.Equal(t, "exact", formatter.Truncate("exact", 5))
	assert.Equal(t, "long…", formatter.Truncate("long text", 5))
	assert.Equal(t, "héll…", formatter.Truncate("héllo wörld", 5))
}

func TestEscapeMarkdownV2(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `plain text`, formatter.EscapeMarkdownV2("plain text"))
	assert.Equal(t, `1\.2K likes \- great\!`, formatter.EscapeMarkdownV2("1.2K likes - great!"))
}
