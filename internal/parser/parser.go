package parser

import (
	"github.com/leadscout/linkedin-post-parser/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=parser.go -destination=mocks/mock.go
type Client interface {
	// Parse extracts a normalized PostRecord from raw post page HTML.
	// It never fails for malformed input: fields that cannot be extracted
	// stay unknown and are listed in the record's ParseErrors. The returned
	// warnings include those messages plus any non-fatal notes gathered
	// while parsing.
	Parse(html string) (*domain.PostRecord, []string)
}
