package aggregator

import (
	"github.com/leadscout/linkedin-post-parser/internal/domain"
)

type Client interface {
	// Merge folds new records into the existing collection. Records sharing
	// an identity key are combined, preferring known fields from the more
	// recent parse; order of first appearance is preserved. Merge is
	// idempotent and commutative per identity key, and never mutates its
	// inputs.
	Merge(existing []*domain.PostRecord, records ...*domain.PostRecord) []*domain.PostRecord
}
