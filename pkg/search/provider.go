// Package search provides the source-of-truth side of the gateway: a
// narrow Provider interface over the document index plus the query body
// builders the entity services compose.
package search

import (
	"context"
	"encoding/json"
)

// Provider answers raw queries against the search index. Implementations
// return uninterpreted record blobs; model reconstruction happens in the
// caching layer with the caller's type.
type Provider interface {
	// GetByID loads one document by id. An absent document is (nil, nil).
	GetByID(ctx context.Context, index, id string) (json.RawMessage, error)

	// Search runs a query body against an index and returns the matching
	// documents in index order. No matches is an empty slice, not an error.
	Search(ctx context.Context, index string, q Query) ([]json.RawMessage, error)
}
