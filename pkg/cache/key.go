package cache

import (
	"strings"
)

// Param is a single named query parameter used for key derivation.
type Param struct {
	Name  string
	Value string
}

// Key identifies one logical query against the search index.
type Key struct {
	// Entity is the cached model name (e.g., "Film", "Genre", "Person")
	Entity string

	// Operation is the service operation name (e.g., "get_list")
	Operation string

	// Params are the query parameters in the operation's canonical order.
	// Callers must always pass the same order for the same operation;
	// String preserves it as-is.
	Params []Param
}

// String generates a deterministic cache key string.
// Format: Entity:operation:param1=val1:param2=val2
//
// Parameters with an empty value are treated as absent filters and skipped,
// so "genre filter omitted" and "genre_id=''" derive the same key.
//
// Example:
//
//	Film:get_list:sort=-imdb_rating:page_size=50:page_number=1
func (k Key) String() string {
	parts := make([]string, 0, 2+len(k.Params))
	parts = append(parts, k.Entity, k.Operation)

	for _, p := range k.Params {
		if p.Value == "" {
			continue
		}
		parts = append(parts, p.Name+"="+p.Value)
	}

	return strings.Join(parts, ":")
}
