// Package cache provides the read-through caching layer of the query
// gateway, backed by Redis.
//
// Keys are derived deterministically from the entity type, the operation
// name and the canonical ordered parameter list, so the same logical
// query always resolves to the same Redis key:
//
//	key := cache.Key{
//		Entity:    "Film",
//		Operation: "get_list",
//		Params: []cache.Param{
//			{Name: "sort", Value: "-imdb_rating"},
//			{Name: "page_size", Value: "50"},
//			{Name: "page_number", Value: "1"},
//		},
//	}
//	// -> Film:get_list:sort=-imdb_rating:page_size=50:page_number=1
//
// # Read path
//
//	rt := cache.NewReadThrough(cache.NewStore(redisClient), 5*time.Minute, logger)
//
//	film, err := cache.Entity[models.Film](ctx, rt, key, func(ctx context.Context) (json.RawMessage, error) {
//		return provider.GetByID(ctx, "movies", id)
//	})
//
// On a hit the source is never called. On a miss the raw source result is
// serialized and written back with the configured TTL; empty lists and
// absent records are cached too, so repeated queries for missing data do
// not reach the index until the entry expires. Entries are never
// invalidated explicitly; expiry is passive.
//
// # Failure semantics
//
// A failing store degrades the cache, not the request: get errors fall
// open to the source, set errors are logged and dropped. Source errors
// propagate to the caller, which maps them to absent/empty results.
//
// # Metrics
//
//   - gateway_cache_hits_total{entity}
//   - gateway_cache_misses_total{entity}
//   - gateway_cache_errors_total{operation}
//   - gateway_cache_written_bytes_total{entity}
package cache
