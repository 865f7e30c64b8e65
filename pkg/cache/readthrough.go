package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// EntityFetchFunc loads a single raw record from the source of truth.
// An absent record is (nil, nil).
type EntityFetchFunc func(ctx context.Context) (json.RawMessage, error)

// ListFetchFunc loads an ordered list of raw records from the source of
// truth. An empty result is a valid, cacheable answer.
type ListFetchFunc func(ctx context.Context) ([]json.RawMessage, error)

// ReadThrough orchestrates the cache-aside read path for one entity type:
// derive key, check the store, on miss fetch from the source and populate
// the store with the canonical wire form of the result.
//
// There is no single-flight de-duplication: concurrent identical misses
// each call the source and overwrite the same key, last write wins.
type ReadThrough struct {
	store  *Store
	ttl    time.Duration
	logger zerolog.Logger
}

// NewReadThrough creates a read-through cache writing entries with the
// given TTL. A non-positive TTL falls back to DefaultTTL.
func NewReadThrough(store *Store, ttl time.Duration, logger zerolog.Logger) *ReadThrough {
	if store == nil {
		panic("cache store cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ReadThrough{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// TTL returns the expiry applied to entries written by this cache.
func (rt *ReadThrough) TTL() time.Duration {
	return rt.ttl
}

// Entity resolves a single-record query through the cache.
//
// On a hit the cached bytes are decoded into *T without touching the
// source. On a miss the fetched raw record (or JSON null for an absent
// one) is written back with the configured TTL; a failed write is logged
// and ignored since the caller already has its answer. Source errors
// propagate to the caller untouched.
//
// This is a package-level generic function rather than a method because
// methods cannot carry type parameters.
func Entity[T any](ctx context.Context, rt *ReadThrough, key Key, fetch EntityFetchFunc) (*T, error) {
	data, hit := rt.lookup(ctx, key)
	if !hit {
		raw, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		data = rt.populate(ctx, key, raw)
	}

	var out *T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode cached %s: %w", key.Entity, err)
	}
	return out, nil
}

// List resolves a list query through the cache. Semantics mirror Entity;
// an empty fetch result is serialized as [] and cached like any other, so
// queries known to be empty do not hammer the source until TTL expiry.
func List[T any](ctx context.Context, rt *ReadThrough, key Key, fetch ListFetchFunc) ([]T, error) {
	data, hit := rt.lookup(ctx, key)
	if !hit {
		raw, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if raw == nil {
			raw = []json.RawMessage{}
		}
		serialized, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("serialize %s list: %w", key.Entity, err)
		}
		data = rt.populate(ctx, key, serialized)
	}

	out := []T{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode cached %s list: %w", key.Entity, err)
	}
	return out, nil
}

// lookup checks the store for key. Store errors count as misses: a broken
// cache degrades to direct source reads instead of failing the request.
func (rt *ReadThrough) lookup(ctx context.Context, key Key) ([]byte, bool) {
	k := key.String()

	data, err := rt.store.Get(ctx, k)
	if err != nil {
		rt.logger.Warn().Err(err).Str("key", k).Msg("Cache get failed, falling back to source")
		CacheMisses.WithLabelValues(key.Entity).Inc()
		return nil, false
	}
	if len(data) == 0 {
		CacheMisses.WithLabelValues(key.Entity).Inc()
		return nil, false
	}

	CacheHits.WithLabelValues(key.Entity).Inc()
	rt.logger.Debug().Str("key", k).Int("bytes", len(data)).Msg("Cache hit")
	return data, true
}

// populate writes the serialized fetch result back to the store and
// returns it for decoding. Population is best-effort.
func (rt *ReadThrough) populate(ctx context.Context, key Key, serialized []byte) []byte {
	if serialized == nil {
		serialized = []byte("null")
	}
	k := key.String()

	if err := rt.store.Set(ctx, k, serialized, rt.ttl); err != nil {
		rt.logger.Warn().Err(err).Str("key", k).Msg("Cache populate failed")
		return serialized
	}

	CacheWrittenBytes.WithLabelValues(key.Entity).Add(float64(len(serialized)))
	rt.logger.Debug().
		Str("key", k).
		Int("bytes", len(serialized)).
		Dur("ttl", rt.ttl).
		Msg("Cached source result")
	return serialized
}
