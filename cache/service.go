package cache

import (
	"context"
	"time"
)

// KeySerializer builds a stable cache key fragment from a scope (action or
// method name) plus arbitrary argument values. Implementations must produce
// identical output for identical inputs across calls.
type KeySerializer interface {
	SerializeKey(scope string, args ...any) string
}

// FetchFn is the function signature CacheService expects when fetching from
// the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService exposes read-through caching. A zero ttl means "use the
// backend's default time-to-live".
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetchFn any) (any, error)
	Delete(ctx context.Context, key string) error
}

// TaggedCacheService is implemented by backends that support tag-based
// grouping of keys. Callers must not require it: when the active backend
// does not implement it, tagged reads degrade to plain reads and tagged
// invalidation becomes a no-op.
type TaggedCacheService interface {
	CacheService
	GetOrFetchTagged(ctx context.Context, key string, ttl time.Duration, tags []string, fetchFn any) (any, error)
	FlushTags(ctx context.Context, tags ...string) error
}

// PrefixInvalidator is implemented by backends that can drop every key
// sharing a prefix, e.g. all cached invocations of one action type.
type PrefixInvalidator interface {
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// GetOrFetch is the type-safe wrapper over CacheService.GetOrFetch.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, ttl time.Duration, fetchFn FetchFn[T]) (T, error) {
	result, err := service.GetOrFetch(ctx, key, ttl, fetchFn)
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// GetOrFetchTagged is the type-safe wrapper over tagged reads. Backends
// without tag support serve the read untagged.
func GetOrFetchTagged[T any](ctx context.Context, service CacheService, key string, ttl time.Duration, tags []string, fetchFn FetchFn[T]) (T, error) {
	tagged, ok := service.(TaggedCacheService)
	if !ok || len(tags) == 0 {
		return GetOrFetch(ctx, service, key, ttl, fetchFn)
	}
	result, err := tagged.GetOrFetchTagged(ctx, key, ttl, tags, fetchFn)
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// FlushTags invalidates every key registered under the tags. On backends
// without tag support it is a silent no-op rather than an error.
func FlushTags(ctx context.Context, service CacheService, tags ...string) error {
	if tagged, ok := service.(TaggedCacheService); ok {
		return tagged.FlushTags(ctx, tags...)
	}
	return nil
}

// DeleteByPrefix drops every key sharing prefix on backends that support
// prefix scans; otherwise it is a silent no-op.
func DeleteByPrefix(ctx context.Context, service CacheService, prefix string) error {
	if inv, ok := service.(PrefixInvalidator); ok {
		return inv.DeleteByPrefix(ctx, prefix)
	}
	return nil
}
