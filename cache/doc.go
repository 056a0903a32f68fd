// Package cache provides the caching interfaces and key serialization the
// action layer memoizes through.
//
// # Overview
//
// Two interfaces carry the core contract:
//
//   - CacheService: read-through GetOrFetch with a per-read TTL, plus Delete
//   - KeySerializer: builds stable key fragments from argument values
//
// Two optional interfaces widen it for capable backends:
//
//   - TaggedCacheService: tag-based grouping and FlushTags invalidation
//   - PrefixInvalidator: drop every key sharing a prefix
//
// The package-level generic helpers (GetOrFetch, GetOrFetchTagged,
// FlushTags, DeleteByPrefix) recover type safety over the any-typed service
// and degrade gracefully: on a backend without tag or prefix support,
// tagged reads become plain reads and group invalidation becomes a silent
// no-op rather than an error.
//
// # Key serialization
//
// The default serializer walks values with reflection:
//
//   - basic types: direct string representation
//   - slices and arrays: recursive element serialization
//   - maps: key=value pairs sorted for deterministic output
//   - structs: exported fields as name:value pairs
//   - functions and channels: pointer formatting, stable within a process
//   - anything else: JSON fallback, degrading to type info on failure
//
// Digest collapses a serialized snapshot into a short xxhash token; the
// action layer composes final keys as prefix::action_name::digest. Because
// the digest covers the complete parameter snapshot, identical invocations
// collide on one entry by design.
//
// Note the function-pointer caveat: closures capture-compare by address, so
// actions carrying custom query hooks produce per-process keys. Implement
// your own KeySerializer, or the action-level KeySource interface, when
// keys must be stable across restarts.
//
// # Backend
//
// NewCacheService builds the default sturdyc-backed service. sturdyc fixes
// one TTL per client, so the adapter keeps a lazily-built client per
// distinct TTL and routes each read to its bucket; tags are kept in a
// registry mapping tag names to key sets.
package cache
