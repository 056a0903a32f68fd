package cacheinfra

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc cache adapter.
type Config struct {
	// Capacity defines the maximum number of entries each cache client can
	// store. Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0.
	NumShards int

	// TTL is the default time-to-live for cached entries, used when a read
	// does not carry its own.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict when
	// a client reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EarlyRefresh configures stampede-protecting refreshes. Nil disables
	// early refresh.
	EarlyRefresh *EarlyRefreshConfig

	// MissingRecordStorage remembers keys that returned no results to
	// prevent repeated queries for non-existent records.
	MissingRecordStorage bool

	// EvictionInterval sets how often expired entries are checked. Zero
	// uses the sturdyc default.
	EvictionInterval time.Duration
}

// EarlyRefreshConfig configures early refresh behavior. Early refresh
// prevents cache stampedes by refreshing frequently-read entries before
// they expire.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
		EarlyRefresh: &EarlyRefreshConfig{
			MinAsyncRefreshTime: 10 * time.Second,
			MaxAsyncRefreshTime: 20 * time.Second,
			SyncRefreshTime:     30 * time.Second,
			RetryBaseDelay:      100 * time.Millisecond,
		},
		MissingRecordStorage: true,
	}
}

// Options converts the Config to a sturdyc.Option slice. Capacity,
// NumShards, TTL, and EvictionPercentage are constructor arguments and not
// part of the options.
func (c Config) Options() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EarlyRefresh != nil {
		options = append(options, sturdyc.WithEarlyRefreshes(
			c.EarlyRefresh.MinAsyncRefreshTime,
			c.EarlyRefresh.MaxAsyncRefreshTime,
			c.EarlyRefresh.SyncRefreshTime,
			c.EarlyRefresh.RetryBaseDelay,
		))
	}
	if c.MissingRecordStorage {
		options = append(options, sturdyc.WithMissingRecordStorage())
	}
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	if c.EarlyRefresh != nil {
		for field, d := range map[string]time.Duration{
			"EarlyRefresh.MinAsyncRefreshTime": c.EarlyRefresh.MinAsyncRefreshTime,
			"EarlyRefresh.MaxAsyncRefreshTime": c.EarlyRefresh.MaxAsyncRefreshTime,
			"EarlyRefresh.SyncRefreshTime":     c.EarlyRefresh.SyncRefreshTime,
			"EarlyRefresh.RetryBaseDelay":      c.EarlyRefresh.RetryBaseDelay,
		} {
			if d < 0 {
				return &ConfigError{Field: field, Message: "must be non-negative"}
			}
		}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// sturdycService adapts sturdyc clients to the cache.CacheService surface.
//
// sturdyc fixes the TTL per client, while callers here choose a TTL per
// read, so the service keeps one client per distinct TTL ("TTL buckets"),
// created lazily and reused for the process lifetime. Tag support is a
// registry mapping each tag to the set of keys registered under it;
// flushing a tag deletes those keys from every bucket.
type sturdycService struct {
	cfg     Config
	base    *sturdyc.Client[any]
	buckets *xsync.MapOf[time.Duration, *sturdyc.Client[any]]
	tags    *xsync.MapOf[string, *xsync.MapOf[string, struct{}]]
}

// NewSturdycService creates a new sturdyc cache service adapter. It
// validates the configuration and initializes the default-TTL client.
func NewSturdycService(cfg Config) (*sturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &sturdycService{
		cfg:     cfg,
		base:    newClient(cfg, cfg.TTL),
		buckets: xsync.NewMapOf[time.Duration, *sturdyc.Client[any]](),
		tags:    xsync.NewMapOf[string, *xsync.MapOf[string, struct{}]](),
	}, nil
}

func newClient(cfg Config, ttl time.Duration) *sturdyc.Client[any] {
	return sturdyc.New[any](cfg.Capacity, cfg.NumShards, ttl, cfg.EvictionPercentage, cfg.Options()...)
}

// client returns the bucket serving the requested TTL.
func (s *sturdycService) client(ttl time.Duration) *sturdyc.Client[any] {
	if ttl <= 0 || ttl == s.cfg.TTL {
		return s.base
	}
	client, _ := s.buckets.LoadOrCompute(ttl, func() *sturdyc.Client[any] {
		return newClient(s.cfg, ttl)
	})
	return client
}

// eachClient visits the default client and every TTL bucket.
func (s *sturdycService) eachClient(fn func(*sturdyc.Client[any])) {
	fn(s.base)
	s.buckets.Range(func(_ time.Duration, client *sturdyc.Client[any]) bool {
		fn(client)
		return true
	})
}

// GetOrFetch implements cache.CacheService. The fetchFn must have the shape
// func(context.Context) (T, error); it is validated before any sturdyc call
// so a bad callable surfaces as a ConfigError rather than a type panic.
func (s *sturdycService) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetchFn any) (any, error) {
	if err := validateFetchFn(fetchFn); err != nil {
		return nil, err
	}

	return s.client(ttl).GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return callFetchFn(ctx, fetchFn)
	})
}

// GetOrFetchTagged implements cache.TaggedCacheService. Keys are registered
// under their tags before the read so a flush racing the fetch still
// removes the entry.
func (s *sturdycService) GetOrFetchTagged(ctx context.Context, key string, ttl time.Duration, tags []string, fetchFn any) (any, error) {
	for _, tag := range tags {
		keys, _ := s.tags.LoadOrCompute(tag, func() *xsync.MapOf[string, struct{}] {
			return xsync.NewMapOf[string, struct{}]()
		})
		keys.Store(key, struct{}{})
	}
	return s.GetOrFetch(ctx, key, ttl, fetchFn)
}

// FlushTags implements cache.TaggedCacheService.
func (s *sturdycService) FlushTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		keys, ok := s.tags.LoadAndDelete(tag)
		if !ok {
			continue
		}
		keys.Range(func(key string, _ struct{}) bool {
			s.eachClient(func(client *sturdyc.Client[any]) {
				client.Delete(key)
			})
			return true
		})
	}
	return nil
}

// Delete implements cache.CacheService. The key could live in any TTL
// bucket, so every client is asked to drop it.
func (s *sturdycService) Delete(ctx context.Context, key string) error {
	s.eachClient(func(client *sturdyc.Client[any]) {
		client.Delete(key)
	})
	return nil
}

// DeleteByPrefix implements cache.PrefixInvalidator. It removes all entries
// whose keys start with the given prefix, across all buckets.
func (s *sturdycService) DeleteByPrefix(ctx context.Context, prefix string) error {
	s.eachClient(func(client *sturdyc.Client[any]) {
		for _, key := range client.ScanKeys() {
			if strings.HasPrefix(key, prefix) {
				client.Delete(key)
			}
		}
	})
	return nil
}

// InvalidateKeys removes multiple entries in one call.
func (s *sturdycService) InvalidateKeys(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// validateFetchFn checks that fetchFn matches func(context.Context) (T, error).
func validateFetchFn(fetchFn any) error {
	if fetchFn == nil {
		return &ConfigError{Field: "fetchFn", Message: "cannot be nil"}
	}

	fnType := reflect.TypeOf(fetchFn)
	if fnType.Kind() != reflect.Func {
		return &ConfigError{Field: "fetchFn", Message: "must be a function"}
	}
	if fnType.NumIn() != 1 || fnType.NumOut() != 2 {
		return &ConfigError{Field: "fetchFn", Message: "must have signature func(context.Context) (T, error)"}
	}

	contextType := reflect.TypeOf((*context.Context)(nil)).Elem()
	if !fnType.In(0).Implements(contextType) {
		return &ConfigError{Field: "fetchFn", Message: "first parameter must be context.Context"}
	}
	errorType := reflect.TypeOf((*error)(nil)).Elem()
	if !fnType.Out(1).Implements(errorType) {
		return &ConfigError{Field: "fetchFn", Message: "second return value must be error"}
	}

	return nil
}

// callFetchFn invokes a pre-validated fetch function, erasing its generic
// result type for sturdyc.
func callFetchFn(ctx context.Context, fetchFn any) (any, error) {
	if fn, ok := fetchFn.(func(context.Context) (any, error)); ok {
		return fn(ctx)
	}

	results := reflect.ValueOf(fetchFn).Call([]reflect.Value{reflect.ValueOf(ctx)})

	var result any
	if results[0].IsValid() && results[0].CanInterface() {
		result = results[0].Interface()
	}

	var err error
	if results[1].IsValid() && !results[1].IsNil() {
		err = results[1].Interface().(error)
	}

	return result, err
}
