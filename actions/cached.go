package actions

import (
	"context"
	"reflect"
	"time"

	"github.com/goliatone/go-actions/cache"
)

// KeySource lets an action override the parameter snapshot its cache key is
// derived from. Actions that do not implement it are snapshotted whole
// (exported fields only).
type KeySource interface {
	CacheKeyFields() []any
}

// Cached decorates an Action with memoization. The key is a deterministic
// hash of the action's own parameter snapshot, prefixed by the configured
// namespace and the action's type name, so two invocations with identical
// parameters share one entry by design.
//
// Cached is itself an Action, so it can be run through the standard
// lifecycle or nested under further decorators. The wrapped action's hooks
// run only on a cache miss; a hit short-circuits the whole operation.
type Cached[R any] struct {
	action  Action[R]
	service cache.CacheService
	keyer   cache.KeySerializer
	cfg     CacheConfig
	ttl     time.Duration
	tags    []string
	enabled bool
}

// NewCached wraps action with the cache service. The initial on/off state
// and default TTL come from cfg; WithTTL, WithTags, WithCache, and
// WithoutCache refine the wrapper per call site.
func NewCached[R any](action Action[R], service cache.CacheService, keyer cache.KeySerializer, cfg CacheConfig) *Cached[R] {
	return &Cached[R]{
		action:  action,
		service: service,
		keyer:   keyer,
		cfg:     cfg,
		ttl:     time.Duration(cfg.TTLMinutes) * time.Minute,
		enabled: cfg.Enabled,
	}
}

// WithTTL overrides the default time-to-live for this wrapper, in minutes.
func (c *Cached[R]) WithTTL(minutes int) *Cached[R] {
	c.ttl = time.Duration(minutes) * time.Minute
	return c
}

// WithTags scopes the cached entry under tag groups. Tags are honored only
// when the backend supports tag-based grouping; otherwise the entry is
// stored untagged.
func (c *Cached[R]) WithTags(tags ...string) *Cached[R] {
	c.tags = append(c.tags, tags...)
	return c
}

// WithCache enables memoization for this wrapper.
func (c *Cached[R]) WithCache() *Cached[R] {
	c.enabled = true
	return c
}

// WithoutCache disables memoization; the wrapper becomes a pure
// pass-through with zero side effects on the store.
func (c *Cached[R]) WithoutCache() *Cached[R] {
	c.enabled = false
	return c
}

// Key returns the cache key this wrapper stores under.
func (c *Cached[R]) Key() string {
	snapshot := []any{c.action}
	if source, ok := c.action.(KeySource); ok {
		snapshot = source.CacheKeyFields()
	}

	name := actionName(c.action)
	prefix := c.cfg.KeyPrefix
	if prefix == "" {
		prefix = "actions"
	}

	serialized := c.keyer.SerializeKey(name, snapshot...)
	return prefix + cache.KeySeparator + name + cache.KeySeparator + cache.Digest(serialized)
}

// Execute runs the wrapper through the standard lifecycle.
func (c *Cached[R]) Execute(ctx context.Context) (R, error) {
	return Run[R](ctx, c)
}

// Handle implements Action: return the memoized result when present,
// otherwise run the wrapped action through its full lifecycle and remember
// the outcome.
func (c *Cached[R]) Handle(ctx context.Context) (R, error) {
	if !c.enabled {
		return Run(ctx, c.action)
	}

	fetch := func(ctx context.Context) (R, error) {
		return Run(ctx, c.action)
	}
	return cache.GetOrFetchTagged(ctx, c.service, c.Key(), c.ttl, c.tags, fetch)
}

// Invalidate forgets this wrapper's entry so the next invocation fetches
// fresh data.
func (c *Cached[R]) Invalidate(ctx context.Context) error {
	return c.service.Delete(ctx, c.Key())
}

// Flush invalidates every entry registered under this wrapper's tags. On
// backends without tag support it is a no-op.
func (c *Cached[R]) Flush(ctx context.Context) error {
	return cache.FlushTags(ctx, c.service, c.tags...)
}

// actionName derives the namespace segment from the action's reflected type
// name, generics and pointers stripped into snake_case.
func actionName(action any) string {
	t := reflect.TypeOf(action)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return toSnake(t.Name())
}
