package di

import (
	"context"

	"github.com/goliatone/go-actions/actions"
	"github.com/goliatone/go-actions/cache"
	"github.com/goliatone/go-actions/internal/cacheinfra"
)

// Container provides dependency injection for action-layer components. It
// manages singleton instances of the cache service and key serializer and
// carries the action configuration handed to every factory.
type Container struct {
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	config        actions.Config
	cacheConfig   cacheinfra.Config
}

// NewContainer creates a DI container from an action configuration and a
// cache backend configuration. Both are validated up front so wiring
// mistakes surface at startup rather than mid-request.
func NewContainer(config actions.Config, cacheConfig cacheinfra.Config) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cacheService, err := cacheinfra.NewSturdycService(cacheConfig)
	if err != nil {
		return nil, err
	}

	return &Container{
		cacheService:  cacheService,
		keySerializer: cache.NewDefaultKeySerializer(),
		config:        config,
		cacheConfig:   cacheConfig,
	}, nil
}

// NewContainerWithDefaults creates a container using default configuration
// for both the action layer and the cache backend.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(actions.DefaultConfig(), cacheinfra.DefaultConfig())
}

// CacheService returns the singleton cache service instance.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the singleton key serializer instance.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns a copy of the action configuration used by this container.
func (c *Container) Config() actions.Config {
	return c.config
}

// InvalidateActionType drops every cached entry for one action namespace,
// e.g. container.InvalidateActionType(ctx, "list_action") after a write
// that affects listings. Backends without prefix scans make this a no-op.
func (c *Container) InvalidateActionType(ctx context.Context, name string) error {
	prefix := c.config.Cache.KeyPrefix + cache.KeySeparator + name + cache.KeySeparator
	return cache.DeleteByPrefix(ctx, c.cacheService, prefix)
}

// Cached wraps an action with the container's cache service and settings.
//
// Since Go methods cannot have type parameters, this is provided as a
// package-level function: di.Cached(container, actions.NewList[User](db, cfg, opts)).
func Cached[R any](c *Container, action actions.Action[R]) *actions.Cached[R] {
	return actions.NewCached(action, c.cacheService, c.keySerializer, c.config.Cache)
}
