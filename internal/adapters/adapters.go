package adapters

import (
	"fmt"

	"github.com/denchenko/usercards/internal/adapters/primary/cli"
	httpadapter "github.com/denchenko/usercards/internal/adapters/primary/http"
	"github.com/denchenko/usercards/internal/adapters/secondary/cache"
	"github.com/denchenko/usercards/internal/adapters/secondary/randomuser"
	"github.com/denchenko/usercards/internal/adapters/secondary/service/cached"
	"github.com/denchenko/usercards/internal/config"
	"github.com/denchenko/usercards/internal/core/app"
	ascii "github.com/denchenko/usercards/internal/format/ascii"
	do "github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

var PrimaryPackage = do.Package(
	do.Lazy[*ascii.Formatter](ascii.NewFormatter),
	do.Lazy[*cobra.Command](cli.Command),
	do.Lazy[*httpadapter.Server](NewHTTPServer),
)

var SecondaryPackage = do.Package(
	do.Lazy[*randomuser.Client](NewRandomUserClient),
	do.Lazy[cache.Cache](NewCache),
	do.Lazy[*cached.Service](NewCachedService),
	do.Lazy[app.UserService](NewUserService),
	do.Lazy[app.CacheControl](NewCacheControl),
)

// NewRandomUserClient creates a new randomuser.me client.
func NewRandomUserClient(i do.Injector) (*randomuser.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)

	client, err := randomuser.NewClient(cfg.BaseURL, cfg.Seed, cfg.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create randomuser client: %w", err)
	}

	return client, nil
}

// NewCache creates the cache backend selected by configuration.
func NewCache(i do.Injector) (cache.Cache, error) {
	cfg := do.MustInvoke[*config.Config](i)

	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		client, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}

		return cache.NewRedisCache(client, cache.DefaultRedisPrefix), nil
	default:
		return cache.NewInMemoryCache(), nil
	}
}

// NewCachedService wraps the randomuser client with the response cache.
func NewCachedService(i do.Injector) (*cached.Service, error) {
	cfg := do.MustInvoke[*config.Config](i)
	client := do.MustInvoke[*randomuser.Client](i)
	cacheInstance := do.MustInvoke[cache.Cache](i)

	var opts []cached.Option
	if cfg.CacheSingleFlight {
		opts = append(opts, cached.WithSingleFlight())
	}

	return cached.NewService(client, cacheInstance, cfg.CacheTTL, opts...), nil
}

// NewUserService creates a user service adapter that implements app.UserService.
func NewUserService(i do.Injector) (app.UserService, error) {
	return do.MustInvoke[*cached.Service](i), nil
}

// NewCacheControl exposes the cached service as app.CacheControl.
func NewCacheControl(i do.Injector) (app.CacheControl, error) {
	return do.MustInvoke[*cached.Service](i), nil
}

// NewHTTPServer creates a new HTTP server.
func NewHTTPServer(i do.Injector) (*httpadapter.Server, error) {
	appInstance := do.MustInvoke[*app.App](i)
	cfg := do.MustInvoke[*config.Config](i)

	return httpadapter.NewServer(cfg.Address, appInstance), nil
}
