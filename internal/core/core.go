package core

import (
	"github.com/denchenko/usercards/internal/config"
	"github.com/denchenko/usercards/internal/core/app"
	do "github.com/samber/do/v2"
)

var Package = do.Package(
	do.Lazy[*app.App](NewApp),
)

// NewApp creates a new App instance with dependencies from the injector.
func NewApp(i do.Injector) (*app.App, error) {
	cfg := do.MustInvoke[*config.Config](i)
	users := do.MustInvoke[app.UserService](i)
	cacheControl := do.MustInvoke[app.CacheControl](i)

	return app.NewApp(cfg, users, cacheControl)
}
