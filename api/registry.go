package api

import (
	"github.com/labstack/echo/v4"

	"backoffice.GO/core/registry"
)

// ModuleFunc mounts a module's routes on the authenticated, scoped /api group.
type ModuleFunc func(g *echo.Group, s *Services)

// RouteFunc mounts routes on the root Echo instance, outside /api.
type RouteFunc func(e *echo.Echo, s *Services)

// RegisterModule adds an /api module. Call from init() in API packages.
func RegisterModule(fn ModuleFunc) {
	registry.Append(registry.GlobalRegistry, registry.KeyRegistryAPI, fn)
}

// RegisterRoute adds a root-level route module. Call from init().
func RegisterRoute(fn RouteFunc) {
	registry.Append(registry.GlobalRegistry, registry.KeyRegistryRoutes, fn)
}

// RegisterGET adds a single public GET route.
func RegisterGET(path string, handler echo.HandlerFunc) {
	RegisterRoute(func(e *echo.Echo, _ *Services) {
		e.GET(path, handler)
	})
}

// ApplyModules mounts every /api module on g and locks the module registry.
func ApplyModules(g *echo.Group, s *Services) {
	for _, fn := range registry.List[ModuleFunc](registry.GlobalRegistry, registry.KeyRegistryAPI) {
		fn(g, s)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryAPI)
}

// ApplyRoutes mounts every root-level route and locks the route registry.
func ApplyRoutes(e *echo.Echo, s *Services) {
	for _, fn := range registry.List[RouteFunc](registry.GlobalRegistry, registry.KeyRegistryRoutes) {
		fn(e, s)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryRoutes)
}
