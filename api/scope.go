package api

import (
	"strings"

	"github.com/labstack/echo/v4"

	"backoffice.GO/core/auth"
	"backoffice.GO/core/scope"
)

// Request headers that set the operating scope.
const (
	HeaderOutlet        = "X-Outlet-ID"
	HeaderTargetOutlets = "X-Target-Outlets"
	HeaderActor         = "X-Actor"
)

// ScopeMiddleware attaches the outlet and actor of the request to its
// context. Requests without X-Outlet-ID operate on defaultOutlet; without
// X-Actor the authenticated user acts.
func ScopeMiddleware(defaultOutlet string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			s := scope.Scope{
				OutletID: strings.TrimSpace(req.Header.Get(HeaderOutlet)),
				Actor:    strings.TrimSpace(req.Header.Get(HeaderActor)),
			}
			if s.OutletID == "" {
				s.OutletID = defaultOutlet
			}
			if s.Actor == "" {
				s.Actor, _ = c.Get(auth.ContextActor).(string)
			}
			if s.Actor == "" {
				if user, _, ok := req.BasicAuth(); ok {
					s.Actor = user
				}
			}
			for _, id := range strings.Split(req.Header.Get(HeaderTargetOutlets), ",") {
				if id = strings.TrimSpace(id); id != "" {
					s.TargetOutletIDs = append(s.TargetOutletIDs, id)
				}
			}
			c.SetRequest(req.WithContext(scope.With(req.Context(), s)))
			return next(c)
		}
	}
}
