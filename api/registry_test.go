package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRegisterGET_ApplyRoutes(t *testing.T) {
	RegisterGET("/test/registry/check", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	var gotServices *Services
	RegisterModule(func(g *echo.Group, s *Services) {
		gotServices = s
		g.GET("/outlet", func(c echo.Context) error {
			return c.String(http.StatusOK, c.Request().Header.Get(HeaderOutlet))
		})
	})

	e := echo.New()
	s := &Services{Central: "central"}
	ApplyModules(e.Group("/api"), s)
	ApplyRoutes(e, s)
	assert.Same(t, s, gotServices)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test/registry/check", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/outlet", nil)
	req.Header.Set(HeaderOutlet, "outlet-b")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "outlet-b", rec.Body.String())

	assert.Panics(t, func() { RegisterModule(func(*echo.Group, *Services) {}) })
}
