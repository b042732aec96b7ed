// Package apitest serves route modules over a throwaway database for
// handler tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"backoffice.GO/api"
	"backoffice.GO/config"
	"backoffice.GO/internal/testdb"
)

// Central is the default outlet of requests without X-Outlet-ID.
const Central = "central"

// Server is an echo instance with the given /api modules mounted.
type Server struct {
	t        testing.TB
	Echo     *echo.Echo
	Services *api.Services
}

// New opens a fresh database, builds the services and mounts modules under
// /api behind the scope middleware.
func New(t testing.TB, modules ...api.ModuleFunc) *Server {
	t.Helper()
	db := testdb.Open(t)
	cfg := &config.Config{
		CentralOutletID:   Central,
		DefaultSupplierID: "general",
		PriceCacheTTL:     time.Minute,
	}
	s := api.NewServices(db, cfg, nil, nil)
	e := echo.New()
	e.Validator = api.NewValidator()
	g := e.Group("/api", api.ScopeMiddleware(Central))
	for _, m := range modules {
		m(g, s)
	}
	return &Server{t: t, Echo: e, Services: s}
}

// Do sends body (marshalled unless it is already a string or reader) and
// returns the recorded response. headers are key/value pairs.
func (s *Server) Do(method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	case io.Reader:
		r = b
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

// Decode unmarshals the response body into dst.
func Decode(t testing.TB, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

// Expect fails the test unless rec has the wanted status.
func Expect(t testing.TB, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, status, rec.Body.String())
	}
}
