package auth

import (
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"backoffice.GO/config"
)

// ContextActor is the echo context key holding the authenticated actor.
const ContextActor = "auth_actor"

// Middleware returns the auth middleware based on AUTH_TYPE env var.
func Middleware() echo.MiddlewareFunc {
	skipper := buildSkipper()
	switch os.Getenv("AUTH_TYPE") {
	case "key":
		return keyAuth(skipper)
	case "token":
		return tokenAuth(parseTokens(os.Getenv("API_TOKENS")), skipper)
	default:
		return basicAuth(skipper)
	}
}

func buildSkipper() middleware.Skipper {
	skipPaths := config.GetAuthSkipperPaths()
	return func(c echo.Context) bool {
		path := c.Path()
		for _, skip := range skipPaths {
			if path == skip {
				return true
			}
		}
		return false
	}
}

func basicAuth(skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Validator: func(username, password string, c echo.Context) (bool, error) {
			if username == os.Getenv("API_USER") && password == os.Getenv("API_PASS") {
				c.Set(ContextActor, username)
				return true, nil
			}
			return false, nil
		},
		Skipper: skipper,
	})
}

func keyAuth(skipper middleware.Skipper) echo.MiddlewareFunc {
	apiKey := os.Getenv("API_KEY")
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(key string, c echo.Context) (bool, error) {
			return apiKey != "" && key == apiKey, nil
		},
		Skipper: skipper,
	})
}

// parseTokens reads "token=actor" pairs separated by commas.
func parseTokens(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		token, actor, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || token == "" || actor == "" {
			continue
		}
		out[token] = actor
	}
	return out
}

// tokenAuth accepts bearer tokens issued per staff member and records who
// is acting. The static API_KEY is still accepted without an actor.
func tokenAuth(tokens map[string]string, skipper middleware.Skipper) echo.MiddlewareFunc {
	staticKey := os.Getenv("API_KEY")
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(token string, c echo.Context) (bool, error) {
			if staticKey != "" && token == staticKey {
				return true, nil
			}
			actor, ok := tokens[token]
			if !ok {
				return false, nil
			}
			c.Set(ContextActor, actor)
			return true, nil
		},
		Skipper: skipper,
	})
}
