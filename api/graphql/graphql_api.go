package graphql

import (
	"net/http"

	"github.com/graph-gophers/graphql-go"
	"github.com/labstack/echo/v4"

	"backoffice.GO/api"
	"backoffice.GO/graphqlserver"
)

func init() {
	api.RegisterRoute(RegisterGraphQLRoutes)
}

// RegisterGraphQLRoutes mounts /graphql and /playground on the services'
// schema. An invalid schema is a programming error and panics at startup.
func RegisterGraphQLRoutes(e *echo.Echo, s *api.Services) {
	schema, err := graphqlserver.NewSchema(s.Inventory, s.Purchase)
	if err != nil {
		panic("graphql schema: " + err.Error())
	}
	RegisterGraphQLRoutesWithSchema(e, schema, s.Central)
}

// RegisterGraphQLRoutesWithSchema mounts a prepared schema. Requests are
// scoped like /api: X-Outlet-ID, X-Target-Outlets and X-Actor.
func RegisterGraphQLRoutesWithSchema(e *echo.Echo, schema *graphql.Schema, defaultOutlet string) {
	h := graphqlserver.Handler(schema)
	scoped := api.ScopeMiddleware(defaultOutlet)
	e.POST("/graphql", h, scoped)
	e.GET("/graphql", h, scoped)
	e.GET("/playground", func(c echo.Context) error {
		return c.HTML(http.StatusOK, playground)
	})
}

const playground = `<!DOCTYPE html>
<html>
<head>
	<title>Backoffice GraphQL</title>
	<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/css/index.css"/>
</head>
<body>
	<div id="root"/>
	<script src="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/js/middleware.js"></script>
	<script>window.addEventListener('load', function() {
		GraphQLPlayground.init(document.getElementById('root'), { endpoint: '/graphql' });
	})</script>
</body>
</html>`
