// Package graphqlserver parses the inventory schema and serves it over echo.
package graphqlserver

import (
	"encoding/json"
	"net/http"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/labstack/echo/v4"

	"backoffice.GO/graphql"
	"backoffice.GO/graphql/resolvers"
	"backoffice.GO/service/inventory"
	"backoffice.GO/service/purchase"
)

// NewSchema parses the schema. Query fields resolve against the inventory
// and purchase services.
func NewSchema(inv *inventory.Service, pur *purchase.Service) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), resolvers.NewQueryResolver(inv, pur), gql.UseFieldResolvers())
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler executes POSTed JSON requests and GET requests carrying query,
// operationName and a JSON variables parameter. Resolvers see the request
// context, scope included.
func Handler(schema *gql.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req request
		if c.Request().Method == http.MethodGet {
			req.Query = c.QueryParam("query")
			req.OperationName = c.QueryParam("operationName")
			if v := c.QueryParam("variables"); v != "" {
				if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
					return c.JSON(http.StatusBadRequest, echo.Map{"error": "variables: " + err.Error()})
				}
			}
		} else if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid graphql request"})
		}
		if req.Query == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "query is required"})
		}
		return c.JSON(http.StatusOK, schema.Exec(c.Request().Context(), req.Query, req.OperationName, req.Variables))
	}
}
