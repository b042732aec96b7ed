package graphql

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice.GO/api"
	"backoffice.GO/internal/apitest"
	inventoryEntity "backoffice.GO/model/entity/inventory"
)

type gqlResponse struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func query(t *testing.T, srv *apitest.Server, q string, headers ...string) gqlResponse {
	t.Helper()
	rec := srv.Do(http.MethodPost, "/graphql", map[string]interface{}{"query": q}, headers...)
	apitest.Expect(t, rec, http.StatusOK)
	var out gqlResponse
	apitest.Decode(t, rec, &out)
	return out
}

func assertDecimal(t *testing.T, want string, got interface{}) {
	t.Helper()
	s, ok := got.(string)
	require.True(t, ok, "%v is not a string", got)
	assert.True(t, decimal.RequireFromString(want).Equal(decimal.RequireFromString(s)), "want %s, got %s", want, s)
}

func TestGraphQL_Ingredients(t *testing.T) {
	srv := apitest.New(t)
	RegisterGraphQLRoutes(srv.Echo, srv.Services)

	milk, err := srv.Services.Inventory.CreateIngredient(context.Background(), &inventoryEntity.Ingredient{
		Name: "Susu", SKU: "SUS", Unit: "liter", Stock: decimal.NewFromInt(1), MinStock: decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	_, err = srv.Services.Inventory.CreateIngredient(context.Background(), &inventoryEntity.Ingredient{
		Name: "Gula", Unit: "kg", Stock: decimal.NewFromInt(10), MinStock: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	res := query(t, srv, `{ ingredients(status: "critical") { totalCount pageSize items { id name sku stock stockStatus } } }`)
	require.Empty(t, res.Errors)
	page := res.Data["ingredients"].(map[string]interface{})
	assert.EqualValues(t, 1, page["totalCount"])
	assert.EqualValues(t, 20, page["pageSize"])
	items := page["items"].([]interface{})
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, milk.ID, first["id"])
	assert.Equal(t, "SUS", first["sku"])
	assertDecimal(t, "1", first["stock"])
	assert.Equal(t, "critical", first["stockStatus"])

	res = query(t, srv, `{ ingredient(id: "`+milk.ID+`") { name unit } compatibleUnits(unit: "ml") }`)
	require.Empty(t, res.Errors)
	assert.Equal(t, "Susu", res.Data["ingredient"].(map[string]interface{})["name"])
	assert.Contains(t, res.Data["compatibleUnits"], "liter")

	// outside the caller's outlet the ingredient is null
	res = query(t, srv, `{ ingredient(id: "`+milk.ID+`") { name } }`, api.HeaderOutlet, "outlet-b")
	require.Empty(t, res.Errors)
	assert.Nil(t, res.Data["ingredient"])
}

func TestGraphQL_HistoryAndPrice(t *testing.T) {
	srv := apitest.New(t)
	RegisterGraphQLRoutes(srv.Echo, srv.Services)

	sugar, err := srv.Services.Inventory.CreateIngredient(context.Background(), &inventoryEntity.Ingredient{
		Name: "Gula", Unit: "kg", Stock: decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	_, err = srv.Services.Inventory.AdjustStock(context.Background(), sugar.ID, decimal.NewFromInt(1), inventoryEntity.ReasonHilang, "")
	require.NoError(t, err)

	res := query(t, srv, `{
		ingredientHistory(id: "`+sugar.ID+`") { type quantityChange resultingStock }
		lastSupplierPrice(supplierId: "nobody", ingredientId: "`+sugar.ID+`") { found price }
	}`)
	require.Empty(t, res.Errors)
	hist := res.Data["ingredientHistory"].([]interface{})
	require.Len(t, hist, 1)
	entry := hist[0].(map[string]interface{})
	assert.Equal(t, "Adjustment", entry["type"])
	assertDecimal(t, "-1", entry["quantityChange"])
	assertDecimal(t, "1", entry["resultingStock"])
	price := res.Data["lastSupplierPrice"].(map[string]interface{})
	assert.Equal(t, false, price["found"])
	assert.Nil(t, price["price"])
}

func TestPlayground(t *testing.T) {
	srv := apitest.New(t)
	RegisterGraphQLRoutes(srv.Echo, srv.Services)

	rec := srv.Do(http.MethodGet, "/playground", nil)
	apitest.Expect(t, rec, http.StatusOK)
	assert.Contains(t, rec.Body.String(), "GraphQLPlayground")
}

func TestGraphQL_GetWithVariables(t *testing.T) {
	srv := apitest.New(t)
	RegisterGraphQLRoutes(srv.Echo, srv.Services)

	q := url.Values{}
	q.Set("query", `query($u: String!) { compatibleUnits(unit: $u) }`)
	q.Set("variables", `{"u":"ml"}`)
	rec := srv.Do(http.MethodGet, "/graphql?"+q.Encode(), nil)
	apitest.Expect(t, rec, http.StatusOK)
	var out gqlResponse
	apitest.Decode(t, rec, &out)
	require.Empty(t, out.Errors)
	assert.Contains(t, out.Data["compatibleUnits"], "liter")
	assert.NotContains(t, out.Data["compatibleUnits"], "kg")
}

func TestGraphQL_BadRequests(t *testing.T) {
	srv := apitest.New(t)
	RegisterGraphQLRoutes(srv.Echo, srv.Services)

	apitest.Expect(t, srv.Do(http.MethodPost, "/graphql", map[string]string{}), http.StatusBadRequest)
	apitest.Expect(t, srv.Do(http.MethodPost, "/graphql", "{not json"), http.StatusBadRequest)
	apitest.Expect(t, srv.Do(http.MethodGet, "/graphql?query=x&variables=%7B", nil), http.StatusBadRequest)
}
