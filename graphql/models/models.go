// Package models holds the GraphQL view types. Quantities and money are
// decimal strings so no precision is lost on the wire.
package models

import gql "github.com/graph-gophers/graphql-go"

type Ingredient struct {
	ID          gql.ID
	OutletID    string
	Name        string
	SKU         *string
	Category    *string
	Stock       string
	Unit        string
	MinStock    string
	AvgCost     string
	SupplierID  *string
	Type        string
	StockStatus string
	Recipe      []*RecipeLine
}

type RecipeLine struct {
	ComponentID gql.ID
	Quantity    string
	Unit        string
}

type IngredientPage struct {
	Items       []*Ingredient
	TotalCount  int32
	CurrentPage int32
	PageSize    int32
}

type HistoryEntry struct {
	Date           string
	Type           string
	ReferenceID    *string
	QuantityChange string
	ResultingStock string
	Actor          *string
	Note           *string
}

type SupplierPrice struct {
	Found bool
	Price *string
}
