package resolvers

import (
	"time"

	gql "github.com/graph-gophers/graphql-go"

	gqlmodels "backoffice.GO/graphql/models"
	inventoryEntity "backoffice.GO/model/entity/inventory"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mapIngredient(ing *inventoryEntity.Ingredient) *gqlmodels.Ingredient {
	out := &gqlmodels.Ingredient{
		ID:          gql.ID(ing.ID),
		OutletID:    ing.OutletID,
		Name:        ing.Name,
		SKU:         optional(ing.SKU),
		Category:    optional(ing.Category),
		Stock:       ing.Stock.String(),
		Unit:        ing.Unit,
		MinStock:    ing.MinStock.String(),
		AvgCost:     ing.AvgCost.String(),
		SupplierID:  optional(ing.SupplierID),
		Type:        string(ing.Type),
		StockStatus: string(ing.Status()),
		Recipe:      make([]*gqlmodels.RecipeLine, 0, len(ing.Recipe)),
	}
	for _, l := range ing.Recipe {
		out.Recipe = append(out.Recipe, &gqlmodels.RecipeLine{
			ComponentID: gql.ID(l.ComponentID),
			Quantity:    l.Quantity.String(),
			Unit:        l.Unit,
		})
	}
	return out
}

func mapHistory(h inventoryEntity.HistoryItem) *gqlmodels.HistoryEntry {
	return &gqlmodels.HistoryEntry{
		Date:           h.Date.UTC().Format(time.RFC3339),
		Type:           string(h.Type),
		ReferenceID:    optional(h.ReferenceID),
		QuantityChange: h.QuantityChange.String(),
		ResultingStock: h.ResultingStock.String(),
		Actor:          optional(h.Actor),
		Note:           optional(h.Note),
	}
}
