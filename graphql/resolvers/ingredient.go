package resolvers

import (
	"context"
	"errors"

	gql "github.com/graph-gophers/graphql-go"

	"backoffice.GO/core/apperr"
	gqlmodels "backoffice.GO/graphql/models"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	"backoffice.GO/service/inventory"
	"backoffice.GO/service/unit"
)

type IngredientsArgs struct {
	Category    *string
	Status      *string
	SupplierID  *string
	Search      *string
	PageSize    int32
	CurrentPage int32
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *QueryResolver) Ingredients(ctx context.Context, args IngredientsArgs) (*gqlmodels.IngredientPage, error) {
	res, err := r.inventory.ListIngredients(ctx, inventory.ListFilter{
		Category:   deref(args.Category),
		Status:     inventoryEntity.StockStatus(deref(args.Status)),
		SupplierID: deref(args.SupplierID),
		Search:     deref(args.Search),
		Page:       int(args.CurrentPage),
		PageSize:   int(args.PageSize),
	})
	if err != nil {
		return nil, err
	}
	page := &gqlmodels.IngredientPage{
		Items:       make([]*gqlmodels.Ingredient, 0, len(res.Items)),
		TotalCount:  int32(res.Total),
		CurrentPage: int32(res.Page),
		PageSize:    int32(res.PageSize),
	}
	for i := range res.Items {
		page.Items = append(page.Items, mapIngredient(&res.Items[i]))
	}
	return page, nil
}

// Ingredient returns nil for ids outside the caller's outlets.
func (r *QueryResolver) Ingredient(ctx context.Context, args struct{ ID gql.ID }) (*gqlmodels.Ingredient, error) {
	ing, err := r.inventory.GetIngredient(ctx, string(args.ID))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mapIngredient(ing), nil
}

func (r *QueryResolver) IngredientHistory(ctx context.Context, args struct{ ID gql.ID }) ([]*gqlmodels.HistoryEntry, error) {
	items, err := r.inventory.GetIngredientHistory(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.HistoryEntry, 0, len(items))
	for _, h := range items {
		out = append(out, mapHistory(h))
	}
	return out, nil
}

func (r *QueryResolver) LastSupplierPrice(ctx context.Context, args struct {
	SupplierID   gql.ID
	IngredientID gql.ID
}) (*gqlmodels.SupplierPrice, error) {
	price, found, err := r.purchase.GetLastSupplierPrice(ctx, string(args.SupplierID), string(args.IngredientID))
	if err != nil {
		return nil, err
	}
	if !found {
		return &gqlmodels.SupplierPrice{}, nil
	}
	p := price.String()
	return &gqlmodels.SupplierPrice{Found: true, Price: &p}, nil
}

// CompatibleUnits is empty for unknown units.
func (r *QueryResolver) CompatibleUnits(_ context.Context, args struct{ Unit string }) []string {
	units := unit.CompatibleUnits(args.Unit)
	if units == nil {
		return []string{}
	}
	return units
}
