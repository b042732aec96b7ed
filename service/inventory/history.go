package inventory

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"backoffice.GO/core/apperr"
	inventoryEntity "backoffice.GO/model/entity/inventory"
)

// GetIngredientHistory merges the ingredient's stock movements and manual
// adjustments into one chronological ledger.
func (s *Service) GetIngredientHistory(ctx context.Context, id string) ([]inventoryEntity.HistoryItem, error) {
	repos := s.uow.Repos()
	var (
		ing         *inventoryEntity.Ingredient
		movements   []inventoryEntity.StockMovement
		adjustments []inventoryEntity.StockAdjustment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ing, err = repos.Ingredients.FindByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		movements, err = repos.Movements.ByIngredient(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		adjustments, err = repos.Movements.AdjustmentsByIngredient(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !visible(ctx, ing) {
		return nil, apperr.NotFound("ingredient", id)
	}

	items := make([]inventoryEntity.HistoryItem, 0, len(movements)+len(adjustments))
	for _, m := range movements {
		items = append(items, inventoryEntity.HistoryItem{
			Date:           m.CreatedAt,
			Type:           m.Type,
			ReferenceID:    m.ReferenceID,
			QuantityChange: m.QuantityChange,
			ResultingStock: m.ResultingStock,
			Actor:          m.Actor,
			Note:           m.Note,
		})
	}
	for _, a := range adjustments {
		// production consumption is already a Production movement
		if a.Reason == inventoryEntity.ReasonProduksi {
			continue
		}
		note := string(a.Reason)
		if a.Note != "" {
			note += ": " + a.Note
		}
		items = append(items, inventoryEntity.HistoryItem{
			Date:           a.CreatedAt,
			Type:           inventoryEntity.MovementAdjustment,
			ReferenceID:    adjustmentRef(a.ID),
			QuantityChange: a.Variance,
			ResultingStock: a.NewStock,
			Actor:          a.Actor,
			Note:           note,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.Before(items[j].Date)
	})
	return items, nil
}
