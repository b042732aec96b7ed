package inventory

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"backoffice.GO/core/apperr"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	"backoffice.GO/model/repository/uow"
)

// Movement is one signed change to an ingredient's stock.
type Movement struct {
	IngredientID string
	OutletID     string
	Type         inventoryEntity.MovementType
	ReferenceID  string
	Quantity     decimal.Decimal
	Actor        string
	Note         string
	At           time.Time
}

// Apply adds the movement to stock with an additive update and records it
// with the resulting stock. It never reads stock first, so concurrent
// movements do not overwrite each other.
func Apply(ctx context.Context, r *uow.Repos, m Movement) (decimal.Decimal, error) {
	resulting, err := r.Ingredients.AddStock(ctx, m.IngredientID, m.Quantity)
	if err != nil {
		return decimal.Zero, err
	}
	if m.At.IsZero() {
		m.At = time.Now()
	}
	err = r.Movements.Record(ctx, &inventoryEntity.StockMovement{
		IngredientID:   m.IngredientID,
		OutletID:       m.OutletID,
		Type:           m.Type,
		ReferenceID:    m.ReferenceID,
		QuantityChange: m.Quantity,
		ResultingStock: resulting,
		Note:           m.Note,
		Actor:          m.Actor,
		CreatedAt:      m.At,
	})
	return resulting, err
}

// WeightedAverage blends an incoming lot into the running average cost.
// Stock below zero (oversold) carries no weight. The old average is kept
// when the combined quantity is zero.
func WeightedAverage(oldStock, oldAvg, qty, cost decimal.Decimal) decimal.Decimal {
	held := decimal.Max(oldStock, decimal.Zero)
	den := held.Add(qty)
	if den.IsZero() {
		return oldAvg
	}
	return held.Mul(oldAvg).Add(qty.Mul(cost)).Div(den)
}

// AdjustStock sets stock to the counted physical quantity and records the
// variance. Average cost is not touched.
func (s *Service) AdjustStock(ctx context.Context, id string, physical decimal.Decimal, reason inventoryEntity.Reason, note string) (*inventoryEntity.StockAdjustment, error) {
	if !reason.Valid() {
		return nil, apperr.Validation("reason", "unknown adjustment reason %q", reason)
	}
	if physical.IsNegative() {
		return nil, apperr.Validation("physical_qty", "physical quantity cannot be negative")
	}
	var adj *inventoryEntity.StockAdjustment
	err := s.uow.Do(ctx, func(r *uow.Repos) error {
		ing, err := r.Ingredients.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !visible(ctx, ing) {
			return apperr.NotFound("ingredient", id)
		}
		adj = &inventoryEntity.StockAdjustment{
			IngredientID: id,
			OldStock:     ing.Stock,
			NewStock:     physical,
			Variance:     physical.Sub(ing.Stock),
			Reason:       reason,
			Note:         note,
			Actor:        actorOf(ctx),
			CreatedAt:    s.now(),
		}
		if err := r.Ingredients.SetStock(ctx, id, physical); err != nil {
			return err
		}
		return r.Movements.RecordAdjustment(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("stock adjusted",
		zap.String("ingredient_id", id),
		zap.String("reason", string(reason)),
		zap.String("variance", adj.Variance.String()),
	)
	return adj, nil
}

func adjustmentRef(id uint) string {
	return "ADJ-" + strconv.FormatUint(uint64(id), 10)
}
