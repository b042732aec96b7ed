package inventory

import (
	"context"

	"gorm.io/gorm"

	inventoryEntity "backoffice.GO/model/entity/inventory"
)

// MovementRepository persists the append-only stock ledger: movements and
// adjustment audit rows.
type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

func (r *MovementRepository) Record(ctx context.Context, m *inventoryEntity.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MovementRepository) RecordAdjustment(ctx context.Context, a *inventoryEntity.StockAdjustment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// ByIngredient returns the ingredient's movements, oldest first.
func (r *MovementRepository) ByIngredient(ctx context.Context, ingredientID string) ([]inventoryEntity.StockMovement, error) {
	var items []inventoryEntity.StockMovement
	err := r.db.WithContext(ctx).
		Where("ingredient_id = ?", ingredientID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// AdjustmentsByIngredient returns the ingredient's adjustments, oldest first.
func (r *MovementRepository) AdjustmentsByIngredient(ctx context.Context, ingredientID string) ([]inventoryEntity.StockAdjustment, error) {
	var items []inventoryEntity.StockAdjustment
	err := r.db.WithContext(ctx).
		Where("ingredient_id = ?", ingredientID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// HasHistory reports whether any movement or adjustment references the ingredient.
func (r *MovementRepository) HasHistory(ctx context.Context, ingredientID string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&inventoryEntity.StockMovement{}).
		Where("ingredient_id = ?", ingredientID).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	err := r.db.WithContext(ctx).Model(&inventoryEntity.StockAdjustment{}).
		Where("ingredient_id = ?", ingredientID).Count(&n).Error
	return n > 0, err
}
