package inventory

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	inventoryEntity "backoffice.GO/model/entity/inventory"
	"backoffice.GO/model/repository"
)

type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// Filter narrows ListIngredients. Empty fields match everything.
type Filter struct {
	OutletIDs  []string
	Category   string
	Status     inventoryEntity.StockStatus
	SupplierID string
	Search     string
	Page       int
	PageSize   int
}

// FindByID returns the ingredient or a NotFoundError.
func (r *IngredientRepository) FindByID(ctx context.Context, id string) (*inventoryEntity.Ingredient, error) {
	var ing inventoryEntity.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ing).Error; err != nil {
		return nil, repository.Translate(err, "ingredient", id)
	}
	return &ing, nil
}

// FindForUpdate reads the ingredient under a row lock where the dialect has one.
func (r *IngredientRepository) FindForUpdate(ctx context.Context, id string) (*inventoryEntity.Ingredient, error) {
	var ing inventoryEntity.Ingredient
	if err := repository.ForUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&ing).Error; err != nil {
		return nil, repository.Translate(err, "ingredient", id)
	}
	return &ing, nil
}

// FindByIDs loads many ingredients in one query, keyed by id.
func (r *IngredientRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*inventoryEntity.Ingredient, error) {
	if len(ids) == 0 {
		return map[string]*inventoryEntity.Ingredient{}, nil
	}
	var items []inventoryEntity.Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	result := make(map[string]*inventoryEntity.Ingredient, len(items))
	for i := range items {
		result[items[i].ID] = &items[i]
	}
	return result, nil
}

// FindBySKU returns the ingredient with the SKU in the outlet, or nil when absent.
func (r *IngredientRepository) FindBySKU(ctx context.Context, outletID, sku string) (*inventoryEntity.Ingredient, error) {
	var items []inventoryEntity.Ingredient
	err := r.db.WithContext(ctx).
		Where("outlet_id = ? AND sku = ?", outletID, sku).
		Limit(1).
		Find(&items).Error
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

// FindByName returns the outlet's ingredients named name, ignoring case,
// oldest first.
func (r *IngredientRepository) FindByName(ctx context.Context, outletID, name string) ([]inventoryEntity.Ingredient, error) {
	var items []inventoryEntity.Ingredient
	err := r.db.WithContext(ctx).
		Where("outlet_id = ? AND LOWER(name) = LOWER(?)", outletID, name).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// RecipeUser returns a semi-finished ingredient whose recipe lists
// componentID, or nil when none does.
func (r *IngredientRepository) RecipeUser(ctx context.Context, componentID string) (*inventoryEntity.Ingredient, error) {
	var items []inventoryEntity.Ingredient
	err := r.db.WithContext(ctx).
		Where("type = ? AND id <> ?", inventoryEntity.TypeSemiFinished, componentID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for i := range items {
		for _, l := range items[i].Recipe {
			if l.ComponentID == componentID {
				return &items[i], nil
			}
		}
	}
	return nil, nil
}

func (r *IngredientRepository) Create(ctx context.Context, ing *inventoryEntity.Ingredient) error {
	return r.db.WithContext(ctx).Create(ing).Error
}

// UpdateMeta writes descriptive fields only. Stock and average cost are owned
// by the ledger operations.
func (r *IngredientRepository) UpdateMeta(ctx context.Context, ing *inventoryEntity.Ingredient) error {
	return r.db.WithContext(ctx).Model(ing).
		Select("name", "sku", "category", "unit", "min_stock", "supplier_id", "type", "recipe").
		Updates(ing).Error
}

// AddStock applies an additive delta and returns the resulting stock.
func (r *IngredientRepository) AddStock(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&inventoryEntity.Ingredient{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("ROUND(stock + ?, 6)", delta))
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if res.RowsAffected == 0 {
		return decimal.Zero, repository.Translate(gorm.ErrRecordNotFound, "ingredient", id)
	}
	return r.stockOf(ctx, id)
}

// SetStock overwrites the stock with an absolute value.
func (r *IngredientRepository) SetStock(ctx context.Context, id string, value decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&inventoryEntity.Ingredient{}).
		Where("id = ?", id).
		Update("stock", value).Error
}

func (r *IngredientRepository) SetAvgCost(ctx context.Context, id string, cost decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&inventoryEntity.Ingredient{}).
		Where("id = ?", id).
		Update("avg_cost", cost.Round(6)).Error
}

func (r *IngredientRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&inventoryEntity.Ingredient{}).Error
}

func (r *IngredientRepository) stockOf(ctx context.Context, id string) (decimal.Decimal, error) {
	var stock decimal.Decimal
	row := r.db.WithContext(ctx).Model(&inventoryEntity.Ingredient{}).
		Select("stock").
		Where("id = ?", id).
		Row()
	err := row.Scan(&stock)
	return stock, err
}

// List returns one page of ingredients plus the total match count.
func (r *IngredientRepository) List(ctx context.Context, f Filter) ([]inventoryEntity.Ingredient, int64, error) {
	q := r.db.WithContext(ctx).Model(&inventoryEntity.Ingredient{})
	if len(f.OutletIDs) > 0 {
		q = q.Where("outlet_id IN ?", f.OutletIDs)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.SupplierID != "" {
		q = q.Where("supplier_id = ?", f.SupplierID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)", like, like)
	}
	switch f.Status {
	case inventoryEntity.StatusCritical:
		q = q.Where("stock <= min_stock")
	case inventoryEntity.StatusLow:
		q = q.Where("stock > min_stock AND stock <= min_stock * 1.5")
	case inventoryEntity.StatusSafe:
		q = q.Where("stock > min_stock * 1.5")
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset, limit := repository.Page(f.Page, f.PageSize)
	var items []inventoryEntity.Ingredient
	err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error
	return items, total, err
}

// ListByOutlets returns every ingredient of the outlets, ordered by name.
func (r *IngredientRepository) ListByOutlets(ctx context.Context, outletIDs []string) ([]inventoryEntity.Ingredient, error) {
	q := r.db.WithContext(ctx)
	if len(outletIDs) > 0 {
		q = q.Where("outlet_id IN ?", outletIDs)
	}
	var items []inventoryEntity.Ingredient
	err := q.Order("name ASC").Find(&items).Error
	return items, err
}

// ListCritical returns ingredients whose stock is at or below minStock.
func (r *IngredientRepository) ListCritical(ctx context.Context, outletIDs []string) ([]inventoryEntity.Ingredient, error) {
	q := r.db.WithContext(ctx).Where("stock <= min_stock")
	if len(outletIDs) > 0 {
		q = q.Where("outlet_id IN ?", outletIDs)
	}
	var items []inventoryEntity.Ingredient
	err := q.Order("supplier_id ASC, name ASC").Find(&items).Error
	return items, err
}
