package purchase

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	purchaseEntity "backoffice.GO/model/entity/purchase"
	"backoffice.GO/model/repository"
)

// priceScanDepth bounds how many recent orders are searched for a price.
const priceScanDepth = 50

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	OutletIDs  []string
	Status     purchaseEntity.Status
	SupplierID string
	Page       int
	PageSize   int
}

func (r *OrderRepository) Create(ctx context.Context, po *purchaseEntity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

// Save writes every column of the order.
func (r *OrderRepository) Save(ctx context.Context, po *purchaseEntity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*purchaseEntity.PurchaseOrder, error) {
	var po purchaseEntity.PurchaseOrder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		return nil, repository.Translate(err, "purchase_order", id)
	}
	return &po, nil
}

func (r *OrderRepository) FindForUpdate(ctx context.Context, id string) (*purchaseEntity.PurchaseOrder, error) {
	var po purchaseEntity.PurchaseOrder
	if err := repository.ForUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&po).Error; err != nil {
		return nil, repository.Translate(err, "purchase_order", id)
	}
	return &po, nil
}

// List returns a page of orders, newest first, with the total match count.
func (r *OrderRepository) List(ctx context.Context, f ListFilter) ([]purchaseEntity.PurchaseOrder, int64, error) {
	q := r.db.WithContext(ctx).Model(&purchaseEntity.PurchaseOrder{})
	if len(f.OutletIDs) > 0 {
		q = q.Where("outlet_id IN ?", f.OutletIDs)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.SupplierID != "" {
		q = q.Where("supplier_id = ?", f.SupplierID)
	}
	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset, limit := repository.Page(f.Page, f.PageSize)
	var items []purchaseEntity.PurchaseOrder
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	return items, total, err
}

// LastPrice finds the most recent price paid to the supplier for the
// ingredient: the final cost of a received order, else the ordered cost of
// an open order. found is false when the pair was never ordered.
func (r *OrderRepository) LastPrice(ctx context.Context, supplierID, ingredientID string) (price decimal.Decimal, found bool, err error) {
	var received []purchaseEntity.PurchaseOrder
	err = r.db.WithContext(ctx).
		Where("supplier_id = ? AND status = ?", supplierID, purchaseEntity.StatusReceived).
		Order("received_date DESC").
		Limit(priceScanDepth).
		Find(&received).Error
	if err != nil {
		return decimal.Zero, false, err
	}
	for _, po := range received {
		for _, it := range po.Items {
			if it.IngredientID != ingredientID {
				continue
			}
			if it.FinalCost != nil {
				return *it.FinalCost, true, nil
			}
			return it.Cost, true, nil
		}
	}

	var open []purchaseEntity.PurchaseOrder
	err = r.db.WithContext(ctx).
		Where("supplier_id = ? AND status IN ?", supplierID, []purchaseEntity.Status{
			purchaseEntity.StatusOrdered, purchaseEntity.StatusProcessed, purchaseEntity.StatusShipped,
		}).
		Order("order_date DESC").
		Limit(priceScanDepth).
		Find(&open).Error
	if err != nil {
		return decimal.Zero, false, err
	}
	for _, po := range open {
		for _, it := range po.Items {
			if it.IngredientID == ingredientID {
				return it.Cost, true, nil
			}
		}
	}
	return decimal.Zero, false, nil
}
