package sales

import (
	"context"

	"gorm.io/gorm"

	salesEntity "backoffice.GO/model/entity/sales"
	"backoffice.GO/model/repository"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *salesEntity.SalesOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*salesEntity.SalesOrder, error) {
	var o salesEntity.SalesOrder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, repository.Translate(err, "sales_order", id)
	}
	return &o, nil
}
