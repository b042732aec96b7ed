package purchase

import (
	"context"

	"gorm.io/gorm"

	purchaseEntity "backoffice.GO/model/entity/purchase"
	"backoffice.GO/model/repository"
)

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) FindByID(ctx context.Context, id string) (*purchaseEntity.Supplier, error) {
	var s purchaseEntity.Supplier
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, repository.Translate(err, "supplier", id)
	}
	return &s, nil
}

func (r *SupplierRepository) Create(ctx context.Context, s *purchaseEntity.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SupplierRepository) List(ctx context.Context) ([]purchaseEntity.Supplier, error) {
	var items []purchaseEntity.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}
