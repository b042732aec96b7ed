package transfer

import (
	"context"

	"gorm.io/gorm"

	transferEntity "backoffice.GO/model/entity/transfer"
	"backoffice.GO/model/repository"
)

type TransferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Create(ctx context.Context, t *transferEntity.StockTransfer) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransferRepository) Save(ctx context.Context, t *transferEntity.StockTransfer) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TransferRepository) FindByID(ctx context.Context, id string) (*transferEntity.StockTransfer, error) {
	var t transferEntity.StockTransfer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, repository.Translate(err, "stock_transfer", id)
	}
	return &t, nil
}

func (r *TransferRepository) FindForUpdate(ctx context.Context, id string) (*transferEntity.StockTransfer, error) {
	var t transferEntity.StockTransfer
	if err := repository.ForUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, repository.Translate(err, "stock_transfer", id)
	}
	return &t, nil
}

// ListByOutlet returns transfers where the outlet is source or target, newest first.
func (r *TransferRepository) ListByOutlet(ctx context.Context, outletID string, status transferEntity.Status) ([]transferEntity.StockTransfer, error) {
	q := r.db.WithContext(ctx)
	if outletID != "" {
		q = q.Where("(source_outlet_id = ? OR target_outlet_id = ?)", outletID, outletID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var items []transferEntity.StockTransfer
	err := q.Order("request_date DESC").Find(&items).Error
	return items, err
}
