package payroll

import (
	"context"

	"gorm.io/gorm"

	payrollEntity "backoffice.GO/model/entity/payroll"
	"backoffice.GO/model/repository"
)

type PayrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) *PayrollRepository {
	return &PayrollRepository{db: db}
}

func (r *PayrollRepository) Create(ctx context.Context, p *payrollEntity.Payroll) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PayrollRepository) Save(ctx context.Context, p *payrollEntity.Payroll) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PayrollRepository) FindForUpdate(ctx context.Context, id string) (*payrollEntity.Payroll, error) {
	var p payrollEntity.Payroll
	if err := repository.ForUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, repository.Translate(err, "payroll", id)
	}
	return &p, nil
}
