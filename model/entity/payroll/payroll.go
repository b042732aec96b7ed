package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Payroll represents the payrolls table: one employee's pay for a period.
type Payroll struct {
	ID            string          `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	EmployeeName  string          `gorm:"column:employee_name;type:varchar(255);not null" json:"employee_name"`
	Period        string          `gorm:"column:period;type:varchar(16);not null;index" json:"period"`
	NetSalary     decimal.Decimal `gorm:"column:net_salary;type:decimal(20,6);not null" json:"net_salary"`
	Status        Status          `gorm:"column:status;type:varchar(16);not null;default:pending" json:"status"`
	PaidAt        *time.Time      `gorm:"column:paid_at" json:"paid_at,omitempty"`
	PaidBy        string          `gorm:"column:paid_by;type:varchar(120)" json:"paid_by,omitempty"`
	PaymentMethod string          `gorm:"column:payment_method;type:varchar(16)" json:"payment_method,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Payroll) TableName() string {
	return "payrolls"
}
