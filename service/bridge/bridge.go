// Package bridge settles sales and payroll against inventory and the
// accounting ledger in one transaction.
package bridge

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice.GO/core/apperr"
	"backoffice.GO/core/scope"
	accountingEntity "backoffice.GO/model/entity/accounting"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	payrollEntity "backoffice.GO/model/entity/payroll"
	purchaseEntity "backoffice.GO/model/entity/purchase"
	salesEntity "backoffice.GO/model/entity/sales"
	"backoffice.GO/model/repository/uow"
	"backoffice.GO/service/inventory"
	"backoffice.GO/service/unit"
)

type Service struct {
	uow           *uow.UnitOfWork
	log           *zap.Logger
	now           func() time.Time
	defaultOutlet string
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithDefaultOutlet(id string) Option {
	return func(s *Service) { s.defaultOutlet = id }
}

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		uow:           uow.New(db),
		log:           zap.NewNop(),
		now:           time.Now,
		defaultOutlet: "central",
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SettleSale stores the order, deducts what it consumed and, when paid,
// books the takings. Stock may go negative; shortfalls are reconciled later.
func (s *Service) SettleSale(ctx context.Context, o *salesEntity.SalesOrder) (*salesEntity.SalesOrder, error) {
	if err := s.prepareSale(ctx, o); err != nil {
		return nil, err
	}
	err := s.uow.Do(ctx, func(r *uow.Repos) error {
		if err := r.Sales.Create(ctx, o); err != nil {
			return err
		}
		d := &deducer{r: r, order: o, cache: map[string]*inventoryEntity.Ingredient{}}
		for i, l := range o.Lines {
			var err error
			switch v := l.(type) {
			case salesEntity.RecipeLine:
				err = d.recipe(ctx, v)
			case salesEntity.StockLine:
				err = d.take(ctx, v.IngredientID, v.Quantity)
			default:
				err = apperr.Validation("lines", "line %d: unsupported line kind %q", i+1, l.Kind())
			}
			if err != nil {
				return err
			}
		}
		if o.PaymentStatus != salesEntity.PaymentPaid || o.Total.IsZero() {
			return nil
		}
		desc := "Penjualan " + o.ID
		for _, acc := range []string{o.PaymentAccountID, o.RevenueAccountID} {
			entry := &accountingEntity.LedgerEntry{
				AccountID:     acc,
				Date:          o.CreatedAt,
				Description:   desc,
				Debit:         decimal.Zero,
				Credit:        o.Total,
				ReferenceType: accountingEntity.RefSale,
				ReferenceID:   o.ID,
				Actor:         o.Actor,
			}
			if err := r.Accounting.Post(ctx, entry, o.Total); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("sale settled",
		zap.String("sales_order_id", o.ID),
		zap.String("total", o.Total.String()),
		zap.String("payment_status", string(o.PaymentStatus)),
	)
	return o, nil
}

func (s *Service) prepareSale(ctx context.Context, o *salesEntity.SalesOrder) error {
	if err := o.ResolveLines(); err != nil {
		return apperr.Validation("lines", "%v", err)
	}
	if len(o.Lines) == 0 {
		return apperr.Validation("lines", "a sale needs at least one line")
	}
	for i, l := range o.Lines {
		var qty decimal.Decimal
		switch v := l.(type) {
		case salesEntity.RecipeLine:
			qty = v.Quantity
		case salesEntity.StockLine:
			qty = v.Quantity
			if v.IngredientID == "" {
				return apperr.Validation("lines", "line %d: ingredient is required", i+1)
			}
		}
		if !qty.IsPositive() {
			return apperr.Validation("lines", "line %d: quantity must be positive", i+1)
		}
	}
	switch o.PaymentStatus {
	case "":
		o.PaymentStatus = salesEntity.PaymentUnpaid
	case salesEntity.PaymentPaid, salesEntity.PaymentUnpaid:
	default:
		return apperr.Validation("payment_status", "unknown payment status %q", o.PaymentStatus)
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.OutletID == "" {
		o.OutletID = scope.From(ctx).OutletID
	}
	if o.OutletID == "" {
		o.OutletID = s.defaultOutlet
	}
	if o.Total.IsZero() {
		o.Total = o.ComputedTotal()
	}
	if o.PaymentStatus == salesEntity.PaymentPaid {
		if o.PaymentAccountID == "" {
			o.PaymentAccountID = accountingEntity.CodeCash
		}
		if o.RevenueAccountID == "" {
			o.RevenueAccountID = accountingEntity.CodeSalesRevenue
		}
	}
	o.Actor = scope.From(ctx).ActorOr("system")
	o.CreatedAt = s.now()
	return nil
}

// deducer writes the Sale movements of one order. Only ingredients of the
// order's outlet can be consumed.
type deducer struct {
	r     *uow.Repos
	order *salesEntity.SalesOrder
	cache map[string]*inventoryEntity.Ingredient
}

func (d *deducer) ingredient(ctx context.Context, id string) (*inventoryEntity.Ingredient, error) {
	if ing, ok := d.cache[id]; ok {
		return ing, nil
	}
	ing, err := d.r.Ingredients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing.OutletID != d.order.OutletID {
		return nil, apperr.NotFound("ingredient", id)
	}
	d.cache[id] = ing
	return ing, nil
}

// recipe consumes every component of the line, converted into the
// component's stock unit and scaled by the quantity sold.
func (d *deducer) recipe(ctx context.Context, l salesEntity.RecipeLine) error {
	for _, c := range l.Recipe {
		ing, err := d.ingredient(ctx, c.ComponentID)
		if err != nil {
			return err
		}
		u := c.Unit
		if u == "" {
			u = ing.Unit
		}
		per, err := unit.Convert(c.Quantity, u, ing.Unit)
		if err != nil {
			return err
		}
		if err := d.take(ctx, ing.ID, per.Mul(l.Quantity)); err != nil {
			return err
		}
	}
	return nil
}

func (d *deducer) take(ctx context.Context, ingredientID string, qty decimal.Decimal) error {
	ing, err := d.ingredient(ctx, ingredientID)
	if err != nil {
		return err
	}
	_, err = inventory.Apply(ctx, d.r, inventory.Movement{
		IngredientID: ing.ID,
		OutletID:     ing.OutletID,
		Type:         inventoryEntity.MovementSale,
		ReferenceID:  d.order.ID,
		Quantity:     qty.Neg(),
		Actor:        d.order.Actor,
		At:           d.order.CreatedAt,
	})
	return err
}

// SettlePayroll pays out a payroll from cash or bank and books the salary
// expense.
func (s *Service) SettlePayroll(ctx context.Context, id string, method purchaseEntity.PaymentMethod) (*payrollEntity.Payroll, error) {
	if method == "" {
		method = purchaseEntity.MethodCash
	}
	if method != purchaseEntity.MethodCash && method != purchaseEntity.MethodTransfer {
		return nil, apperr.Validation("method", "payroll is paid by cash or transfer, not %q", method)
	}
	actor := scope.From(ctx).ActorOr("system")
	var p *payrollEntity.Payroll
	err := s.uow.Do(ctx, func(r *uow.Repos) error {
		var err error
		p, err = r.Payrolls.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.Status == payrollEntity.StatusPaid {
			return apperr.Validation("status", "payroll %s is already paid", p.ID)
		}
		now := s.now()
		desc := "Gaji " + p.EmployeeName + " " + p.Period
		entry := func(acc string, debit, credit decimal.Decimal) *accountingEntity.LedgerEntry {
			return &accountingEntity.LedgerEntry{
				AccountID:     acc,
				Date:          now,
				Description:   desc,
				Debit:         debit,
				Credit:        credit,
				ReferenceType: accountingEntity.RefPayroll,
				ReferenceID:   p.ID,
				Actor:         actor,
			}
		}
		if err := r.Accounting.Post(ctx, entry(inventory.PaymentAccount(method), p.NetSalary, decimal.Zero), p.NetSalary.Neg()); err != nil {
			return err
		}
		if err := r.Accounting.Post(ctx, entry(accountingEntity.CodeSalaryExpense, decimal.Zero, p.NetSalary), p.NetSalary); err != nil {
			return err
		}
		p.Status = payrollEntity.StatusPaid
		p.PaidAt = &now
		p.PaidBy = actor
		p.PaymentMethod = string(method)
		return r.Payrolls.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("payroll settled",
		zap.String("payroll_id", p.ID),
		zap.String("net_salary", p.NetSalary.String()),
		zap.String("method", string(method)),
	)
	return p, nil
}
