// Package restock drafts purchase orders for ingredients at or below their
// reorder threshold.
package restock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice.GO/core/scope"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	purchaseEntity "backoffice.GO/model/entity/purchase"
	"backoffice.GO/model/repository/uow"
)

// coverFactor is how many reorder thresholds a restock order aims to hold.
var coverFactor = decimal.NewFromInt(3)

type Planner struct {
	uow             *uow.UnitOfWork
	log             *zap.Logger
	now             func() time.Time
	defaultSupplier string
}

type Option func(*Planner)

func WithLogger(l *zap.Logger) Option {
	return func(p *Planner) { p.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithDefaultSupplier names the supplier used for ingredients without one.
func WithDefaultSupplier(id string) Option {
	return func(p *Planner) { p.defaultSupplier = id }
}

func NewPlanner(db *gorm.DB, opts ...Option) *Planner {
	p := &Planner{
		uow:             uow.New(db),
		log:             zap.NewNop(),
		now:             time.Now,
		defaultSupplier: "general",
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Result lists the drafts one run created.
type Result struct {
	Created int                            `json:"created"`
	Orders  []purchaseEntity.PurchaseOrder `json:"orders"`
}

// TargetQuantity is the amount to order so stock reaches three times the
// threshold, at least one unit, rounded up to a whole unit.
func TargetQuantity(stock, minStock decimal.Decimal) decimal.Decimal {
	need := minStock.Mul(coverFactor).Sub(stock)
	if need.LessThan(decimal.NewFromInt(1)) {
		need = decimal.NewFromInt(1)
	}
	return need.Ceil()
}

type groupKey struct {
	outlet   string
	supplier string
}

// Run scans the outlets in scope and writes one draft order per outlet and
// supplier in a single transaction. An empty scope scans every outlet.
func (p *Planner) Run(ctx context.Context) (*Result, error) {
	outlets := scope.From(ctx).Outlets()
	actor := scope.From(ctx).ActorOr("autorestock")
	res := &Result{}
	err := p.uow.Do(ctx, func(r *uow.Repos) error {
		critical, err := r.Ingredients.ListCritical(ctx, outlets)
		if err != nil {
			return err
		}
		var order []groupKey
		groups := make(map[groupKey][]inventoryEntity.Ingredient)
		for _, ing := range critical {
			k := groupKey{outlet: ing.OutletID, supplier: ing.SupplierID}
			if k.supplier == "" {
				k.supplier = p.defaultSupplier
			}
			if _, ok := groups[k]; !ok {
				order = append(order, k)
			}
			groups[k] = append(groups[k], ing)
		}

		now := p.now()
		for _, k := range order {
			po := draftFor(k, groups[k])
			po.Append(now, "created", actor, "auto restock")
			if err := r.PurchaseOrders.Create(ctx, po); err != nil {
				return err
			}
			res.Orders = append(res.Orders, *po)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Created = len(res.Orders)
	p.log.Info("auto restock finished", zap.Int("orders_created", res.Created), zap.Strings("outlets", outlets))
	return res, nil
}

func draftFor(k groupKey, items []inventoryEntity.Ingredient) *purchaseEntity.PurchaseOrder {
	po := &purchaseEntity.PurchaseOrder{
		ID:            uuid.NewString(),
		OutletID:      k.outlet,
		SupplierID:    k.supplier,
		Status:        purchaseEntity.StatusDraft,
		PaymentStatus: purchaseEntity.PaymentUnpaid,
	}
	for _, ing := range items {
		po.Items = append(po.Items, purchaseEntity.Item{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Quantity:     TargetQuantity(ing.Stock, ing.MinStock),
			Unit:         ing.Unit,
			Cost:         ing.AvgCost,
		})
	}
	po.TotalEstimated = po.EstimatedTotal()
	return po
}
