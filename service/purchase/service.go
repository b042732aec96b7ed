// Package purchase runs the purchase order lifecycle from draft to receipt.
package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice.GO/core/apperr"
	"backoffice.GO/core/cache"
	"backoffice.GO/core/scope"
	purchaseEntity "backoffice.GO/model/entity/purchase"
	purchaseRepo "backoffice.GO/model/repository/purchase"
	"backoffice.GO/model/repository/uow"
	"backoffice.GO/service/inventory"
)

type Service struct {
	uow           *uow.UnitOfWork
	ledger        *inventory.Service
	prices        cache.Prices
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

// WithPriceCache shares the last-price cache. It should be the same cache
// given to the inventory ledger so receipts invalidate it.
func WithPriceCache(p cache.Prices) Option {
	return func(s *Service) { s.prices = p }
}

func WithDefaultOutlet(id string) Option {
	return func(s *Service) { s.defaultOutlet = id }
}

// NewService wires the state machine to the inventory ledger that books
// receipts.
func NewService(db *gorm.DB, ledger *inventory.Service, opts ...Option) *Service {
	s := &Service{
		uow:           uow.New(db),
		ledger:        ledger,
		log:           zap.NewNop(),
		now:           time.Now,
		defaultOutlet: "central",
	}
	for _, o := range opts {
		o(s)
	}
	if s.prices == nil {
		s.prices = cache.NewMemoryPrices(10 * time.Minute)
	}
	return s
}

// DraftItem is one requested line of a new order.
type DraftItem struct {
	IngredientID string          `json:"ingredient_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Cost         decimal.Decimal `json:"cost"`
}

// Draft is the input of CreateDraft.
type Draft struct {
	OutletID   string      `json:"outlet_id"`
	SupplierID string      `json:"supplier_id"`
	Items      []DraftItem `json:"items"`
	Note       string      `json:"note"`
}

func actorOf(ctx context.Context) string {
	return scope.From(ctx).ActorOr("system")
}

// CreateDraft stores a new draft order priced at the given costs.
func (s *Service) CreateDraft(ctx context.Context, d Draft) (*purchaseEntity.PurchaseOrder, error) {
	po := &purchaseEntity.PurchaseOrder{
		ID:            uuid.NewString(),
		OutletID:      d.OutletID,
		SupplierID:    d.SupplierID,
		Status:        purchaseEntity.StatusDraft,
		PaymentStatus: purchaseEntity.PaymentUnpaid,
	}
	if po.OutletID == "" {
		po.OutletID = scope.From(ctx).OutletID
	}
	if po.OutletID == "" {
		po.OutletID = s.defaultOutlet
	}
	err := s.uow.Do(ctx, func(r *uow.Repos) error {
		items, err := s.buildItems(ctx, r, d.Items)
		if err != nil {
			return err
		}
		po.Items = items
		po.TotalEstimated = po.EstimatedTotal()
		po.Append(s.now(), "created", actorOf(ctx), d.Note)
		return r.PurchaseOrders.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("purchase order drafted", zap.String("purchase_order_id", po.ID), zap.Int("items", len(po.Items)))
	return po, nil
}

func (s *Service) buildItems(ctx context.Context, r *uow.Repos, in []DraftItem) ([]purchaseEntity.Item, error) {
	ids := make([]string, 0, len(in))
	for _, it := range in {
		ids = append(ids, it.IngredientID)
	}
	ingredients, err := r.Ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]purchaseEntity.Item, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, it := range in {
		if seen[it.IngredientID] {
			return nil, apperr.Validation("items", "line %d: ingredient %s is already on the order", i+1, it.IngredientID)
		}
		seen[it.IngredientID] = true
		if !it.Quantity.IsPositive() {
			return nil, apperr.Validation("items", "line %d: quantity must be positive", i+1)
		}
		if it.Cost.IsNegative() {
			return nil, apperr.Validation("items", "line %d: cost cannot be negative", i+1)
		}
		ing, ok := ingredients[it.IngredientID]
		if !ok {
			return nil, apperr.NotFound("ingredient", it.IngredientID)
		}
		u := it.Unit
		if u == "" {
			u = ing.Unit
		}
		items = append(items, purchaseEntity.Item{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Quantity:     it.Quantity,
			Unit:         u,
			Cost:         it.Cost,
		})
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (*purchaseEntity.PurchaseOrder, error) {
	po, err := s.uow.Repos().PurchaseOrders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.From(ctx).Sees(po.OutletID) {
		return nil, apperr.NotFound("purchase_order", id)
	}
	return po, nil
}

type ListFilter struct {
	Status     purchaseEntity.Status
	SupplierID string
	Page       int
	PageSize   int
}

type ListResult struct {
	Items []purchaseEntity.PurchaseOrder `json:"items"`
	Total int64                          `json:"total"`
}

// List returns the orders of the outlets in scope, newest first.
func (s *Service) List(ctx context.Context, f ListFilter) (*ListResult, error) {
	items, total, err := s.uow.Repos().PurchaseOrders.List(ctx, purchaseRepo.ListFilter{
		OutletIDs:  scope.From(ctx).Outlets(),
		Status:     f.Status,
		SupplierID: f.SupplierID,
		Page:       f.Page,
		PageSize:   f.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Total: total}, nil
}

// GetLastSupplierPrice returns the latest price paid to the supplier for the
// ingredient. found is false when the pair has never been ordered.
func (s *Service) GetLastSupplierPrice(ctx context.Context, supplierID, ingredientID string) (price decimal.Decimal, found bool, err error) {
	if p, ok := s.prices.Get(ctx, supplierID, ingredientID); ok {
		return p, true, nil
	}
	price, found, err = s.uow.Repos().PurchaseOrders.LastPrice(ctx, supplierID, ingredientID)
	if err != nil || !found {
		return price, found, err
	}
	s.prices.Set(ctx, supplierID, ingredientID, price)
	return price, true, nil
}

// forgetPrices drops cached prices for every line of po, whose status change
// may change the last known price.
func (s *Service) forgetPrices(ctx context.Context, po *purchaseEntity.PurchaseOrder) {
	for _, it := range po.Items {
		s.prices.Invalidate(ctx, po.SupplierID, it.IngredientID)
	}
}

func (s *Service) ListSuppliers(ctx context.Context) ([]purchaseEntity.Supplier, error) {
	return s.uow.Repos().Suppliers.List(ctx)
}

// CreateSupplier adds a supplier to the directory.
func (s *Service) CreateSupplier(ctx context.Context, in *purchaseEntity.Supplier) (*purchaseEntity.Supplier, error) {
	sup := *in
	if sup.Name == "" {
		return nil, apperr.Validation("name", "supplier name is required")
	}
	if sup.ID == "" {
		sup.ID = uuid.NewString()
	}
	sup.CreatedAt = s.now()
	if err := s.uow.Repos().Suppliers.Create(ctx, &sup); err != nil {
		return nil, err
	}
	return &sup, nil
}
