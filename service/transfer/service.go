// Package transfer moves stock between outlets: the target requests, the
// source ships and the target books what arrived.
package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice.GO/core/apperr"
	"backoffice.GO/core/scope"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	transferEntity "backoffice.GO/model/entity/transfer"
	"backoffice.GO/model/repository/uow"
	"backoffice.GO/service/inventory"
	"backoffice.GO/service/unit"
)

type Service struct {
	uow           *uow.UnitOfWork
	log           *zap.Logger
	now           func() time.Time
	centralOutlet string
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCentralOutlet sets the warehouse a request ships from when the
// requester names no source.
func WithCentralOutlet(id string) Option {
	return func(s *Service) { s.centralOutlet = id }
}

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		uow:           uow.New(db),
		log:           zap.NewNop(),
		now:           time.Now,
		centralOutlet: "central",
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func actorOf(ctx context.Context) string {
	return scope.From(ctx).ActorOr("system")
}

func visible(ctx context.Context, t *transferEntity.StockTransfer) bool {
	sc := scope.From(ctx)
	return sc.Sees(t.SourceOutletID) || sc.Sees(t.TargetOutletID)
}

// Line asks for or reports a quantity of one source ingredient.
type Line struct {
	IngredientID string          `json:"ingredient_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// Request is the input of Request. TargetOutletID defaults to the active
// outlet and SourceOutletID to the central warehouse.
type Request struct {
	SourceOutletID string `json:"source_outlet_id"`
	TargetOutletID string `json:"target_outlet_id"`
	Items          []Line `json:"items"`
	Note           string `json:"note"`
}

// Request records a pending transfer of source-outlet ingredients.
func (s *Service) Request(ctx context.Context, in Request) (*transferEntity.StockTransfer, error) {
	t := &transferEntity.StockTransfer{
		ID:             uuid.NewString(),
		SourceOutletID: in.SourceOutletID,
		TargetOutletID: in.TargetOutletID,
		Status:         transferEntity.StatusPending,
		RequestedBy:    actorOf(ctx),
		RequestDate:    s.now(),
		Note:           in.Note,
	}
	if t.SourceOutletID == "" {
		t.SourceOutletID = s.centralOutlet
	}
	if t.TargetOutletID == "" {
		t.TargetOutletID = scope.From(ctx).OutletID
	}
	if t.TargetOutletID == "" {
		return nil, apperr.Validation("target_outlet_id", "a target outlet is required")
	}
	if t.TargetOutletID == t.SourceOutletID {
		return nil, apperr.Validation("target_outlet_id", "source and target outlet must differ")
	}
	if len(in.Items) == 0 {
		return nil, apperr.Validation("items", "at least one item is required")
	}

	err := s.uow.Do(ctx, func(r *uow.Repos) error {
		ids := make([]string, 0, len(in.Items))
		for _, it := range in.Items {
			ids = append(ids, it.IngredientID)
		}
		ingredients, err := r.Ingredients.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(in.Items))
		for i, it := range in.Items {
			if !it.Quantity.IsPositive() {
				return apperr.Validation("items", "line %d: quantity must be positive", i+1)
			}
			if seen[it.IngredientID] {
				return apperr.Validation("items", "ingredient %s requested twice", it.IngredientID)
			}
			seen[it.IngredientID] = true
			ing, ok := ingredients[it.IngredientID]
			if !ok {
				return apperr.NotFound("ingredient", it.IngredientID)
			}
			if ing.OutletID != t.SourceOutletID {
				return apperr.Validation("items", "ingredient %s does not belong to outlet %s", ing.ID, t.SourceOutletID)
			}
			t.Items = append(t.Items, transferEntity.Item{
				IngredientID:      ing.ID,
				Name:              ing.Name,
				SKU:               ing.SKU,
				Unit:              ing.Unit,
				QuantityRequested: it.Quantity,
			})
		}
		return r.Transfers.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("stock transfer requested",
		zap.String("transfer_id", t.ID),
		zap.String("source_outlet_id", t.SourceOutletID),
		zap.String("target_outlet_id", t.TargetOutletID),
	)
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (*transferEntity.StockTransfer, error) {
	t, err := s.uow.Repos().Transfers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(ctx, t) {
		return nil, apperr.NotFound("stock_transfer", id)
	}
	return t, nil
}

// List returns the transfers touching the active outlet, newest first.
func (s *Service) List(ctx context.Context, status transferEntity.Status) ([]transferEntity.StockTransfer, error) {
	return s.uow.Repos().Transfers.ListByOutlet(ctx, scope.From(ctx).OutletID, status)
}

// step loads the transfer under lock, checks its status and saves what fn did.
func (s *Service) step(ctx context.Context, id string, from []transferEntity.Status, fn func(r *uow.Repos, t *transferEntity.StockTransfer, now time.Time) error) (*transferEntity.StockTransfer, error) {
	var t *transferEntity.StockTransfer
	err := s.uow.Do(ctx, func(r *uow.Repos) error {
		var err error
		t, err = r.Transfers.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !visible(ctx, t) {
			return apperr.NotFound("stock_transfer", id)
		}
		ok := false
		for _, st := range from {
			ok = ok || t.Status == st
		}
		if !ok {
			return apperr.Validation("status", "transfer %s is %s", t.ID, t.Status)
		}
		now := s.now()
		if err := fn(r, t, now); err != nil {
			return err
		}
		t.UpdatedAt = now
		return r.Transfers.Save(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("stock transfer updated", zap.String("transfer_id", t.ID), zap.String("status", string(t.Status)))
	return t, nil
}

// quantities indexes reported lines by ingredient and rejects unknown ones.
func quantities(t *transferEntity.StockTransfer, lines []Line) (map[string]decimal.Decimal, error) {
	known := make(map[string]bool, len(t.Items))
	for _, it := range t.Items {
		known[it.IngredientID] = true
	}
	out := make(map[string]decimal.Decimal, len(lines))
	for _, l := range lines {
		if !known[l.IngredientID] {
			return nil, apperr.Validation("items", "ingredient %s is not on the transfer", l.IngredientID)
		}
		if l.Quantity.IsNegative() {
			return nil, apperr.Validation("items", "ingredient %s: quantity cannot be negative", l.IngredientID)
		}
		out[l.IngredientID] = l.Quantity
	}
	return out, nil
}

// Shipment is the input of Ship. Items left out ship the requested quantity.
type Shipment struct {
	Items       []Line `json:"items"`
	DriverName  string `json:"driver_name"`
	DriverPhone string `json:"driver_phone"`
}

// Ship records what left the source. Source stock is not decremented here.
func (s *Service) Ship(ctx context.Context, id string, in Shipment) (*transferEntity.StockTransfer, error) {
	return s.step(ctx, id, []transferEntity.Status{transferEntity.StatusPending},
		func(_ *uow.Repos, t *transferEntity.StockTransfer, now time.Time) error {
			shipped, err := quantities(t, in.Items)
			if err != nil {
				return err
			}
			for i := range t.Items {
				it := &t.Items[i]
				q, ok := shipped[it.IngredientID]
				if !ok {
					q = it.QuantityRequested
				}
				if q.GreaterThan(it.QuantityRequested) {
					return apperr.Validation("items", "ingredient %s: shipped %s exceeds requested %s",
						it.IngredientID, q, it.QuantityRequested)
				}
				it.QuantityShipped = &q
			}
			t.Status = transferEntity.StatusShipped
			t.ShippedBy = actorOf(ctx)
			t.ShipDate = &now
			t.DriverName = in.DriverName
			t.DriverPhone = in.DriverPhone
			return nil
		})
}

// Receive books the arrived quantities into the target outlet's stock.
// Items left out are taken as received in full.
func (s *Service) Receive(ctx context.Context, id string, items []Line) (*transferEntity.StockTransfer, error) {
	return s.step(ctx, id, []transferEntity.Status{transferEntity.StatusShipped},
		func(r *uow.Repos, t *transferEntity.StockTransfer, now time.Time) error {
			received, err := quantities(t, items)
			if err != nil {
				return err
			}
			actor := actorOf(ctx)
			for i := range t.Items {
				it := &t.Items[i]
				shipped := decimal.Zero
				if it.QuantityShipped != nil {
					shipped = *it.QuantityShipped
				}
				q, ok := received[it.IngredientID]
				if !ok {
					q = shipped
				}
				if q.GreaterThan(shipped) {
					return apperr.Validation("items", "ingredient %s: received %s exceeds shipped %s",
						it.IngredientID, q, shipped)
				}
				it.QuantityReceived = &q
				if q.IsZero() {
					continue
				}
				if err := s.bookArrival(ctx, r, t, it, q, actor, now); err != nil {
					return err
				}
			}
			t.Status = transferEntity.StatusReceived
			t.ReceivedBy = actor
			t.ReceiveDate = &now
			return nil
		})
}

// bookArrival adds qty of the item to the matching ingredient of the target
// outlet, creating it from the source ingredient when the outlet lacks it.
func (s *Service) bookArrival(ctx context.Context, r *uow.Repos, t *transferEntity.StockTransfer, it *transferEntity.Item, qty decimal.Decimal, actor string, now time.Time) error {
	target, err := s.targetIngredient(ctx, r, t, it, now)
	if err != nil {
		return err
	}
	converted, err := unit.Convert(qty, it.Unit, target.Unit)
	if err != nil {
		return err
	}
	_, err = inventory.Apply(ctx, r, inventory.Movement{
		IngredientID: target.ID,
		OutletID:     t.TargetOutletID,
		Type:         inventoryEntity.MovementTransferIn,
		ReferenceID:  t.ID,
		Quantity:     converted,
		Actor:        actor,
		At:           now,
	})
	return err
}

// targetIngredient finds the target outlet's counterpart of the item: by SKU,
// or for items without one by name within the same unit family.
func (s *Service) targetIngredient(ctx context.Context, r *uow.Repos, t *transferEntity.StockTransfer, it *transferEntity.Item, now time.Time) (*inventoryEntity.Ingredient, error) {
	if it.SKU != "" {
		found, err := r.Ingredients.FindBySKU(ctx, t.TargetOutletID, it.SKU)
		if err != nil || found != nil {
			return found, err
		}
	} else {
		named, err := r.Ingredients.FindByName(ctx, t.TargetOutletID, it.Name)
		if err != nil {
			return nil, err
		}
		for i := range named {
			if unit.Compatible(named[i].Unit, it.Unit) {
				return &named[i], nil
			}
		}
	}
	src, err := r.Ingredients.FindByID(ctx, it.IngredientID)
	if err != nil {
		return nil, err
	}
	ing := &inventoryEntity.Ingredient{
		ID:         uuid.NewString(),
		OutletID:   t.TargetOutletID,
		Name:       src.Name,
		SKU:        src.SKU,
		Category:   src.Category,
		Unit:       src.Unit,
		MinStock:   src.MinStock,
		AvgCost:    src.AvgCost,
		SupplierID: src.SupplierID,
		Type:       inventoryEntity.TypeRaw,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.Ingredients.Create(ctx, ing); err != nil {
		return nil, err
	}
	s.log.Info("ingredient created for transfer",
		zap.String("ingredient_id", ing.ID),
		zap.String("outlet_id", ing.OutletID),
		zap.String("sku", ing.SKU),
	)
	return ing, nil
}

// Cancel withdraws a transfer that has not been received.
func (s *Service) Cancel(ctx context.Context, id, note string) (*transferEntity.StockTransfer, error) {
	return s.step(ctx, id, []transferEntity.Status{transferEntity.StatusPending, transferEntity.StatusShipped},
		func(_ *uow.Repos, t *transferEntity.StockTransfer, _ time.Time) error {
			t.Status = transferEntity.StatusCancelled
			if note != "" {
				t.Note = note
			}
			return nil
		})
}
