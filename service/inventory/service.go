// Package inventory is the stock ledger: ingredient records, stock
// corrections, goods receipt and the per-ingredient movement history.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice.GO/core/apperr"
	"backoffice.GO/core/cache"
	"backoffice.GO/core/scope"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	inventoryRepo "backoffice.GO/model/repository/inventory"
	"backoffice.GO/model/repository/uow"
	"backoffice.GO/service/unit"
)

const systemActor = "system"

type Service struct {
	uow           *uow.UnitOfWork
	prices        cache.Prices
	log           *zap.Logger
	now           func() time.Time
	defaultOutlet string
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithPriceCache sets the supplier price cache invalidated on receipt.
func WithPriceCache(p cache.Prices) Option {
	return func(s *Service) { s.prices = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDefaultOutlet sets the outlet used when neither the record nor the
// request scope names one.
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

func actorOf(ctx context.Context) string {
	return scope.From(ctx).ActorOr(systemActor)
}

func (s *Service) outletOf(ctx context.Context) string {
	if id := scope.From(ctx).OutletID; id != "" {
		return id
	}
	return s.defaultOutlet
}

func scopeOutlets(ctx context.Context) []string {
	return scope.From(ctx).Outlets()
}

func visible(ctx context.Context, ing *inventoryEntity.Ingredient) bool {
	return scope.From(ctx).Sees(ing.OutletID)
}

// ListFilter narrows ListIngredients. OutletIDs defaults to the request scope.
type ListFilter struct {
	OutletIDs  []string
	Category   string
	Status     inventoryEntity.StockStatus
	SupplierID string
	Search     string
	Page       int
	PageSize   int
}

type ListResult struct {
	Items    []inventoryEntity.Ingredient `json:"items"`
	Total    int64                        `json:"total"`
	Page     int                          `json:"page"`
	PageSize int                          `json:"page_size"`
}

func (s *Service) ListIngredients(ctx context.Context, f ListFilter) (*ListResult, error) {
	switch f.Status {
	case "", inventoryEntity.StatusCritical, inventoryEntity.StatusLow, inventoryEntity.StatusSafe:
	default:
		return nil, apperr.Validation("status", "unknown stock status %q", f.Status)
	}
	if f.OutletIDs == nil {
		f.OutletIDs = scope.From(ctx).Outlets()
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	items, total, err := s.uow.Repos().Ingredients.List(ctx, inventoryRepo.Filter{
		OutletIDs:  f.OutletIDs,
		Category:   f.Category,
		Status:     f.Status,
		SupplierID: f.SupplierID,
		Search:     f.Search,
		Page:       f.Page,
		PageSize:   f.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

func (s *Service) GetIngredient(ctx context.Context, id string) (*inventoryEntity.Ingredient, error) {
	ing, err := s.uow.Repos().Ingredients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(ctx, ing) {
		return nil, apperr.NotFound("ingredient", id)
	}
	return ing, nil
}

// CreateIngredient stores a new ingredient. Opening stock and cost may be
// given; later changes go through the ledger operations.
func (s *Service) CreateIngredient(ctx context.Context, in *inventoryEntity.Ingredient) (*inventoryEntity.Ingredient, error) {
	ing := *in
	if ing.ID == "" {
		ing.ID = uuid.NewString()
	}
	if ing.OutletID == "" {
		ing.OutletID = s.outletOf(ctx)
	}
	if ing.Type == "" {
		ing.Type = inventoryEntity.TypeRaw
	}
	if ing.Stock.IsNegative() || ing.AvgCost.IsNegative() {
		return nil, apperr.Validation("stock", "opening stock and cost cannot be negative")
	}
	err := s.uow.Do(ctx, func(r *uow.Repos) error {
		if err := validateIngredient(ctx, r, &ing); err != nil {
			return err
		}
		return r.Ingredients.Create(ctx, &ing)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("ingredient created", zap.String("ingredient_id", ing.ID), zap.String("outlet_id", ing.OutletID))
	return &ing, nil
}

// UpdateIngredient changes descriptive fields. Stock and average cost are
// left untouched.
func (s *Service) UpdateIngredient(ctx context.Context, id string, patch *inventoryEntity.Ingredient) (*inventoryEntity.Ingredient, error) {
	var out *inventoryEntity.Ingredient
	err := s.uow.Do(ctx, func(r *uow.Repos) error {
		ing, err := r.Ingredients.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !visible(ctx, ing) {
			return apperr.NotFound("ingredient", id)
		}
		ing.Name = patch.Name
		ing.SKU = patch.SKU
		ing.Category = patch.Category
		ing.Unit = patch.Unit
		ing.MinStock = patch.MinStock
		ing.SupplierID = patch.SupplierID
		if patch.Type != "" {
			ing.Type = patch.Type
		}
		ing.Recipe = patch.Recipe
		if err := validateIngredient(ctx, r, ing); err != nil {
			return err
		}
		if err := r.Ingredients.UpdateMeta(ctx, ing); err != nil {
			return err
		}
		out = ing
		return nil
	})
	return out, err
}

// DeleteIngredient removes an ingredient that never moved. Once any history
// or recipe references it the ingredient is kept.
func (s *Service) DeleteIngredient(ctx context.Context, id string) error {
	return s.uow.Do(ctx, func(r *uow.Repos) error {
		ing, err := r.Ingredients.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !visible(ctx, ing) {
			return apperr.NotFound("ingredient", id)
		}
		used, err := r.Movements.HasHistory(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return apperr.Validation("id", "ingredient %s has stock history and cannot be deleted", id)
		}
		parent, err := r.Ingredients.RecipeUser(ctx, id)
		if err != nil {
			return err
		}
		if parent != nil {
			return apperr.Validation("id", "ingredient %s is a component of %s and cannot be deleted", id, parent.Name)
		}
		return r.Ingredients.Delete(ctx, id)
	})
}

func validateIngredient(ctx context.Context, r *uow.Repos, ing *inventoryEntity.Ingredient) error {
	ing.Name = strings.TrimSpace(ing.Name)
	if ing.Name == "" {
		return apperr.Validation("name", "name is required")
	}
	canonical, ok := unit.Normalize(ing.Unit)
	if !ok {
		return apperr.Validation("unit", "unknown unit %q", ing.Unit)
	}
	ing.Unit = canonical
	if ing.MinStock.IsNegative() {
		return apperr.Validation("min_stock", "minimum stock cannot be negative")
	}
	switch ing.Type {
	case inventoryEntity.TypeRaw:
		if len(ing.Recipe) > 0 {
			return apperr.Validation("recipe", "raw ingredients cannot have a recipe")
		}
		return nil
	case inventoryEntity.TypeSemiFinished:
	default:
		return apperr.Validation("type", "unknown ingredient type %q", ing.Type)
	}

	ids := make([]string, 0, len(ing.Recipe))
	for _, line := range ing.Recipe {
		ids = append(ids, line.ComponentID)
	}
	components, err := r.Ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i, line := range ing.Recipe {
		if line.ComponentID == ing.ID {
			return apperr.Validation("recipe", "line %d: an ingredient cannot be its own component", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperr.Validation("recipe", "line %d: quantity must be positive", i+1)
		}
		comp, ok := components[line.ComponentID]
		if !ok {
			return apperr.NotFound("ingredient", line.ComponentID)
		}
		if !unit.Compatible(line.Unit, comp.Unit) {
			return apperr.Validation("recipe", "line %d: unit %s does not convert to %s", i+1, line.Unit, comp.Unit)
		}
	}
	return nil
}
