// Package production converts components into semi-finished stock along the
// target's bill of materials.
package production

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
	"backoffice.GO/model/repository/uow"
	"backoffice.GO/service/inventory"
	"backoffice.GO/service/unit"
)

type Service struct {
	uow *uow.UnitOfWork
	log *zap.Logger
	now func() time.Time
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{uow: uow.New(db), log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Requirement is the consumption of one component, in the component's unit.
type Requirement struct {
	ComponentID string          `json:"component_id"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	Required    decimal.Decimal `json:"required"`
	Available   decimal.Decimal `json:"available"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LineCost    decimal.Decimal `json:"line_cost"`
}

func (r Requirement) Sufficient() bool {
	return r.Available.GreaterThanOrEqual(r.Required)
}

// Plan is what a production run would consume and cost.
type Plan struct {
	TargetID     string          `json:"target_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Requirements []Requirement   `json:"requirements"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Feasible     bool            `json:"feasible"`
}

// Result describes a completed run.
type Result struct {
	Plan
	RunID      string          `json:"run_id"`
	NewStock   decimal.Decimal `json:"new_stock"`
	NewAvgCost decimal.Decimal `json:"new_avg_cost"`
}

// PreviewProduction computes the plan without changing anything.
func (s *Service) PreviewProduction(ctx context.Context, targetID string, qty decimal.Decimal) (*Plan, error) {
	if !qty.IsPositive() {
		return nil, apperr.Validation("quantity", "produced quantity must be positive")
	}
	r := s.uow.Repos()
	target, err := r.Ingredients.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return buildPlan(ctx, r, target, qty, false)
}

// Produce consumes the components of qty units of the target and adds the
// units to the target's stock at their rolled-up cost. Nothing changes when
// any component is short.
func (s *Service) Produce(ctx context.Context, targetID string, qty decimal.Decimal) (*Result, error) {
	if !qty.IsPositive() {
		return nil, apperr.Validation("quantity", "produced quantity must be positive")
	}
	actor := scope.From(ctx).ActorOr("system")
	runID := uuid.NewString()
	var res *Result
	err := s.uow.Do(ctx, func(r *uow.Repos) error {
		target, err := r.Ingredients.FindForUpdate(ctx, targetID)
		if err != nil {
			return err
		}
		plan, err := buildPlan(ctx, r, target, qty, true)
		if err != nil {
			return err
		}
		for _, req := range plan.Requirements {
			if !req.Sufficient() {
				return &apperr.InsufficientStockError{
					IngredientID: req.ComponentID,
					Name:         req.Name,
					Required:     req.Required,
					Available:    req.Available,
					Unit:         req.Unit,
				}
			}
		}

		now := s.now()
		for _, req := range plan.Requirements {
			resulting, err := inventory.Apply(ctx, r, inventory.Movement{
				IngredientID: req.ComponentID,
				OutletID:     target.OutletID,
				Type:         inventoryEntity.MovementProduction,
				ReferenceID:  runID,
				Quantity:     req.Required.Neg(),
				Actor:        actor,
				Note:         "bahan untuk " + target.Name,
				At:           now,
			})
			if err != nil {
				return err
			}
			if err := r.Movements.RecordAdjustment(ctx, &inventoryEntity.StockAdjustment{
				IngredientID: req.ComponentID,
				OldStock:     resulting.Add(req.Required),
				NewStock:     resulting,
				Variance:     req.Required.Neg(),
				Reason:       inventoryEntity.ReasonProduksi,
				Note:         runID,
				Actor:        actor,
				CreatedAt:    now,
			}); err != nil {
				return err
			}
		}

		avg := inventory.WeightedAverage(target.Stock, target.AvgCost, qty, plan.UnitCost)
		stock, err := inventory.Apply(ctx, r, inventory.Movement{
			IngredientID: target.ID,
			OutletID:     target.OutletID,
			Type:         inventoryEntity.MovementProduction,
			ReferenceID:  runID,
			Quantity:     qty,
			Actor:        actor,
			Note:         "hasil produksi",
			At:           now,
		})
		if err != nil {
			return err
		}
		if err := r.Ingredients.SetAvgCost(ctx, target.ID, avg); err != nil {
			return err
		}
		res = &Result{Plan: *plan, RunID: runID, NewStock: stock, NewAvgCost: avg.Round(6)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("production completed",
		zap.String("run_id", runID),
		zap.String("target_id", targetID),
		zap.String("quantity", qty.String()),
		zap.String("total_cost", res.TotalCost.String()),
	)
	return res, nil
}

// buildPlan converts every recipe line into the component's unit and prices
// it at the component's average cost. Lines naming the same component are
// summed.
func buildPlan(ctx context.Context, r *uow.Repos, target *inventoryEntity.Ingredient, qty decimal.Decimal, lock bool) (*Plan, error) {
	if !visible(ctx, target) {
		return nil, apperr.NotFound("ingredient", target.ID)
	}
	if target.Type != inventoryEntity.TypeSemiFinished {
		return nil, apperr.Validation("target", "%s is not a semi-finished ingredient", target.Name)
	}
	if len(target.Recipe) == 0 {
		return nil, apperr.Validation("recipe", "%s has no recipe", target.Name)
	}

	plan := &Plan{TargetID: target.ID, Quantity: qty, TotalCost: decimal.Zero, Feasible: true}
	index := make(map[string]int, len(target.Recipe))
	for _, line := range target.Recipe {
		var comp *inventoryEntity.Ingredient
		var err error
		if lock {
			comp, err = r.Ingredients.FindForUpdate(ctx, line.ComponentID)
		} else {
			comp, err = r.Ingredients.FindByID(ctx, line.ComponentID)
		}
		if err != nil {
			return nil, err
		}
		need, err := unit.Convert(line.Quantity.Mul(qty), line.Unit, comp.Unit)
		if err != nil {
			return nil, err
		}
		cost := need.Mul(comp.AvgCost)
		plan.TotalCost = plan.TotalCost.Add(cost)

		if i, ok := index[comp.ID]; ok {
			plan.Requirements[i].Required = plan.Requirements[i].Required.Add(need)
			plan.Requirements[i].LineCost = plan.Requirements[i].LineCost.Add(cost)
			continue
		}
		index[comp.ID] = len(plan.Requirements)
		plan.Requirements = append(plan.Requirements, Requirement{
			ComponentID: comp.ID,
			Name:        comp.Name,
			Unit:        comp.Unit,
			Required:    need,
			Available:   comp.Stock,
			UnitCost:    comp.AvgCost,
			LineCost:    cost,
		})
	}
	for _, req := range plan.Requirements {
		if !req.Sufficient() {
			plan.Feasible = false
		}
	}
	plan.UnitCost = plan.TotalCost.Div(qty)
	return plan, nil
}

func visible(ctx context.Context, ing *inventoryEntity.Ingredient) bool {
	return scope.From(ctx).Sees(ing.OutletID)
}
