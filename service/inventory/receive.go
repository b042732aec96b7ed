package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"backoffice.GO/core/apperr"
	accountingEntity "backoffice.GO/model/entity/accounting"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	purchaseEntity "backoffice.GO/model/entity/purchase"
	"backoffice.GO/model/repository/uow"
	"backoffice.GO/service/unit"
)

// defaultTempoTerm is the due date offset of a tempo purchase without one.
const defaultTempoTerm = 30 * 24 * time.Hour

// ReceiveItem is the count and price confirmed for one ordered ingredient.
type ReceiveItem struct {
	IngredientID      string                     `json:"ingredient_id" validate:"required"`
	ReceivedQuantity  *decimal.Decimal           `json:"received_quantity"`
	FinalCost         *decimal.Decimal           `json:"final_cost"`
	DiscrepancyReason purchaseEntity.Discrepancy `json:"discrepancy_reason,omitempty"`
	ExpiryDate        *time.Time                 `json:"expiry_date,omitempty"`
}

// PaymentInfo says how the received goods are paid. An empty method means cash.
type PaymentInfo struct {
	Method  purchaseEntity.PaymentMethod `json:"method"`
	DueDate *time.Time                   `json:"due_date,omitempty"`
}

// ReceivePurchaseOrderItems books the goods of an open purchase order into
// stock, updates average costs and records the payment or payable.
func (s *Service) ReceivePurchaseOrderItems(ctx context.Context, poID string, items []ReceiveItem, pay PaymentInfo) (*purchaseEntity.PurchaseOrder, error) {
	var po *purchaseEntity.PurchaseOrder
	err := s.uow.Do(ctx, func(r *uow.Repos) error {
		var err error
		po, err = r.PurchaseOrders.FindForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		return s.ApplyReceipt(ctx, r, po, items, pay)
	})
	if err != nil {
		return nil, err
	}
	s.AfterReceipt(ctx, po)
	return po, nil
}

// ApplyReceipt does the work of ReceivePurchaseOrderItems inside the
// caller's transaction and saves the order. Callers must run AfterReceipt
// once the transaction has committed.
func (s *Service) ApplyReceipt(ctx context.Context, r *uow.Repos, po *purchaseEntity.PurchaseOrder, items []ReceiveItem, pay PaymentInfo) error {
	switch po.Status {
	case purchaseEntity.StatusOrdered, purchaseEntity.StatusProcessed, purchaseEntity.StatusShipped:
	default:
		return apperr.Validation("status", "purchase order %s cannot be received while %s", po.ID, po.Status)
	}
	if pay.Method == "" {
		pay.Method = purchaseEntity.MethodCash
	}
	if !pay.Method.Valid() {
		return apperr.Validation("payment_method", "unknown payment method %q", pay.Method)
	}

	receipts, err := matchReceipts(po, items)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(po.Items))
	for _, line := range po.Items {
		ids = append(ids, line.IngredientID)
	}
	ingredients, err := r.Ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	actor := actorOf(ctx)
	now := s.now()
	total := decimal.Zero
	for i := range po.Items {
		line := &po.Items[i]
		rec := receipts[i]
		ing, ok := ingredients[line.IngredientID]
		if !ok {
			return apperr.NotFound("ingredient", line.IngredientID)
		}
		if err := s.receiveLine(ctx, r, ing, line.Unit, *rec.ReceivedQuantity, *rec.FinalCost, po.ID, actor, now); err != nil {
			return err
		}
		line.ReceivedQuantity = rec.ReceivedQuantity
		line.FinalCost = rec.FinalCost
		line.DiscrepancyReason = rec.DiscrepancyReason
		line.ExpiryDate = rec.ExpiryDate
		total = total.Add(rec.ReceivedQuantity.Mul(*rec.FinalCost))
	}

	po.Status = purchaseEntity.StatusReceived
	po.ReceivedBy = actor
	po.ReceivedDate = &now
	po.TotalFinal = total
	po.PaymentMethod = pay.Method
	if po.DistributorStatus != purchaseEntity.DistributorNone {
		po.DistributorStatus = purchaseEntity.DistributorDelivered
	}
	if pay.Method == purchaseEntity.MethodTempo {
		due := now.Add(defaultTempoTerm)
		if pay.DueDate != nil {
			due = *pay.DueDate
		}
		po.DueDate = &due
		po.PaymentStatus = purchaseEntity.PaymentUnpaid
	} else {
		po.DueDate = nil
		po.PaymentStatus = purchaseEntity.PaymentPaid
	}
	po.Append(now, "received", actor, "")

	if err := postReceipt(ctx, r, po, actor, now); err != nil {
		return err
	}
	return r.PurchaseOrders.Save(ctx, po)
}

// AfterReceipt drops cached prices made stale by a received order.
func (s *Service) AfterReceipt(ctx context.Context, po *purchaseEntity.PurchaseOrder) {
	if s.prices != nil {
		for _, line := range po.Items {
			s.prices.Invalidate(ctx, po.SupplierID, line.IngredientID)
		}
	}
	s.log.Info("purchase order received",
		zap.String("purchase_order_id", po.ID),
		zap.String("total_final", po.TotalFinal.String()),
		zap.String("payment_method", string(po.PaymentMethod)),
	)
}

// matchReceipts pairs every order line with its receipt, in line order.
func matchReceipts(po *purchaseEntity.PurchaseOrder, items []ReceiveItem) ([]ReceiveItem, error) {
	byID := make(map[string]ReceiveItem, len(items))
	for _, it := range items {
		if _, dup := byID[it.IngredientID]; dup {
			return nil, apperr.Validation("items", "ingredient %s received twice", it.IngredientID)
		}
		byID[it.IngredientID] = it
	}
	out := make([]ReceiveItem, len(po.Items))
	for i, line := range po.Items {
		rec, ok := byID[line.IngredientID]
		if !ok {
			return nil, apperr.Validation("items", "no receipt for ingredient %s", line.IngredientID)
		}
		delete(byID, line.IngredientID)
		if rec.ReceivedQuantity == nil || rec.FinalCost == nil {
			return nil, apperr.Validation("items", "ingredient %s needs received quantity and final cost", line.IngredientID)
		}
		if rec.ReceivedQuantity.IsNegative() || rec.FinalCost.IsNegative() {
			return nil, apperr.Validation("items", "ingredient %s: quantity and cost cannot be negative", line.IngredientID)
		}
		if !rec.ReceivedQuantity.Equal(line.Quantity) && !rec.DiscrepancyReason.Valid() {
			return nil, apperr.Validation("discrepancy_reason",
				"ingredient %s: received %s of %s ordered needs a reason (bonus, damaged, missing)",
				line.IngredientID, rec.ReceivedQuantity, line.Quantity)
		}
		if rec.ReceivedQuantity.Equal(line.Quantity) {
			rec.DiscrepancyReason = ""
		}
		out[i] = rec
	}
	for id := range byID {
		return nil, apperr.Validation("items", "ingredient %s is not on the order", id)
	}
	return out, nil
}

// receiveLine converts the received lot into the ingredient's unit, adds it
// to stock and folds its cost into the average.
func (s *Service) receiveLine(ctx context.Context, r *uow.Repos, ing *inventoryEntity.Ingredient, lineUnit string, received, finalCost decimal.Decimal, poID, actor string, now time.Time) error {
	if lineUnit == "" {
		lineUnit = ing.Unit
	}
	qty, err := unit.Convert(received, lineUnit, ing.Unit)
	if err != nil {
		return err
	}
	cost := finalCost
	if !qty.IsZero() && !qty.Equal(received) {
		cost = finalCost.Mul(received).Div(qty)
	}

	cur, err := r.Ingredients.FindForUpdate(ctx, ing.ID)
	if err != nil {
		return err
	}
	avg := WeightedAverage(cur.Stock, cur.AvgCost, qty, cost)
	if _, err := Apply(ctx, r, Movement{
		IngredientID: ing.ID,
		OutletID:     ing.OutletID,
		Type:         inventoryEntity.MovementPO,
		ReferenceID:  poID,
		Quantity:     qty,
		Actor:        actor,
		At:           now,
	}); err != nil {
		return err
	}
	return r.Ingredients.SetAvgCost(ctx, ing.ID, avg)
}

// postReceipt records the inventory asset and either the cash/bank outflow
// or a supplier payable.
func postReceipt(ctx context.Context, r *uow.Repos, po *purchaseEntity.PurchaseOrder, actor string, now time.Time) error {
	total := po.TotalFinal
	if total.IsZero() {
		return nil
	}
	desc := "Penerimaan PO " + po.ID
	entry := func(account string, debit, credit decimal.Decimal) *accountingEntity.LedgerEntry {
		return &accountingEntity.LedgerEntry{
			AccountID:     account,
			Date:          now,
			Description:   desc,
			Debit:         debit,
			Credit:        credit,
			ReferenceType: accountingEntity.RefPurchaseOrder,
			ReferenceID:   po.ID,
			Actor:         actor,
		}
	}

	if err := r.Accounting.Post(ctx, entry(accountingEntity.CodeInventory, total, decimal.Zero), total); err != nil {
		return err
	}
	switch po.PaymentMethod {
	case purchaseEntity.MethodTempo:
		if err := r.Accounting.CreatePayable(ctx, &accountingEntity.Payable{
			ID:              uuid.NewString(),
			PurchaseOrderID: po.ID,
			SupplierID:      po.SupplierID,
			Amount:          total,
			DueDate:         po.DueDate,
			Status:          accountingEntity.PayableUnpaid,
			CreatedAt:       now,
		}); err != nil {
			return err
		}
		return r.Accounting.Post(ctx, entry(accountingEntity.CodeAccountPayable, decimal.Zero, total), total)
	default:
		return r.Accounting.Post(ctx, entry(PaymentAccount(po.PaymentMethod), decimal.Zero, total), total.Neg())
	}
}

// PaymentAccount maps a payment method to the asset account it moves.
func PaymentAccount(method purchaseEntity.PaymentMethod) string {
	if method == purchaseEntity.MethodTransfer {
		return accountingEntity.CodeBank
	}
	return accountingEntity.CodeCash
}
