package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"backoffice.GO/core/apperr"
	"backoffice.GO/core/scope"
	accountingEntity "backoffice.GO/model/entity/accounting"
	purchaseEntity "backoffice.GO/model/entity/purchase"
	"backoffice.GO/model/repository/uow"
	"backoffice.GO/service/inventory"
)

// step loads the order under lock, checks it is in one of the from states,
// applies fn, appends a history entry and saves. A status change drops the
// order's cached supplier prices once committed.
func (s *Service) step(ctx context.Context, id, action, note string, from []purchaseEntity.Status, fn func(r *uow.Repos, po *purchaseEntity.PurchaseOrder, now time.Time) error) (*purchaseEntity.PurchaseOrder, error) {
	var (
		po     *purchaseEntity.PurchaseOrder
		before purchaseEntity.Status
	)
	err := s.uow.Do(ctx, func(r *uow.Repos) error {
		var err error
		po, err = r.PurchaseOrders.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !scope.From(ctx).Sees(po.OutletID) {
			return apperr.NotFound("purchase_order", id)
		}
		before = po.Status
		if !statusIn(po.Status, from) {
			return apperr.Validation("status", "cannot %s a purchase order that is %s", action, po.Status)
		}
		now := s.now()
		if fn != nil {
			if err := fn(r, po, now); err != nil {
				return err
			}
		}
		po.Append(now, action, actorOf(ctx), note)
		return r.PurchaseOrders.Save(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	if po.Status != before {
		s.forgetPrices(ctx, po)
	}
	s.log.Info("purchase order "+action,
		zap.String("purchase_order_id", po.ID),
		zap.String("status", string(po.Status)),
	)
	return po, nil
}

func statusIn(st purchaseEntity.Status, set []purchaseEntity.Status) bool {
	for _, x := range set {
		if st == x {
			return true
		}
	}
	return false
}

var preReceived = []purchaseEntity.Status{
	purchaseEntity.StatusDraft,
	purchaseEntity.StatusPendingApproval,
	purchaseEntity.StatusOrdered,
	purchaseEntity.StatusProcessed,
	purchaseEntity.StatusShipped,
}

// requireOrderable checks the order can go to the supplier.
func requireOrderable(ctx context.Context, r *uow.Repos, po *purchaseEntity.PurchaseOrder) (*purchaseEntity.Supplier, error) {
	if po.SupplierID == "" {
		return nil, apperr.Validation("supplier_id", "a supplier is required")
	}
	if len(po.Items) == 0 {
		return nil, apperr.Validation("items", "at least one item is required")
	}
	return r.Suppliers.FindByID(ctx, po.SupplierID)
}

// place moves the order to ordered and freezes its line items.
func place(ctx context.Context, r *uow.Repos, po *purchaseEntity.PurchaseOrder, now time.Time) error {
	sup, err := requireOrderable(ctx, r, po)
	if err != nil {
		return err
	}
	po.Status = purchaseEntity.StatusOrdered
	po.OrderDate = &now
	po.TotalEstimated = po.EstimatedTotal()
	if sup.IsNetworkPartner {
		po.DistributorStatus = purchaseEntity.DistributorPending
	}
	return nil
}

// RequestApproval sends a draft for approval.
func (s *Service) RequestApproval(ctx context.Context, id, note string) (*purchaseEntity.PurchaseOrder, error) {
	return s.step(ctx, id, "approval requested", note, []purchaseEntity.Status{purchaseEntity.StatusDraft},
		func(r *uow.Repos, po *purchaseEntity.PurchaseOrder, _ time.Time) error {
			if _, err := requireOrderable(ctx, r, po); err != nil {
				return err
			}
			po.Status = purchaseEntity.StatusPendingApproval
			return nil
		})
}

// Approve places an order that was waiting for approval.
func (s *Service) Approve(ctx context.Context, id, note string) (*purchaseEntity.PurchaseOrder, error) {
	return s.step(ctx, id, "approved", note, []purchaseEntity.Status{purchaseEntity.StatusPendingApproval},
		func(r *uow.Repos, po *purchaseEntity.PurchaseOrder, now time.Time) error {
			return place(ctx, r, po, now)
		})
}

// Submit places a draft or pending order with its supplier.
func (s *Service) Submit(ctx context.Context, id, note string) (*purchaseEntity.PurchaseOrder, error) {
	return s.step(ctx, id, "ordered", note,
		[]purchaseEntity.Status{purchaseEntity.StatusDraft, purchaseEntity.StatusPendingApproval},
		func(r *uow.Repos, po *purchaseEntity.PurchaseOrder, now time.Time) error {
			return place(ctx, r, po, now)
		})
}

// MarkProcessed records that the supplier is preparing the order.
func (s *Service) MarkProcessed(ctx context.Context, id, note string) (*purchaseEntity.PurchaseOrder, error) {
	return s.step(ctx, id, "processed", note, []purchaseEntity.Status{purchaseEntity.StatusOrdered},
		func(_ *uow.Repos, po *purchaseEntity.PurchaseOrder, _ time.Time) error {
			po.Status = purchaseEntity.StatusProcessed
			if po.DistributorStatus != purchaseEntity.DistributorNone {
				po.DistributorStatus = purchaseEntity.DistributorProcessing
			}
			return nil
		})
}

// MarkShipped records that the goods are on their way.
func (s *Service) MarkShipped(ctx context.Context, id, note string) (*purchaseEntity.PurchaseOrder, error) {
	return s.step(ctx, id, "shipped", note,
		[]purchaseEntity.Status{purchaseEntity.StatusOrdered, purchaseEntity.StatusProcessed},
		func(_ *uow.Repos, po *purchaseEntity.PurchaseOrder, _ time.Time) error {
			po.Status = purchaseEntity.StatusShipped
			if po.DistributorStatus != purchaseEntity.DistributorNone {
				po.DistributorStatus = purchaseEntity.DistributorShipped
			}
			return nil
		})
}

// Cancel withdraws an order that has not been received.
func (s *Service) Cancel(ctx context.Context, id, note string) (*purchaseEntity.PurchaseOrder, error) {
	return s.step(ctx, id, "cancelled", note, preReceived,
		func(_ *uow.Repos, po *purchaseEntity.PurchaseOrder, _ time.Time) error {
			po.Status = purchaseEntity.StatusCancelled
			return nil
		})
}

// Reject turns down an order that has not been received.
func (s *Service) Reject(ctx context.Context, id, note string) (*purchaseEntity.PurchaseOrder, error) {
	return s.step(ctx, id, "rejected", note, preReceived,
		func(_ *uow.Repos, po *purchaseEntity.PurchaseOrder, _ time.Time) error {
			po.Status = purchaseEntity.StatusRejected
			return nil
		})
}

// Receive books the delivered goods through the inventory ledger in the
// same transaction as the status change.
func (s *Service) Receive(ctx context.Context, id string, items []inventory.ReceiveItem, pay inventory.PaymentInfo) (*purchaseEntity.PurchaseOrder, error) {
	var po *purchaseEntity.PurchaseOrder
	err := s.uow.Do(ctx, func(r *uow.Repos) error {
		var err error
		po, err = r.PurchaseOrders.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !scope.From(ctx).Sees(po.OutletID) {
			return apperr.NotFound("purchase_order", id)
		}
		return s.ledger.ApplyReceipt(ctx, r, po, items, pay)
	})
	if err != nil {
		return nil, err
	}
	s.ledger.AfterReceipt(ctx, po)
	return po, nil
}

// Repeat copies an order's lines into a new draft.
func (s *Service) Repeat(ctx context.Context, id string) (*purchaseEntity.PurchaseOrder, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	items := make([]purchaseEntity.Item, len(src.Items))
	for i, it := range src.Items {
		items[i] = purchaseEntity.Item{
			IngredientID: it.IngredientID,
			Name:         it.Name,
			Quantity:     it.Quantity,
			Unit:         it.Unit,
			Cost:         it.Cost,
		}
	}
	po := &purchaseEntity.PurchaseOrder{
		ID:            uuid.NewString(),
		OutletID:      src.OutletID,
		SupplierID:    src.SupplierID,
		Items:         items,
		Status:        purchaseEntity.StatusDraft,
		PaymentStatus: purchaseEntity.PaymentUnpaid,
	}
	po.TotalEstimated = po.EstimatedTotal()
	po.Append(s.now(), "created", actorOf(ctx), "repeat of "+src.ID)
	if err := s.uow.Repos().PurchaseOrders.Create(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// PaymentUpdate changes the payment side of a received order. SettleMethod
// says which account pays a tempo debt when Status becomes paid.
type PaymentUpdate struct {
	Status       purchaseEntity.PaymentStatus `json:"status"`
	SettleMethod purchaseEntity.PaymentMethod `json:"settle_method"`
	DueDate      *time.Time                   `json:"due_date,omitempty"`
}

// UpdatePayment edits payment fields after receipt. Paying a tempo order
// settles its payable.
func (s *Service) UpdatePayment(ctx context.Context, id string, u PaymentUpdate) (*purchaseEntity.PurchaseOrder, error) {
	return s.step(ctx, id, "payment updated", "", []purchaseEntity.Status{purchaseEntity.StatusReceived},
		func(r *uow.Repos, po *purchaseEntity.PurchaseOrder, now time.Time) error {
			if u.Status != "" && u.Status != purchaseEntity.PaymentPaid && u.Status != purchaseEntity.PaymentUnpaid {
				return apperr.Validation("status", "unknown payment status %q", u.Status)
			}
			if po.PaymentStatus == purchaseEntity.PaymentPaid && u.Status == purchaseEntity.PaymentUnpaid {
				return apperr.Validation("status", "a paid order cannot be marked unpaid")
			}
			payable, err := r.Accounting.PayableByOrder(ctx, po.ID)
			if err != nil {
				return err
			}
			if u.DueDate != nil && po.PaymentStatus == purchaseEntity.PaymentUnpaid {
				po.DueDate = u.DueDate
				if payable != nil {
					payable.DueDate = u.DueDate
					if err := r.Accounting.SavePayable(ctx, payable); err != nil {
						return err
					}
				}
			}
			if u.Status != purchaseEntity.PaymentPaid || po.PaymentStatus == purchaseEntity.PaymentPaid {
				return nil
			}
			po.PaymentStatus = purchaseEntity.PaymentPaid
			if payable == nil || payable.Status == accountingEntity.PayablePaid {
				return nil
			}
			method := u.SettleMethod
			if method == "" {
				method = purchaseEntity.MethodCash
			}
			if method != purchaseEntity.MethodCash && method != purchaseEntity.MethodTransfer {
				return apperr.Validation("settle_method", "a debt is settled by cash or transfer, not %q", method)
			}
			return settlePayable(ctx, r, payable, inventory.PaymentAccount(method), actorOf(ctx), now)
		})
}

func settlePayable(ctx context.Context, r *uow.Repos, p *accountingEntity.Payable, account, actor string, now time.Time) error {
	desc := "Pelunasan utang PO " + p.PurchaseOrderID
	entry := func(acc string, debit, credit decimal.Decimal) *accountingEntity.LedgerEntry {
		return &accountingEntity.LedgerEntry{
			AccountID:     acc,
			Date:          now,
			Description:   desc,
			Debit:         debit,
			Credit:        credit,
			ReferenceType: accountingEntity.RefPurchaseOrder,
			ReferenceID:   p.PurchaseOrderID,
			Actor:         actor,
		}
	}
	if err := r.Accounting.Post(ctx, entry(accountingEntity.CodeAccountPayable, p.Amount, decimal.Zero), p.Amount.Neg()); err != nil {
		return err
	}
	if err := r.Accounting.Post(ctx, entry(account, decimal.Zero, p.Amount), p.Amount.Neg()); err != nil {
		return err
	}
	p.Status = accountingEntity.PayablePaid
	p.PaidAt = &now
	return r.Accounting.SavePayable(ctx, p)
}
