package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/purchase-zero/backend/pkg/store"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PurchaseController manages purchases, their approval and receiving.
type PurchaseController struct {
	store *store.Store
	opts  Options
}

func NewPurchaseController(s *store.Store, opts Options) *PurchaseController {
	return &PurchaseController{store: s, opts: opts.withDefaults()}
}

// PurchaseData is the editable content of a purchase.
//
// Line items and allocations replace the existing ones. The approval
// fields are only changed when they are set.
type PurchaseData struct {
	OrderNumber   string                  `json:"orderNumber" example:"PO-2024-0001"`
	InvoiceNumber string                  `json:"invoiceNumber" example:"INV-00001"`
	Date          string                  `json:"date" example:"2024-03-15"`
	VendorID      uuid.UUID               `json:"vendorId"`
	Notes         string                  `json:"notes"`
	LineItems     []models.LineItem       `json:"lineItems"`
	Budgets       []models.PurchaseBudget `json:"budgets"`
	Status        *models.Status          `json:"status,omitempty" example:"Pending"`
	Approver      *string                 `json:"approver,omitempty" example:"Manager"`
	ApprovalDate  *string                 `json:"approvalDate,omitempty" example:"2024-03-16"`
}

func (d PurchaseData) apply(p *models.Purchase) {
	p.OrderNumber = strings.TrimSpace(d.OrderNumber)
	p.InvoiceNumber = strings.TrimSpace(d.InvoiceNumber)
	p.Date = strings.TrimSpace(d.Date)
	p.VendorID = d.VendorID
	p.Notes = strings.TrimSpace(d.Notes)

	p.LineItems = make([]models.LineItem, 0, len(d.LineItems))
	for _, item := range d.LineItems {
		p.LineItems = append(p.LineItems, models.LineItem{
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Received:    item.Received,
		})
	}

	p.Budgets = make([]models.PurchaseBudget, 0, len(d.Budgets))
	for _, a := range d.Budgets {
		p.Budgets = append(p.Budgets, models.PurchaseBudget{
			BudgetID: a.BudgetID,
			Amount:   a.Amount,
		})
	}

	if d.Status != nil {
		p.Status = *d.Status
	}

	if d.Approver != nil {
		p.Approver = strings.TrimSpace(*d.Approver)
	}

	if d.ApprovalDate != nil {
		p.ApprovalDate = strings.TrimSpace(*d.ApprovalDate)
	}
}

// All returns all purchases, newest first.
func (co *PurchaseController) All() ([]models.Purchase, error) {
	return co.store.Purchases()
}

// Get returns the purchase with the id.
func (co *PurchaseController) Get(id uuid.UUID) (models.Purchase, error) {
	return co.store.Purchase(id)
}

// Add creates a purchase with its line items and allocations.
// New purchases are Pending unless a status is set.
// If id is uuid.Nil, an id is generated.
func (co *PurchaseController) Add(id uuid.UUID, data PurchaseData) (models.Purchase, error) {
	purchase := models.Purchase{
		DefaultModel: models.DefaultModel{ID: id},
		Status:       models.StatusPending,
	}
	data.apply(&purchase)

	err := co.store.Transaction(func(tx *store.Store) error {
		if id != uuid.Nil {
			if _, err := tx.Purchase(id); err == nil {
				return fmt.Errorf("%w: %s", models.ErrIDNotUnique, id)
			}
		}

		if err := co.validate(tx, &purchase); err != nil {
			return err
		}

		return tx.SavePurchase(&purchase)
	})
	if err != nil {
		return models.Purchase{}, err
	}

	return purchase, nil
}

// Update replaces the purchase's fields, line items and allocations.
func (co *PurchaseController) Update(id uuid.UUID, data PurchaseData) (models.Purchase, error) {
	var purchase models.Purchase

	err := co.store.Transaction(func(tx *store.Store) error {
		var err error
		purchase, err = tx.Purchase(id)
		if err != nil {
			return err
		}

		data.apply(&purchase)

		if err := co.validate(tx, &purchase); err != nil {
			return err
		}

		return tx.SavePurchase(&purchase)
	})
	if err != nil {
		return models.Purchase{}, err
	}

	return purchase, nil
}

// validate checks the purchase against the store and sets the cached vendor name.
func (co *PurchaseController) validate(tx *store.Store, p *models.Purchase) error {
	if err := check(*p); err != nil {
		return err
	}

	if _, ok := p.ParsedDate(); !ok {
		return fmt.Errorf("%w, got '%s'", models.ErrInvalidDate, p.Date)
	}

	taken, err := tx.OrderNumberTaken(p.OrderNumber, p.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: '%s'", models.ErrOrderNumberNotUnique, p.OrderNumber)
	}

	vendor, err := tx.Vendor(p.VendorID)
	if err != nil {
		return err
	}
	p.VendorName = vendor.Name

	for i, item := range p.LineItems {
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w, got %s for line item %d", models.ErrInvalidUnitPrice, item.UnitPrice, i+1)
		}
	}

	for _, a := range p.Budgets {
		if !a.Amount.IsPositive() {
			return fmt.Errorf("%w, got %s", models.ErrInvalidAllocationAmount, a.Amount)
		}

		if _, err := tx.Budget(a.BudgetID); err != nil {
			return err
		}
	}

	if !p.AllocationsMatchTotal() {
		return fmt.Errorf("%w: allocated %s, total %s", models.ErrAllocationMismatch, p.AllocationTotal().StringFixed(2), p.Total().StringFixed(2))
	}

	return nil
}

// Delete deletes the purchase with its line items and allocations.
func (co *PurchaseController) Delete(id uuid.UUID) error {
	return co.store.DeletePurchase(id)
}

// Approve approves a pending purchase. An empty approver is replaced
// with the default approver.
func (co *PurchaseController) Approve(id uuid.UUID, approver string) (models.Purchase, error) {
	return co.decide(id, func(p *models.Purchase, now time.Time) {
		p.Approve(co.approver(approver), now)
	})
}

// Reject rejects a pending purchase and stores the notes.
func (co *PurchaseController) Reject(id uuid.UUID, approver, notes string) (models.Purchase, error) {
	return co.decide(id, func(p *models.Purchase, now time.Time) {
		p.Reject(co.approver(approver), strings.TrimSpace(notes), now)
	})
}

func (co *PurchaseController) approver(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return co.opts.DefaultApprover
	}
	return name
}

// decide applies an approval decision to a pending purchase.
// Purchases that are not pending cannot be decided on again.
func (co *PurchaseController) decide(id uuid.UUID, fn func(*models.Purchase, time.Time)) (models.Purchase, error) {
	var purchase models.Purchase

	err := co.store.Transaction(func(tx *store.Store) error {
		var err error
		purchase, err = tx.Purchase(id)
		if err != nil {
			return err
		}

		if purchase.Status != models.StatusPending {
			return fmt.Errorf("%w %s", models.ErrStatusNotPending, purchase.Status)
		}

		fn(&purchase, co.opts.Now())
		return tx.SavePurchase(&purchase)
	})
	if err != nil {
		return models.Purchase{}, err
	}

	log.Info().Str("order number", purchase.OrderNumber).Str("status", string(purchase.Status)).Str("approver", purchase.Approver).Msg("purchase decided")
	return purchase, nil
}

// ReceiveItems sets the received flag of the line items at the zero-based
// positions. Positions that do not exist are ignored.
func (co *PurchaseController) ReceiveItems(id uuid.UUID, positions []int, received bool) (models.Purchase, error) {
	var purchase models.Purchase

	err := co.store.Transaction(func(tx *store.Store) error {
		var err error
		purchase, err = tx.Purchase(id)
		if err != nil {
			return err
		}

		for _, i := range positions {
			if i < 0 || i >= len(purchase.LineItems) {
				log.Debug().Str("order number", purchase.OrderNumber).Int("position", i).Msg("ignoring line item position out of range")
				continue
			}
			purchase.LineItems[i].Received = received
		}

		return tx.SavePurchase(&purchase)
	})
	if err != nil {
		return models.Purchase{}, err
	}

	return purchase, nil
}

// PurchasesForYear returns the purchases dated in the calendar year.
// Purchases with unparseable dates are excluded.
func (co *PurchaseController) PurchasesForYear(year int) ([]models.Purchase, error) {
	return co.store.PurchasesInYear(year)
}

// ByApprovalStatus returns the purchases with the approval status.
func (co *PurchaseController) ByApprovalStatus(status models.Status) ([]models.Purchase, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w, got '%s'", models.ErrInvalidStatus, status)
	}

	return co.store.PurchasesWithStatus(status)
}

// CountPendingReceipts counts the purchases that have line items
// of which not all are received.
func (co *PurchaseController) CountPendingReceipts() (int, error) {
	purchases, err := co.store.Purchases()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, p := range purchases {
		if len(p.LineItems) > 0 && !p.IsReceived() {
			count++
		}
	}

	return count, nil
}

// YTDSpending is the total of all purchases in the current calendar year.
func (co *PurchaseController) YTDSpending() (decimal.Decimal, error) {
	purchases, err := co.PurchasesForYear(co.opts.Now().Year())
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(p.Total())
	}

	return total, nil
}
