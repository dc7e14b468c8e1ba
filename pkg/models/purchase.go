package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DateFormat is the layout of purchase and approval dates.
const DateFormat = "2006-01-02"

// AllocationTolerance is the largest difference between the sum of the budget
// allocations and the purchase total that is still accepted.
var AllocationTolerance = decimal.NewFromFloat(0.01)

// Status is the approval status of a purchase.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Valid reports if s is a known approval status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ReceivingStatus tracks the physical delivery of the line items of a purchase.
type ReceivingStatus string

const (
	ReceivingPending  ReceivingStatus = "Pending"
	ReceivingPartial  ReceivingStatus = "Partial"
	ReceivingReceived ReceivingStatus = "Received"
)

// Purchase is a purchase order with its line items and budget allocations.
//
// Line items and allocations are owned by the purchase. They are replaced
// as a whole on every save and deleted together with the purchase.
type Purchase struct {
	DefaultModel
	OrderNumber   string    `json:"orderNumber" gorm:"uniqueIndex" validate:"required" example:"PO-2024-0001"`
	InvoiceNumber string    `json:"invoiceNumber" example:"INV-00001"`
	Date          string    `json:"date" gorm:"index" validate:"required" example:"2024-03-15"` // Calendar date, YYYY-MM-DD
	VendorID      uuid.UUID `json:"vendorId" validate:"required" example:"1e777d24-3f5b-4c43-8000-04f65f895578"`
	Vendor        Vendor    `json:"-" gorm:"constraint:OnDelete:RESTRICT" validate:"-"`

	// VendorName caches Vendor.Name for display. Renaming a vendor must
	// update it on every purchase referencing the vendor.
	VendorName string `json:"vendorName" example:"Office Supplies Co."`

	Status       Status           `json:"status" gorm:"index;default:Pending" validate:"omitempty,oneof=Pending Approved Rejected" example:"Pending"`
	Approver     string           `json:"approver" example:"Manager"`
	ApprovalDate string           `json:"approvalDate" example:"2024-03-16"`
	Notes        string           `json:"notes"`
	LineItems    []LineItem       `json:"lineItems" gorm:"constraint:OnDelete:CASCADE" validate:"dive"`
	Budgets      []PurchaseBudget `json:"budgets" gorm:"constraint:OnDelete:CASCADE" validate:"dive"`
}

// LineItem is one ordered article of a purchase.
type LineItem struct {
	DefaultModel
	PurchaseID  uuid.UUID       `json:"-" gorm:"index"`
	Position    int             `json:"-"` // Keeps the order of the line items stable
	Description string          `json:"description" example:"Copy Paper (Case)"`
	Quantity    int             `json:"quantity" validate:"gt=0" example:"2"`
	UnitPrice   decimal.Decimal `json:"unitPrice" gorm:"type:DECIMAL(20,8)" example:"45.99"`
	Received    bool            `json:"received"`
}

// PurchaseBudget allocates part of a purchase total to a budget.
type PurchaseBudget struct {
	DefaultModel
	PurchaseID uuid.UUID       `json:"-" gorm:"index"`
	Position   int             `json:"-"`
	BudgetID   uuid.UUID       `json:"budgetId" gorm:"index" validate:"required"`
	Budget     Budget          `json:"-" gorm:"constraint:OnDelete:RESTRICT" validate:"-"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"91.98"`
}

// BeforeSave
//   - trims whitespace from string fields
//   - defaults the status to Pending
func (p *Purchase) BeforeSave(_ *gorm.DB) error {
	p.OrderNumber = strings.TrimSpace(p.OrderNumber)
	p.InvoiceNumber = strings.TrimSpace(p.InvoiceNumber)
	p.Date = strings.TrimSpace(p.Date)
	p.Notes = strings.TrimSpace(p.Notes)

	if p.Status == "" {
		p.Status = StatusPending
	}

	return nil
}

// BeforeSave trims whitespace from the description.
func (l *LineItem) BeforeSave(_ *gorm.DB) error {
	l.Description = strings.TrimSpace(l.Description)
	return nil
}

// Total is quantity × unit price.
func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total is the sum of all line item totals.
func (p Purchase) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.LineItems {
		total = total.Add(item.Total())
	}
	return total
}

// IsReceived is true when there is at least one line item and all are received.
func (p Purchase) IsReceived() bool {
	if len(p.LineItems) == 0 {
		return false
	}

	for _, item := range p.LineItems {
		if !item.Received {
			return false
		}
	}
	return true
}

// IsPartiallyReceived is true when some, but not all line items are received.
func (p Purchase) IsPartiallyReceived() bool {
	for _, item := range p.LineItems {
		if item.Received {
			return !p.IsReceived()
		}
	}
	return false
}

// ReceivingStatus derives the receiving status from the line items.
func (p Purchase) ReceivingStatus() ReceivingStatus {
	if p.IsReceived() {
		return ReceivingReceived
	}

	if p.IsPartiallyReceived() {
		return ReceivingPartial
	}

	return ReceivingPending
}

// Approve approves a pending purchase. It does nothing for purchases
// that are not pending.
func (p *Purchase) Approve(approver string, on time.Time) {
	if p.Status != StatusPending {
		return
	}

	p.Status = StatusApproved
	p.Approver = approver
	p.ApprovalDate = on.Format(DateFormat)
}

// Reject rejects a pending purchase and stores the notes. It does nothing
// for purchases that are not pending.
func (p *Purchase) Reject(approver, notes string, on time.Time) {
	if p.Status != StatusPending {
		return
	}

	p.Status = StatusRejected
	p.Approver = approver
	p.ApprovalDate = on.Format(DateFormat)
	p.Notes = notes
}

// AllocationTotal is the sum of all budget allocations.
func (p Purchase) AllocationTotal() decimal.Decimal {
	total := decimal.Zero
	for _, b := range p.Budgets {
		total = total.Add(b.Amount)
	}
	return total
}

// AllocationsMatchTotal reports if the allocations sum up to the purchase
// total within AllocationTolerance. A purchase without allocations always matches.
func (p Purchase) AllocationsMatchTotal() bool {
	if len(p.Budgets) == 0 {
		return true
	}

	return p.AllocationTotal().Sub(p.Total()).Abs().LessThanOrEqual(AllocationTolerance)
}

// ParsedDate parses the purchase date. ok is false for dates not in DateFormat.
func (p Purchase) ParsedDate() (date time.Time, ok bool) {
	date, err := time.Parse(DateFormat, p.Date)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// InYear reports if the purchase is dated in the calendar year.
// Purchases with unparseable dates are in no year.
func (p Purchase) InYear(year int) bool {
	date, ok := p.ParsedDate()
	return ok && date.Year() == year
}
