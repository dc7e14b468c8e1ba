package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The record types are the flat-file representation of the resources.
// They map field-for-field to the models and are used for the export
// and for migrating the JSON flat-file store.

type VendorRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type BudgetRecord struct {
	ID           string                     `json:"id"`
	Code         string                     `json:"code"`
	Name         string                     `json:"name"`
	Description  string                     `json:"description"`
	YearlyAmount map[string]decimal.Decimal `json:"yearly_amount"`
}

type LineItemRecord struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Received    bool            `json:"received"`
}

type AllocationRecord struct {
	BudgetID string          `json:"budget_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type PurchaseRecord struct {
	ID            string             `json:"id"`
	OrderNumber   string             `json:"order_number"`
	InvoiceNumber string             `json:"invoice_number"`
	Date          string             `json:"date"`
	VendorID      string             `json:"vendor_id"`
	VendorName    string             `json:"vendor_name"`
	Status        string             `json:"status"`
	Approver      string             `json:"approver"`
	ApprovalDate  string             `json:"approval_date"`
	Notes         string             `json:"notes"`
	LineItems     []LineItemRecord   `json:"line_items"`
	Budgets       []AllocationRecord `json:"budgets"`
}

// RecordSet is a full dump of the store in flat-file format.
type RecordSet struct {
	Vendors   []VendorRecord   `json:"vendors"`
	Budgets   []BudgetRecord   `json:"budgets"`
	Purchases []PurchaseRecord `json:"purchases"`
}

// parseID parses a record ID. An empty ID is returned as uuid.Nil.
func parseID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id '%s': %w", s, err)
	}
	return id, nil
}

func idString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

func (v Vendor) Record() VendorRecord {
	return VendorRecord{
		ID:      idString(v.ID),
		Name:    v.Name,
		Contact: v.Contact,
		Phone:   v.Phone,
		Email:   v.Email,
		Address: v.Address,
	}
}

func (r VendorRecord) Model() (Vendor, error) {
	id, err := parseID(r.ID)
	if err != nil {
		return Vendor{}, err
	}

	return Vendor{
		DefaultModel: DefaultModel{ID: id},
		Name:         r.Name,
		Contact:      r.Contact,
		Phone:        r.Phone,
		Email:        r.Email,
		Address:      r.Address,
	}, nil
}

func (b Budget) Record() BudgetRecord {
	return BudgetRecord{
		ID:           idString(b.ID),
		Code:         b.Code,
		Name:         b.Name,
		Description:  b.Description,
		YearlyAmount: b.YearlyAmount(),
	}
}

func (r BudgetRecord) Model() (Budget, error) {
	id, err := parseID(r.ID)
	if err != nil {
		return Budget{}, err
	}

	b := Budget{
		DefaultModel: DefaultModel{ID: id},
		Code:         r.Code,
		Name:         r.Name,
		Description:  r.Description,
	}
	b.MergeYearlyAmounts(r.YearlyAmount)

	return b, nil
}

func (p Purchase) Record() PurchaseRecord {
	r := PurchaseRecord{
		ID:            idString(p.ID),
		OrderNumber:   p.OrderNumber,
		InvoiceNumber: p.InvoiceNumber,
		Date:          p.Date,
		VendorID:      idString(p.VendorID),
		VendorName:    p.VendorName,
		Status:        string(p.Status),
		Approver:      p.Approver,
		ApprovalDate:  p.ApprovalDate,
		Notes:         p.Notes,
		LineItems:     make([]LineItemRecord, 0, len(p.LineItems)),
		Budgets:       make([]AllocationRecord, 0, len(p.Budgets)),
	}

	for _, item := range p.LineItems {
		r.LineItems = append(r.LineItems, LineItemRecord{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Received:    item.Received,
		})
	}

	for _, b := range p.Budgets {
		r.Budgets = append(r.Budgets, AllocationRecord{
			BudgetID: idString(b.BudgetID),
			Amount:   b.Amount,
		})
	}

	return r
}

func (r PurchaseRecord) Model() (Purchase, error) {
	id, err := parseID(r.ID)
	if err != nil {
		return Purchase{}, err
	}

	vendorID, err := parseID(r.VendorID)
	if err != nil {
		return Purchase{}, err
	}

	status := Status(r.Status)
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return Purchase{}, fmt.Errorf("%w, got '%s'", ErrInvalidStatus, r.Status)
	}

	p := Purchase{
		DefaultModel:  DefaultModel{ID: id},
		OrderNumber:   r.OrderNumber,
		InvoiceNumber: r.InvoiceNumber,
		Date:          r.Date,
		VendorID:      vendorID,
		VendorName:    r.VendorName,
		Status:        status,
		Approver:      r.Approver,
		ApprovalDate:  r.ApprovalDate,
		Notes:         r.Notes,
		LineItems:     make([]LineItem, 0, len(r.LineItems)),
		Budgets:       make([]PurchaseBudget, 0, len(r.Budgets)),
	}

	for i, item := range r.LineItems {
		p.LineItems = append(p.LineItems, LineItem{
			PurchaseID:  id,
			Position:    i,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Received:    item.Received,
		})
	}

	for i, a := range r.Budgets {
		budgetID, err := parseID(a.BudgetID)
		if err != nil {
			return Purchase{}, err
		}

		p.Budgets = append(p.Budgets, PurchaseBudget{
			PurchaseID: id,
			Position:   i,
			BudgetID:   budgetID,
			Amount:     a.Amount,
		})
	}

	return p, nil
}
