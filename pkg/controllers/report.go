package controllers

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ReportController computes the aggregates for reports and the dashboard.
type ReportController struct {
	opts Options
	deps ReportDeps
}

// ReportDeps are the controllers the ReportController depends on.
type ReportDeps struct {
	Purchases *PurchaseController
	Budgets   *BudgetController
	Vendors   *VendorController
}

func NewReportController(opts Options, deps ReportDeps) *ReportController {
	return &ReportController{opts: opts.withDefaults(), deps: deps}
}

// MonthlySpending is the total of all purchases in one calendar month.
type MonthlySpending struct {
	Month  time.Month      `json:"month" example:"3"`
	Name   string          `json:"name" example:"March"`
	Amount decimal.Decimal `json:"amount" example:"1234.56"`
}

// VendorSpending aggregates the purchases of one vendor in a year.
type VendorSpending struct {
	VendorID uuid.UUID       `json:"vendorId"`
	Name     string          `json:"name" example:"Office Supplies Co."`
	Total    decimal.Decimal `json:"total" example:"1500"`
	Count    int             `json:"count" example:"3"`
	Average  decimal.Decimal `json:"average" example:"500"` // Total / Count, 0 if Count is 0
}

// Dashboard summarizes the current state of all purchases.
type Dashboard struct {
	// Purchases with line items that are not all received
	PendingReceipts  int             `json:"pendingReceipts" example:"4"`
	YTDSpending      decimal.Decimal `json:"ytdSpending" example:"23456.78"`
	OrdersThisYear   int             `json:"ordersThisYear" example:"42"`
	PendingApprovals int             `json:"pendingApprovals" example:"3"`
}

// BudgetSummary is the usage of all budgets in the fiscal year.
func (co *ReportController) BudgetSummary(year int) ([]BudgetUsage, error) {
	return co.deps.Budgets.UsageForYear(year)
}

// MonthlySpending returns the purchase totals of all 12 months of the year.
// Months without purchases have an amount of 0.
func (co *ReportController) MonthlySpending(year int) ([]MonthlySpending, error) {
	purchases, err := co.deps.Purchases.PurchasesForYear(year)
	if err != nil {
		return nil, err
	}

	months := make([]MonthlySpending, 12)
	for i := range months {
		month := time.Month(i + 1)
		months[i] = MonthlySpending{Month: month, Name: month.String(), Amount: decimal.Zero}
	}

	for _, p := range purchases {
		date, _ := p.ParsedDate()
		i := int(date.Month()) - 1
		months[i].Amount = months[i].Amount.Add(p.Total())
	}

	return months, nil
}

// VendorSpending groups the purchase totals of the year by vendor,
// ordered by total, highest first.
func (co *ReportController) VendorSpending(year int) ([]VendorSpending, error) {
	purchases, err := co.deps.Purchases.PurchasesForYear(year)
	if err != nil {
		return nil, err
	}

	byVendor := make(map[uuid.UUID]*VendorSpending)
	for _, p := range purchases {
		v, ok := byVendor[p.VendorID]
		if !ok {
			v = &VendorSpending{VendorID: p.VendorID, Name: p.VendorName, Total: decimal.Zero}
			byVendor[p.VendorID] = v
		}

		v.Total = v.Total.Add(p.Total())
		v.Count++
	}

	spending := make([]VendorSpending, 0, len(byVendor))
	for _, v := range maps.Values(byVendor) {
		v.Average = decimal.Zero
		if v.Count > 0 {
			v.Average = v.Total.Div(decimal.NewFromInt(int64(v.Count)))
		}
		spending = append(spending, *v)
	}

	slices.SortFunc(spending, func(a, b VendorSpending) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	return spending, nil
}

// Dashboard returns the summary of the current year.
func (co *ReportController) Dashboard() (Dashboard, error) {
	pendingReceipts, err := co.deps.Purchases.CountPendingReceipts()
	if err != nil {
		return Dashboard{}, err
	}

	ytd, err := co.deps.Purchases.YTDSpending()
	if err != nil {
		return Dashboard{}, err
	}

	thisYear, err := co.deps.Purchases.PurchasesForYear(co.opts.Now().Year())
	if err != nil {
		return Dashboard{}, err
	}

	pending, err := co.deps.Purchases.ByApprovalStatus(models.StatusPending)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		PendingReceipts:  pendingReceipts,
		YTDSpending:      ytd,
		OrdersThisYear:   len(thisYear),
		PendingApprovals: len(pending),
	}, nil
}
