// Package controllers implements the business rules for vendors, budgets
// and purchases, the CSV import and the reports.
//
// Every operation runs in one unit of work. Validation failures and
// storage failures are returned as errors wrapping the errors defined
// in the models package.
package controllers

import (
	"time"

	"github.com/purchase-zero/backend/pkg/store"
)

// DefaultApprover is used for approvals and rejections without an approver.
const DefaultApprover = "Manager"

// Options configure the controllers.
type Options struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// DefaultApprover is used when no approver is given.
	DefaultApprover string
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}

	if o.DefaultApprover == "" {
		o.DefaultApprover = DefaultApprover
	}

	return o
}

// Controllers holds all controllers, wired with their dependencies.
type Controllers struct {
	Store     *store.Store
	Vendors   *VendorController
	Budgets   *BudgetController
	Purchases *PurchaseController
	Reports   *ReportController

	opts Options
}

// Now returns the current time of the controllers' clock.
func (co *Controllers) Now() time.Time {
	return co.opts.Now()
}

// New creates all controllers for the store.
//
// Controllers that depend on others receive them at construction,
// so every controller is complete once New returns.
func New(s *store.Store, opts Options) *Controllers {
	opts = opts.withDefaults()

	vendors := NewVendorController(s)
	purchases := NewPurchaseController(s, opts)
	budgets := NewBudgetController(s, BudgetDeps{Purchases: purchases})
	reports := NewReportController(opts, ReportDeps{
		Purchases: purchases,
		Budgets:   budgets,
		Vendors:   vendors,
	})

	return &Controllers{
		Store:     s,
		Vendors:   vendors,
		Budgets:   budgets,
		Purchases: purchases,
		Reports:   reports,
		opts:      opts,
	}
}
