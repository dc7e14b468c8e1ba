package controllers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/purchase-zero/backend/pkg/store"
	"github.com/shopspring/decimal"
)

// BudgetController manages budgets and computes their usage.
type BudgetController struct {
	store *store.Store
	deps  BudgetDeps
}

// BudgetDeps are the controllers the BudgetController depends on.
type BudgetDeps struct {
	Purchases *PurchaseController
}

func NewBudgetController(s *store.Store, deps BudgetDeps) *BudgetController {
	return &BudgetController{store: s, deps: deps}
}

// BudgetData is the editable content of a budget.
type BudgetData struct {
	Code         string                     `json:"code" example:"IT-EQUIP"`
	Name         string                     `json:"name" example:"IT Equipment"`
	Description  string                     `json:"description" example:"Computers, peripherals, and technology"`
	YearlyAmount map[string]decimal.Decimal `json:"yearlyAmount"` // Amounts per fiscal year. Years not contained are left untouched.
}

// BudgetOption is a budget in a form suitable for pickers.
type BudgetOption struct {
	ID    uuid.UUID `json:"id"`
	Code  string    `json:"code" example:"IT-EQUIP"`
	Name  string    `json:"name" example:"IT Equipment"`
	Label string    `json:"label" example:"IT-EQUIP - IT Equipment"`
}

// BudgetUsage is the usage of a budget in a fiscal year.
type BudgetUsage struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code" example:"IT-EQUIP"`
	Name      string          `json:"name" example:"IT Equipment"`
	Amount    decimal.Decimal `json:"amount" example:"50000"`    // Amount allocated for the year
	Spent     decimal.Decimal `json:"spent" example:"12500"`     // Sum of all allocations of purchases in the year
	Remaining decimal.Decimal `json:"remaining" example:"37500"` // Amount - Spent, negative when overspent
	Percent   decimal.Decimal `json:"percent" example:"25"`      // Spent in percent of Amount, 0 if Amount is 0
}

func (d BudgetData) apply(b *models.Budget) error {
	b.Code = strings.TrimSpace(d.Code)
	b.Name = strings.TrimSpace(d.Name)
	b.Description = strings.TrimSpace(d.Description)

	for year, amount := range d.YearlyAmount {
		if !validYear(year) {
			return fmt.Errorf("%w, got '%s'", models.ErrInvalidYear, year)
		}

		if amount.IsNegative() {
			return fmt.Errorf("%w, got %s for %s", models.ErrNegativeBudgetAmount, amount, year)
		}
	}

	b.MergeYearlyAmounts(d.YearlyAmount)
	return nil
}

func validYear(year string) bool {
	if len(year) != 4 {
		return false
	}

	for _, r := range year {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// All returns all budgets ordered by code.
func (co *BudgetController) All() ([]models.Budget, error) {
	return co.store.Budgets()
}

// Get returns the budget with the id.
func (co *BudgetController) Get(id uuid.UUID) (models.Budget, error) {
	return co.store.Budget(id)
}

// Options returns all budgets for pickers, ordered by code.
func (co *BudgetController) Options() ([]BudgetOption, error) {
	budgets, err := co.store.Budgets()
	if err != nil {
		return nil, err
	}

	options := make([]BudgetOption, 0, len(budgets))
	for _, b := range budgets {
		options = append(options, BudgetOption{
			ID:    b.ID,
			Code:  b.Code,
			Name:  b.Name,
			Label: fmt.Sprintf("%s - %s", b.Code, b.Name),
		})
	}

	return options, nil
}

// Add creates a budget. The code must not be used by another budget.
// If id is uuid.Nil, an id is generated.
func (co *BudgetController) Add(id uuid.UUID, data BudgetData) (models.Budget, error) {
	budget := models.Budget{DefaultModel: models.DefaultModel{ID: id}}
	if err := data.apply(&budget); err != nil {
		return models.Budget{}, err
	}

	if err := check(budget); err != nil {
		return models.Budget{}, err
	}

	err := co.store.Transaction(func(tx *store.Store) error {
		if id != uuid.Nil {
			if _, err := tx.Budget(id); err == nil {
				return fmt.Errorf("%w: %s", models.ErrIDNotUnique, id)
			}
		}

		taken, err := tx.BudgetCodeTaken(budget.Code, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: '%s'", models.ErrBudgetCodeNotUnique, budget.Code)
		}

		return tx.SaveBudget(&budget)
	})
	if err != nil {
		return models.Budget{}, err
	}

	return budget, nil
}

// Update replaces the budget's fields. Yearly amounts are merged: years
// in data are set, all others are kept.
func (co *BudgetController) Update(id uuid.UUID, data BudgetData) (models.Budget, error) {
	var budget models.Budget

	err := co.store.Transaction(func(tx *store.Store) error {
		var err error
		budget, err = tx.Budget(id)
		if err != nil {
			return err
		}

		if err := data.apply(&budget); err != nil {
			return err
		}

		if err := check(budget); err != nil {
			return err
		}

		taken, err := tx.BudgetCodeTaken(budget.Code, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: '%s'", models.ErrBudgetCodeNotUnique, budget.Code)
		}

		return tx.SaveBudget(&budget)
	})
	if err != nil {
		return models.Budget{}, err
	}

	return budget, nil
}

// Delete deletes the budget. Budgets with allocations cannot be deleted.
func (co *BudgetController) Delete(id uuid.UUID) error {
	return co.store.DeleteBudget(id)
}

// UsageForYear computes the usage of every budget in the fiscal year.
func (co *BudgetController) UsageForYear(year int) ([]BudgetUsage, error) {
	budgets, err := co.store.Budgets()
	if err != nil {
		return nil, err
	}

	purchases, err := co.deps.Purchases.PurchasesForYear(year)
	if err != nil {
		return nil, err
	}

	spent := make(map[uuid.UUID]decimal.Decimal, len(budgets))
	for _, p := range purchases {
		for _, a := range p.Budgets {
			spent[a.BudgetID] = spent[a.BudgetID].Add(a.Amount)
		}
	}

	key := strconv.Itoa(year)
	usage := make([]BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		u := BudgetUsage{
			ID:      b.ID,
			Code:    b.Code,
			Name:    b.Name,
			Amount:  b.AmountForYear(key),
			Spent:   spent[b.ID],
			Percent: decimal.Zero,
		}
		u.Remaining = u.Amount.Sub(u.Spent)

		if !u.Amount.IsZero() {
			u.Percent = u.Spent.Div(u.Amount).Mul(decimal.NewFromInt(100))
		}

		usage = append(usage, u)
	}

	return usage, nil
}
