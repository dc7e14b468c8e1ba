package models

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is a cost center that purchases allocate their totals against.
//
// The amount available for a fiscal year is stored per year in
// YearlyBudgetAmount rows, setting one year never touches the others.
type Budget struct {
	DefaultModel
	Code          string               `json:"code" gorm:"uniqueIndex" validate:"required" example:"IT-EQUIP"` // Unique code of the budget
	Name          string               `json:"name" validate:"required" example:"IT Equipment"`
	Description   string               `json:"description" example:"Computers, peripherals, and technology"`
	YearlyAmounts []YearlyBudgetAmount `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// YearlyBudgetAmount is the amount allocated to a budget for one fiscal year.
type YearlyBudgetAmount struct {
	DefaultModel
	BudgetID uuid.UUID       `json:"budgetId" gorm:"uniqueIndex:yearly_amount_budget_year"`
	Year     string          `json:"year" gorm:"uniqueIndex:yearly_amount_budget_year" example:"2024"`
	Amount   decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"50000"`
}

// BeforeSave trims whitespace from string fields.
func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Code = strings.TrimSpace(b.Code)
	b.Name = strings.TrimSpace(b.Name)
	b.Description = strings.TrimSpace(b.Description)
	return nil
}

// AmountForYear returns the amount allocated for the year, zero if none is set.
func (b Budget) AmountForYear(year string) decimal.Decimal {
	for _, y := range b.YearlyAmounts {
		if y.Year == year {
			return y.Amount
		}
	}
	return decimal.Zero
}

// SetAmountForYear sets the amount for a single year, leaving all other years untouched.
func (b *Budget) SetAmountForYear(year string, amount decimal.Decimal) {
	for i := range b.YearlyAmounts {
		if b.YearlyAmounts[i].Year == year {
			b.YearlyAmounts[i].Amount = amount
			return
		}
	}

	b.YearlyAmounts = append(b.YearlyAmounts, YearlyBudgetAmount{
		BudgetID: b.ID,
		Year:     year,
		Amount:   amount,
	})
}

// MergeYearlyAmounts upserts every year in amounts.
func (b *Budget) MergeYearlyAmounts(amounts map[string]decimal.Decimal) {
	years := make([]string, 0, len(amounts))
	for year := range amounts {
		years = append(years, year)
	}
	sort.Strings(years)

	for _, year := range years {
		b.SetAmountForYear(year, amounts[year])
	}
}

// YearlyAmount collapses the yearly rows into a year → amount mapping.
func (b Budget) YearlyAmount() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(b.YearlyAmounts))
	for _, y := range b.YearlyAmounts {
		m[y.Year] = y.Amount
	}
	return m
}
