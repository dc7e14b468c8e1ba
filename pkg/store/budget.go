package store

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/models"
	"gorm.io/gorm/clause"
)

// Budgets returns all budgets with their yearly amounts, ordered by code.
func (s *Store) Budgets() ([]models.Budget, error) {
	defer s.shared()()

	budgets, err := all[models.Budget](s.db.Order("code"), withYearlyAmounts)
	return budgets, storageError(err, "loading budgets")
}

// Budget returns the budget with the id.
func (s *Store) Budget(id uuid.UUID) (models.Budget, error) {
	defer s.shared()()

	budget, err := byID[models.Budget](s.db, id, withYearlyAmounts)
	return budget, storageError(err, "loading budget")
}

// BudgetCodeTaken reports if a budget other than except has the code.
func (s *Store) BudgetCodeTaken(code string, except uuid.UUID) (bool, error) {
	defer s.shared()()

	taken, err := exists[models.Budget](s.db, "code = ? AND id <> ?", code, except)
	return taken, storageError(err, "checking budget code")
}

// BudgetInUse reports if any allocation references the budget.
func (s *Store) BudgetInUse(id uuid.UUID) (bool, error) {
	defer s.shared()()

	used, err := exists[models.PurchaseBudget](s.db, "budget_id = ?", id)
	return used, storageError(err, "checking budget references")
}

// SaveBudget inserts the budget or updates it if it exists.
// The yearly amounts stored are replaced with the ones of b.
func (s *Store) SaveBudget(b *models.Budget) error {
	return s.unitOfWork(func(tx *Store) error {
		found, err := tx.found(&models.Budget{}, b.ID)
		if err != nil {
			return err
		}

		if found {
			err = tx.db.Omit(clause.Associations).Save(b).Error
			if err != nil {
				return storageError(err, "updating budget")
			}

			err = tx.db.Where("budget_id = ?", b.ID).Delete(&models.YearlyBudgetAmount{}).Error
			if err != nil {
				return storageError(err, "deleting yearly amounts")
			}
		} else {
			err = tx.db.Omit(clause.Associations).Create(b).Error
			if err != nil {
				return storageError(err, "creating budget")
			}
		}

		for i := range b.YearlyAmounts {
			b.YearlyAmounts[i].ID = uuid.Nil
			b.YearlyAmounts[i].BudgetID = b.ID
		}

		if len(b.YearlyAmounts) > 0 {
			err = tx.db.Create(&b.YearlyAmounts).Error
			if err != nil {
				return storageError(err, "creating yearly amounts")
			}
		}

		return nil
	})
}

// DeleteBudget deletes the budget and its yearly amounts. Budgets
// referenced by allocations are not deleted.
func (s *Store) DeleteBudget(id uuid.UUID) error {
	return s.unitOfWork(func(tx *Store) error {
		budget, err := tx.Budget(id)
		if err != nil {
			return err
		}

		used, err := tx.BudgetInUse(id)
		if err != nil {
			return err
		}

		if used {
			return fmt.Errorf("%w '%s'", models.ErrBudgetInUse, budget.Code)
		}

		return storageError(tx.db.Select("YearlyAmounts").Delete(&budget).Error, "deleting budget")
	})
}
