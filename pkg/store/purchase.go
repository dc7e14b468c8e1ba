package store

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/models"
	"gorm.io/gorm/clause"
)

// Purchases returns all purchases with line items and allocations,
// newest first.
func (s *Store) Purchases() ([]models.Purchase, error) {
	defer s.shared()()

	purchases, err := all[models.Purchase](s.db.Order("date DESC, order_number"), withLineItems)
	return purchases, storageError(err, "loading purchases")
}

// Purchase returns the purchase with the id.
func (s *Store) Purchase(id uuid.UUID) (models.Purchase, error) {
	defer s.shared()()

	purchase, err := byID[models.Purchase](s.db, id, withLineItems)
	return purchase, storageError(err, "loading purchase")
}

// PurchasesInYear returns the purchases dated in the calendar year.
// Purchases with dates that do not parse are never returned.
func (s *Store) PurchasesInYear(year int) ([]models.Purchase, error) {
	defer s.shared()()

	candidates, err := all[models.Purchase](s.db.Where("date LIKE ?", fmt.Sprintf("%04d-%%", year)).Order("date, order_number"), withLineItems)
	if err != nil {
		return nil, storageError(err, "loading purchases for year")
	}

	purchases := make([]models.Purchase, 0, len(candidates))
	for _, p := range candidates {
		if p.InYear(year) {
			purchases = append(purchases, p)
		}
	}

	return purchases, nil
}

// PurchasesWithStatus returns the purchases with the approval status.
func (s *Store) PurchasesWithStatus(status models.Status) ([]models.Purchase, error) {
	defer s.shared()()

	purchases, err := all[models.Purchase](s.db.Where(&models.Purchase{Status: status}).Order("date DESC, order_number"), withLineItems)
	return purchases, storageError(err, "loading purchases by status")
}

// OrderNumberTaken reports if a purchase other than except has the order number.
func (s *Store) OrderNumberTaken(orderNumber string, except uuid.UUID) (bool, error) {
	defer s.shared()()

	taken, err := exists[models.Purchase](s.db, "order_number = ? AND id <> ?", orderNumber, except)
	return taken, storageError(err, "checking order number")
}

// OrderNumbers returns all order numbers in use.
func (s *Store) OrderNumbers() ([]string, error) {
	defer s.shared()()

	var numbers []string
	err := s.db.Model(&models.Purchase{}).Pluck("order_number", &numbers).Error
	return numbers, storageError(err, "loading order numbers")
}

// SavePurchase inserts the purchase or updates it if it exists.
//
// The line items and allocations stored are replaced with the ones of p,
// in the order of p.LineItems.
func (s *Store) SavePurchase(p *models.Purchase) error {
	return s.unitOfWork(func(tx *Store) error {
		found, err := tx.found(&models.Purchase{}, p.ID)
		if err != nil {
			return err
		}

		if found {
			err = tx.db.Omit(clause.Associations).Save(p).Error
			if err != nil {
				return storageError(err, "updating purchase")
			}

			err = tx.db.Where("purchase_id = ?", p.ID).Delete(&models.LineItem{}).Error
			if err != nil {
				return storageError(err, "deleting line items")
			}

			err = tx.db.Where("purchase_id = ?", p.ID).Delete(&models.PurchaseBudget{}).Error
			if err != nil {
				return storageError(err, "deleting budget allocations")
			}
		} else {
			err = tx.db.Omit(clause.Associations).Create(p).Error
			if err != nil {
				return storageError(err, "creating purchase")
			}
		}

		for i := range p.LineItems {
			p.LineItems[i].ID = uuid.Nil
			p.LineItems[i].PurchaseID = p.ID
			p.LineItems[i].Position = i
		}

		for i := range p.Budgets {
			p.Budgets[i].ID = uuid.Nil
			p.Budgets[i].PurchaseID = p.ID
			p.Budgets[i].Position = i
		}

		if len(p.LineItems) > 0 {
			err = tx.db.Create(&p.LineItems).Error
			if err != nil {
				return storageError(err, "creating line items")
			}
		}

		if len(p.Budgets) > 0 {
			err = tx.db.Omit(clause.Associations).Create(&p.Budgets).Error
			if err != nil {
				return storageError(err, "creating budget allocations")
			}
		}

		return nil
	})
}

// DeletePurchase deletes the purchase with its line items and allocations.
func (s *Store) DeletePurchase(id uuid.UUID) error {
	return s.unitOfWork(func(tx *Store) error {
		purchase, err := tx.Purchase(id)
		if err != nil {
			return err
		}

		return storageError(tx.db.Select("LineItems", "Budgets").Delete(&purchase).Error, "deleting purchase")
	})
}
