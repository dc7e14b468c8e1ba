package store

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/models"
	"gorm.io/gorm"
)

// Kind identifies an entity kind in the store.
type Kind string

const (
	KindVendor             Kind = "vendor"
	KindBudget             Kind = "budget"
	KindPurchase           Kind = "purchase"
	KindLineItem           Kind = "line item"
	KindPurchaseBudget     Kind = "budget allocation"
	KindYearlyBudgetAmount Kind = "yearly budget amount"
)

// kinds maps every Kind to an instance of its model.
var kinds = map[Kind]any{
	KindVendor:             &models.Vendor{},
	KindBudget:             &models.Budget{},
	KindPurchase:           &models.Purchase{},
	KindLineItem:           &models.LineItem{},
	KindPurchaseBudget:     &models.PurchaseBudget{},
	KindYearlyBudgetAmount: &models.YearlyBudgetAmount{},
}

// Count returns the number of records of a kind.
func (s *Store) Count(kind Kind) (int64, error) {
	defer s.shared()()

	model, ok := kinds[kind]
	if !ok {
		return 0, fmt.Errorf("unknown kind '%s'", kind)
	}

	var count int64
	err := s.db.Model(model).Count(&count).Error
	return count, storageError(err, "counting "+string(kind))
}

// scope modifies a query before it is executed.
type scope func(*gorm.DB) *gorm.DB

func withLineItems(db *gorm.DB) *gorm.DB {
	return db.Preload("LineItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Preload("Budgets", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func withYearlyAmounts(db *gorm.DB) *gorm.DB {
	return db.Preload("YearlyAmounts", func(db *gorm.DB) *gorm.DB {
		return db.Order("year")
	})
}

// all loads all records of type T matching the scopes.
func all[T any](db *gorm.DB, scopes ...scope) ([]T, error) {
	var records []T

	query := db
	for _, s := range scopes {
		query = s(query)
	}

	err := query.Find(&records).Error
	return records, err
}

// byID loads the record of type T with the id.
func byID[T any](db *gorm.DB, id uuid.UUID, scopes ...scope) (T, error) {
	var record T

	query := db
	for _, s := range scopes {
		query = s(query)
	}

	err := query.First(&record, "id = ?", id).Error
	return record, err
}

// exists reports if a record of type T matches the condition.
func exists[T any](db *gorm.DB, query string, args ...any) (bool, error) {
	var count int64
	err := db.Model(new(T)).Where(query, args...).Count(&count).Error
	return count > 0, err
}
