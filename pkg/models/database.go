package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate migrates all models to the schema defined in the code.
func Migrate(db *gorm.DB) (err error) {
	err = db.AutoMigrate(Vendor{}, Budget{}, YearlyBudgetAmount{}, Purchase{}, LineItem{}, PurchaseBudget{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}
