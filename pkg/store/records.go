package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/rs/zerolog/log"
)

// Files of the flat-file store
const (
	VendorsFile   = "vendors.json"
	BudgetsFile   = "budgets.json"
	PurchasesFile = "purchases.json"
)

// Export returns all records in flat-file format.
func (s *Store) Export() (models.RecordSet, error) {
	set := models.RecordSet{
		Vendors:   []models.VendorRecord{},
		Budgets:   []models.BudgetRecord{},
		Purchases: []models.PurchaseRecord{},
	}

	vendors, err := s.Vendors()
	if err != nil {
		return models.RecordSet{}, err
	}

	budgets, err := s.Budgets()
	if err != nil {
		return models.RecordSet{}, err
	}

	purchases, err := s.Purchases()
	if err != nil {
		return models.RecordSet{}, err
	}

	for _, v := range vendors {
		set.Vendors = append(set.Vendors, v.Record())
	}

	for _, b := range budgets {
		set.Budgets = append(set.Budgets, b.Record())
	}

	for _, p := range purchases {
		set.Purchases = append(set.Purchases, p.Record())
	}

	return set, nil
}

// ImportResult counts the records written by ImportRecords.
type ImportResult struct {
	Vendors   int `json:"vendors"`
	Budgets   int `json:"budgets"`
	Purchases int `json:"purchases"`
	Skipped   int `json:"skipped"`
}

// ImportRecords writes all records in one unit of work, keeping their ids.
//
// Purchases referencing a vendor that is neither in the set nor in the
// store are skipped, as are allocations to unknown budgets.
func (s *Store) ImportRecords(set models.RecordSet) (ImportResult, error) {
	var result ImportResult

	err := s.unitOfWork(func(tx *Store) error {
		vendors := map[uuid.UUID]string{}
		budgets := map[uuid.UUID]bool{}

		for _, r := range set.Vendors {
			vendor, err := r.Model()
			if err != nil {
				return fmt.Errorf("vendor '%s': %w", r.Name, err)
			}

			if err := tx.SaveVendor(&vendor); err != nil {
				return fmt.Errorf("vendor '%s': %w", r.Name, err)
			}
			vendors[vendor.ID] = vendor.Name
			result.Vendors++
		}

		for _, r := range set.Budgets {
			budget, err := r.Model()
			if err != nil {
				return fmt.Errorf("budget '%s': %w", r.Code, err)
			}

			if err := tx.SaveBudget(&budget); err != nil {
				return fmt.Errorf("budget '%s': %w", r.Code, err)
			}
			budgets[budget.ID] = true
			result.Budgets++
		}

		for _, r := range set.Purchases {
			purchase, err := r.Model()
			if err != nil {
				return fmt.Errorf("purchase '%s': %w", r.OrderNumber, err)
			}

			name, ok := vendors[purchase.VendorID]
			if !ok {
				vendor, err := tx.Vendor(purchase.VendorID)
				if err != nil {
					log.Warn().Str("order number", r.OrderNumber).Str("vendor id", r.VendorID).Msg("skipping purchase with unknown vendor")
					result.Skipped++
					continue
				}
				name = vendor.Name
			}
			purchase.VendorName = name

			allocations := purchase.Budgets[:0]
			for _, a := range purchase.Budgets {
				if budgets[a.BudgetID] {
					allocations = append(allocations, a)
					continue
				}

				if _, err := tx.Budget(a.BudgetID); err != nil {
					log.Warn().Str("order number", r.OrderNumber).Str("budget id", a.BudgetID.String()).Msg("skipping allocation to unknown budget")
					continue
				}
				allocations = append(allocations, a)
			}
			purchase.Budgets = allocations

			if err := tx.SavePurchase(&purchase); err != nil {
				return fmt.Errorf("purchase '%s': %w", r.OrderNumber, err)
			}
			result.Purchases++
		}

		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	return result, nil
}

// MigrateLegacy imports the flat-file store in dir if the database does
// not contain any records yet. Missing files are treated as empty.
func (s *Store) MigrateLegacy(dir string) (ImportResult, error) {
	stats := s.Stats()
	if stats.Vendors+stats.Budgets+stats.Purchases > 0 {
		log.Info().Str("dir", dir).Msg("database is not empty, skipping flat-file migration")
		return ImportResult{}, nil
	}

	var set models.RecordSet
	for _, f := range []struct {
		name   string
		target any
	}{
		{VendorsFile, &set.Vendors},
		{BudgetsFile, &set.Budgets},
		{PurchasesFile, &set.Purchases},
	} {
		err := readJSON(filepath.Join(dir, f.name), f.target)
		if err != nil {
			return ImportResult{}, err
		}
	}

	result, err := s.ImportRecords(set)
	if err != nil {
		return ImportResult{}, fmt.Errorf("flat-file migration failed: %w", err)
	}

	log.Info().Str("dir", dir).Int("vendors", result.Vendors).Int("budgets", result.Budgets).Int("purchases", result.Purchases).Int("skipped", result.Skipped).Msg("flat-file store migrated")
	return result, nil
}

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	err = json.Unmarshal(data, target)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	return nil
}
