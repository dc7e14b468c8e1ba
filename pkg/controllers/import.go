package controllers

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/importer/parser/purchasecsv"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/purchase-zero/backend/pkg/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ImportSummary reports the outcome of a CSV import.
type ImportSummary struct {
	Imported int    `json:"imported" example:"9"` // Purchases created
	Skipped  int    `json:"skipped" example:"0"`  // Rows with an order number that already exists
	Errors   int    `json:"errors" example:"1"`   // Rows that could not be imported
	Message  string `json:"message" example:"Import completed: 9 purchases imported, 0 skipped, 1 errors"`
}

func (s ImportSummary) message() string {
	return fmt.Sprintf("Import completed: %d purchases imported, %d skipped, %d errors", s.Imported, s.Skipped, s.Errors)
}

// importState is the reconciliation state of one import run.
type importState struct {
	vendors      map[string]uuid.UUID // Vendor name → id
	budgets      map[string]uuid.UUID // Budget code → id
	orderNumbers map[string]bool      // Existing and already imported order numbers
}

// ImportCSVFile imports purchases from the CSV file at path.
func (co *PurchaseController) ImportCSVFile(path string) (ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("could not open the import file: %w", err)
	}
	defer f.Close()

	return co.ImportCSV(f)
}

// ImportCSV imports purchases from a CSV file.
//
// Each row creates one Pending purchase with at most one line item and one
// budget allocation. Vendors that do not exist are created. Rows with an
// order number that already exists are skipped. A row that fails is rolled
// back on its own, all other rows are still imported.
//
// An error is only returned if the file cannot be read as a whole.
func (co *PurchaseController) ImportCSV(r io.Reader) (ImportSummary, error) {
	rows, err := purchasecsv.Parse(r)
	if err != nil {
		importRuns.WithLabelValues("false").Inc()
		return ImportSummary{}, err
	}

	var summary ImportSummary
	err = co.store.Transaction(func(tx *store.Store) error {
		state, err := loadImportState(tx)
		if err != nil {
			return err
		}

		// Each row runs in its own savepoint
		for _, row := range rows {
			switch result := co.importRow(tx, state, row); result {
			case importImported:
				summary.Imported++
			case importSkipped:
				summary.Skipped++
			default:
				summary.Errors++
			}
		}

		return nil
	})
	if err != nil {
		importRuns.WithLabelValues("false").Inc()
		return ImportSummary{}, err
	}

	importRows.WithLabelValues(importImported).Add(float64(summary.Imported))
	importRows.WithLabelValues(importSkipped).Add(float64(summary.Skipped))
	importRows.WithLabelValues(importError).Add(float64(summary.Errors))
	importRuns.WithLabelValues("true").Inc()

	summary.Message = summary.message()
	log.Info().Int("imported", summary.Imported).Int("skipped", summary.Skipped).Int("errors", summary.Errors).Msg("purchase import completed")

	return summary, nil
}

func loadImportState(tx *store.Store) (importState, error) {
	vendors, err := tx.Vendors()
	if err != nil {
		return importState{}, err
	}

	budgets, err := tx.Budgets()
	if err != nil {
		return importState{}, err
	}

	orderNumbers, err := tx.OrderNumbers()
	if err != nil {
		return importState{}, err
	}

	state := importState{
		vendors:      make(map[string]uuid.UUID, len(vendors)),
		budgets:      make(map[string]uuid.UUID, len(budgets)),
		orderNumbers: make(map[string]bool, len(orderNumbers)),
	}

	for _, v := range vendors {
		state.vendors[v.Name] = v.ID
	}

	for _, b := range budgets {
		state.budgets[b.Code] = b.ID
	}

	for _, n := range orderNumbers {
		state.orderNumbers[n] = true
	}

	return state, nil
}

// importRow imports a single row and returns its result.
func (co *PurchaseController) importRow(tx *store.Store, state importState, row purchasecsv.Row) string {
	logger := log.With().Int("row", row.Number).Int("line", row.Line).Logger()

	if row.Err != nil {
		logger.Warn().Err(row.Err).Msg("import row could not be read")
		return importError
	}

	if missing := row.Missing(); len(missing) > 0 {
		logger.Warn().Strs("missing", missing).Msg("import row is missing required fields")
		return importError
	}

	if state.orderNumbers[row.OrderNumber] {
		logger.Info().Str("order number", row.OrderNumber).Msg("skipping import row with existing order number")
		return importSkipped
	}

	vendorID, newVendor := state.vendors[row.Vendor], false
	purchase := co.purchaseFromRow(state, row, logger)

	err := tx.Transaction(func(tx *store.Store) error {
		if vendorID == uuid.Nil {
			vendor := models.Vendor{Name: row.Vendor}
			if err := tx.SaveVendor(&vendor); err != nil {
				return err
			}
			vendorID, newVendor = vendor.ID, true
		}

		purchase.VendorID = vendorID
		purchase.VendorName = row.Vendor

		return tx.SavePurchase(&purchase)
	})
	if err != nil {
		logger.Error().Err(err).Str("order number", row.OrderNumber).Msg("import row failed")
		return importError
	}

	if newVendor {
		state.vendors[row.Vendor] = vendorID
		logger.Info().Str("vendor", row.Vendor).Msg("created vendor during import")
	}
	state.orderNumbers[row.OrderNumber] = true

	return importImported
}

// purchaseFromRow builds the purchase for a row. Values that cannot be
// parsed fall back to defaults.
func (co *PurchaseController) purchaseFromRow(state importState, row purchasecsv.Row, logger zerolog.Logger) models.Purchase {
	date, ok := purchasecsv.ParseDate(row.Date)
	if !ok {
		date = co.opts.Now().Format(models.DateFormat)
		logger.Warn().Str("date", row.Date).Str("fallback", date).Msg("could not parse date of import row")
	}

	purchase := models.Purchase{
		OrderNumber:   row.OrderNumber,
		InvoiceNumber: row.InvoiceNumber,
		Date:          date,
		Status:        models.StatusPending,
	}

	if row.HasDescription && row.Description != "" {
		quantity, err := strconv.Atoi(row.Quantity)
		if err != nil || quantity <= 0 {
			quantity = 1
		}

		price, err := decimal.NewFromString(row.UnitPrice)
		if err != nil || price.IsNegative() {
			price = decimal.Zero
		}

		purchase.LineItems = []models.LineItem{{
			Description: row.Description,
			Quantity:    quantity,
			UnitPrice:   price,
		}}
	}

	if row.HasBudgetCode && row.BudgetCode != "" {
		budgetID, known := state.budgets[row.BudgetCode]
		amount, err := decimal.NewFromString(row.Amount)

		switch {
		case !known:
			logger.Warn().Str("budget code", row.BudgetCode).Msg("unknown budget code, no allocation imported")
		case err != nil || !amount.IsPositive():
			logger.Warn().Str("amount", row.Amount).Msg("invalid allocation amount, no allocation imported")
		default:
			purchase.Budgets = []models.PurchaseBudget{{BudgetID: budgetID, Amount: amount}}
		}
	}

	return purchase
}
