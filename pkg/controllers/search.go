package controllers

import (
	"fmt"
	"strings"

	"github.com/purchase-zero/backend/pkg/models"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// SearchField selects the purchase field a search text is matched against.
type SearchField string

const (
	SearchAll         SearchField = "all"
	SearchOrderNumber SearchField = "orderNumber"
	SearchVendor      SearchField = "vendor"
	SearchDate        SearchField = "date"
	SearchReceiving   SearchField = "receivingStatus"
	SearchStatus      SearchField = "status"
)

// SortField selects the field search results are ordered by.
type SortField string

const (
	SortOrderNumber SortField = "orderNumber"
	SortVendor      SortField = "vendor"
	SortDate        SortField = "date"
	SortTotal       SortField = "total"
	SortStatus      SortField = "status"
)

// PurchaseSearch filters and orders purchases.
//
// Text matches case-insensitively as a substring. For order numbers and
// vendor names, a text containing "*" is matched as a glob pattern against
// the whole value.
type PurchaseSearch struct {
	Text       string                 `form:"search"`
	Field      SearchField            `form:"field"`     // Defaults to SearchAll
	Status     models.Status          `form:"status"`    // Only purchases with this approval status
	Receiving  models.ReceivingStatus `form:"receiving"` // Only purchases with this receiving status
	Year       int                    `form:"year"`      // Only purchases in this year
	Sort       SortField              `form:"sort"`      // Without sort field, newest purchases come first
	Descending bool                   `form:"desc"`
}

// Search returns the purchases matching the search.
func (co *PurchaseController) Search(q PurchaseSearch) ([]models.Purchase, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, fmt.Errorf("%w, got '%s'", models.ErrInvalidStatus, q.Status)
	}

	var purchases []models.Purchase
	var err error
	if q.Year != 0 {
		purchases, err = co.PurchasesForYear(q.Year)
	} else {
		purchases, err = co.store.Purchases()
	}
	if err != nil {
		return nil, err
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	field := q.Field
	if field == "" {
		field = SearchAll
	}

	matches := make([]models.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if q.Status != "" && p.Status != q.Status {
			continue
		}

		if q.Receiving != "" && p.ReceivingStatus() != q.Receiving {
			continue
		}

		if text != "" && !matchPurchase(p, field, text) {
			continue
		}

		matches = append(matches, p)
	}

	sortPurchases(matches, q.Sort, q.Descending)
	return matches, nil
}

func matchPurchase(p models.Purchase, field SearchField, text string) bool {
	pattern := func(value string) bool {
		value = strings.ToLower(value)
		if strings.Contains(text, "*") {
			return glob.Glob(text, value)
		}
		return strings.Contains(value, text)
	}

	contains := func(value string) bool {
		return strings.Contains(strings.ToLower(value), text)
	}

	switch field {
	case SearchOrderNumber:
		return pattern(p.OrderNumber)
	case SearchVendor:
		return pattern(p.VendorName)
	case SearchDate:
		return contains(p.Date)
	case SearchReceiving:
		return contains(string(p.ReceivingStatus()))
	case SearchStatus:
		return contains(string(p.Status))
	}

	return pattern(p.OrderNumber) ||
		pattern(p.VendorName) ||
		contains(p.Date) ||
		contains(string(p.ReceivingStatus()))
}

func sortPurchases(purchases []models.Purchase, field SortField, descending bool) {
	var cmp func(a, b models.Purchase) int

	switch field {
	case SortOrderNumber:
		cmp = func(a, b models.Purchase) int { return strings.Compare(a.OrderNumber, b.OrderNumber) }
	case SortVendor:
		cmp = func(a, b models.Purchase) int { return strings.Compare(a.VendorName, b.VendorName) }
	case SortTotal:
		cmp = func(a, b models.Purchase) int { return a.Total().Cmp(b.Total()) }
	case SortStatus:
		cmp = func(a, b models.Purchase) int { return strings.Compare(string(a.Status), string(b.Status)) }
	case SortDate:
		cmp = func(a, b models.Purchase) int { return strings.Compare(a.Date, b.Date) }
	default:
		// Newest first
		cmp = func(a, b models.Purchase) int { return strings.Compare(a.Date, b.Date) }
		descending = true
	}

	slices.SortStableFunc(purchases, func(a, b models.Purchase) int {
		if descending {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
}
