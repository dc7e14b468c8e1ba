package store

import (
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/rs/zerolog/log"
)

// Stats are the record counts of the store.
type Stats struct {
	Vendors             int64 `json:"vendors"`
	Budgets             int64 `json:"budgets"`
	Purchases           int64 `json:"purchases"`
	LineItems           int64 `json:"lineItems"`
	BudgetAllocations   int64 `json:"budgetAllocations"`
	YearlyBudgetAmounts int64 `json:"yearlyBudgetAmounts"`
	PendingPurchases    int64 `json:"pendingPurchases"`
	ApprovedPurchases   int64 `json:"approvedPurchases"`
	RejectedPurchases   int64 `json:"rejectedPurchases"`
}

// Stats counts the records per kind and the purchases per approval status.
// If any count fails, all counts are zero.
func (s *Store) Stats() Stats {
	var stats Stats

	counts := []struct {
		kind   Kind
		target *int64
	}{
		{KindVendor, &stats.Vendors},
		{KindBudget, &stats.Budgets},
		{KindPurchase, &stats.Purchases},
		{KindLineItem, &stats.LineItems},
		{KindPurchaseBudget, &stats.BudgetAllocations},
		{KindYearlyBudgetAmount, &stats.YearlyBudgetAmounts},
	}

	for _, c := range counts {
		count, err := s.Count(c.kind)
		if err != nil {
			log.Error().Err(err).Str("kind", string(c.kind)).Msg("could not count records")
			return Stats{}
		}
		*c.target = count
	}

	statuses := []struct {
		status models.Status
		target *int64
	}{
		{models.StatusPending, &stats.PendingPurchases},
		{models.StatusApproved, &stats.ApprovedPurchases},
		{models.StatusRejected, &stats.RejectedPurchases},
	}

	for _, st := range statuses {
		count, err := s.countStatus(st.status)
		if err != nil {
			log.Error().Err(err).Str("status", string(st.status)).Msg("could not count purchases")
			return Stats{}
		}
		*st.target = count
	}

	return stats
}

func (s *Store) countStatus(status models.Status) (int64, error) {
	defer s.shared()()

	var count int64
	err := s.db.Model(&models.Purchase{}).Where(&models.Purchase{Status: status}).Count(&count).Error
	return count, err
}
