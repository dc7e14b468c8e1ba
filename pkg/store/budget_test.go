package store_test

import (
	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/purchase-zero/backend/pkg/store"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestSaveBudgetYearlyAmounts() {
	b := suite.createBudget("IT-EQUIP", map[string]int64{"2023": 40000, "2024": 50000})

	stored, err := suite.s.Budget(b.ID)
	suite.Require().Nil(err)
	suite.Assert().True(stored.AmountForYear("2023").Equal(decimal.NewFromInt(40000)))
	suite.Assert().True(stored.AmountForYear("2024").Equal(decimal.NewFromInt(50000)))

	stored.SetAmountForYear("2024", decimal.NewFromInt(55000))
	stored.SetAmountForYear("2025", decimal.NewFromInt(60000))
	suite.Require().Nil(suite.s.SaveBudget(&stored))

	stored, err = suite.s.Budget(b.ID)
	suite.Require().Nil(err)
	suite.Assert().Len(stored.YearlyAmounts, 3)
	suite.Assert().True(stored.AmountForYear("2023").Equal(decimal.NewFromInt(40000)))
	suite.Assert().True(stored.AmountForYear("2024").Equal(decimal.NewFromInt(55000)))
	suite.Assert().Equal("2025", stored.YearlyAmounts[2].Year, "Yearly amounts are ordered by year")

	count, err := suite.s.Count(store.KindYearlyBudgetAmount)
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(3), count, "Replaced yearly amounts must not be left behind")
}

func (suite *TestSuiteStandard) TestBudgetCodeUnique() {
	b := suite.createBudget("OFC-SUP", nil)

	dup := models.Budget{Code: "OFC-SUP", Name: "Duplicate"}
	suite.Assert().ErrorIs(suite.s.SaveBudget(&dup), models.ErrBudgetCodeNotUnique)

	taken, err := suite.s.BudgetCodeTaken("OFC-SUP", b.ID)
	suite.Require().Nil(err)
	suite.Assert().False(taken)

	taken, err = suite.s.BudgetCodeTaken("OFC-SUP", uuid.New())
	suite.Require().Nil(err)
	suite.Assert().True(taken)
}

func (suite *TestSuiteStandard) TestDeleteBudget() {
	b := suite.createBudget("TRAVEL", map[string]int64{"2024": 15000})
	suite.Require().Nil(suite.s.DeleteBudget(b.ID))

	_, err := suite.s.Budget(b.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	count, err := suite.s.Count(store.KindYearlyBudgetAmount)
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(0), count)
}

func (suite *TestSuiteStandard) TestDeleteBudgetInUse() {
	b := suite.createBudget("IT-EQUIP", nil)
	v := suite.createVendor("Acme")
	suite.createPurchase("PO-1", "2024-02-01", v, []models.LineItem{lineItem("Laptop", 1, "1000")}, allocation(b.ID, "1000"))

	err := suite.s.DeleteBudget(b.ID)
	suite.Assert().ErrorIs(err, models.ErrBudgetInUse)

	_, err = suite.s.Budget(b.ID)
	suite.Assert().Nil(err)
}
