package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/purchase-zero/backend/pkg/controllers/v1"
	"github.com/purchase-zero/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestBudgetsOptions() {
	r := suite.request(http.MethodOptions, "http://example.com/v1/budgets", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, POST", r.Header().Get("allow"))

	budget := suite.createBudget("IT-EQUIP", nil)

	r = suite.request(http.MethodOptions, fmt.Sprintf("http://example.com/v1/budgets/%s", budget.Data.ID), nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))

	for _, path := range []string{"options", "usage"} {
		r = suite.request(http.MethodOptions, fmt.Sprintf("http://example.com/v1/budgets/%s", path), nil)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
		suite.Assert().Equal("OPTIONS, GET", r.Header().Get("allow"), path)
	}
}

func (suite *TestSuiteStandard) TestBudgetsCreate() {
	budget := suite.createBudget("IT-EQUIP", map[string]string{"2024": "50000", "2025": "55000.50"})

	suite.Assert().Equal("IT-EQUIP", budget.Data.Code)
	suite.Assert().Equal("Budget IT-EQUIP", budget.Data.Name)
	suite.Require().Len(budget.Data.YearlyAmount, 2)
	suite.Assert().True(budget.Data.YearlyAmount["2024"].Equal(decimal.NewFromInt(50000)))
	suite.Assert().True(budget.Data.YearlyAmount["2025"].Equal(decimal.RequireFromString("55000.50")))
}

func (suite *TestSuiteStandard) TestBudgetsCreateFails() {
	suite.createBudget("TAKEN", nil)

	tests := []struct {
		name string
		body map[string]any
		err  string
	}{
		{"No code", map[string]any{"name": "No code"}, "the budget code must be set"},
		{"No name", map[string]any{"code": "NO-NAME"}, "the budget name must be set"},
		{"Duplicate code", map[string]any{"code": "TAKEN", "name": "Again"}, "a budget with this code already exists"},
		{"Invalid year", map[string]any{"code": "YEAR", "name": "Year", "yearlyAmount": map[string]string{"24": "100"}}, "the fiscal year must be a four digit year"},
		{"Negative amount", map[string]any{"code": "NEG", "name": "Negative", "yearlyAmount": map[string]string{"2024": "-1"}}, "yearly budget amounts must not be negative"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(http.MethodPost, "http://example.com/v1/budgets", tt.body)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
			suite.Assert().Contains(test.DecodeError(suite.T(), r.Body.Bytes()), tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetsUpdateMergesYears() {
	budget := suite.createBudget("IT-EQUIP", map[string]string{"2023": "40000", "2024": "50000"})

	r := suite.request(http.MethodPatch, fmt.Sprintf("http://example.com/v1/budgets/%s", budget.Data.ID), map[string]any{
		"code":         "IT-EQUIP",
		"name":         "IT Equipment",
		"yearlyAmount": map[string]string{"2024": "60000", "2025": "70000"},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal("IT Equipment", updated.Data.Name)
	suite.Require().Len(updated.Data.YearlyAmount, 3)
	suite.Assert().True(updated.Data.YearlyAmount["2023"].Equal(decimal.NewFromInt(40000)), "Years not in the update must be kept")
	suite.Assert().True(updated.Data.YearlyAmount["2024"].Equal(decimal.NewFromInt(60000)))
	suite.Assert().True(updated.Data.YearlyAmount["2025"].Equal(decimal.NewFromInt(70000)))

	r = suite.request(http.MethodGet, fmt.Sprintf("http://example.com/v1/budgets/%s", budget.Data.ID), nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var fetched v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &fetched)
	suite.Assert().Len(fetched.Data.YearlyAmount, 3)
}

func (suite *TestSuiteStandard) TestBudgetsListAndOptions() {
	suite.createBudget("OFC-SUP", nil)
	suite.createBudget("IT-EQUIP", nil)

	r := suite.request(http.MethodGet, "http://example.com/v1/budgets", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.BudgetListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Require().Len(list.Data, 2)
	suite.Assert().Equal("IT-EQUIP", list.Data[0].Code, "Budgets must be ordered by code")

	r = suite.request(http.MethodGet, "http://example.com/v1/budgets/options", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var options v1.BudgetOptionsResponse
	test.DecodeResponse(suite.T(), &r, &options)
	suite.Require().Len(options.Data, 2)
	suite.Assert().Equal("IT-EQUIP - Budget IT-EQUIP", options.Data[0].Label)
}

func (suite *TestSuiteStandard) TestBudgetsUsage() {
	vendor := suite.createVendor("Tech Solutions Inc.")
	budget := suite.createBudget("IT-EQUIP", map[string]string{"2024": "1000", "2023": "500"})
	suite.createPurchase("PO-1", "2024-03-15", vendor.Data.ID.String(), 2, "125", budget.Data.ID.String())
	suite.createPurchase("PO-2", "2023-11-02", vendor.Data.ID.String(), 1, "100", budget.Data.ID.String())

	r := suite.request(http.MethodGet, "http://example.com/v1/budgets/usage", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var usage v1.BudgetUsageResponse
	test.DecodeResponse(suite.T(), &r, &usage)
	suite.Assert().Equal(2024, usage.Year, "The year must default to the current year")
	suite.Require().Len(usage.Data, 1)
	suite.Assert().True(usage.Data[0].Spent.Equal(decimal.NewFromInt(250)))
	suite.Assert().True(usage.Data[0].Remaining.Equal(decimal.NewFromInt(750)))
	suite.Assert().True(usage.Data[0].Percent.Equal(decimal.NewFromInt(25)))

	r = suite.request(http.MethodGet, "http://example.com/v1/budgets/usage?year=2023", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &usage)
	suite.Assert().Equal(2023, usage.Year)
	suite.Assert().True(usage.Data[0].Spent.Equal(decimal.NewFromInt(100)))

	r = suite.request(http.MethodGet, "http://example.com/v1/budgets/usage?year=99", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = suite.request(http.MethodGet, "http://example.com/v1/budgets/usage?year=twenty", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestBudgetsDelete() {
	vendor := suite.createVendor("Tech Solutions Inc.")
	used := suite.createBudget("USED", nil)
	unused := suite.createBudget("UNUSED", nil)
	suite.createPurchase("PO-1", "2024-03-15", vendor.Data.ID.String(), 1, "10", used.Data.ID.String())

	r := suite.request(http.MethodDelete, fmt.Sprintf("http://example.com/v1/budgets/%s", used.Data.ID), nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Contains(test.DecodeError(suite.T(), r.Body.Bytes()), "cannot delete budget")

	r = suite.request(http.MethodDelete, fmt.Sprintf("http://example.com/v1/budgets/%s", unused.Data.ID), nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(http.MethodGet, fmt.Sprintf("http://example.com/v1/budgets/%s", unused.Data.ID), nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
	suite.Assert().Equal("budget not found", test.DecodeError(suite.T(), r.Body.Bytes()))
}
