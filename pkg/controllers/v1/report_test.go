package v1_test

import (
	"net/http"
	"strings"
	"time"

	v1 "github.com/purchase-zero/backend/pkg/controllers/v1"
	"github.com/purchase-zero/backend/test"
	"github.com/shopspring/decimal"
)

// createReportData creates purchases of two vendors in 2024 and one in 2023.
func (suite *TestSuiteStandard) createReportData() {
	office := suite.createVendor("Office Supplies Co.")
	tech := suite.createVendor("Tech Solutions Inc.")
	budget := suite.createBudget("IT-EQUIP", map[string]string{"2024": "2000"})

	suite.createPurchase("PO-1", "2024-03-15", office.Data.ID.String(), 2, "45.99", "")
	suite.createPurchase("PO-2", "2024-03-20", tech.Data.ID.String(), 1, "1299.99", budget.Data.ID.String())
	suite.createPurchase("PO-3", "2024-05-02", tech.Data.ID.String(), 1, "200", budget.Data.ID.String())
	suite.createPurchase("PO-4", "2023-05-02", tech.Data.ID.String(), 1, "999", "")
}

func (suite *TestSuiteStandard) TestReportsOptions() {
	for _, path := range []string{"budget", "monthly", "vendors", "dashboard"} {
		r := suite.request(http.MethodOptions, "http://example.com/v1/reports/"+path, nil)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
		suite.Assert().Equal("OPTIONS, GET", r.Header().Get("allow"), path)
	}
}

func (suite *TestSuiteStandard) TestReportsBudget() {
	suite.createReportData()

	r := suite.request(http.MethodGet, "http://example.com/v1/reports/budget", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var report v1.BudgetReportResponse
	test.DecodeResponse(suite.T(), &r, &report)
	suite.Assert().Equal(2024, report.Year)
	suite.Require().Len(report.Budgets, 1)
	suite.Assert().True(report.Budgets[0].Spent.Equal(decimal.RequireFromString("1499.99")), report.Budgets[0].Spent.String())
	suite.Assert().True(report.Budgets[0].Remaining.Equal(decimal.RequireFromString("500.01")))
	suite.Require().Len(report.Months, 12)
	suite.Assert().True(report.Months[time.March-1].Amount.Equal(decimal.RequireFromString("1391.97")))
}

func (suite *TestSuiteStandard) TestReportsBudgetDownload() {
	suite.createReportData()

	r := suite.request(http.MethodGet, "http://example.com/v1/reports/budget?year=2024&format=csv", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().Equal("attachment; filename=budget_report_2024.csv", r.Header().Get("Content-Disposition"))
	suite.Assert().True(strings.HasPrefix(r.Body.String(), "Budget Report,Fiscal Year: 2024"), r.Body.String())
	suite.Assert().Contains(r.Body.String(), "Monthly Breakdown")

	r = suite.request(http.MethodGet, "http://example.com/v1/reports/budget?year=2024&format=xlsx", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().Equal("attachment; filename=budget_report_2024.xlsx", r.Header().Get("Content-Disposition"))
	suite.Assert().True(strings.HasPrefix(r.Body.String(), "PK"), "XLSX files are zip archives")
}

func (suite *TestSuiteStandard) TestReportsMonthly() {
	suite.createReportData()

	r := suite.request(http.MethodGet, "http://example.com/v1/reports/monthly?year=2023", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var report v1.MonthlyReportResponse
	test.DecodeResponse(suite.T(), &r, &report)
	suite.Assert().Equal(2023, report.Year)
	suite.Require().Len(report.Data, 12)
	suite.Assert().Equal("May", report.Data[4].Name)
	suite.Assert().True(report.Data[4].Amount.Equal(decimal.NewFromInt(999)))
	suite.Assert().True(report.Data[0].Amount.IsZero())

	r = suite.request(http.MethodGet, "http://example.com/v1/reports/monthly?format=csv", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestReportsVendors() {
	suite.createReportData()

	r := suite.request(http.MethodGet, "http://example.com/v1/reports/vendors?year=2024", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var report v1.VendorReportResponse
	test.DecodeResponse(suite.T(), &r, &report)
	suite.Require().Len(report.Data, 2)
	suite.Assert().Equal("Tech Solutions Inc.", report.Data[0].Name, "Vendors must be ordered by total")
	suite.Assert().Equal(2, report.Data[0].Count)
	suite.Assert().True(report.Data[0].Total.Equal(decimal.RequireFromString("1499.99")))
	suite.Assert().Equal(1, report.Data[1].Count)

	r = suite.request(http.MethodGet, "http://example.com/v1/reports/vendors?year=2024&format=csv", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().Equal("attachment; filename=vendor_report_2024.csv", r.Header().Get("Content-Disposition"))
	suite.Assert().Contains(r.Body.String(), "Vendor,Total Spent,Number of Orders,Avg Order Value")
}

func (suite *TestSuiteStandard) TestReportsQueryFails() {
	tests := []struct {
		name string
		url  string
	}{
		{"Year too small", "http://example.com/v1/reports/budget?year=99"},
		{"Year not a number", "http://example.com/v1/reports/vendors?year=last"},
		{"Unknown format", "http://example.com/v1/reports/budget?format=pdf"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(http.MethodGet, tt.url, nil)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestReportsDashboard() {
	suite.createReportData()

	vendor := suite.createVendor("Approved Vendor")
	approved := suite.createPurchase("PO-5", "2024-06-01", vendor.Data.ID.String(), 1, "1", "")
	r := suite.request(http.MethodPost, "http://example.com/v1/purchases/"+approved.Data.ID.String()+"/approve", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = suite.request(http.MethodGet, "http://example.com/v1/reports/dashboard", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var dashboard v1.DashboardResponse
	test.DecodeResponse(suite.T(), &r, &dashboard)
	suite.Assert().Equal(5, dashboard.Data.PendingReceipts)
	suite.Assert().Equal(4, dashboard.Data.OrdersThisYear)
	suite.Assert().Equal(4, dashboard.Data.PendingApprovals)
	suite.Assert().True(dashboard.Data.YTDSpending.Equal(decimal.RequireFromString("1592.97")), dashboard.Data.YTDSpending.String())
}

func (suite *TestSuiteStandard) TestReportsDBClosed() {
	suite.DisconnectDB()

	r := suite.request(http.MethodGet, "http://example.com/v1/reports/dashboard", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}
