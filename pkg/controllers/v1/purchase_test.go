package v1_test

import (
	"fmt"
	"net/http"
	"strings"

	v1 "github.com/purchase-zero/backend/pkg/controllers/v1"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/purchase-zero/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestPurchasesOptions() {
	r := suite.request(http.MethodOptions, "http://example.com/v1/purchases", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, POST", r.Header().Get("allow"))

	r = suite.request(http.MethodOptions, "http://example.com/v1/purchases/import", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, POST", r.Header().Get("allow"))

	r = suite.request(http.MethodOptions, "http://example.com/v1/purchases/export", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET", r.Header().Get("allow"))

	r = suite.request(http.MethodOptions, "http://example.com/v1/purchases/5c3f2a3e-6d1b-4bb6-a4a9-6b8d7a3d0a11", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestPurchasesActionOptions() {
	vendor := suite.createVendor("Office Supplies Co.")
	p := suite.createPurchase("PO-1", "2024-03-15", vendor.Data.ID.String(), 1, "10", "")

	for _, action := range []string{"approve", "reject", "receive"} {
		suite.Run(action, func() {
			r := suite.request(http.MethodOptions, fmt.Sprintf("http://example.com/v1/purchases/%s/%s", p.Data.ID, action), nil)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
			suite.Assert().Equal("OPTIONS, POST", r.Header().Get("allow"))

			r = suite.request(http.MethodOptions, fmt.Sprintf("http://example.com/v1/purchases/5c3f2a3e-6d1b-4bb6-a4a9-6b8d7a3d0a11/%s", action), nil)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

			r = suite.request(http.MethodOptions, fmt.Sprintf("http://example.com/v1/purchases/not-a-uuid/%s", action), nil)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestPurchasesCreate() {
	vendor := suite.createVendor("Office Supplies Co.")
	budget := suite.createBudget("OFC-SUP", nil)

	r := suite.request(http.MethodPost, "http://example.com/v1/purchases", map[string]any{
		"orderNumber":   "PO-2024-0001",
		"invoiceNumber": "INV-1",
		"date":          "2024-03-15",
		"vendorId":      vendor.Data.ID,
		"lineItems": []map[string]any{
			{"description": "Copy Paper (Case)", "quantity": 2, "unitPrice": "45.99"},
			{"description": "Stapler", "quantity": 1, "unitPrice": "12.50", "received": true},
		},
		"budgets": []map[string]any{
			{"budgetId": budget.Data.ID, "amount": "104.48"},
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var purchase v1.PurchaseResponse
	test.DecodeResponse(suite.T(), &r, &purchase)
	suite.Assert().Equal("PO-2024-0001", purchase.Data.OrderNumber)
	suite.Assert().Equal("Office Supplies Co.", purchase.Data.VendorName)
	suite.Assert().Equal(models.StatusPending, purchase.Data.Status)
	suite.Assert().True(purchase.Data.Total.Equal(decimal.RequireFromString("104.48")), purchase.Data.Total.String())
	suite.Assert().Equal(models.ReceivingPartial, purchase.Data.Receiving)
	suite.Require().Len(purchase.Data.LineItems, 2)
	suite.Assert().Equal("Copy Paper (Case)", purchase.Data.LineItems[0].Description, "Line items must keep their order")
	suite.Require().Len(purchase.Data.Budgets, 1)
	suite.Assert().Equal(budget.Data.ID, purchase.Data.Budgets[0].BudgetID)
}

func (suite *TestSuiteStandard) TestPurchasesCreateFails() {
	vendor := suite.createVendor("Office Supplies Co.")
	budget := suite.createBudget("OFC-SUP", nil)
	suite.createPurchase("PO-TAKEN", "2024-03-15", vendor.Data.ID.String(), 1, "10", "")

	item := []map[string]any{{"description": "Item", "quantity": 1, "unitPrice": "100"}}

	tests := []struct {
		name   string
		body   map[string]any
		status int
		err    string
	}{
		{"No order number", map[string]any{"date": "2024-03-15", "vendorId": vendor.Data.ID}, http.StatusBadRequest, "the order number must be set"},
		{"No date", map[string]any{"orderNumber": "PO-1", "vendorId": vendor.Data.ID}, http.StatusBadRequest, "the date must be set"},
		{"Invalid date", map[string]any{"orderNumber": "PO-1", "date": "03/15/2024", "vendorId": vendor.Data.ID}, http.StatusBadRequest, "the date must be formatted as YYYY-MM-DD"},
		{"No vendor", map[string]any{"orderNumber": "PO-1", "date": "2024-03-15"}, http.StatusBadRequest, "the vendor must be set"},
		{"Unknown vendor", map[string]any{"orderNumber": "PO-1", "date": "2024-03-15", "vendorId": "5c3f2a3e-6d1b-4bb6-a4a9-6b8d7a3d0a11"}, http.StatusNotFound, "vendor not found"},
		{"Duplicate order number", map[string]any{"orderNumber": "PO-TAKEN", "date": "2024-03-15", "vendorId": vendor.Data.ID}, http.StatusBadRequest, "a purchase with this order number already exists"},
		{"Zero quantity", map[string]any{"orderNumber": "PO-1", "date": "2024-03-15", "vendorId": vendor.Data.ID, "lineItems": []map[string]any{{"quantity": 0, "unitPrice": "1"}}}, http.StatusBadRequest, "quantity must be a positive integer"},
		{"Negative price", map[string]any{"orderNumber": "PO-1", "date": "2024-03-15", "vendorId": vendor.Data.ID, "lineItems": []map[string]any{{"quantity": 1, "unitPrice": "-1"}}}, http.StatusBadRequest, "unit price must not be negative"},
		{
			"Allocation mismatch",
			map[string]any{"orderNumber": "PO-1", "date": "2024-03-15", "vendorId": vendor.Data.ID, "lineItems": item, "budgets": []map[string]any{{"budgetId": budget.Data.ID, "amount": "99.98"}}},
			http.StatusBadRequest,
			"total budget allocation must match total purchase amount",
		},
		{
			"Unknown budget",
			map[string]any{"orderNumber": "PO-1", "date": "2024-03-15", "vendorId": vendor.Data.ID, "lineItems": item, "budgets": []map[string]any{{"budgetId": "5c3f2a3e-6d1b-4bb6-a4a9-6b8d7a3d0a11", "amount": "100"}}},
			http.StatusNotFound,
			"budget not found",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(http.MethodPost, "http://example.com/v1/purchases", tt.body)
			test.AssertHTTPStatus(suite.T(), &r, tt.status)
			suite.Assert().Contains(test.DecodeError(suite.T(), r.Body.Bytes()), tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestPurchasesAllocationTolerance() {
	vendor := suite.createVendor("Office Supplies Co.")
	budget := suite.createBudget("OFC-SUP", nil)

	r := suite.request(http.MethodPost, "http://example.com/v1/purchases", map[string]any{
		"orderNumber": "PO-1",
		"date":        "2024-03-15",
		"vendorId":    vendor.Data.ID,
		"lineItems":   []map[string]any{{"quantity": 1, "unitPrice": "100"}},
		"budgets":     []map[string]any{{"budgetId": budget.Data.ID, "amount": "99.99"}},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)
}

func (suite *TestSuiteStandard) TestPurchasesUpdate() {
	vendor := suite.createVendor("Office Supplies Co.")
	other := suite.createVendor("Tech Solutions Inc.")
	purchase := suite.createPurchase("PO-1", "2024-03-15", vendor.Data.ID.String(), 1, "10", "")

	r := suite.request(http.MethodPatch, fmt.Sprintf("http://example.com/v1/purchases/%s", purchase.Data.ID), map[string]any{
		"orderNumber": "PO-1",
		"date":        "2024-04-01",
		"vendorId":    other.Data.ID,
		"notes":       "Changed vendor",
		"lineItems": []map[string]any{
			{"description": "Laptop", "quantity": 3, "unitPrice": "999.99"},
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.PurchaseResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal("2024-04-01", updated.Data.Date)
	suite.Assert().Equal("Tech Solutions Inc.", updated.Data.VendorName)
	suite.Assert().Equal("Changed vendor", updated.Data.Notes)
	suite.Require().Len(updated.Data.LineItems, 1, "Line items must be replaced")
	suite.Assert().True(updated.Data.Total.Equal(decimal.RequireFromString("2999.97")))

	r = suite.request(http.MethodPatch, fmt.Sprintf("http://example.com/v1/purchases/%s", purchase.Data.ID), map[string]any{
		"orderNumber": "PO-1",
		"date":        "2024-04-01",
		"vendorId":    other.Data.ID,
		"status":      "Done",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal("the status must be one of Pending, Approved, Rejected", test.DecodeError(suite.T(), r.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestPurchasesDelete() {
	vendor := suite.createVendor("Office Supplies Co.")
	purchase := suite.createPurchase("PO-1", "2024-03-15", vendor.Data.ID.String(), 1, "10", "")

	r := suite.request(http.MethodDelete, fmt.Sprintf("http://example.com/v1/purchases/%s", purchase.Data.ID), nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(http.MethodGet, fmt.Sprintf("http://example.com/v1/purchases/%s", purchase.Data.ID), nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
	suite.Assert().Equal("purchase not found", test.DecodeError(suite.T(), r.Body.Bytes()))

	r = suite.request(http.MethodDelete, fmt.Sprintf("http://example.com/v1/purchases/%s", purchase.Data.ID), nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestPurchasesApprove() {
	vendor := suite.createVendor("Office Supplies Co.")
	purchase := suite.createPurchase("PO-1", "2024-03-15", vendor.Data.ID.String(), 1, "10", "")
	url := fmt.Sprintf("http://example.com/v1/purchases/%s/approve", purchase.Data.ID)

	r := suite.request(http.MethodPost, url, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var approved v1.PurchaseResponse
	test.DecodeResponse(suite.T(), &r, &approved)
	suite.Assert().Equal(models.StatusApproved, approved.Data.Status)
	suite.Assert().Equal("Manager", approved.Data.Approver, "Approvals without approver must use the default approver")
	suite.Assert().Equal("2024-06-15", approved.Data.ApprovalDate)

	r = suite.request(http.MethodPost, url, map[string]any{"approver": "Jane Doe"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal("purchase status is already Approved", test.DecodeError(suite.T(), r.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestPurchasesReject() {
	vendor := suite.createVendor("Office Supplies Co.")
	purchase := suite.createPurchase("PO-1", "2024-03-15", vendor.Data.ID.String(), 1, "10", "")

	r := suite.request(http.MethodPost, fmt.Sprintf("http://example.com/v1/purchases/%s/reject", purchase.Data.ID), map[string]any{
		"approver": "Jane Doe",
		"notes":    "Over budget",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var rejected v1.PurchaseResponse
	test.DecodeResponse(suite.T(), &r, &rejected)
	suite.Assert().Equal(models.StatusRejected, rejected.Data.Status)
	suite.Assert().Equal("Jane Doe", rejected.Data.Approver)
	suite.Assert().Equal("Over budget", rejected.Data.Notes)

	r = suite.request(http.MethodPost, fmt.Sprintf("http://example.com/v1/purchases/%s/approve", purchase.Data.ID), nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = suite.request(http.MethodPost, "http://example.com/v1/purchases/not-a-uuid/reject", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestPurchasesReceive() {
	vendor := suite.createVendor("Office Supplies Co.")

	r := suite.request(http.MethodPost, "http://example.com/v1/purchases", map[string]any{
		"orderNumber": "PO-1",
		"date":        "2024-03-15",
		"vendorId":    vendor.Data.ID,
		"lineItems": []map[string]any{
			{"description": "One", "quantity": 1, "unitPrice": "1"},
			{"description": "Two", "quantity": 1, "unitPrice": "2"},
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var purchase v1.PurchaseResponse
	test.DecodeResponse(suite.T(), &r, &purchase)
	suite.Assert().Equal(models.ReceivingPending, purchase.Data.Receiving)
	url := fmt.Sprintf("http://example.com/v1/purchases/%s/receive", purchase.Data.ID)

	r = suite.request(http.MethodPost, url, map[string]any{"positions": []int{0, 7}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &purchase)
	suite.Assert().Equal(models.ReceivingPartial, purchase.Data.Receiving)
	suite.Assert().True(purchase.Data.LineItems[0].Received)

	r = suite.request(http.MethodPost, url, map[string]any{"positions": []int{1}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &purchase)
	suite.Assert().Equal(models.ReceivingReceived, purchase.Data.Receiving)

	r = suite.request(http.MethodPost, url, map[string]any{"positions": []int{0, 1}, "received": false})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &purchase)
	suite.Assert().Equal(models.ReceivingPending, purchase.Data.Receiving)

	r = suite.request(http.MethodPost, url, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestPurchasesSearch() {
	office := suite.createVendor("Office Supplies Co.")
	tech := suite.createVendor("Tech Solutions Inc.")
	suite.createPurchase("PO-2024-0001", "2024-01-10", office.Data.ID.String(), 1, "50", "")
	suite.createPurchase("PO-2024-0002", "2024-02-10", tech.Data.ID.String(), 1, "500", "")
	suite.createPurchase("PO-2023-0001", "2023-12-01", tech.Data.ID.String(), 1, "5", "")

	tests := []struct {
		name   string
		query  string
		orders []string
	}{
		{"All, newest first", "", []string{"PO-2024-0002", "PO-2024-0001", "PO-2023-0001"}},
		{"Text", "search=tech", []string{"PO-2024-0002", "PO-2023-0001"}},
		{"Glob on order number", "search=PO-2024-*&field=orderNumber", []string{"PO-2024-0002", "PO-2024-0001"}},
		{"Year", "year=2023", []string{"PO-2023-0001"}},
		{"Sort by total", "sort=total&desc=true", []string{"PO-2024-0002", "PO-2024-0001", "PO-2023-0001"}},
		{"Sort by order number", "sort=orderNumber", []string{"PO-2023-0001", "PO-2024-0001", "PO-2024-0002"}},
		{"Status", "status=Approved", []string{}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(http.MethodGet, fmt.Sprintf("http://example.com/v1/purchases?%s", tt.query), nil)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

			var list v1.PurchaseListResponse
			test.DecodeResponse(suite.T(), &r, &list)

			orders := make([]string, 0, len(list.Data))
			for _, p := range list.Data {
				orders = append(orders, p.OrderNumber)
			}
			suite.Assert().Equal(tt.orders, orders)
		})
	}

	r := suite.request(http.MethodGet, "http://example.com/v1/purchases?year=soon", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestPurchasesImport() {
	office := suite.createVendor("Office Supplies Co.")
	suite.createBudget("OFC-SUP", nil)
	suite.createBudget("IT-EQUIP", nil)

	body, headers := test.LoadTestFile(suite.T(), "importer/purchasecsv/purchases.csv")
	r := suite.request(http.MethodPost, "http://example.com/v1/purchases/import", body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var summary v1.ImportResponse
	test.DecodeResponse(suite.T(), &r, &summary)
	suite.Assert().Equal(3, summary.Data.Imported)
	suite.Assert().Equal("Import completed: 3 purchases imported, 0 skipped, 0 errors", summary.Data.Message)

	r = suite.request(http.MethodGet, "http://example.com/v1/purchases?sort=orderNumber", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.PurchaseListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Require().Len(list.Data, 3)
	suite.Assert().Equal(office.Data.ID, list.Data[0].VendorID)
	suite.Assert().Equal("2024-03-20", list.Data[1].Date)

	body, headers = test.LoadTestFile(suite.T(), "importer/purchasecsv/purchases.csv")
	r = suite.request(http.MethodPost, "http://example.com/v1/purchases/import", body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)
	test.DecodeResponse(suite.T(), &r, &summary)
	suite.Assert().Equal(3, summary.Data.Skipped)
}

func (suite *TestSuiteStandard) TestPurchasesImportFails() {
	r := suite.request(http.MethodPost, "http://example.com/v1/purchases/import", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal("you must send a file to this endpoint", test.DecodeError(suite.T(), r.Body.Bytes()))

	body, headers := test.LoadTestFile(suite.T(), "importer/purchasecsv/missing-columns.csv")
	r = suite.request(http.MethodPost, "http://example.com/v1/purchases/import", body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Contains(test.DecodeError(suite.T(), r.Body.Bytes()), "the CSV header is missing required columns")
}

func (suite *TestSuiteStandard) TestPurchasesExport() {
	vendor := suite.createVendor("Office Supplies Co.")
	suite.createPurchase("PO-1", "2024-03-15", vendor.Data.ID.String(), 2, "45.99", "")
	suite.createPurchase("PO-2", "2023-03-15", vendor.Data.ID.String(), 1, "10", "")

	r := suite.request(http.MethodGet, "http://example.com/v1/purchases/export?year=2024", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().Equal("attachment; filename=purchases.csv", r.Header().Get("Content-Disposition"))
	suite.Assert().True(strings.HasPrefix(r.Body.String(), "Order Number,Date,Vendor,Invoice Number,Total Amount,Status\n"), r.Body.String())
	suite.Assert().Contains(r.Body.String(), "PO-1")
	suite.Assert().NotContains(r.Body.String(), "PO-2")

	r = suite.request(http.MethodGet, "http://example.com/v1/purchases/export?format=xlsx", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", r.Header().Get("Content-Type"))

	r = suite.request(http.MethodGet, "http://example.com/v1/purchases/export?format=pdf", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
